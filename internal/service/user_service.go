package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/query"
	"ratehub/internal/repository"
)

// AccountView is an account plus, for store owners, the live mean rating of
// their store.
type AccountView struct {
	model.Account
	Rating *float64 `json:"rating,omitempty"`
}

// DashboardCounts holds the admin dashboard totals, counted live.
type DashboardCounts struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// UserService exposes the admin-facing account operations.
type UserService interface {
	Create(ctx context.Context, name, email, password, address string, role model.Role) (*model.Account, error)
	Get(ctx context.Context, id uint) (*AccountView, error)
	List(ctx context.Context, params query.Params) ([]AccountView, error)
	Dashboard(ctx context.Context) (*DashboardCounts, error)
}

type userService struct {
	accounts repository.AccountRepository
	stores   repository.StoreRepository
	ratings  repository.RatingRepository
}

// NewUserService builds a UserService.
func NewUserService(accounts repository.AccountRepository, stores repository.StoreRepository, ratings repository.RatingRepository) UserService {
	return &userService{accounts: accounts, stores: stores, ratings: ratings}
}

// Create provisions a user or admin account. Store-owner accounts are only
// created through the store provisioning workflow.
func (s *userService) Create(ctx context.Context, name, email, password, address string, role model.Role) (*model.Account, error) {
	violations := accountViolations(name, email, password, address)
	if role != model.RoleUser && role != model.RoleAdmin {
		violations = append(violations, "role must be user or admin")
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		Role:         role,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Get returns one account; store owners additionally carry their store's mean.
func (s *userService) Get(ctx context.Context, id uint) (*AccountView, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	view := &AccountView{Account: *account}
	if account.Role == model.RoleStoreOwner && account.StoreID != nil {
		agg, err := s.ratings.AggregateForStore(ctx, *account.StoreID)
		if err != nil {
			return nil, fmt.Errorf("aggregate store ratings: %w", err)
		}
		mean := round2(agg.Average)
		view.Rating = &mean
	}
	return view, nil
}

// List returns accounts matching the filter/sort parameters, with each
// store owner's live store mean attached.
func (s *userService) List(ctx context.Context, params query.Params) ([]AccountView, error) {
	accounts, err := s.accounts.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var storeIDs []uint
	for _, account := range accounts {
		if account.Role == model.RoleStoreOwner && account.StoreID != nil {
			storeIDs = append(storeIDs, *account.StoreID)
		}
	}

	aggregates, err := s.ratings.AggregatesForStores(ctx, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("aggregate store ratings: %w", err)
	}

	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		view := AccountView{Account: account}
		if account.Role == model.RoleStoreOwner && account.StoreID != nil {
			mean := 0.0
			if agg, ok := aggregates[*account.StoreID]; ok {
				mean = round2(agg.Average)
			}
			view.Rating = &mean
		}
		views = append(views, view)
	}
	return views, nil
}

// Dashboard counts accounts, stores, and ratings live against current state.
func (s *userService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	users, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	stores, err := s.stores.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count stores: %w", err)
	}
	ratings, err := s.ratings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	return &DashboardCounts{TotalUsers: users, TotalStores: stores, TotalRatings: ratings}, nil
}
