package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/query"
	"ratehub/internal/repository"
)

// StoreInput holds the store fields of a provisioning request.
type StoreInput struct {
	Name    string
	Email   string
	Address string
}

// OwnerInput holds the owner-account fields of a provisioning request.
type OwnerInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// StoreView is a store plus its live aggregate and, for user listings, the
// caller's own rating when one exists.
type StoreView struct {
	model.Store
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
	MyRating      *int    `json:"my_rating,omitempty"`
}

// StoreService exposes store listing and the provisioning workflow.
type StoreService interface {
	// Provision creates a store and its owning account as one all-or-nothing
	// unit. Validation reports every violated rule before anything is written.
	Provision(ctx context.Context, store StoreInput, owner OwnerInput) (*model.Store, error)
	ListForAdmin(ctx context.Context, params query.Params) ([]StoreView, error)
	ListForUser(ctx context.Context, accountID uint, params query.Params) ([]StoreView, error)
}

type storeService struct {
	stores  repository.StoreRepository
	ratings repository.RatingRepository
}

// NewStoreService builds a StoreService.
func NewStoreService(stores repository.StoreRepository, ratings repository.RatingRepository) StoreService {
	return &storeService{stores: stores, ratings: ratings}
}

func (s *storeService) Provision(ctx context.Context, store StoreInput, owner OwnerInput) (*model.Store, error) {
	var violations []string
	violations = append(violations, nameViolations("store name", store.Name)...)
	violations = append(violations, emailViolations("store email", store.Email)...)
	violations = append(violations, addressViolations("store address", store.Address)...)
	violations = append(violations, nameViolations("owner name", owner.Name)...)
	violations = append(violations, emailViolations("owner email", owner.Email)...)
	violations = append(violations, passwordViolations("owner password", owner.Password)...)
	violations = append(violations, addressViolations("owner address", owner.Address)...)
	if len(violations) > 0 {
		return nil, apperrors.NewValidationError(violations)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(owner.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newStore := &model.Store{
		Name:    store.Name,
		Email:   store.Email,
		Address: store.Address,
	}
	newOwner := &model.Account{
		Name:         owner.Name,
		Email:        owner.Email,
		PasswordHash: string(hash),
		Address:      owner.Address,
		Role:         model.RoleStoreOwner,
	}

	if err := s.stores.ProvisionWithOwner(ctx, newStore, newOwner); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("provision store: %w", err)
	}
	return newStore, nil
}

func (s *storeService) ListForAdmin(ctx context.Context, params query.Params) ([]StoreView, error) {
	return s.list(ctx, 0, params)
}

func (s *storeService) ListForUser(ctx context.Context, accountID uint, params query.Params) ([]StoreView, error) {
	return s.list(ctx, accountID, params)
}

// list builds store views; accountID > 0 attaches that caller's own ratings.
func (s *storeService) list(ctx context.Context, accountID uint, params query.Params) ([]StoreView, error) {
	stores, err := s.stores.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	storeIDs := make([]uint, 0, len(stores))
	for _, store := range stores {
		storeIDs = append(storeIDs, store.ID)
	}

	aggregates, err := s.ratings.AggregatesForStores(ctx, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("aggregate store ratings: %w", err)
	}

	var own map[uint]int
	if accountID > 0 {
		own, err = s.ratings.ValuesByAccount(ctx, accountID, storeIDs)
		if err != nil {
			return nil, fmt.Errorf("load caller ratings: %w", err)
		}
	}

	views := make([]StoreView, 0, len(stores))
	for _, store := range stores {
		view := StoreView{Store: store}
		if agg, ok := aggregates[store.ID]; ok {
			view.AverageRating = round2(agg.Average)
			view.RatingCount = agg.Count
		}
		if value, ok := own[store.ID]; ok {
			v := value
			view.MyRating = &v
		}
		views = append(views, view)
	}
	return views, nil
}

// round2 rounds a live mean to two decimal places; zero stays exactly zero.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
