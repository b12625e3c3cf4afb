package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

// RaterRating is one rater's identity and current value for a store.
type RaterRating struct {
	AccountID uint      `json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerDashboard is the store owner's view: live mean plus every rater,
// most recently updated first.
type OwnerDashboard struct {
	StoreID       uint          `json:"store_id"`
	AverageRating float64       `json:"average_rating"`
	RatingCount   int64         `json:"rating_count"`
	Raters        []RaterRating `json:"raters"`
}

// RatingService owns rating submission and the owner dashboard.
type RatingService interface {
	// Submit upserts the caller's rating for a store. The caller cannot
	// distinguish a create from an update; either way the post-write row is
	// returned and immediately visible to aggregates.
	Submit(ctx context.Context, accountID, storeID uint, value int) (*model.Rating, error)
	Dashboard(ctx context.Context, account *model.Account) (*OwnerDashboard, error)
}

type ratingService struct {
	stores  repository.StoreRepository
	ratings repository.RatingRepository
}

// NewRatingService builds a RatingService.
func NewRatingService(stores repository.StoreRepository, ratings repository.RatingRepository) RatingService {
	return &ratingService{stores: stores, ratings: ratings}
}

func (s *ratingService) Submit(ctx context.Context, accountID, storeID uint, value int) (*model.Rating, error) {
	if value < 1 || value > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find store: %w", err)
	}

	rating := &model.Rating{AccountID: accountID, StoreID: storeID, Value: value}
	saved, err := s.ratings.Upsert(ctx, rating)
	if err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}
	return saved, nil
}

func (s *ratingService) Dashboard(ctx context.Context, account *model.Account) (*OwnerDashboard, error) {
	if account.StoreID == nil {
		return nil, apperrors.ErrNotFound
	}
	storeID := *account.StoreID

	agg, err := s.ratings.AggregateForStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("aggregate store ratings: %w", err)
	}

	ratings, err := s.ratings.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store ratings: %w", err)
	}

	raters := make([]RaterRating, 0, len(ratings))
	for _, rating := range ratings {
		rater := RaterRating{
			AccountID: rating.AccountID,
			Value:     rating.Value,
			UpdatedAt: rating.UpdatedAt,
		}
		if rating.Account != nil {
			rater.Name = rating.Account.Name
			rater.Email = rating.Account.Email
		}
		raters = append(raters, rater)
	}

	return &OwnerDashboard{
		StoreID:       storeID,
		AverageRating: round2(agg.Average),
		RatingCount:   agg.Count,
		Raters:        raters,
	}, nil
}
