package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ratehub/internal/model"
)

// StoreAggregate is the live mean and count over one store's ratings.
type StoreAggregate struct {
	StoreID uint
	Average float64
	Count   int64
}

// RatingRepository defines rating persistence and aggregation operations.
// Aggregates are computed against live rows on every call; nothing is
// maintained as a running counter.
type RatingRepository interface {
	// Upsert atomically inserts the rating or, when a row for the same
	// (account, store) pair exists, overwrites its value and refreshes its
	// update timestamp in a single statement. It returns the post-write row.
	Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error)
	AggregateForStore(ctx context.Context, storeID uint) (*StoreAggregate, error)
	AggregatesForStores(ctx context.Context, storeIDs []uint) (map[uint]StoreAggregate, error)
	ValuesByAccount(ctx context.Context, accountID uint, storeIDs []uint) (map[uint]int, error)
	ListByStore(ctx context.Context, storeID uint) ([]model.Rating, error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository builds a GORM-backed repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	// Native conflict resolution on the (account_id, store_id) unique index;
	// concurrent submissions for the same pair cannot race into two rows or a
	// lost update.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return nil, err
	}

	var saved model.Rating
	err = r.db.WithContext(ctx).
		Where("account_id = ? AND store_id = ?", rating.AccountID, rating.StoreID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ratingRepository) AggregateForStore(ctx context.Context, storeID uint) (*StoreAggregate, error) {
	agg := StoreAggregate{StoreID: storeID}
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *ratingRepository) AggregatesForStores(ctx context.Context, storeIDs []uint) (map[uint]StoreAggregate, error) {
	result := make(map[uint]StoreAggregate, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	var rows []StoreAggregate
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Select("store_id, AVG(value) AS average, COUNT(*) AS count").
		Where("store_id IN ?", storeIDs).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.StoreID] = row
	}
	return result, nil
}

func (r *ratingRepository) ValuesByAccount(ctx context.Context, accountID uint, storeIDs []uint) (map[uint]int, error) {
	result := make(map[uint]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	var rows []model.Rating
	err := r.db.WithContext(ctx).
		Select("store_id, value").
		Where("account_id = ? AND store_id IN ?", accountID, storeIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.StoreID] = row.Value
	}
	return result, nil
}

func (r *ratingRepository) ListByStore(ctx context.Context, storeID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("store_id = ?", storeID).
		Order("updated_at DESC").Order("id ASC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Rating{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
