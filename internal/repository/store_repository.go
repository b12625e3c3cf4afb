package repository

import (
	"context"

	"gorm.io/gorm"

	"ratehub/internal/model"
	"ratehub/internal/query"
)

// StoreRepository defines store persistence operations.
type StoreRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Store, error)
	List(ctx context.Context, params query.Params) ([]model.Store, error)
	Count(ctx context.Context) (int64, error)
	// ProvisionWithOwner creates the store, the owning account, and the
	// store's back-reference to its owner as one transaction. Any failure
	// rolls all three back, so no orphaned store or account can persist.
	ProvisionWithOwner(ctx context.Context, store *model.Store, owner *model.Account) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository builds a GORM-backed repository.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context, params query.Params) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.WithContext(ctx).Scopes(query.Stores.Scope(params)).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *storeRepository) ProvisionWithOwner(ctx context.Context, store *model.Store, owner *model.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return err
		}
		owner.StoreID = &store.ID
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		return tx.Model(store).Update("owner_id", owner.ID).Error
	})
}
