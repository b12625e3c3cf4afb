package repository

import (
	"context"

	"gorm.io/gorm"

	"ratehub/internal/model"
	"ratehub/internal/query"
)

// AccountRepository defines account persistence operations.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	List(ctx context.Context, params query.Params) ([]model.Account, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository builds a GORM-backed repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *accountRepository) List(ctx context.Context, params query.Params) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.db.WithContext(ctx).Scopes(query.Accounts.Scope(params)).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
