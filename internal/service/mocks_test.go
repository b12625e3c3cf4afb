package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ratehub/internal/auth"
	"ratehub/internal/model"
	"ratehub/internal/query"
	"ratehub/internal/repository"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

var _ repository.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context, params query.Params) ([]model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStoreRepository is a mock implementation of repository.StoreRepository.
type MockStoreRepository struct {
	mock.Mock
}

var _ repository.StoreRepository = (*MockStoreRepository)(nil)

func (m *MockStoreRepository) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Store), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context, params query.Params) ([]model.Store, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Store), args.Error(1)
}

func (m *MockStoreRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoreRepository) ProvisionWithOwner(ctx context.Context, store *model.Store, owner *model.Account) error {
	args := m.Called(ctx, store, owner)
	return args.Error(0)
}

// MockRatingRepository is a mock implementation of repository.RatingRepository.
type MockRatingRepository struct {
	mock.Mock
}

var _ repository.RatingRepository = (*MockRatingRepository)(nil)

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	args := m.Called(ctx, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

func (m *MockRatingRepository) AggregateForStore(ctx context.Context, storeID uint) (*repository.StoreAggregate, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StoreAggregate), args.Error(1)
}

func (m *MockRatingRepository) AggregatesForStores(ctx context.Context, storeIDs []uint) (map[uint]repository.StoreAggregate, error) {
	args := m.Called(ctx, storeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]repository.StoreAggregate), args.Error(1)
}

func (m *MockRatingRepository) ValuesByAccount(ctx context.Context, accountID uint, storeIDs []uint) (map[uint]int, error) {
	args := m.Called(ctx, accountID, storeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int), args.Error(1)
}

func (m *MockRatingRepository) ListByStore(ctx context.Context, storeID uint) ([]model.Rating, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Rating), args.Error(1)
}

func (m *MockRatingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

var _ auth.TokenStoreInterface = (*MockTokenStore)(nil)

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
