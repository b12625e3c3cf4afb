package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"ratehub/internal/model"
	"ratehub/internal/query"
	"ratehub/internal/repository"
)

// mockAccountRepo is a mock implementation of repository.AccountRepository.
type mockAccountRepo struct {
	mock.Mock
}

var _ repository.AccountRepository = (*mockAccountRepo)(nil)

func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockAccountRepo) List(ctx context.Context, params query.Params) ([]model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockAccountRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// mockTokenStore is a mock implementation of TokenStoreInterface.
type mockTokenStore struct {
	mock.Mock
}

var _ TokenStoreInterface = (*mockTokenStore)(nil)

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func verifiedToken(accountID uint, tokenID string) *jwt.Token {
	return &jwt.Token{
		Claims: &Claims{
			AccountID: accountID,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        tokenID,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			},
		},
		Valid: true,
	}
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestLoadAccount(t *testing.T) {
	t.Run("resolves the token to a live account", func(t *testing.T) {
		accounts := new(mockAccountRepo)
		accounts.On("FindByID", mock.Anything, uint(42)).Return(&model.Account{ID: 42, Role: model.RoleUser}, nil)
		tokens := new(mockTokenStore)
		tokens.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil)

		c := newTestContext()
		c.Set("user", verifiedToken(42, "jti-1"))

		called := false
		err := NewMiddleware(accounts, tokens).LoadAccount(okHandler(&called))(c)

		assert.NoError(t, err)
		assert.True(t, called)
		account := AccountFromContext(c)
		if assert.NotNil(t, account) {
			assert.Equal(t, uint(42), account.ID)
		}
	})

	t.Run("deleted account fails as unauthenticated, not missing", func(t *testing.T) {
		accounts := new(mockAccountRepo)
		accounts.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
		tokens := new(mockTokenStore)
		tokens.On("IsRevoked", mock.Anything, "jti-1").Return(false, nil)

		c := newTestContext()
		c.Set("user", verifiedToken(42, "jti-1"))

		called := false
		err := NewMiddleware(accounts, tokens).LoadAccount(okHandler(&called))(c)

		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
		assert.False(t, called, "the guarded operation must never run")
	})

	t.Run("revoked token fails closed", func(t *testing.T) {
		tokens := new(mockTokenStore)
		tokens.On("IsRevoked", mock.Anything, "jti-1").Return(true, nil)

		c := newTestContext()
		c.Set("user", verifiedToken(42, "jti-1"))

		called := false
		err := NewMiddleware(new(mockAccountRepo), tokens).LoadAccount(okHandler(&called))(c)

		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
		assert.False(t, called)
	})

	t.Run("missing token fails closed", func(t *testing.T) {
		c := newTestContext()

		called := false
		err := NewMiddleware(new(mockAccountRepo), new(mockTokenStore)).LoadAccount(okHandler(&called))(c)

		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
		assert.False(t, called)
	})
}

func TestRequireRoles(t *testing.T) {
	run := func(account *model.Account, roles ...model.Role) (error, bool) {
		c := newTestContext()
		if account != nil {
			c.Set(accountContextKey, account)
		}
		called := false
		err := RequireRoles(roles...)(okHandler(&called))(c)
		return err, called
	}

	t.Run("matching role passes", func(t *testing.T) {
		err, called := run(&model.Account{ID: 1, Role: model.RoleAdmin}, model.RoleAdmin)
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("wrong role is forbidden, distinct from unauthenticated", func(t *testing.T) {
		err, called := run(&model.Account{ID: 42, Role: model.RoleUser}, model.RoleAdmin)
		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusForbidden, httpErr.Code)
		}
		assert.False(t, called)
	})

	t.Run("no account is unauthenticated", func(t *testing.T) {
		err, called := run(nil, model.RoleAdmin)
		httpErr, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		}
		assert.False(t, called)
	})

	t.Run("empty set admits any authenticated account", func(t *testing.T) {
		err, called := run(&model.Account{ID: 11, Role: model.RoleStoreOwner})
		assert.NoError(t, err)
		assert.True(t, called)
	})
}
