package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/auth"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
)

const (
	validName     = "Jonathan Quincy Ratingsmith"
	validPassword = "Password@1"
)

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name           string
		accountName    string
		email          string
		password       string
		address        string
		setupMock      func(*MockAccountRepository)
		expectedError  error
		wantViolations []string
	}{
		{
			name:        "successful registration",
			accountName: validName,
			email:       "test@example.com",
			password:    validPassword,
			address:     "5 Elm Street",
			setupMock: func(m *MockAccountRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Account")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Account).ID = 1
					}).Return(nil)
			},
		},
		{
			name:        "short name reports only the name rule",
			accountName: "Short Name",
			email:       "test@example.com",
			password:    validPassword,
			setupMock:   func(m *MockAccountRepository) {},
			wantViolations: []string{
				"name must be between 20 and 60 characters",
			},
		},
		{
			name:        "every broken rule reported together",
			accountName: "Short",
			email:       "not-an-email",
			password:    "weak",
			setupMock:   func(m *MockAccountRepository) {},
			wantViolations: []string{
				"name must be between 20 and 60 characters",
				"email must be a valid email address",
				"password must be between 8 and 16 characters",
				"password must contain at least one uppercase letter",
				"password must contain at least one special character",
			},
		},
		{
			name:        "duplicate email is a conflict",
			accountName: validName,
			email:       "existing@example.com",
			password:    validPassword,
			setupMock: func(m *MockAccountRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Account")).
					Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			mockTokens := new(MockTokenStore)
			svc := NewAuthService(mockRepo, jwtService, mockTokens)

			account, token, err := svc.Register(context.Background(), tt.accountName, tt.email, tt.password, tt.address)

			switch {
			case len(tt.wantViolations) > 0:
				var vErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantViolations, vErr.Violations)
				assert.Nil(t, account)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, account)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, account)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, account.Email)
				assert.Equal(t, model.RoleUser, account.Role)
				assert.NotEmpty(t, account.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockAccountRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: validPassword,
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.Account{
					ID:           1,
					Email:        "test@example.com",
					PasswordHash: string(hash),
					Role:         model.RoleUser,
				}, nil)
			},
		},
		{
			name:     "account not found",
			email:    "notfound@example.com",
			password: validPassword,
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "Wrong@password1",
			setupMock: func(m *MockAccountRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.Account{
					ID:           1,
					Email:        "test@example.com",
					PasswordHash: string(hash),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			account, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, account)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.NotNil(t, account)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), 10)

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Account{ID: 1, PasswordHash: string(hash)}, nil)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), 1, "Wrong@password1", "NewSecret@1")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weak new password reports all rules", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Account{ID: 1, PasswordHash: string(hash)}, nil)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), 1, validPassword, "weak")

		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Len(t, vErr.Violations, 3)
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful change stores new hash", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Account{ID: 1, PasswordHash: string(hash)}, nil)
		mockRepo.On("UpdatePassword", mock.Anything, uint(1), mock.AnythingOfType("string")).Return(nil)

		svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		err := svc.ChangePassword(context.Background(), 1, validPassword, "NewSecret@1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockTokens := new(MockTokenStore)
	mockTokens.On("Revoke", mock.Anything, "token-id", mock.AnythingOfType("time.Duration")).Return(nil)

	svc := NewAuthService(new(MockAccountRepository), auth.NewJWTService("test-secret"), mockTokens)

	assert.NoError(t, svc.Logout(context.Background(), "token-id", auth.TokenExpiry))
	assert.ErrorIs(t, svc.Logout(context.Background(), "", auth.TokenExpiry), apperrors.ErrUnauthenticated)
	mockTokens.AssertExpectations(t)
}
