package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ratehub/internal/auth"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login, and credential maintenance.
type AuthService interface {
	Register(ctx context.Context, name, email, password, address string) (*model.Account, string, error)
	Login(ctx context.Context, email, password string) (*model.Account, string, error)
	ChangePassword(ctx context.Context, accountID uint, currentPassword, newPassword string) error
	Logout(ctx context.Context, tokenID string, remaining time.Duration) error
}

type authService struct {
	accounts   repository.AccountRepository
	jwtService *auth.JWTService
	tokens     auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts repository.AccountRepository, jwtService *auth.JWTService, tokens auth.TokenStoreInterface) AuthService {
	return &authService{
		accounts:   accounts,
		jwtService: jwtService,
		tokens:     tokens,
	}
}

// Register creates a user account and returns it with a fresh token. Every
// violated field rule is reported together; nothing is written when any fails.
func (s *authService) Register(ctx context.Context, name, email, password, address string) (*model.Account, string, error) {
	if violations := accountViolations(name, email, password, address); len(violations) > 0 {
		return nil, "", apperrors.NewValidationError(violations)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Address:      address,
		Role:         model.RoleUser,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.jwtService.Generate(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return account, token, nil
}

// Login authenticates an account and returns it with a fresh token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return account, token, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *authService) ChangePassword(ctx context.Context, accountID uint, currentPassword, newPassword string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	if violations := passwordViolations("password", newPassword); len(violations) > 0 {
		return apperrors.NewValidationError(violations)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.UpdatePassword(ctx, accountID, string(hash))
}

// Logout revokes the presented token for its remaining lifetime.
func (s *authService) Logout(ctx context.Context, tokenID string, remaining time.Duration) error {
	if tokenID == "" {
		return apperrors.ErrUnauthenticated
	}
	return s.tokens.Revoke(ctx, tokenID, remaining)
}
