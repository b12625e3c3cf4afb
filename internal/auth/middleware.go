package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/repository"
)

const accountContextKey = "account"

// Middleware resolves verified tokens to live accounts. Signature and expiry
// checks happen earlier in the echo-jwt layer; this stage fails closed on
// revoked tokens and on tokens whose account no longer exists.
type Middleware struct {
	accounts repository.AccountRepository
	tokens   TokenStoreInterface
}

// NewMiddleware creates the account-loading middleware.
func NewMiddleware(accounts repository.AccountRepository, tokens TokenStoreInterface) *Middleware {
	return &Middleware{accounts: accounts, tokens: tokens}
}

// LoadAccount looks up the token's account and stores it in the request
// context. A token referencing a deleted account is treated as invalid, not
// as a missing resource.
func (m *Middleware) LoadAccount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return unauthenticated()
		}
		claims, ok := token.Claims.(*Claims)
		if !ok || claims.AccountID == 0 {
			return unauthenticated()
		}

		if claims.ID != "" {
			revoked, _ := m.tokens.IsRevoked(c.Request().Context(), claims.ID)
			if revoked {
				return unauthenticated()
			}
		}

		account, err := m.accounts.FindByID(c.Request().Context(), claims.AccountID)
		if err != nil {
			return unauthenticated()
		}

		c.Set(accountContextKey, account)
		return next(c)
	}
}

// RequireRoles rejects accounts whose role is outside the permitted set. An
// empty set admits any authenticated account. Must run after LoadAccount and
// short-circuits before the guarded handler.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFromContext(c)
			if account == nil {
				return unauthenticated()
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, role := range roles {
				if account.Role == role {
					return next(c)
				}
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(http.StatusForbidden, httpErr.ToErrorResponse())
		}
	}
}

// AccountFromContext returns the account set by LoadAccount, or nil.
func AccountFromContext(c echo.Context) *model.Account {
	account, _ := c.Get(accountContextKey).(*model.Account)
	return account
}

// TokenClaimsFromContext returns the verified claims of the request token.
func TokenClaimsFromContext(c echo.Context) *Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*Claims)
	return claims
}

func unauthenticated() *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
	return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
}
