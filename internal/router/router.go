package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ratehub/internal/auth"
	"ratehub/internal/config"
	apperrors "ratehub/internal/errors"
	"ratehub/internal/handler"
	"ratehub/internal/model"
)

// Register wires routes and middleware. Every secured route runs the
// credential verifier (echo-jwt signature/expiry check, then the account
// loader) before its role gate, and the role gate before the handler.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authMiddleware *auth.Middleware,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	storeHandler *handler.StoreHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a valid token resolving to a live account)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// Missing, malformed, and expired tokens are all the same
			// authentication failure to callers.
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}), authMiddleware.LoadAccount)

	// Any authenticated role
	secured.PUT("/auth/password", authHandler.ChangePassword, auth.RequireRoles())
	secured.POST("/auth/logout", authHandler.Logout, auth.RequireRoles())

	// Admin routes
	admin := secured.Group("/admin", auth.RequireRoles(model.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.GET("/stores", adminHandler.ListStores)
	admin.POST("/stores", adminHandler.CreateStore)

	// End-user routes
	secured.GET("/stores", storeHandler.ListStores, auth.RequireRoles(model.RoleUser))
	secured.POST("/ratings", storeHandler.SubmitRating, auth.RequireRoles(model.RoleUser))

	// Store-owner routes
	secured.GET("/owner/dashboard", storeHandler.OwnerDashboard, auth.RequireRoles(model.RoleStoreOwner))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
