package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ratehub/internal/errors"
	"ratehub/internal/model"
	"ratehub/internal/query"
	"ratehub/internal/service"
)

// AdminHandler handles the admin-only endpoints.
type AdminHandler struct {
	userService  service.UserService
	storeService service.StoreService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(userService service.UserService, storeService service.StoreService) *AdminHandler {
	return &AdminHandler{userService: userService, storeService: storeService}
}

// CreateUserRequest represents an admin account-creation request.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// CreateStoreRequest represents a store provisioning request: the store and
// its owning account are created together or not at all.
type CreateStoreRequest struct {
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Address string             `json:"address"`
	Owner   CreateOwnerRequest `json:"owner"`
}

// CreateOwnerRequest represents the owner-account half of a provisioning request.
type CreateOwnerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// Dashboard godoc
// @Summary Dashboard counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardCounts
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	counts, err := h.userService.Dashboard(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, counts)
}

// ListUsers godoc
// @Summary List accounts with filters and sorting
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Param address query string false "Address contains"
// @Param role query string false "Exact role"
// @Param sort_by query string false "Sort field (name, email, address, role)"
// @Param order query string false "asc or desc"
// @Success 200 {array} service.AccountView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	views, err := h.userService.List(c.Request().Context(), paramsFromQuery(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, views)
}

// CreateUser godoc
// @Summary Create a user or admin account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "Account data"
// @Success 201 {object} model.Account
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	account, err := h.userService.Create(c.Request().Context(), req.Name, req.Email, req.Password, req.Address, model.Role(req.Role))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, account)
}

// GetUser godoc
// @Summary Account detail
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} service.AccountView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	view, err := h.userService.Get(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, view)
}

// ListStores godoc
// @Summary List stores with filters, sorting, and mean ratings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Param address query string false "Address contains"
// @Param sort_by query string false "Sort field (name, email, address)"
// @Param order query string false "asc or desc"
// @Success 200 {array} service.StoreView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/stores [get]
func (h *AdminHandler) ListStores(c echo.Context) error {
	views, err := h.storeService.ListForAdmin(c.Request().Context(), paramsFromQuery(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, views)
}

// CreateStore godoc
// @Summary Provision a store and its owner account atomically
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStoreRequest true "Store and owner data"
// @Success 201 {object} model.Store
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/stores [post]
func (h *AdminHandler) CreateStore(c echo.Context) error {
	var req CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	store, err := h.storeService.Provision(c.Request().Context(),
		service.StoreInput{
			Name:    req.Name,
			Email:   req.Email,
			Address: req.Address,
		},
		service.OwnerInput{
			Name:     req.Owner.Name,
			Email:    req.Owner.Email,
			Password: req.Owner.Password,
			Address:  req.Owner.Address,
		})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, store)
}

// paramsFromQuery maps the recognized query-string fields; anything else is
// ignored and the query builder enforces its own allow-list on top.
func paramsFromQuery(c echo.Context) query.Params {
	return query.Params{
		Name:    c.QueryParam("name"),
		Email:   c.QueryParam("email"),
		Address: c.QueryParam("address"),
		Role:    c.QueryParam("role"),
		SortBy:  c.QueryParam("sort_by"),
		Order:   c.QueryParam("order"),
	}
}
