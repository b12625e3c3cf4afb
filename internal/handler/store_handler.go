package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ratehub/internal/auth"
	"ratehub/internal/errors"
	"ratehub/internal/service"
)

// StoreHandler handles the user-facing store and rating endpoints plus the
// store-owner dashboard.
type StoreHandler struct {
	storeService  service.StoreService
	ratingService service.RatingService
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(storeService service.StoreService, ratingService service.RatingService) *StoreHandler {
	return &StoreHandler{storeService: storeService, ratingService: ratingService}
}

// SubmitRatingRequest represents a rating submission. A repeat submission for
// the same store updates the existing rating.
type SubmitRatingRequest struct {
	StoreID uint `json:"store_id" validate:"required"`
	Value   int  `json:"value"`
}

// ListStores godoc
// @Summary List stores with mean ratings and the caller's own rating
// @Tags stores
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
// @Router /stores [get]
func (h *StoreHandler) ListStores(c echo.Context) error {
	account := auth.AccountFromContext(c)
	if account == nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	views, err := h.storeService.ListForUser(c.Request().Context(), account.ID, paramsFromQuery(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, views)
}

// SubmitRating godoc
// @Summary Submit or update own rating for a store
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRatingRequest true "Store and value"
// @Success 200 {object} model.Rating
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /ratings [post]
func (h *StoreHandler) SubmitRating(c echo.Context) error {
	var req SubmitRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account := auth.AccountFromContext(c)
	if account == nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	rating, err := h.ratingService.Submit(c.Request().Context(), account.ID, req.StoreID, req.Value)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, rating)
}

// OwnerDashboard godoc
// @Summary Mean rating and rater list for the owned store
// @Tags owner
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.OwnerDashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /owner/dashboard [get]
func (h *StoreHandler) OwnerDashboard(c echo.Context) error {
	account := auth.AccountFromContext(c)
	if account == nil {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	dashboard, err := h.ratingService.Dashboard(c.Request().Context(), account)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, dashboard)
}
