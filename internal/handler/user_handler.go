package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sharebnb/internal/model"
	"sharebnb/internal/service"
)

// UserHandler serves the current account and public profiles.
type UserHandler struct {
	accountService service.AccountService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(accountService service.AccountService) *UserHandler {
	return &UserHandler{accountService: accountService}
}

// MeResponse wraps the resolved account.
type MeResponse struct {
	User *model.Account `json:"user"`
}

// ProfileResponse wraps a public profile.
type ProfileResponse struct {
	User *model.Profile `json:"user"`
}

// BookingsResponse lists bookings.
type BookingsResponse struct {
	Bookings []model.Booking `json:"bookings"`
}

// Me godoc
// @Summary Current account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{User: account})
}

// MyBookings godoc
// @Summary Bookings made by the current account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BookingsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /me/bookings [get]
func (h *UserHandler) MyBookings(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	bookings, err := h.accountService.Bookings(c.Request().Context(), account)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, BookingsResponse{Bookings: bookings})
}

// Profile godoc
// @Summary Public profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	profile, err := h.accountService.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{User: profile})
}
