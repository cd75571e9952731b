package middleware

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"sharebnb/internal/auth"
	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/logging"
	"sharebnb/internal/model"
)

const (
	subjectKey = "auth.subject"
	accountKey = "auth.account"
)

// TokenResolver turns a bearer token into the username it asserts.
type TokenResolver interface {
	Resolve(token string) (string, error)
}

// AccountLookup loads the current account for a username.
type AccountLookup interface {
	Lookup(ctx context.Context, username string) (*model.Account, error)
}

// Authenticate requires "Authorization: Bearer <token>", resolves the token
// and loads its account fresh for every request. Every failure is a generic
// 401; the reason only reaches the log.
func Authenticate(tokens TokenResolver, accounts AccountLookup, logger logging.Logger) echo.MiddlewareFunc {
	bearer := echojwt.WithConfig(echojwt.Config{
		ContextKey: subjectKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Resolve(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Warn(c.Request().Context(), "token rejected",
				"reason", rejectionReason(err),
				"path", c.Path(),
			)
			return unauthorized()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return bearer(func(c echo.Context) error {
			username, _ := c.Get(subjectKey).(string)
			account, err := accounts.Lookup(c.Request().Context(), username)
			if err != nil {
				if errors.Is(err, apperrors.ErrAccountNotFound) {
					logger.Warn(c.Request().Context(), "token rejected", "reason", "account missing", "path", c.Path())
					return unauthorized()
				}
				logger.Error(c.Request().Context(), "resolve account", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				})
			}
			c.Set(accountKey, account)
			return next(c)
		})
	}
}

// CurrentAccount returns the account resolved by Authenticate.
func CurrentAccount(c echo.Context) (*model.Account, bool) {
	account, ok := c.Get(accountKey).(*model.Account)
	return account, ok && account != nil
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthorized.Error(),
		Code:  "UNAUTHORIZED",
	})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, auth.ErrBadSignature):
		return "bad signature"
	case errors.Is(err, auth.ErrExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidClaims):
		return "invalid claims"
	default:
		return "missing token"
	}
}
