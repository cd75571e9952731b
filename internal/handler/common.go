package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/middleware"
	"sharebnb/internal/model"
)

// UnknownFieldError is returned by the binder for a JSON key the request type does not declare.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// bindRequest binds and validates req, rendering failures as 400 responses.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var unknown *UnknownFieldError
		if errors.As(err, &unknown) {
			return validationError(map[string]string{unknown.Field: "unknown"})
		}
		// echo's own binder answers with an HTTPError whose message would win when rendered
		var he *echo.HTTPError
		if errors.As(err, &he) {
			err = fmt.Errorf("bind: %v", he.Message)
			if he.Internal != nil {
				err = he.Internal
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		}).SetInternal(err)
	}

	if err := c.Validate(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Error: "invalid request body",
				Code:  "INVALID_REQUEST",
			}).SetInternal(err)
		}
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return validationError(fields)
	}
	return nil
}

func validationError(fields map[string]string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error:  "validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: fields,
	})
}

// toHTTPError renders a service error. Unmapped errors keep their cause for the access log.
func toHTTPError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	he := echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	if httpErr.StatusCode >= http.StatusInternalServerError {
		he.SetInternal(err)
	}
	return he
}

func currentAccount(c echo.Context) (*model.Account, error) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return nil, toHTTPError(apperrors.ErrUnauthorized)
	}
	return account, nil
}

func parseID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid " + param,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
