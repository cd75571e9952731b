package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateIdentity is returned when a username or email is already registered.
	ErrDuplicateIdentity = errors.New("username or email already taken")
	// ErrInvalidCredentials is returned when a login does not match an account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a request carries no usable identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrListingNotFound is returned when a listing is not found.
	ErrListingNotFound = errors.New("listing not found")
	// ErrInvalidDates is returned when checkout is not after checkin.
	ErrInvalidDates = errors.New("checkout date must be after checkin date")
	// ErrSelfBooking is returned when an owner books their own listing.
	ErrSelfBooking = errors.New("cannot book your own listing")
	// ErrBookingOverlap is returned when the dates collide with an existing booking.
	ErrBookingOverlap = errors.New("listing is already booked for these dates")
	// ErrSelfMessage is returned when a user messages themselves.
	ErrSelfMessage = errors.New("cannot message yourself")
	// ErrInvalidPrice is returned when a listing price is not positive.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrPasswordTooLong is returned when a password exceeds 72 bytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrDuplicateIdentity, http.StatusConflict, "DUPLICATE_IDENTITY"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrAccountNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	{ErrListingNotFound, http.StatusNotFound, "LISTING_NOT_FOUND"},
	{ErrInvalidDates, http.StatusBadRequest, "INVALID_DATES"},
	{ErrSelfBooking, http.StatusBadRequest, "SELF_BOOKING"},
	{ErrBookingOverlap, http.StatusConflict, "BOOKING_OVERLAP"},
	{ErrSelfMessage, http.StatusBadRequest, "SELF_MESSAGE"},
	{ErrInvalidPrice, http.StatusBadRequest, "INVALID_PRICE"},
	{ErrPasswordTooLong, http.StatusBadRequest, "PASSWORD_TOO_LONG"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched with errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, m.target.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
