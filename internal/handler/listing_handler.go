package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "sharebnb/internal/errors"
	"sharebnb/internal/model"
	"sharebnb/internal/service"
)

const (
	maxPhotoBytes = 10 << 20
	dateLayout    = "2006-01-02"
)

// ListingHandler handles listing, booking and owner messaging endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest is the multipart form of a new listing. The photo file
// is read separately from the "photo" part.
type CreateListingRequest struct {
	Price   string `form:"price" validate:"required,numeric"`
	Details string `form:"details" validate:"required,max=5000"`
}

// BookRequest represents a booking request.
type BookRequest struct {
	CheckinDate  string `json:"checkin_date" validate:"required,datetime=2006-01-02"`
	CheckoutDate string `json:"checkout_date" validate:"required,datetime=2006-01-02"`
}

// MessageRequest represents a direct message.
type MessageRequest struct {
	Text string `json:"text" validate:"required,max=140"`
}

// ListingResponse wraps a single listing.
type ListingResponse struct {
	Listing *model.Listing `json:"listing"`
}

// ListingsResponse wraps a page of listings.
type ListingsResponse struct {
	Listings []model.Listing `json:"listings"`
}

// BookingResponse wraps a single booking.
type BookingResponse struct {
	Booking *model.Booking `json:"booking"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Message *model.Message `json:"message"`
}

// List godoc
// @Summary List listings
// @Tags listings
// @Produce json
// @Param q query string false "Substring of details"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListingsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	var filter model.ListingFilter
	err := echo.QueryParamsBinder(c).
		String("q", &filter.Query).
		Int("limit", &filter.Limit).
		Int("offset", &filter.Offset).
		BindError()
	if err != nil {
		return validationError(map[string]string{firstParam(err): "numeric"})
	}

	fields := map[string]string{}
	filter.MinPrice = parsePriceParam(c, "min_price", fields)
	filter.MaxPrice = parsePriceParam(c, "max_price", fields)
	if len(fields) > 0 {
		return validationError(fields)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return validationError(map[string]string{"min_price": "ltefield"})
	}
	filter.Query = strings.TrimSpace(filter.Query)

	listings, err := h.listingService.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ListingsResponse{Listings: listings})
}

// Get godoc
// @Summary Get listing by id
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	listing, err := h.listingService.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, ListingResponse{Listing: listing})
}

// Create godoc
// @Summary Create a listing
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param price formData number true "Nightly price"
// @Param details formData string true "Description"
// @Param photo formData file false "Photo"
// @Success 201 {object} ListingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req CreateListingRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return validationError(map[string]string{"price": "numeric"})
	}

	photo, closePhoto, err := readPhoto(c)
	if err != nil {
		return err
	}
	defer closePhoto()

	listing, err := h.listingService.Create(c.Request().Context(), account, price, req.Details, photo)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, ListingResponse{Listing: listing})
}

// Book godoc
// @Summary Book a listing
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body BookRequest true "Stay dates"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings/{id}/book [post]
func (h *ListingHandler) Book(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req BookRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}
	// both already passed the datetime rule
	checkin, _ := time.Parse(dateLayout, req.CheckinDate)
	checkout, _ := time.Parse(dateLayout, req.CheckoutDate)

	booking, err := h.listingService.Book(c.Request().Context(), account, id, checkin, checkout)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, BookingResponse{Booking: booking})
}

// Message godoc
// @Summary Message a listing's owner
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body MessageRequest true "Message"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings/{id}/message [post]
func (h *ListingHandler) Message(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req MessageRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	message, err := h.listingService.MessageOwner(c.Request().Context(), account, id, req.Text)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: message})
}

// readPhoto opens the optional "photo" part. The returned func closes it.
func readPhoto(c echo.Context) (*service.PhotoUpload, func(), error) {
	noop := func() {}
	header, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid photo upload",
			Code:  "INVALID_PHOTO",
		}).SetInternal(err)
	}
	if header.Size > maxPhotoBytes {
		return nil, noop, validationError(map[string]string{"photo": "max"})
	}
	contentType := header.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, noop, validationError(map[string]string{"photo": "image"})
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid photo upload",
			Code:  "INVALID_PHOTO",
		}).SetInternal(err)
	}
	return &service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}

func parsePriceParam(c echo.Context, name string, fields map[string]string) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fields[name] = "numeric"
		return nil
	}
	return &d
}

func firstParam(err error) string {
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) && len(bindErr.Field) > 0 {
		return bindErr.Field
	}
	return "query"
}
