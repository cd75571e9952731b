package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sharebnb/docs"
	"sharebnb/internal/config"
	"sharebnb/internal/handler"
	"sharebnb/internal/logging"
	"sharebnb/internal/middleware"
)

// Handlers bundles the HTTP handlers served under /api.
type Handlers struct {
	Auth     *handler.AuthHandler
	Listings *handler.ListingHandler
	Messages *handler.MessageHandler
	Users    *handler.UserHandler
}

// Register wires routes and middleware. authenticate guards every route that
// needs a resolved account.
func Register(e *echo.Echo, cfg *config.Config, logger logging.Logger, authenticate echo.MiddlewareFunc, h Handlers) {
	e.Binder = &StrictBinder{}
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(middleware.NoStore())

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	limited := middleware.RateLimit(cfg.AuthRateLimit)
	api.POST("/signup", h.Auth.Signup, limited)
	api.POST("/login", h.Auth.Login, limited)
	api.GET("/listings", h.Listings.List)
	api.GET("/listings/:id", h.Listings.Get)
	api.GET("/users/:username", h.Users.Profile)

	// Secured routes (require a bearer token for an existing account)
	secured := api.Group("", authenticate)

	secured.POST("/listings", h.Listings.Create)
	secured.POST("/listings/:id/book", h.Listings.Book)
	secured.POST("/listings/:id/message", h.Listings.Message)

	secured.GET("/me", h.Users.Me)
	secured.GET("/me/bookings", h.Users.MyBookings)

	secured.GET("/messages", h.Messages.Inbox)
	secured.GET("/messages/conversations", h.Messages.Conversations)
	secured.GET("/messages/:username", h.Messages.Thread)
	secured.POST("/messages/:username", h.Messages.Send)
}
