package handler

import (
	"log/slog"
	"net/http"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/metrics"
	"github.com/enoteca-decanter/agenda/internal/middleware"
	"github.com/enoteca-decanter/agenda/internal/service"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

// NewServer wires the Store's REST API. m may be nil.
func NewServer(log *slog.Logger, svc service.BookingService, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Validator = dto.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: "store"})
	})

	NewBookingHandler(svc).RegisterRoutes(e.Group("/eventos"))
	return e
}
