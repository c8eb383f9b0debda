package web

import (
	"log/slog"
	"net/http"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/metrics"
	"github.com/enoteca-decanter/agenda/internal/middleware"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

// NewServer wires the agenda pages. m may be nil.
func NewServer(log *slog.Logger, store Store, m *metrics.Metrics) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.HTMLErrorHandler(log)
	e.Renderer = renderer

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())
	if m != nil {
		e.Use(m.Middleware())
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: "agenda"})
	})

	NewHandler(log, store).RegisterRoutes(e)
	return e, nil
}
