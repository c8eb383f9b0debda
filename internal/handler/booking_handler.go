package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListBookings)
	g.POST("", h.CreateBooking)
	g.GET("/:id", h.GetBooking)
	g.PUT("/:id", h.UpdateBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	req, err := bindBooking(c)
	if err != nil {
		return err
	}

	booking := req.ToBooking()
	if err := h.svc.CreateBooking(c.Request().Context(), booking); err != nil {
		if errors.Is(err, service.ErrEditOnly) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.ListBookings(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	req, err := bindBooking(c)
	if err != nil {
		return err
	}

	booking := req.ToBooking()
	if err := h.svc.UpdateBooking(c.Request().Context(), id, booking); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, booking)
}

func bindBooking(c echo.Context) (*dto.BookingRequest, error) {
	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ClientName == "" || req.ScheduledAt.IsZero() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "cliente and data_hora are required")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return uint(id), nil
}
