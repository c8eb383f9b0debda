// Package web serves the booking agenda pages: List, Detail and the
// Create/Edit forms, all backed by the remote Store.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/form"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/enoteca-decanter/agenda/internal/notice"
	"github.com/enoteca-decanter/agenda/internal/view"
	"github.com/labstack/echo/v4"
)

const (
	submitTTL = 10 * time.Minute

	// menuShownField carries the menu the edit form was rendered with.
	menuShownField = "menu_atual"
)

// Store is the booking Store as the pages use it. *client.Client satisfies it.
type Store interface {
	List(ctx context.Context) ([]models.Booking, error)
	Get(ctx context.Context, id uint) (*models.Booking, error)
	Create(ctx context.Context, req dto.BookingRequest) (*models.Booking, error)
	Update(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error)
}

type Handler struct {
	log   *slog.Logger
	store Store
	guard *form.Guard
}

func NewHandler(log *slog.Logger, store Store) *Handler {
	return &Handler{log: log, store: store, guard: form.NewGuard(submitTTL)}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.List)
	e.GET("/novo", h.NewForm)
	e.POST("/novo", h.Create)
	e.GET("/evento/:id", h.Detail)
	e.GET("/evento/:id/editar", h.EditForm)
	e.POST("/evento/:id/editar", h.Update)
	e.POST("/evento/:id/editar/menu", h.ChangeMenu)
}

type listPage struct {
	Title  string
	Notice *notice.Notice
	View   view.Snapshot[[]models.Booking]
}

type detailPage struct {
	Title  string
	Notice *notice.Notice
	View   view.Snapshot[*models.Booking]
}

type formPage struct {
	Title      string
	Heading    string
	Notice     *notice.Notice
	Loading    bool
	Edit       bool
	Form       form.State
	Action     string
	MenuAction string
	Back       string
	Statuses   []option
	Venues     []option
	Menus      []option
}

func (h *Handler) List(c echo.Context) error {
	snap := view.Enter[[]models.Booking](c.Request().Context(), h.log, notice.LoadListFailed, nil, h.store.List)

	return c.Render(http.StatusOK, "list.html", listPage{
		Title:  "Agenda de Eventos",
		Notice: pick(snap.Notice, c),
		View:   snap,
	})
}

func (h *Handler) Detail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	snap := h.loadBooking(c.Request().Context(), id)
	return c.Render(http.StatusOK, "detail.html", detailPage{
		Title:  "Detalhes do Evento",
		Notice: pick(snap.Notice, c),
		View:   snap,
	})
}

func (h *Handler) NewForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, form.NewCreate())
}

func (h *Handler) EditForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	snap := h.loadBooking(c.Request().Context(), id)
	if snap.Data == nil {
		page := editPage(id, form.State{})
		page.Loading = true
		page.Notice = snap.Notice
		return c.Render(http.StatusOK, "form.html", page)
	}
	return h.renderForm(c, http.StatusOK, form.NewEdit(snap.Data))
}

func (h *Handler) Create(c echo.Context) error {
	s, err := form.Restore(form.ModeCreate, 0, c.FormValue("token"), form.ValuesFromForm(c.FormValue))
	if err != nil {
		return h.renderInvalid(c, s, err)
	}

	next, _, err := form.SubmitGuarded(c.Request().Context(), h.guard, s, h.store)
	switch {
	case err == nil:
		return redirect(c, "/", notice.Created)
	case errors.Is(err, form.ErrDuplicate):
		return c.Redirect(http.StatusSeeOther, "/")
	case next.Phase() == form.PhaseFailed:
		h.log.Error("failed to create booking", sl.Err(err))
		return h.renderForm(c, http.StatusBadGateway, next)
	default:
		return h.renderForm(c, http.StatusUnprocessableEntity, next)
	}
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	s, err := form.Restore(form.ModeEdit, id, c.FormValue("token"), form.ValuesFromForm(c.FormValue))
	if err != nil {
		return h.renderInvalid(c, s, err)
	}

	detail := fmt.Sprintf("/evento/%d", id)
	next, _, err := form.SubmitGuarded(c.Request().Context(), h.guard, s, h.store)
	switch {
	case err == nil:
		return redirect(c, detail, notice.Updated)
	case errors.Is(err, form.ErrDuplicate):
		return c.Redirect(http.StatusSeeOther, detail)
	case next.Phase() == form.PhaseFailed:
		h.log.Error("failed to update booking", slog.Uint64("id", uint64(id)), sl.Err(err))
		return h.renderForm(c, http.StatusBadGateway, next)
	default:
		return h.renderForm(c, http.StatusUnprocessableEntity, next)
	}
}

// ChangeMenu re-renders the edit form after a menu selection, with the price
// per person derived from the new menu. The menu the page was rendered with
// comes back in menu_atual; when it equals the posted one the posted price is
// kept. Nothing is sent to the Store.
func (h *Handler) ChangeMenu(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	v := form.ValuesFromForm(c.FormValue)
	chosen := v.MenuTier
	v.MenuTier = c.FormValue(menuShownField)

	s, err := form.Restore(form.ModeEdit, id, c.FormValue("token"), v)
	if err != nil {
		return h.renderInvalid(c, s, err)
	}
	if chosen != v.MenuTier {
		s, err = form.Update(s, form.FieldMenuTier, chosen)
		if err != nil {
			return h.renderInvalid(c, s, err)
		}
	}
	return h.renderForm(c, http.StatusOK, s)
}

func (h *Handler) loadBooking(ctx context.Context, id uint) view.Snapshot[*models.Booking] {
	deps := []string{strconv.FormatUint(uint64(id), 10)}
	return view.Enter[*models.Booking](ctx, h.log, notice.LoadDetailFailed, deps, func(ctx context.Context) (*models.Booking, error) {
		return h.store.Get(ctx, id)
	})
}

func (h *Handler) renderInvalid(c echo.Context, s form.State, err error) error {
	h.log.Debug("rejected form input", sl.Err(err))
	return h.renderForm(c, http.StatusUnprocessableEntity, s.WithNotice(notice.Invalid("Valor inválido: "+err.Error())))
}

func (h *Handler) renderForm(c echo.Context, code int, s form.State) error {
	var page formPage
	if s.Mode() == form.ModeEdit {
		page = editPage(s.ID(), s)
	} else {
		page = createPage(s)
	}
	page.Notice = s.Notice()
	return c.Render(code, "form.html", page)
}

func createPage(s form.State) formPage {
	v := s.Values()
	return formPage{
		Title:    "Novo Evento",
		Heading:  "Cadastrar Novo Evento",
		Form:     s,
		Action:   "/novo",
		Back:     "/",
		Statuses: options(createStatuses, v.Status),
		Venues:   options(venues, v.Venue),
		Menus:    options(createMenus, v.MenuTier),
	}
}

func editPage(id uint, s form.State) formPage {
	v := s.Values()
	base := fmt.Sprintf("/evento/%d", id)
	return formPage{
		Title:      "Editar Evento",
		Heading:    "Editar Evento",
		Edit:       true,
		Form:       s,
		Action:     base + "/editar",
		MenuAction: base + "/editar/menu",
		Back:       base,
		Statuses:   options(editStatuses, v.Status),
		Venues:     options(venues, v.Venue),
		Menus:      options(editMenus, v.MenuTier),
	}
}

// pick prefers the notice produced while rendering over one carried by a
// redirect.
func pick(n *notice.Notice, c echo.Context) *notice.Notice {
	if n != nil {
		return n
	}
	return notice.FromCode(c.QueryParam("aviso"))
}

func redirect(c echo.Context, path string, n notice.Notice) error {
	return c.Redirect(http.StatusSeeOther, path+"?aviso="+n.Code)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	return uint(id), nil
}
