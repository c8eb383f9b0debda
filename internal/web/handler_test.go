package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Store ---

type mockStore struct {
	listFn   func(ctx context.Context) ([]models.Booking, error)
	getFn    func(ctx context.Context, id uint) (*models.Booking, error)
	createFn func(ctx context.Context, req dto.BookingRequest) (*models.Booking, error)
	updateFn func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error)
}

func (m *mockStore) List(ctx context.Context) ([]models.Booking, error) {
	return m.listFn(ctx)
}
func (m *mockStore) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockStore) Create(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
	return m.createFn(ctx, req)
}
func (m *mockStore) Update(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
	return m.updateFn(ctx, id, req)
}

// --- Helpers ---

func newTestServer(t *testing.T, store Store) *echo.Echo {
	t.Helper()
	e, err := NewServer(sl.Discard(), store, nil)
	require.NoError(t, err)
	return e
}

func do(e *echo.Echo, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func booking(id uint, name string, status models.BookingStatus) models.Booking {
	n := 40
	return models.Booking{
		ID:             id,
		ClientName:     name,
		Company:        "Acme",
		ScheduledAt:    models.NewScheduledAt(time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)),
		Headcount:      &n,
		Status:         status,
		MenuTier:       models.MenuTier1,
		PricePerPerson: decimal.NewNullDecimal(decimal.RequireFromString("199.90")),
	}
}

// --- List ---

func TestList_RendersBookingsInServerOrder(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return []models.Booking{booking(2, "Bruno", models.StatusConfirmed), booking(1, "Ana", models.StatusUnset)}, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Agenda de Eventos - Enoteca Decanter")
	assert.Contains(t, body, "01/06/2025 19:00")
	assert.Less(t, strings.Index(body, "Bruno"), strings.Index(body, "Ana"))
	assert.Contains(t, body, `href="/evento/2"`)
	assert.NotContains(t, body, "Nenhum evento cadastrado ainda.")
}

func TestList_EmptyState(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return []models.Booking{}, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum evento cadastrado ainda.")
	assert.NotContains(t, rec.Body.String(), "Erro ao carregar eventos.")
}

func TestList_FailureShowsNotice(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return nil, errors.New("connection refused")
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar eventos.")
	assert.Contains(t, rec.Body.String(), `role="alert"`)
}

func TestList_CancelledIsStruckAndNotLinked(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return []models.Booking{booking(3, "Carla", models.StatusCancelled)}, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/", nil)

	body := rec.Body.String()
	assert.Contains(t, body, `class="evento cancelado"`)
	assert.Contains(t, body, `aria-disabled="true"`)
	assert.NotContains(t, body, `href="/evento/3"`)
}

func TestList_UnknownNoticeCodeIgnored(t *testing.T) {
	store := &mockStore{
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return []models.Booking{}, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/?aviso=%3Cscript%3E", nil)

	assert.NotContains(t, rec.Body.String(), `role="alert"`)
	assert.NotContains(t, rec.Body.String(), `role="status"`)
}

// --- Detail ---

func TestDetail_RendersPriceAndTotal(t *testing.T) {
	store := &mockStore{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			b := booking(id, "Maria", models.StatusConfirmed)
			return &b, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/evento/5?aviso=evento-atualizado", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "R$ 199,90")
	assert.Contains(t, body, "R$ 7.996,00")
	assert.Contains(t, body, "Evento atualizado com sucesso!")
	assert.Contains(t, body, `href="/evento/5/editar"`)
}

func TestDetail_FailureKeepsPlaceholder(t *testing.T) {
	store := &mockStore{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, errors.New("status 404")
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/evento/9", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carregando...")
	assert.Contains(t, rec.Body.String(), "Erro ao carregar detalhes.")
}

func TestDetail_InvalidID(t *testing.T) {
	rec := do(newTestServer(t, &mockStore{}), http.MethodGet, "/evento/abc", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid booking id")
}

// --- Create ---

func TestNewForm_HidesEditOnlyChoices(t *testing.T) {
	rec := do(newTestServer(t, &mockStore{}), http.MethodGet, "/novo", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="token"`)
	assert.NotContains(t, body, "CANCELADO")
	assert.NotContains(t, body, "MENU 4")
	assert.NotContains(t, body, `name="bebidas"`)
	assert.NotContains(t, body, "aplicar-menu")
}

func TestCreate_ScenarioA(t *testing.T) {
	var got dto.BookingRequest
	store := &mockStore{
		createFn: func(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
			got = req
			b := req.ToBooking()
			b.ID = 1
			return b, nil
		},
	}
	form := url.Values{"token": {"t-a"}, "cliente": {"Maria"}, "data_hora": {"2025-06-01T19:00"}}

	rec := do(newTestServer(t, store), http.MethodPost, "/novo", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?aviso=evento-cadastrado", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Maria", got.ClientName)
	assert.Equal(t, "2025-06-01T19:00:00", got.ScheduledAt.String())
	assert.Equal(t, models.StatusUnset, got.Status)
	assert.Equal(t, models.VenueUnset, got.Venue)
	assert.False(t, got.BeveragePackage)
}

func TestCreate_ScenarioD_FailureKeepsValues(t *testing.T) {
	store := &mockStore{
		createFn: func(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
			return nil, errors.New("store 500")
		},
	}
	form := url.Values{
		"token":       {"t-d"},
		"cliente":     {"Maria"},
		"empresa":     {"Vinícola Sul"},
		"data_hora":   {"2025-06-01T19:00"},
		"pessoas":     {"25"},
		"menu":        {"MENU 2"},
		"observacoes": {"mesa longa"},
	}

	rec := do(newTestServer(t, store), http.MethodPost, "/novo", form)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
	body := rec.Body.String()
	assert.Contains(t, body, "Erro ao cadastrar evento.")
	assert.Contains(t, body, `value="Maria"`)
	assert.Contains(t, body, `value="Vinícola Sul"`)
	assert.Contains(t, body, `value="2025-06-01T19:00"`)
	assert.Contains(t, body, `value="25"`)
	assert.Contains(t, body, `<option value="MENU 2" selected>`)
	assert.Contains(t, body, "mesa longa")
	assert.Contains(t, body, `value="t-d"`)
}

func TestCreate_MissingRequiredDoesNotCallStore(t *testing.T) {
	store := &mockStore{}
	form := url.Values{"token": {"t-m"}, "empresa": {"Acme"}}

	rec := do(newTestServer(t, store), http.MethodPost, "/novo", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Preencha os campos obrigatórios")
	assert.Contains(t, rec.Body.String(), `value="Acme"`)
}

func TestCreate_RejectsEditOnlyValues(t *testing.T) {
	store := &mockStore{}
	form := url.Values{"cliente": {"Maria"}, "data_hora": {"2025-06-01T19:00"}, "status": {"CANCELADO"}}

	rec := do(newTestServer(t, store), http.MethodPost, "/novo", form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreate_DuplicateTokenRedirectsWithoutSecondWrite(t *testing.T) {
	calls := 0
	store := &mockStore{
		createFn: func(ctx context.Context, req dto.BookingRequest) (*models.Booking, error) {
			calls++
			return req.ToBooking(), nil
		},
	}
	e := newTestServer(t, store)
	form := url.Values{"token": {"t-dup"}, "cliente": {"Maria"}, "data_hora": {"2025-06-01T19:00"}}

	first := do(e, http.MethodPost, "/novo", form)
	second := do(e, http.MethodPost, "/novo", form)

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, "/", second.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, calls)
}

// --- Edit ---

func TestEditForm_Prefilled(t *testing.T) {
	store := &mockStore{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			b := booking(id, "Maria", models.StatusConfirmed)
			b.BeveragePackage = true
			return &b, nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/evento/5/editar", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="199.90"`)
	assert.Contains(t, body, `<option value="MENU 1" selected>`)
	assert.Contains(t, body, "CANCELADO")
	assert.Contains(t, body, "MENU 4")
	assert.Contains(t, body, `name="bebidas" type="checkbox" checked`)
	assert.Contains(t, body, `formaction="/evento/5/editar/menu"`)
}

func TestEditForm_LoadFailure(t *testing.T) {
	store := &mockStore{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, errors.New("timeout")
		},
	}

	rec := do(newTestServer(t, store), http.MethodGet, "/evento/5/editar", nil)

	assert.Contains(t, rec.Body.String(), "Carregando...")
	assert.Contains(t, rec.Body.String(), "Erro ao carregar detalhes.")
	assert.NotContains(t, rec.Body.String(), `name="cliente"`)
}

func editValues(menu, price string) url.Values {
	return url.Values{
		"token":            {"t-b"},
		"cliente":          {"Maria"},
		"data_hora":        {"2025-06-01T19:00"},
		"pessoas":          {"40"},
		"status":           {"CONFIRMADO"},
		"menu":             {menu},
		"valor_por_pessoa": {price},
	}
}

func TestScenarioB_MenuChangeThenSubmit(t *testing.T) {
	var saved dto.BookingRequest
	store := &mockStore{
		updateFn: func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
			saved = req
			b := req.ToBooking()
			b.ID = id
			return b, nil
		},
	}
	e := newTestServer(t, store)

	menuForm := editValues("MENU 3", "199.90")
	menuForm.Set("menu_atual", "MENU 1")
	rec := do(e, http.MethodPost, "/evento/5/editar/menu", menuForm)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="255.90"`)
	assert.Contains(t, rec.Body.String(), `<option value="MENU 3" selected>`)

	rec = do(e, http.MethodPost, "/evento/5/editar", editValues("MENU 3", "255.90"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/evento/5?aviso=evento-atualizado", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "255.90", models.FormatPrice(saved.PricePerPerson))
	assert.Equal(t, models.MenuTier3, saved.MenuTier)
}

func TestChangeMenu_CustomClearsPrice(t *testing.T) {
	form := editValues("MENU A DEFINIR", "199.90")
	form.Set("menu_atual", "MENU 1")
	rec := do(newTestServer(t, &mockStore{}), http.MethodPost, "/evento/5/editar/menu", form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="valor_por_pessoa" type="number" step="0.01" placeholder="Valor por Pessoa" value=""`)
}

func TestChangeMenu_SameMenuKeepsTypedPrice(t *testing.T) {
	form := editValues("MENU 1", "180.00")
	form.Set("menu_atual", "MENU 1")

	rec := do(newTestServer(t, &mockStore{}), http.MethodPost, "/evento/5/editar/menu", form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="180.00"`)
	assert.NotContains(t, rec.Body.String(), `value="199.90"`)
	assert.Contains(t, rec.Body.String(), `name="menu_atual" value="MENU 1"`)
}

func TestChangeMenu_RendersShownMenu(t *testing.T) {
	form := editValues("MENU 2", "199.90")
	form.Set("menu_atual", "MENU 1")

	rec := do(newTestServer(t, &mockStore{}), http.MethodPost, "/evento/5/editar/menu", form)

	assert.Contains(t, rec.Body.String(), `value="229.90"`)
	assert.Contains(t, rec.Body.String(), `name="menu_atual" value="MENU 2"`)
}

func TestUpdate_SameTokenDifferentEditsBothWritten(t *testing.T) {
	var notes []string
	store := &mockStore{
		updateFn: func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
			notes = append(notes, req.Notes)
			b := req.ToBooking()
			b.ID = id
			return b, nil
		},
	}
	e := newTestServer(t, store)

	first := editValues("MENU 1", "199.90")
	first.Set("observacoes", "primeira")
	rec := do(e, http.MethodPost, "/evento/5/editar", first)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	second := editValues("MENU 1", "199.90")
	second.Set("observacoes", "segunda edição")
	rec = do(e, http.MethodPost, "/evento/5/editar", second)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/evento/5?aviso=evento-atualizado", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, []string{"primeira", "segunda edição"}, notes)
}

func TestUpdate_ManualPriceKept(t *testing.T) {
	var saved dto.BookingRequest
	store := &mockStore{
		updateFn: func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
			saved = req
			return req.ToBooking(), nil
		},
	}

	rec := do(newTestServer(t, store), http.MethodPost, "/evento/5/editar", editValues("MENU 3", "240.00"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "240.00", models.FormatPrice(saved.PricePerPerson))
}

func TestScenarioC_CancelThenListStrikesThrough(t *testing.T) {
	stored := booking(5, "Maria", models.StatusConfirmed)
	store := &mockStore{
		updateFn: func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
			b := req.ToBooking()
			b.ID = id
			stored = *b
			return b, nil
		},
		listFn: func(ctx context.Context) ([]models.Booking, error) {
			return []models.Booking{stored}, nil
		},
	}
	e := newTestServer(t, store)
	form := editValues("MENU 1", "199.90")
	form.Set("status", "CANCELADO")

	rec := do(e, http.MethodPost, "/evento/5/editar", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `class="evento cancelado"`)
	assert.NotContains(t, rec.Body.String(), `href="/evento/5"`)
}

func TestUpdate_FailureKeepsValues(t *testing.T) {
	store := &mockStore{
		updateFn: func(ctx context.Context, id uint, req dto.BookingRequest) (*models.Booking, error) {
			return nil, errors.New("store 500")
		},
	}
	form := editValues("MENU 2", "210.00")
	form.Set("bebidas", "on")

	rec := do(newTestServer(t, store), http.MethodPost, "/evento/5/editar", form)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Erro ao atualizar evento.")
	assert.Contains(t, body, `value="210.00"`)
	assert.Contains(t, body, `name="bebidas" type="checkbox" checked`)
}

func TestServer_Health(t *testing.T) {
	rec := do(newTestServer(t, &mockStore{}), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"agenda"`)
}
