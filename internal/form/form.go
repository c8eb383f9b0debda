// Package form is the booking form state machine shared by the create and
// edit views.
//
//	Empty ──Update──▶ Editing ──BeginSubmit──▶ Submitting ──▶ Success
//	                     ▲                          │
//	                     └────────Update──── Failed ◀┘
//
// A State is a value. Every transition returns a new State and leaves the
// receiver untouched, so a failed submission still holds exactly what the
// user typed.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/enoteca-decanter/agenda/internal/dto"
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/enoteca-decanter/agenda/internal/notice"
	"github.com/enoteca-decanter/agenda/internal/pricing"
	"github.com/google/uuid"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseEditing
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Field is a form input; its value is the wire and HTML name.
type Field string

const (
	FieldClientName  Field = "cliente"
	FieldCompany     Field = "empresa"
	FieldScheduledAt Field = "data_hora"
	FieldHeadcount   Field = "pessoas"
	FieldStatus      Field = "status"
	FieldVenue       Field = "local"
	FieldMenuTier    Field = "menu"
	FieldPrice       Field = "valor_por_pessoa"
	FieldBeverage    Field = "bebidas"
	FieldNotes       Field = "observacoes"
)

var (
	ErrEditOnly     = errors.New("value can only be set when editing")
	ErrUnknownField = errors.New("unknown field")
	ErrUnknownValue = errors.New("unknown value")
	ErrRequired     = errors.New("required field missing")
	ErrSubmitting   = errors.New("submission already in flight")
	ErrFinished     = errors.New("form already submitted")
)

// Values are the raw inputs as typed.
type Values struct {
	ClientName      string
	Company         string
	ScheduledAt     string
	Headcount       string
	Status          string
	Venue           string
	MenuTier        string
	PricePerPerson  string
	BeveragePackage bool
	Notes           string
}

// ValuesFrom renders a stored booking into form inputs.
func ValuesFrom(b *models.Booking) Values {
	v := Values{
		ClientName:      b.ClientName,
		Company:         b.Company,
		ScheduledAt:     b.ScheduledAt.Input(),
		Status:          string(b.Status),
		Venue:           string(b.Venue),
		MenuTier:        string(b.MenuTier),
		PricePerPerson:  models.FormatPrice(b.PricePerPerson),
		BeveragePackage: b.BeveragePackage,
		Notes:           b.Notes,
	}
	if b.Headcount != nil {
		v.Headcount = fmt.Sprint(*b.Headcount)
	}
	return v
}

// ValuesFromForm reads posted inputs by field name.
func ValuesFromForm(get func(name string) string) Values {
	return Values{
		ClientName:      get(string(FieldClientName)),
		Company:         get(string(FieldCompany)),
		ScheduledAt:     get(string(FieldScheduledAt)),
		Headcount:       get(string(FieldHeadcount)),
		Status:          get(string(FieldStatus)),
		Venue:           get(string(FieldVenue)),
		MenuTier:        get(string(FieldMenuTier)),
		PricePerPerson:  get(string(FieldPrice)),
		BeveragePackage: parseBool(get(string(FieldBeverage))),
		Notes:           get(string(FieldNotes)),
	}
}

type State struct {
	mode   Mode
	phase  Phase
	id     uint
	token  string
	values Values
	notice *notice.Notice
}

func NewCreate() State {
	return State{mode: ModeCreate, phase: PhaseEmpty, token: uuid.NewString()}
}

func NewEdit(b *models.Booking) State {
	return State{mode: ModeEdit, phase: PhaseEditing, id: b.ID, token: uuid.NewString(), values: ValuesFrom(b)}
}

// Restore rebuilds an Editing state from a posted form without running any
// change side effects: a posted price is kept even if the menu says
// otherwise. An empty token gets a fresh one. On error the returned state
// still carries v so it can be shown again.
func Restore(mode Mode, id uint, token string, v Values) (State, error) {
	if token == "" {
		token = uuid.NewString()
	}
	s := State{mode: mode, phase: PhaseEditing, id: id, token: token, values: v}
	for _, f := range []Field{FieldStatus, FieldVenue, FieldMenuTier} {
		if err := s.check(f, v.get(f)); err != nil {
			return s, err
		}
	}
	if mode == ModeCreate && v.BeveragePackage {
		return s, fmt.Errorf("%w: %s", ErrEditOnly, FieldBeverage)
	}
	return s, nil
}

func (s State) Mode() Mode             { return s.mode }
func (s State) Phase() Phase           { return s.phase }
func (s State) ID() uint               { return s.id }
func (s State) Token() string          { return s.token }
func (s State) Values() Values         { return s.values }
func (s State) Notice() *notice.Notice { return s.notice }

// Editable reports whether inputs may change.
func (s State) Editable() bool {
	return s.phase != PhaseSubmitting && s.phase != PhaseSuccess
}

func (s State) WithNotice(n *notice.Notice) State {
	s.notice = n
	return s
}

// Update returns s with field f set to value. In edit mode, choosing a menu
// also sets the price per person from the price table.
func Update(s State, f Field, value string) (State, error) {
	switch s.phase {
	case PhaseSubmitting:
		return s, ErrSubmitting
	case PhaseSuccess:
		return s, ErrFinished
	}
	if err := s.check(f, value); err != nil {
		return s, err
	}

	next := s
	next.phase = PhaseEditing
	v := &next.values

	switch f {
	case FieldClientName:
		v.ClientName = value
	case FieldCompany:
		v.Company = value
	case FieldScheduledAt:
		v.ScheduledAt = value
	case FieldHeadcount:
		v.Headcount = value
	case FieldStatus:
		v.Status = value
	case FieldVenue:
		v.Venue = value
	case FieldMenuTier:
		v.MenuTier = value
		if s.mode == ModeEdit {
			v.PricePerPerson = derivePrice(v.PricePerPerson, models.MenuTier(value))
		}
	case FieldPrice:
		v.PricePerPerson = value
	case FieldBeverage:
		v.BeveragePackage = parseBool(value)
	case FieldNotes:
		v.Notes = value
	}
	return next, nil
}

func derivePrice(current string, tier models.MenuTier) string {
	p, effect := pricing.Derive(tier)
	switch effect {
	case pricing.Set:
		return p.StringFixed(2)
	case pricing.Clear:
		return ""
	default:
		return current
	}
}

// check rejects unknown fields, unknown enum values and edit-only values in
// create mode.
func (s State) check(f Field, value string) error {
	switch f {
	case FieldClientName, FieldCompany, FieldScheduledAt, FieldHeadcount, FieldPrice, FieldNotes:
		return nil
	case FieldStatus:
		st := models.BookingStatus(value)
		if !st.Valid() {
			return fmt.Errorf("%w: %s=%q", ErrUnknownValue, f, value)
		}
		if s.mode == ModeCreate && st == models.StatusCancelled {
			return fmt.Errorf("%w: %s=%q", ErrEditOnly, f, value)
		}
	case FieldVenue:
		if !models.Venue(value).Valid() {
			return fmt.Errorf("%w: %s=%q", ErrUnknownValue, f, value)
		}
	case FieldMenuTier:
		m := models.MenuTier(value)
		if !m.Valid() {
			return fmt.Errorf("%w: %s=%q", ErrUnknownValue, f, value)
		}
		if s.mode == ModeCreate && m == models.MenuTier4 {
			return fmt.Errorf("%w: %s=%q", ErrEditOnly, f, value)
		}
	case FieldBeverage:
		if s.mode == ModeCreate {
			return fmt.Errorf("%w: %s", ErrEditOnly, f)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "sim":
		return true
	}
	return false
}

func (v Values) get(f Field) string {
	switch f {
	case FieldStatus:
		return v.Status
	case FieldVenue:
		return v.Venue
	case FieldMenuTier:
		return v.MenuTier
	}
	return ""
}

// Missing lists the required fields that are blank.
func (s State) Missing() []Field {
	var out []Field
	if strings.TrimSpace(s.values.ClientName) == "" {
		out = append(out, FieldClientName)
	}
	if strings.TrimSpace(s.values.ScheduledAt) == "" {
		out = append(out, FieldScheduledAt)
	}
	return out
}

// Request converts the inputs into the Store payload.
func (s State) Request() (dto.BookingRequest, error) {
	v := s.values
	at, err := models.ParseScheduledAt(v.ScheduledAt)
	if err != nil {
		return dto.BookingRequest{}, fmt.Errorf("%s: %w", FieldScheduledAt, err)
	}
	headcount, err := models.ParseHeadcount(v.Headcount)
	if err != nil {
		return dto.BookingRequest{}, fmt.Errorf("%s: %w", FieldHeadcount, err)
	}
	price, err := models.ParsePrice(v.PricePerPerson)
	if err != nil {
		return dto.BookingRequest{}, fmt.Errorf("%s: %w", FieldPrice, err)
	}

	return dto.BookingRequest{
		ClientName:      strings.TrimSpace(v.ClientName),
		Company:         v.Company,
		ScheduledAt:     at,
		Headcount:       headcount,
		Status:          models.BookingStatus(v.Status),
		Venue:           models.Venue(v.Venue),
		MenuTier:        models.MenuTier(v.MenuTier),
		PricePerPerson:  price,
		BeveragePackage: s.mode == ModeEdit && v.BeveragePackage,
		Notes:           v.Notes,
	}, nil
}

// BeginSubmit moves to Submitting. It refuses while a submission is already
// in flight, after success, and when a required field is blank or a value
// does not parse.
func BeginSubmit(s State) (State, error) {
	switch s.phase {
	case PhaseSubmitting:
		return s, ErrSubmitting
	case PhaseSuccess:
		return s, ErrFinished
	}
	if missing := s.Missing(); len(missing) > 0 {
		return s, fmt.Errorf("%w: %v", ErrRequired, missing)
	}
	if _, err := s.Request(); err != nil {
		return s, err
	}

	next := s
	next.phase = PhaseSubmitting
	next.notice = nil
	return next, nil
}

// Succeeded and Failed end a submission; outside Submitting they return s.
func (s State) Succeeded() State {
	if s.phase != PhaseSubmitting {
		return s
	}
	s.phase = PhaseSuccess
	return s
}

func (s State) Failed(n *notice.Notice) State {
	if s.phase != PhaseSubmitting {
		return s
	}
	s.phase = PhaseFailed
	s.notice = n
	return s
}
