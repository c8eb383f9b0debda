package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusUnset       BookingStatus = ""
	StatusConfirmed   BookingStatus = "CONFIRMADO"
	StatusUnderReview BookingStatus = "EM ANÁLISE"
	StatusCancelled   BookingStatus = "CANCELADO"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusUnset, StatusConfirmed, StatusUnderReview, StatusCancelled:
		return true
	}
	return false
}

type Venue string

const (
	VenueUnset      Venue = ""
	VenueEventRoom  Venue = "SALA DE EVENTOS"
	VenueRestaurant Venue = "RESTAURANTE"
)

func (v Venue) Valid() bool {
	switch v {
	case VenueUnset, VenueEventRoom, VenueRestaurant:
		return true
	}
	return false
}

type MenuTier string

const (
	MenuUnset  MenuTier = ""
	MenuTier1  MenuTier = "MENU 1"
	MenuTier2  MenuTier = "MENU 2"
	MenuTier3  MenuTier = "MENU 3"
	MenuTier4  MenuTier = "MENU 4"
	MenuCustom MenuTier = "MENU A DEFINIR"
)

func (m MenuTier) Valid() bool {
	switch m {
	case MenuUnset, MenuTier1, MenuTier2, MenuTier3, MenuTier4, MenuCustom:
		return true
	}
	return false
}

var (
	ErrNegativeHeadcount = errors.New("headcount must not be negative")
	ErrInvalidHeadcount  = errors.New("headcount must be an integer")
	ErrInvalidPrice      = errors.New("price must be a decimal number")
)

// Booking is a scheduled catering/event record. JSON names follow the
// Store's wire format.
type Booking struct {
	ID              uint                `gorm:"primaryKey" json:"id,omitempty"`
	ClientName      string              `gorm:"not null" json:"cliente"`
	Company         string              `json:"empresa"`
	ScheduledAt     ScheduledAt         `gorm:"not null" json:"data_hora"`
	Headcount       *int                `json:"pessoas"`
	Status          BookingStatus       `gorm:"type:varchar(20);not null;default:''" json:"status"`
	Venue           Venue               `gorm:"type:varchar(20);not null;default:''" json:"local"`
	MenuTier        MenuTier            `gorm:"type:varchar(20);not null;default:''" json:"menu"`
	PricePerPerson  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"valor_por_pessoa"`
	BeveragePackage bool                `gorm:"not null;default:false" json:"bebidas"`
	Notes           string              `json:"observacoes"`
	CreatedAt       time.Time           `json:"-"`
	UpdatedAt       time.Time           `json:"-"`
}

func (Booking) TableName() string {
	return "eventos"
}

func (b Booking) Cancelled() bool {
	return b.Status == StatusCancelled
}

// MarshalJSON writes valor_por_pessoa as a two-decimal string.
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	var price *string
	if b.PricePerPerson.Valid {
		s := b.PricePerPerson.Decimal.StringFixed(2)
		price = &s
	}
	return json.Marshal(struct {
		alias
		PricePerPerson *string `json:"valor_por_pessoa"`
	}{alias: alias(b), PricePerPerson: price})
}

// UnmarshalJSON accepts pessoas and valor_por_pessoa either as JSON numbers
// or as the raw strings an HTML form produces, "" meaning absent.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type alias Booking
	aux := struct {
		*alias
		Headcount      json.RawMessage `json:"pessoas"`
		PricePerPerson json.RawMessage `json:"valor_por_pessoa"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	hc, err := rawString(aux.Headcount)
	if err != nil {
		return fmt.Errorf("pessoas: %w", err)
	}
	if b.Headcount, err = ParseHeadcount(hc); err != nil {
		return fmt.Errorf("pessoas: %w", err)
	}

	price, err := rawString(aux.PricePerPerson)
	if err != nil {
		return fmt.Errorf("valor_por_pessoa: %w", err)
	}
	if b.PricePerPerson, err = ParsePrice(price); err != nil {
		return fmt.Errorf("valor_por_pessoa: %w", err)
	}
	return nil
}

// rawString turns a JSON scalar into its text form; null and absent become "".
func rawString(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", err
		}
		return out, nil
	}
	return s, nil
}

// ParseHeadcount parses an optional non-negative integer; blank means absent.
func ParseHeadcount(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, ErrInvalidHeadcount
	}
	if n < 0 {
		return nil, ErrNegativeHeadcount
	}
	return &n, nil
}

// ParsePrice parses an optional decimal; a comma is accepted as the decimal
// separator.
func ParsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, ErrInvalidPrice
	}
	return decimal.NewNullDecimal(d), nil
}

func FormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.StringFixed(2)
}
