package dto

import (
	"encoding/json"

	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/shopspring/decimal"
)

// BookingRequest is the full payload of POST /eventos and PUT /eventos/:id.
// Updates replace the whole record, so both share one shape.
type BookingRequest struct {
	ClientName      string               `json:"cliente" validate:"required"`
	Company         string               `json:"empresa"`
	ScheduledAt     models.ScheduledAt   `json:"data_hora"`
	Headcount       *int                 `json:"pessoas" validate:"omitempty,gte=0"`
	Status          models.BookingStatus `json:"status" validate:"booking_status"`
	Venue           models.Venue         `json:"local" validate:"venue"`
	MenuTier        models.MenuTier      `json:"menu" validate:"menu_tier"`
	PricePerPerson  decimal.NullDecimal  `json:"valor_por_pessoa"`
	BeveragePackage bool                 `json:"bebidas"`
	Notes           string               `json:"observacoes"`
}

func (r *BookingRequest) UnmarshalJSON(data []byte) error {
	var b models.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*r = FromBooking(&b)
	return nil
}

func (r BookingRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToBooking())
}

// ToBooking builds a record without an id.
func (r BookingRequest) ToBooking() *models.Booking {
	return &models.Booking{
		ClientName:      r.ClientName,
		Company:         r.Company,
		ScheduledAt:     r.ScheduledAt,
		Headcount:       r.Headcount,
		Status:          r.Status,
		Venue:           r.Venue,
		MenuTier:        r.MenuTier,
		PricePerPerson:  r.PricePerPerson,
		BeveragePackage: r.BeveragePackage,
		Notes:           r.Notes,
	}
}

func FromBooking(b *models.Booking) BookingRequest {
	return BookingRequest{
		ClientName:      b.ClientName,
		Company:         b.Company,
		ScheduledAt:     b.ScheduledAt,
		Headcount:       b.Headcount,
		Status:          b.Status,
		Venue:           b.Venue,
		MenuTier:        b.MenuTier,
		PricePerPerson:  b.PricePerPerson,
		BeveragePackage: b.BeveragePackage,
		Notes:           b.Notes,
	}
}
