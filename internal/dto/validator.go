package dto

import (
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo's Context.Validate.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return models.BookingStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("venue", func(fl validator.FieldLevel) bool {
		return models.Venue(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("menu_tier", func(fl validator.FieldLevel) bool {
		return models.MenuTier(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
