// Package pricing holds the menu price table and the totals derived from it.
package pricing

import (
	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/shopspring/decimal"
)

// Effect says what selecting a menu tier does to the price per person.
type Effect int

const (
	// Keep leaves the current price untouched.
	Keep Effect = iota
	// Set replaces the price with the tier's default.
	Set
	// Clear blanks the price so it can be typed by hand.
	Clear
)

var table = map[models.MenuTier]decimal.Decimal{
	models.MenuTier1: decimal.RequireFromString("199.90"),
	models.MenuTier2: decimal.RequireFromString("229.90"),
	models.MenuTier3: decimal.RequireFromString("255.90"),
	models.MenuTier4: decimal.RequireFromString("299.90"),
}

// DefaultPrice returns the table price for a tier, if it has one.
func DefaultPrice(tier models.MenuTier) (decimal.Decimal, bool) {
	p, ok := table[tier]
	return p, ok
}

// Derive reports how a newly selected tier changes the price per person.
// The returned price is only meaningful with Set.
func Derive(tier models.MenuTier) (decimal.Decimal, Effect) {
	if p, ok := table[tier]; ok {
		return p, Set
	}
	if tier == models.MenuCustom {
		return decimal.Zero, Clear
	}
	return decimal.Zero, Keep
}

// Apply returns current as changed by selecting tier.
func Apply(current decimal.NullDecimal, tier models.MenuTier) decimal.NullDecimal {
	p, effect := Derive(tier)
	switch effect {
	case Set:
		return decimal.NewNullDecimal(p)
	case Clear:
		return decimal.NullDecimal{}
	default:
		return current
	}
}

// Total is price times headcount; it is absent when either input is.
func Total(price decimal.NullDecimal, headcount *int) decimal.NullDecimal {
	if !price.Valid || headcount == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(price.Decimal.Mul(decimal.NewFromInt(int64(*headcount))))
}
