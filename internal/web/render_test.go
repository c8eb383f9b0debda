package web

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"199.9", "R$ 199,90"},
		{"0", "R$ 0,00"},
		{"7996", "R$ 7.996,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-15.5", "R$ -15,50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := formatPrice(decimal.NewNullDecimal(decimal.RequireFromString(tt.in)))
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "", formatPrice(decimal.NullDecimal{}))
}

func TestNewRenderer_ParsesTemplates(t *testing.T) {
	r, err := NewRenderer()

	assert.NoError(t, err)
	for _, name := range []string{"list.html", "detail.html", "form.html"} {
		assert.NotNil(t, r.templates.Lookup(name), name)
	}
}
