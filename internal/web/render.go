package web

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/enoteca-decanter/agenda/internal/models"
	"github.com/enoteca-decanter/agenda/internal/pricing"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates for echo's c.Render.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

var funcs = template.FuncMap{
	"price": formatPrice,
	"total": func(b *models.Booking) string {
		return formatPrice(pricing.Total(b.PricePerPerson, b.Headcount))
	},
	"headcount": func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	},
}

// formatPrice renders an amount the Brazilian way, R$ 1.234,50; absent
// amounts render as "".
func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return "R$ " + formatBRL(p.Decimal)
}

func formatBRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
