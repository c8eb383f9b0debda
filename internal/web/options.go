package web

import "github.com/enoteca-decanter/agenda/internal/models"

type option struct {
	Value    string
	Label    string
	Selected bool
}

type choice struct {
	value string
	label string
}

var (
	createStatuses = []choice{
		{"", "Status"},
		{string(models.StatusConfirmed), "Confirmado"},
		{string(models.StatusUnderReview), "Em Análise"},
	}
	editStatuses = append(createStatuses[:len(createStatuses):len(createStatuses)],
		choice{string(models.StatusCancelled), "Cancelado"})

	venues = []choice{
		{"", "Local"},
		{string(models.VenueEventRoom), "Sala de Eventos"},
		{string(models.VenueRestaurant), "Restaurante"},
	}

	createMenus = []choice{
		{"", "Menu"},
		{string(models.MenuTier1), "Menu 1"},
		{string(models.MenuTier2), "Menu 2"},
		{string(models.MenuTier3), "Menu 3"},
		{string(models.MenuCustom), "Menu a Definir"},
	}
	editMenus = []choice{
		{"", "Menu"},
		{string(models.MenuTier1), "Menu 1"},
		{string(models.MenuTier2), "Menu 2"},
		{string(models.MenuTier3), "Menu 3"},
		{string(models.MenuTier4), "Menu 4"},
		{string(models.MenuCustom), "Menu a Definir"},
	}
)

func options(choices []choice, current string) []option {
	out := make([]option, len(choices))
	for i, ch := range choices {
		out[i] = option{Value: ch.value, Label: ch.label, Selected: ch.value == current}
	}
	return out
}
