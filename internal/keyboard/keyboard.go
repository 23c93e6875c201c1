// Package keyboard builds the inline keyboards presented by the bot.
// Builders are pure: they return fresh markup values every call and have
// no failure modes. The callback tokens they attach are interpreted by
// the callback handler, never by this package.
package keyboard

import (
	"github.com/go-telegram/bot/models"

	"github.com/appealbot/appealbot/internal/category"
)

// Callback token prefixes and literals shared with the callback handler.
const (
	CategoryPrefix   = "cat:"
	RegeneratePrefix = "regen:"
	RegenerateToken  = "regen"
	BackToken        = "back:menu"
	HomeToken        = "home"
	HelpToken        = "help"
)

// MainMenu returns the top-level menu: one row per category plus a Help
// row.
func MainMenu() *models.InlineKeyboardMarkup {
	rows := categoryRows()
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Help", CallbackData: HelpToken},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// CategoryMenu returns the category selection menu reached via Back. It
// carries the same category rows plus a Home row.
func CategoryMenu() *models.InlineKeyboardMarkup {
	rows := categoryRows()
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Home", CallbackData: HomeToken},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// ReportActions returns the menu attached under a generated report. The
// category key is encoded in the Regenerate token so regeneration does
// not depend on shared session state.
func ReportActions(cat string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Regenerate", CallbackData: RegeneratePrefix + cat},
				{Text: "Back", CallbackData: BackToken},
			},
			{
				{Text: "Home", CallbackData: HomeToken},
			},
		},
	}
}

func categoryRows() [][]models.InlineKeyboardButton {
	cats := category.All()
	rows := make([][]models.InlineKeyboardButton, 0, len(cats)+1)
	for _, c := range cats {
		label, _ := category.Label(c)
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: label, CallbackData: CategoryPrefix + c.Key()},
		})
	}
	return rows
}
