package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/appealbot/appealbot/internal/keyboard"
)

// NewDefaultHandler returns the fallback handler for plain text messages
// that match no registered command: it points the user back at the menu.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	return defaultHandler{deps}.Handle
}

type defaultHandler struct {
	deps HandlerDeps
}

func (h defaultHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	// Unrecognized commands stay silent; only free text gets the nudge.
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.MsgUseMenu,
		ReplyMarkup: keyboard.MainMenu(),
	})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send menu nudge", "error", err, "chat_id", chatID)
	}
}
