package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/appealbot/appealbot/internal/database"
	"github.com/appealbot/appealbot/internal/keyboard"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	from := update.Message.From
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", from.ID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.MsgWelcome,
		ReplyMarkup: keyboard.MainMenu(),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}

	// A failed registry write must not block the conversation; the user
	// just misses future broadcasts.
	user := &database.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
	if err := h.deps.Store.UpsertUser(ctx, user); err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", from.ID)
	}
}
