package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatusHandler returns a handler for the /status liveness command.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	text := h.deps.Config.MsgStatusOK
	if err := h.deps.Store.Ping(ctx); err != nil {
		log.WarnContext(ctx, "Database ping failed during status check", "error", err)
		text = fmt.Sprintf("%s Database unreachable: %v", text, err)
	} else if count, err := h.deps.Store.CountUsers(ctx); err == nil {
		text = fmt.Sprintf("%s Registered users: %d.", text, count)
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send status message", "error", err, "chat_id", chatID)
	}
}
