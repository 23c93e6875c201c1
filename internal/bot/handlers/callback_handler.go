package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/appealbot/appealbot/internal/category"
	"github.com/appealbot/appealbot/internal/keyboard"
)

// NewCallbackHandler returns the catch-all callback query handler. All
// button presses land here and are routed by token prefix: category
// selection, regeneration, navigation, help, and the unknown-action
// fallback.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	q := update.CallbackQuery
	if q == nil {
		return
	}

	// Answer immediately so the client drops its loading state even if
	// generation takes a while.
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID}); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", q.ID)
	}

	chatID := callbackChatID(q)
	data := q.Data
	log.InfoContext(ctx, "Dispatching callback", "chat_id", chatID, "data", data)

	switch {
	case strings.HasPrefix(data, keyboard.CategoryPrefix):
		key := strings.TrimPrefix(data, keyboard.CategoryPrefix)
		h.generateAndShow(ctx, b, chatID, key, h.deps.Config.MsgGenerating)

	case data == keyboard.RegenerateToken || strings.HasPrefix(data, keyboard.RegeneratePrefix):
		// Prefer the category encoded in the token; a bare regen token
		// falls back to the session's last category.
		key := strings.TrimPrefix(data, keyboard.RegeneratePrefix)
		if key == keyboard.RegenerateToken || key == "" {
			var ok bool
			if key, ok = h.deps.Sessions.Get(chatID); !ok {
				h.send(ctx, b, chatID, h.deps.Config.MsgNoCategory, keyboard.MainMenu())
				return
			}
		}
		h.generateAndShow(ctx, b, chatID, key, h.deps.Config.MsgRegenerating)

	case data == keyboard.BackToken || data == "menu_whatsapp":
		h.send(ctx, b, chatID, h.deps.Config.MsgBackToMenu, keyboard.CategoryMenu())

	case data == keyboard.HomeToken:
		h.send(ctx, b, chatID, h.deps.Config.MsgMainMenu, keyboard.MainMenu())

	case data == keyboard.HelpToken:
		h.send(ctx, b, chatID, h.deps.Config.MsgHelp, keyboard.MainMenu())

	default:
		log.WarnContext(ctx, "Unknown callback token", "data", data, "chat_id", chatID)
		h.send(ctx, b, chatID, h.deps.Config.MsgUnknownAction, keyboard.MainMenu())
	}
}

// generateAndShow runs the full generation path: remember the category,
// show a placeholder, call the generator with a bounded context, then
// edit the placeholder into either the report or an error message. Both
// outcomes carry the same action menu so the user always has a next step.
func (h callbackHandler) generateAndShow(ctx context.Context, b *bot.Bot, chatID int64, key, placeholderText string) {
	log := h.deps.Logger.With("handler", "callback")

	h.deps.Sessions.Set(chatID, key)
	reason := category.Resolve(key)

	placeholder, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   placeholderText,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send placeholder message", "error", err, "chat_id", chatID)
		return
	}

	genCtx, cancel := context.WithTimeout(ctx, h.deps.Config.GeminiTimeout)
	defer cancel()

	text, genErr := h.deps.GeminiClient.GenerateReport(genCtx, reason)
	if genErr != nil {
		log.ErrorContext(ctx, "Report generation failed", "error", genErr, "chat_id", chatID, "category", key)
		text = fmt.Sprintf(h.deps.Config.MsgGenerateError, genErr)
	}

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   placeholder.ID,
		Text:        text,
		ReplyMarkup: keyboard.ReportActions(key),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit placeholder with report", "error", err, "chat_id", chatID)
	}
}

func (h callbackHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send callback reply", "error", err, "chat_id", chatID)
	}
}

// callbackChatID extracts the chat ID from a callback query, handling
// both accessible and inaccessible origin messages.
func callbackChatID(q *models.CallbackQuery) int64 {
	if q.Message.Message.Date != 0 {
		return q.Message.Message.Chat.ID
	}
	return q.Message.InaccessibleMessage.Chat.ID
}
