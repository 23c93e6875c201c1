package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"
)

// sendFunc delivers one broadcast message to one recipient.
type sendFunc func(ctx context.Context, chatID int64, text string) error

// NewBroadcastHandler returns the handler for the admin /broadcast
// command. Authorization is enforced by the AdminOnly middleware wrapped
// around it at registration.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	text := parseBroadcastText(update.Message.Text)
	if text == "" {
		h.reply(ctx, b, chatID, h.deps.Config.MsgBroadcastUse)
		return
	}

	ids, err := h.deps.Store.ListUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list broadcast recipients", "error", err)
		h.reply(ctx, b, chatID, h.deps.Config.MsgDBNotReady)
		return
	}

	log.InfoContext(ctx, "Starting broadcast", "recipients", len(ids), "admin_id", update.Message.From.ID)
	h.reply(ctx, b, chatID, fmt.Sprintf("Broadcasting to %d users...", len(ids)))

	send := func(ctx context.Context, recipient int64, body string) error {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: recipient, Text: body})
		return err
	}

	sent, failed := broadcastAll(ctx, send, ids, text, h.deps.Config.BroadcastConcurrency)

	log.InfoContext(ctx, "Broadcast finished", "sent", sent, "failed", failed)
	h.reply(ctx, b, chatID, fmt.Sprintf("Done. Sent: %d, Failed: %d", sent, failed))
}

func (h broadcastHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send broadcast reply", "error", err, "chat_id", chatID)
	}
}

// parseBroadcastText extracts the message body from a /broadcast command,
// tolerating the /broadcast@botname form used in groups.
func parseBroadcastText(commandText string) string {
	_, rest, found := strings.Cut(commandText, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

// broadcastAll delivers text to every recipient with at most limit
// deliveries in flight. Each attempt is independent: a failed delivery is
// counted and never aborts the rest. Returns the success and failure
// counts.
func broadcastAll(ctx context.Context, send sendFunc, recipients []int64, text string, limit int) (sent, failed int64) {
	if limit < 1 {
		limit = 1
	}

	var sentCount, failedCount atomic.Int64

	g := &errgroup.Group{}
	g.SetLimit(limit)

	for _, recipient := range recipients {
		g.Go(func() error {
			if err := send(ctx, recipient, text); err != nil {
				failedCount.Add(1)
			} else {
				sentCount.Add(1)
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return sentCount.Load(), failedCount.Load()
}
