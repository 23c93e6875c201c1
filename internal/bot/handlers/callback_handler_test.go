package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/appealbot/appealbot/internal/config"
)

// apiCall records one request the handler made against the fake Bot API.
type apiCall struct {
	method string
	body   string
}

// newTestBot starts a fake Bot API server and returns a bot wired to it
// plus an accessor for the calls it received. Message-producing methods
// answer with a fixed message so placeholder edits have an ID to target.
func newTestBot(t *testing.T) (*bot.Bot, func() []apiCall) {
	t.Helper()

	var mu sync.Mutex
	var calls []apiCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		method := path.Base(r.URL.Path)

		mu.Lock()
		calls = append(calls, apiCall{method: method, body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "sendMessage", "editMessageText":
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":42,"date":1,"chat":{"id":1,"type":"private"}}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test-token",
		bot.WithServerURL(srv.URL),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		t.Fatalf("failed to construct test bot: %v", err)
	}

	return b, func() []apiCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]apiCall(nil), calls...)
	}
}

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	reasons []string
}

func (s *stubGenerator) GenerateReport(_ context.Context, reason string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasons = append(s.reasons, reason)
	return s.text, s.err
}

func (s *stubGenerator) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reasons...)
}

func newCallbackDeps(gen *stubGenerator) HandlerDeps {
	return HandlerDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{
			GeminiTimeout:    5 * time.Second,
			MsgGenerating:    "Generating report message...",
			MsgRegenerating:  "Regenerating report message...",
			MsgGenerateError: "Error generating report: %v",
			MsgNoCategory:    "No category selected yet. Pick one from the menu:",
			MsgUnknownAction: "Unknown action.",
			MsgBackToMenu:    "Back to report menu:",
			MsgMainMenu:      "Main menu:",
			MsgHelp:          "This bot generates report text only.",
		},
		GeminiClient: gen,
		Sessions:     NewSessionStore(),
	}
}

func callbackUpdate(chatID int64, data string) *models.Update {
	return &models.Update{
		ID: 1,
		CallbackQuery: &models.CallbackQuery{
			ID:   "cbq-1",
			From: models.User{ID: chatID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{
					ID:   7,
					Date: 1700000000,
					Chat: models.Chat{ID: chatID, Type: "private"},
				},
			},
		},
	}
}

func lastCallTo(calls []apiCall, method string) (apiCall, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].method == method {
			return calls[i], true
		}
	}
	return apiCall{}, false
}

func countCalls(calls []apiCall, method string) int {
	n := 0
	for _, c := range calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func TestCallbackCategorySelectionShowsReport(t *testing.T) {
	t.Parallel()

	b, getCalls := newTestBot(t)
	gen := &stubGenerator{text: "Example report."}
	deps := newCallbackDeps(gen)

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(100, "cat:spam"))

	calls := getCalls()

	if countCalls(calls, "answerCallbackQuery") != 1 {
		t.Error("expected the callback query to be answered")
	}

	placeholder, ok := lastCallTo(calls, "sendMessage")
	if !ok {
		t.Fatal("expected a placeholder sendMessage")
	}
	if !strings.Contains(placeholder.body, deps.Config.MsgGenerating) {
		t.Errorf("placeholder does not carry the generating text: %q", placeholder.body)
	}

	edit, ok := lastCallTo(calls, "editMessageText")
	if !ok {
		t.Fatal("expected the placeholder to be edited with the report")
	}
	if !strings.Contains(edit.body, "Example report.") {
		t.Errorf("edited message does not carry the generator output: %q", edit.body)
	}
	for _, token := range []string{"regen:spam", "back:menu", "home"} {
		if !strings.Contains(edit.body, token) {
			t.Errorf("report menu missing %q", token)
		}
	}

	if got := gen.calls(); len(got) != 1 || got[0] != "Spam report" {
		t.Errorf("expected one generation for the spam label, got %v", got)
	}
	if key, ok := deps.Sessions.Get(100); !ok || key != "spam" {
		t.Errorf("session should remember the selected category, got %q (%v)", key, ok)
	}
}

func TestCallbackGenerationFailureKeepsActionMenu(t *testing.T) {
	t.Parallel()

	b, getCalls := newTestBot(t)
	gen := &stubGenerator{err: errors.New("network down")}
	deps := newCallbackDeps(gen)

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(101, "cat:malware"))

	edit, ok := lastCallTo(getCalls(), "editMessageText")
	if !ok {
		t.Fatal("expected the placeholder to be edited with the error")
	}
	if !strings.Contains(edit.body, "Error generating report:") || !strings.Contains(edit.body, "network down") {
		t.Errorf("error display does not describe the fault: %q", edit.body)
	}
	for _, token := range []string{"regen:malware", "back:menu", "home"} {
		if !strings.Contains(edit.body, token) {
			t.Errorf("error display menu missing %q", token)
		}
	}
}

func TestCallbackBareRegenWithoutSession(t *testing.T) {
	t.Parallel()

	b, getCalls := newTestBot(t)
	gen := &stubGenerator{text: "unused"}
	deps := newCallbackDeps(gen)

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(102, "regen"))

	calls := getCalls()

	if len(gen.calls()) != 0 {
		t.Error("no generation should happen without a category")
	}
	if countCalls(calls, "editMessageText") != 0 {
		t.Error("no placeholder edit expected without a category")
	}

	reply, ok := lastCallTo(calls, "sendMessage")
	if !ok {
		t.Fatal("expected a reply message")
	}
	if !strings.Contains(reply.body, deps.Config.MsgNoCategory) {
		t.Errorf("reply does not explain the missing category: %q", reply.body)
	}
	for _, token := range []string{"cat:spam", "help"} {
		if !strings.Contains(reply.body, token) {
			t.Errorf("main menu missing %q", token)
		}
	}
}

func TestCallbackBareRegenUsesSessionCategory(t *testing.T) {
	t.Parallel()

	b, getCalls := newTestBot(t)
	gen := &stubGenerator{text: "Regenerated report."}
	deps := newCallbackDeps(gen)
	deps.Sessions.Set(103, "harassment")

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(103, "regen"))

	if got := gen.calls(); len(got) != 1 || got[0] != "Harassment/Threat" {
		t.Errorf("expected one generation for the remembered category, got %v", got)
	}

	edit, ok := lastCallTo(getCalls(), "editMessageText")
	if !ok {
		t.Fatal("expected the placeholder to be edited with the report")
	}
	if !strings.Contains(edit.body, "Regenerated report.") || !strings.Contains(edit.body, "regen:harassment") {
		t.Errorf("regenerated display incomplete: %q", edit.body)
	}
}

func TestCallbackTokenEncodedRegenOverridesSession(t *testing.T) {
	t.Parallel()

	b, _ := newTestBot(t)
	gen := &stubGenerator{text: "ok"}
	deps := newCallbackDeps(gen)
	deps.Sessions.Set(104, "spam")

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(104, "regen:illegal"))

	if got := gen.calls(); len(got) != 1 || got[0] != "Illegal content" {
		t.Errorf("token-encoded category must win over the session, got %v", got)
	}
}

func TestCallbackUnknownTokenShowsMainMenu(t *testing.T) {
	t.Parallel()

	b, getCalls := newTestBot(t)
	gen := &stubGenerator{}
	deps := newCallbackDeps(gen)

	NewCallbackHandler(deps)(context.Background(), b, callbackUpdate(105, "bogus:token"))

	reply, ok := lastCallTo(getCalls(), "sendMessage")
	if !ok {
		t.Fatal("expected a reply message")
	}
	if !strings.Contains(reply.body, deps.Config.MsgUnknownAction) {
		t.Errorf("reply does not carry the unknown-action text: %q", reply.body)
	}
	if !strings.Contains(reply.body, "cat:spam") {
		t.Errorf("unknown action must re-display the main menu: %q", reply.body)
	}
	if len(gen.calls()) != 0 {
		t.Error("unknown tokens must not trigger generation")
	}
}
