// Package gemini implements the report generator on top of Google's
// Gemini API. It turns a complaint reason into a ready-to-send report
// message and hides the raw API response shapes from the rest of the bot.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/appealbot/appealbot/internal/config"
)

// Client defines the AI operations used by the bot handlers.
type Client interface {
	// GenerateReport produces a report message for the given reason.
	// The result is trimmed; the caller displays it verbatim. Calls with
	// the same reason are expected to produce different text, which is
	// what the Regenerate action relies on.
	GenerateReport(ctx context.Context, reason string) (string, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a Gemini client from the application configuration.
func NewClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.GeminiTemperature
	contentConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.GeminiModel)

	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: contentConfig,
		modelName:     cfg.GeminiModel,
		maxRetries:    cfg.GeminiMaxRetries,
		retryDelay:    cfg.GeminiRetryDelay,
	}, nil
}

// GenerateReport builds the report prompt for the reason and runs one
// generation call, retrying transient server errors. It never panics past
// this boundary: the caller always gets text or a wrapped error.
func (c *sdkClient) GenerateReport(ctx context.Context, reason string) (string, error) {
	c.log.DebugContext(ctx, "Generating report", "reason", reason)

	prompt := BuildReportPrompt(reason)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		c.log.ErrorContext(ctx, "Report generation failed", "reason", reason, "error", err)
		return "", fmt.Errorf("report generation failed: %w", err)
	}

	text, err := extractReportText(resp)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to extract report text", "reason", reason, "error", err)
		return "", err
	}

	return text, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry",
			"attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call", "delay", c.retryDelay, "code", apiErr.Code)
				select {
				case <-time.After(c.retryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return nil, err
}

// extractReportText normalizes a generation response into plain text.
// The payload location has moved between SDK versions, so extraction
// tries an ordered list of strategies: the SDK's aggregated Text helper,
// a manual walk over candidate parts, and finally a JSON rendering of the
// whole response. A blocked prompt or an empty candidate list is an error.
func extractReportText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned nil response")
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("generation blocked by safety filter: %s", reason)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text, nil
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	if text := strings.TrimSpace(sb.String()); text != "" {
		return text, nil
	}

	// Last resort: hand back the whole response so the user sees
	// something actionable rather than a silent empty message.
	if raw, err := json.Marshal(resp); err == nil {
		if text := strings.TrimSpace(string(raw)); text != "" && text != "{}" {
			return text, nil
		}
	}

	return "", errors.New("gemini returned empty content")
}
