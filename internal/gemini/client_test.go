package gemini

import (
	"strings"
	"testing"

	"google.golang.org/genai"
)

func candidateWithText(texts ...string) *genai.Candidate {
	parts := make([]*genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, &genai.Part{Text: t})
	}
	return &genai.Candidate{Content: &genai.Content{Parts: parts}}
}

func TestExtractReportText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr string
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: "nil response",
		},
		{
			name: "single text part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{candidateWithText("Example report.")},
			},
			want: "Example report.",
		},
		{
			name: "surrounding whitespace trimmed",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{candidateWithText("  \nExample report.\n  ")},
			},
			want: "Example report.",
		},
		{
			name: "multiple parts concatenated",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{candidateWithText("First paragraph. ", "Second paragraph.")},
			},
			want: "First paragraph. Second paragraph.",
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason:        genai.BlockedReasonSafety,
					BlockReasonMessage: "unsafe request",
				},
			},
			wantErr: "unsafe request",
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: "no candidates",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := extractReportText(tc.resp)
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got text %q", tc.wantErr, got)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error %q does not contain %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("extractReportText = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestExtractReportTextFallsBackToRawResponse(t *testing.T) {
	t.Parallel()

	// Candidate exists but carries no text parts: the stringified
	// response is better than a silent empty message.
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png"}}}}},
		},
	}

	got, err := extractReportText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "image/png") {
		t.Errorf("expected raw response fallback, got %q", got)
	}
}
