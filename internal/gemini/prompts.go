package gemini

import "fmt"

// reportPromptTemplate is the instruction sent for every report generation.
// The format string expects one parameter: the reason text (the category
// label, or the raw callback key when the category is unknown).
const reportPromptTemplate = `You are a helper that generates a short, formal report message to appeal or report a WhatsApp account.
You MUST ONLY output the report text (no extra commentary, no signatures, no 'As an AI' lines).
Reason: %s
Include the necessary details for a WhatsApp report: what happened in 2-4 concise paragraphs, include time, example messages (short), and a clear request for action (e.g., reinstate/ban/remove content).
Keep it professional and concise (max ~200-300 words).`

// BuildReportPrompt returns the generation instruction for the given
// reason. Pure function: every reason, known or not, produces a complete
// prompt with the output-only directive and the length constraint.
func BuildReportPrompt(reason string) string {
	return fmt.Sprintf(reportPromptTemplate, reason)
}
