// Package analyzer produces the narrative parts of a wellbeing assessment:
// the complaint stress estimate, the wellbeing gist paragraph and the daily
// guidance list.
//
// Two implementations exist. The LLM analyzer calls the DeepSeek API and
// falls back to deterministic output whenever the provider fails. The
// heuristic analyzer is purely deterministic and is selected when no API key
// is configured, so the pipeline stays fully functional offline.
package analyzer

import (
	"context"
	"log/slog"

	"github.com/mentor-hub/student-mentor/internal/domain/student"
)

// Analyzer generates assessment text for a student snapshot. Implementations
// never fail: every method degrades to a deterministic result instead of
// returning an error, because an assessment must always be produced.
type Analyzer interface {
	// ComplaintStress estimates the stress indicated by unresolved
	// complaints on a 0-30 scale.
	ComplaintStress(ctx context.Context, complaints []student.Complaint) float64

	// WellbeingGist writes a short supportive paragraph about how the
	// student is doing.
	WellbeingGist(ctx context.Context, snap *student.Snapshot) string

	// Guidance generates up to three personalized daily habits.
	Guidance(ctx context.Context, snap *student.Snapshot) []string
}

// CompletionClient is the LLM surface the analyzer depends on.
type CompletionClient interface {
	Configured() bool
	ChatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// New selects an Analyzer based on whether an LLM provider is configured.
func New(client CompletionClient, logger *slog.Logger) Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if client != nil && client.Configured() {
		return &llmAnalyzer{
			client: client,
			logger: logger.With(slog.String("component", "llm_analyzer")),
		}
	}
	logger.Info("LLM provider not configured, using heuristic analyzer")
	return &heuristicAnalyzer{}
}
