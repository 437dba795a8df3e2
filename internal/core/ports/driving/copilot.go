package driving

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// CopilotService turns a question into a prompt grounded in note excerpts,
// ready to paste into any chat assistant.
type CopilotService interface {
	// BuildPrompt searches for question and quotes the top k excerpts.
	// k is clamped to [domain.MinCopilotK, domain.MaxCopilotK].
	BuildPrompt(ctx context.Context, question string, k int) (*domain.CopilotPrompt, error)
}
