package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driving"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

// Ensure CopilotService implements the interface.
var _ driving.CopilotService = (*CopilotService)(nil)

const copilotExcerptLen = 800

// CopilotService builds prompts that quote the notes most relevant to a
// question, for pasting into an external assistant.
type CopilotService struct {
	indexes  driving.IndexService
	defaultK int
	prompts  driven.PromptStore
}

// NewCopilotService creates a copilot service. defaultK is used when a
// caller passes k <= 0.
func NewCopilotService(indexes driving.IndexService, defaultK int) *CopilotService {
	return &CopilotService{indexes: indexes, defaultK: domain.ClampCopilotK(defaultK)}
}

// SetPromptStore sets where the instruction block is loaded from.
// Without one the built-in instruction is used.
func (s *CopilotService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// BuildPrompt searches for question and assembles the prompt.
// A blank question yields an empty prompt with no sources.
func (s *CopilotService) BuildPrompt(ctx context.Context, question string, k int) (*domain.CopilotPrompt, error) {
	if k <= 0 {
		k = s.defaultK
	}
	k = domain.ClampCopilotK(k)
	question = strings.TrimSpace(question)

	out := &domain.CopilotPrompt{Question: question, K: k}
	if question == "" {
		return out, nil
	}

	idx, err := s.indexes.Current(ctx)
	if err != nil {
		return nil, err
	}
	hits := idx.Search(question, k)
	logger.Debug("Copilot: %d excerpts for %q", len(hits), question)

	lines := make([]string, 0, len(hits))
	for i, h := range hits {
		title := h.Chunk.NoteTitle
		if title == "" {
			title = filepath.Base(h.Chunk.NotePath)
		}
		src := domain.CopilotSource{
			N:        i + 1,
			Title:    title,
			NotePath: h.Chunk.NotePath,
			Created:  h.Chunk.NoteCreated,
			Excerpt:  Truncate(strings.TrimSpace(h.Chunk.Text), copilotExcerptLen),
		}
		out.Sources = append(out.Sources, src)
		lines = append(lines, fmt.Sprintf("[%d] %s — %s\n%s\n",
			src.N, src.Created.Format(domain.TimeLayout), src.Title, src.Excerpt))
	}

	out.Prompt = s.instruction() + "\nQuestion: " + question + "\n\nExcerpts:\n" + strings.Join(lines, "\n")
	return out, nil
}

func (s *CopilotService) instruction() string {
	if s.prompts == nil {
		return domain.CopilotInstruction
	}
	text, err := s.prompts.Load(driven.PromptCopilot)
	if err != nil {
		logger.Warn("Using built-in copilot instruction: %v", err)
		return domain.CopilotInstruction
	}
	return text
}
