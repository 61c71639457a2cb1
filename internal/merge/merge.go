// Package merge builds the merged case-study story from the provider
// summary and, when the client completed their interview, the client
// summary. With no client material the story is built in provider-only
// mode, which asks the model for a single plausible client-voice quote
// instead of real client input.
package merge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storyforge/internal/narrative"
	"storyforge/internal/services"
)

// Request carries the source material for a merge.
type Request struct {
	ProviderSummary string
	ClientSummary   string
	Language        string
}

// Result is the produced story plus the mode it was produced in.
type Result struct {
	Story          string
	ProviderOnly   bool
	ClientIncluded bool
}

// Engine produces merged stories through the narrative generator.
type Engine struct {
	gen    *narrative.Generator
	logger *slog.Logger
}

func NewEngine(gen *narrative.Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, logger: logger}
}

// Merge generates the case-study story. The provider summary is required;
// the client summary is optional and switches the prompt between dual-source
// and provider-only mode. On failure nothing is produced and the error
// carries the upstream classification.
func (e *Engine) Merge(ctx context.Context, req Request) (Result, error) {
	provider := strings.TrimSpace(req.ProviderSummary)
	if provider == "" {
		return Result{}, services.Wrap(services.ErrInput, "merge", "merge", "provider summary is required", nil)
	}
	client := strings.TrimSpace(req.ClientSummary)

	e.logger.Info("merging case study",
		"provider_only", client == "",
		"language", req.Language)

	story, err := e.gen.Generate(ctx, narrative.Request{
		Kind:     narrative.KindMergedStory,
		Language: req.Language,
		Sources: narrative.Sources{
			Provider: provider,
			Client:   client,
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("merging story: %w", err)
	}
	return Result{
		Story:          story,
		ProviderOnly:   client == "",
		ClientIncluded: client != "",
	}, nil
}
