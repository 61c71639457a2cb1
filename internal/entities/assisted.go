package entities

import (
	"context"
	"log/slog"
	"strings"

	"storyforge/internal/services/openai"
)

const (
	assistMaxChars = 2000
	assistMaxLines = 20
)

const assistPrompt = `You extract company and project names from business case study text.
Return ONLY a JSON object with exactly these three keys:
{"lead_entity": "...", "partner_entity": "...", "project_title": "..."}
lead_entity is the solution provider, partner_entity is their client
(empty string if no client is named), project_title is the delivered
project, product, or service. Do not add commentary.`

// Completer is the completion surface the assisted extractor depends on.
type Completer interface {
	Complete(ctx context.Context, req openai.Request) (string, error)
}

// Extractor derives entities with a model assist, falling back to the
// deterministic title-line parser whenever the assist cannot be trusted.
type Extractor struct {
	completer Completer
	logger    *slog.Logger
}

// NewExtractor builds an assisted extractor. A nil completer disables the
// assist entirely so Extract degrades to the deterministic strategy.
func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{completer: completer, logger: logger}
}

// Extract runs the assisted strategy over the opening of the narrative. Any
// transport failure, malformed payload, or placeholder field falls back to
// the deterministic values; extraction itself never fails.
func (e *Extractor) Extract(ctx context.Context, text string) Entities {
	deterministic := Extract(text)
	if e == nil || e.completer == nil {
		return deterministic
	}

	head := narrativeHead(text)
	if head == "" {
		return deterministic
	}

	content, err := e.completer.Complete(ctx, openai.Request{
		System:   assistPrompt,
		User:     head,
		JSONOnly: true,
	})
	if err != nil {
		e.logger.Debug("assisted entity extraction unavailable", slog.String("error", err.Error()))
		return deterministic
	}

	var parsed Entities
	if err := openai.DecodeModelJSON(content, &parsed); err != nil {
		e.logger.Debug("assisted entity payload malformed", slog.String("error", err.Error()))
		return deterministic
	}

	return Entities{
		Lead:    pickField(parsed.Lead, deterministic.Lead),
		Partner: pickPartner(parsed.Partner, deterministic.Partner),
		Project: pickField(parsed.Project, deterministic.Project),
	}
}

func narrativeHead(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > assistMaxLines {
		lines = lines[:assistMaxLines]
	}
	head := strings.TrimSpace(strings.Join(lines, "\n"))
	if len(head) > assistMaxChars {
		head = head[:assistMaxChars]
	}
	return head
}

func placeholder(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unknown", "none", "n/a":
		return true
	}
	return false
}

func pickField(assisted, deterministic string) string {
	if placeholder(assisted) {
		return deterministic
	}
	return strings.TrimSpace(assisted)
}

// Partner may legitimately be empty, so only reject explicit placeholders.
func pickPartner(assisted, deterministic string) string {
	trimmed := strings.TrimSpace(assisted)
	if trimmed == "" {
		return deterministic
	}
	if placeholder(trimmed) {
		return deterministic
	}
	return trimmed
}
