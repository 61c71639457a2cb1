// Package narrative wraps text completion behind the structural templates
// each generation kind must follow.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"storyforge/internal/services"
	"storyforge/internal/services/openai"
	"storyforge/internal/textnorm"
)

// Completer is the completion surface the generator depends on.
type Completer interface {
	Complete(ctx context.Context, req openai.Request) (string, error)
}

// Sources carries the input texts a template may interpolate. Which fields a
// given kind reads is determined by its template.
type Sources struct {
	Transcript string
	Provider   string
	Client     string
	Story      string
}

// Request describes one generation call.
type Request struct {
	Kind     Kind
	Language string
	Sources  Sources
}

// Generator renders prompt templates and issues completion calls. It does not
// retry; transport and upstream failures surface to the caller.
type Generator struct {
	completer Completer
	templates map[Kind]*template.Template
	logger    *slog.Logger
}

// NewGenerator parses the template registry and returns a ready generator.
func NewGenerator(completer Completer, logger *slog.Logger) (*Generator, error) {
	if completer == nil {
		return nil, services.Wrap(services.ErrInput, "narrative", "new", "completer required", nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	templates := make(map[Kind]*template.Template, len(templateSpecs))
	for kind, spec := range templateSpecs {
		parsed, err := template.New(string(kind)).Parse(spec.System)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", kind, err)
		}
		templates[kind] = parsed
	}
	return &Generator{completer: completer, templates: templates, logger: logger}, nil
}

type promptData struct {
	Language   string
	Transcript string
	Provider   string
	Client     string
	Story      string
}

// Generate renders the template for the request and returns normalized prose.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	spec, ok := templateSpecs[req.Kind]
	if !ok {
		return "", services.Wrap(services.ErrInput, "narrative", "generate", fmt.Sprintf("unknown kind %q", req.Kind), nil)
	}
	tmpl := g.templates[req.Kind]

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "English"
	}
	data := promptData{
		Language:   lang,
		Transcript: strings.TrimSpace(req.Sources.Transcript),
		Provider:   strings.TrimSpace(req.Sources.Provider),
		Client:     strings.TrimSpace(req.Sources.Client),
		Story:      strings.TrimSpace(req.Sources.Story),
	}

	var prompt strings.Builder
	if err := tmpl.Execute(&prompt, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", req.Kind, err)
	}

	g.logger.Debug("generation call",
		slog.String("kind", string(req.Kind)),
		slog.String("language", lang))

	content, err := g.completer.Complete(ctx, openai.Request{
		System:      prompt.String(),
		Temperature: spec.Temperature,
		TopP:        spec.TopP,
		MaxTokens:   spec.MaxTokens,
	})
	if err != nil {
		// The completion client already classified the failure; keep its marker.
		return "", fmt.Errorf("narrative %s: %w", req.Kind, err)
	}
	return textnorm.Normalize(strings.TrimSpace(content)), nil
}
