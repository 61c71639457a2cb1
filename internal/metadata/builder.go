package metadata

import (
	"context"
	"log/slog"
	"strings"

	"storyforge/internal/narrative"
	"storyforge/internal/sentiment"
)

// takeawaysPlaceholder stands in when takeaway generation fails or no
// client material exists. Takeaways are decorative; their failure must
// never sink a merge.
const takeawaysPlaceholder = "Client takeaways are not available for this case study."

// Metadata is the derived material stored alongside the clean story.
type Metadata struct {
	Corrections Section            `json:"corrections"`
	Quotes      Section            `json:"quotes"`
	Highlights  []string           `json:"highlights"`
	Takeaways   string             `json:"takeaways"`
	Sentiment   sentiment.Analysis `json:"sentiment"`
}

// Builder assembles metadata for a merged story.
type Builder struct {
	gen      *narrative.Generator
	analyzer *sentiment.Analyzer
	logger   *slog.Logger
}

func NewBuilder(gen *narrative.Generator, analyzer *sentiment.Analyzer, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{gen: gen, analyzer: analyzer, logger: logger}
}

// Build extracts the side channels from story and derives the rest of the
// metadata. The returned story is the cleaned one. clientSummary may be
// empty; sentiment then runs over the highlight quotes instead.
func (b *Builder) Build(ctx context.Context, story, clientSummary, language string) (string, Metadata) {
	ex := Extract(story)
	hasClient := strings.TrimSpace(clientSummary) != ""
	highlights := HighlightQuotes(ex, hasClient)

	meta := Metadata{
		Corrections: ex.Corrections,
		Quotes:      ex.Quotes,
		Highlights:  highlights,
		Takeaways:   b.takeaways(ctx, clientSummary, language),
	}

	sentimentSource := clientSummary
	if strings.TrimSpace(sentimentSource) == "" {
		sentimentSource = strings.Join(highlights, "\n")
	}
	meta.Sentiment = b.analyzer.Analyze(sentimentSource)

	return ex.Story, meta
}

func (b *Builder) takeaways(ctx context.Context, clientSummary, language string) string {
	if strings.TrimSpace(clientSummary) == "" {
		return takeawaysPlaceholder
	}
	out, err := b.gen.Generate(ctx, narrative.Request{
		Kind:     narrative.KindClientTakeaways,
		Language: language,
		Sources:  narrative.Sources{Client: clientSummary},
	})
	if err != nil {
		b.logger.Warn("takeaway generation failed", "error", err)
		return takeawaysPlaceholder
	}
	if strings.TrimSpace(out) == "" {
		return takeawaysPlaceholder
	}
	return out
}
