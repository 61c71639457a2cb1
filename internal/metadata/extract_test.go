package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storyforge/internal/narrative"
	"storyforge/internal/sentiment"
	"storyforge/internal/services"
	"storyforge/internal/services/openai"
)

const sampleStory = `**Acme x Globex: Project Atlas**

The hero paragraph introduces the project.

## The Challenge

Globex needed a faster pipeline.

## Corrected & Conflicted Replies

- The provider said six weeks; the client remembers eight.

## Quotes Highlights

- **Client:** "The rollout changed how we work."
- **Client:** "Support was responsive at every step."
`

func TestExtractRemovesBothBlocks(t *testing.T) {
	ex := Extract(sampleStory)

	if strings.Contains(ex.Story, narrative.CorrectionsHeading) {
		t.Fatal("corrections heading left in story")
	}
	if strings.Contains(ex.Story, narrative.QuoteHighlightsHeading) {
		t.Fatal("quotes heading left in story")
	}
	if strings.Contains(ex.Story, "six weeks") {
		t.Fatal("corrections body left in story")
	}
	if !strings.Contains(ex.Story, "Globex needed a faster pipeline.") {
		t.Fatal("story body lost during extraction")
	}
	if !ex.Corrections.Found || !ex.Quotes.Found {
		t.Fatalf("sections not flagged found: %+v %+v", ex.Corrections, ex.Quotes)
	}
	if !strings.Contains(ex.Corrections.Text, "six weeks") {
		t.Fatalf("corrections text wrong: %q", ex.Corrections.Text)
	}
}

func TestExtractToleratesHeadingVariants(t *testing.T) {
	variants := []string{
		"## Corrected & Conflicted Replies",
		"**Corrected & Conflicted Replies:**",
		"corrected & conflicted replies",
		"### Corrected & Conflicted Replies:",
	}
	for _, heading := range variants {
		story := "Title\n\n" + heading + "\nbody line\n\n## Next Section\n\ntail"
		ex := Extract(story)
		if !ex.Corrections.Found {
			t.Fatalf("heading variant %q not recognized", heading)
		}
		if ex.Corrections.Text == "" {
			t.Fatalf("body not captured for %q", heading)
		}
		if !strings.Contains(ex.Story, "tail") {
			t.Fatalf("capture ran past the next heading for %q", heading)
		}
	}
}

func TestExtractMissingBlocks(t *testing.T) {
	ex := Extract("**Title**\n\nJust a story with no side channels.")
	if ex.Corrections.Found || ex.Quotes.Found {
		t.Fatal("sections flagged found in a story without them")
	}
	if ex.Corrections.Text != "" || ex.Quotes.Text != "" {
		t.Fatal("expected empty section text")
	}
}

func TestExtractEmptyBlockIsFoundButEmpty(t *testing.T) {
	ex := Extract("Title\n\n## Quotes Highlights\n")
	if !ex.Quotes.Found {
		t.Fatal("emitted-but-empty block should be flagged found")
	}
	if ex.Quotes.Text != "" {
		t.Fatalf("expected empty text, got %q", ex.Quotes.Text)
	}
}

func TestExtractStopsAtAllCapsHeading(t *testing.T) {
	story := `ACME X GLOBEX: PROJECT ATLAS

INTRODUCTION
The hero paragraph introduces the project.

CORRECTED & CONFLICTED REPLIES
- The provider said six weeks; the client remembers eight.

QUOTES HIGHLIGHTS
- Client: "The rollout changed how we work."

CALL TO ACTION
Contact us today to learn more about the pipeline.`

	ex := Extract(story)
	if !ex.Corrections.Found || !ex.Quotes.Found {
		t.Fatalf("plain-text headings not recognized: %+v %+v", ex.Corrections, ex.Quotes)
	}
	if !strings.Contains(ex.Story, "CALL TO ACTION") {
		t.Fatal("call-to-action heading swallowed by block capture")
	}
	if !strings.Contains(ex.Story, "Contact us today") {
		t.Fatal("call-to-action body swallowed by block capture")
	}
	if strings.Contains(ex.Quotes.Text, "Contact us") || strings.Contains(ex.Quotes.Text, "CALL TO ACTION") {
		t.Fatalf("quotes text carries trailing story content: %q", ex.Quotes.Text)
	}
	if !strings.Contains(ex.Quotes.Text, "rollout changed") {
		t.Fatalf("quotes body lost: %q", ex.Quotes.Text)
	}
	if !strings.Contains(ex.Corrections.Text, "six weeks") {
		t.Fatalf("corrections body lost: %q", ex.Corrections.Text)
	}
}

func TestCapsHeadingDetection(t *testing.T) {
	headings := []string{"CALL TO ACTION", "RESULTS AND IMPACT", "CALL TO ACTION:"}
	for _, line := range headings {
		if !looksLikeHeading(line) {
			t.Fatalf("%q should read as a heading", line)
		}
	}
	body := []string{
		`- Client: "WE LOVE IT"`,
		"WE SHIPPED IN SIX WEEKS.",
		"The provider said six weeks.",
		`"QUOTED SHOUTING"`,
		"",
	}
	for _, line := range body {
		if looksLikeHeading(line) {
			t.Fatalf("%q should not read as a heading", line)
		}
	}
}

func TestHighlightQuotesLabeledLines(t *testing.T) {
	quotes := HighlightQuotes(Extract(sampleStory), true)
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %v", quotes)
	}
	if quotes[0] != "The rollout changed how we work." {
		t.Fatalf("unexpected first quote %q", quotes[0])
	}
}

func TestHighlightQuotesFallbackToAnyQuoted(t *testing.T) {
	story := `Title

The CEO noted that "the migration finished two weeks early" during review.`
	quotes := HighlightQuotes(Extract(story), false)
	if len(quotes) != 1 || quotes[0] != "the migration finished two weeks early" {
		t.Fatalf("expected quoted-span fallback, got %v", quotes)
	}
}

func TestHighlightQuotesPlaceholderNeedsClientSummary(t *testing.T) {
	ex := Extract("Title\n\nNo quoted material anywhere.")

	quotes := HighlightQuotes(ex, true)
	if len(quotes) != 1 || quotes[0] != quotePlaceholder {
		t.Fatalf("expected placeholder, got %v", quotes)
	}

	// Provider-only stories never get a drafted client voice.
	if quotes := HighlightQuotes(ex, false); len(quotes) != 0 {
		t.Fatalf("expected no highlights without client summary, got %v", quotes)
	}
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, req openai.Request) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newBuilder(t *testing.T, c narrative.Completer) *Builder {
	t.Helper()
	gen, err := narrative.NewGenerator(c, nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return NewBuilder(gen, sentiment.NewAnalyzer("", nil), nil)
}

func TestBuildProducesMetadata(t *testing.T) {
	b := newBuilder(t, &fakeCompleter{reply: "- Takeaway one\n- Takeaway two"})

	clean, meta := b.Build(context.Background(), sampleStory, "We are very happy with the excellent results.", "English")

	if strings.Contains(clean, "Quotes Highlights") {
		t.Fatal("clean story still contains a block heading")
	}
	if meta.Takeaways != "- Takeaway one\n- Takeaway two" {
		t.Fatalf("unexpected takeaways %q", meta.Takeaways)
	}
	if meta.Sentiment.Overall.Sentiment != "positive" {
		t.Fatalf("expected positive sentiment, got %q", meta.Sentiment.Overall.Sentiment)
	}
	if len(meta.Highlights) != 2 {
		t.Fatalf("expected highlight quotes, got %v", meta.Highlights)
	}
}

func TestBuildTakeawayFailureIsNonCritical(t *testing.T) {
	upstream := services.Wrap(services.ErrUpstream, "openai", "complete", "rate limited", errors.New("429"))
	b := newBuilder(t, &fakeCompleter{err: upstream})

	_, meta := b.Build(context.Background(), sampleStory, "client summary text", "English")
	if meta.Takeaways != takeawaysPlaceholder {
		t.Fatalf("expected placeholder takeaways, got %q", meta.Takeaways)
	}
}

func TestBuildWithoutClientSummary(t *testing.T) {
	b := newBuilder(t, &fakeCompleter{reply: "ignored"})

	_, meta := b.Build(context.Background(), sampleStory, "", "English")
	if meta.Takeaways != takeawaysPlaceholder {
		t.Fatalf("expected placeholder without client material, got %q", meta.Takeaways)
	}
	// Sentiment falls back to the highlight quotes.
	if meta.Sentiment.Overall.Sentiment == "" {
		t.Fatal("sentiment missing")
	}
}
