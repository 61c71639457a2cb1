// Package metadata pulls the side-channel sections out of a merged story
// and assembles the derived metadata: correction notes, highlight quotes,
// client takeaways, and the sentiment analysis.
//
// The merged-story prompt asks the model for two labeled blocks at the end
// of the story. Models format the labels inconsistently (markdown headings,
// bold lines, trailing colons), so extraction is a tolerant line scan
// rather than a strict grammar.
package metadata

import (
	"regexp"
	"strings"
	"unicode"

	"storyforge/internal/narrative"
)

// Section is an extracted side-channel block. Found distinguishes a block
// the model emitted empty from one it omitted entirely.
type Section struct {
	Text  string `json:"text"`
	Found bool   `json:"found"`
}

// Extraction is the result of splitting a merged story.
type Extraction struct {
	// Story is the input with both labeled blocks excised.
	Story       string
	Corrections Section
	Quotes      Section
}

var (
	clientQuoteRE = regexp.MustCompile(`(?i)client[^"“]*["“]([^"”]+)["”]`)
	anyQuoteRE    = regexp.MustCompile(`["“]([^"”\n]{12,280})["”]`)
)

// quotePlaceholder is the last-resort highlight when the story carries no
// quoted client voice at all.
const quotePlaceholder = `As a client, I can say this project made a real difference for us. We're very happy with the results.`

// Extract splits the labeled blocks out of a merged story. The returned
// story never contains either block label.
func Extract(story string) Extraction {
	lines := strings.Split(story, "\n")
	var kept []string
	sections := map[string]*[]string{}

	var corrections, quotes []string
	var correctionsFound, quotesFound bool
	sections[headingKey(narrative.CorrectionsHeading)] = &corrections
	sections[headingKey(narrative.QuoteHighlightsHeading)] = &quotes

	var current *[]string
	for _, line := range lines {
		if target, ok := sections[headingKey(line)]; ok {
			current = target
			if target == &corrections {
				correctionsFound = true
			} else {
				quotesFound = true
			}
			continue
		}
		if current != nil {
			if looksLikeHeading(line) {
				// Next section of the story; the block is over.
				current = nil
			} else {
				*current = append(*current, line)
				continue
			}
		}
		kept = append(kept, line)
	}

	return Extraction{
		Story: collapseBlank(strings.Join(kept, "\n")),
		Corrections: Section{
			Text:  strings.TrimSpace(strings.Join(corrections, "\n")),
			Found: correctionsFound,
		},
		Quotes: Section{
			Text:  strings.TrimSpace(strings.Join(quotes, "\n")),
			Found: quotesFound,
		},
	}
}

// HighlightQuotes resolves the client quotes for the metadata panel.
// It tries, in order: labeled client lines in the quotes block, any quoted
// span anywhere in the story, and finally a fixed placeholder. The
// placeholder speaks in the client's voice, so it is only drafted when a
// client summary exists; provider-only stories get no highlights.
func HighlightQuotes(ex Extraction, hasClient bool) []string {
	var quotes []string
	for _, m := range clientQuoteRE.FindAllStringSubmatch(ex.Quotes.Text, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) > 0 {
		return quotes
	}
	scan := ex.Quotes.Text
	if strings.TrimSpace(scan) == "" {
		scan = ex.Story
	}
	for _, m := range anyQuoteRE.FindAllStringSubmatch(scan, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) > 0 {
		return quotes
	}
	if !hasClient {
		return nil
	}
	return []string{quotePlaceholder}
}

// headingKey canonicalizes a line for heading comparison: markdown hash
// prefixes, bold or underscore wrapping, and a trailing colon are all
// tolerated. Returns the lowercased label text.
func headingKey(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "#")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_")
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	return strings.ToLower(strings.TrimSpace(s))
}

// looksLikeHeading reports whether a line opens a new story section, which
// terminates block capture. The merged-story prompt asks for headers in ALL
// CAPS or plain text, so a short all-uppercase line counts alongside the
// markdown forms models still produce.
func looksLikeHeading(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "#") {
		return true
	}
	if strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) > 4 {
		return true
	}
	return looksLikeCapsHeading(s)
}

func looksLikeCapsHeading(s string) bool {
	if len(s) > 60 {
		return false
	}
	// Bullets and quoted lines are block body even when shouted.
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") || strings.ContainsAny(s, `"“”`) {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ',', ';':
		return false
	}
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func collapseBlank(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
