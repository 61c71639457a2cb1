// Package textnorm canonicalizes generated and transcribed text before it is
// persisted or fed into downstream generation calls.
package textnorm

import "strings"

// replacer maps typographic glyphs emitted by generation models (and pasted
// transcripts) onto their plain ASCII equivalents. Currency symbols become
// ISO-style abbreviations so PDF rendering never hits a missing glyph.
var replacer = strings.NewReplacer(
	"•", "-", // bullet
	"—", "-", // em dash
	"–", "-", // en dash
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"£", "GBP ",
	"€", "EUR ",
)

// Normalize applies the substitution table to text. It is deterministic and
// idempotent; empty input returns empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return replacer.Replace(text)
}
