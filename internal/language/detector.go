package language

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Detector classifies transcript text into a generation language name.
// Detection failures never propagate; callers always receive a usable name.
type Detector struct {
	once    sync.Once
	backend lingua.LanguageDetector
}

// NewDetector returns a Detector over the closed generation-language set.
// The statistical models load lazily on first use.
func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) detector() lingua.LanguageDetector {
	d.once.Do(func() {
		candidates := make([]lingua.Language, 0, len(languages))
		for _, e := range languages {
			code := lingua.GetIsoCode639_1FromValue(strings.ToUpper(e.code2))
			candidates = append(candidates, lingua.GetLanguageFromIsoCode639_1(code))
		}
		d.backend = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	return d.backend
}

// Detect returns the display name of the language the text is written in.
// Empty input, detection failure, or an unmapped result all yield DefaultName.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultName
	}
	detected, ok := d.detector().DetectLanguageOf(text)
	if !ok {
		return DefaultName
	}
	return DisplayName(detected.IsoCode639_1().String())
}
