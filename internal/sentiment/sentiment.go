// Package sentiment scores client-voice prose and classifies the
// satisfaction expressed in it. Scoring is purely lexical: a fixed valence
// table with negation and intensity handling, folded into a compound value
// in [-1, 1] and rescaled to a 0..10 display score. Analysis never fails;
// when anything goes wrong the caller receives a neutral result.
package sentiment

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"unicode"
)

const (
	// Compound thresholds for the positive/negative/neutral verdict.
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	neutralStatement = "No explicit satisfaction statement found."
)

// Score carries the raw lexical aggregates for a piece of text.
type Score struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Compound float64 `json:"compound"`
}

// Overall is the top-level verdict derived from the compound score.
type Overall struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Satisfaction is the keyword-bucket classification with the sentence
// that triggered it.
type Satisfaction struct {
	Category  string `json:"category"`
	Statement string `json:"statement"`
}

// Visualizations points at the rendered chart and carries the gauge
// specification that front ends embed directly.
type Visualizations struct {
	SentimentChartPath string `json:"sentiment_chart_path,omitempty"`
	SatisfactionGauge  Gauge  `json:"satisfaction_gauge"`
}

// Analysis is the full sentiment result persisted alongside a case study.
type Analysis struct {
	Overall        Overall        `json:"overall"`
	Scores         Score          `json:"scores"`
	Satisfaction   Satisfaction   `json:"satisfaction"`
	Visualizations Visualizations `json:"visualizations"`
}

// Analyzer scores text and renders the supporting chart artifacts.
type Analyzer struct {
	assetsDir string
	logger    *slog.Logger
}

// NewAnalyzer returns an analyzer that writes chart files under assetsDir.
// An empty assetsDir disables chart rendering.
func NewAnalyzer(assetsDir string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{assetsDir: assetsDir, logger: logger}
}

// Analyze scores the given client-voice text. It always returns a usable
// Analysis; failures in chart rendering are logged and leave the chart
// path empty.
func (a *Analyzer) Analyze(text string) Analysis {
	if strings.TrimSpace(text) == "" {
		return neutralAnalysis()
	}

	scores := scoreText(text)
	verdict, confidence := classify(scores.Compound)
	display := round2((scores.Compound + 1) * 5)

	category, statement := classifySatisfaction(text)

	analysis := Analysis{
		Overall: Overall{
			Sentiment:  verdict,
			Score:      display,
			Confidence: confidence,
		},
		Scores: scores,
		Satisfaction: Satisfaction{
			Category:  category,
			Statement: statement,
		},
		Visualizations: Visualizations{
			SatisfactionGauge: gaugeFor(category, display),
		},
	}

	if a.assetsDir != "" {
		path, err := a.renderChart(display)
		if err != nil {
			a.logger.Warn("sentiment chart rendering failed", "error", err)
		} else {
			analysis.Visualizations.SentimentChartPath = path
		}
	}
	return analysis
}

func neutralAnalysis() Analysis {
	return Analysis{
		Overall: Overall{Sentiment: "neutral", Score: 5.0, Confidence: 0},
		Scores:  Score{Neutral: 1},
		Satisfaction: Satisfaction{
			Category:  CategoryNeutral,
			Statement: neutralStatement,
		},
		Visualizations: Visualizations{
			SatisfactionGauge: gaugeFor(CategoryNeutral, 5.0),
		},
	}
}

// scoreText runs the lexical pass: tokenize, look up valences, apply
// negation within a three-token window and intensity from the immediately
// preceding booster, then normalize the sum into [-1, 1].
func scoreText(text string) Score {
	tokens := tokenize(text)
	var sum, posSum, negSum float64
	var neutralCount int

	for i, tok := range tokens {
		valence, ok := lexicon[tok]
		if !ok {
			if _, negator := negators[tok]; !negator {
				if _, booster := boosters[tok]; !booster {
					neutralCount++
				}
			}
			continue
		}
		if i > 0 {
			if factor, ok := boosters[tokens[i-1]]; ok {
				if valence > 0 {
					valence += factor
				} else {
					valence -= factor
				}
			}
		}
		if negatedWithin(tokens, i, 3) {
			valence *= -0.74
		}
		sum += valence
		if valence > 0 {
			posSum += valence
		} else if valence < 0 {
			negSum += -valence
		}
	}

	compound := sum / math.Sqrt(sum*sum+15)
	compound = round4(compound)

	total := posSum + negSum + float64(neutralCount)
	s := Score{Compound: compound}
	if total > 0 {
		s.Positive = round4(posSum / total)
		s.Negative = round4(negSum / total)
		s.Neutral = round4(float64(neutralCount) / total)
	} else {
		s.Neutral = 1
	}
	return s
}

func negatedWithin(tokens []string, idx, window int) bool {
	for back := 1; back <= window; back++ {
		j := idx - back
		if j < 0 {
			break
		}
		if _, ok := negators[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func classify(compound float64) (verdict string, confidence float64) {
	switch {
	case compound >= positiveThreshold:
		return "positive", round2(compound)
	case compound <= negativeThreshold:
		return "negative", round2(-compound)
	default:
		return "neutral", round2(1 - math.Abs(compound))
	}
}

// tokenize lowercases and strips everything but letters, folding
// apostrophes so "didn't" matches the negator table.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// drop, joining the halves
		default:
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func formatScore(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
