package sentiment

import "strings"

// Satisfaction category labels, in scan order. The scan order doubles as
// the priority order: the first category with a keyword hit wins.
const (
	CategoryVeryBad  = "Very Bad"
	CategoryBad      = "Bad"
	CategoryNeutral  = "Neutral"
	CategoryGood     = "Good"
	CategoryVeryGood = "Very Good"
)

type satisfactionBucket struct {
	category string
	keywords []string
}

var satisfactionBuckets = []satisfactionBucket{
	{CategoryVeryBad, []string{
		"very disappointed", "extremely disappointed", "terrible", "horrible",
		"worst", "unacceptable", "complete failure", "waste of money",
	}},
	{CategoryBad, []string{
		"disappointed", "dissatisfied", "unhappy", "not satisfied",
		"below expectations", "frustrating", "poor experience",
	}},
	{CategoryNeutral, []string{
		"it was okay", "acceptable", "average", "nothing special",
		"as expected", "mixed feelings",
	}},
	{CategoryGood, []string{
		"satisfied", "happy with", "pleased", "good experience",
		"met our expectations", "would recommend", "positive experience",
	}},
	{CategoryVeryGood, []string{
		"very happy", "extremely satisfied", "thrilled", "exceeded expectations",
		"outstanding", "exceptional", "couldn't be happier", "delighted",
		"fantastic", "highly recommend",
	}},
}

// classifySatisfaction scans the buckets in priority order and returns the
// first matching category along with the sentence containing the keyword.
// With no hit it reports Neutral and a fixed placeholder statement.
func classifySatisfaction(text string) (category, statement string) {
	lower := strings.ToLower(text)
	for _, bucket := range satisfactionBuckets {
		for _, kw := range bucket.keywords {
			idx := strings.Index(lower, kw)
			if idx < 0 {
				continue
			}
			return bucket.category, sentenceAround(text, idx, len(kw))
		}
	}
	return CategoryNeutral, neutralStatement
}

// sentenceAround extracts the sentence enclosing text[start:start+length],
// bounded by periods, exclamation or question marks, or newlines.
func sentenceAround(text string, start, length int) string {
	begin := start
	for begin > 0 && !isSentenceBoundary(text[begin-1]) {
		begin--
	}
	end := start + length
	for end < len(text) && !isSentenceBoundary(text[end]) {
		end++
	}
	if end < len(text) && text[end] != '\n' {
		end++ // keep the terminating punctuation
	}
	sentence := strings.TrimSpace(text[begin:end])
	if sentence == "" {
		return neutralStatement
	}
	return sentence
}

func isSentenceBoundary(b byte) bool {
	return b == '.' || b == '!' || b == '?' || b == '\n'
}
