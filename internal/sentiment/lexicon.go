package sentiment

// Lexical valences on the usual -4..+4 scale. The set is intentionally small:
// it only needs to rank business-feedback prose, not open-domain text.
var lexicon = map[string]float64{
	"amazing":       3.1,
	"awful":         -2.9,
	"bad":           -2.5,
	"best":          3.2,
	"better":        1.9,
	"boost":         1.6,
	"brilliant":     3.0,
	"clunky":        -1.6,
	"concern":       -1.2,
	"concerns":      -1.2,
	"confusing":     -1.7,
	"delay":         -1.4,
	"delays":        -1.4,
	"delighted":     3.0,
	"disappointed":  -2.3,
	"disappointing": -2.4,
	"dissatisfied":  -2.4,
	"easy":          1.8,
	"effective":     2.1,
	"efficient":     2.0,
	"excellent":     3.2,
	"exceptional":   3.1,
	"fantastic":     3.1,
	"fast":          1.5,
	"faster":        1.7,
	"fine":          0.8,
	"frustrating":   -2.2,
	"frustration":   -2.1,
	"good":          1.9,
	"great":         2.6,
	"happy":         2.4,
	"helpful":       1.9,
	"horrible":      -3.0,
	"impressed":     2.5,
	"impressive":    2.5,
	"improved":      1.9,
	"improvement":   1.8,
	"issues":        -1.3,
	"love":          2.8,
	"loved":         2.9,
	"okay":          0.9,
	"outstanding":   3.2,
	"perfect":       3.0,
	"pleased":       2.2,
	"poor":          -2.2,
	"positive":      1.8,
	"problem":       -1.6,
	"problems":      -1.7,
	"recommend":     2.0,
	"reliable":      1.8,
	"satisfied":     1.9,
	"seamless":      2.2,
	"slow":          -1.4,
	"smooth":        1.8,
	"struggled":     -1.8,
	"success":       2.4,
	"successful":    2.4,
	"terrible":      -3.1,
	"thrilled":      3.0,
	"trouble":       -1.6,
	"valuable":      2.1,
	"waste":         -2.4,
	"wonderful":     2.9,
	"worst":         -3.3,
	"wrong":         -1.8,
}

// Negators flip the valence of the following sentiment word.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {},
	"hardly": {}, "without": {}, "isnt": {}, "wasnt": {}, "didnt": {},
	"dont": {}, "cant": {}, "couldnt": {}, "wouldnt": {},
}

// Boosters intensify or dampen the following sentiment word.
var boosters = map[string]float64{
	"very": 0.293, "extremely": 0.293, "really": 0.267, "incredibly": 0.293,
	"highly": 0.267, "truly": 0.227,
	"slightly": -0.293, "somewhat": -0.267, "barely": -0.293, "fairly": -0.2,
}
