package api

import "strings"

// Fragment is one utterance of a recorded interview as the capture client
// delivers it.
type Fragment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// StitchTranscript joins interview fragments into transcript lines.
// Consecutive fragments from the same speaker are buffered into one line, so
// the output reads as alternating "SPEAKER: text" turns.
func StitchTranscript(fragments []Fragment) string {
	var (
		lines   []string
		speaker string
		buffer  []string
	)
	flush := func() {
		if speaker == "" || len(buffer) == 0 {
			return
		}
		lines = append(lines, speaker+": "+strings.Join(buffer, " "))
		buffer = buffer[:0]
	}
	for _, fragment := range fragments {
		name := strings.ToUpper(strings.TrimSpace(fragment.Speaker))
		text := strings.TrimSpace(fragment.Text)
		if name == "" || text == "" {
			continue
		}
		if name != speaker {
			flush()
			speaker = name
		}
		buffer = append(buffer, text)
	}
	flush()
	return strings.Join(lines, "\n")
}
