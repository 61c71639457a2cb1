package language

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"EN", "English"},
		{"es", "Spanish"},
		{"sq", "Albanian"},
		{"pt", "Portuguese"},
		// Unmapped or malformed codes fall back to English.
		{"tlh", "English"},
		{"", "English"},
		{"not a code", "English"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("en") {
		t.Error("expected en to be supported")
	}
	if Supported("tlh") {
		t.Error("expected tlh to be unsupported")
	}
}

func TestDetectEmptyDefaultsToEnglish(t *testing.T) {
	d := NewDetector()
	if got := d.Detect("   "); got != DefaultName {
		t.Fatalf("Detect(blank) = %q, want %q", got, DefaultName)
	}
}

func TestDetectEnglishAndSpanish(t *testing.T) {
	d := NewDetector()
	if got := d.Detect("We built a scheduling tool that cut onboarding time by forty percent for the client."); got != "English" {
		t.Fatalf("Detect english text = %q", got)
	}
	if got := d.Detect("Construimos una herramienta de planificación que redujo el tiempo de incorporación en un cuarenta por ciento."); got != "Spanish" {
		t.Fatalf("Detect spanish text = %q", got)
	}
}
