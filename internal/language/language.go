package language

import (
	"strings"

	"golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	display string // Human-readable name used in generation prompts
}

// The closed set of generation languages. Detection results outside this
// table fall back to English so prompt templates always receive a name the
// completion model handles well.
var languages = []entry{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"nl", "Dutch"},
	{"ru", "Russian"},
	{"zh", "Chinese"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"ar", "Arabic"},
	{"hi", "Hindi"},
	{"pl", "Polish"},
	{"sq", "Albanian"},
	{"sv", "Swedish"},
	{"da", "Danish"},
	{"fi", "Finnish"},
}

// DefaultName is used whenever detection fails or returns an unmapped code.
const DefaultName = "English"

var byCode2 map[string]*entry

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode2[languages[i].code2] = &languages[i]
	}
}

// DisplayName maps an ISO language code to the human-readable name used in
// generation prompts. Unrecognized or malformed codes map to DefaultName.
func DisplayName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultName
	}
	tag, err := language.Parse(code)
	if err != nil {
		return DefaultName
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return DefaultName
	}
	if e, ok := byCode2[base.String()]; ok {
		return e.display
	}
	return DefaultName
}

// Supported reports whether the code belongs to the closed generation set.
func Supported(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	_, ok := byCode2[code]
	return ok
}
