// Package entities derives the lead entity, partner entity, and project title
// from a narrative's title line.
package entities

import (
	"strings"
)

const (
	// UnknownLead and UnknownProject are the deterministic fallbacks when the
	// title line does not match the expected format.
	UnknownLead    = "Unknown"
	UnknownProject = "Unknown Project"
)

// Entities identifies the parties and project behind a case study.
type Entities struct {
	Lead    string `json:"lead_entity"`
	Partner string `json:"partner_entity"`
	Project string `json:"project_title"`
}

// Title renders the canonical case-study title.
func (e Entities) Title() string {
	return e.Lead + " x " + e.Partner + ": " + e.Project
}

// Extract parses the narrative's first non-empty line, expected as
// "Lead x Partner: Project" with optional markdown bold markers. Any failure
// to match yields the Unknown fallbacks; it never errors.
func Extract(text string) Entities {
	fallback := Entities{Lead: UnknownLead, Partner: "", Project: UnknownProject}

	// Dash variants in the title line would otherwise survive into the split.
	text = strings.NewReplacer("—", "-", "–", "-").Replace(text)

	var first string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			first = trimmed
			break
		}
	}
	if first == "" {
		return fallback
	}
	if strings.HasPrefix(first, "**") && strings.HasSuffix(first, "**") && len(first) > 4 {
		first = strings.TrimSpace(first[2 : len(first)-2])
	}

	left, project, ok := strings.Cut(first, ":")
	if !ok {
		return fallback
	}
	project = strings.TrimSpace(project)

	var lead, partner string
	if l, p, found := strings.Cut(left, " x "); found {
		lead, partner = strings.TrimSpace(l), strings.TrimSpace(p)
	} else {
		lead, partner = strings.TrimSpace(left), ""
	}

	out := Entities{Lead: lead, Partner: partner, Project: project}
	if out.Lead == "" {
		out.Lead = UnknownLead
	}
	if out.Project == "" {
		out.Project = UnknownProject
	}
	return out
}
