package server

import (
	"time"

	"storyforge/internal/casestudy"
)

// jobView is the wire shape of an artifact job.
type jobView struct {
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	Phase     string    `json:"phase,omitempty"`
	ResultURL string    `json:"result_url,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toJobView(job *casestudy.ArtifactJob) jobView {
	if job == nil {
		return jobView{}
	}
	return jobView{
		Channel:   string(job.Channel),
		Status:    string(job.Status),
		Phase:     job.Phase,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
		UpdatedAt: job.UpdatedAt,
	}
}

// summaryView is the wire shape of a case-study listing row.
type summaryView struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	ProviderSummary string            `json:"provider_summary"`
	ClientSummary   string            `json:"client_summary"`
	HasStory        bool              `json:"has_story"`
	Artifacts       map[string]string `json:"artifacts"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toSummaryViews(summaries []casestudy.Summary) []summaryView {
	views := make([]summaryView, 0, len(summaries))
	for _, summary := range summaries {
		artifacts := make(map[string]string, len(summary.ArtifactStates))
		for channel, status := range summary.ArtifactStates {
			artifacts[string(channel)] = string(status)
		}
		views = append(views, summaryView{
			ID:              summary.ID,
			Title:           summary.Title,
			ProviderSummary: summary.ProviderSummary,
			ClientSummary:   summary.ClientSummary,
			HasStory:        summary.HasStory,
			Artifacts:       artifacts,
			UpdatedAt:       summary.UpdatedAt,
		})
	}
	return views
}
