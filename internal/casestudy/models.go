package casestudy

import (
	"fmt"
	"strings"
	"time"
)

// Channel identifies one downstream artifact surface of a case study.
type Channel string

const (
	ChannelPDF            Channel = "pdf"
	ChannelSocial         Channel = "social"
	ChannelAvatarVideo    Channel = "avatar_video"
	ChannelShortFormVideo Channel = "short_form_video"
	ChannelPodcast        Channel = "podcast"
)

var allChannels = []Channel{
	ChannelPDF,
	ChannelSocial,
	ChannelAvatarVideo,
	ChannelShortFormVideo,
	ChannelPodcast,
}

// Channels returns the known artifact channels in a stable order.
func Channels() []Channel {
	out := make([]Channel, len(allChannels))
	copy(out, allChannels)
	return out
}

// ParseChannel validates a channel label from the wire.
func ParseChannel(value string) (Channel, error) {
	normalized := Channel(strings.ToLower(strings.TrimSpace(value)))
	for _, ch := range allChannels {
		if ch == normalized {
			return ch, nil
		}
	}
	return "", fmt.Errorf("unknown artifact channel %q", value)
}

// JobStatus is the normalized lifecycle of an artifact job. Every upstream
// vocabulary collapses into these four states.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// CaseStudy is the central record: entities, narratives, merged story, and
// generated surfaces hang off it.
type CaseStudy struct {
	ID            int64
	UserID        string
	Title         string
	LeadEntity    string
	PartnerEntity string
	ProjectTitle  string
	Language      string
	Story         string
	MetadataJSON  string
	LinkedInPost  string
	PDFPath       string
	ProviderOnly  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Interview is one recorded interview side (provider or client).
type Interview struct {
	ID            int64
	CaseStudyID   int64
	SessionID     string
	Transcript    string
	Summary       string
	ClientLinkURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Invite is a single-use client interview token.
type Invite struct {
	ID          int64
	CaseStudyID int64
	Token       string
	Used        bool
	CreatedAt   time.Time
}

// ArtifactJob tracks one asynchronous generation job per (case study, channel).
type ArtifactJob struct {
	ID            int64
	CaseStudyID   int64
	Channel       Channel
	Status        JobStatus
	Phase         string
	ProviderJobID string
	ResultURL     string
	Script        string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Summary is the listing projection used by the CLI table and the HTTP
// list endpoint.
type Summary struct {
	ID              int64
	Title           string
	ProviderSummary string
	ClientSummary   string
	HasStory        bool
	ArtifactStates  map[Channel]JobStatus
	UpdatedAt       time.Time
}
