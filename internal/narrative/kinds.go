package narrative

import "strings"

// Kind selects the structural template a generation call must follow.
type Kind string

const (
	KindProviderSummary Kind = "provider_summary"
	KindClientSummary   Kind = "client_summary"
	KindMergedStory     Kind = "merged_story"
	KindLinkedInPost    Kind = "linkedin_post"
	KindVideoScript     Kind = "video_script"
	KindSceneScript     Kind = "scene_script"
	KindPodcastBrief    Kind = "podcast_brief"
	KindClientTakeaways Kind = "client_takeaways"
)

var allKinds = []Kind{
	KindProviderSummary,
	KindClientSummary,
	KindMergedStory,
	KindLinkedInPost,
	KindVideoScript,
	KindSceneScript,
	KindPodcastBrief,
	KindClientTakeaways,
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range allKinds {
		if k == normalized {
			return k, true
		}
	}
	return "", false
}
