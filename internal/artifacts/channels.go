package artifacts

import (
	"context"
	"strings"
	"unicode"

	"storyforge/internal/casestudy"
	"storyforge/internal/narrative"
	"storyforge/internal/services"
	"storyforge/internal/services/autocontent"
	"storyforge/internal/services/heygen"
	"storyforge/internal/services/pictory"
)

// submitPDF renders the story to disk and completes the job immediately.
// There is no upstream service, so no polling phase exists.
func (m *Manager) submitPDF(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	if m.documents == nil {
		return services.Wrap(services.ErrInput, "artifacts", "pdf", "document renderer not configured", nil)
	}
	path, err := m.documents.Render(cs.Story)
	if err != nil {
		return err
	}
	if err := m.store.SetPDFPath(ctx, cs.ID, path); err != nil {
		return err
	}
	return m.store.MarkJobCompleted(ctx, job.ID, path)
}

// submitSocial generates a LinkedIn post from the story. Generation is the
// whole job; the post is persisted on the case study and the job completes.
func (m *Manager) submitSocial(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	post, err := m.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindLinkedInPost,
		Language: cs.Language,
		Sources:  narrative.Sources{Story: cs.Story},
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(post) == "" {
		return services.Wrap(services.ErrUpstream, "artifacts", "social", "empty post generated", nil)
	}
	if err := m.store.SetLinkedInPost(ctx, cs.ID, post); err != nil {
		return err
	}
	return m.store.MarkJobCompleted(ctx, job.ID, "")
}

func (m *Manager) submitAvatarVideo(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	if m.avatar == nil {
		return services.Wrap(services.ErrInput, "artifacts", "avatar", "avatar service not configured", nil)
	}
	script, err := m.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindVideoScript,
		Language: cs.Language,
		Sources:  narrative.Sources{Story: cs.Story},
	})
	if err != nil {
		return err
	}
	script = truncateScript(script, avatarScriptLimit)
	if script == "" {
		return services.Wrap(services.ErrUpstream, "artifacts", "avatar", "empty script generated", nil)
	}
	videoID, err := m.avatar.Generate(ctx, cs.Title, script)
	if err != nil {
		return err
	}
	return m.store.MarkJobProcessing(ctx, job.ID, videoID, "", script)
}

func (m *Manager) submitShortFormVideo(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	if m.shortForm == nil {
		return services.Wrap(services.ErrInput, "artifacts", "shortform", "short-form service not configured", nil)
	}
	script, err := m.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindSceneScript,
		Language: cs.Language,
		Sources:  narrative.Sources{Story: cs.Story},
	})
	if err != nil {
		return err
	}
	lines := sceneLines(script)
	if len(lines) == 0 {
		return services.Wrap(services.ErrUpstream, "artifacts", "shortform", "no scene lines generated", nil)
	}
	scenes := make([]pictory.Scene, 0, len(lines))
	for _, line := range lines {
		scenes = append(scenes, pictory.Scene{Text: line, VoiceOver: true})
	}
	storyboardID, err := m.shortForm.CreateStoryboard(ctx, cs.Title, scenes)
	if err != nil {
		return err
	}
	return m.store.MarkJobProcessing(ctx, job.ID, storyboardID, phaseStoryboard, script)
}

func (m *Manager) submitPodcast(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	if m.podcast == nil {
		return services.Wrap(services.ErrInput, "artifacts", "podcast", "podcast service not configured", nil)
	}
	brief, err := m.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindPodcastBrief,
		Language: cs.Language,
		Sources:  narrative.Sources{Story: cs.Story},
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(brief) == "" {
		return services.Wrap(services.ErrUpstream, "artifacts", "podcast", "empty episode brief generated", nil)
	}
	requestID, err := m.podcast.Submit(ctx, brief)
	if err != nil {
		return err
	}
	return m.store.MarkJobProcessing(ctx, job.ID, requestID, "", brief)
}

func (m *Manager) pollAvatarVideo(ctx context.Context, job *casestudy.ArtifactJob) error {
	var status heygen.Status
	err := m.withPollRetry(ctx, func() error {
		var fetchErr error
		status, fetchErr = m.avatar.GetStatus(ctx, job.ProviderJobID)
		return fetchErr
	})
	if err != nil {
		return err
	}

	switch normalizeVideoState(status.State) {
	case casestudy.JobCompleted:
		if status.VideoURL == "" {
			return m.store.MarkJobFailed(ctx, job.ID, "avatar video completed without a video url")
		}
		return m.store.MarkJobCompleted(ctx, job.ID, status.VideoURL)
	case casestudy.JobFailed:
		message := status.Error
		if message == "" {
			message = "avatar video generation failed"
		}
		return m.store.MarkJobFailed(ctx, job.ID, message)
	default:
		return nil
	}
}

// pollShortFormVideo branches on which upstream job is active. When the
// storyboard finishes the render is triggered and the job handle swaps to the
// render id; only the render phase can complete the channel.
func (m *Manager) pollShortFormVideo(ctx context.Context, cs *casestudy.CaseStudy, job *casestudy.ArtifactJob) error {
	var upstream pictory.Job
	err := m.withPollRetry(ctx, func() error {
		var fetchErr error
		upstream, fetchErr = m.shortForm.GetJob(ctx, job.ProviderJobID)
		return fetchErr
	})
	if err != nil {
		return err
	}

	state := normalizeVideoState(upstream.Status)
	if state == casestudy.JobFailed {
		message := upstream.ErrorMessage
		if message == "" {
			message = "short-form video generation failed"
		}
		return m.store.MarkJobFailed(ctx, job.ID, message)
	}
	if state != casestudy.JobCompleted {
		return nil
	}

	if job.Phase == phaseStoryboard {
		renderID, err := m.shortForm.Render(ctx, job.ProviderJobID)
		if err != nil {
			return err
		}
		m.logger.Info("storyboard complete, render started",
			"case_study", cs.ID, "render_job", renderID)
		return m.store.UpdateJobPhase(ctx, job.ID, renderID, phaseRender)
	}
	if upstream.VideoURL == "" {
		return m.store.MarkJobFailed(ctx, job.ID, "short-form video completed without a video url")
	}
	return m.store.MarkJobCompleted(ctx, job.ID, upstream.VideoURL)
}

// pollPodcast normalizes the finished/error booleans into the common status
// vocabulary: error wins, then finished, else still processing.
func (m *Manager) pollPodcast(ctx context.Context, job *casestudy.ArtifactJob) error {
	var upstream autocontent.Job
	err := m.withPollRetry(ctx, func() error {
		var fetchErr error
		upstream, fetchErr = m.podcast.GetJob(ctx, job.ProviderJobID)
		return fetchErr
	})
	if err != nil {
		return err
	}

	switch {
	case upstream.Error:
		message := upstream.ErrorMessage
		if message == "" {
			message = "podcast generation failed"
		}
		return m.store.MarkJobFailed(ctx, job.ID, message)
	case upstream.Finished:
		if upstream.AudioURL == "" {
			return m.store.MarkJobFailed(ctx, job.ID, "podcast finished without an audio url")
		}
		return m.store.MarkJobCompleted(ctx, job.ID, upstream.AudioURL)
	default:
		return nil
	}
}

func normalizeVideoState(state string) casestudy.JobStatus {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "completed", "done", "success":
		return casestudy.JobCompleted
	case "failed", "error":
		return casestudy.JobFailed
	default:
		return casestudy.JobProcessing
	}
}

// truncateScript enforces the character ceiling on a generated script,
// cutting on a rune boundary and appending an ellipsis.
func truncateScript(script string, limit int) string {
	script = strings.TrimSpace(script)
	runes := []rune(script)
	if len(runes) <= limit {
		return script
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}

// sceneLines splits a generated scene script into its narration lines,
// stripping list numbering and capping at the fixed scene count.
func sceneLines(script string) []string {
	lines := make([]string, 0, sceneCount)
	for _, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimLeftFunc(line, func(r rune) bool {
			return unicode.IsDigit(r) || r == '.' || r == ')' || r == '-' || r == '*' || r == ' '
		})
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == sceneCount {
			break
		}
	}
	return lines
}
