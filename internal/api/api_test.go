package api

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storyforge/internal/casestudy"
	"storyforge/internal/narrative"
	"storyforge/internal/services"
	"storyforge/internal/services/openai"
	"storyforge/internal/testsupport"
)

const sampleProviderSummary = `**Acme Corp x Initech: Scheduling Tool**

Acme Corp built a scheduling tool for Initech that cut onboarding time by 40%.`

const sampleMergedStory = `**Acme Corp x Initech: Scheduling Tool**

The project delivered in 7 weeks and cut onboarding time by 40%.

## ` + narrative.CorrectionsHeading + `
- Client stated project delivered in 7 weeks, not 6.

## ` + narrative.QuoteHighlightsHeading + `
Client: "This changed how we onboard."
`

// routingCompleter answers each completion by recognizing the template text,
// standing in for the upstream model.
type routingCompleter struct {
	err   error
	calls []string
}

func (r *routingCompleter) Complete(_ context.Context, req openai.Request) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	switch {
	case req.JSONOnly:
		r.calls = append(r.calls, "entities")
		return `{"lead_entity": "Acme Corp", "partner_entity": "Initech", "project_title": "Scheduling Tool"}`, nil
	case strings.Contains(req.System, "solution provider describing a project"):
		r.calls = append(r.calls, "provider")
		return sampleProviderSummary, nil
	case strings.Contains(req.System, "client-voice reflection"):
		r.calls = append(r.calls, "client")
		return "The scheduling tool transformed our onboarding. Delivered in 7 weeks.", nil
	case strings.Contains(req.System, "top-tier business case study writer"):
		r.calls = append(r.calls, "merge")
		return sampleMergedStory, nil
	case strings.Contains(req.System, "key takeaways"):
		r.calls = append(r.calls, "takeaways")
		return "- Faster onboarding\n- Smooth collaboration", nil
	case strings.Contains(req.System, "LinkedIn post"):
		r.calls = append(r.calls, "social")
		return "We helped Initech cut onboarding time by 40%. #casestudy", nil
	default:
		r.calls = append(r.calls, "other")
		return "generated text", nil
	}
}

type stubRenderer struct{}

func (stubRenderer) Render(story string) (string, error) {
	return "/tmp/final_case_study_test.pdf", nil
}

func newService(t *testing.T, completer narrative.Completer) (*Service, *casestudy.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithBaseURL("https://storyforge.example.com"))
	store := testsupport.MustOpenStore(t, cfg)
	if completer == nil {
		completer = &routingCompleter{}
	}
	svc, err := NewService(cfg, store, Deps{Completer: completer, Documents: stubRenderer{}}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestStitchTranscript(t *testing.T) {
	got := StitchTranscript([]Fragment{
		{Speaker: "ai", Text: "Tell me about the project."},
		{Speaker: "user", Text: "We built a scheduling tool."},
		{Speaker: "user", Text: "It cut onboarding time by 40%."},
		{Speaker: "ai", Text: "Impressive."},
	})
	want := "AI: Tell me about the project.\nUSER: We built a scheduling tool. It cut onboarding time by 40%.\nAI: Impressive."
	if got != want {
		t.Fatalf("stitched transcript:\n%s\nwant:\n%s", got, want)
	}
}

func TestStitchTranscriptSkipsEmptyFragments(t *testing.T) {
	got := StitchTranscript([]Fragment{
		{Speaker: "", Text: "orphan"},
		{Speaker: "user", Text: "  "},
		{Speaker: "user", Text: "kept"},
	})
	if got != "USER: kept" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestGenerateProviderSummaryCreatesCaseStudy(t *testing.T) {
	svc, store := newService(t, nil)

	result, err := svc.GenerateProviderSummary(context.Background(),
		"AI: Tell me about it.\nUSER: We built a scheduling tool for Initech that cut onboarding time by 40%.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	if result.CaseStudyID == 0 || result.SessionID == "" {
		t.Fatalf("missing identifiers: %+v", result)
	}
	if result.Entities.Lead != "Acme Corp" || result.Entities.Partner != "Initech" {
		t.Fatalf("unexpected entities: %+v", result.Entities)
	}

	cs, err := store.GetByID(context.Background(), result.CaseStudyID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cs.Title != "Acme Corp x Initech: Scheduling Tool" {
		t.Fatalf("unexpected title %q", cs.Title)
	}
	if cs.Language == "" {
		t.Fatal("language not persisted")
	}
	provider, err := store.ProviderBySession(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("ProviderBySession: %v", err)
	}
	if provider == nil || provider.Summary == "" || provider.Transcript == "" {
		t.Fatalf("provider narrative incomplete: %+v", provider)
	}
}

func TestGenerateProviderSummaryRequiresTranscript(t *testing.T) {
	svc, _ := newService(t, nil)
	if _, err := svc.GenerateProviderSummary(context.Background(), "  ", "user-1"); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestSaveProviderSummaryRefreshesTitle(t *testing.T) {
	svc, store := newService(t, nil)
	result, err := svc.GenerateProviderSummary(context.Background(), "USER: We built something.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}

	edited := "**Globex x Initech: Portal Redesign**\n\nThe portal redesign story."
	if err := svc.SaveProviderSummary(context.Background(), result.SessionID, edited); err != nil {
		t.Fatalf("SaveProviderSummary: %v", err)
	}
	cs, err := store.GetByID(context.Background(), result.CaseStudyID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cs.Title != "Globex x Initech: Portal Redesign" {
		t.Fatalf("title not refreshed: %q", cs.Title)
	}
}

func TestSaveProviderSummaryUnknownSession(t *testing.T) {
	svc, _ := newService(t, nil)
	err := svc.SaveProviderSummary(context.Background(), "missing-session", "summary text")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInviteLifecycle(t *testing.T) {
	svc, _ := newService(t, nil)
	result, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}

	link, err := svc.CreateInviteLink(context.Background(), result.CaseStudyID)
	if err != nil {
		t.Fatalf("CreateInviteLink: %v", err)
	}
	if !strings.HasPrefix(link, "https://storyforge.example.com/client-interview/") {
		t.Fatalf("unexpected link %q", link)
	}
	token := strings.TrimPrefix(link, "https://storyforge.example.com/client-interview/")

	opened, err := svc.OpenClientInterview(context.Background(), token)
	if err != nil {
		t.Fatalf("OpenClientInterview: %v", err)
	}
	if opened.CaseStudyID != result.CaseStudyID || opened.ProviderSummary == "" {
		t.Fatalf("unexpected interview context: %+v", opened)
	}
	if opened.ClientName != "Initech" || opened.ProjectName != "Scheduling Tool" {
		t.Fatalf("unexpected names: %+v", opened)
	}

	// Single use: a second open is rejected, read access survives.
	if _, err := svc.OpenClientInterview(context.Background(), token); !errors.Is(err, services.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict on reuse, got %v", err)
	}
	transcript, err := svc.GetProviderTranscript(context.Background(), token)
	if err != nil {
		t.Fatalf("GetProviderTranscript: %v", err)
	}
	if transcript == "" {
		t.Fatal("expected provider transcript")
	}
}

func TestOpenClientInterviewUnknownToken(t *testing.T) {
	svc, _ := newService(t, nil)
	if _, err := svc.OpenClientInterview(context.Background(), "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientSummaryFlow(t *testing.T) {
	svc, store := newService(t, nil)
	provider, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool for Initech.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	link, err := svc.CreateInviteLink(context.Background(), provider.CaseStudyID)
	if err != nil {
		t.Fatalf("CreateInviteLink: %v", err)
	}
	token := link[strings.LastIndex(link, "/")+1:]
	if _, err := svc.OpenClientInterview(context.Background(), token); err != nil {
		t.Fatalf("OpenClientInterview: %v", err)
	}

	if err := svc.SaveClientTranscript(context.Background(), token, []Fragment{
		{Speaker: "ai", Text: "How was the project?"},
		{Speaker: "client", Text: "It transformed our onboarding."},
	}); err != nil {
		t.Fatalf("SaveClientTranscript: %v", err)
	}

	// Empty transcript argument falls back to the stored one.
	result, err := svc.GenerateClientSummary(context.Background(), token, "")
	if err != nil {
		t.Fatalf("GenerateClientSummary: %v", err)
	}
	if result.CaseStudyID != provider.CaseStudyID || result.Summary == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	client, err := store.ClientByCaseStudy(context.Background(), provider.CaseStudyID)
	if err != nil {
		t.Fatalf("ClientByCaseStudy: %v", err)
	}
	if client == nil || client.Summary == "" {
		t.Fatalf("client narrative not persisted: %+v", client)
	}

	// One client narrative per case study.
	_, err = svc.GenerateClientSummary(context.Background(), token, "another transcript")
	if !errors.Is(err, services.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict on second submission, got %v", err)
	}
}

func TestGenerateClientSummaryRequiresTranscript(t *testing.T) {
	svc, _ := newService(t, nil)
	provider, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	link, err := svc.CreateInviteLink(context.Background(), provider.CaseStudyID)
	if err != nil {
		t.Fatalf("CreateInviteLink: %v", err)
	}
	token := link[strings.LastIndex(link, "/")+1:]

	if _, err := svc.GenerateClientSummary(context.Background(), token, ""); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestMergeCaseStudy(t *testing.T) {
	svc, store := newService(t, nil)
	provider, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool for Initech.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}

	merged, err := svc.MergeCaseStudy(context.Background(), provider.CaseStudyID)
	if err != nil {
		t.Fatalf("MergeCaseStudy: %v", err)
	}
	if strings.Contains(merged.Story, narrative.CorrectionsHeading) ||
		strings.Contains(merged.Story, narrative.QuoteHighlightsHeading) {
		t.Fatalf("side-channel headings survived in story:\n%s", merged.Story)
	}
	if !merged.ProviderOnly {
		t.Fatal("expected provider-only merge without a client narrative")
	}
	if merged.PDFPath == "" {
		t.Fatal("expected rendered pdf path")
	}

	cs, err := store.GetByID(context.Background(), provider.CaseStudyID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if cs.Story == "" || cs.MetadataJSON == "" || cs.PDFPath != merged.PDFPath {
		t.Fatalf("merge not persisted: %+v", cs)
	}
	if !strings.Contains(cs.MetadataJSON, "7 weeks, not 6") {
		t.Fatalf("corrections missing from metadata: %s", cs.MetadataJSON)
	}
}

func TestMergeRequiresProviderSummary(t *testing.T) {
	svc, store := newService(t, nil)
	cs := testsupport.NewCaseStudy(t, store, "user-1", "session-x")
	if _, err := svc.MergeCaseStudy(context.Background(), cs.ID); !errors.Is(err, services.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestMergeUnknownCaseStudy(t *testing.T) {
	svc, _ := newService(t, nil)
	if _, err := svc.MergeCaseStudy(context.Background(), 9999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitAndPollSocialArtifact(t *testing.T) {
	svc, _ := newService(t, nil)
	provider, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	if _, err := svc.MergeCaseStudy(context.Background(), provider.CaseStudyID); err != nil {
		t.Fatalf("MergeCaseStudy: %v", err)
	}

	job, err := svc.SubmitArtifact(context.Background(), provider.CaseStudyID, "social")
	if err != nil {
		t.Fatalf("SubmitArtifact: %v", err)
	}
	if job.Status != casestudy.JobCompleted {
		t.Fatalf("unexpected status %s", job.Status)
	}

	polled, err := svc.PollArtifact(context.Background(), provider.CaseStudyID, "social")
	if err != nil {
		t.Fatalf("PollArtifact: %v", err)
	}
	if polled.Status != casestudy.JobCompleted {
		t.Fatalf("unexpected polled status %s", polled.Status)
	}
}

func TestSubmitArtifactBeforeMergeRejected(t *testing.T) {
	svc, _ := newService(t, nil)
	provider, err := svc.GenerateProviderSummary(context.Background(), "USER: We built a tool.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	_, err = svc.SubmitArtifact(context.Background(), provider.CaseStudyID, "pdf")
	if !errors.Is(err, services.ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestSubmitArtifactUnknownChannel(t *testing.T) {
	svc, _ := newService(t, nil)
	if _, err := svc.SubmitArtifact(context.Background(), 1, "hologram"); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestListCaseStudies(t *testing.T) {
	svc, _ := newService(t, nil)
	first, err := svc.GenerateProviderSummary(context.Background(), "USER: First project.", "user-1")
	if err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}
	if _, err := svc.GenerateProviderSummary(context.Background(), "USER: Second project.", "user-1"); err != nil {
		t.Fatalf("GenerateProviderSummary: %v", err)
	}

	summaries, err := svc.ListCaseStudies(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListCaseStudies: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	found := false
	for _, summary := range summaries {
		if summary.ID == first.CaseStudyID {
			found = true
			if summary.ProviderSummary == "" {
				t.Fatalf("summary projection incomplete: %+v", summary)
			}
		}
	}
	if !found {
		t.Fatal("first case study missing from listing")
	}
}

func TestPipelineUpstreamFailurePropagates(t *testing.T) {
	failing := &routingCompleter{err: services.Wrap(services.ErrUpstreamTransport, "openai", "complete", "timeout", nil)}
	svc, _ := newService(t, failing)
	_, err := svc.GenerateProviderSummary(context.Background(), "USER: transcript.", "user-1")
	if !errors.Is(err, services.ErrUpstreamTransport) {
		t.Fatalf("expected ErrUpstreamTransport, got %v", err)
	}
}
