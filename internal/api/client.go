package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"storyforge/internal/casestudy"
	"storyforge/internal/narrative"
	"storyforge/internal/services"
)

// CreateInviteLink mints a single-use client interview token for the case
// study, stores the resulting URL on the provider narrative, and returns it.
func (s *Service) CreateInviteLink(ctx context.Context, caseStudyID int64) (string, error) {
	cs, err := s.store.GetByID(ctx, caseStudyID)
	if err != nil {
		return "", err
	}
	if cs == nil {
		return "", services.Wrap(services.ErrNotFound, "api", "invite", "unknown case study", nil)
	}

	token := uuid.NewString()
	if _, err := s.store.CreateInvite(ctx, caseStudyID, token); err != nil {
		return "", err
	}
	link := strings.TrimRight(s.cfg.Paths.BaseURL, "/") + "/client-interview/" + token
	if err := s.store.SetClientLinkURL(ctx, caseStudyID, link); err != nil {
		return "", err
	}
	s.logger.Info("invite link created", slog.Int64("case_study", caseStudyID))
	return link, nil
}

// ClientInterviewContext is what the client-side interview flow needs to
// start: the provider's account plus the names to address the client with.
type ClientInterviewContext struct {
	CaseStudyID     int64  `json:"case_study_id"`
	ProviderSummary string `json:"provider_summary"`
	ClientName      string `json:"client_name"`
	ProjectName     string `json:"project_name"`
}

// OpenClientInterview consumes the invite token and returns the interview
// context. Tokens are single-use: a second open is rejected.
func (s *Service) OpenClientInterview(ctx context.Context, token string) (*ClientInterviewContext, error) {
	invite, err := s.inviteByToken(ctx, "open client interview", token)
	if err != nil {
		return nil, err
	}
	consumed, err := s.store.ConsumeInvite(ctx, token)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, services.Wrap(services.ErrStateConflict, "api", "open client interview", "invite token already used", nil)
	}

	cs, err := s.store.GetByID(ctx, invite.CaseStudyID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "open client interview", "case study missing for invite", nil)
	}
	provider, err := s.store.ProviderByCaseStudy(ctx, invite.CaseStudyID)
	if err != nil {
		return nil, err
	}
	summary := ""
	if provider != nil {
		summary = provider.Summary
	}
	return &ClientInterviewContext{
		CaseStudyID:     cs.ID,
		ProviderSummary: summary,
		ClientName:      cs.PartnerEntity,
		ProjectName:     cs.ProjectTitle,
	}, nil
}

// GetProviderTranscript resolves an invite token to the provider transcript.
// Used tokens keep read access; only narrative submission is single-use.
func (s *Service) GetProviderTranscript(ctx context.Context, token string) (string, error) {
	invite, err := s.inviteByToken(ctx, "provider transcript", token)
	if err != nil {
		return "", err
	}
	provider, err := s.store.ProviderByCaseStudy(ctx, invite.CaseStudyID)
	if err != nil {
		return "", err
	}
	if provider == nil || provider.Transcript == "" {
		return "", services.Wrap(services.ErrNotFound, "api", "provider transcript", "no transcript recorded", nil)
	}
	return provider.Transcript, nil
}

// SaveClientTranscript stitches and stores client interview fragments for
// the case study behind the token.
func (s *Service) SaveClientTranscript(ctx context.Context, token string, fragments []Fragment) error {
	transcript := StitchTranscript(fragments)
	if transcript == "" {
		return services.Wrap(services.ErrInput, "api", "save client transcript", "no usable fragments", nil)
	}
	invite, err := s.inviteByToken(ctx, "save client transcript", token)
	if err != nil {
		return err
	}
	if _, err := s.store.EnsureClientInterview(ctx, invite.CaseStudyID, uuid.NewString()); err != nil {
		return err
	}
	return s.store.SaveClientTranscript(ctx, invite.CaseStudyID, transcript)
}

// ClientSummaryResult is the outcome of the client narrative generation.
type ClientSummaryResult struct {
	CaseStudyID int64  `json:"case_study_id"`
	Summary     string `json:"summary"`
}

// GenerateClientSummary produces the client-side summary from the supplied
// transcript (or the stored one) and persists it. A case study accepts one
// client narrative; a second submission is rejected.
func (s *Service) GenerateClientSummary(ctx context.Context, token, transcript string) (*ClientSummaryResult, error) {
	invite, err := s.inviteByToken(ctx, "client summary", token)
	if err != nil {
		return nil, err
	}
	cs, err := s.store.GetByID(ctx, invite.CaseStudyID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "client summary", "case study missing for invite", nil)
	}

	client, err := s.store.ClientByCaseStudy(ctx, invite.CaseStudyID)
	if err != nil {
		return nil, err
	}
	if client != nil && strings.TrimSpace(client.Summary) != "" {
		return nil, services.Wrap(services.ErrStateConflict, "api", "client summary", "client narrative already submitted", nil)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" && client != nil {
		transcript = strings.TrimSpace(client.Transcript)
	}
	if transcript == "" {
		return nil, services.Wrap(services.ErrInput, "api", "client summary", "transcript required", nil)
	}

	lang := cs.Language
	if lang == "" {
		lang = s.detector.Detect(transcript)
	}
	provider, err := s.store.ProviderByCaseStudy(ctx, invite.CaseStudyID)
	if err != nil {
		return nil, err
	}
	providerSummary := ""
	if provider != nil {
		providerSummary = provider.Summary
	}

	summary, err := s.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindClientSummary,
		Language: lang,
		Sources:  narrative.Sources{Transcript: transcript, Provider: providerSummary},
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.store.EnsureClientInterview(ctx, invite.CaseStudyID, uuid.NewString()); err != nil {
		return nil, err
	}
	if err := s.store.SaveClientTranscript(ctx, invite.CaseStudyID, transcript); err != nil {
		return nil, err
	}
	if err := s.store.SaveClientSummary(ctx, invite.CaseStudyID, summary); err != nil {
		return nil, err
	}
	s.logger.Info("client summary generated", slog.Int64("case_study", cs.ID))
	return &ClientSummaryResult{CaseStudyID: cs.ID, Summary: summary}, nil
}

func (s *Service) inviteByToken(ctx context.Context, op, token string) (*casestudy.Invite, error) {
	if strings.TrimSpace(token) == "" {
		return nil, services.Wrap(services.ErrInput, "api", op, "token required", nil)
	}
	invite, err := s.store.InviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", op, "unknown invite token", nil)
	}
	return invite, nil
}
