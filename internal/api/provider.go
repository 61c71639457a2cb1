package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"storyforge/internal/entities"
	"storyforge/internal/narrative"
	"storyforge/internal/services"
)

// ProviderSummaryResult is the outcome of the provider interview intake.
type ProviderSummaryResult struct {
	CaseStudyID int64             `json:"case_study_id"`
	SessionID   string            `json:"provider_session_id"`
	Summary     string            `json:"summary"`
	Entities    entities.Entities `json:"entities"`
	Language    string            `json:"language"`
}

// GenerateProviderSummary runs the provider intake pipeline: detect the
// transcript language, generate the summary, extract entities, and create
// the case study with its provider narrative.
func (s *Service) GenerateProviderSummary(ctx context.Context, transcript, userID string) (*ProviderSummaryResult, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, services.Wrap(services.ErrInput, "api", "provider summary", "transcript required", nil)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, services.Wrap(services.ErrInput, "api", "provider summary", "user id required", nil)
	}

	lang := s.detector.Detect(transcript)
	summary, err := s.generator.Generate(ctx, narrative.Request{
		Kind:     narrative.KindProviderSummary,
		Language: lang,
		Sources:  narrative.Sources{Transcript: transcript},
	})
	if err != nil {
		return nil, err
	}

	extracted := s.extractor.Extract(ctx, summary)
	sessionID := uuid.NewString()

	cs, err := s.store.Create(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetEntities(ctx, cs.ID, extracted.Lead, extracted.Partner, extracted.Project, extracted.Title()); err != nil {
		return nil, err
	}
	if err := s.store.SetLanguage(ctx, cs.ID, lang); err != nil {
		return nil, err
	}
	if err := s.store.SaveProviderTranscript(ctx, sessionID, transcript); err != nil {
		return nil, err
	}
	if err := s.store.SaveProviderSummary(ctx, sessionID, summary); err != nil {
		return nil, err
	}

	s.logger.Info("provider summary generated",
		slog.Int64("case_study", cs.ID),
		slog.String("language", lang))
	return &ProviderSummaryResult{
		CaseStudyID: cs.ID,
		SessionID:   sessionID,
		Summary:     summary,
		Entities:    extracted,
		Language:    lang,
	}, nil
}

// SaveProviderTranscript stitches and stores raw provider interview
// fragments against an existing provider session.
func (s *Service) SaveProviderTranscript(ctx context.Context, sessionID string, fragments []Fragment) error {
	transcript := StitchTranscript(fragments)
	if transcript == "" {
		return services.Wrap(services.ErrInput, "api", "save provider transcript", "no usable fragments", nil)
	}
	interview, err := s.store.ProviderBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if interview == nil {
		return services.Wrap(services.ErrNotFound, "api", "save provider transcript", "unknown provider session", nil)
	}
	return s.store.SaveProviderTranscript(ctx, sessionID, transcript)
}

// SaveProviderSummary stores an edited provider summary and refreshes the
// case-study entities and title from its first line.
func (s *Service) SaveProviderSummary(ctx context.Context, sessionID, summary string) error {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return services.Wrap(services.ErrInput, "api", "save provider summary", "summary required", nil)
	}
	interview, err := s.store.ProviderBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if interview == nil {
		return services.Wrap(services.ErrNotFound, "api", "save provider summary", "unknown provider session", nil)
	}
	if err := s.store.SaveProviderSummary(ctx, sessionID, summary); err != nil {
		return err
	}

	extracted := entities.Extract(summary)
	return s.store.SetEntities(ctx, interview.CaseStudyID, extracted.Lead, extracted.Partner, extracted.Project, extracted.Title())
}

// ExtractEntities derives {lead, partner, project} from any narrative text,
// preferring the assisted strategy with the deterministic parser as fallback.
func (s *Service) ExtractEntities(ctx context.Context, text string) (entities.Entities, error) {
	if strings.TrimSpace(text) == "" {
		return entities.Entities{}, services.Wrap(services.ErrInput, "api", "extract entities", "text required", nil)
	}
	return s.extractor.Extract(ctx, text), nil
}
