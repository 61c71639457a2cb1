package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"storyforge/internal/casestudy"
	"storyforge/internal/merge"
	"storyforge/internal/services"
)

// MergeResult is the publishable outcome of a merge: the clean story and the
// location of the rendered document.
type MergeResult struct {
	CaseStudyID  int64  `json:"case_study_id"`
	Story        string `json:"story"`
	PDFPath      string `json:"pdf_path"`
	ProviderOnly bool   `json:"provider_only"`
}

// MergeCaseStudy runs the reconciliation pipeline: merge the two summaries
// (or run provider-only mode), split out metadata, persist the clean story,
// and render the case-study PDF.
func (s *Service) MergeCaseStudy(ctx context.Context, caseStudyID int64) (*MergeResult, error) {
	cs, err := s.store.GetByID(ctx, caseStudyID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "merge", "unknown case study", nil)
	}

	provider, err := s.store.ProviderByCaseStudy(ctx, caseStudyID)
	if err != nil {
		return nil, err
	}
	if provider == nil || strings.TrimSpace(provider.Summary) == "" {
		return nil, services.Wrap(services.ErrStateConflict, "api", "merge", "provider summary required before merge", nil)
	}
	client, err := s.store.ClientByCaseStudy(ctx, caseStudyID)
	if err != nil {
		return nil, err
	}
	clientSummary := ""
	if client != nil {
		clientSummary = client.Summary
	}

	result, err := s.merger.Merge(ctx, merge.Request{
		ProviderSummary: provider.Summary,
		ClientSummary:   clientSummary,
		Language:        cs.Language,
	})
	if err != nil {
		return nil, err
	}

	cleanStory, md := s.metadata.Build(ctx, result.Story, clientSummary, cs.Language)
	metadataJSON, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if err := s.store.SaveStory(ctx, caseStudyID, cleanStory, string(metadataJSON), result.ProviderOnly); err != nil {
		return nil, err
	}

	pdfPath := ""
	if s.documents != nil {
		pdfPath, err = s.documents.Render(cleanStory)
		if err != nil {
			// The story is already persisted; the document can be regenerated
			// through the PDF channel.
			s.logger.Warn("pdf render failed after merge",
				slog.Int64("case_study", caseStudyID),
				slog.String("error", err.Error()))
		} else if err := s.store.SetPDFPath(ctx, caseStudyID, pdfPath); err != nil {
			return nil, err
		}
	}

	s.logger.Info("case study merged",
		slog.Int64("case_study", caseStudyID),
		slog.Bool("provider_only", result.ProviderOnly))
	return &MergeResult{
		CaseStudyID:  caseStudyID,
		Story:        cleanStory,
		PDFPath:      pdfPath,
		ProviderOnly: result.ProviderOnly,
	}, nil
}

// SubmitArtifact starts generation on one downstream channel of a merged
// case study.
func (s *Service) SubmitArtifact(ctx context.Context, caseStudyID int64, channel string) (*casestudy.ArtifactJob, error) {
	ch, err := casestudy.ParseChannel(channel)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "api", "submit artifact", err.Error(), nil)
	}
	cs, err := s.store.GetByID(ctx, caseStudyID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "submit artifact", "unknown case study", nil)
	}
	return s.artifacts.Submit(ctx, cs, ch)
}

// PollArtifact advances and reports the channel's job state.
func (s *Service) PollArtifact(ctx context.Context, caseStudyID int64, channel string) (*casestudy.ArtifactJob, error) {
	ch, err := casestudy.ParseChannel(channel)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "api", "poll artifact", err.Error(), nil)
	}
	cs, err := s.store.GetByID(ctx, caseStudyID)
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "poll artifact", "unknown case study", nil)
	}
	return s.artifacts.Poll(ctx, cs, ch)
}

// ListCaseStudies returns the listing projection for a user's case studies.
func (s *Service) ListCaseStudies(ctx context.Context, userID string) ([]casestudy.Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, services.Wrap(services.ErrInput, "api", "list", "user id required", nil)
	}
	return s.store.List(ctx, userID)
}
