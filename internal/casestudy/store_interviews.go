package casestudy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ProviderBySession returns the provider interview for a session id, or nil.
func (s *Store) ProviderBySession(ctx context.Context, sessionID string) (*Interview, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+interviewColumns+` FROM provider_interviews WHERE session_id = ?`, sessionID)
	iv, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get provider interview: %w", err)
	}
	return iv, nil
}

// ProviderByCaseStudy returns the provider interview for a case study, or nil.
func (s *Store) ProviderByCaseStudy(ctx context.Context, caseStudyID int64) (*Interview, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+interviewColumns+` FROM provider_interviews WHERE case_study_id = ?`, caseStudyID)
	iv, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get provider interview: %w", err)
	}
	return iv, nil
}

// SaveProviderTranscript stores the stitched transcript for a session.
func (s *Store) SaveProviderTranscript(ctx context.Context, sessionID, transcript string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE provider_interviews SET transcript = ?, updated_at = ? WHERE session_id = ?`,
		transcript, nowStamp(), sessionID,
	); err != nil {
		return fmt.Errorf("save provider transcript: %w", err)
	}
	return nil
}

// SaveProviderSummary stores the (possibly edited) provider summary.
func (s *Store) SaveProviderSummary(ctx context.Context, sessionID, summary string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE provider_interviews SET summary = ?, updated_at = ? WHERE session_id = ?`,
		summary, nowStamp(), sessionID,
	); err != nil {
		return fmt.Errorf("save provider summary: %w", err)
	}
	return nil
}

// SetClientLinkURL records the issued client interview link on the provider side.
func (s *Store) SetClientLinkURL(ctx context.Context, caseStudyID int64, url string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE provider_interviews SET client_link_url = ?, updated_at = ? WHERE case_study_id = ?`,
		url, nowStamp(), caseStudyID,
	); err != nil {
		return fmt.Errorf("set client link url: %w", err)
	}
	return nil
}

// EnsureClientInterview creates the client interview row for a case study if
// it does not already exist, and returns it.
func (s *Store) EnsureClientInterview(ctx context.Context, caseStudyID int64, sessionID string) (*Interview, error) {
	ctx = ensureContext(ctx)
	stamp := nowStamp()
	if err := s.execWithoutResultRetry(ctx,
		`INSERT INTO client_interviews (case_study_id, session_id, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(case_study_id) DO NOTHING`,
		caseStudyID, sessionID, stamp, stamp,
	); err != nil {
		return nil, fmt.Errorf("ensure client interview: %w", err)
	}
	return s.ClientByCaseStudy(ctx, caseStudyID)
}

// clientInterviewColumns pads a blank link column so one scanner covers
// both interview tables.
const clientInterviewColumns = "id, case_study_id, session_id, transcript, summary, '', created_at, updated_at"

// ClientByCaseStudy returns the client interview for a case study, or nil.
func (s *Store) ClientByCaseStudy(ctx context.Context, caseStudyID int64) (*Interview, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+clientInterviewColumns+` FROM client_interviews WHERE case_study_id = ?`, caseStudyID)
	iv, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client interview: %w", err)
	}
	return iv, nil
}

// SaveClientTranscript stores the stitched client transcript.
func (s *Store) SaveClientTranscript(ctx context.Context, caseStudyID int64, transcript string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE client_interviews SET transcript = ?, updated_at = ? WHERE case_study_id = ?`,
		transcript, nowStamp(), caseStudyID,
	); err != nil {
		return fmt.Errorf("save client transcript: %w", err)
	}
	return nil
}

// SaveClientSummary stores the generated client summary.
func (s *Store) SaveClientSummary(ctx context.Context, caseStudyID int64, summary string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE client_interviews SET summary = ?, updated_at = ? WHERE case_study_id = ?`,
		summary, nowStamp(), caseStudyID,
	); err != nil {
		return fmt.Errorf("save client summary: %w", err)
	}
	return nil
}
