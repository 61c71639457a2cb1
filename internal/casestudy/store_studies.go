package casestudy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Create inserts a new case study with its provider interview row.
func (s *Store) Create(ctx context.Context, userID, sessionID string) (*CaseStudy, error) {
	ctx = ensureContext(ctx)
	stamp := nowStamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO case_studies (user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		userID, "Untitled Case Study", stamp, stamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert case study: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO provider_interviews (case_study_id, session_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, sessionID, stamp, stamp,
	); err != nil {
		return nil, fmt.Errorf("insert provider interview: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns a case study, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*CaseStudy, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+caseStudyColumns+` FROM case_studies WHERE id = ?`, id)
	cs, err := scanCaseStudy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get case study: %w", err)
	}
	return cs, nil
}

// SetEntities records the parsed entities and rewrites the display title.
func (s *Store) SetEntities(ctx context.Context, id int64, lead, partner, project, title string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE case_studies
         SET lead_entity = ?, partner_entity = ?, project_title = ?, title = ?, updated_at = ?
         WHERE id = ?`,
		lead, partner, project, title, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("set entities: %w", err)
	}
	return nil
}

// SetLanguage records the detected narrative language.
func (s *Store) SetLanguage(ctx context.Context, id int64, language string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE case_studies SET language = ?, updated_at = ? WHERE id = ?`,
		language, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// SaveStory persists the merged story with its metadata in one write.
func (s *Store) SaveStory(ctx context.Context, id int64, story, metadataJSON string, providerOnly bool) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE case_studies
         SET story = ?, metadata_json = ?, provider_only = ?, updated_at = ?
         WHERE id = ?`,
		story, metadataJSON, boolToInt(providerOnly), nowStamp(), id,
	); err != nil {
		return fmt.Errorf("save story: %w", err)
	}
	return nil
}

// SetLinkedInPost persists the generated social post.
func (s *Store) SetLinkedInPost(ctx context.Context, id int64, post string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE case_studies SET linkedin_post = ?, updated_at = ? WHERE id = ?`,
		post, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("set linkedin post: %w", err)
	}
	return nil
}

// SetPDFPath records the rendered document location.
func (s *Store) SetPDFPath(ctx context.Context, id int64, path string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE case_studies SET pdf_path = ?, updated_at = ? WHERE id = ?`,
		path, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("set pdf path: %w", err)
	}
	return nil
}

// List returns listing summaries for a user, newest first. An empty userID
// lists everything.
func (s *Store) List(ctx context.Context, userID string) ([]Summary, error) {
	ctx = ensureContext(ctx)
	query := `SELECT cs.id, cs.title, cs.story, cs.updated_at,
	                 COALESCE(pi.summary, ''), COALESCE(ci.summary, '')
	          FROM case_studies cs
	          LEFT JOIN provider_interviews pi ON pi.case_study_id = cs.id
	          LEFT JOIN client_interviews ci ON ci.case_study_id = cs.id`
	args := []any{}
	if userID != "" {
		query += ` WHERE cs.user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY cs.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list case studies: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			item       Summary
			title      sql.NullString
			story      sql.NullString
			updatedRaw sql.NullString
		)
		if err := rows.Scan(&item.ID, &title, &story, &updatedRaw, &item.ProviderSummary, &item.ClientSummary); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		item.Title = title.String
		item.HasStory = story.String != ""
		if updated, err := parseTimeString(updatedRaw.String); err == nil {
			item.UpdatedAt = updated
		}
		summaries = append(summaries, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	for i := range summaries {
		states, err := s.artifactStates(ctx, summaries[i].ID)
		if err != nil {
			return nil, err
		}
		summaries[i].ArtifactStates = states
	}
	return summaries, nil
}

func (s *Store) artifactStates(ctx context.Context, caseStudyID int64) (map[Channel]JobStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel, status FROM artifact_jobs WHERE case_study_id = ?`, caseStudyID)
	if err != nil {
		return nil, fmt.Errorf("artifact states: %w", err)
	}
	defer rows.Close()

	states := make(map[Channel]JobStatus)
	for rows.Next() {
		var channel, status string
		if err := rows.Scan(&channel, &status); err != nil {
			return nil, fmt.Errorf("scan artifact state: %w", err)
		}
		states[Channel(channel)] = JobStatus(status)
	}
	return states, rows.Err()
}
