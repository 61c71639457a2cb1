package casestudy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateInvite mints a new unused invite token row.
func (s *Store) CreateInvite(ctx context.Context, caseStudyID int64, token string) (*Invite, error) {
	ctx = ensureContext(ctx)
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO invite_tokens (case_study_id, token, used, created_at) VALUES (?, ?, 0, ?)`,
		caseStudyID, token, nowStamp(),
	); err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}
	return s.InviteByToken(ctx, token)
}

// InviteByToken returns an invite, or nil when the token is unknown.
func (s *Store) InviteByToken(ctx context.Context, token string) (*Invite, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, case_study_id, token, used, created_at FROM invite_tokens WHERE token = ?`, token)

	var (
		invite     Invite
		used       int
		createdRaw sql.NullString
	)
	err := row.Scan(&invite.ID, &invite.CaseStudyID, &invite.Token, &used, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite: %w", err)
	}
	invite.Used = used != 0
	if created, err := parseTimeString(createdRaw.String); err == nil {
		invite.CreatedAt = created
	}
	return &invite, nil
}

// ConsumeInvite marks a token used. It is a conditional transition: the
// update only fires while the token is still unused, so concurrent opens
// resolve to exactly one winner.
func (s *Store) ConsumeInvite(ctx context.Context, token string) (bool, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE invite_tokens SET used = 1 WHERE token = ? AND used = 0`, token)
	if err != nil {
		return false, fmt.Errorf("consume invite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume invite rows: %w", err)
	}
	return affected == 1, nil
}
