package casestudy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetJob returns the artifact job for a (case study, channel), or nil.
func (s *Store) GetJob(ctx context.Context, caseStudyID int64, channel Channel) (*ArtifactJob, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM artifact_jobs WHERE case_study_id = ? AND channel = ?`,
		caseStudyID, channel)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact job: %w", err)
	}
	return job, nil
}

// ListJobs returns every artifact job for a case study in channel order.
func (s *Store) ListJobs(ctx context.Context, caseStudyID int64) ([]*ArtifactJob, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM artifact_jobs WHERE case_study_id = ? ORDER BY channel`,
		caseStudyID)
	if err != nil {
		return nil, fmt.Errorf("list artifact jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*ArtifactJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("list artifact jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list artifact jobs: %w", err)
	}
	return jobs, nil
}

// BeginJob claims the (case study, channel) slot by inserting a pending row.
// The UNIQUE constraint makes the claim atomic: when a row already exists the
// insert is a no-op and began is false. When allowRetry is set, a failed row
// is reset to pending instead, clearing the previous attempt's fields.
func (s *Store) BeginJob(ctx context.Context, caseStudyID int64, channel Channel, allowRetry bool) (job *ArtifactJob, began bool, err error) {
	ctx = ensureContext(ctx)
	stamp := nowStamp()

	res, err := s.execWithRetry(ctx,
		`INSERT INTO artifact_jobs (case_study_id, channel, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(case_study_id, channel) DO NOTHING`,
		caseStudyID, channel, JobPending, stamp, stamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("begin artifact job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("begin artifact job rows: %w", err)
	}
	if affected == 0 && allowRetry {
		res, err = s.execWithRetry(ctx,
			`UPDATE artifact_jobs
             SET status = ?, phase = '', provider_job_id = '', result_url = '', script = '', error_message = '', updated_at = ?
             WHERE case_study_id = ? AND channel = ? AND status = ?`,
			JobPending, stamp, caseStudyID, channel, JobFailed,
		)
		if err != nil {
			return nil, false, fmt.Errorf("retry artifact job: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return nil, false, fmt.Errorf("retry artifact job rows: %w", err)
		}
	}

	job, err = s.GetJob(ctx, caseStudyID, channel)
	if err != nil {
		return nil, false, err
	}
	return job, affected == 1, nil
}

// MarkJobProcessing records the upstream job handle after a submit.
func (s *Store) MarkJobProcessing(ctx context.Context, id int64, providerJobID, phase, script string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE artifact_jobs
         SET status = ?, provider_job_id = ?, phase = ?, script = ?, updated_at = ?
         WHERE id = ?`,
		JobProcessing, providerJobID, phase, script, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}
	return nil
}

// UpdateJobPhase advances a multi-phase job to its next upstream handle.
func (s *Store) UpdateJobPhase(ctx context.Context, id int64, providerJobID, phase string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE artifact_jobs SET provider_job_id = ?, phase = ?, updated_at = ? WHERE id = ?`,
		providerJobID, phase, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("update job phase: %w", err)
	}
	return nil
}

// MarkJobCompleted finishes a job with its result location.
func (s *Store) MarkJobCompleted(ctx context.Context, id int64, resultURL string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE artifact_jobs
         SET status = ?, result_url = ?, error_message = '', updated_at = ?
         WHERE id = ?`,
		JobCompleted, resultURL, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return nil
}

// MarkJobFailed records a failure message on the job.
func (s *Store) MarkJobFailed(ctx context.Context, id int64, message string) error {
	if err := s.execWithoutResultRetry(ctx,
		`UPDATE artifact_jobs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		JobFailed, message, nowStamp(), id,
	); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	return nil
}

// RemoveJob deletes a claimed slot. Used when the submit itself failed before
// any upstream work started, so the channel stays re-submittable.
func (s *Store) RemoveJob(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(ctx,
		`DELETE FROM artifact_jobs WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("remove artifact job: %w", err)
	}
	return nil
}
