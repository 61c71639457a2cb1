package casestudy

import (
	"database/sql"
	"errors"
	"time"
)

const caseStudyColumns = "id, user_id, title, lead_entity, partner_entity, project_title, language, story, metadata_json, linkedin_post, pdf_path, provider_only, created_at, updated_at"

func scanCaseStudy(scanner interface{ Scan(dest ...any) error }) (*CaseStudy, error) {
	var (
		id           int64
		userID       sql.NullString
		title        sql.NullString
		lead         sql.NullString
		partner      sql.NullString
		project      sql.NullString
		language     sql.NullString
		story        sql.NullString
		metadata     sql.NullString
		linkedin     sql.NullString
		pdfPath      sql.NullString
		providerOnly sql.NullInt64
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&userID,
		&title,
		&lead,
		&partner,
		&project,
		&language,
		&story,
		&metadata,
		&linkedin,
		&pdfPath,
		&providerOnly,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	cs := &CaseStudy{
		ID:            id,
		UserID:        userID.String,
		Title:         title.String,
		LeadEntity:    lead.String,
		PartnerEntity: partner.String,
		ProjectTitle:  project.String,
		Language:      language.String,
		Story:         story.String,
		MetadataJSON:  metadata.String,
		LinkedInPost:  linkedin.String,
		PDFPath:       pdfPath.String,
		ProviderOnly:  providerOnly.Int64 != 0,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		cs.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		cs.UpdatedAt = updated
	}
	return cs, nil
}

const interviewColumns = "id, case_study_id, session_id, transcript, summary, client_link_url, created_at, updated_at"

func scanInterview(scanner interface{ Scan(dest ...any) error }) (*Interview, error) {
	var (
		id         int64
		csID       int64
		sessionID  string
		transcript sql.NullString
		summary    sql.NullString
		linkURL    sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &csID, &sessionID, &transcript, &summary, &linkURL, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	iv := &Interview{
		ID:            id,
		CaseStudyID:   csID,
		SessionID:     sessionID,
		Transcript:    transcript.String,
		Summary:       summary.String,
		ClientLinkURL: linkURL.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		iv.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		iv.UpdatedAt = updated
	}
	return iv, nil
}

const jobColumns = "id, case_study_id, channel, status, phase, provider_job_id, result_url, script, error_message, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*ArtifactJob, error) {
	var (
		id         int64
		csID       int64
		channel    string
		status     string
		phase      sql.NullString
		providerID sql.NullString
		resultURL  sql.NullString
		script     sql.NullString
		errMsg     sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &csID, &channel, &status, &phase, &providerID, &resultURL, &script, &errMsg, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	job := &ArtifactJob{
		ID:            id,
		CaseStudyID:   csID,
		Channel:       Channel(channel),
		Status:        JobStatus(status),
		Phase:         phase.String,
		ProviderJobID: providerID.String,
		ResultURL:     resultURL.String,
		Script:        script.String,
		ErrorMessage:  errMsg.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
