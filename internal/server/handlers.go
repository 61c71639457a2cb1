package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"storyforge/internal/api"
	"storyforge/internal/casestudy"
	"storyforge/internal/services"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProviderSummary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Transcript string `json:"transcript"`
			UserID     string `json:"user_id"`
		}
		if err := decodeBody(r, &body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := s.svc.GenerateProviderSummary(r.Context(), body.Transcript, body.UserID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
	case http.MethodPut:
		var body struct {
			SessionID string `json:"provider_session_id"`
			Summary   string `json:"summary"`
		}
		if err := decodeBody(r, &body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.svc.SaveProviderSummary(r.Context(), body.SessionID, body.Summary); err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleProviderTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		SessionID string         `json:"provider_session_id"`
		Fragments []api.Fragment `json:"fragments"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.svc.SaveProviderTranscript(r.Context(), body.SessionID, body.Fragments); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.svc.ExtractEntities(r.Context(), body.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleClientInterview opens the client interview behind an invite token:
// POST /api/client/interview/{token}.
func (s *Server) handleClientInterview(w http.ResponseWriter, r *http.Request) {
	token, ok := pathTail(r.URL.Path, "/api/client/interview/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	result, err := s.svc.OpenClientInterview(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleClientTranscript serves the provider transcript for the client flow
// (GET) and stores client fragments (POST), both keyed by the invite token.
func (s *Server) handleClientTranscript(w http.ResponseWriter, r *http.Request) {
	token, ok := pathTail(r.URL.Path, "/api/client/transcript/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		transcript, err := s.svc.GetProviderTranscript(r.Context(), token)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
	case http.MethodPost:
		var body struct {
			Fragments []api.Fragment `json:"fragments"`
		}
		if err := decodeBody(r, &body); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.svc.SaveClientTranscript(r.Context(), token, body.Fragments); err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleClientSummary(w http.ResponseWriter, r *http.Request) {
	token, ok := pathTail(r.URL.Path, "/api/client/summary/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Transcript string `json:"transcript"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.svc.GenerateClientSummary(r.Context(), token, body.Transcript)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	summaries, err := s.svc.ListCaseStudies(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"case_studies": toSummaryViews(summaries)})
}

// handleCaseStudyItem routes /api/casestudies/{id}/{action...}:
//
//	POST {id}/invite            mint a client invite link
//	POST {id}/merge             run the merge pipeline
//	POST {id}/artifacts/{ch}    submit channel generation
//	GET  {id}/artifacts/{ch}    poll channel status
func (s *Server) handleCaseStudyItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/casestudies/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid case study id")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "invite":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		link, err := s.svc.CreateInviteLink(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"link": link})
	case len(parts) == 2 && parts[1] == "merge":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		result, err := s.svc.MergeCaseStudy(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
	case len(parts) == 3 && parts[1] == "artifacts":
		s.handleArtifact(w, r, id, parts[2])
	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request, id int64, channel string) {
	var (
		job *casestudy.ArtifactJob
		err error
	)
	switch r.Method {
	case http.MethodPost:
		job, err = s.svc.SubmitArtifact(r.Context(), id, channel)
	case http.MethodGet:
		job, err = s.svc.PollArtifact(r.Context(), id, channel)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJobView(job))
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("error", err.Error()))
	}
	s.writeError(w, status, err.Error())
}

func pathTail(path, prefix string) (string, bool) {
	tail := strings.TrimPrefix(path, prefix)
	if tail == "" || strings.Contains(tail, "/") {
		return "", false
	}
	return tail, true
}
