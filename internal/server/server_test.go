package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storyforge/internal/api"
	"storyforge/internal/services/openai"
	"storyforge/internal/testsupport"
)

type scriptedCompleter struct{}

func (scriptedCompleter) Complete(_ context.Context, req openai.Request) (string, error) {
	switch {
	case req.JSONOnly:
		return `{"lead_entity": "Acme Corp", "partner_entity": "Initech", "project_title": "Scheduling Tool"}`, nil
	case strings.Contains(req.System, "top-tier business case study writer"):
		return "**Acme Corp x Initech: Scheduling Tool**\n\nThe merged story body.", nil
	default:
		return "**Acme Corp x Initech: Scheduling Tool**\n\nGenerated narrative body.", nil
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(story string) (string, error) { return "/tmp/case.pdf", nil }

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	opts := []testsupport.ConfigOption{testsupport.WithBaseURL("https://storyforge.example.com")}
	if token != "" {
		opts = append(opts, testsupport.WithAPIToken(token))
	}
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	svc, err := api.NewService(cfg, store, api.Deps{Completer: scriptedCompleter{}, Documents: nopRenderer{}}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	srv, err := New(cfg, svc, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp, decodeMap(t, resp)
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
	}
	return out
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := decodeMap(t, resp)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected response %d %v", resp.StatusCode, body)
	}
}

func TestBearerTokenEnforced(t *testing.T) {
	ts := newTestServer(t, "secret-token")

	// Status stays open for health probes.
	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status should be unauthenticated, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/casestudies?user_id=u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/casestudies?user_id=u1", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestProviderInterviewEndToEnd(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := postJSON(t, ts.URL+"/api/provider/summary", map[string]string{
		"transcript": "USER: We built a scheduling tool for Initech that cut onboarding time by 40%.",
		"user_id":    "user-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("provider summary status %d: %v", resp.StatusCode, body)
	}
	caseStudyID := int64(body["case_study_id"].(float64))
	sessionID := body["provider_session_id"].(string)
	if caseStudyID == 0 || sessionID == "" {
		t.Fatalf("identifiers missing: %v", body)
	}

	resp, body = postJSON(t, fmt.Sprintf("%s/api/casestudies/%d/invite", ts.URL, caseStudyID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invite status %d: %v", resp.StatusCode, body)
	}
	link := body["link"].(string)
	token := link[strings.LastIndex(link, "/")+1:]

	resp, body = postJSON(t, ts.URL+"/api/client/interview/"+token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open interview status %d: %v", resp.StatusCode, body)
	}
	if body["client_name"] != "Initech" {
		t.Fatalf("unexpected interview context: %v", body)
	}

	// Second open of the single-use token conflicts.
	resp, _ = postJSON(t, ts.URL+"/api/client/interview/"+token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on token reuse, got %d", resp.StatusCode)
	}

	resp, body = postJSON(t, fmt.Sprintf("%s/api/casestudies/%d/merge", ts.URL, caseStudyID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("merge status %d: %v", resp.StatusCode, body)
	}
	if body["story"] == "" {
		t.Fatalf("expected merged story: %v", body)
	}

	resp, body = postJSON(t, fmt.Sprintf("%s/api/casestudies/%d/artifacts/pdf", ts.URL, caseStudyID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("artifact submit status %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "completed" {
		t.Fatalf("unexpected artifact status: %v", body)
	}

	respGet, err := http.Get(fmt.Sprintf("%s/api/casestudies/%d/artifacts/pdf", ts.URL, caseStudyID))
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	body = decodeMap(t, respGet)
	if body["status"] != "completed" {
		t.Fatalf("unexpected polled status: %v", body)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t, "")

	// Unknown case study responds 404.
	resp, _ := postJSON(t, ts.URL+"/api/casestudies/9999/merge", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// Missing input responds 400.
	resp, _ = postJSON(t, ts.URL+"/api/provider/summary", map[string]string{"transcript": "", "user_id": "u"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Unknown channel responds 400.
	resp, _ = postJSON(t, ts.URL+"/api/casestudies/1/artifacts/hologram", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Malformed body responds 400.
	raw, err := http.Post(ts.URL+"/api/entities", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	raw.Body.Close()
	if raw.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", raw.StatusCode)
	}
}
