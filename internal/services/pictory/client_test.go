package pictory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"storyforge/internal/services"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		UserID:       "user-7",
		BaseURL:      server.URL,
	})
}

func tokenHandler(t *testing.T, calls *int64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt64(calls, 1)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode token request: %v", err)
		}
		if body["client_id"] != "client-id" || body["client_secret"] != "client-secret" {
			t.Fatalf("unexpected token credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}
}

func TestCreateStoryboardSubmitsScenes(t *testing.T) {
	var captured storyboardRequest
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, tokenHandler(t, nil))
	mux.HandleFunc(storyboardPath, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "tok-123" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("X-Pictory-User-Id"); got != "user-7" {
			t.Fatalf("unexpected user header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode storyboard request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"jobId": "sb-1"})
	})

	client := testClient(t, mux)
	jobID, err := client.CreateStoryboard(context.Background(), "Case Study", []Scene{
		{Text: "Opening hook.", VoiceOver: true},
		{Text: "Closing line.", VoiceOver: true},
	})
	if err != nil {
		t.Fatalf("CreateStoryboard: %v", err)
	}
	if jobID != "sb-1" {
		t.Fatalf("unexpected job id %q", jobID)
	}
	if captured.VideoName != "Case Study" || len(captured.Scenes) != 2 {
		t.Fatalf("unexpected storyboard payload: %+v", captured)
	}
	if captured.VideoWidth != 1080 || captured.VideoHeight != 1920 {
		t.Fatalf("unexpected dimensions: %+v", captured)
	}
	if !captured.Scenes[0].VoiceOver {
		t.Fatal("expected voiceover scenes")
	}
}

func TestCreateStoryboardRequiresScenes(t *testing.T) {
	client := NewClient(Config{ClientID: "id", ClientSecret: "secret"})
	if _, err := client.CreateStoryboard(context.Background(), "x", nil); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestAccessTokenCachedAcrossCalls(t *testing.T) {
	var tokenCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, tokenHandler(t, &tokenCalls))
	mux.HandleFunc(jobsPath+"/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"status": "in-progress"}})
	})

	client := testClient(t, mux)
	for i := 0; i < 3; i++ {
		if _, err := client.GetJob(context.Background(), "job-1"); err != nil {
			t.Fatalf("GetJob: %v", err)
		}
	}
	if got := atomic.LoadInt64(&tokenCalls); got != 1 {
		t.Fatalf("expected one token fetch, got %d", got)
	}
}

func TestAccessTokenMissingCredentials(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.GetJob(context.Background(), "job-1"); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestRenderReturnsJobID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, tokenHandler(t, nil))
	mux.HandleFunc(renderPath+"/sb-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"job_id": "render-9"}})
	})

	client := testClient(t, mux)
	jobID, err := client.Render(context.Background(), "sb-1")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if jobID != "render-9" {
		t.Fatalf("unexpected render job id %q", jobID)
	}
}

func TestGetJobCompleted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, tokenHandler(t, nil))
	mux.HandleFunc(jobsPath+"/render-9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
			"status":   "completed",
			"videoURL": "https://cdn.example.com/video.mp4",
		}})
	})

	client := testClient(t, mux)
	job, err := client.GetJob(context.Background(), "render-9")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job.Status != "completed" || job.VideoURL != "https://cdn.example.com/video.mp4" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestUpstreamErrorClassified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, tokenHandler(t, nil))
	mux.HandleFunc(storyboardPath, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	client := testClient(t, mux)
	_, err := client.CreateStoryboard(context.Background(), "x", []Scene{{Text: "a", VoiceOver: true}})
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestTransportErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Config{ClientID: "id", ClientSecret: "secret", BaseURL: server.URL})
	server.Close()

	_, err := client.GetJob(context.Background(), "job-1")
	if !errors.Is(err, services.ErrUpstreamTransport) {
		t.Fatalf("expected ErrUpstreamTransport, got %v", err)
	}
}
