package heygen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyforge/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		APIKey:   "key",
		BaseURL:  server.URL,
		AvatarID: "avatar-1",
		VoiceID:  "voice-1",
	}, WithHTTPClient(server.Client()))
	return client, server
}

func TestGenerateSubmitsScript(t *testing.T) {
	var captured generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != generatePath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"video_id": "vid-123"},
		})
	})

	videoID, err := client.Generate(context.Background(), "Case Study", "the narration script")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if videoID != "vid-123" {
		t.Fatalf("unexpected video id %q", videoID)
	}
	if len(captured.VideoInputs) != 1 {
		t.Fatalf("expected one video input, got %d", len(captured.VideoInputs))
	}
	input := captured.VideoInputs[0]
	if input.Character.AvatarID != "avatar-1" || input.Voice.VoiceID != "voice-1" {
		t.Fatalf("avatar/voice not wired: %+v", input)
	}
	if input.Voice.InputText != "the narration script" {
		t.Fatalf("script not wired: %q", input.Voice.InputText)
	}
	if input.Background.Value != "#f6f6fc" {
		t.Fatalf("default background missing: %q", input.Background.Value)
	}
}

func TestGenerateRequiresScript(t *testing.T) {
	client := NewClient(Config{APIKey: "key"})
	_, err := client.Generate(context.Background(), "t", "   ")
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestGenerateMissingVideoID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{}})
	})
	_, err := client.Generate(context.Background(), "t", "script")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateServerErrorClassified(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := client.Generate(context.Background(), "t", "script")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestGenerateTransportErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})
	server.Close()

	_, err := client.Generate(context.Background(), "t", "script")
	if !errors.Is(err, services.ErrUpstreamTransport) {
		t.Fatalf("expected ErrUpstreamTransport, got %v", err)
	}
}

func TestGetStatusCompleted(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("video_id") != "vid-123" {
			t.Errorf("missing video_id query")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"status":    "completed",
				"video_url": "https://cdn.example/vid.mp4",
			},
		})
	})

	status, err := client.GetStatus(context.Background(), "vid-123")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.State != "completed" || status.VideoURL != "https://cdn.example/vid.mp4" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestGetStatusNotFoundMeansProcessing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	status, err := client.GetStatus(context.Background(), "vid-123")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.State != "processing" {
		t.Fatalf("expected processing on 404, got %q", status.State)
	}
}

func TestGetStatusFailedCarriesError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"status": "failed",
				"error":  map[string]string{"message": "render error", "detail": "bad avatar"},
			},
		})
	})
	status, err := client.GetStatus(context.Background(), "vid-123")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.State != "failed" || status.Error == "" {
		t.Fatalf("expected failed with error detail, got %+v", status)
	}
}
