// Package pictory wraps the short-form scene video API. Generation runs in
// two upstream phases: a storyboard job is created from scene texts, then a
// render job produces the final video. Both phases are observed through the
// shared jobs endpoint.
package pictory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"storyforge/internal/services"
)

const (
	defaultBaseURL     = "https://api.pictory.ai"
	defaultHTTPTimeout = 60 * time.Second

	tokenPath      = "/pictoryapis/v1/oauth2/token"
	storyboardPath = "/pictoryapis/v1/video/storyboard"
	renderPath     = "/pictoryapis/v1/video/render"
	jobsPath       = "/pictoryapis/v1/jobs"

	// Tokens last an hour upstream; refresh well before that.
	tokenLifetime = 45 * time.Minute
)

// Config captures the settings required to render short-form videos.
type Config struct {
	ClientID       string
	ClientSecret   string
	UserID         string
	BaseURL        string
	TimeoutSeconds int
}

// Client talks to the short-form video API. Access tokens are fetched
// lazily and cached until they near expiry.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a short-form video client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			ClientID:       strings.TrimSpace(cfg.ClientID),
			ClientSecret:   strings.TrimSpace(cfg.ClientSecret),
			UserID:         strings.TrimSpace(cfg.UserID),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", services.Wrap(services.ErrInput, "pictory", "token", "client credentials required", nil)
	}

	body, err := c.roundTrip(ctx, "token", http.MethodPost, c.cfg.BaseURL+tokenPath, map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
	}, "")
	if err != nil {
		return "", err
	}
	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrParse, "pictory", "token", "decode response", err)
	}
	if decoded.AccessToken == "" {
		return "", services.Wrap(services.ErrUpstream, "pictory", "token", "no access token in response", nil)
	}
	c.token = decoded.AccessToken
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	return c.token, nil
}

// Scene is one storyboard scene with its narration text.
type Scene struct {
	Text      string `json:"text"`
	VoiceOver bool   `json:"voiceOver"`
}

type storyboardRequest struct {
	VideoName   string  `json:"videoName"`
	VideoWidth  int     `json:"videoWidth"`
	VideoHeight int     `json:"videoHeight"`
	Language    string  `json:"language"`
	Scenes      []Scene `json:"scenes"`
}

type jobRef struct {
	JobID string `json:"jobId"`
	Data  struct {
		JobID string `json:"job_id"`
	} `json:"data"`
}

func (r jobRef) id() string {
	if r.JobID != "" {
		return r.JobID
	}
	return r.Data.JobID
}

// CreateStoryboard submits scene texts and returns the storyboard job id.
func (c *Client) CreateStoryboard(ctx context.Context, videoName string, scenes []Scene) (string, error) {
	if len(scenes) == 0 {
		return "", services.Wrap(services.ErrInput, "pictory", "storyboard", "at least one scene required", nil)
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := storyboardRequest{
		VideoName:   videoName,
		VideoWidth:  1080,
		VideoHeight: 1920,
		Language:    "en",
		Scenes:      scenes,
	}
	body, err := c.roundTrip(ctx, "storyboard", http.MethodPost, c.cfg.BaseURL+storyboardPath, payload, token)
	if err != nil {
		return "", err
	}

	var decoded jobRef
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrParse, "pictory", "storyboard", "decode response", err)
	}
	if decoded.id() == "" {
		return "", services.Wrap(services.ErrUpstream, "pictory", "storyboard", "no job id in response", nil)
	}
	return decoded.id(), nil
}

// Render starts the final render for a completed storyboard and returns the
// render job id.
func (c *Client) Render(ctx context.Context, storyboardJobID string) (string, error) {
	if strings.TrimSpace(storyboardJobID) == "" {
		return "", services.Wrap(services.ErrInput, "pictory", "render", "storyboard job id required", nil)
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := c.roundTrip(ctx, "render", http.MethodPost, c.cfg.BaseURL+renderPath+"/"+storyboardJobID, nil, token)
	if err != nil {
		return "", err
	}

	var decoded jobRef
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrParse, "pictory", "render", "decode response", err)
	}
	if decoded.id() == "" {
		return "", services.Wrap(services.ErrUpstream, "pictory", "render", "no job id in response", nil)
	}
	return decoded.id(), nil
}

// Job is the upstream view of a storyboard or render job.
type Job struct {
	Status       string
	VideoURL     string
	ErrorMessage string
}

type jobResponse struct {
	Data struct {
		Status       string `json:"status"`
		VideoURL     string `json:"videoURL"`
		ErrorMessage string `json:"error_message"`
	} `json:"data"`
}

// GetJob fetches the current state of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return Job{}, services.Wrap(services.ErrInput, "pictory", "job", "job id required", nil)
	}
	token, err := c.accessToken(ctx)
	if err != nil {
		return Job{}, err
	}

	body, err := c.roundTrip(ctx, "job", http.MethodGet, c.cfg.BaseURL+jobsPath+"/"+jobID, nil, token)
	if err != nil {
		return Job{}, err
	}

	var decoded jobResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Job{}, services.Wrap(services.ErrParse, "pictory", "job", "decode response", err)
	}
	return Job{
		Status:       decoded.Data.Status,
		VideoURL:     decoded.Data.VideoURL,
		ErrorMessage: decoded.Data.ErrorMessage,
	}, nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, endpoint string, payload any, token string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstreamTransport, "pictory", op, "encode body", err)
		}
		reader = bytes.NewReader(encoded)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "pictory", op, "new request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", token)
		httpReq.Header.Set("X-Pictory-User-Id", c.cfg.UserID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "pictory", op, "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "pictory", op, "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrUpstream, "pictory", op,
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return body, nil
}
