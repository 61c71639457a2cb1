// Package autocontent wraps the podcast generation API. Unlike the video
// services it reports completion through finished/error booleans instead of
// a status string; callers normalize that into the common job vocabulary.
package autocontent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storyforge/internal/services"
)

const (
	defaultBaseURL     = "https://api.autocontentapi.com"
	defaultHTTPTimeout = 60 * time.Second

	createPath = "/content/Create"
	statusPath = "/content/Status/"
)

// Config captures the settings required to generate podcast episodes.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client talks to the podcast generation API.
type Client struct {
	cfg        Config
	httpClient *http.Client
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

// NewClient constructs a podcast client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
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

type submitRequest struct {
	Resources  []resource `json:"resources"`
	Text       string     `json:"text"`
	OutputType string     `json:"outputType"`
}

type resource struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Submit sends an episode brief for rendering and returns the external
// request id used for subsequent status polls.
func (c *Client) Submit(ctx context.Context, brief string) (string, error) {
	if strings.TrimSpace(brief) == "" {
		return "", services.Wrap(services.ErrInput, "autocontent", "submit", "episode brief required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrInput, "autocontent", "submit", "API key required", nil)
	}

	payload := submitRequest{
		Resources:  []resource{{Content: brief, Type: "text"}},
		Text:       brief,
		OutputType: "audio",
	}
	body, err := c.roundTrip(ctx, "submit", http.MethodPost, c.cfg.BaseURL+createPath, payload)
	if err != nil {
		return "", err
	}

	var decoded struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrParse, "autocontent", "submit", "decode response", err)
	}
	if decoded.RequestID == "" {
		return "", services.Wrap(services.ErrUpstream, "autocontent", "submit", "no request id in response", nil)
	}
	return decoded.RequestID, nil
}

// Job is the upstream view of a podcast request. Finished and Error are the
// signal booleans; AudioURL is set once rendering completes.
type Job struct {
	Finished     bool
	Error        bool
	ErrorMessage string
	AudioURL     string
	Script       string
}

type jobResponse struct {
	Finished     bool   `json:"finished"`
	Error        bool   `json:"error"`
	ErrorMessage string `json:"error_message"`
	AudioURL     string `json:"audio_url"`
	Script       string `json:"script"`
}

// GetJob fetches the current state of a podcast request.
func (c *Client) GetJob(ctx context.Context, requestID string) (Job, error) {
	if strings.TrimSpace(requestID) == "" {
		return Job{}, services.Wrap(services.ErrInput, "autocontent", "job", "request id required", nil)
	}
	if c.cfg.APIKey == "" {
		return Job{}, services.Wrap(services.ErrInput, "autocontent", "job", "API key required", nil)
	}

	body, err := c.roundTrip(ctx, "job", http.MethodGet, c.cfg.BaseURL+statusPath+requestID, nil)
	if err != nil {
		return Job{}, err
	}

	var decoded jobResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Job{}, services.Wrap(services.ErrParse, "autocontent", "job", "decode response", err)
	}
	return Job{
		Finished:     decoded.Finished,
		Error:        decoded.Error,
		ErrorMessage: decoded.ErrorMessage,
		AudioURL:     decoded.AudioURL,
		Script:       decoded.Script,
	}, nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, endpoint string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstreamTransport, "autocontent", op, "encode body", err)
		}
		reader = bytes.NewReader(encoded)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "autocontent", op, "new request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "autocontent", op, "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "autocontent", op, "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrUpstream, "autocontent", op,
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return body, nil
}
