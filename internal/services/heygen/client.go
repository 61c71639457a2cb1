// Package heygen wraps the avatar video generation API. Submission returns
// an upstream video id; completion is observed by polling the status
// endpoint until a playable URL appears.
package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storyforge/internal/services"
)

const (
	defaultBaseURL     = "https://api.heygen.com"
	defaultHTTPTimeout = 60 * time.Second

	generatePath = "/v2/video/generate"
	statusPath   = "/v1/video_status.get"
)

// Config captures the settings required to render avatar videos.
type Config struct {
	APIKey          string
	BaseURL         string
	AvatarID        string
	VoiceID         string
	BackgroundColor string
	TimeoutSeconds  int
}

// Client talks to the avatar video API.
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

// NewClient constructs an avatar video client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:          strings.TrimSpace(cfg.APIKey),
			BaseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			AvatarID:        strings.TrimSpace(cfg.AvatarID),
			VoiceID:         strings.TrimSpace(cfg.VoiceID),
			BackgroundColor: strings.TrimSpace(cfg.BackgroundColor),
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.BackgroundColor == "" {
		client.cfg.BackgroundColor = "#f6f6fc"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

type generateRequest struct {
	Title       string       `json:"title,omitempty"`
	VideoInputs []videoInput `json:"video_inputs"`
	Dimension   dimension    `json:"dimension"`
}

type videoInput struct {
	Character  character  `json:"character"`
	Voice      voice      `json:"voice"`
	Background background `json:"background"`
}

type character struct {
	Type        string  `json:"type"`
	AvatarID    string  `json:"avatar_id"`
	AvatarStyle string  `json:"avatar_style"`
	Scale       float64 `json:"scale"`
}

type voice struct {
	Type      string  `json:"type"`
	VoiceID   string  `json:"voice_id"`
	InputText string  `json:"input_text"`
	Speed     float64 `json:"speed"`
	Pitch     int     `json:"pitch"`
}

type background struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate submits a narration script and returns the upstream video id.
func (c *Client) Generate(ctx context.Context, title, script string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", services.Wrap(services.ErrInput, "heygen", "generate", "script required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrInput, "heygen", "generate", "api key required", nil)
	}

	payload := generateRequest{
		Title: title,
		VideoInputs: []videoInput{{
			Character: character{
				Type:        "avatar",
				AvatarID:    c.cfg.AvatarID,
				AvatarStyle: "normal",
				Scale:       1.0,
			},
			Voice: voice{
				Type:      "text",
				VoiceID:   c.cfg.VoiceID,
				InputText: script,
				Speed:     1.0,
			},
			Background: background{
				Type:  "color",
				Value: c.cfg.BackgroundColor,
			},
		}},
		Dimension: dimension{Width: 1280, Height: 720},
	}

	body, err := c.post(ctx, "generate", c.cfg.BaseURL+generatePath, payload)
	if err != nil {
		return "", err
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrParse, "heygen", "generate", "decode response", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", services.Wrap(services.ErrUpstream, "heygen", "generate",
			"api error: "+decoded.Error.Message, nil)
	}
	if decoded.Data.VideoID == "" {
		return "", services.Wrap(services.ErrUpstream, "heygen", "generate", "no video id in response", nil)
	}
	return decoded.Data.VideoID, nil
}

// Status is the upstream view of a rendering video.
type Status struct {
	State    string
	VideoURL string
	Error    string
}

type statusResponse struct {
	Data struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
		Error    *struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"error"`
	} `json:"data"`
}

// GetStatus polls a submitted video. A 404 means the job is not visible yet
// and reports as still processing rather than an error.
func (c *Client) GetStatus(ctx context.Context, videoID string) (Status, error) {
	if strings.TrimSpace(videoID) == "" {
		return Status{}, services.Wrap(services.ErrInput, "heygen", "status", "video id required", nil)
	}

	endpoint := c.cfg.BaseURL + statusPath + "?video_id=" + url.QueryEscape(videoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Status{}, services.Wrap(services.ErrUpstreamTransport, "heygen", "status", "new request", err)
	}
	httpReq.Header.Set("X-Api-Key", c.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Status{}, services.Wrap(services.ErrUpstreamTransport, "heygen", "status", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Status{}, services.Wrap(services.ErrUpstreamTransport, "heygen", "status", "read body", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Status{State: "processing"}, nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return Status{}, services.Wrap(services.ErrUpstream, "heygen", "status",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var decoded statusResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Status{}, services.Wrap(services.ErrParse, "heygen", "status", "decode response", err)
	}
	status := Status{
		State:    decoded.Data.Status,
		VideoURL: decoded.Data.VideoURL,
	}
	if decoded.Data.Error != nil {
		status.Error = strings.TrimSpace(strings.Join(nonEmpty(
			decoded.Data.Error.Message, decoded.Data.Error.Detail), ": "))
	}
	return status, nil
}

func (c *Client) post(ctx context.Context, op, endpoint string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "heygen", op, "encode body", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "heygen", op, "new request", err)
	}
	httpReq.Header.Set("X-Api-Key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "heygen", op, "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamTransport, "heygen", op, "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrUpstream, "heygen", op,
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return body, nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
