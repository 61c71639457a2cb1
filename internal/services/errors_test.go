package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"storyforge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUpstream, "merge", "generate", "completion failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"merge", "generate", "completion failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToUpstream(t *testing.T) {
	err := services.Wrap(nil, "social", "submit", "", nil)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream marker, got %v", err)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrInput, "api", "merge", "missing case study id", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrNotFound, "api", "invite", "unknown token", nil), http.StatusNotFound},
		{services.Wrap(services.ErrStateConflict, "artifacts", "submit", "already generated", nil), http.StatusConflict},
		{services.Wrap(services.ErrUpstreamTransport, "heygen", "submit", "dial", errors.New("refused")), http.StatusBadGateway},
		{services.Wrap(services.ErrParse, "entities", "decode", "bad json", nil), http.StatusBadGateway},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := services.HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !services.Retryable(services.Wrap(services.ErrUpstreamTransport, "pictory", "render", "", errors.New("timeout"))) {
		t.Error("transport errors should be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrStateConflict, "artifacts", "submit", "", nil)) {
		t.Error("state conflicts must not be retryable")
	}
}
