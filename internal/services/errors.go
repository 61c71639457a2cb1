package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInput marks a missing or empty required field (transcript, token,
	// case-study id). Surfaced to the caller immediately, never retried.
	ErrInput = errors.New("input error")
	// ErrNotFound marks an unknown token, case study, or narrative.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamTransport marks a network failure reaching an external
	// generation service.
	ErrUpstreamTransport = errors.New("upstream transport error")
	// ErrUpstream marks an external service that was reachable but returned a
	// failure or non-success status.
	ErrUpstream = errors.New("upstream error")
	// ErrParse marks a malformed structured response from an external service.
	ErrParse = errors.New("parse error")
	// ErrStateConflict marks a rejected request against existing state: a
	// non-failed artifact job for the channel, or a used invite token.
	ErrStateConflict = errors.New("state conflict")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a classified error to the status code the HTTP layer
// should answer with. Unclassified errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstreamTransport), errors.Is(err, ErrUpstream), errors.Is(err, ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller may usefully resubmit the operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrUpstreamTransport) || errors.Is(err, ErrUpstream)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
