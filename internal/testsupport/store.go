package testsupport

import (
	"context"
	"testing"

	"storyforge/internal/casestudy"
	"storyforge/internal/config"
)

// MustOpenStore opens a casestudy.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *casestudy.Store {
	t.Helper()

	store, err := casestudy.Open(cfg)
	if err != nil {
		t.Fatalf("casestudy.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewCaseStudy creates a case study with its provider interview for tests.
func NewCaseStudy(t testing.TB, store *casestudy.Store, userID, sessionID string) *casestudy.CaseStudy {
	t.Helper()

	cs, err := store.Create(context.Background(), userID, sessionID)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return cs
}
