// Package logging assembles the structured slog loggers used across
// Storyforge: a human-readable console handler, a JSON handler, stdout plus
// log-file fan-out from configuration, and a no-op logger for tests.
package logging
