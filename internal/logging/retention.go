package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOldLogs removes service log files in dir older than retentionDays.
// The active log file is never touched. A retentionDays of 0 disables
// pruning.
func CleanupOldLogs(logger *slog.Logger, dir string, retentionDays int) {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == LogFileName {
			continue
		}
		if matched, err := filepath.Match("storyforge*.log", entry.Name()); err != nil || !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			if logger != nil {
				logger.Warn("log retention remove failed", slog.String("path", path), slog.String("error", err.Error()))
			}
			continue
		}
		if logger != nil {
			logger.Info("log pruned", slog.String("path", path))
		}
	}
}
