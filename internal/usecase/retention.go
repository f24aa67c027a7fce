package usecase

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// sweepOldAudio deletes narrations and episodes older than the retention
// window. Dedup depends on artifact files, so the window also bounds how
// far back "already narrated" reaches.
func sweepOldAudio(audioDir string, retention time.Duration, now time.Time, logger *slog.Logger) {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		logger.Warn("retention sweep skipped", slog.Any("error", err))
		return
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(audioDir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("cannot remove expired audio", slog.String("path", path), slog.Any("error", err))
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("expired audio removed", slog.Int("files", removed))
	}
}
