package upload

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

const DefaultCleanupInterval = time.Hour

// StartCleaner periodically removes scratch files older than ttl. A zero or
// negative ttl disables cleanup entirely; uploads then live until the host
// reclaims the scratch directory.
func (s *Store) StartCleaner(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	go s.cleanupLoop(ctx, ttl, interval)
}

func (s *Store) cleanupLoop(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.cleanupExpired(ttl); err != nil {
				s.logger.Warn("cleanup expired uploads", "error", err)
			}
		}
	}
}

func (s *Store) cleanupExpired(ttl time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, entry.Name())
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("remove expired upload", "path", path, "error", err)
			}
		}
	}
	return nil
}
