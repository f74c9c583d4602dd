package upload

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestCleanupExpiredRemovesOldFiles(t *testing.T) {
	store := newTestStore(t)

	old, err := store.Save(strings.NewReader("old"), "old.txt")
	if err != nil {
		t.Fatalf("save old: %v", err)
	}
	fresh, err := store.Save(strings.NewReader("fresh"), "fresh.txt")
	if err != nil {
		t.Fatalf("save fresh: %v", err)
	}

	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old.StoredPath, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := store.cleanupExpired(time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := os.Stat(old.StoredPath); !os.IsNotExist(err) {
		t.Fatalf("expired file not removed: %v", err)
	}
	if _, err := os.Stat(fresh.StoredPath); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
	if got := store.Resolve([]string{old.ID}); len(got) != 0 {
		t.Fatalf("expired id still resolvable: %#v", got)
	}
}

func TestStartCleanerDisabledTTL(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Save(strings.NewReader("keep"), "keep.txt")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	stale := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(stored.StoredPath, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	store.StartCleaner(t.Context(), 0, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, err := os.Stat(stored.StoredPath); err != nil {
		t.Fatalf("file removed despite disabled ttl: %v", err)
	}
}
