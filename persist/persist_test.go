package persist

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskpilot/client/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEnvelope(title string) Envelope {
	return Envelope{
		Auth: domain.Session{
			Token:         "tok",
			User:          &domain.User{ID: "u1", Name: "Ada"},
			Authenticated: true,
		},
		Tasks: []domain.Task{
			{ID: "1", Title: title, Priority: domain.PriorityLow, Status: domain.StatusIncomplete},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if err := s.Save(sampleEnvelope("persisted")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	env, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if env == nil {
		t.Fatal("expected an envelope")
	}
	if env.Version != EnvelopeVersion {
		t.Fatalf("version = %d, want %d", env.Version, EnvelopeVersion)
	}
	if env.Auth.Token != "tok" || !env.Auth.Authenticated {
		t.Fatalf("auth slice lost: %+v", env.Auth)
	}
	if len(env.Tasks) != 1 || env.Tasks[0].Title != "persisted" {
		t.Fatalf("task slice lost: %+v", env.Tasks)
	}
}

func TestLoadWithoutSnapshotReturnsNil(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	env, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if env != nil {
		t.Fatalf("expected nil for empty store, got %+v", env)
	}
}

func TestLoadFallsBackToHistoryOnCorruption(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if err := s.Save(sampleEnvelope("recoverable")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	corruptCurrent(t, s)

	env, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if env == nil {
		t.Fatal("expected history fallback, got nil")
	}
	if len(env.Tasks) != 1 || env.Tasks[0].Title != "recoverable" {
		t.Fatalf("fallback returned wrong snapshot: %+v", env.Tasks)
	}
}

func TestLoadCorruptEverythingFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	corruptCurrent(t, s)
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHistory).Put(historyKey(time.Now()), []byte("also junk"))
	}); err != nil {
		t.Fatalf("failed to plant corrupt history: %v", err)
	}

	env, err := s.Load()
	if err != nil {
		t.Fatalf("corrupted snapshot must not fail startup: %v", err)
	}
	if env != nil {
		t.Fatalf("expected defaults (nil), got %+v", env)
	}
}

func TestPurgeRemovesEverything(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if err := s.Save(sampleEnvelope("doomed")); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Purge(); err != nil {
		t.Fatalf("Purge returned error: %v", err)
	}

	env, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if env != nil {
		t.Fatalf("snapshot survived purge: %+v", env)
	}
	if size, err := s.HistorySize(); err != nil || size != 0 {
		t.Fatalf("history survived purge: size=%d err=%v", size, err)
	}
}

func TestPruneHistoryKeepsRecentEntries(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	old := sampleEnvelope("old")
	old.SavedAt = time.Now().Add(-48 * time.Hour)
	if err := s.Save(old); err != nil {
		t.Fatalf("Save old: %v", err)
	}
	if err := s.Save(sampleEnvelope("fresh")); err != nil {
		t.Fatalf("Save fresh: %v", err)
	}

	if err := s.PruneHistory(time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("PruneHistory returned error: %v", err)
	}

	size, err := s.HistorySize()
	if err != nil {
		t.Fatalf("HistorySize returned error: %v", err)
	}
	if size != 1 {
		t.Fatalf("history size = %d, want 1", size)
	}
}

func corruptCurrent(t *testing.T, s *Store) {
	t.Helper()
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put(keyCurrent, []byte("{not json"))
	}); err != nil {
		t.Fatalf("failed to corrupt snapshot: %v", err)
	}
}
