package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketState   = []byte("state")
	bucketHistory = []byte("history")

	keyCurrent = []byte("current")
)

// Store persists state envelopes in a local BoltDB file. The current
// snapshot lives under a fixed key; every write also appends a timestamped
// copy to a history bucket so a corrupted current snapshot can be recovered
// from the most recent readable one.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures both buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketState); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Save writes the envelope through to disk: current key plus one history
// entry. The envelope's version and timestamp are stamped here.
func (s *Store) Save(env Envelope) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	env.Version = EnvelopeVersion
	if env.SavedAt.IsZero() {
		env.SavedAt = time.Now()
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketState).Put(keyCurrent, payload); err != nil {
			return err
		}
		return tx.Bucket(bucketHistory).Put(historyKey(env.SavedAt), payload)
	})
}

// Load restores the most recent envelope. A missing snapshot returns
// (nil, nil) so the caller starts from defaults. A corrupted or
// wrong-version current snapshot falls back to the newest parseable history
// entry; only storage-level failures are returned as errors.
func (s *Store) Load() (*Envelope, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var env *Envelope
	err := s.db.View(func(tx *bolt.Tx) error {
		if current := tx.Bucket(bucketState).Get(keyCurrent); current != nil {
			if parsed, ok := decode(current); ok {
				env = parsed
				return nil
			}
		}
		// Walk history newest-first for a readable snapshot.
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if parsed, ok := decode(v); ok {
				env = parsed
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

// Purge removes the current snapshot and all history, so nothing from a
// prior session can leak into the next one.
func (s *Store) Purge() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketState).Delete(keyCurrent); err != nil {
			return err
		}
		if err := tx.DeleteBucket(bucketHistory); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketHistory)
		return err
	})
}

// PruneHistory drops history entries saved before the given timestamp.
func (s *Store) PruneHistory(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var env Envelope
			if err := json.Unmarshal(v, &env); err != nil {
				// Unreadable entries are dead weight too.
				if err := c.Delete(); err != nil {
					return err
				}
				continue
			}
			if env.SavedAt.Before(olderThan) {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// HistorySize returns the number of retained history entries.
func (s *Store) HistorySize() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketHistory).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for the status command.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func decode(payload []byte) (*Envelope, bool) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, false
	}
	if env.Version != EnvelopeVersion {
		return nil, false
	}
	return &env, true
}

func historyKey(ts time.Time) []byte {
	return []byte(fmt.Sprintf("%020d", ts.UnixNano()))
}
