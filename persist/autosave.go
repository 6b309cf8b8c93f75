package persist

import (
	"time"

	"go.uber.org/zap"

	"github.com/taskpilot/client/store"
)

// Autosave subscribes to both stores and writes a fresh envelope through to
// durable storage on every state change. Writes are fire-and-forget: a
// failed write is logged, never surfaced, and the next change tries again.
type Autosave struct {
	target *Store
	auth   *store.AuthStore
	tasks  *store.TaskStore
	logger *zap.Logger
}

// NewAutosave wires the observer but does not attach it yet, so startup can
// hydrate the stores first without echoing the restore back to disk.
func NewAutosave(target *Store, auth *store.AuthStore, tasks *store.TaskStore, logger *zap.Logger) *Autosave {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autosave{
		target: target,
		auth:   auth,
		tasks:  tasks,
		logger: logger,
	}
}

// Attach starts snapshotting on every subsequent state change.
func (a *Autosave) Attach() {
	a.auth.Subscribe(a.snapshot)
	a.tasks.Subscribe(a.snapshot)
}

// Snapshot forces an immediate write of the current whitelisted state.
func (a *Autosave) Snapshot() error {
	return a.target.Save(Envelope{
		SavedAt: time.Now(),
		Auth:    a.auth.Session(),
		Tasks:   a.tasks.Tasks(),
	})
}

func (a *Autosave) snapshot() {
	if err := a.Snapshot(); err != nil {
		a.logger.Warn("state snapshot failed", zap.Error(err))
	}
}

// Restore loads the last envelope, if any, and hydrates both stores. It
// must run before Attach and before any operation is dispatched.
func Restore(source *Store, auth *store.AuthStore, tasks *store.TaskStore) error {
	env, err := source.Load()
	if err != nil {
		return err
	}
	if env == nil {
		return nil
	}
	auth.Hydrate(env.Auth)
	tasks.Hydrate(env.Tasks)
	return nil
}
