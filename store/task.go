package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskpilot/client/domain"
)

// TaskState is a point-in-time snapshot of the task store.
type TaskState struct {
	Tasks  []domain.Task
	Status OpStatus
	Err    string
}

// TaskStore owns the authoritative in-memory copy of the user's task set.
// Tasks are created, replaced and removed only in response to settled API
// operations. All four operations share one status flag and one error slot;
// the flag is a UX affordance, not a concurrency primitive — overlapping
// operations overwrite each other's terminal status. A delete racing an
// update of the same id settles in network order; there is no versioning to
// defend against that.
type TaskStore struct {
	api    TaskAPI
	logger *zap.Logger

	mu        sync.RWMutex
	tasks     []domain.Task
	status    OpStatus
	err       string
	listeners []Listener
}

// NewTaskStore builds an empty task store.
func NewTaskStore(api TaskAPI, logger *zap.Logger) *TaskStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskStore{
		api:    api,
		logger: logger,
		status: StatusIdle,
	}
}

// Subscribe registers a listener fired after every state change.
func (s *TaskStore) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns a snapshot of the store. The task slice is a copy; callers
// may not reach the store's backing array through it.
func (s *TaskStore) State() TaskState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TaskState{
		Tasks:  append([]domain.Task(nil), s.tasks...),
		Status: s.status,
		Err:    s.err,
	}
}

// Tasks returns a copy of the current task list in store order.
func (s *TaskStore) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Task(nil), s.tasks...)
}

// Hydrate installs a previously persisted task list. Used once at startup.
func (s *TaskStore) Hydrate(tasks []domain.Task) {
	s.mutate(func() {
		s.tasks = append([]domain.Task(nil), tasks...)
	})
}

// FetchAll replaces the entire list with the server's current set, in the
// order the server returned it. On failure the list is left as it was.
func (s *TaskStore) FetchAll(ctx context.Context, token string) error {
	s.begin()

	tasks, err := s.api.FetchTasks(ctx, token)
	if err != nil {
		s.reject(err)
		return err
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		s.tasks = tasks
	})
	return nil
}

// Create validates the draft, sends it, and appends the server's canonical
// task to the end of the list. Validation failures surface to the caller
// without touching the store's status or error slot.
func (s *TaskStore) Create(ctx context.Context, draft domain.TaskDraft, token string) (*domain.Task, error) {
	if err := draft.Validate(time.Now()); err != nil {
		return nil, err
	}

	s.begin()

	created, err := s.api.CreateTask(ctx, draft, token)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		s.tasks = append(s.tasks, *created)
	})
	return created, nil
}

// Update sends a full field replacement for the given id and, on success,
// swaps the task in place so its position in the list is preserved. If the
// id is absent locally the settlement is dropped; that is logged rather
// than silently ignored.
func (s *TaskStore) Update(ctx context.Context, id string, draft domain.TaskDraft, token string) (*domain.Task, error) {
	if err := draft.Validate(time.Now()); err != nil {
		return nil, err
	}

	s.begin()

	updated, err := s.api.UpdateTask(ctx, id, draft, token)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		replaced := false
		for i := range s.tasks {
			if s.tasks[i].ID == updated.ID {
				s.tasks[i] = *updated
				replaced = true
				break
			}
		}
		if !replaced {
			s.logger.Warn("update settled for a task missing locally", zap.String("task_id", updated.ID))
		}
	})
	return updated, nil
}

// Delete removes the task with the given id. Deleting an id that is already
// absent is a no-op, so the operation is idempotent.
func (s *TaskStore) Delete(ctx context.Context, id string, token string) error {
	s.begin()

	if err := s.api.DeleteTask(ctx, id, token); err != nil {
		s.reject(err)
		return err
	}

	s.mutate(func() {
		s.status = StatusFulfilled
		for i := range s.tasks {
			if s.tasks[i].ID == id {
				s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (s *TaskStore) begin() {
	s.mutate(func() {
		s.status = StatusPending
		s.err = ""
	})
}

func (s *TaskStore) reject(err error) {
	s.mutate(func() {
		s.status = StatusRejected
		s.err = err.Error()
	})
}

// mutate applies fn under the lock, then fires listeners outside it.
func (s *TaskStore) mutate(fn func()) {
	s.mu.Lock()
	fn()
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}
