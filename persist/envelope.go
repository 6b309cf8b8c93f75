package persist

import (
	"time"

	"github.com/taskpilot/client/domain"
)

// EnvelopeVersion is bumped whenever the envelope schema changes shape, so
// a future reader can migrate or discard old snapshots deliberately.
const EnvelopeVersion = 1

// Envelope is the versioned snapshot of whitelisted state written to durable
// storage on every change: the auth slice (user, token, authenticated) and
// the task list. Operation status and error slots are never persisted.
type Envelope struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"saved_at"`
	Auth    domain.Session `json:"auth"`
	Tasks   []domain.Task  `json:"tasks"`
}
