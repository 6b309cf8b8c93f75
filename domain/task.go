package domain

import (
	"strings"
	"time"
)

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status classifies task completion.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	return s == StatusIncomplete || s == StatusComplete
}

// Task represents a user-owned activity item. The ID is assigned by the
// server and never changes locally.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusComplete
}

// TaskDraft carries the user-editable fields sent on create and update.
// Status is only honoured on update; the server assigns it on create.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status,omitempty"`
}

// Validate checks the draft before it ever reaches the network: the title
// must be non-empty and the due date, when set, must not be earlier than
// today (day granularity).
func (d TaskDraft) Validate(now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if !d.Priority.Valid() {
		return WrapError(ErrCodeInvalid, "unknown priority", nil)
	}
	if d.DueDate != nil && DayOf(*d.DueDate).Before(DayOf(now)) {
		return ErrDueDatePast
	}
	return nil
}

// DayOf truncates a timestamp to its calendar day in local time.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
