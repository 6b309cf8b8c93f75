package transport

import (
	"time"

	"github.com/taskpilot/client/domain"
)

// TaskPayload mirrors a task object on the wire. Due dates travel as
// RFC 3339 strings; only the calendar day carries meaning.
type TaskPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// ToDomain converts the wire shape into a domain task. An unparseable due
// date is treated as absent rather than failing the whole payload.
func (p TaskPayload) ToDomain() domain.Task {
	var due *time.Time
	if p.DueDate != "" {
		if parsed, err := parseDate(p.DueDate); err == nil {
			due = &parsed
		}
	}
	return domain.Task{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		DueDate:     due,
		Priority:    domain.Priority(p.Priority),
		Status:      domain.Status(p.Status),
	}
}

// FormatDate renders a due date the way the server expects it.
func FormatDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// SignupResponse is the body of a successful signup: the created profile.
type SignupResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// TaskListResponse wraps GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskPayload `json:"tasks"`
}

// TaskResponse wraps the create and update endpoints.
type TaskResponse struct {
	Task TaskPayload `json:"task"`
}
