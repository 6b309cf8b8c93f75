package view

import (
	"strings"
	"time"

	"github.com/taskpilot/client/domain"
)

// Default page sizes per presentation mode. The denser grid fits nine cards;
// the tabular mode shows ten rows.
const (
	PageSizeGrid = 9
	PageSizeList = 10
)

// Filter is the value consumed by Apply. Zero fields are inactive; DueDate
// matches on calendar day only, Search is a case-insensitive substring match
// over title and description.
type Filter struct {
	Priority domain.Priority
	DueDate  *time.Time
	Status   domain.Status
	Search   string
}

// Active reports whether any constraint is set.
func (f Filter) Active() bool {
	return f.Priority != "" || f.DueDate != nil || f.Status != "" || f.Search != ""
}

// Apply returns the tasks matching every active constraint, preserving the
// input order. The input slice is never mutated; the result is always a
// subset of it.
func Apply(tasks []domain.Task, f Filter) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	needle := strings.ToLower(f.Search)
	for _, task := range tasks {
		if f.Priority != "" && task.Priority != f.Priority {
			continue
		}
		if f.Status != "" && task.Status != f.Status {
			continue
		}
		if f.DueDate != nil {
			if task.DueDate == nil || !domain.DayOf(*task.DueDate).Equal(domain.DayOf(*f.DueDate)) {
				continue
			}
		}
		if needle != "" && !matchesSearch(task, needle) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func matchesSearch(task domain.Task, needle string) bool {
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

// Paginate returns the page at the given zero-based index. An out-of-range
// page yields an empty slice; page index is not reset here when the filter
// changes, that remains the caller's job.
func Paginate(tasks []domain.Task, page, size int) []domain.Task {
	if size < 1 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(tasks) {
		return []domain.Task{}
	}
	end := start + size
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end]
}

// PageCount returns how many pages the sequence splits into.
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
