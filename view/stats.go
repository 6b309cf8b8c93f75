package view

import "github.com/taskpilot/client/domain"

// Summary holds the headline counters shown above the task list.
type Summary struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int
}

// Summarize computes the counters over the unfiltered collection.
// HighPriority counts only tasks that are both high priority and still open.
func Summarize(tasks []domain.Task) Summary {
	var s Summary
	s.Total = len(tasks)
	for _, task := range tasks {
		switch task.Status {
		case domain.StatusComplete:
			s.Completed++
		case domain.StatusIncomplete:
			s.Pending++
		}
		if task.Priority == domain.PriorityHigh && task.Status == domain.StatusIncomplete {
			s.HighPriority++
		}
	}
	return s
}
