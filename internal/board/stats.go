package board

import "github.com/nhle/kanban/internal/model"

// Stats summarizes the active (non-archived) board for the sidebar.
type Stats struct {
	Total      int
	Todo       int
	InProgress int
	Done       int

	// CompletionRate is the percentage of tasks in Done, 0 when the
	// board is empty.
	CompletionRate int

	// ByPriority counts tasks per priority tier.
	ByPriority map[string]int
}

// ComputeStats tallies status and priority counts over tasks.
func ComputeStats(tasks []model.Task) Stats {
	s := Stats{ByPriority: make(map[string]int)}

	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case model.StatusTodo:
			s.Todo++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusDone:
			s.Done++
		}
		s.ByPriority[t.Priority]++
	}

	if s.Total > 0 {
		s.CompletionRate = s.Done * 100 / s.Total
	}
	return s
}
