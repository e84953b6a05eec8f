package client

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// PriorityFilter selects tasks by priority. PriorityAll matches every task.
type PriorityFilter string

// PriorityAll disables priority filtering.
const PriorityAll PriorityFilter = "All"

// PriorityFilters lists the selectable filters in display order.
var PriorityFilters = []PriorityFilter{
	PriorityAll,
	PriorityFilter(domain.PriorityHigh),
	PriorityFilter(domain.PriorityMedium),
	PriorityFilter(domain.PriorityLow),
}

// ParsePriorityFilter accepts All, High, Medium or Low. Matching is exact.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	if PriorityFilter(s) == PriorityAll {
		return PriorityAll, nil
	}
	p, err := domain.ParsePriority(s)
	if err != nil {
		return "", fmt.Errorf("unknown priority filter %q: %w", s, err)
	}
	return PriorityFilter(p), nil
}

// Matches reports whether a task with priority p passes the filter.
func (f PriorityFilter) Matches(p domain.Priority) bool {
	return f == PriorityAll || f == "" || domain.Priority(f) == p
}

// Filter returns the tasks whose title contains searchText, ignoring case,
// and whose priority passes the filter. Order is preserved and tasks is not
// modified. An empty searchText matches every title.
func Filter(tasks []domain.Task, searchText string, priority PriorityFilter) []domain.Task {
	needle := strings.ToLower(searchText)
	visible := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !priority.Matches(t.Priority) {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		visible = append(visible, t)
	}
	return visible
}
