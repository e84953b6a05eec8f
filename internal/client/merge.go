package client

import "github.com/phrazzld/tasktracker/internal/domain"

// Merge folds an update response over the local copy of a task. Fields the
// server returned win; fields it left out keep their local value.
func Merge(local domain.Task, server domain.TaskPatch) domain.Task {
	return server.ApplyTo(local)
}
