package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/phrazzld/tasktracker/internal/domain"
)

const barCells = 10

func renderTasks(w io.Writer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tDATE\tPRIORITY\tSTATUS\tPROGRESS")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s %s\n",
			t.ID,
			t.Title,
			domain.FormatDate(t.Date),
			t.Priority,
			t.Status,
			progressBar(t.Progress),
			t.Progress)
	}
	return tw.Flush()
}

// progressBar draws the progress as ten cells; non-numeric values are empty.
func progressBar(progress string) string {
	filled := domain.ProgressBarWidth(progress) * barCells / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barCells-filled) + "]"
}
