package client

import (
	"fmt"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// Mode is the state of the task form.
type Mode int

const (
	// ModeCreate submits the draft as a new task.
	ModeCreate Mode = iota
	// ModeEdit submits the draft as an update of the task being edited.
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Form field names accepted by SetField.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldProgress    = "progress"
)

// Form is the task editing form: a draft plus the id of the task being
// edited, if any. The zero value is not ready for use; call NewForm.
type Form struct {
	draft     domain.Task
	editingID string
}

// NewForm returns a form in create mode holding the default draft.
func NewForm() Form {
	return Form{draft: domain.NewDraft()}
}

// Mode reports whether the form creates or edits.
func (f Form) Mode() Mode {
	if f.editingID != "" {
		return ModeEdit
	}
	return ModeCreate
}

// EditingID returns the id of the task being edited.
func (f Form) EditingID() (string, bool) {
	return f.editingID, f.editingID != ""
}

// Draft returns the current field values.
func (f Form) Draft() domain.Task {
	return f.draft
}

// SetField changes one draft field. Priority and status must be one of their
// enumerated values; unknown field names are rejected.
func (f *Form) SetField(name, value string) error {
	switch name {
	case FieldTitle:
		f.draft.Title = value
	case FieldDescription:
		f.draft.Description = value
	case FieldDate:
		f.draft.Date = value
	case FieldProgress:
		f.draft.Progress = value
	case FieldPriority:
		p, err := domain.ParsePriority(value)
		if err != nil {
			return domain.NewValidationError(FieldPriority, "must be one of High, Medium, Low", err)
		}
		f.draft.Priority = p
	case FieldStatus:
		s, err := domain.ParseStatus(value)
		if err != nil {
			return domain.NewValidationError(FieldStatus, "must be one of Pending, In Progress, Completed", err)
		}
		f.draft.Status = s
	default:
		return domain.NewValidationError(name, "is not a task field", domain.ErrValidation)
	}
	return nil
}

// Load switches to edit mode for task and copies its fields into the draft.
func (f *Form) Load(task domain.Task) {
	f.editingID = task.ID
	task.ID = ""
	f.draft = task
}

// Reset returns to create mode with the default draft.
func (f *Form) Reset() {
	*f = NewForm()
}

// Validate checks the draft can be submitted.
func (f Form) Validate() error {
	return f.draft.Validate()
}
