package domain

// TaskPatch is a partial task. A nil field means the key was absent, so the
// same type describes both partial update bodies and server responses that
// echo only some fields.
type TaskPatch struct {
	ID          *string   `json:"_id,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Progress    *string   `json:"progress,omitempty"`
}

// PatchFromTask returns a patch carrying every editable field of t.
// The ID is left out; it addresses the update rather than being part of it.
func PatchFromTask(t Task) TaskPatch {
	return TaskPatch{
		Title:       ptr(t.Title),
		Description: ptr(t.Description),
		Date:        ptr(t.Date),
		Priority:    ptr(t.Priority),
		Status:      ptr(t.Status),
		Progress:    ptr(t.Progress),
	}
}

// ApplyTo returns a copy of t with every field present in the patch
// overwritten. Absent fields keep their value from t.
func (p TaskPatch) ApplyTo(t Task) Task {
	if p.ID != nil {
		t.ID = *p.ID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	return t
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.ID == nil && p.Title == nil && p.Description == nil && p.Date == nil &&
		p.Priority == nil && p.Status == nil && p.Progress == nil
}

// Validate checks the fields that are present. Title may be omitted but not blanked.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		probe := NewDraft()
		probe.Title = *p.Title
		if err := probe.Validate(); err != nil {
			return err
		}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return NewValidationError("priority", "must be one of High, Medium, Low", ErrInvalidPriority)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return NewValidationError("status", "must be one of Pending, In Progress, Completed", ErrInvalidStatus)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
