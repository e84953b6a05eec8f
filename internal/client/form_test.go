package client_test

import (
	"testing"

	"github.com/phrazzld/tasktracker/internal/client"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_StartsInCreateMode(t *testing.T) {
	f := client.NewForm()

	assert.Equal(t, client.ModeCreate, f.Mode())
	_, editing := f.EditingID()
	assert.False(t, editing)
	assert.Equal(t, domain.NewDraft(), f.Draft())
}

func TestForm_SetField(t *testing.T) {
	f := client.NewForm()

	require.NoError(t, f.SetField(client.FieldTitle, "Buy milk"))
	require.NoError(t, f.SetField(client.FieldDescription, "2 litres"))
	require.NoError(t, f.SetField(client.FieldDate, "2024-03-05"))
	require.NoError(t, f.SetField(client.FieldPriority, "Low"))
	require.NoError(t, f.SetField(client.FieldStatus, "In Progress"))
	require.NoError(t, f.SetField(client.FieldProgress, "abc"))

	assert.Equal(t, domain.Task{
		Title:       "Buy milk",
		Description: "2 litres",
		Date:        "2024-03-05",
		Priority:    domain.PriorityLow,
		Status:      domain.StatusInProgress,
		Progress:    "abc",
	}, f.Draft())
}

func TestForm_SetFieldRejects(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr error
	}{
		{"unknown field", "owner", "me", domain.ErrValidation},
		{"id is not editable", "_id", "1", domain.ErrValidation},
		{"free-text priority", client.FieldPriority, "Urgent", domain.ErrInvalidPriority},
		{"lower-case status", client.FieldStatus, "pending", domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := client.NewForm()
			before := f.Draft()

			err := f.SetField(tt.field, tt.value)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.Draft())
		})
	}
}

func TestForm_LoadAndReset(t *testing.T) {
	f := client.NewForm()
	task := domain.Task{ID: "1", Title: "A", Priority: domain.PriorityHigh, Status: domain.StatusCompleted, Progress: "100%"}

	f.Load(task)

	assert.Equal(t, client.ModeEdit, f.Mode())
	id, editing := f.EditingID()
	assert.True(t, editing)
	assert.Equal(t, "1", id)
	assert.Equal(t, "A", f.Draft().Title)
	assert.Empty(t, f.Draft().ID)

	f.Reset()

	assert.Equal(t, client.ModeCreate, f.Mode())
	assert.Equal(t, domain.NewDraft(), f.Draft())
}

func TestForm_Validate(t *testing.T) {
	f := client.NewForm()
	assert.ErrorIs(t, f.Validate(), domain.ErrEmptyTaskTitle)

	require.NoError(t, f.SetField(client.FieldTitle, "   "))
	assert.ErrorIs(t, f.Validate(), domain.ErrEmptyTaskTitle)

	require.NoError(t, f.SetField(client.FieldTitle, "Write report"))
	assert.NoError(t, f.Validate())
}
