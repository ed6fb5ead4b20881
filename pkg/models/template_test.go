package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTemplate() *WorkflowTemplate {
	return &WorkflowTemplate{
		ID:          "template-test",
		Name:        "Test Template",
		Description: "A template for tests.",
		EntityType:  EntityTypeTicket,
		Config: WorkflowConfig{
			InitialStatus: "open",
			Statuses: []Status{
				{ID: "open", Name: "Open", Category: CategoryTodo},
				{ID: "done", Name: "Done", Category: CategoryDone},
			},
			Transitions: []Transition{
				{ID: "finish", Name: "Finish", FromStatus: "open", ToStatus: "done"},
			},
		},
	}
}

func TestValidateStructure(t *testing.T) {
	t.Parallel()

	require.NoError(t, validTemplate().ValidateStructure())
}

func TestValidateStructure_DuplicateStatus(t *testing.T) {
	t.Parallel()

	template := validTemplate()
	template.Config.Statuses = append(template.Config.Statuses,
		Status{ID: "open", Name: "Open Again", Category: CategoryTodo})

	err := template.ValidateStructure()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	var malformed *MalformedTemplateError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "template-test", malformed.TemplateID)
	assert.Contains(t, malformed.Reason, "duplicate status")
}

func TestValidateStructure_UnknownInitialStatus(t *testing.T) {
	t.Parallel()

	template := validTemplate()
	template.Config.InitialStatus = "nope"

	err := template.ValidateStructure()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTemplate)
}

func TestValidateStructure_DanglingTransitionEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("unknown from_status", func(t *testing.T) {
		t.Parallel()

		template := validTemplate()
		template.Config.Transitions[0].FromStatus = "limbo"

		err := template.ValidateStructure()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedTemplate)
	})

	t.Run("unknown to_status", func(t *testing.T) {
		t.Parallel()

		template := validTemplate()
		template.Config.Transitions[0].ToStatus = "limbo"

		err := template.ValidateStructure()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedTemplate)
	})
}

func TestStatusByID(t *testing.T) {
	t.Parallel()

	template := validTemplate()

	status, ok := template.StatusByID("open")
	require.True(t, ok)
	assert.Equal(t, CategoryTodo, status.Category)

	_, ok = template.StatusByID("nope")
	assert.False(t, ok)
}

func TestTransitionByID(t *testing.T) {
	t.Parallel()

	template := validTemplate()

	transition, ok := template.TransitionByID("finish")
	require.True(t, ok)
	assert.Equal(t, "done", transition.ToStatus)

	_, ok = template.TransitionByID("nope")
	assert.False(t, ok)
}
