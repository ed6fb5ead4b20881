package services_test

import (
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEntityService(t *testing.T) *services.Entity {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(reg))

	return services.NewEntity(file.NewPersistence(t.TempDir()), reg)
}

func TestCreateEntity(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	entity, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-incident-standard",
		Title:       "Checkout latency",
		RequesterID: "user-2",
		Fields:      map[string]any{"priority": "high"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entity.ID)
	assert.Equal(t, "new", entity.Status, "incidents start in the template's initial status")
	assert.Equal(t, "high", entity.Fields["priority"])
	assert.False(t, entity.CreatedAt.IsZero())

	got, err := svc.GetEntity(t.Context(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkout latency", got.Title)
}

func TestCreateEntity_Invalid(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	_, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-ticket-simple",
		RequesterID: "user-2",
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))

	_, err = svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID: "template-ticket-simple",
		Title:      "No requester",
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))

	_, err = svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-unknown",
		Title:       "Orphan",
		RequesterID: "user-2",
	})
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestUpdateFields(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	entity, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-ticket-simple",
		Title:       "Printer on fire",
		RequesterID: "user-9",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFields(t.Context(), entity.ID, map[string]any{"priority": "low"})
	require.NoError(t, err)
	assert.Equal(t, "low", updated.Fields["priority"])
	assert.Equal(t, "open", updated.Status, "field updates never move the status")

	_, err = svc.UpdateFields(t.Context(), "ghost", map[string]any{"priority": "low"})
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestDeleteEntity(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	entity, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-ticket-simple",
		Title:       "Printer on fire",
		RequesterID: "user-9",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntity(t.Context(), entity.ID))

	_, err = svc.GetEntity(t.Context(), entity.ID)
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestComments(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	entity, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-ticket-simple",
		Title:       "Printer on fire",
		RequesterID: "user-9",
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(t.Context(), entity.ID, "user-9", "Any update?")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.False(t, comment.System)

	comments, err := svc.ListComments(t.Context(), entity.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Any update?", comments[0].Body)

	_, err = svc.AddComment(t.Context(), entity.ID, "user-9", "")
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))

	_, err = svc.ListComments(t.Context(), "ghost")
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	entity, err := svc.CreateEntity(t.Context(), services.CreateEntityRequest{
		TemplateID:  "template-request-standard",
		Title:       "New laptop",
		RequesterID: "user-9",
	})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(t.Context(), entity.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = svc.ListTasks(t.Context(), "ghost")
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	svc := setupEntityService(t)

	message, healthy := svc.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.NotEmpty(t, message)
}
