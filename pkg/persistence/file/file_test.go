package file

import (
	"testing"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPersistence(t *testing.T) persistence.Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func testEntity(id string) *models.Entity {
	return &models.Entity{
		ID:          id,
		TemplateID:  "template-ticket-simple",
		Status:      "open",
		Title:       "Printer on fire",
		RequesterID: "user-9",
		Fields:      map[string]any{"priority": "high"},
	}
}

func TestEntityRepository_CRUD(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).EntityRepository()

	entity := testEntity("entity-1")
	require.NoError(t, repo.Create(t.Context(), entity))

	err := repo.Create(t.Context(), testEntity("entity-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrEntityAlreadyExists)

	got, err := repo.GetByID(t.Context(), "entity-1")
	require.NoError(t, err)
	assert.Equal(t, "Printer on fire", got.Title)
	assert.Equal(t, "high", got.Fields["priority"])

	got.Title = "Printer extinguished"
	require.NoError(t, repo.Update(t.Context(), got))

	updated, err := repo.GetByID(t.Context(), "entity-1")
	require.NoError(t, err)
	assert.Equal(t, "Printer extinguished", updated.Title)
	assert.False(t, updated.UpdatedAt.IsZero())

	require.NoError(t, repo.Delete(t.Context(), "entity-1"))

	_, err = repo.GetByID(t.Context(), "entity-1")
	assert.True(t, persistence.IsEntityNotFound(err))
}

func TestEntityRepository_List(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).EntityRepository()

	entities, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, entities, "listing an empty store is not an error")

	require.NoError(t, repo.Create(t.Context(), testEntity("entity-b")))
	require.NoError(t, repo.Create(t.Context(), testEntity("entity-a")))

	entities, err = repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "entity-a", entities[0].ID)
	assert.Equal(t, "entity-b", entities[1].ID)
}

func TestEntityRepository_CommitTransition(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).EntityRepository()

	entity := testEntity("entity-1")
	entity.Status = "in_progress"
	require.NoError(t, repo.Create(t.Context(), entity))

	committed, err := repo.CommitTransition(t.Context(), "entity-1", "in_progress", "resolved",
		map[string]any{"resolution": "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "resolved", committed.Status)
	assert.Equal(t, "fixed", committed.Fields["resolution"])

	stored, err := repo.GetByID(t.Context(), "entity-1")
	require.NoError(t, err)
	assert.Equal(t, "resolved", stored.Status)
	assert.Equal(t, "fixed", stored.Fields["resolution"])
}

func TestEntityRepository_CommitTransitionStale(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).EntityRepository()

	entity := testEntity("entity-1")
	entity.Status = "in_progress"
	require.NoError(t, repo.Create(t.Context(), entity))

	// Someone else already moved the entity.
	_, err := repo.CommitTransition(t.Context(), "entity-1", "in_progress", "on_hold", nil)
	require.NoError(t, err)

	_, err = repo.CommitTransition(t.Context(), "entity-1", "in_progress", "resolved", nil)
	require.Error(t, err)
	assert.True(t, persistence.IsStaleEntityStatus(err))

	stored, err := repo.GetByID(t.Context(), "entity-1")
	require.NoError(t, err)
	assert.Equal(t, "on_hold", stored.Status, "the losing commit must not write anything")
}

func TestEntityRepository_CommitTransitionMissingEntity(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).EntityRepository()

	_, err := repo.CommitTransition(t.Context(), "ghost", "open", "closed", nil)
	require.Error(t, err)
	assert.True(t, persistence.IsEntityNotFound(err))
}

func TestCommentRepository(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).CommentRepository()

	comments, err := repo.ListByEntity(t.Context(), "entity-1")
	require.NoError(t, err)
	assert.Empty(t, comments)

	require.NoError(t, repo.Create(t.Context(), &models.Comment{
		ID:       "comment-1",
		EntityID: "entity-1",
		AuthorID: "agent-1",
		Body:     "Work started.",
		System:   true,
	}))
	require.NoError(t, repo.Create(t.Context(), &models.Comment{
		ID:       "comment-2",
		EntityID: "entity-1",
		AuthorID: "user-9",
		Body:     "Thanks!",
	}))

	comments, err = repo.ListByEntity(t.Context(), "entity-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Work started.", comments[0].Body)
	assert.True(t, comments[0].System)
	assert.Equal(t, "Thanks!", comments[1].Body)

	other, err := repo.ListByEntity(t.Context(), "entity-2")
	require.NoError(t, err)
	assert.Empty(t, other, "comments are scoped per entity")
}

func TestTaskRepository(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).TaskRepository()

	require.NoError(t, repo.Create(t.Context(), &models.Task{
		ID:       "task-1",
		EntityID: "entity-1",
		Title:    "Provision requested item",
	}))
	require.NoError(t, repo.Create(t.Context(), &models.Task{
		ID:       "task-2",
		EntityID: "entity-1",
		Title:    "Verify with requester",
	}))

	tasks, err := repo.ListByEntity(t.Context(), "entity-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Provision requested item", tasks[0].Title)
	assert.False(t, tasks[0].Done)
}

func TestTemplateRepository(t *testing.T) {
	t.Parallel()

	repo := setupPersistence(t).TemplateRepository()

	_, err := repo.GetByID(t.Context(), "template-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrTemplateNotFound)

	template := &models.WorkflowTemplate{
		ID:          "template-custom",
		Name:        "Custom",
		Description: "Saved through the API.",
		EntityType:  models.EntityTypeTicket,
		Config: models.WorkflowConfig{
			InitialStatus: "open",
			Statuses: []models.Status{
				{ID: "open", Name: "Open", Category: models.CategoryTodo},
			},
		},
	}
	require.NoError(t, repo.Save(t.Context(), template))

	got, err := repo.GetByID(t.Context(), "template-custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", got.Name)

	all, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	p := setupPersistence(t)
	require.NoError(t, p.HealthCheck(t.Context()))
	require.NoError(t, p.Close(t.Context()))

	missing := NewPersistence("/nonexistent/flowdeck-test-root")
	assert.Error(t, missing.HealthCheck(t.Context()))
}
