package services_test

import (
	"log/slog"
	"testing"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence/file"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTemplateService(t *testing.T) (*services.Template, *registry.Registry) {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(reg))

	return services.NewTemplate(reg, file.NewPersistence(t.TempDir())), reg
}

func customTemplate() *models.WorkflowTemplate {
	return &models.WorkflowTemplate{
		ID:          "template-custom",
		Name:        "Custom Flow",
		Description: "Saved through the API.",
		EntityType:  models.EntityTypeAsset,
		Config: models.WorkflowConfig{
			InitialStatus: "registered",
			Statuses: []models.Status{
				{ID: "registered", Name: "Registered", Category: models.CategoryTodo},
				{ID: "retired", Name: "Retired", Category: models.CategoryDone},
			},
			Transitions: []models.Transition{
				{ID: "retire", Name: "Retire", FromStatus: "registered", ToStatus: "retired"},
			},
		},
	}
}

func TestListAndGetTemplates(t *testing.T) {
	t.Parallel()

	svc, _ := setupTemplateService(t)

	templates := svc.ListTemplates(t.Context())
	assert.Len(t, templates, 4)

	template, err := svc.GetTemplate(t.Context(), "template-ticket-simple")
	require.NoError(t, err)
	assert.Equal(t, models.EntityTypeTicket, template.EntityType)

	_, err = svc.GetTemplate(t.Context(), "template-unknown")
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))

	changes := svc.ListTemplatesByEntityType(t.Context(), models.EntityTypeChange)
	require.Len(t, changes, 1)
	assert.Equal(t, "template-change-standard", changes[0].ID)
}

func TestListStatusesAndCategoryOf(t *testing.T) {
	t.Parallel()

	svc, _ := setupTemplateService(t)

	statuses, err := svc.ListStatuses(t.Context(), "template-ticket-simple")
	require.NoError(t, err)
	require.Len(t, statuses, 5)
	assert.Equal(t, "open", statuses[0].ID, "declared order is preserved")

	category, err := svc.CategoryOf(t.Context(), "template-ticket-simple", "on_hold")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryInProgress, category)

	_, err = svc.CategoryOf(t.Context(), "template-ticket-simple", "nope")
	require.Error(t, err)
	assert.True(t, services.IsNotFound(err))
}

func TestSaveTemplate(t *testing.T) {
	t.Parallel()

	svc, reg := setupTemplateService(t)

	require.NoError(t, svc.SaveTemplate(t.Context(), customTemplate()))

	_, ok := reg.GetTemplate("template-custom")
	assert.True(t, ok, "saved templates are registered immediately")
}

func TestSaveTemplate_RejectsMalformed(t *testing.T) {
	t.Parallel()

	svc, reg := setupTemplateService(t)

	template := customTemplate()
	template.Config.InitialStatus = "nope"

	err := svc.SaveTemplate(t.Context(), template)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedTemplate)

	_, ok := reg.GetTemplate("template-custom")
	assert.False(t, ok)
}

func TestSaveTemplate_CollisionLeavesStoreClean(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(reg))

	p := file.NewPersistence(t.TempDir())
	svc := services.NewTemplate(reg, p)

	template := customTemplate()
	template.ID = "template-ticket-simple"

	err := svc.SaveTemplate(t.Context(), template)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrTemplateAlreadyRegistered)

	stored, err := p.TemplateRepository().List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, stored, "a rejected template must not be persisted")

	// A restart over the same storage must still come up.
	restarted := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(restarted))
	require.NoError(t, services.NewTemplate(restarted, p).LoadStoredTemplates(t.Context()))
}

func TestLoadStoredTemplates_SkipsStaleDuplicates(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(reg))

	p := file.NewPersistence(t.TempDir())

	// A row left behind by an older release, colliding with a built-in.
	stale := customTemplate()
	stale.ID = "template-ticket-simple"
	require.NoError(t, p.TemplateRepository().Save(t.Context(), stale))

	svc := services.NewTemplate(reg, p)
	require.NoError(t, svc.LoadStoredTemplates(t.Context()))

	got, ok := reg.GetTemplate("template-ticket-simple")
	require.True(t, ok)
	assert.Equal(t, "Simple Ticket", got.Name, "the registered template wins over the stale row")
}

func TestLoadStoredTemplates(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(reg))

	p := file.NewPersistence(t.TempDir())
	svc := services.NewTemplate(reg, p)

	require.NoError(t, svc.SaveTemplate(t.Context(), customTemplate()))

	// Simulate a restart: a fresh registry over the same storage.
	restarted := registry.NewRegistry(slog.Default())
	require.NoError(t, catalog.Register(restarted))

	restartedSvc := services.NewTemplate(restarted, p)
	require.NoError(t, restartedSvc.LoadStoredTemplates(t.Context()))

	_, ok := restarted.GetTemplate("template-custom")
	assert.True(t, ok)
}
