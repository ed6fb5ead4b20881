// Package main provides the Flowdeck API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/flowdeck/flowdeck/pkg/web"
	"github.com/flowdeck/flowdeck/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	engine := workflow.NewEngine(a.registry, a.logger)

	templateService := services.NewTemplate(a.registry, a.persistence)
	entityService := services.NewEntity(a.persistence, a.registry)
	transitionService := services.NewTransition(
		a.registry, engine, a.persistence, a.eventBus, a.tracer, a.logger,
	)

	handlers := web.NewAPIHandlers(templateService, entityService, transitionService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowdeck API")
	})

	t := app.Group("/templates")
	t.Get("/", handlers.GetTemplates)
	t.Post("/", handlers.CreateTemplate)
	t.Get("/:id", handlers.GetTemplate)
	t.Get("/:id/statuses", handlers.GetTemplateStatuses)

	e := app.Group("/entities")
	e.Get("/", handlers.GetEntities)
	e.Post("/", handlers.CreateEntity)
	e.Get("/:id", handlers.GetEntity)
	e.Patch("/:id", handlers.UpdateEntity)
	e.Delete("/:id", handlers.DeleteEntity)
	e.Get("/:id/transitions", handlers.GetEntityTransitions)
	e.Post("/:id/transitions/:transitionId", handlers.ApplyTransition)
	e.Get("/:id/comments", handlers.GetEntityComments)
	e.Post("/:id/comments", handlers.AddEntityComment)
	e.Get("/:id/tasks", handlers.GetEntityTasks)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(ctx context.Context, port int) error {
	// User-defined templates saved through the API in earlier runs.
	templateService := services.NewTemplate(a.registry, a.persistence)
	if err := templateService.LoadStoredTemplates(ctx); err != nil {
		return err
	}

	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
