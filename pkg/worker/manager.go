package worker

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/events"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// Manager wires the executor to the event bus and runs until interrupted.
type Manager struct {
	id       string
	executor *Executor
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewManager(id string, reg *registry.Registry, eventBus eventbus.EventBus, tracer trace.Tracer, logger *slog.Logger) *Manager {
	logger = logger.With("module", "flowdeck-worker", "worker_id", id)

	return &Manager{
		id:       id,
		executor: NewExecutor(reg, tracer, logger),
		eventBus: eventBus,
		logger:   logger,
	}
}

// Start subscribes to transition events and blocks until SIGINT or SIGTERM.
func (m *Manager) Start(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Starting post-function worker")

	if err := m.eventBus.Handle(events.EntityTransitionedEvent, m.handleEntityTransitioned); err != nil {
		return err
	}

	if err := m.eventBus.Subscribe(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	m.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	m.logger.InfoContext(ctx, "Shutting down worker...")

	return nil
}

func (m *Manager) handleEntityTransitioned(ctx context.Context, event any) error {
	transitioned, ok := event.(*events.EntityTransitioned)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for EntityTransitioned")

		return nil
	}

	m.logger.InfoContext(ctx, "Processing entity transition",
		"entity_id", transitioned.EntityID,
		"transition_id", transitioned.TransitionID,
		"post_functions", len(transitioned.PostFunctions),
	)

	return m.executor.Execute(ctx, transitioned)
}
