package main

import (
	"context"
	"os"

	"github.com/flowdeck/flowdeck/pkg/cmd"
	"github.com/flowdeck/flowdeck/pkg/log"
	"github.com/flowdeck/flowdeck/pkg/sla"
	"github.com/flowdeck/flowdeck/pkg/worker"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowdeck-worker",
		Usage:                 "Execute post-functions for committed entity transitions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres:// or file://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for SLA clocks (in-memory if unset)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "templates-path",
				Usage:   "Directory of user-defined workflow template files",
				Sources: cli.EnvVars("TEMPLATES_PATH"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("flowdeck-worker").With("worker_id", workerID)
			logger.InfoContext(ctx, "Initializing Flowdeck Worker")

			eventBus := cmd.NewEventBus(command.String("event-bus"), "flowdeck-worker", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			tracker := cmd.NewSLATracker(logger, command.String("redis-url"))

			registry := cmd.NewRegistry(logger, cmd.RegistryDeps{
				Persistence: persistence,
				Publisher:   eventBus,
				SLATracker:  tracker,
				SLATargets:  sla.DefaultTargets(),
			}, command.String("templates-path"))

			tracer := cmd.NewTracer(ctx, "flowdeck-worker", command.Bool("otel"))

			manager := worker.NewManager(workerID, registry, eventBus, tracer, logger)

			if err := manager.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to start worker", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
