package main

import (
	"context"
	"os"

	"github.com/flowdeck/flowdeck/pkg/cmd"
	"github.com/flowdeck/flowdeck/pkg/log"
	"github.com/flowdeck/flowdeck/pkg/sla"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 8080

func main() {
	command := &cli.Command{
		Name:                  "flowdeck-api",
		Usage:                 "Serve the workflow template catalog and entity transition API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres:// or file://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
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

			logger := log.WithModule("flowdeck-api")
			logger.InfoContext(ctx, "Initializing Flowdeck API")

			eventBus := cmd.NewEventBus(command.String("event-bus"), "flowdeck-api", logger)
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

			tracer := cmd.NewTracer(ctx, "flowdeck-api", command.Bool("otel"))

			api := NewAPI(logger, persistence, registry, eventBus, tracer)

			if err := api.Start(ctx, int(command.Int("port"))); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
