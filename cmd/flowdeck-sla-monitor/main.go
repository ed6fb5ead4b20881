package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowdeck/flowdeck/pkg/cmd"
	"github.com/flowdeck/flowdeck/pkg/log"
	"github.com/flowdeck/flowdeck/pkg/sla"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowdeck-sla-monitor",
		Usage:                 "Watch SLA clocks and publish breach events",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "redis-url",
				Usage:    "Redis URL holding the SLA clocks",
				Required: true,
				Sources:  cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "scan-schedule",
				Usage:   "Cron expression for breach scans",
				Value:   "* * * * *",
				Sources: cli.EnvVars("SCAN_SCHEDULE"),
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

			logger := log.WithModule("flowdeck-sla-monitor")
			logger.InfoContext(ctx, "Initializing Flowdeck SLA Monitor")

			eventBus := cmd.NewEventBus(command.String("event-bus"), "flowdeck-sla-monitor", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			tracker := cmd.NewSLATracker(logger, command.String("redis-url"))

			scanner := sla.NewBreachScanner(tracker, eventBus, logger,
				sla.WithSchedule(command.String("scan-schedule")))

			if err := scanner.Start(ctx); err != nil {
				logger.ErrorContext(ctx, "Failed to start breach scanner", "error", err)

				return err
			}
			defer scanner.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			<-sigChan
			logger.InfoContext(ctx, "Shutting down SLA monitor...")

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
