package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/cmd"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/ghsync"
	"github.com/microflowhq/microflow/pkg/log"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

func NewSyncCommand() *cli.Command {
	return &cli.Command{
		Name:    "sync",
		Aliases: []string{"s"},
		Usage:   "Sync workflow documents from a GitHub repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "repo",
				Usage:    "GitHub repository (owner/name) to sync from",
				Required: true,
				Sources:  cli.EnvVars("SYNC_REPO"),
			},
			&cli.StringFlag{
				Name:    "branch",
				Usage:   "Branch to sync from",
				Value:   "main",
				Sources: cli.EnvVars("SYNC_BRANCH"),
			},
			&cli.StringFlag{
				Name:    "root",
				Usage:   "Directory in the remote repository holding the categories",
				Value:   "workflows",
				Sources: cli.EnvVars("SYNC_ROOT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Catalog store (file:// or postgres://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Publish catalog events (gochannel, kafka)",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka broker list for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Run continuously on this cron expression instead of once",
				Sources: cli.EnvVars("SYNC_SCHEDULE"),
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
			logger := log.WithModule("sync")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.Error("Failed to close persistence", "error", err)
				}
			}()

			var publisher eventbus.EventBus

			if provider := command.String("event-bus"); provider != "" {
				publisher, err = cmd.NewEventBus(provider, command.String("kafka-brokers"), logger)
				if err != nil {
					return err
				}

				defer func() {
					if err := publisher.Close(); err != nil {
						logger.Error("Failed to close event bus", "error", err)
					}
				}()
			}

			syncer, err := ghsync.NewSyncer(logger, command.String("repo"), command.String("branch"), command.String("root"))
			if err != nil {
				return err
			}

			syncService := services.NewSync(
				syncer,
				validation.NewPipeline(validation.DefaultRuleConfig()),
				catalog.NewRepository(store),
				publisher,
				logger,
			)

			runOnce := func(ctx context.Context) error {
				report, err := syncService.Run(ctx)
				if err != nil {
					return err
				}

				fmt.Printf("Sync complete: fetched %d, stored %d, failed %d\n",
					report.Fetched, report.Stored, report.Failed)

				return nil
			}

			schedule := command.String("schedule")
			if schedule == "" {
				return runOnce(ctx)
			}

			scheduler, err := ghsync.NewScheduler(logger, schedule, runOnce)
			if err != nil {
				return err
			}

			if err := scheduler.Start(ctx); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			return scheduler.Stop(context.Background())
		},
	}
}
