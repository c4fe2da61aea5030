package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/microflowhq/microflow/pkg/cmd"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/log"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/validation"
	cli "github.com/urfave/cli/v3"
)

// ErrValidationFailed drives the non-zero exit status when any document is
// invalid.
var ErrValidationFailed = errors.New("validation failed")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate workflow documents",
		ArgsUsage: "[file ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Catalog directory to validate recursively",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Worker pool size for directory validation",
				Value:   4,
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Record validation runs in this store (file:// or postgres://)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Publish validation events (gochannel, kafka)",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Kafka broker list for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("validate")

			service, cleanup, err := buildValidationService(ctx, command, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if dir := command.String("dir"); dir != "" {
				return validateDirectory(ctx, service, dir, command.Int("workers"))
			}

			if command.Args().Len() == 0 {
				return errors.New("provide files to validate or --dir")
			}

			return validateFiles(ctx, service, command.Args().Slice())
		},
	}
}

func buildValidationService(ctx context.Context, command *cli.Command, logger *slog.Logger) (*services.Validation, func(), error) {
	var (
		store     persistence.Persistence
		publisher eventbus.EventBus
	)

	cleanup := func() {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close event bus", "error", err)
			}
		}

		if store != nil {
			if err := store.Close(ctx); err != nil {
				logger.Error("Failed to close persistence", "error", err)
			}
		}
	}

	if databaseURL := command.String("database-url"); databaseURL != "" {
		var err error

		store, err = cmd.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, func() {}, err
		}
	}

	if provider := command.String("event-bus"); provider != "" {
		var err error

		publisher, err = cmd.NewEventBus(provider, command.String("kafka-brokers"), logger)
		if err != nil {
			cleanup()

			return nil, func() {}, err
		}
	}

	pipeline := validation.NewPipeline(validation.DefaultRuleConfig())

	return services.NewValidation(pipeline, store, publisher, logger), cleanup, nil
}

func validateDirectory(ctx context.Context, service *services.Validation, dir string, workers int) error {
	reports, summary, err := service.RunDirectory(ctx, dir, workers)
	if err != nil {
		return err
	}

	fmt.Println("Workflow Validation Results:")
	fmt.Println("============================")

	for _, report := range reports {
		printReport(report.Path, report.Result)
	}

	printSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d documents invalid", ErrValidationFailed, summary.Failed, summary.Total)
	}

	fmt.Println("All workflow documents are valid! ✅")

	return nil
}

func validateFiles(ctx context.Context, service *services.Validation, paths []string) error {
	reports := make([]validation.FileReport, 0, len(paths))

	for _, path := range paths {
		run, err := service.RunFile(ctx, path)
		if err != nil {
			return err
		}

		result := resultFromRun(run)
		printReport(path, result)
		reports = append(reports, validation.FileReport{Path: path, Result: result})
	}

	summary := validation.Summarize(reports)
	printSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d documents invalid", ErrValidationFailed, summary.Failed, summary.Total)
	}

	fmt.Println("All workflow documents are valid! ✅")

	return nil
}

func resultFromRun(run *models.ValidationRun) *models.ValidationResult {
	result := &models.ValidationResult{
		Valid:    run.Valid,
		Errors:   make([]models.Finding, 0),
		Warnings: make([]models.Finding, 0),
	}

	for _, finding := range run.Findings {
		if finding.Severity == models.SeverityError {
			result.Errors = append(result.Errors, finding)
		} else {
			result.Warnings = append(result.Warnings, finding)
		}
	}

	return result
}

func printReport(path string, result *models.ValidationResult) {
	fmt.Printf("\n%s\n", path)

	if result.Valid {
		fmt.Printf("    ✅ VALID\n")
	} else {
		fmt.Printf("    ❌ INVALID\n")
	}

	for _, finding := range result.Errors {
		printFinding(finding)
	}

	for _, finding := range result.Warnings {
		printFinding(finding)
	}
}

func printFinding(finding models.Finding) {
	location := ""
	if finding.Path != "" {
		location = " at " + finding.Path
	}

	if finding.NodeIndex != nil {
		location = fmt.Sprintf(" at node %d", *finding.NodeIndex)
	}

	_, _ = fmt.Fprintf(os.Stdout, "      [%s] %s%s: %s\n", finding.Severity, finding.Type, location, finding.Message)
}

func printSummary(summary validation.Summary) {
	fmt.Printf("\nValidation Summary:\n")
	fmt.Printf("  Total documents: %d\n", summary.Total)
	fmt.Printf("  Valid documents: %d\n", summary.Passed)
	fmt.Printf("  Invalid documents: %d\n", summary.Failed)
	fmt.Printf("  Warnings: %d\n", summary.Warnings)
}
