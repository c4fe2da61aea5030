package main

import (
	"context"
	"fmt"
	"os"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/cmd"
	"github.com/microflowhq/microflow/pkg/log"
	"github.com/microflowhq/microflow/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewCatalogCommand() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "Generate the catalog index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Catalog store (file:// or postgres://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the index to this file instead of stdout",
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
			logger := log.WithModule("catalog")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.Error("Failed to close persistence", "error", err)
				}
			}()

			repository := catalog.NewRepository(store)
			catalogService := services.NewCatalog(repository, nil, logger)

			index, err := catalogService.Markdown(ctx)
			if err != nil {
				return fmt.Errorf("failed to render catalog index: %w", err)
			}

			if output := command.String("output"); output != "" {
				if err := os.WriteFile(output, []byte(index), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}

				fmt.Printf("Catalog index written to %s\n", output)

				return nil
			}

			fmt.Print(index)

			return nil
		},
	}
}
