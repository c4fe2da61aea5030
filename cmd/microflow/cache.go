package main

import (
	"context"
	"fmt"

	"github.com/microflowhq/microflow/pkg/cache"
	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/cmd"
	"github.com/microflowhq/microflow/pkg/embeddings"
	"github.com/microflowhq/microflow/pkg/log"
	"github.com/microflowhq/microflow/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewCacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the documentation embedding cache",
		Commands: []*cli.Command{
			newCacheWarmCommand(),
		},
	}
}

func newCacheWarmCommand() *cli.Command {
	return &cli.Command{
		Name:  "warm",
		Usage: "Generate and cache embeddings for every document description",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Catalog store (file:// or postgres://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for the embedding cache (in-memory when empty)",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
			&cli.StringFlag{
				Name:     "embeddings-url",
				Usage:    "OpenAI-compatible embeddings endpoint base URL",
				Required: true,
				Sources:  cli.EnvVars("EMBEDDINGS_URL"),
			},
			&cli.StringFlag{
				Name:    "embeddings-api-key",
				Usage:   "API key for the embeddings endpoint",
				Sources: cli.EnvVars("EMBEDDINGS_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "embeddings-model",
				Usage:   "Embedding model name",
				Value:   "text-embedding-3-small",
				Sources: cli.EnvVars("EMBEDDINGS_MODEL"),
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Cache TTL for generated embeddings",
				Value: 0,
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
			logger := log.WithModule("cache")

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.Error("Failed to close persistence", "error", err)
				}
			}()

			var embeddingCache cache.Cache

			if addr := command.String("redis-addr"); addr != "" {
				embeddingCache, err = cache.NewRedisCache(ctx, addr, command.String("redis-password"), 0, "microflow")
				if err != nil {
					return err
				}
			} else {
				embeddingCache = cache.NewMemoryCache()
			}

			defer func() {
				if err := embeddingCache.Close(); err != nil {
					logger.Error("Failed to close cache", "error", err)
				}
			}()

			client := embeddings.NewClient(
				command.String("embeddings-url"),
				command.String("embeddings-api-key"),
				command.String("embeddings-model"),
			)
			generator := embeddings.NewCachedGenerator(client, embeddingCache, command.Duration("ttl"))

			repository := catalog.NewRepository(store)
			catalogService := services.NewCatalog(repository, generator, logger)

			warmed, err := catalogService.WarmEmbeddings(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Warmed embeddings for %d documents ✅\n", warmed)

			return nil
		},
	}
}
