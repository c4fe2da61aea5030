// Package cmd holds shared wiring helpers for the binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/persistence/file"
	"github.com/microflowhq/microflow/pkg/persistence/postgresql"
)

// NewPersistence picks a persistence backend from the database URL scheme.
// file:// (or a bare path) selects the catalog directory layout; postgres://
// selects PostgreSQL.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgresql"
	case "file":
		return "file"
	default:
		return "file"
	}
}
