// Package postgresql provides PostgreSQL persistence for catalog metadata
// and validation runs.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/persistence/sqlbase"

	_ "github.com/lib/pq"
)

// Persistence implements persistence.Persistence using PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	documentRepo *DocumentRepository
	runRepo      *ValidationRunRepository
}

// NewPersistence connects to PostgreSQL and runs pending migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, catalogMigrations())
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run catalog migrations: %w", err)
	}

	logger.InfoContext(ctx, "Catalog PostgreSQL persistence initialized")

	return &Persistence{
		db:           database,
		logger:       logger.With("component", "catalog_postgres_persistence"),
		documentRepo: &DocumentRepository{db: database},
		runRepo:      &ValidationRunRepository{db: database},
	}, nil
}

// catalogMigrations returns the schema migrations keyed by version.
func catalogMigrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS catalog_documents (
				id VARCHAR(255) PRIMARY KEY,
				category VARCHAR(64) NOT NULL,
				complexity VARCHAR(16) NOT NULL,
				description TEXT,
				path TEXT NOT NULL,
				node_count INTEGER NOT NULL DEFAULT 0,
				dependencies JSONB,
				tenant_aware BOOLEAN NOT NULL DEFAULT FALSE,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_catalog_documents_category ON catalog_documents (category);
			CREATE INDEX IF NOT EXISTS idx_catalog_documents_updated_at ON catalog_documents (updated_at);
		`,
		2: `
			CREATE TABLE IF NOT EXISTS validation_runs (
				id UUID PRIMARY KEY,
				document_id VARCHAR(255) NOT NULL,
				path TEXT,
				valid BOOLEAN NOT NULL,
				error_count INTEGER NOT NULL DEFAULT 0,
				warning_count INTEGER NOT NULL DEFAULT 0,
				findings JSONB,
				ran_at TIMESTAMP WITH TIME ZONE NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_validation_runs_document_id ON validation_runs (document_id);
			CREATE INDEX IF NOT EXISTS idx_validation_runs_ran_at ON validation_runs (ran_at);
		`,
	}
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	return p.db.Close()
}

// HealthCheck pings the database.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// DocumentRepository returns the catalog entry repository.
func (p *Persistence) DocumentRepository() persistence.DocumentRepository {
	return p.documentRepo
}

// ValidationRunRepository returns the validation run repository.
func (p *Persistence) ValidationRunRepository() persistence.ValidationRunRepository {
	return p.runRepo
}
