// Package persistence defines the storage interfaces for catalog documents
// and validation runs, with file and PostgreSQL implementations in
// subpackages.
package persistence

import (
	"context"

	"github.com/microflowhq/microflow/pkg/models"
)

// Persistence is the storage entry point handed to services.
type Persistence interface {
	DocumentRepository() DocumentRepository
	ValidationRunRepository() ValidationRunRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// DocumentRepository stores catalog entries.
type DocumentRepository interface {
	All(ctx context.Context) ([]*models.CatalogEntry, error)
	ByID(ctx context.Context, id string) (*models.CatalogEntry, error)
	ByCategory(ctx context.Context, category string) ([]*models.CatalogEntry, error)
	Save(ctx context.Context, entry *models.CatalogEntry) error
	Delete(ctx context.Context, id string) error
}

// ValidationRunRepository stores the outcome of validation runs.
type ValidationRunRepository interface {
	Save(ctx context.Context, run *models.ValidationRun) error
	ByDocumentID(ctx context.Context, documentID string) ([]*models.ValidationRun, error)
	Latest(ctx context.Context, limit int) ([]*models.ValidationRun, error)
}
