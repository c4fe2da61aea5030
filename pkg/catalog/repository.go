// Package catalog exposes the microflow catalog: discovery of workflow
// documents, lookup by id or category, and the generated catalog index.
package catalog

import (
	"context"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
)

// Repository wraps the persistence layer with catalog-level operations.
type Repository struct {
	persistence persistence.Persistence
}

func NewRepository(persistence persistence.Persistence) *Repository {
	return &Repository{
		persistence: persistence,
	}
}

func (r *Repository) HealthCheck(ctx context.Context) (string, bool) {
	if r.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := r.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

func (r *Repository) FetchAll(ctx context.Context) ([]*models.CatalogEntry, error) {
	entries, err := r.persistence.DocumentRepository().All(ctx)
	if err != nil {
		return make([]*models.CatalogEntry, 0), err
	}

	return entries, nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	entry, err := r.persistence.DocumentRepository().ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *Repository) FetchByCategory(ctx context.Context, category string) ([]*models.CatalogEntry, error) {
	entries, err := r.persistence.DocumentRepository().ByCategory(ctx, category)
	if err != nil {
		return make([]*models.CatalogEntry, 0), err
	}

	return entries, nil
}

func (r *Repository) Store(ctx context.Context, entry *models.CatalogEntry) error {
	return r.persistence.DocumentRepository().Save(ctx, entry)
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	return r.persistence.DocumentRepository().Delete(ctx, id)
}
