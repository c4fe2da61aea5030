package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/embeddings"
	"github.com/microflowhq/microflow/pkg/models"
)

// Catalog serves catalog reads and derived artifacts. The embedding
// generator is optional; WarmEmbeddings fails without one.
type Catalog struct {
	repository *catalog.Repository
	generator  embeddings.Generator
	logger     *slog.Logger
}

func NewCatalog(repository *catalog.Repository, generator embeddings.Generator, logger *slog.Logger) *Catalog {
	return &Catalog{
		repository: repository,
		generator:  generator,
		logger:     logger.With("module", "catalog_service"),
	}
}

func (s *Catalog) List(ctx context.Context) ([]*models.CatalogEntry, error) {
	return s.repository.FetchAll(ctx)
}

func (s *Catalog) ListByCategory(ctx context.Context, category string) ([]*models.CatalogEntry, error) {
	if !slices.Contains(models.Categories(), category) {
		return nil, NewValidationError("ListByCategory", "UNKNOWN_CATEGORY",
			fmt.Sprintf("category %q is not one of %v", category, models.Categories()), ErrUnknownCategory)
	}

	return s.repository.FetchByCategory(ctx, category)
}

func (s *Catalog) Get(ctx context.Context, id string) (*models.CatalogEntry, error) {
	if id == "" {
		return nil, NewValidationError("Get", "MISSING_ID", "document id is required", ErrDocumentIDMissing)
	}

	return s.repository.FetchByID(ctx, id)
}

// Markdown renders the CATALOG.md index for the current catalog contents.
func (s *Catalog) Markdown(ctx context.Context) (string, error) {
	entries, err := s.repository.FetchAll(ctx)
	if err != nil {
		return "", err
	}

	return catalog.RenderMarkdown(entries, time.Now().UTC())
}

// WarmEmbeddings generates (and caches, when the generator is cached) an
// embedding for every document description. Returns the number of documents
// processed.
func (s *Catalog) WarmEmbeddings(ctx context.Context) (int, error) {
	if s.generator == nil {
		return 0, NewValidationError("WarmEmbeddings", "NO_GENERATOR", "embedding generator is not configured", ErrInvalidRequest)
	}

	entries, err := s.repository.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	warmed := 0

	for _, entry := range entries {
		if entry.Description == "" {
			continue
		}

		if _, err := s.generator.Generate(ctx, entry.Description); err != nil {
			return warmed, fmt.Errorf("failed to embed %s: %w", entry.ID, err)
		}

		warmed++
	}

	s.logger.InfoContext(ctx, "Warmed documentation embeddings", "documents", warmed)

	return warmed, nil
}
