package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
)

// DocumentRepository stores catalog entries in the catalog_documents table.
type DocumentRepository struct {
	db *sql.DB
}

const documentColumns = "id, category, complexity, description, path, node_count, dependencies, tenant_aware, document, updated_at"

// Save inserts or updates a catalog entry.
func (r *DocumentRepository) Save(ctx context.Context, entry *models.CatalogEntry) error {
	if entry == nil || entry.Document == nil || entry.ID == "" {
		return persistence.ErrInvalidDocument
	}

	documentJSON, err := json.Marshal(entry.Document)
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", entry.ID, err)
	}

	dependenciesJSON, err := json.Marshal(entry.Dependencies)
	if err != nil {
		return fmt.Errorf("failed to serialize dependencies for %s: %w", entry.ID, err)
	}

	query := `
		INSERT INTO catalog_documents (
			id, category, complexity, description, path,
			node_count, dependencies, tenant_aware, document, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			category = EXCLUDED.category,
			complexity = EXCLUDED.complexity,
			description = EXCLUDED.description,
			path = EXCLUDED.path,
			node_count = EXCLUDED.node_count,
			dependencies = EXCLUDED.dependencies,
			tenant_aware = EXCLUDED.tenant_aware,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`

	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.Category, string(entry.Complexity), entry.Description, entry.Path,
		entry.NodeCount, dependenciesJSON, entry.TenantAware, documentJSON, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save catalog document %s: %w", entry.ID, err)
	}

	return nil
}

// All returns every catalog entry ordered by path.
func (r *DocumentRepository) All(ctx context.Context) ([]*models.CatalogEntry, error) {
	query := "SELECT " + documentColumns + " FROM catalog_documents ORDER BY path"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// ByID returns one catalog entry.
func (r *DocumentRepository) ByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	query := "SELECT " + documentColumns + " FROM catalog_documents WHERE id = $1"

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrDocumentNotFound
	}

	return entry, err
}

// ByCategory returns every entry in one category ordered by id.
func (r *DocumentRepository) ByCategory(ctx context.Context, category string) ([]*models.CatalogEntry, error) {
	query := "SELECT " + documentColumns + " FROM catalog_documents WHERE category = $1 ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog documents by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Delete removes one catalog entry.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM catalog_documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog document %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result for %s: %w", id, err)
	}

	if affected == 0 {
		return persistence.ErrDocumentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.CatalogEntry, error) {
	var (
		entry            models.CatalogEntry
		complexity       string
		description      sql.NullString
		dependenciesJSON []byte
		documentJSON     []byte
	)

	err := row.Scan(
		&entry.ID, &entry.Category, &complexity, &description, &entry.Path,
		&entry.NodeCount, &dependenciesJSON, &entry.TenantAware, &documentJSON, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Complexity = models.Complexity(complexity)
	entry.Description = description.String

	if len(dependenciesJSON) > 0 {
		if err := json.Unmarshal(dependenciesJSON, &entry.Dependencies); err != nil {
			return nil, fmt.Errorf("failed to decode dependencies for %s: %w", entry.ID, err)
		}
	}

	var doc models.WorkflowDocument
	if err := json.Unmarshal(documentJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", entry.ID, err)
	}

	entry.Document = &doc

	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]*models.CatalogEntry, error) {
	entries := make([]*models.CatalogEntry, 0)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog documents: %w", err)
	}

	return entries, nil
}
