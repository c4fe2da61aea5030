package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
)

// DocumentRepository reads and writes workflow documents in the catalog
// tree. The directory layout is the source of truth: entries are derived
// from the files on every read, no index is kept.
type DocumentRepository struct {
	root string
}

// NewDocumentRepository creates a repository over the catalog root.
func NewDocumentRepository(root string) *DocumentRepository {
	return &DocumentRepository{root: root}
}

// All returns every catalog entry, sorted by path.
func (r *DocumentRepository) All(ctx context.Context) ([]*models.CatalogEntry, error) {
	root := os.DirFS(r.root)

	jsonFiles, err := fs.Glob(root, "*/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog root %s: %w", r.root, err)
	}

	sort.Strings(jsonFiles)

	entries := make([]*models.CatalogEntry, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		entry, err := r.load(file)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ByID returns the entry with the given workflow id, searching every
// category directory.
func (r *DocumentRepository) ByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	matches, err := fs.Glob(os.DirFS(r.root), "*/"+id+".json")
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog root %s: %w", r.root, err)
	}

	if len(matches) == 0 {
		return nil, persistence.ErrDocumentNotFound
	}

	return r.load(matches[0])
}

// ByCategory returns every entry under one category directory.
func (r *DocumentRepository) ByCategory(ctx context.Context, category string) ([]*models.CatalogEntry, error) {
	matches, err := fs.Glob(os.DirFS(r.root), category+"/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to scan category %s: %w", category, err)
	}

	sort.Strings(matches)

	entries := make([]*models.CatalogEntry, 0, len(matches))

	for _, file := range matches {
		entry, err := r.load(file)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Save writes the entry's document to <root>/<category>/<id>.json.
func (r *DocumentRepository) Save(ctx context.Context, entry *models.CatalogEntry) error {
	if entry == nil || entry.Document == nil || entry.ID == "" {
		return persistence.ErrInvalidDocument
	}

	dir := filepath.Join(r.root, entry.Category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create category directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(entry.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize document %s: %w", entry.ID, err)
	}

	path := filepath.Join(dir, entry.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}

	return nil
}

// Delete removes the document file for the given id.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	matches, err := fs.Glob(os.DirFS(r.root), "*/"+id+".json")
	if err != nil {
		return fmt.Errorf("failed to scan catalog root %s: %w", r.root, err)
	}

	if len(matches) == 0 {
		return persistence.ErrDocumentNotFound
	}

	return os.Remove(filepath.Join(r.root, matches[0]))
}

func (r *DocumentRepository) load(relPath string) (*models.CatalogEntry, error) {
	fullPath := filepath.Join(r.root, relPath)

	body, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", fullPath, err)
	}

	var doc models.WorkflowDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", fullPath, err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat document %s: %w", fullPath, err)
	}

	entry := models.NewCatalogEntry(&doc, relPath)
	entry.UpdatedAt = info.ModTime()

	return entry, nil
}
