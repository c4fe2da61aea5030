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
)

const runsDir = ".runs"

// ValidationRunRepository stores validation runs as JSON files under
// <root>/.runs/<run-id>.json.
type ValidationRunRepository struct {
	root string
}

// NewValidationRunRepository creates a run repository over the catalog root.
func NewValidationRunRepository(root string) *ValidationRunRepository {
	return &ValidationRunRepository{root: root}
}

// Save persists one validation run.
func (r *ValidationRunRepository) Save(ctx context.Context, run *models.ValidationRun) error {
	dir := filepath.Join(r.root, runsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create runs directory %s: %w", dir, err)
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to serialize run %s: %w", run.ID, err)
	}

	path := filepath.Join(dir, run.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run %s: %w", path, err)
	}

	return nil
}

// ByDocumentID returns every stored run for one document, newest first.
func (r *ValidationRunRepository) ByDocumentID(ctx context.Context, documentID string) ([]*models.ValidationRun, error) {
	runs, err := r.all()
	if err != nil {
		return nil, err
	}

	matched := make([]*models.ValidationRun, 0)

	for _, run := range runs {
		if run.DocumentID == documentID {
			matched = append(matched, run)
		}
	}

	return matched, nil
}

// Latest returns the most recent runs, newest first.
func (r *ValidationRunRepository) Latest(ctx context.Context, limit int) ([]*models.ValidationRun, error) {
	runs, err := r.all()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

func (r *ValidationRunRepository) all() ([]*models.ValidationRun, error) {
	dir := filepath.Join(r.root, runsDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return make([]*models.ValidationRun, 0), nil
	}

	files, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs directory %s: %w", dir, err)
	}

	runs := make([]*models.ValidationRun, 0, len(files))

	for _, file := range files {
		body, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read run %s: %w", file, err)
		}

		var run models.ValidationRun
		if err := json.Unmarshal(body, &run); err != nil {
			return nil, fmt.Errorf("failed to decode run %s: %w", file, err)
		}

		runs = append(runs, &run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].RanAt.After(runs[j].RanAt)
	})

	return runs, nil
}
