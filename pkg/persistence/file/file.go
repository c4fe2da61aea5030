// Package file provides file-based persistence over a catalog directory
// tree laid out as <root>/<category>/<id>.json. Validation runs are stored
// under <root>/.runs.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/microflowhq/microflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root         string
	documentRepo *DocumentRepository
	runRepo      *ValidationRunRepository
}

// NewPersistence creates file persistence rooted at the catalog directory.
// A "file://" prefix on root is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		documentRepo: NewDocumentRepository(cleanRoot),
		runRepo:      NewValidationRunRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the catalog root exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// DocumentRepository returns the catalog entry repository.
func (fp *Persistence) DocumentRepository() persistence.DocumentRepository {
	return fp.documentRepo
}

// ValidationRunRepository returns the validation run repository.
func (fp *Persistence) ValidationRunRepository() persistence.ValidationRunRepository {
	return fp.runRepo
}
