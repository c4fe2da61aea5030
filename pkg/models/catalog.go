package models

import "time"

// CatalogEntry is the catalog-level view of a workflow document: the
// metadata the catalog, API and markdown generator work with, without
// forcing every consumer to hold the full document.
type CatalogEntry struct {
	ID           string            `json:"id"`
	Category     string            `json:"category"`
	Complexity   Complexity        `json:"complexity"`
	Description  string            `json:"description,omitempty"`
	Path         string            `json:"path"`
	NodeCount    int               `json:"node_count"`
	Dependencies []string          `json:"dependencies,omitempty"`
	TenantAware  bool              `json:"tenant_aware"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Document     *WorkflowDocument `json:"document,omitempty"`
}

// NewCatalogEntry derives a catalog entry from a document and the path it
// was loaded from.
func NewCatalogEntry(doc *WorkflowDocument, path string) *CatalogEntry {
	return &CatalogEntry{
		ID:           doc.WorkflowMeta.ID,
		Category:     doc.WorkflowMeta.Category,
		Complexity:   doc.WorkflowMeta.Complexity,
		Description:  doc.WorkflowMeta.Description,
		Path:         path,
		NodeCount:    doc.NodeCount(),
		Dependencies: doc.WorkflowMeta.Dependencies,
		TenantAware:  doc.IsTenantAware(),
		Document:     doc,
	}
}

// ValidationRun records the outcome of validating one document, for the
// metadata store and the API. The validation core never persists these
// itself; the service layer owns the lifecycle.
type ValidationRun struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	Path         string    `json:"path,omitempty"`
	Valid        bool      `json:"valid"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Findings     []Finding `json:"findings,omitempty"`
	RanAt        time.Time `json:"ran_at"`
}
