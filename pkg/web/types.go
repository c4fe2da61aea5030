package web

import (
	"encoding/json"

	"github.com/microflowhq/microflow/pkg/models"
)

// ValidateDocumentRequest wraps an ad-hoc document submitted for validation.
type ValidateDocumentRequest struct {
	Document json.RawMessage `json:"document" validate:"required"`
}

// ValidateDocumentResponse returns the full validation report.
type ValidateDocumentResponse struct {
	Valid    bool             `json:"valid"`
	Errors   []models.Finding `json:"errors"`
	Warnings []models.Finding `json:"warnings"`
}

// ListRunsRequest holds the query parameters for GET /runs.
type ListRunsRequest struct {
	DocumentID string `json:"document_id" validate:"omitempty,min=1"`
	Limit      int    `json:"limit"       validate:"gte=0,lte=500"`
}

// DefaultRunsLimit bounds GET /runs when no limit is given.
const DefaultRunsLimit = 20
