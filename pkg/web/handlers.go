// Package web provides the HTTP handlers for the catalog API.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/services"
)

type APIHandlers struct {
	validationService *services.Validation
	catalogService    *services.Catalog
	repository        *catalog.Repository
	validator         *validator.Validate
}

func NewAPIHandlers(
	validationService *services.Validation,
	catalogService *services.Catalog,
	repository *catalog.Repository,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		validationService: validationService,
		catalogService:    catalogService,
		repository:        repository,
		validator:         validator,
	}
}

// ValidateDocument checks an ad-hoc document and returns the full report.
// The report itself is a 200 even when the document is invalid; 400 is
// reserved for malformed requests.
func (h *APIHandlers) ValidateDocument(c fiber.Ctx) error {
	var req ValidateDocumentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.validationService.ValidateDocument(c.Context(), req.Document)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ValidateDocumentResponse{
		Valid:    result.Valid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

func (h *APIHandlers) GetDocuments(c fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		entries, err := h.catalogService.ListByCategory(c.Context(), category)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(entries)
	}

	entries, err := h.catalogService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(entries)
}

func (h *APIHandlers) GetDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Document ID is required")
	}

	entry, err := h.catalogService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(entry)
}

func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	req := ListRunsRequest{
		DocumentID: c.Query("document_id"),
		Limit:      DefaultRunsLimit,
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit: "+limitStr)
		}

		req.Limit = limit
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.DocumentID != "" {
		runs, err := h.validationService.RunsForDocument(c.Context(), req.DocumentID)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(runs)
	}

	runs, err := h.validationService.LatestRuns(c.Context(), req.Limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(runs)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.repository.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Microflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Microflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
