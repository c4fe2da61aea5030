package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/events"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/otelhelper"
	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Validation orchestrates the pipeline for the CLI and the API: it runs
// validations, records runs, and publishes catalog events. Persistence and
// the publisher are optional; a nil value disables that side effect.
type Validation struct {
	pipeline    *validation.Pipeline
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

func NewValidation(pipeline *validation.Pipeline, p persistence.Persistence, publisher eventbus.EventPublisher, logger *slog.Logger) *Validation {
	return &Validation{
		pipeline:    pipeline,
		persistence: p,
		publisher:   publisher,
		logger:      logger.With("module", "validation_service"),
	}
}

// ValidateDocument checks an ad-hoc document without recording a run.
func (s *Validation) ValidateDocument(ctx context.Context, data []byte) (*models.ValidationResult, error) {
	if len(data) == 0 {
		return nil, NewValidationError("ValidateDocument", "EMPTY_BODY", "document body is empty", ErrInvalidRequest)
	}

	return s.pipeline.Validate(data), nil
}

// RunFile validates one catalog file, stores the run, and publishes a
// DocumentValidated event. The returned run always carries the result, even
// when the document is invalid.
func (s *Validation) RunFile(ctx context.Context, path string) (*models.ValidationRun, error) {
	tracer := otel.Tracer("microflow/services")
	ctx, span := otelhelper.StartSpan(ctx, tracer, "validation.run_file",
		attribute.String(otelhelper.DocumentPathKey, path),
	)
	defer span.End()

	result := s.pipeline.ValidateFile(path)
	run := s.buildRun(path, result)

	span.SetAttributes(
		attribute.String(otelhelper.DocumentIDKey, run.DocumentID),
		attribute.String(otelhelper.RunIDKey, run.ID),
	)

	if err := s.recordRun(ctx, run); err != nil {
		otelhelper.RecordError(span, err)

		return nil, err
	}

	return run, nil
}

// RunDirectory validates every document under root with the given worker
// count, recording one run per file.
func (s *Validation) RunDirectory(ctx context.Context, root string, workers int) ([]validation.FileReport, validation.Summary, error) {
	batch := validation.NewBatchValidator(s.pipeline, workers, s.logger)

	reports, summary, err := batch.ValidateDirectory(ctx, root)
	if err != nil {
		return nil, validation.Summary{}, err
	}

	for _, report := range reports {
		run := s.buildRun(report.Path, report.Result)
		if err := s.recordRun(ctx, run); err != nil {
			return nil, validation.Summary{}, err
		}
	}

	return reports, summary, nil
}

// LatestRuns returns the most recent recorded runs, newest first.
func (s *Validation) LatestRuns(ctx context.Context, limit int) ([]*models.ValidationRun, error) {
	if s.persistence == nil {
		return make([]*models.ValidationRun, 0), nil
	}

	return s.persistence.ValidationRunRepository().Latest(ctx, limit)
}

// RunsForDocument returns the recorded runs for one document, newest first.
func (s *Validation) RunsForDocument(ctx context.Context, documentID string) ([]*models.ValidationRun, error) {
	if documentID == "" {
		return nil, NewValidationError("RunsForDocument", "MISSING_ID", "document id is required", ErrDocumentIDMissing)
	}

	if s.persistence == nil {
		return make([]*models.ValidationRun, 0), nil
	}

	return s.persistence.ValidationRunRepository().ByDocumentID(ctx, documentID)
}

func (s *Validation) buildRun(path string, result *models.ValidationResult) *models.ValidationRun {
	findings := make([]models.Finding, 0, len(result.Errors)+len(result.Warnings))
	findings = append(findings, result.Errors...)
	findings = append(findings, result.Warnings...)

	return &models.ValidationRun{
		ID:           uuid.New().String(),
		DocumentID:   documentIDForPath(path),
		Path:         path,
		Valid:        result.Valid,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Findings:     findings,
		RanAt:        time.Now().UTC(),
	}
}

func (s *Validation) recordRun(ctx context.Context, run *models.ValidationRun) error {
	if s.persistence != nil {
		if err := s.persistence.ValidationRunRepository().Save(ctx, run); err != nil {
			return fmt.Errorf("failed to record validation run: %w", err)
		}
	}

	if s.publisher != nil {
		event := events.NewDocumentValidated(run.ID, run.DocumentID)
		event.Path = run.Path
		event.Valid = run.Valid
		event.ErrorCount = run.ErrorCount
		event.WarningCount = run.WarningCount

		if err := s.publisher.Publish(ctx, run.DocumentID, event); err != nil {
			return fmt.Errorf("failed to publish validation event: %w", err)
		}
	}

	return nil
}

// documentIDForPath extracts the document id, preferring the declared
// workflow_meta.id and falling back to the filename stem when the file does
// not decode.
func documentIDForPath(path string) string {
	data, err := os.ReadFile(path)
	if err == nil {
		var doc models.WorkflowDocument
		if err := json.Unmarshal(data, &doc); err == nil && doc.WorkflowMeta.ID != "" {
			return doc.WorkflowMeta.ID
		}
	}

	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
