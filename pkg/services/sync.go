package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/events"
	"github.com/microflowhq/microflow/pkg/ghsync"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/validation"
)

// CatalogFileName is the catalog index uploaded back to the remote repo.
const CatalogFileName = "CATALOG.md"

// SyncReport summarizes one sync cycle.
type SyncReport struct {
	Fetched int
	Stored  int
	Failed  int
}

// Sync pulls workflow documents from GitHub, validates them, stores the
// valid ones, and pushes the regenerated catalog index back.
type Sync struct {
	syncer     *ghsync.Syncer
	pipeline   *validation.Pipeline
	repository *catalog.Repository
	publisher  eventbus.EventPublisher
	logger     *slog.Logger
}

func NewSync(syncer *ghsync.Syncer, pipeline *validation.Pipeline, repository *catalog.Repository, publisher eventbus.EventPublisher, logger *slog.Logger) *Sync {
	return &Sync{
		syncer:     syncer,
		pipeline:   pipeline,
		repository: repository,
		publisher:  publisher,
		logger:     logger.With("module", "sync_service"),
	}
}

// Run executes one sync cycle. Documents that fail validation are counted
// and skipped, never stored.
func (s *Sync) Run(ctx context.Context) (*SyncReport, error) {
	files, err := s.syncer.Pull(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to pull remote catalog: %w", err)
	}

	report := &SyncReport{Fetched: len(files)}

	for _, file := range files {
		result := s.pipeline.Validate(file.Content)
		if !result.Valid {
			s.logger.WarnContext(ctx, "Skipping invalid remote document", "path", file.Path, "errors", result.ErrorCount())

			report.Failed++

			continue
		}

		var doc models.WorkflowDocument
		if err := json.Unmarshal(file.Content, &doc); err != nil {
			report.Failed++

			continue
		}

		entry := models.NewCatalogEntry(&doc, file.Path)
		if err := s.repository.Store(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", entry.ID, err)
		}

		report.Stored++
	}

	if err := s.uploadIndex(ctx); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := events.NewCatalogSynced(s.syncer.Repository())
		event.Fetched = report.Fetched
		event.Stored = report.Stored
		event.Failed = report.Failed

		if err := s.publisher.Publish(ctx, s.syncer.Repository(), event); err != nil {
			return nil, fmt.Errorf("failed to publish sync event: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Catalog sync completed",
		"fetched", report.Fetched, "stored", report.Stored, "failed", report.Failed)

	return report, nil
}

func (s *Sync) uploadIndex(ctx context.Context) error {
	entries, err := s.repository.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog for index: %w", err)
	}

	index, err := catalog.RenderMarkdown(entries, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to render catalog index: %w", err)
	}

	message := "Update catalog index"
	if err := s.syncer.UploadCatalog(ctx, CatalogFileName, message, []byte(index)); err != nil {
		return fmt.Errorf("failed to upload catalog index: %w", err)
	}

	return nil
}
