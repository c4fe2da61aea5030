package validation

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// FileReport pairs a catalog file with its validation result.
type FileReport struct {
	Path   string                   `json:"path"`
	Result *models.ValidationResult `json:"result"`
}

// Summary aggregates a batch run.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// BatchValidator fans a directory of workflow documents out over a bounded
// worker pool. Each file's validation is independent and side-effect-free,
// so parallelizing never changes per-file output; reports are returned in
// lexical path order regardless of completion order.
type BatchValidator struct {
	pipeline *Pipeline
	workers  int
	logger   *slog.Logger
}

// NewBatchValidator builds a batch runner. workers values below 1 are
// clamped to 1.
func NewBatchValidator(pipeline *Pipeline, workers int, logger *slog.Logger) *BatchValidator {
	if workers < 1 {
		workers = 1
	}

	return &BatchValidator{
		pipeline: pipeline,
		workers:  workers,
		logger:   logger.With("module", "batch_validator"),
	}
}

// ValidateDirectory validates every *.json file under root.
func (bv *BatchValidator) ValidateDirectory(ctx context.Context, root string) ([]FileReport, Summary, error) {
	tracer := otel.Tracer("microflow/validation")
	ctx, span := otelhelper.StartSpan(ctx, tracer, "validation.batch",
		attribute.String(otelhelper.BatchRootKey, root),
	)
	defer span.End()

	files, err := collectDocumentFiles(root)
	if err != nil {
		otelhelper.RecordError(span, err)

		return nil, Summary{}, err
	}

	bv.logger.InfoContext(ctx, "Validating workflow documents", "root", root, "files", len(files), "workers", bv.workers)

	reports := make([]FileReport, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range bv.workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				reports[i] = FileReport{
					Path:   files[i],
					Result: bv.pipeline.ValidateFile(files[i]),
				}
			}
		}()
	}

	for i := range files {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	summary := Summarize(reports)
	span.SetAttributes(
		attribute.Int(otelhelper.BatchTotalKey, summary.Total),
		attribute.Int(otelhelper.BatchFailedKey, summary.Failed),
	)

	return reports, summary, nil
}

// Summarize computes batch counts from per-file reports.
func Summarize(reports []FileReport) Summary {
	summary := Summary{Total: len(reports)}

	for _, report := range reports {
		if report.Result.Valid {
			summary.Passed++
		} else {
			summary.Failed++
		}

		summary.Warnings += report.Result.WarningCount()
	}

	return summary
}

// collectDocumentFiles walks root and returns every .json file, sorted
// lexically so batch output is deterministic.
func collectDocumentFiles(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("cannot read catalog root %s: %w", root, err)
	}

	files := make([]string, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && filepath.Ext(path) == ".json" {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk catalog root %s: %w", root, err)
	}

	sort.Strings(files)

	return files, nil
}
