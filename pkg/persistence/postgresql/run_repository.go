package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
)

// ValidationRunRepository stores validation runs in the validation_runs table.
type ValidationRunRepository struct {
	db *sql.DB
}

const runColumns = "id, document_id, path, valid, error_count, warning_count, findings, ran_at"

// Save persists one validation run.
func (r *ValidationRunRepository) Save(ctx context.Context, run *models.ValidationRun) error {
	findingsJSON, err := json.Marshal(run.Findings)
	if err != nil {
		return fmt.Errorf("failed to serialize findings for run %s: %w", run.ID, err)
	}

	query := `
		INSERT INTO validation_runs (
			id, document_id, path, valid, error_count, warning_count, findings, ran_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.DocumentID, run.Path, run.Valid,
		run.ErrorCount, run.WarningCount, findingsJSON, run.RanAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save validation run %s: %w", run.ID, err)
	}

	return nil
}

// ByDocumentID returns every stored run for one document, newest first.
func (r *ValidationRunRepository) ByDocumentID(ctx context.Context, documentID string) ([]*models.ValidationRun, error) {
	query := "SELECT " + runColumns + " FROM validation_runs WHERE document_id = $1 ORDER BY ran_at DESC"

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation runs for %s: %w", documentID, err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// Latest returns the most recent runs, newest first.
func (r *ValidationRunRepository) Latest(ctx context.Context, limit int) ([]*models.ValidationRun, error) {
	query := "SELECT " + runColumns + " FROM validation_runs ORDER BY ran_at DESC"

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query latest validation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

func scanRun(row rowScanner) (*models.ValidationRun, error) {
	var (
		run          models.ValidationRun
		path         sql.NullString
		findingsJSON []byte
	)

	err := row.Scan(
		&run.ID, &run.DocumentID, &path, &run.Valid,
		&run.ErrorCount, &run.WarningCount, &findingsJSON, &run.RanAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, err
	}

	run.Path = path.String

	if len(findingsJSON) > 0 {
		if err := json.Unmarshal(findingsJSON, &run.Findings); err != nil {
			return nil, fmt.Errorf("failed to decode findings for run %s: %w", run.ID, err)
		}
	}

	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]*models.ValidationRun, error) {
	runs := make([]*models.ValidationRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate validation runs: %w", err)
	}

	return runs, nil
}
