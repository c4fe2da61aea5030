package services_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/microflowhq/microflow/pkg/channels/gochannel"
	"github.com/microflowhq/microflow/pkg/eventbus"
	"github.com/microflowhq/microflow/pkg/events"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence/file"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/microflowhq/microflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeDocument(t *testing.T, root string, doc *models.WorkflowDocument) string {
	t.Helper()

	dir := filepath.Join(root, doc.WorkflowMeta.Category)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(dir, doc.WorkflowMeta.ID+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func newValidationService(t *testing.T, root string) (*services.Validation, *file.Persistence, chan *events.DocumentValidated) {
	t.Helper()

	p := file.NewPersistence(root)

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	received := make(chan *events.DocumentValidated, 16)

	require.NoError(t, bus.Handle(events.DocumentValidatedEvent, func(_ context.Context, event any) error {
		validated, ok := event.(*events.DocumentValidated)
		require.True(t, ok)

		received <- validated

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	pipeline := validation.NewPipeline(validation.DefaultRuleConfig())

	return services.NewValidation(pipeline, p, bus, testLogger()), p, received
}

func waitForEvent(t *testing.T, received chan *events.DocumentValidated) *events.DocumentValidated {
	t.Helper()

	select {
	case event := <-received:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for validation event")

		return nil
	}
}

func TestValidation_ValidateDocument(t *testing.T) {
	t.Parallel()

	svc, _, _ := newValidationService(t, t.TempDir())

	data, err := json.Marshal(testutil.CreateTestDocument())
	require.NoError(t, err)

	result, err := svc.ValidateDocument(t.Context(), data)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = svc.ValidateDocument(t.Context(), nil)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestValidation_RunFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc, p, received := newValidationService(t, root)

	path := writeDocument(t, root, testutil.CreateTestDocument())

	run, err := svc.RunFile(t.Context(), path)
	require.NoError(t, err)

	assert.True(t, run.Valid)
	assert.Equal(t, "post__slack__team_notification", run.DocumentID)
	assert.Equal(t, path, run.Path)
	assert.Zero(t, run.ErrorCount)
	assert.NotEmpty(t, run.ID)

	stored, err := p.ValidationRunRepository().ByDocumentID(t.Context(), "post__slack__team_notification")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, run.ID, stored[0].ID)

	event := waitForEvent(t, received)
	assert.Equal(t, run.ID, event.RunID)
	assert.True(t, event.Valid)
}

func TestValidation_RunFile_InvalidDocument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc, p, received := newValidationService(t, root)

	path := writeDocument(t, root, testutil.CreateTestDocument(
		testutil.WithID("notify_team"),
	))

	run, err := svc.RunFile(t.Context(), path)
	require.NoError(t, err)

	assert.False(t, run.Valid)
	// Naming-pattern error plus the approved-verb error.
	assert.Equal(t, 2, run.ErrorCount)
	assert.NotEmpty(t, run.Findings)

	event := waitForEvent(t, received)
	assert.False(t, event.Valid)
	assert.Equal(t, run.ErrorCount, event.ErrorCount)

	stored, err := p.ValidationRunRepository().Latest(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestValidation_RunDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc, p, received := newValidationService(t, root)

	writeDocument(t, root, testutil.CreateTestDocument())
	writeDocument(t, root, testutil.CreateTestDocument(
		testutil.WithID("get__http__user_profile"),
		testutil.WithCategory(models.CategoryData),
	))
	writeDocument(t, root, testutil.CreateTestDocument(
		testutil.WithID("notify_team"),
	))

	reports, summary, err := svc.RunDirectory(t.Context(), root, 4)
	require.NoError(t, err)

	assert.Len(t, reports, 3)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Failed)

	runs, err := p.ValidationRunRepository().Latest(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	for range 3 {
		waitForEvent(t, received)
	}
}

func TestValidation_RunDirectory_MissingRoot(t *testing.T) {
	t.Parallel()

	svc, _, _ := newValidationService(t, t.TempDir())

	_, _, err := svc.RunDirectory(t.Context(), filepath.Join(t.TempDir(), "missing"), 2)
	assert.Error(t, err)
}
