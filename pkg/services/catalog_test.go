package services_test

import (
	"context"
	"testing"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/persistence/file"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
}

func (g *countingGenerator) Generate(_ context.Context, _ string) ([]float64, error) {
	g.calls++

	return []float64{0.1, 0.2}, nil
}

func newCatalogService(t *testing.T) (*services.Catalog, *catalog.Repository, *countingGenerator) {
	t.Helper()

	repo := catalog.NewRepository(file.NewPersistence(t.TempDir()))
	generator := &countingGenerator{}

	return services.NewCatalog(repo, generator, testLogger()), repo, generator
}

func TestCatalog_ListAndGet(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newCatalogService(t)

	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(), "")))
	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(
		testutil.WithID("get__http__user_profile"),
		testutil.WithCategory(models.CategoryData),
	), "")))

	all, err := svc.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	entry, err := svc.Get(t.Context(), "get__http__user_profile")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryData, entry.Category)

	_, err = svc.Get(t.Context(), "")
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))

	_, err = svc.Get(t.Context(), "post__slack__missing")
	assert.ErrorIs(t, err, persistence.ErrDocumentNotFound)
}

func TestCatalog_ListByCategory(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newCatalogService(t)

	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(), "")))

	entries, err := svc.ListByCategory(t.Context(), models.CategoryCommunication)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.ListByCategory(t.Context(), "nonsense")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrUnknownCategory)
}

func TestCatalog_Markdown(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newCatalogService(t)

	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(), "")))

	out, err := svc.Markdown(t.Context())
	require.NoError(t, err)
	assert.Contains(t, out, "## communication")
	assert.Contains(t, out, "post__slack__team_notification")
}

func TestCatalog_WarmEmbeddings(t *testing.T) {
	t.Parallel()

	svc, repo, generator := newCatalogService(t)

	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(), "")))
	require.NoError(t, repo.Store(t.Context(), models.NewCatalogEntry(testutil.CreateTestDocument(
		testutil.WithID("get__http__user_profile"),
		testutil.WithCategory(models.CategoryData),
	), "")))

	warmed, err := svc.WarmEmbeddings(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)
	assert.Equal(t, 2, generator.calls)
}

func TestCatalog_WarmEmbeddings_NoGenerator(t *testing.T) {
	t.Parallel()

	repo := catalog.NewRepository(file.NewPersistence(t.TempDir()))
	svc := services.NewCatalog(repo, nil, testLogger())

	_, err := svc.WarmEmbeddings(t.Context())
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}
