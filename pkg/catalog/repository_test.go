package catalog_test

import (
	"testing"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/persistence"
	"github.com/microflowhq/microflow/pkg/persistence/file"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *catalog.Repository {
	t.Helper()

	return catalog.NewRepository(file.NewPersistence(t.TempDir()))
}

func TestRepository_HealthCheck(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	message, healthy := repo.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.Equal(t, "Persistence layer is healthy", message)

	_, healthy = catalog.NewRepository(nil).HealthCheck(t.Context())
	assert.False(t, healthy)
}

func TestRepository_StoreAndFetch(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	entry := models.NewCatalogEntry(testutil.CreateTestDocument(), "")
	require.NoError(t, repo.Store(t.Context(), entry))

	all, err := repo.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)

	fetched, err := repo.FetchByID(t.Context(), "post__slack__team_notification")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCommunication, fetched.Category)

	byCategory, err := repo.FetchByCategory(t.Context(), models.CategoryCommunication)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	require.NoError(t, repo.Remove(t.Context(), "post__slack__team_notification"))

	_, err = repo.FetchByID(t.Context(), "post__slack__team_notification")
	assert.ErrorIs(t, err, persistence.ErrDocumentNotFound)
}
