package catalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_GroupsByCategory(t *testing.T) {
	t.Parallel()

	entries := []*models.CatalogEntry{
		models.NewCatalogEntry(testutil.CreateTestDocument(
			testutil.WithID("store__supabase__lead_record"),
			testutil.WithCategory(models.CategoryData),
		), ""),
		models.NewCatalogEntry(testutil.CreateTestDocument(), ""),
		models.NewCatalogEntry(testutil.CreateTestDocument(
			testutil.WithID("get__http__user_profile"),
			testutil.WithCategory(models.CategoryData),
		), ""),
	}

	out, err := catalog.RenderMarkdown(entries, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, out, "Generated 2026-08-23. 3 workflows.")
	assert.Contains(t, out, "## communication")
	assert.Contains(t, out, "## data")

	// Categories are sorted, and ids are sorted inside each category.
	communication := strings.Index(out, "## communication")
	data := strings.Index(out, "## data")
	assert.Less(t, communication, data)

	getRow := strings.Index(out, "| get__http__user_profile |")
	storeRow := strings.Index(out, "| store__supabase__lead_record |")
	assert.Greater(t, getRow, data)
	assert.Less(t, getRow, storeRow)
}

func TestRenderMarkdown_EmptyCatalog(t *testing.T) {
	t.Parallel()

	out, err := catalog.RenderMarkdown(nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "0 workflows.")
	assert.NotContains(t, out, "##")
}
