package services_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/microflowhq/microflow/pkg/catalog"
	"github.com/microflowhq/microflow/pkg/ghsync"
	"github.com/microflowhq/microflow/pkg/persistence/file"
	"github.com/microflowhq/microflow/pkg/services"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/microflowhq/microflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRESTClient struct {
	responses map[string]string
	putPaths  []string
}

func (c *fakeRESTClient) DoWithContext(_ context.Context, method, path string, body io.Reader, response any) error {
	if method == http.MethodPut {
		c.putPaths = append(c.putPaths, path)

		return nil
	}

	canned, ok := c.responses[method+" "+path]
	if !ok {
		return fmt.Errorf("unexpected request: %s %s", method, path)
	}

	if response == nil {
		return nil
	}

	return json.Unmarshal([]byte(canned), response)
}

func remoteCatalog(t *testing.T) *fakeRESTClient {
	t.Helper()

	valid, err := json.Marshal(testutil.CreateTestDocument())
	require.NoError(t, err)

	invalid, err := json.Marshal(testutil.CreateTestDocument(testutil.WithID("notify_team")))
	require.NoError(t, err)

	encode := func(data []byte) string { return base64.StdEncoding.EncodeToString(data) }

	return &fakeRESTClient{
		responses: map[string]string{
			"GET repos/microflowhq/catalog/contents/workflows": `[
				{"name": "communication", "path": "workflows/communication", "type": "dir"}
			]`,
			"GET repos/microflowhq/catalog/contents/workflows/communication": `[
				{"name": "post__slack__team_notification.json", "path": "workflows/communication/post__slack__team_notification.json", "type": "file"},
				{"name": "notify_team.json", "path": "workflows/communication/notify_team.json", "type": "file"}
			]`,
			"GET repos/microflowhq/catalog/contents/workflows/communication/post__slack__team_notification.json": `{
				"content": "` + encode(valid) + `", "encoding": "base64", "sha": "sha1"
			}`,
			"GET repos/microflowhq/catalog/contents/workflows/communication/notify_team.json": `{
				"content": "` + encode(invalid) + `", "encoding": "base64", "sha": "sha2"
			}`,
		},
	}
}

func TestSync_Run(t *testing.T) {
	t.Parallel()

	client := remoteCatalog(t)
	syncer := ghsync.NewSyncerWithClient(testLogger(), client, "microflowhq/catalog", "", "workflows")
	repo := catalog.NewRepository(file.NewPersistence(t.TempDir()))
	pipeline := validation.NewPipeline(validation.DefaultRuleConfig())

	svc := services.NewSync(syncer, pipeline, repo, nil, testLogger())

	report, err := svc.Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 1, report.Stored)
	assert.Equal(t, 1, report.Failed)

	// The invalid document must never reach the catalog.
	entries, err := repo.FetchAll(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "post__slack__team_notification", entries[0].ID)

	// The regenerated index is pushed back.
	assert.Contains(t, client.putPaths, "repos/microflowhq/catalog/contents/"+services.CatalogFileName)
}

func TestSync_Run_PullFailure(t *testing.T) {
	t.Parallel()

	client := &fakeRESTClient{responses: map[string]string{}}
	syncer := ghsync.NewSyncerWithClient(testLogger(), client, "microflowhq/catalog", "", "workflows")
	repo := catalog.NewRepository(file.NewPersistence(t.TempDir()))

	svc := services.NewSync(syncer, validation.NewPipeline(validation.DefaultRuleConfig()), repo, nil, testLogger())

	_, err := svc.Run(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to pull remote catalog")
}
