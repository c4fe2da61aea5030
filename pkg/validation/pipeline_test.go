package validation_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/microflowhq/microflow/pkg/testutil"
	"github.com/microflowhq/microflow/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline() *validation.Pipeline {
	return validation.NewPipeline(validation.DefaultRuleConfig())
}

func marshalDocument(t *testing.T, doc *models.WorkflowDocument) []byte {
	t.Helper()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	return data
}

func TestPipeline_ValidDocument(t *testing.T) {
	t.Parallel()

	data := marshalDocument(t, testutil.CreateTestDocument())
	result := newPipeline().Validate(data)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestPipeline_UnapprovedIDYieldsBothNamingErrors(t *testing.T) {
	t.Parallel()

	data := marshalDocument(t, testutil.CreateTestDocument(testutil.WithID("notify_team")))
	result := newPipeline().Validate(data)

	assert.False(t, result.Valid)

	naming := result.ErrorsOfType(models.FindingBusinessRule)
	require.Len(t, naming, 2)
	assert.Contains(t, naming[0].Message, "pattern")
	assert.Contains(t, naming[1].Message, "approved verb")
}

func TestPipeline_MalformedJSONShortCircuits(t *testing.T) {
	t.Parallel()

	result := newPipeline().Validate([]byte(`{"workflow_meta": {`))

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.FindingParseError, result.Errors[0].Type)
	assert.Empty(t, result.Warnings)
}

func TestPipeline_SchemaViolationsAreCollected(t *testing.T) {
	t.Parallel()

	// Missing implementation entirely and an out-of-enum category.
	data := []byte(`{
		"workflow_meta": {
			"id": "get__http__user_profile",
			"category": "marketing",
			"complexity": "simple"
		}
	}`)
	result := newPipeline().Validate(data)

	assert.False(t, result.Valid)
	schemaErrors := result.ErrorsOfType(models.FindingSchemaValidation)
	require.Len(t, schemaErrors, 2)

	// Rule findings still show up after the schema ones: the empty node
	// list satisfies simple complexity, but documentation warnings fire.
	assert.NotEmpty(t, result.WarningsOfType(models.FindingDocumentation))
}

func TestPipeline_SchemaFindingsComeBeforeRuleFindings(t *testing.T) {
	t.Parallel()

	doc := testutil.CreateTestDocument(testutil.WithID("notify_team"))
	doc.WorkflowMeta.Category = "marketing"

	result := newPipeline().Validate(marshalDocument(t, doc))

	require.GreaterOrEqual(t, len(result.Errors), 3)
	assert.Equal(t, models.FindingSchemaValidation, result.Errors[0].Type)
	assert.Equal(t, models.FindingBusinessRule, result.Errors[1].Type)
	assert.Equal(t, models.FindingBusinessRule, result.Errors[2].Type)
}

func TestPipeline_SecretInUnmodeledFieldIsDetected(t *testing.T) {
	t.Parallel()

	// The credential scan runs over the raw input, so a secret in a field
	// the typed model does not carry must still surface.
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(marshalDocument(t, testutil.CreateTestDocument()), &asMap))

	meta, ok := asMap["workflow_meta"].(map[string]any)
	require.True(t, ok)
	meta["password"] = "abc12345"

	data, err := json.Marshal(asMap)
	require.NoError(t, err)

	result := newPipeline().Validate(data)

	assert.False(t, result.Valid)

	violations := result.ErrorsOfType(models.FindingSecurityViolation)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "password")
}

func TestPipeline_Idempotence(t *testing.T) {
	t.Parallel()

	data := marshalDocument(t, testutil.CreateTestDocument(
		testutil.WithID("notify_team"),
		testutil.WithoutErrorHandling(),
		testutil.WithExample("short"),
	))

	pipeline := newPipeline()
	first := pipeline.Validate(data)
	second := pipeline.Validate(data)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestPipeline_ValidateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "communication")
	require.NoError(t, os.MkdirAll(catalogDir, 0o755))

	doc := testutil.CreateTestDocument()
	path := filepath.Join(catalogDir, doc.WorkflowMeta.ID+".json")
	require.NoError(t, os.WriteFile(path, marshalDocument(t, doc), 0o644))

	result := newPipeline().ValidateFile(path)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestPipeline_ValidateFile_NameMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "communication")
	require.NoError(t, os.MkdirAll(catalogDir, 0o755))

	path := filepath.Join(catalogDir, "renamed.json")
	require.NoError(t, os.WriteFile(path, marshalDocument(t, testutil.CreateTestDocument()), 0o644))

	result := newPipeline().ValidateFile(path)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.FindingBusinessRule, result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "renamed")
}

func TestPipeline_ValidateFile_CategoryMismatchIsWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "utility")
	require.NoError(t, os.MkdirAll(catalogDir, 0o755))

	doc := testutil.CreateTestDocument()
	path := filepath.Join(catalogDir, doc.WorkflowMeta.ID+".json")
	require.NoError(t, os.WriteFile(path, marshalDocument(t, doc), 0o644))

	result := newPipeline().ValidateFile(path)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.FindingBusinessRule, result.Warnings[0].Type)
}

func TestPipeline_ValidateFile_NameMismatchSurvivesBrokenFieldTypes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogDir := filepath.Join(dir, "communication")
	require.NoError(t, os.MkdirAll(catalogDir, 0o755))

	// n8n_nodes as a string parses as JSON but does not decode into the
	// typed model; the filename check still runs off the raw id.
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(marshalDocument(t, testutil.CreateTestDocument()), &asMap))
	asMap["implementation"] = map[string]any{"n8n_nodes": "not-a-list"}

	data, err := json.Marshal(asMap)
	require.NoError(t, err)

	path := filepath.Join(catalogDir, "renamed.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result := newPipeline().ValidateFile(path)

	assert.False(t, result.Valid)

	mismatches := result.ErrorsOfType(models.FindingBusinessRule)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "workflow_meta.id", mismatches[0].Path)
	assert.Contains(t, mismatches[0].Message, "renamed")
}

func TestPipeline_ValidateFile_Unreadable(t *testing.T) {
	t.Parallel()

	result := newPipeline().ValidateFile(filepath.Join(t.TempDir(), "missing.json"))

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.FindingParseError, result.Errors[0].Type)
}
