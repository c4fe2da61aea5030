package models_test

import (
	"encoding/json"
	"testing"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentFixture = `{
	"workflow_meta": {
		"id": "post__slack__team_notification",
		"name": "Slack team notification",
		"description": "Posts a formatted notification message to a Slack channel.",
		"category": "communication",
		"complexity": "simple",
		"tenantAware": "no",
		"dependencies": ["slack"]
	},
	"inputs": {"message": {"type": "string"}},
	"outputs": {"ok": {"type": "boolean"}},
	"implementation": {
		"n8n_nodes": [
			{
				"name": "Webhook",
				"type": "n8n-nodes-base.webhook",
				"parameters": {"path": "team-notification"},
				"errorHandling": {"strategy": "fail"}
			},
			{
				"name": "Format",
				"type": "n8n-nodes-base.set",
				"errorHandling": {"strategy": "continue"}
			},
			{
				"name": "Slack",
				"type": "n8n-nodes-base.slack",
				"credentials": "slack_bot",
				"errorHandling": {"strategy": "retry", "maxRetries": 3, "fallback": "log"},
				"timeout": 5000
			}
		]
	},
	"example": {
		"explanation": "Receives a message over the webhook, formats it and posts it to the team Slack channel.",
		"scenarios": [{"name": "plain"}, {"name": "mention"}, {"name": "empty"}]
	},
	"reuse_info": {"potential": "high"}
}`

func TestWorkflowDocument_Unmarshal(t *testing.T) {
	t.Parallel()

	var doc models.WorkflowDocument
	err := json.Unmarshal([]byte(documentFixture), &doc)
	require.NoError(t, err)

	assert.Equal(t, "post__slack__team_notification", doc.WorkflowMeta.ID)
	assert.Equal(t, models.CategoryCommunication, doc.WorkflowMeta.Category)
	assert.Equal(t, models.ComplexitySimple, doc.WorkflowMeta.Complexity)
	assert.Equal(t, 3, doc.NodeCount())
	assert.False(t, doc.IsTenantAware())

	slack := doc.Implementation.N8NNodes[2]
	require.NotNil(t, slack.ErrorHandling)
	assert.Equal(t, "retry", slack.ErrorHandling.Strategy)
	assert.Equal(t, 3, slack.ErrorHandling.MaxRetries)
	assert.InDelta(t, 5000.0, slack.Timeout, 0.001)
}

func TestWorkflowDocument_IsTenantAware(t *testing.T) {
	t.Parallel()

	doc := models.WorkflowDocument{}
	assert.False(t, doc.IsTenantAware())

	doc.WorkflowMeta.TenantAware = "no"
	assert.False(t, doc.IsTenantAware())

	doc.WorkflowMeta.TenantAware = models.TenantAwareYes
	assert.True(t, doc.IsTenantAware())
}

func TestValidationResult_Counts(t *testing.T) {
	t.Parallel()

	result := models.ValidationResult{
		Valid: false,
		Errors: []models.Finding{
			models.NewError(models.FindingBusinessRule, "bad prefix"),
			models.NewError(models.FindingTenantIsolation, "missing tenantIsolation"),
		},
		Warnings: []models.Finding{
			models.NewWarning(models.FindingDocumentation, "short explanation"),
		},
	}

	assert.Equal(t, 2, result.ErrorCount())
	assert.Equal(t, 1, result.WarningCount())
	assert.Len(t, result.ErrorsOfType(models.FindingBusinessRule), 1)
	assert.Len(t, result.ErrorsOfType(models.FindingSecurityViolation), 0)
	assert.Len(t, result.WarningsOfType(models.FindingDocumentation), 1)
}

func TestFinding_WithNodeIndex(t *testing.T) {
	t.Parallel()

	f := models.NewError(models.FindingSecurityViolation, "node declares no error handling").
		WithNodeIndex(2).
		WithPath("implementation.n8n_nodes[2].errorHandling")

	require.NotNil(t, f.NodeIndex)
	assert.Equal(t, 2, *f.NodeIndex)
	assert.Equal(t, "implementation.n8n_nodes[2].errorHandling", f.Path)
}

func TestNewCatalogEntry(t *testing.T) {
	t.Parallel()

	var doc models.WorkflowDocument
	require.NoError(t, json.Unmarshal([]byte(documentFixture), &doc))

	entry := models.NewCatalogEntry(&doc, "communication/post__slack__team_notification.json")

	assert.Equal(t, doc.WorkflowMeta.ID, entry.ID)
	assert.Equal(t, "communication", entry.Category)
	assert.Equal(t, 3, entry.NodeCount)
	assert.False(t, entry.TenantAware)
	assert.Equal(t, []string{"slack"}, entry.Dependencies)
}
