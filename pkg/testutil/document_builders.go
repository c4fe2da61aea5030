// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/microflowhq/microflow/pkg/models"
)

// CreateTestDocument creates a fully valid workflow document with default
// values that can be overridden. The defaults describe a simple Slack
// notification microflow with three nodes, each declaring error handling.
func CreateTestDocument(overrides ...func(*models.WorkflowDocument)) *models.WorkflowDocument {
	doc := &models.WorkflowDocument{
		WorkflowMeta: models.WorkflowMeta{
			ID:           "post__slack__team_notification",
			Name:         "Slack team notification",
			Description:  "Posts a formatted notification message to a Slack channel.",
			Category:     models.CategoryCommunication,
			Complexity:   models.ComplexitySimple,
			TenantAware:  "no",
			Dependencies: []string{"slack"},
		},
		Inputs:  map[string]any{"message": map[string]any{"type": "string"}},
		Outputs: map[string]any{"ok": map[string]any{"type": "boolean"}},
		Implementation: models.Implementation{
			N8NNodes: []*models.NodeSpec{
				{
					Name:          "Webhook",
					Type:          "n8n-nodes-base.webhook",
					Parameters:    map[string]any{"path": "team-notification"},
					ErrorHandling: &models.ErrorHandling{Strategy: "fail"},
				},
				{
					Name:          "Format",
					Type:          "n8n-nodes-base.set",
					ErrorHandling: &models.ErrorHandling{Strategy: "continue"},
				},
				{
					Name:          "Slack",
					Type:          "n8n-nodes-base.slack",
					Credentials:   "slack_bot",
					ErrorHandling: &models.ErrorHandling{Strategy: "retry", MaxRetries: 3, Fallback: "log"},
					Timeout:       5000,
				},
			},
		},
		Example: models.Example{
			Explanation: "Receives a message over the webhook, formats it and posts it to the team Slack channel.",
			Scenarios: []models.Scenario{
				{Name: "plain message"},
				{Name: "message with mention"},
				{Name: "empty message"},
			},
		},
		ReuseInfo: models.ReuseInfo{Potential: "high"},
	}

	for _, override := range overrides {
		override(doc)
	}

	return doc
}

// WithID sets the workflow id.
func WithID(id string) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.WorkflowMeta.ID = id
	}
}

// WithCategory sets the workflow category.
func WithCategory(category string) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.WorkflowMeta.Category = category
	}
}

// WithComplexity sets the declared complexity.
func WithComplexity(complexity models.Complexity) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.WorkflowMeta.Complexity = complexity
	}
}

// WithNodeCount replaces the implementation with n generic nodes, each with
// a declared error handling strategy.
func WithNodeCount(n int) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		nodes := make([]*models.NodeSpec, 0, n)
		for range n {
			nodes = append(nodes, &models.NodeSpec{
				Type:          "n8n-nodes-base.noOp",
				ErrorHandling: &models.ErrorHandling{Strategy: "continue"},
			})
		}

		d.Implementation.N8NNodes = nodes
	}
}

// WithoutErrorHandling strips the error handling block from every node.
func WithoutErrorHandling() func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		for _, node := range d.Implementation.N8NNodes {
			node.ErrorHandling = nil
		}
	}
}

// WithTenantAware marks the document tenant-aware with the given isolation
// block.
func WithTenantAware(isolation *models.TenantIsolation) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.WorkflowMeta.TenantAware = models.TenantAwareYes
		d.WorkflowMeta.TenantIsolation = isolation
	}
}

// WithDependencies sets the external dependencies.
func WithDependencies(deps ...string) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.WorkflowMeta.Dependencies = deps
	}
}

// WithReusePotential sets the declared reuse potential.
func WithReusePotential(potential string) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.ReuseInfo.Potential = potential
	}
}

// WithExample sets the example block.
func WithExample(explanation string, scenarios ...models.Scenario) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		d.Example = models.Example{Explanation: explanation, Scenarios: scenarios}
	}
}

// WithNodeParameter sets one parameter on the node at index.
func WithNodeParameter(index int, key string, value any) func(*models.WorkflowDocument) {
	return func(d *models.WorkflowDocument) {
		node := d.Implementation.N8NNodes[index]
		if node.Parameters == nil {
			node.Parameters = map[string]any{}
		}

		node.Parameters[key] = value
	}
}
