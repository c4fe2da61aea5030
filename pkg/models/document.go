// Package models defines the core domain models for the microflow catalog.
package models

// Complexity represents the declared complexity band of a workflow.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"  // At most 3 nodes
	ComplexityMedium  Complexity = "medium"  // Between 3 and 8 nodes
	ComplexityComplex Complexity = "complex" // More than 8 nodes
)

// Category values a workflow document may declare. The catalog directory a
// document lives in is expected to match its category.
const (
	CategoryCommunication = "communication"
	CategoryData          = "data"
	CategoryAI            = "ai"
	CategoryIntegration   = "integration"
	CategoryUtility       = "utility"
)

// Categories lists every valid workflow category.
func Categories() []string {
	return []string{
		CategoryCommunication,
		CategoryData,
		CategoryAI,
		CategoryIntegration,
		CategoryUtility,
	}
}

// TenantAwareYes marks a document that touches tenant-scoped data and must
// therefore declare tenant isolation configuration.
const TenantAwareYes = "yes"

// WorkflowDocument is a declarative JSON description of an N8N microflow.
// It is read-only input to the validation pipeline; the pipeline never
// mutates it.
type WorkflowDocument struct {
	WorkflowMeta   WorkflowMeta   `json:"workflow_meta"`
	Inputs         map[string]any `json:"inputs,omitempty"`
	Outputs        map[string]any `json:"outputs,omitempty"`
	Implementation Implementation `json:"implementation"`
	Example        Example        `json:"example,omitempty"`
	ReuseInfo      ReuseInfo      `json:"reuse_info,omitempty"`
}

// WorkflowMeta carries the identity and classification of a workflow.
type WorkflowMeta struct {
	ID              string           `json:"id"                        validate:"required"`
	Name            string           `json:"name,omitempty"`
	Description     string           `json:"description,omitempty"`
	Category        string           `json:"category"                  validate:"required"`
	Complexity      Complexity       `json:"complexity"                validate:"required"`
	TenantAware     string           `json:"tenantAware,omitempty"`
	Dependencies    []string         `json:"dependencies,omitempty"`
	TenantIsolation *TenantIsolation `json:"tenantIsolation,omitempty"`
}

// TenantIsolation declares how a tenant-aware workflow keeps customer data
// separated. Checked for presence only; enforcement happens inside N8N and
// the persistence layer.
type TenantIsolation struct {
	Required bool              `json:"required"`
	Tables   []TableDescriptor `json:"tables,omitempty"`
}

// TableDescriptor names a persistence table the workflow touches and the
// column that scopes its rows to a tenant.
type TableDescriptor struct {
	Name        string `json:"name"`
	TenantField string `json:"tenantField,omitempty"`
}

// Implementation holds the N8N-side realization of the workflow.
type Implementation struct {
	N8NNodes []*NodeSpec `json:"n8n_nodes"`
}

// NodeSpec is one step inside a workflow document.
type NodeSpec struct {
	Name          string         `json:"name,omitempty"`
	Type          string         `json:"type"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	Credentials   string         `json:"credentials,omitempty"`
	ErrorHandling *ErrorHandling `json:"errorHandling,omitempty"`
	Timeout       float64        `json:"timeout,omitempty"` // milliseconds
}

// ErrorHandling describes how a node reacts to failures.
type ErrorHandling struct {
	Strategy   string `json:"strategy"` // retry, continue or fail
	MaxRetries int    `json:"maxRetries,omitempty"`
	Fallback   string `json:"fallback,omitempty"`
}

// Example documents how the workflow behaves, with concrete scenarios.
type Example struct {
	Explanation string     `json:"explanation,omitempty"`
	Scenarios   []Scenario `json:"scenarios,omitempty"`
}

// Scenario is one worked example or test case for a workflow.
type Scenario struct {
	Name   string         `json:"name,omitempty"`
	Input  map[string]any `json:"input,omitempty"`
	Output map[string]any `json:"output,omitempty"`
}

// ReuseInfo describes how reusable the workflow is across projects.
type ReuseInfo struct {
	Potential string `json:"potential,omitempty"` // high, medium or low
	Notes     string `json:"notes,omitempty"`
}

// NodeCount returns the number of nodes in the implementation.
func (d *WorkflowDocument) NodeCount() int {
	return len(d.Implementation.N8NNodes)
}

// IsTenantAware reports whether the document declares itself tenant-aware.
func (d *WorkflowDocument) IsTenantAware() bool {
	return d.WorkflowMeta.TenantAware == TenantAwareYes
}
