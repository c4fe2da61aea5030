package models

// JSONSchema represents a JSON Schema used for document shape validation.
type JSONSchema struct {
	Type        string               `json:"type"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
}

// Property represents a JSON Schema property.
type Property struct {
	Type        string               `json:"type"`
	Description string               `json:"description,omitempty"`
	Enum        []any                `json:"enum,omitempty"`
	Default     any                  `json:"default,omitempty"`
	Format      string               `json:"format,omitempty"`
	MinLength   *int                 `json:"minLength,omitempty"`
	MaxLength   *int                 `json:"maxLength,omitempty"`
	Pattern     string               `json:"pattern,omitempty"`
	Items       *Property            `json:"items,omitempty"`
	Properties  map[string]*Property `json:"properties,omitempty"`
	Required    []string             `json:"required,omitempty"`
}

// DocumentSchema builds the JSON Schema every workflow document must
// conform to. Constructed once per process and shared; the schema itself is
// immutable after construction.
//
// Naming conventions (id pattern, approved verbs) are deliberately absent:
// those are business rules, reported under their own finding types by the
// rule checker.
func DocumentSchema() *JSONSchema {
	categories := make([]any, 0, len(Categories()))
	for _, c := range Categories() {
		categories = append(categories, c)
	}

	return &JSONSchema{
		Type:     "object",
		Title:    "Workflow Document",
		Required: []string{"workflow_meta", "implementation"},
		Properties: map[string]*Property{
			"workflow_meta": {
				Type:     "object",
				Required: []string{"id", "category", "complexity"},
				Properties: map[string]*Property{
					"id":          {Type: "string"},
					"name":        {Type: "string"},
					"description": {Type: "string"},
					"category":    {Type: "string", Enum: categories},
					"complexity": {
						Type: "string",
						Enum: []any{
							string(ComplexitySimple),
							string(ComplexityMedium),
							string(ComplexityComplex),
						},
					},
					"tenantAware":  {Type: "string", Enum: []any{"yes", "no"}},
					"dependencies": {Type: "array", Items: &Property{Type: "string"}},
					"tenantIsolation": {
						Type: "object",
						Properties: map[string]*Property{
							"required": {Type: "boolean"},
							"tables": {
								Type: "array",
								Items: &Property{
									Type:     "object",
									Required: []string{"name"},
									Properties: map[string]*Property{
										"name":        {Type: "string"},
										"tenantField": {Type: "string"},
									},
								},
							},
						},
					},
				},
			},
			"inputs":  {Type: "object"},
			"outputs": {Type: "object"},
			"implementation": {
				Type:     "object",
				Required: []string{"n8n_nodes"},
				Properties: map[string]*Property{
					"n8n_nodes": {
						Type: "array",
						Items: &Property{
							Type:     "object",
							Required: []string{"type"},
							Properties: map[string]*Property{
								"name":        {Type: "string"},
								"type":        {Type: "string"},
								"parameters":  {Type: "object"},
								"credentials": {Type: "string"},
								"errorHandling": {
									Type:     "object",
									Required: []string{"strategy"},
									Properties: map[string]*Property{
										"strategy": {
											Type: "string",
											Enum: []any{"retry", "continue", "fail"},
										},
										"maxRetries": {Type: "integer"},
										"fallback":   {Type: "string"},
									},
								},
								"timeout": {Type: "number"},
							},
						},
					},
				},
			},
			"example": {
				Type: "object",
				Properties: map[string]*Property{
					"explanation": {Type: "string"},
					"scenarios":   {Type: "array", Items: &Property{Type: "object"}},
				},
			},
			"reuse_info": {
				Type: "object",
				Properties: map[string]*Property{
					"potential": {Type: "string", Enum: []any{"high", "medium", "low"}},
					"notes":     {Type: "string"},
				},
			},
		},
	}
}
