package validation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/microflowhq/microflow/pkg/models"
)

// Pipeline runs the full validation sequence over one document: schema
// check, then rule check, then aggregation. A pipeline is stateless between
// calls and safe for concurrent use.
type Pipeline struct {
	schemaChecker *SchemaChecker
	ruleChecker   *RuleChecker
}

// NewPipeline builds a pipeline with the standard document schema and the
// given rule tables.
func NewPipeline(config RuleConfig) *Pipeline {
	return &Pipeline{
		schemaChecker: NewSchemaChecker(models.DocumentSchema()),
		ruleChecker:   NewRuleChecker(config),
	}
}

// Validate checks a raw JSON document. Unparseable input short-circuits
// with a single PARSE_ERROR finding; everything else is collected
// exhaustively so the caller sees the full picture in one run.
func (p *Pipeline) Validate(data []byte) *models.ValidationResult {
	result, _ := p.validate(data)

	return result
}

// ValidateFile checks the document at path, including the file layout
// convention (<category>/<id>.json). An unreadable file is reported the
// same way as unparseable content: one PARSE_ERROR finding, nothing else.
func (p *Pipeline) ValidateFile(path string) *models.ValidationResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return parseFailure(fmt.Sprintf("cannot read %s: %v", path, err))
	}

	result, doc := p.validate(data)
	if doc == nil {
		return result
	}

	for _, f := range p.ruleChecker.CheckLocation(doc, path) {
		appendFinding(result, f)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// validate returns the parsed document alongside the result so file-level
// callers can run location checks; doc is nil when parsing failed and the
// raw workflow_meta carries no usable id.
func (p *Pipeline) validate(data []byte) (*models.ValidationResult, *models.WorkflowDocument) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return parseFailure(fmt.Sprintf("document is not valid JSON: %v", err)), nil
	}

	schemaFindings, err := p.schemaChecker.Check(raw)
	if err != nil {
		return parseFailure(err.Error()), nil
	}

	// A document that is valid JSON but does not decode into the typed
	// model (wrong field types) is fully described by its schema findings;
	// the typed rules are skipped, but the location check still runs off
	// the raw workflow_meta strings.
	var doc models.WorkflowDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Aggregate(schemaFindings, nil), locationView(raw)
	}

	ruleFindings := p.ruleChecker.Check(&doc, data)

	return Aggregate(schemaFindings, ruleFindings), &doc
}

// locationView rebuilds just enough of a document for the file layout
// check when the typed decode fails: the raw workflow_meta id and category
// strings. Returns nil when no id is present.
func locationView(raw map[string]any) *models.WorkflowDocument {
	meta, ok := raw["workflow_meta"].(map[string]any)
	if !ok {
		return nil
	}

	id, ok := meta["id"].(string)
	if !ok || id == "" {
		return nil
	}

	doc := &models.WorkflowDocument{}
	doc.WorkflowMeta.ID = id

	if category, ok := meta["category"].(string); ok {
		doc.WorkflowMeta.Category = category
	}

	return doc
}

func parseFailure(message string) *models.ValidationResult {
	return &models.ValidationResult{
		Valid: false,
		Errors: []models.Finding{
			models.NewError(models.FindingParseError, message),
		},
		Warnings: make([]models.Finding, 0),
	}
}
