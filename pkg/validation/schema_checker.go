package validation

import (
	"fmt"

	"github.com/microflowhq/microflow/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaChecker validates a document's shape against the workflow document
// JSON Schema. The schema loader is built once and reused for every check.
type SchemaChecker struct {
	schema gojsonschema.JSONLoader
}

// NewSchemaChecker builds a checker around the given schema.
func NewSchemaChecker(schema *models.JSONSchema) *SchemaChecker {
	return &SchemaChecker{
		schema: gojsonschema.NewGoLoader(schema),
	}
}

// Check validates the parsed document against the schema. Every violation
// becomes a SCHEMA_VALIDATION error finding carrying the structural path to
// the offending field; enum violations include the allowed value set in the
// message. A non-nil error means the check itself could not run.
func (sc *SchemaChecker) Check(document map[string]any) ([]models.Finding, error) {
	result, err := gojsonschema.Validate(sc.schema, gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	findings := make([]models.Finding, 0)

	for _, desc := range result.Errors() {
		finding := models.NewError(models.FindingSchemaValidation, desc.Description()).
			WithPath(desc.Field())
		findings = append(findings, finding)
	}

	return findings, nil
}
