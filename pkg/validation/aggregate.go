package validation

import "github.com/microflowhq/microflow/pkg/models"

// Aggregate merges schema and rule findings into one result. Schema findings
// come first, then rule findings, each sequence keeping its relative order,
// so CLI output and test assertions stay deterministic. Overlapping concerns
// reported by both checkers are kept as-is; nothing is deduplicated.
func Aggregate(schemaFindings, ruleFindings []models.Finding) *models.ValidationResult {
	result := &models.ValidationResult{
		Errors:   make([]models.Finding, 0, len(schemaFindings)+len(ruleFindings)),
		Warnings: make([]models.Finding, 0),
	}

	for _, f := range schemaFindings {
		appendFinding(result, f)
	}

	for _, f := range ruleFindings {
		appendFinding(result, f)
	}

	result.Valid = len(result.Errors) == 0

	return result
}

func appendFinding(result *models.ValidationResult, f models.Finding) {
	if f.Severity == models.SeverityError {
		result.Errors = append(result.Errors, f)

		return
	}

	result.Warnings = append(result.Warnings, f)
}
