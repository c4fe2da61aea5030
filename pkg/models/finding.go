package models

// Severity indicates whether a finding fails the overall result.
type Severity string

const (
	SeverityError   Severity = "error"   // Fails the validation result
	SeverityWarning Severity = "warning" // Informational, never fatal
)

// Finding type constants identify the kind of issue found.
const (
	FindingParseError         = "PARSE_ERROR"
	FindingSchemaValidation   = "SCHEMA_VALIDATION"
	FindingBusinessRule       = "BUSINESS_RULE"
	FindingSecurityViolation  = "SECURITY_VIOLATION"
	FindingTenantIsolation    = "TENANT_ISOLATION"
	FindingComplexityMismatch = "COMPLEXITY_MISMATCH"
	FindingReuseConcern       = "REUSE_CONCERN"
	FindingDocumentation      = "DOCUMENTATION"

	// FindingReliability aliases FindingSecurityViolation: missing error
	// handling has always been reported under the security type, and the
	// report format keeps that spelling for compatibility.
	FindingReliability = FindingSecurityViolation
)

// Finding is a single rule violation discovered during validation.
type Finding struct {
	Type      string   `json:"type"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Path      string   `json:"path,omitempty"`
	NodeIndex *int     `json:"nodeIndex,omitempty"`
}

// NewError builds an error-severity finding.
func NewError(findingType, message string) Finding {
	return Finding{Type: findingType, Severity: SeverityError, Message: message}
}

// NewWarning builds a warning-severity finding.
func NewWarning(findingType, message string) Finding {
	return Finding{Type: findingType, Severity: SeverityWarning, Message: message}
}

// WithPath returns a copy of the finding pinpointing a field path.
func (f Finding) WithPath(path string) Finding {
	f.Path = path

	return f
}

// WithNodeIndex returns a copy of the finding pinpointing a node.
func (f Finding) WithNodeIndex(index int) Finding {
	f.NodeIndex = &index

	return f
}

// ValidationResult is the output of one validation run. It is created fresh
// per call and owned by the caller; the pipeline holds no state between
// calls.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// ErrorCount returns the number of error-severity findings.
func (r *ValidationResult) ErrorCount() int {
	return len(r.Errors)
}

// WarningCount returns the number of warning-severity findings.
func (r *ValidationResult) WarningCount() int {
	return len(r.Warnings)
}

// ErrorsOfType returns the error findings carrying the given type tag.
func (r *ValidationResult) ErrorsOfType(findingType string) []Finding {
	matched := make([]Finding, 0)

	for _, f := range r.Errors {
		if f.Type == findingType {
			matched = append(matched, f)
		}
	}

	return matched
}

// WarningsOfType returns the warning findings carrying the given type tag.
func (r *ValidationResult) WarningsOfType(findingType string) []Finding {
	matched := make([]Finding, 0)

	for _, f := range r.Warnings {
		if f.Type == findingType {
			matched = append(matched, f)
		}
	}

	return matched
}
