package validation

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/microflowhq/microflow/pkg/models"
)

// RuleChecker runs the catalog's business, security, tenant-isolation and
// documentation rules over a parsed document. Every sub-rule runs even when
// earlier ones fail, so one pass surfaces the complete set of issues.
type RuleChecker struct {
	config RuleConfig
}

// NewRuleChecker builds a checker around the given rule tables.
func NewRuleChecker(config RuleConfig) *RuleChecker {
	return &RuleChecker{config: config}
}

// Check runs every sub-rule and returns the combined findings in a fixed
// order: naming, complexity, reuse, credentials, error handling, tenant
// isolation, documentation. raw is the document as originally serialized;
// the credential patterns scan it directly so fields outside the typed
// model are still covered. A nil raw falls back to re-serializing doc.
func (rc *RuleChecker) Check(doc *models.WorkflowDocument, raw []byte) []models.Finding {
	findings := make([]models.Finding, 0)

	findings = append(findings, rc.checkNaming(doc)...)
	findings = append(findings, rc.checkComplexityBand(doc)...)
	findings = append(findings, rc.checkReuse(doc)...)
	findings = append(findings, rc.checkCredentialLeaks(doc, raw)...)
	findings = append(findings, rc.checkErrorHandling(doc)...)
	findings = append(findings, rc.checkTenantIsolation(doc)...)
	findings = append(findings, rc.checkDocumentation(doc)...)

	return findings
}

// CheckLocation validates the file layout convention: a document must live
// at <category>/<id>.json. A filename/id mismatch is an error, a category
// directory mismatch only a warning.
func (rc *RuleChecker) CheckLocation(doc *models.WorkflowDocument, path string) []models.Finding {
	findings := make([]models.Finding, 0)

	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	if stem != doc.WorkflowMeta.ID {
		findings = append(findings, models.NewError(
			models.FindingBusinessRule,
			fmt.Sprintf("file name %q does not match workflow_meta.id %q", stem, doc.WorkflowMeta.ID),
		).WithPath("workflow_meta.id"))
	}

	categoryDir := filepath.Base(filepath.Dir(path))
	if categoryDir != doc.WorkflowMeta.Category {
		findings = append(findings, models.NewWarning(
			models.FindingBusinessRule,
			fmt.Sprintf("file lives under directory %q but workflow_meta.category is %q", categoryDir, doc.WorkflowMeta.Category),
		).WithPath("workflow_meta.category"))
	}

	return findings
}

func (rc *RuleChecker) checkNaming(doc *models.WorkflowDocument) []models.Finding {
	findings := make([]models.Finding, 0)
	id := doc.WorkflowMeta.ID

	if !rc.config.IDPattern.MatchString(id) {
		findings = append(findings, models.NewError(
			models.FindingBusinessRule,
			fmt.Sprintf("workflow id %q does not match the function__tool__output pattern %q", id, rc.config.IDPattern.String()),
		).WithPath("workflow_meta.id"))
	}

	verb := strings.Split(id, "__")[0]
	if !slices.Contains(rc.config.ApprovedVerbs, verb) {
		findings = append(findings, models.NewError(
			models.FindingBusinessRule,
			fmt.Sprintf("workflow id prefix %q is not an approved verb (allowed: %s)", verb, strings.Join(rc.config.ApprovedVerbs, ", ")),
		).WithPath("workflow_meta.id"))
	}

	return findings
}

func (rc *RuleChecker) checkComplexityBand(doc *models.WorkflowDocument) []models.Finding {
	band, known := rc.config.ComplexityBands[doc.WorkflowMeta.Complexity]
	if !known {
		// Unknown complexity values are the schema checker's concern.
		return nil
	}

	count := doc.NodeCount()
	if band.Contains(count) {
		return nil
	}

	expected := fmt.Sprintf("at least %d", band.Min)
	if band.Max >= 0 {
		expected = fmt.Sprintf("between %d and %d", band.Min, band.Max)
	}

	return []models.Finding{
		models.NewWarning(
			models.FindingComplexityMismatch,
			fmt.Sprintf("complexity %q expects %s nodes, found %d", doc.WorkflowMeta.Complexity, expected, count),
		).WithPath("implementation.n8n_nodes"),
	}
}

func (rc *RuleChecker) checkReuse(doc *models.WorkflowDocument) []models.Finding {
	if doc.ReuseInfo.Potential != "high" {
		return nil
	}

	deps := len(doc.WorkflowMeta.Dependencies)
	if deps <= rc.config.MaxHighReuseDependencies {
		return nil
	}

	return []models.Finding{
		models.NewWarning(
			models.FindingReuseConcern,
			fmt.Sprintf("high reuse potential with %d external dependencies (expected at most %d); consider reducing coupling", deps, rc.config.MaxHighReuseDependencies),
		).WithPath("workflow_meta.dependencies"),
	}
}

func (rc *RuleChecker) checkCredentialLeaks(doc *models.WorkflowDocument, raw []byte) []models.Finding {
	serialized := raw
	if serialized == nil {
		var err error

		serialized, err = json.Marshal(doc)
		if err != nil {
			// A document that made it through parsing always marshals back.
			return nil
		}
	}

	findings := make([]models.Finding, 0)

	for _, pattern := range rc.config.CredentialPatterns {
		match := pattern.Find(serialized)
		if match == nil {
			continue
		}

		findings = append(findings, models.NewError(
			models.FindingSecurityViolation,
			fmt.Sprintf("document contains a hardcoded credential (matched %q)", string(match)),
		))
	}

	return findings
}

func (rc *RuleChecker) checkErrorHandling(doc *models.WorkflowDocument) []models.Finding {
	findings := make([]models.Finding, 0)

	for i, node := range doc.Implementation.N8NNodes {
		if node.ErrorHandling != nil && strings.TrimSpace(node.ErrorHandling.Strategy) != "" {
			continue
		}

		name := node.Name
		if name == "" {
			name = node.Type
		}

		findings = append(findings, models.NewError(
			models.FindingSecurityViolation,
			fmt.Sprintf("node %q declares no error handling strategy", name),
		).WithNodeIndex(i).WithPath(fmt.Sprintf("implementation.n8n_nodes[%d].errorHandling", i)))
	}

	return findings
}

func (rc *RuleChecker) checkTenantIsolation(doc *models.WorkflowDocument) []models.Finding {
	if !doc.IsTenantAware() {
		return nil
	}

	isolation := doc.WorkflowMeta.TenantIsolation
	if isolation == nil || !isolation.Required {
		return []models.Finding{
			models.NewError(
				models.FindingTenantIsolation,
				"tenant-aware workflow must declare tenantIsolation.required",
			).WithPath("workflow_meta.tenantIsolation"),
		}
	}

	findings := make([]models.Finding, 0)

	for i, table := range isolation.Tables {
		if table.TenantField != "" {
			continue
		}

		findings = append(findings, models.NewError(
			models.FindingTenantIsolation,
			fmt.Sprintf("table %q declares no tenantField", table.Name),
		).WithPath(fmt.Sprintf("workflow_meta.tenantIsolation.tables[%d]", i)))
	}

	return findings
}

func (rc *RuleChecker) checkDocumentation(doc *models.WorkflowDocument) []models.Finding {
	findings := make([]models.Finding, 0)

	if explanation := doc.Example.Explanation; len(explanation) < rc.config.MinExplanationLength {
		findings = append(findings, models.NewWarning(
			models.FindingDocumentation,
			fmt.Sprintf("example explanation is %d characters, expected at least %d", len(explanation), rc.config.MinExplanationLength),
		).WithPath("example.explanation"))
	}

	if scenarios := len(doc.Example.Scenarios); scenarios < rc.config.MinScenarios {
		findings = append(findings, models.NewWarning(
			models.FindingDocumentation,
			fmt.Sprintf("document has %d example scenarios, expected at least %d", scenarios, rc.config.MinScenarios),
		).WithPath("example.scenarios"))
	}

	return findings
}
