// Package validation implements the multi-stage checking pipeline for
// workflow documents: schema check, business/security/documentation rules
// and result aggregation.
package validation

import (
	"regexp"

	"github.com/microflowhq/microflow/pkg/models"
)

// Band is an inclusive node-count range. Max < 0 means unbounded.
type Band struct {
	Min int
	Max int
}

// Contains reports whether a node count falls inside the band.
func (b Band) Contains(count int) bool {
	if count < b.Min {
		return false
	}

	return b.Max < 0 || count <= b.Max
}

// RuleConfig carries the immutable rule tables the rule checker runs
// against. Built once at process start and passed in explicitly, so the
// checker stays a pure function of its inputs.
type RuleConfig struct {
	// IDPattern is the shape every workflow id must match:
	// function__tool__output.
	IDPattern *regexp.Regexp

	// ApprovedVerbs whitelists the first id segment.
	ApprovedVerbs []string

	// ComplexityBands maps each declared complexity to its expected node
	// count range.
	ComplexityBands map[models.Complexity]Band

	// CredentialPatterns are matched against the document bytes as
	// originally serialized, so unmodeled fields are scanned too.
	CredentialPatterns []*regexp.Regexp

	// MinExplanationLength is the minimum example explanation length in
	// characters.
	MinExplanationLength int

	// MinScenarios is the minimum number of example scenarios.
	MinScenarios int

	// MaxHighReuseDependencies is the dependency budget for workflows that
	// declare high reuse potential.
	MaxHighReuseDependencies int
}

// DefaultRuleConfig returns the catalog's standard rule tables.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		IDPattern: regexp.MustCompile(`^[a-z]+__[a-z]+__[a-z_]+$`),
		ApprovedVerbs: []string{
			"get", "post", "store", "validate", "transform", "enrich",
			"summarize", "classify", "route", "build", "create", "generate",
			"retry", "utils",
		},
		ComplexityBands: map[models.Complexity]Band{
			models.ComplexitySimple:  {Min: 0, Max: 3},
			models.ComplexityMedium:  {Min: 3, Max: 8},
			models.ComplexityComplex: {Min: 9, Max: -1},
		},
		// Key-value and assignment shapes for leaked secrets. A match on a
		// field name counts as much as a match on a value. The assignment
		// shape usually sits inside a JSON string literal, where the double
		// quotes around the value arrive backslash-escaped.
		CredentialPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)"(password|api_key|secret|token)"\s*:\s*"[^"]+"`),
			regexp.MustCompile(`(?i)\b(password|api_key|secret|token)\s*=\s*\\?["'][^"']+\\?["']`),
		},
		MinExplanationLength:     50,
		MinScenarios:             3,
		MaxHighReuseDependencies: 2,
	}
}
