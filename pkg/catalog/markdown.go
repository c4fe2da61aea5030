package catalog

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/microflowhq/microflow/pkg/models"
)

const catalogTemplate = `# Microflow Catalog

Generated {{ .GeneratedAt.Format "2006-01-02" }}. {{ .Total }} workflows.
{{ range .Sections }}
## {{ .Category }}

| ID | Complexity | Nodes | Tenant aware | Description |
|----|------------|-------|--------------|-------------|
{{- range .Entries }}
| {{ .ID }} | {{ .Complexity }} | {{ .NodeCount }} | {{ if .TenantAware }}yes{{ else }}no{{ end }} | {{ .Description }} |
{{- end }}
{{ end }}`

type catalogSection struct {
	Category string
	Entries  []*models.CatalogEntry
}

type catalogPage struct {
	GeneratedAt time.Time
	Total       int
	Sections    []catalogSection
}

// RenderMarkdown produces the CATALOG.md index, grouped by category and
// sorted by id within each group.
func RenderMarkdown(entries []*models.CatalogEntry, generatedAt time.Time) (string, error) {
	grouped := make(map[string][]*models.CatalogEntry)
	for _, entry := range entries {
		grouped[entry.Category] = append(grouped[entry.Category], entry)
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}

	sort.Strings(categories)

	sections := make([]catalogSection, 0, len(categories))

	for _, category := range categories {
		group := grouped[category]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })

		sections = append(sections, catalogSection{
			Category: category,
			Entries:  group,
		})
	}

	page := catalogPage{
		GeneratedAt: generatedAt,
		Total:       len(entries),
		Sections:    sections,
	}

	tmpl, err := template.New("catalog").Parse(catalogTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse catalog template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("failed to render catalog: %w", err)
	}

	return buf.String(), nil
}
