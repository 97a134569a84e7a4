package report

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"smmh/domain/survey"
	"smmh/internal/vocab"
)

// DataDictionary renders data_dictionary.md from the column catalogue
func (r *Renderer) DataDictionary(v *vocab.Vocabulary) string {
	var b strings.Builder
	b.WriteString("# Data Dictionary\n\n")
	b.WriteString(r.generated())
	b.WriteString("\nMissing values are empty cells. Booleans are `True`/`False`; flags are `0`/`1`.\n\n")

	cat := survey.Catalogue()
	rows := make([]table.Row, 0, len(cat))
	for _, c := range cat {
		original := c.Source
		if q, ok := v.Question(c.Source); ok {
			original = q
		}
		rows = append(rows, table.Row{c.Name, string(c.Kind), c.Allowed, c.Description, original})
	}
	b.WriteString(markdownTable(table.Row{"Cleaned Name", "Type", "Allowed Values", "Description", "Original Column"}, rows))
	return b.String()
}
