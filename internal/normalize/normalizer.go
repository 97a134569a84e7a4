// Package normalize maps raw survey headers onto canonical column names.
package normalize

import (
	"strings"

	"smmh/domain/survey"
	"smmh/internal"
	"smmh/internal/errors"
	"smmh/internal/vocab"
)

const bom = "\ufeff"

// Result is the header-normalized form of a raw table
type Result struct {
	Rows    []survey.CanonicalRow
	Columns []string // canonical names present, in input order
	Dropped []string // raw headers with no canonical mapping
}

// Normalizer applies the vocabulary header map
type Normalizer struct {
	vocab  *vocab.Vocabulary
	logger *internal.Logger
}

// New creates a normalizer
func New(v *vocab.Vocabulary, logger *internal.Logger) *Normalizer {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Normalizer{vocab: v, logger: logger}
}

// Normalize rekeys every record by canonical column. It fails when any
// known question header is absent from the input.
func (n *Normalizer) Normalize(raw *survey.RawTable) (*Result, error) {
	mapping := make(map[string]string, len(raw.Headers))
	present := make(map[string]bool, len(raw.Headers))
	res := &Result{}

	for _, h := range raw.Headers {
		clean := strings.TrimSpace(strings.TrimPrefix(h, bom))
		name, ok := n.vocab.Canonical(clean)
		if !ok {
			n.logger.Warn("[Normalizer] dropping unknown column %q", h)
			res.Dropped = append(res.Dropped, h)
			continue
		}
		if present[name] {
			n.logger.Warn("[Normalizer] column %q maps to %s which is already mapped, ignoring", h, name)
			res.Dropped = append(res.Dropped, h)
			continue
		}
		present[name] = true
		mapping[clean] = name
		res.Columns = append(res.Columns, name)
	}

	var missing []string
	for _, q := range n.vocab.Headers() {
		if _, ok := mapping[q]; !ok {
			missing = append(missing, q)
		}
	}
	if len(missing) > 0 {
		return nil, errors.SchemaMismatch(missing)
	}

	res.Rows = make([]survey.CanonicalRow, len(raw.Records))
	for i, rec := range raw.Records {
		values := make(map[string]string, len(mapping))
		for h, v := range rec.Fields {
			if name, ok := mapping[strings.TrimSpace(strings.TrimPrefix(h, bom))]; ok {
				values[name] = v
			}
		}
		res.Rows[i] = survey.CanonicalRow{Line: rec.Line, Values: values}
	}

	n.logger.Debug("[Normalizer] mapped %d columns, dropped %d, rows=%d", len(res.Columns), len(res.Dropped), len(res.Rows))
	return res, nil
}
