package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"smmh/domain/stats"
	apperrors "smmh/internal/errors"
)

var hypothesisHeader = []string{
	"id", "predictor", "outcome", "test", "n", "groups", "statistic", "p_value",
	"effect_name", "effect_size", "effect", "significant", "alpha", "skipped", "skip_reason",
}

// HypothesesCSV renders hypothesis_results.csv; skipped rows leave numeric cells empty
func HypothesesCSV(results []stats.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(hypothesisHeader); err != nil {
		return nil, apperrors.Wrap(err, "write hypothesis header")
	}
	for _, r := range results {
		row := []string{r.ID.String(), r.Predictor, r.Outcome, string(r.Test), strconv.Itoa(r.N), "", "", "", "", "", "", "", num(r.Alpha), strconv.FormatBool(r.Skipped), r.SkipReason}
		if !r.Skipped {
			if r.Groups > 0 {
				row[5] = strconv.Itoa(r.Groups)
			}
			row[6] = num(r.Statistic)
			row[7] = num(r.PValue)
			row[8] = r.EffectName
			row[9] = num(r.EffectSize)
			row[10] = string(r.Effect)
			row[11] = strconv.FormatBool(r.Significant)
		}
		if err := w.Write(row); err != nil {
			return nil, apperrors.Wrap(err, "write hypothesis row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.Wrap(err, "flush hypothesis csv")
	}
	return buf.Bytes(), nil
}

// HypothesesJSON renders hypothesis_results.json
func HypothesesJSON(results []stats.Result) ([]byte, error) {
	if results == nil {
		results = []stats.Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "marshal hypothesis results")
	}
	return append(data, '\n'), nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', 10, 64)
}
