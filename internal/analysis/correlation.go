package analysis

import (
	"smmh/adapters/stats/senses"
	"smmh/domain/survey"
)

// CorrelationCell is one behaviour x wellbeing pair
type CorrelationCell struct {
	Row     string  `json:"row"`
	Col     string  `json:"col"`
	Rho     float64 `json:"rho"`
	PValue  float64 `json:"p_value"`
	N       int     `json:"n"`
	Defined bool    `json:"defined"`
}

// CorrelationMatrix holds Spearman results for every row/column pair
type CorrelationMatrix struct {
	Rows  []string            `json:"rows"`
	Cols  []string            `json:"cols"`
	Cells [][]CorrelationCell `json:"cells"`
}

// Cell looks up a pair by name
func (m CorrelationMatrix) Cell(row, col string) (CorrelationCell, bool) {
	for i, r := range m.Rows {
		if r != row {
			continue
		}
		for j, c := range m.Cols {
			if c == col {
				return m.Cells[i][j], true
			}
		}
	}
	return CorrelationCell{}, false
}

// SpearmanMatrix correlates each row column with each col column. Pairs
// below minPairs or without variance are left undefined.
func SpearmanMatrix(records []survey.CleanRecord, rows, cols []string, minPairs int) CorrelationMatrix {
	sense := senses.NewSpearmanSense()
	m := CorrelationMatrix{Rows: rows, Cols: cols, Cells: make([][]CorrelationCell, len(rows))}
	for i, r := range rows {
		m.Cells[i] = make([]CorrelationCell, len(cols))
		for j, c := range cols {
			xs, ys := CompletePairs(records, r, c)
			cell := CorrelationCell{Row: r, Col: c, N: len(xs)}
			if len(xs) >= minPairs {
				if res, err := sense.Analyze(xs, ys, r, c); err == nil {
					cell.Rho = res.Statistic
					cell.PValue = res.PValue
					cell.Defined = true
				}
			}
			m.Cells[i][j] = cell
		}
	}
	return m
}

// MatrixBehaviour are the usage and comparison items on the matrix rows
var MatrixBehaviour = []string{
	survey.ColPurposelessUse,
	survey.ColDistractedWhenBusy,
	survey.ColRestlessWithoutSM,
	survey.ColCompareToSuccessful,
	survey.ColSeekValidation,
}

// MatrixWellbeing are the mood, sleep and focus items on the matrix columns
var MatrixWellbeing = []string{
	survey.ColLowMoodFreq,
	survey.ColSleepIssues,
	survey.ColWorriesBother,
	survey.ColDifficultyConcentrating,
}

// BehaviourWellbeingMatrix is the 5x4 matrix shown in the EDA summary
func BehaviourWellbeingMatrix(records []survey.CleanRecord, minPairs int) CorrelationMatrix {
	return SpearmanMatrix(records, MatrixBehaviour, MatrixWellbeing, minPairs)
}
