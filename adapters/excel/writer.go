package excel

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"smmh/domain/survey"
	apperrors "smmh/internal/errors"
)

// CleanedSheet is the worksheet name of the exported dataset
const CleanedSheet = "cleaned"

// ExportTable writes a table to an xlsx workbook. Numeric, ordinal and
// flag cells are written as numbers so spreadsheet filters work.
func ExportTable(path string, tbl survey.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CleanedSheet); err != nil {
		return apperrors.Wrap(err, "rename sheet")
	}

	kinds := columnKinds()
	header := make([]interface{}, len(tbl.Header))
	for i, h := range tbl.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(CleanedSheet, "A1", &header); err != nil {
		return apperrors.Wrap(err, "write header")
	}

	for i, row := range tbl.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(kinds[tbl.Header[j]], v)
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.Wrap(err, "cell reference")
		}
		if err := f.SetSheetRow(CleanedSheet, ref, &cells); err != nil {
			return apperrors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.SetPanes(CleanedSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return apperrors.Wrap(err, "freeze header")
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.IOError(path, err)
	}
	return nil
}

func columnKinds() map[string]survey.Kind {
	out := make(map[string]survey.Kind, survey.ColumnCount)
	for _, c := range survey.Catalogue() {
		out[c.Name] = c.Kind
	}
	return out
}

func cellValue(kind survey.Kind, v string) interface{} {
	if v == "" {
		return nil
	}
	switch kind {
	case survey.KindNumeric, survey.KindOrdinal, survey.KindFlag:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}
