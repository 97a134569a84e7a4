// Package excel reads raw survey exports (CSV or XLSX) and writes the
// cleaned dataset as a spreadsheet.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"smmh/domain/survey"
	"smmh/internal"
	apperrors "smmh/internal/errors"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader; the type is chosen by file extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// FileType reports "csv" or "xlsx"
func (r *DataReader) FileType() string { return r.fileType }

// ReadRaw reads the file into a raw table keyed by the original headers
func (r *DataReader) ReadRaw() (*survey.RawTable, error) {
	r.logger.Info("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, apperrors.IOError(r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", strings.ToUpper(r.fileType),
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s has no header row", r.filePath))
	}
	return r.processRows(rows), nil
}

// readExcelRows reads the first worksheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.IOError(r.filePath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s has no worksheets", r.filePath))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.IOError(r.filePath, fmt.Errorf("read sheet %s: %w", sheets[0], err))
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, apperrors.IOError(r.filePath, err)
	}
	defer file.Close()
	return ReadCSV(file, r.filePath)
}

// ReadCSV parses CSV text; ragged rows are allowed
func ReadCSV(src io.Reader, name string) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.WithCode(apperrors.CodeInvalidInput, err), "parse %s", name)
	}
	return rows, nil
}

// processRows converts string rows into a raw table. Headers are kept
// verbatim; the normalizer owns header cleanup.
func (r *DataReader) processRows(rows [][]string) *survey.RawTable {
	headers := append([]string(nil), rows[0]...)

	tbl := &survey.RawTable{Source: r.filePath, Headers: headers}
	for i := 1; i < len(rows); i++ {
		fields := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rows[i]) {
				fields[h] = strings.TrimSpace(rows[i][j])
			} else {
				fields[h] = ""
			}
		}
		tbl.Records = append(tbl.Records, survey.RawRecord{Line: i + 1, Fields: fields})
	}

	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(tbl.Records))
	return tbl
}
