// Package csvio persists tables as UTF-8 CSV.
package csvio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"

	"smmh/adapters/excel"
	"smmh/domain/core"
	"smmh/domain/survey"
	apperrors "smmh/internal/errors"
)

// Encode renders a table as CSV bytes
func Encode(tbl survey.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tbl.Header); err != nil {
		return nil, apperrors.Wrap(err, "write csv header")
	}
	if err := w.WriteAll(tbl.Rows); err != nil {
		return nil, apperrors.Wrap(err, "write csv rows")
	}
	return buf.Bytes(), nil
}

// WriteFile writes the table and returns the content hash. Parent
// directories are created.
func WriteFile(path string, tbl survey.Table) (core.Hash, error) {
	data, err := Encode(tbl)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", apperrors.IOError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.IOError(path, err)
	}
	return core.NewHash(data), nil
}

// ReadFile loads a CSV written by WriteFile along with its content hash
func ReadFile(path string) (survey.Table, core.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return survey.Table{}, "", apperrors.IOError(path, err)
	}
	rows, err := excel.ReadCSV(bytes.NewReader(data), path)
	if err != nil {
		return survey.Table{}, "", err
	}
	if len(rows) == 0 {
		return survey.Table{}, "", apperrors.InvalidInput(path + " is empty")
	}
	tbl := survey.Table{Header: rows[0], Rows: rows[1:]}
	for i, row := range tbl.Rows {
		for len(row) < len(tbl.Header) {
			row = append(row, "")
		}
		tbl.Rows[i] = row
	}
	return tbl, core.NewHash(data), nil
}

// HashFile returns the sha256 of a file's content
func HashFile(path string) (core.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.IOError(path, err)
	}
	return core.NewHash(data), nil
}
