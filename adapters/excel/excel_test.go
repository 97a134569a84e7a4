package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/survey"
	apperrors "smmh/internal/errors"
	"smmh/internal/testkit"
)

func TestReadRawCSV(t *testing.T) {
	rows := []map[string]string{testkit.Respondent(), testkit.Respondent()}
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(testkit.CSV(testkit.RawTable(rows))), 0o644))

	tbl, err := NewDataReader(path, nil).ReadRaw()
	require.NoError(t, err)

	assert.Len(t, tbl.Headers, 21)
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, 2, tbl.Records[0].Line)
	assert.Equal(t, 3, tbl.Records[1].Line)
}

func TestReadRawRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1, 2 \n4,5,6\n"), 0o644))

	tbl, err := NewDataReader(path, nil).ReadRaw()
	require.NoError(t, err)

	require.Len(t, tbl.Records, 2)
	assert.Equal(t, "2", tbl.Records[0].Fields["b"])
	assert.Equal(t, "", tbl.Records[0].Fields["c"])
	assert.Equal(t, "6", tbl.Records[1].Fields["c"])
}

func TestReadRawMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv"), nil).ReadRaw()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIOError, apperrors.GetCode(err))
}

func TestReadRawEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := NewDataReader(path, nil).ReadRaw()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestExportAndReadXLSX(t *testing.T) {
	rec := survey.NewCleanRecord(2)
	rec.Age = survey.SomeInt(21)
	rec.AgeBand = "18-24"
	rec.PlatformsRaw = "Facebook, Instagram"
	ds := &survey.Dataset{Records: []survey.CleanRecord{rec}}

	path := filepath.Join(t.TempDir(), "clean.xlsx")
	require.NoError(t, ExportTable(path, ds.Table()))

	r := NewDataReader(path, nil)
	assert.Equal(t, "xlsx", r.FileType())
	tbl, err := r.ReadRaw()
	require.NoError(t, err)

	assert.Equal(t, survey.CleanColumns(), tbl.Headers)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "21", tbl.Records[0].Fields[survey.ColAge])
	assert.Equal(t, "18-24", tbl.Records[0].Fields[survey.ColAgeBand])
	assert.Equal(t, "Facebook, Instagram", tbl.Records[0].Fields[survey.ColPlatformsRaw])
	assert.Equal(t, "False", tbl.Records[0].Fields[survey.ColIncludeInAnalysis])
}

func TestReadCSVParseError(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,\"b\nc"), "broken.csv")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
