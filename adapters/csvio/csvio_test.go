package csvio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/survey"
	apperrors "smmh/internal/errors"
)

func TestWriteReadFile(t *testing.T) {
	tbl := survey.Table{
		Header: []string{"platforms_raw", "age"},
		Rows: [][]string{
			{"Facebook, Instagram", "21"},
			{"", ""},
		},
	}
	path := filepath.Join(t.TempDir(), "nested", "clean.csv")

	hash, err := WriteFile(path, tbl)
	require.NoError(t, err)
	assert.False(t, hash.IsEmpty())

	got, readHash, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tbl, got)
	assert.Equal(t, hash, readHash)

	again, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestEncodeQuotesCommas(t *testing.T) {
	data, err := Encode(survey.Table{Header: []string{"a"}, Rows: [][]string{{"x, y"}}})
	require.NoError(t, err)
	assert.Equal(t, "a\n\"x, y\"\n", string(data))
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, apperrors.CodeIOError, apperrors.GetCode(err))
}
