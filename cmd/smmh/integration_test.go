package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/internal/errors"
	"smmh/internal/report"
	"smmh/internal/testkit"
)

// runCmd executes a fresh root command and returns its stdout
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "ERROR"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeRaw(t *testing.T, dir string) string {
	t.Helper()
	raw := filepath.Join(dir, "raw.csv")
	tbl := testkit.NewSurveyGenerator(testkit.DefaultSurveyConfig()).Generate()
	require.NoError(t, os.WriteFile(raw, []byte(testkit.CSV(tbl)), 0o644))
	return raw
}

func TestCLI_RunWritesEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	raw := writeRaw(t, dir)
	clean := filepath.Join(dir, "processed", "clean.csv")
	reports := filepath.Join(dir, "reports")

	out, err := runCmd(t, "run", "--input", raw, "--output", clean, "--reports", reports, "--xlsx", filepath.Join(dir, "clean.xlsx"))
	require.NoError(t, err, out)

	assert.Contains(t, out, "481 rows in, 481 rows out")
	assert.Contains(t, out, "H3 rho=")
	for _, name := range report.Names {
		_, err := os.Stat(filepath.Join(reports, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "clean.xlsx"))
	assert.NoError(t, err)
}

func TestCLI_ValidateDetectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	raw := writeRaw(t, dir)
	clean := filepath.Join(dir, "clean.csv")

	_, err := runCmd(t, "etl", "--input", raw, "--output", clean, "--reports", filepath.Join(dir, "reports"))
	require.NoError(t, err)

	out, err := runCmd(t, "validate", clean)
	require.NoError(t, err, out)
	assert.Contains(t, out, "duplicate_rows")
	assert.Contains(t, out, "PASS")

	data, err := os.ReadFile(clean)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	tampered := append(lines, lines[len(lines)-1])
	require.NoError(t, os.WriteFile(clean, []byte(strings.Join(tampered, "\n")+"\n"), 0o644))

	out, err = runCmd(t, "validate", clean)
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	assert.Contains(t, out, "FAIL")
}

func TestCLI_ETLMissingInput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := runCmd(t, "etl", "--input", filepath.Join(dir, "absent.csv"), "--output", filepath.Join(dir, "clean.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}

func TestCLI_ConfigFileAndDatabase(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	raw := writeRaw(t, dir)

	cfg := "paths:\n" +
		"  raw_input: " + raw + "\n" +
		"  clean_output: " + filepath.Join(dir, "clean.csv") + "\n" +
		"  reports_dir: " + filepath.Join(dir, "out") + "\n" +
		"database:\n" +
		"  url: sqlite://" + filepath.Join(dir, "runs.db") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smmh.yaml"), []byte(cfg), 0o644))

	out, err := runCmd(t, "run")
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, "out", report.FileEDASummary))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "runs.db"))
	assert.NoError(t, err)
}

func TestCLI_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SMMH_PRIVACY_MIN_CELL_COUNT", "0")

	_, err := runCmd(t, "validate")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
