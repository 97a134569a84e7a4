package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"smmh/internal/errors"
	"smmh/internal/report"
)

// isReportName reports whether name is one of the artifacts a run writes
func isReportName(name string) bool {
	for _, n := range report.Names {
		if n == name {
			return true
		}
	}
	return false
}

// readReport loads an artifact from dir. Only known artifact names are served.
func readReport(dir, name string) ([]byte, error) {
	if !isReportName(name) {
		return nil, errors.NotFound("report " + name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("report " + name)
		}
		return nil, errors.IOError(name, err)
	}
	return data, nil
}

// markdownToHTML renders a report body. A parser keeps state, so each call builds its own.
func markdownToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(md, p, r)
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(name, ".json"):
		return "application/json; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}
