package ui

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"num": func(v float64, prec int) string {
			return strconv.FormatFloat(v, 'f', prec, 64)
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}

// renderTemplate executes into a buffer first so a failing template never
// leaves a half-written response
func (s *Server) renderTemplate(c *gin.Context, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("[Template] %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
