package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"smmh/domain/stats"
	"smmh/internal/analysis"
	"smmh/internal/errors"
	"smmh/internal/report"
)

// filterFrom reads the segment filter from the query string
func filterFrom(c *gin.Context) analysis.Filter {
	values := make(map[string]string, len(analysis.SegmentColumns))
	for _, col := range analysis.SegmentColumns {
		values[col] = c.Query(col)
	}
	return analysis.NewFilter(values)
}

func filterQuery(f analysis.Filter) template.URL {
	q := url.Values{}
	for col, v := range f {
		q.Set(col, v)
	}
	return template.URL(q.Encode())
}

type indexPage struct {
	Total              int
	Included           int
	Filter             string
	Query              template.URL
	Metrics            analysis.Metrics
	Options            map[string][]string
	Selected           map[string]string
	Results            []stats.Result
	Columns            []string
	Reports            []string
	MinCellCount       int
	LowSampleThreshold int
}

func (s *Server) handleIndex(c *gin.Context) {
	f := filterFrom(c)
	selected := make(map[string]string, len(analysis.SegmentColumns))
	for _, col := range analysis.SegmentColumns {
		selected[col] = analysis.FilterAll
		if v, ok := f[col]; ok {
			selected[col] = v
		}
	}
	res := s.data.Result()
	s.renderTemplate(c, "index.html", indexPage{
		Total:              s.data.Total(),
		Included:           res.Included,
		Filter:             f.String(),
		Query:              filterQuery(f),
		Metrics:            s.data.Overview(f),
		Options:            s.data.FilterOptions(),
		Selected:           selected,
		Results:            res.Results,
		Columns:            DistributionColumns,
		Reports:            report.Names,
		MinCellCount:       s.data.privacy.MinCellCount,
		LowSampleThreshold: analysis.LowSampleThreshold,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "respondents": s.data.Total()})
}

func (s *Server) handleOverview(c *gin.Context) {
	f := filterFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"filter":  f.String(),
		"metrics": s.data.Overview(f),
		"options": s.data.FilterOptions(),
	})
}

func (s *Server) handleDistribution(c *gin.Context) {
	d, ok := s.data.Distribution(c.Param("column"), filterFrom(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown column", "columns": DistributionColumns})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleHypotheses(c *gin.Context) {
	res := s.data.Result()
	c.JSON(http.StatusOK, gin.H{
		"included": res.Included,
		"results":  res.Results,
	})
}

func (s *Server) handleCorrelations(c *gin.Context) {
	c.JSON(http.StatusOK, s.data.Result().Matrix)
}

func (s *Server) handleSegments(c *gin.Context) {
	column := c.Param("column")
	if !analysis.IsSegmentColumn(column) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown segment column", "columns": analysis.SegmentColumns})
		return
	}
	f := filterFrom(c)
	summary, err := s.data.Segments(column, f)
	if err != nil {
		s.logger.Error("[Server] segments %s: %v", column, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": f.String(), "summary": summary})
}

func (s *Server) handleDistributionChart(c *gin.Context) {
	d, ok := s.data.Distribution(c.Param("column"), filterFrom(c))
	if !ok {
		c.String(http.StatusNotFound, "unknown column")
		return
	}
	page, err := distributionChart(d)
	if err != nil {
		s.logger.Error("[Charts] distribution %s: %v", d.Column, err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handlePlatformChart(c *gin.Context) {
	f := filterFrom(c)
	n := len(s.data.Records(f))
	page, err := platformChart(s.data.PlatformUsage(f), f.String(), n, n < analysis.LowSampleThreshold)
	if err != nil {
		s.logger.Error("[Charts] platforms: %v", err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleReport(c *gin.Context) {
	name := c.Param("name")
	data, err := readReport(s.opts.ReportsDir, name)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "reports": availableReports()})
			return
		}
		s.logger.Error("[Reports] %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read report"})
		return
	}
	if strings.HasSuffix(name, ".md") {
		body := markdownToHTML(data)
		page := "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>" +
			template.HTMLEscapeString(name) + "</title></head><body>\n" + string(body) + "</body></html>\n"
		c.Data(http.StatusOK, contentType(name), []byte(page))
		return
	}
	c.Data(http.StatusOK, contentType(name), data)
}

func availableReports() []string {
	out := append([]string(nil), report.Names...)
	sort.Strings(out)
	return out
}
