package ui

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// distributionChart renders a bar chart of the visible rows. Masked rows
// are left out so the chart never implies a hidden count.
func distributionChart(d Distribution) ([]byte, error) {
	var labels []string
	var data []opts.BarData
	for _, r := range d.Rows {
		if r.Masked {
			continue
		}
		labels = append(labels, r.Category)
		data = append(data, opts.BarData{Name: r.Category, Value: r.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: d.Column}),
		charts.WithTitleOpts(opts.Title{Title: d.Column, Subtitle: subtitle(d.Filter, d.N, d.LowSample)}),
	)
	bar.SetXAxis(labels).AddSeries("respondents", data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// platformChart renders platform reach as a pie of the visible platforms
func platformChart(rows []Row, filter string, n int, low bool) ([]byte, error) {
	var data []opts.PieData
	for _, r := range rows {
		if r.Masked || r.Count == 0 {
			continue
		}
		data = append(data, opts.PieData{Name: r.Category, Value: r.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "platforms"}),
		charts.WithTitleOpts(opts.Title{Title: "Platform usage", Subtitle: subtitle(filter, n, low)}),
	)
	pie.AddSeries("users", data)

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func subtitle(filter string, n int, low bool) string {
	s := fmt.Sprintf("%s (n=%d)", filter, n)
	if low {
		s += " small sample, interpret with caution"
	}
	return s
}
