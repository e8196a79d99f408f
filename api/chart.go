package api

import (
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/orbital-data/passmeta/internal/db"
	"github.com/orbital-data/passmeta/internal/pass"
)

// flag display order for the stacked series
var flagOrder = []string{
	pass.FlagOK.String(),
	pass.FlagInvalidTimestamp.String(),
	pass.FlagTooShort.String(),
	pass.FlagTooLong.String(),
	pass.FlagDuplicate.String(),
	pass.FlagRedundant.String(),
}

// RenderQualityReport writes an HTML page with a stacked bar chart of
// pass counts per platform and quality flag. It backs both the
// /charts/quality endpoint and the report subcommand.
func RenderQualityReport(w io.Writer, counts []db.QualityCount) error {
	byPlatform := make(map[string]map[string]int)
	for _, c := range counts {
		if byPlatform[c.Platform] == nil {
			byPlatform[c.Platform] = make(map[string]int)
		}
		byPlatform[c.Platform][c.Flag] = c.Count
	}
	platforms := make([]string, 0, len(byPlatform))
	for p := range byPlatform {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Pass Quality", Subtitle: "passes per platform and quality flag"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(platforms)
	for _, flag := range flagOrder {
		data := make([]opts.BarData, len(platforms))
		for i, p := range platforms {
			data[i] = opts.BarData{Value: byPlatform[p][flag]}
		}
		bar.AddSeries(flag, data, charts.WithBarChartOpts(opts.BarChart{Stack: "quality"}))
	}

	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(w)
}
