package monitor

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/sightline/internal/vision/bench"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoRuns is returned when there is nothing to summarize.
var ErrNoRuns = errors.New("no runs to summarize")

// summaryTable indexes run summaries by scenario (in first-seen order) and
// method.
type summaryTable struct {
	scenarios []string
	methods   []bench.Method
	cells     map[string]map[bench.Method]bench.Summary
}

func newSummaryTable(runs []*bench.Run) *summaryTable {
	t := &summaryTable{cells: make(map[string]map[bench.Method]bench.Summary)}
	seenMethod := make(map[bench.Method]bool)
	for _, r := range runs {
		if r == nil {
			continue
		}
		row, ok := t.cells[r.Scenario.Name]
		if !ok {
			row = make(map[bench.Method]bench.Summary)
			t.cells[r.Scenario.Name] = row
			t.scenarios = append(t.scenarios, r.Scenario.Name)
		}
		row[r.Method] = r.Summary
		seenMethod[r.Method] = true
	}
	for _, m := range bench.AllMethods {
		if seenMethod[m] {
			t.methods = append(t.methods, m)
		}
	}
	return t
}

// series extracts one bar per scenario for method. Missing cells render as
// empty bars.
func (t *summaryTable) series(m bench.Method, pick func(bench.Summary) float64) []opts.BarData {
	items := make([]opts.BarData, len(t.scenarios))
	for i, sc := range t.scenarios {
		s, ok := t.cells[sc][m]
		if !ok {
			items[i] = opts.BarData{Value: "-"}
			continue
		}
		items[i] = opts.BarData{Value: math.Round(pick(s)*1000) / 1000}
	}
	return items
}

func (t *summaryTable) bar(title, subtitle string, pick func(bench.Summary) float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Visibility benchmark", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	bar.SetXAxis(t.scenarios)
	for _, m := range t.methods {
		bar.AddSeries(string(m), t.series(m, pick),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	}
	return bar
}

// WriteSummaryHTML renders a comparison page with mean tick time and mean
// confirmation queries per scenario, one bar series per method.
func WriteSummaryHTML(w io.Writer, runs []*bench.Run) error {
	t := newSummaryTable(runs)
	if len(t.scenarios) == 0 {
		return ErrNoRuns
	}

	page := components.NewPage()
	page.AddCharts(
		t.bar("Mean tick time", "milliseconds per scheduler tick",
			func(s bench.Summary) float64 { return s.MeanMs }),
		t.bar("P95 tick time", "milliseconds per scheduler tick",
			func(s bench.Summary) float64 { return s.P95Ms }),
		t.bar("Mean queries", "line-of-sight queries per tick",
			func(s bench.Summary) float64 { return s.MeanQueries }),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}
