package bench

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the per-tick samples of one run.
type Summary struct {
	Ticks          int     `json:"ticks"`
	MeanMs         float64 `json:"mean_ms"`
	StdDevMs       float64 `json:"stddev_ms"`
	P50Ms          float64 `json:"p50_ms"`
	P95Ms          float64 `json:"p95_ms"`
	MaxMs          float64 `json:"max_ms"`
	MeanQueries    float64 `json:"mean_queries"`
	MeanDetections float64 `json:"mean_detections"`
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Summarize computes timing and query statistics over samples.
func Summarize(samples []Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	times := make([]float64, len(samples))
	queries := make([]float64, len(samples))
	detections := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = ms(s.Elapsed)
		queries[i] = float64(s.Queries)
		detections[i] = float64(s.Detections)
	}
	sum := Summary{Ticks: len(samples)}
	sum.MeanMs, sum.StdDevMs = stat.MeanStdDev(times, nil)
	if len(times) < 2 {
		sum.StdDevMs = 0
	}
	sum.MeanQueries = stat.Mean(queries, nil)
	sum.MeanDetections = stat.Mean(detections, nil)

	sort.Float64s(times)
	sum.P50Ms = stat.Quantile(0.5, stat.Empirical, times, nil)
	sum.P95Ms = stat.Quantile(0.95, stat.Empirical, times, nil)
	sum.MaxMs = times[len(times)-1]
	return sum
}

// TickSeries returns the tick times in milliseconds of each iteration, in
// tick order.
func TickSeries(samples []Sample) [][]float64 {
	var runs [][]float64
	for _, s := range samples {
		for len(runs) <= s.Iteration {
			runs = append(runs, nil)
		}
		runs[s.Iteration] = append(runs[s.Iteration], ms(s.Elapsed))
	}
	return runs
}

// OverallMeanSeries averages runs index by index. Shorter runs drop out of
// the average once exhausted.
func OverallMeanSeries(runs [][]float64) []float64 {
	n := 0
	for _, r := range runs {
		n = max(n, len(r))
	}
	out := make([]float64, n)
	vals := make([]float64, 0, len(runs))
	for i := 0; i < n; i++ {
		vals = vals[:0]
		for _, r := range runs {
			if i < len(r) {
				vals = append(vals, r[i])
			}
		}
		out[i] = stat.Mean(vals, nil)
	}
	return out
}

// ChunkedAverage smooths series by averaging consecutive windows. Each
// point sits at the last index of its window; a trailing partial window is
// averaged on its own and placed at the final index.
func ChunkedAverage(series []float64, window int) (xs []int, ys []float64) {
	n := len(series)
	if n == 0 || window < 1 {
		return nil, nil
	}
	for i := window - 1; i < n; i += window {
		xs = append(xs, i)
		ys = append(ys, stat.Mean(series[i-window+1:i+1], nil))
	}
	switch {
	case len(xs) == 0:
		xs = append(xs, n-1)
		ys = append(ys, stat.Mean(series, nil))
	case xs[len(xs)-1] != n-1:
		rem := n % window
		xs = append(xs, n-1)
		ys = append(ys, stat.Mean(series[n-rem:], nil))
	}
	return xs, ys
}
