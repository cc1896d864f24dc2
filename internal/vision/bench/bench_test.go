package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/testutil"
	"github.com/banshee-data/sightline/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(`
methods: [Raycast, DepthMap]
scenarios:
  - name: small
    agents: 2
    targets: 3
    ticks: 5
  - name: big
    agents: 20
    targets: 30
`))
	require.NoError(t, err)
	assert.Equal(t, []Method{MethodRaycast, MethodDepthMap}, p.Methods)
	require.Len(t, p.Scenarios, 2)
	assert.Equal(t, 5, p.Scenarios[0].Ticks)
	assert.Equal(t, DefaultIterations, p.Scenarios[0].Iterations)
	assert.Equal(t, DefaultTicks, p.Scenarios[1].Ticks)
	assert.Equal(t, 5, p.Scenarios[1].Occluders)
	assert.NotEqual(t, p.Scenarios[0].Seed, p.Scenarios[1].Seed)
	assert.Len(t, p.Selected(), 2)
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"unknown key", "scenarios: [{name: a, agents: 1, colour: red}]"},
		{"unknown method", "methods: [Magic]\nscenarios: [{name: a, agents: 1}]"},
		{"no agents", "scenarios: [{name: a, agents: 0}]"},
		{"duplicate", "scenarios: [{name: a, agents: 1}, {name: a, agents: 1}]"},
		{"unnamed", "scenarios: [{agents: 1}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios: [{name: a, agents: 1, targets: 1}]\n"), 0o644))
	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, AllMethods, p.Methods)

	_, err = LoadPlan(filepath.Join(dir, "plan.json"))
	assert.Error(t, err)
	_, err = LoadPlan(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestPlan_OnlyThis(t *testing.T) {
	p, err := ParsePlan([]byte("scenarios: [{name: a, agents: 1}, {name: b, agents: 1, only_this: true}]"))
	require.NoError(t, err)
	sel := p.Selected()
	require.Len(t, sel, 1)
	assert.Equal(t, "b", sel[0].Name)
}

func TestDefaultPlan(t *testing.T) {
	p := DefaultPlan()
	require.NoError(t, p.Validate())
	names := make([]string, 0, len(p.Scenarios))
	for _, s := range p.Scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Low_Low", "Low_High", "High_Low", "High_High"}, names)
	assert.Equal(t, High, p.Scenarios[3].Agents)
}

func TestMatrixPlan(t *testing.T) {
	p := MatrixPlan([]int{1, 2}, []int{5}, nil, 1, 3)
	require.NoError(t, p.Validate())
	require.Len(t, p.Scenarios, 2)
	assert.Equal(t, "A2_T5", p.Scenarios[1].Name)
	assert.Equal(t, AllMethods, p.Methods)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("raycast")
	require.NoError(t, err)
	assert.Equal(t, MethodRaycast, m)
	_, err = ParseMethod("bogus")
	assert.Error(t, err)
}

func TestParseCSVInts(t *testing.T) {
	got, err := ParseCSVInts(" 10, 300,,")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 300}, got)

	got, err = ParseCSVInts("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseCSVInts("1,x")
	assert.Error(t, err)
}

func TestChunkedAverage(t *testing.T) {
	series := make([]float64, 25)
	for i := range series {
		series[i] = float64(i + 1)
	}
	xs, ys := ChunkedAverage(series, 10)
	assert.Equal(t, []int{9, 19, 24}, xs)
	assert.InDeltaSlice(t, []float64{5.5, 15.5, 23}, ys, 1e-12)

	xs, ys = ChunkedAverage(series[:20], 10)
	assert.Equal(t, []int{9, 19}, xs)
	assert.Len(t, ys, 2)

	xs, ys = ChunkedAverage(series[:5], 10)
	assert.Equal(t, []int{4}, xs)
	assert.InDeltaSlice(t, []float64{3}, ys, 1e-12)

	xs, ys = ChunkedAverage(nil, 10)
	assert.Nil(t, xs)
	assert.Nil(t, ys)
}

func TestOverallMeanSeries(t *testing.T) {
	got := OverallMeanSeries([][]float64{{1, 2, 3}, {3, 4}})
	assert.InDeltaSlice(t, []float64{2, 3, 3}, got, 1e-12)
}

func TestSummarize(t *testing.T) {
	var samples []Sample
	for i := 1; i <= 20; i++ {
		samples = append(samples, Sample{Tick: i - 1, Elapsed: time.Duration(i) * time.Millisecond, Queries: 2, Detections: 1})
	}
	s := Summarize(samples)
	assert.Equal(t, 20, s.Ticks)
	assert.InDelta(t, 10.5, s.MeanMs, 1e-9)
	assert.InDelta(t, 10, s.P50Ms, 1e-9)
	assert.InDelta(t, 19, s.P95Ms, 1e-9)
	assert.InDelta(t, 20, s.MaxMs, 1e-9)
	assert.InDelta(t, 2, s.MeanQueries, 1e-9)
	assert.Greater(t, s.StdDevMs, 0.0)

	one := Summarize(samples[:1])
	assert.Zero(t, one.StdDevMs)
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestTickSeries(t *testing.T) {
	got := TickSeries([]Sample{
		{Iteration: 0, Elapsed: time.Millisecond},
		{Iteration: 0, Elapsed: 2 * time.Millisecond},
		{Iteration: 1, Elapsed: 3 * time.Millisecond},
	})
	assert.Equal(t, [][]float64{{1, 2}, {3}}, got)
}

func TestNewWorld_Deterministic(t *testing.T) {
	sc := Scenario{Name: "w", Agents: 3, Targets: 5, Occluders: 4}
	a, err := NewWorld(sc, 42)
	require.NoError(t, err)
	b, err := NewWorld(sc, 42)
	require.NoError(t, err)

	require.Len(t, a.Agents, 3)
	require.Len(t, a.Scene.Targets(), 5)
	assert.Len(t, a.Scene.Surfaces(), 9)
	for i := range a.Agents {
		assert.Equal(t, a.Agents[i].Pos, b.Agents[i].Pos)
		assert.NotEqual(t, a.Agents[i].ID, b.Agents[i].ID, "observer IDs are unique per world")
	}
	before := a.Scene.Targets()[0].Position
	require.NoError(t, a.Step())
	after := a.Scene.Targets()[0].Position
	assert.NotEqual(t, before, after)
	assert.LessOrEqual(t, after.X, arenaHalfSize)
}

func smallTuning(t *testing.T) *config.TuningConfig {
	t.Helper()
	cfg, err := config.ParseTuningConfig([]byte(`{"screen_width": 32, "screen_height": 18, "grid_scale": 1.0, "observers_per_tick": 2}`))
	require.NoError(t, err)
	return cfg
}

func TestRunner_Run(t *testing.T) {
	testutil.MuteLogs(t)

	r := NewRunner(smallTuning(t))
	sc := Scenario{Name: "tiny", Agents: 3, Targets: 4, Occluders: 2, Iterations: 2, Ticks: 4, Seed: 1}
	for _, m := range AllMethods {
		run, err := r.Run(context.Background(), sc, m)
		require.NoError(t, err, m)
		assert.Len(t, run.Samples, 8)
		assert.Equal(t, m, run.Method)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, 8, run.Summary.Ticks)
		for _, s := range run.Samples {
			assert.Equal(t, 2, s.Passes)
		}
		assert.False(t, run.FinishedAt.Before(run.StartedAt))
	}
}

func TestRunner_RunPlan(t *testing.T) {
	testutil.MuteLogs(t)

	p := MatrixPlan([]int{1}, []int{1, 2}, []Method{MethodRaycast}, 1, 2)
	r := NewRunner(smallTuning(t))
	var seen []string
	r.OnRun = func(run *Run) error {
		seen = append(seen, run.Scenario.Name)
		return nil
	}
	runs, err := r.RunPlan(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, []string{"A1_T1", "A1_T2"}, seen)
}

func TestRunner_Cancelled(t *testing.T) {
	testutil.MuteLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil).Run(ctx, Scenario{Name: "x", Agents: 1, Iterations: 1, Ticks: 1, Occluders: 1}, MethodRaycast)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_MockClockTiming(t *testing.T) {
	testutil.MuteLogs(t)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := timeutil.NewMockClock(base)
	clock.Step = 2 * time.Millisecond

	r := NewRunner(smallTuning(t))
	r.Clock = clock
	sc := Scenario{Name: "timed", Agents: 2, Targets: 2, Occluders: 1, Iterations: 1, Ticks: 5, Seed: 3}
	run, err := r.Run(context.Background(), sc, MethodDepthMap)
	require.NoError(t, err)

	assert.True(t, run.StartedAt.Equal(base))
	for _, s := range run.Samples {
		assert.Equal(t, 2*time.Millisecond, s.Elapsed)
	}
	assert.InDelta(t, 2.0, run.Summary.MeanMs, 1e-9)
	assert.InDelta(t, 0.0, run.Summary.StdDevMs, 1e-9)
	assert.True(t, run.FinishedAt.After(run.StartedAt))
}
