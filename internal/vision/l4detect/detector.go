package l4detect

import (
	"errors"
	"fmt"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
)

// ErrNoRenderer is returned by Detect when the query has no DepthRenderer.
var ErrNoRenderer = errors.New("query has no depth renderer")

// Detector runs detection passes. It owns the pass scratch buffers and
// reuses them across passes, so a Detector is not safe for concurrent use.
// Run one Detector per goroutine or serialize calls.
type Detector struct {
	cfg     Config
	scratch *passScratch
	last    PassStats

	// onTest is handed to the flood fill of every pass. Tests only.
	onTest func(x, y int)
}

// NewDetector creates a Detector. It returns an error if cfg is invalid.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}
	return &Detector{cfg: cfg, scratch: newPassScratch()}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// LastStats returns the statistics of the most recent completed pass.
func (d *Detector) LastStats() PassStats { return d.last }

// Detect runs one full pass: range filter, environment and target renders,
// then the grid comparison. When no target is in range the renderer is
// never called.
func (d *Detector) Detect(q Query) (*Result, error) {
	if q.Renderer == nil {
		return nil, ErrNoRenderer
	}
	res := newResult(q.Observer)
	if !d.filter(&q, res) {
		return d.finish(res), nil
	}

	s := d.scratch
	s.renderEnv.Resize(d.cfg.GridWidth, d.cfg.GridHeight)
	s.renderTarget.Resize(d.cfg.GridWidth, d.cfg.GridHeight)
	if err := q.Renderer.RenderDepth(q.View, d.cfg.EnvironmentLayers, s.renderEnv); err != nil {
		return nil, fmt.Errorf("render environment: %w", err)
	}
	if err := q.Renderer.RenderDepth(q.View, d.cfg.TargetLayers, s.renderTarget); err != nil {
		return nil, fmt.Errorf("render targets: %w", err)
	}
	if err := d.compare(&q, s.renderEnv, s.renderTarget, res); err != nil {
		return nil, err
	}
	return d.finish(res), nil
}

// DetectGrids runs a pass over caller-supplied grids. Both grids must have
// the same dimensions; otherwise the pass is aborted and the returned error
// wraps l2depth.ErrGridSizeMismatch. The grids are read, never written.
func (d *Detector) DetectGrids(q Query, env, targets *l2depth.Grid) (*Result, error) {
	if err := l2depth.CheckSameSize(env, targets); err != nil {
		monitoring.Logf("[l4detect] observer %s: aborting pass: %v", q.Observer, err)
		return nil, err
	}
	res := newResult(q.Observer)
	if !d.filter(&q, res) {
		return d.finish(res), nil
	}
	if err := d.compare(&q, env, targets, res); err != nil {
		return nil, err
	}
	return d.finish(res), nil
}

// DetectTargetGrid runs a pass over a pre-rendered target grid against an
// environment with no occluders (far depth everywhere).
func (d *Detector) DetectTargetGrid(q Query, targets *l2depth.Grid) (*Result, error) {
	if err := targets.Validate(); err != nil {
		return nil, fmt.Errorf("target grid: %w", err)
	}
	env := d.scratch.envFallback
	env.Resize(targets.Width, targets.Height)
	env.Fill(l2depth.FarDepth)
	return d.DetectGrids(q, env, targets)
}

// filter runs the range filter into the scratch candidate list and indexes
// it. It reports whether any candidate survived.
func (d *Detector) filter(q *Query, res *Result) bool {
	s := d.scratch
	s.resetCandidates()
	if q.Roster == nil {
		return false
	}
	s.candidates = rangeFilter(q, s.candidates)
	s.indexCandidates()
	res.Stats.Candidates = len(s.candidates)
	return len(s.candidates) > 0
}

func (d *Detector) finish(res *Result) *Result {
	d.last = res.Stats
	st := res.Stats
	monitoring.Debugf(d.cfg.Debug,
		"[l4detect] observer %s: candidates=%d anomalies=%d queries=%d hits=%d unowned=%d misses=%d blobs=%d tested=%d marked=%d seeds=%d detected=%d",
		res.Observer, st.Candidates, st.Anomalies, st.ConfirmationQueries, st.ConfirmedHits,
		st.UnownedHits, st.Misses, st.Blobs, st.PixelsTested, st.PixelsMarked, st.SeedsQueued, res.Len())
	return res
}

// compare walks the grids in row-major order. A pixel whose target depth is
// strictly nearer than the environment depth is an anomaly: it is confirmed
// and, with suppression on, its silhouette is flood-filled so the walk
// skips it.
func (d *Detector) compare(q *Query, env, targets *l2depth.Grid, res *Result) error {
	if q.LOS == nil {
		return errors.New("query has no line-of-sight provider")
	}
	s := d.scratch
	s.resetPixels(targets.Width, targets.Height)

	fill := blobSuppressor{
		grid:      targets,
		tolerance: d.cfg.DepthTolerance,
		s:         s,
		stats:     &res.Stats,
		onTest:    d.onTest,
	}
	r := resolver{q: q, cfg: &d.cfg, s: s, grid: targets, res: res}

	for y := 0; y < targets.Height; y++ {
		row := y * targets.Width
		for x := 0; x < targets.Width; x++ {
			i := row + x
			if d.cfg.BlobSuppression && s.detected[i] {
				continue
			}
			if targets.Depth[i] >= env.Depth[i] {
				continue
			}
			res.Stats.Anomalies++
			r.confirm(x, y)
			if d.cfg.BlobSuppression {
				fill.run(x, y)
			}
		}
	}
	return nil
}
