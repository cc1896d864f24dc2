package bench

import (
	"fmt"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l4detect"
)

// Snapshot is the pair of depth grids one observer's pass compares, plus
// the detections that pass produced.
type Snapshot struct {
	Observer    string
	Environment *l2depth.Grid
	Targets     *l2depth.Grid
	Result      *l4detect.Result
}

// Snapshot renders the first agent's grids in the initial world of sc and
// runs a depth-map pass over them.
func (r *Runner) Snapshot(sc Scenario) (*Snapshot, error) {
	if sc.Agents < 1 {
		return nil, fmt.Errorf("scenario %s has no agents", sc.Name)
	}
	world, err := NewWorld(sc, sc.Seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	cfg := l4detect.ConfigFromTuning(r.Tuning)
	det, err := l4detect.NewDetector(cfg)
	if err != nil {
		return nil, err
	}

	agent := world.Agents[0]
	view := l1pose.View{Pose: agent.Pose(), Camera: l1pose.CameraFromTuning(r.Tuning)}
	snap := &Snapshot{
		Observer:    agent.ID,
		Environment: l2depth.NewFarGrid(cfg.GridWidth, cfg.GridHeight),
		Targets:     l2depth.NewFarGrid(cfg.GridWidth, cfg.GridHeight),
	}
	if err := world.Scene.RenderDepth(view, cfg.EnvironmentLayers, snap.Environment); err != nil {
		return nil, fmt.Errorf("render environment: %w", err)
	}
	if err := world.Scene.RenderDepth(view, cfg.TargetLayers, snap.Targets); err != nil {
		return nil, fmt.Errorf("render targets: %w", err)
	}

	q := l4detect.Query{
		Observer: agent.ID,
		View:     view,
		Roster:   world.Scene,
		LOS:      world.Scene,
		Owners:   world.Scene,
	}
	snap.Result, err = det.DetectGrids(q, snap.Environment, snap.Targets)
	if err != nil {
		return nil, err
	}
	return snap, nil
}
