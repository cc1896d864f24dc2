package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/sightline/internal/config"
	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/timeutil"
	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l4detect"
	"github.com/banshee-data/sightline/internal/vision/l5schedule"
	"github.com/google/uuid"
)

// Sample is the cost of one scheduler tick.
type Sample struct {
	Iteration  int           `json:"iteration"`
	Tick       int           `json:"tick"`
	Elapsed    time.Duration `json:"elapsed"`
	Passes     int           `json:"passes"`
	Queries    int           `json:"queries"`
	Anomalies  int           `json:"anomalies"`
	Detections int           `json:"detections"`
}

// Run is the outcome of one scenario under one method.
type Run struct {
	ID         string    `json:"id"`
	Scenario   Scenario  `json:"scenario"`
	Method     Method    `json:"method"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Samples    []Sample  `json:"samples"`
	Summary    Summary   `json:"summary"`
}

// Runner executes benchmark scenarios.
type Runner struct {
	Tuning *config.TuningConfig
	Clock  timeutil.Clock
	// OnRun, when set, is called after each completed run.
	OnRun func(*Run) error
}

// NewRunner returns a Runner using cfg for camera, grid and detector tuning.
func NewRunner(cfg *config.TuningConfig) *Runner {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Runner{Tuning: cfg, Clock: timeutil.RealClock{}}
}

// newPass builds a fresh detector for method.
func (r *Runner) newPass(m Method) (l5schedule.Pass, error) {
	switch m {
	case MethodRaycast:
		return l4detect.NewRaycastDetector(), nil
	case MethodDepthMap, MethodDepthMapNoSuppression:
		cfg := l4detect.ConfigFromTuning(r.Tuning)
		cfg.BlobSuppression = m == MethodDepthMap
		d, err := l4detect.NewDetector(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown method %q", m)
	}
}

// RunPlan runs every selected scenario under every plan method. It stops at
// the first error or when ctx is cancelled, returning the runs completed so
// far.
func (r *Runner) RunPlan(ctx context.Context, p Plan) ([]*Run, error) {
	var runs []*Run
	for _, m := range p.Methods {
		for _, sc := range p.Selected() {
			run, err := r.Run(ctx, sc, m)
			if err != nil {
				return runs, err
			}
			runs = append(runs, run)
			if r.OnRun != nil {
				if err := r.OnRun(run); err != nil {
					return runs, err
				}
			}
		}
		monitoring.Logf("All scenarios completed with %s method.", m)
	}
	return runs, nil
}

// Run executes sc.Iterations iterations of sc.Ticks ticks each. Every
// iteration regenerates the world from the scenario seed and starts with a
// fresh detector and scheduler.
func (r *Runner) Run(ctx context.Context, sc Scenario, m Method) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Scenario:  sc,
		Method:    m,
		StartedAt: r.Clock.Now(),
		Samples:   make([]Sample, 0, sc.Iterations*sc.Ticks),
	}
	camera := l1pose.CameraFromTuning(r.Tuning)

	for it := 0; it < sc.Iterations; it++ {
		monitoring.Logf("Starting scenario %s, iteration %d with %s method.", sc.Name, it+1, m)
		world, err := NewWorld(sc, sc.Seed+int64(it))
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		pass, err := r.newPass(m)
		if err != nil {
			return nil, err
		}
		env := l4detect.Query{
			Roster:   world.Scene,
			LOS:      world.Scene,
			Renderer: world.Scene,
			Owners:   world.Scene,
		}
		sched, err := l5schedule.NewRoundRobin(pass, r.Tuning.GetObserversPerTick(), env)
		if err != nil {
			return nil, err
		}
		for i := range world.Agents {
			a := &world.Agents[i]
			sched.Register(a.ID, func() l1pose.View {
				return l1pose.View{Pose: a.Pose(), Camera: camera}
			})
		}

		for tick := 0; tick < sc.Ticks; tick++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := world.Step(); err != nil {
				return nil, err
			}
			start := r.Clock.Now()
			results, err := sched.Tick()
			elapsed := r.Clock.Since(start)
			if err != nil {
				return nil, fmt.Errorf("scenario %s tick %d: %w", sc.Name, tick, err)
			}
			s := Sample{Iteration: it, Tick: tick, Elapsed: elapsed, Passes: len(results)}
			for _, res := range results {
				s.Queries += res.Stats.ConfirmationQueries
				s.Anomalies += res.Stats.Anomalies
				s.Detections += res.Len()
			}
			run.Samples = append(run.Samples, s)
		}
		monitoring.Logf("Scenario %s iteration %d completed.", sc.Name, it+1)
	}

	run.FinishedAt = r.Clock.Now()
	run.Summary = Summarize(run.Samples)
	return run, nil
}
