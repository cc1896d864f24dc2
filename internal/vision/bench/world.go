package bench

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
	"github.com/banshee-data/sightline/internal/vision/l5schedule"
	"github.com/banshee-data/sightline/internal/vision/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// World layout constants, in metres.
const (
	arenaHalfSize = 40.0
	eyeHeight     = 1.6
	targetRadius  = 0.5
	targetStep    = 0.4
	turnStep      = 0.05 // radians per tick
)

// Agent is one observer in a generated world.
type Agent struct {
	ID  string
	Yaw float64
	Pos r3.Vec
}

// Pose returns the agent's current pose, looking horizontally along Yaw.
func (a Agent) Pose() l1pose.Pose {
	fwd := r3.Vec{X: math.Sin(a.Yaw), Z: math.Cos(a.Yaw)}
	return l1pose.NewPose(a.Pos, fwd, l1pose.WorldUp)
}

// World is a seeded arena of pillars, wandering targets and turning agents.
type World struct {
	Scene  *scene.Scene
	Agents []Agent

	rng *rand.Rand
}

// NewWorld generates the arena for one iteration of sc.
func NewWorld(sc Scenario, seed int64) (*World, error) {
	rng := rand.New(rand.NewSource(seed))
	w := &World{Scene: scene.New(), rng: rng}

	for i := 0; i < sc.Occluders; i++ {
		x, z := w.randXZ()
		sx, sz := 1+rng.Float64()*5, 1+rng.Float64()*5
		w.Scene.AddOccluder(scene.NewBox(r3.Vec{X: x, Y: 0, Z: z}, r3.Vec{X: x + sx, Y: 3, Z: z + sz}))
	}
	for i := 0; i < sc.Targets; i++ {
		x, z := w.randXZ()
		id := l3targets.TargetID(fmt.Sprintf("target-%03d", i))
		if err := w.Scene.AddTarget(id, r3.Vec{X: x, Y: targetRadius, Z: z}, targetRadius); err != nil {
			return nil, err
		}
	}
	for i := 0; i < sc.Agents; i++ {
		x, z := w.randXZ()
		w.Agents = append(w.Agents, Agent{
			ID:  l5schedule.NewObserverID(),
			Yaw: rng.Float64() * 2 * math.Pi,
			Pos: r3.Vec{X: x, Y: eyeHeight, Z: z},
		})
	}
	return w, nil
}

func (w *World) randXZ() (float64, float64) {
	return (w.rng.Float64()*2 - 1) * arenaHalfSize, (w.rng.Float64()*2 - 1) * arenaHalfSize
}

// Step advances the world by one tick: every target takes a bounded random
// step and every agent turns slightly.
func (w *World) Step() error {
	for _, t := range w.Scene.Targets() {
		p := t.Position
		p.X = clamp(p.X+(w.rng.Float64()*2-1)*targetStep, -arenaHalfSize, arenaHalfSize)
		p.Z = clamp(p.Z+(w.rng.Float64()*2-1)*targetStep, -arenaHalfSize, arenaHalfSize)
		if err := w.Scene.MoveTarget(t.ID, p); err != nil {
			return err
		}
	}
	for i := range w.Agents {
		w.Agents[i].Yaw += turnStep
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
