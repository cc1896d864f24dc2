package scene

import (
	"fmt"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
	"github.com/banshee-data/sightline/internal/vision/l4detect"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is one collidable, renderable shape.
type Surface struct {
	ID    l3targets.SurfaceID
	Layer l3targets.LayerMask
	Shape Shape
}

// Scene holds static occluders and targets. It implements
// l3targets.Roster, l3targets.OwnerResolver, l4detect.DepthRenderer and
// l4detect.LineOfSight. A Scene is not safe for concurrent mutation.
type Scene struct {
	surfaces []Surface
	targets  []l3targets.Target
	owners   map[l3targets.SurfaceID]l3targets.TargetID
	nextID   l3targets.SurfaceID
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{owners: make(map[l3targets.SurfaceID]l3targets.TargetID), nextID: 1}
}

func (s *Scene) add(layer l3targets.LayerMask, shape Shape) l3targets.SurfaceID {
	id := s.nextID
	s.nextID++
	s.surfaces = append(s.surfaces, Surface{ID: id, Layer: layer, Shape: shape})
	return id
}

// AddOccluder adds a static environment box and returns its surface ID.
func (s *Scene) AddOccluder(b Box) l3targets.SurfaceID {
	return s.add(l3targets.LayerEnvironment, b)
}

// AddTarget adds a target whose single surface is a sphere at position.
// Target IDs must be unique.
func (s *Scene) AddTarget(id l3targets.TargetID, position r3.Vec, radius float64) error {
	for i := range s.targets {
		if s.targets[i].ID == id {
			return fmt.Errorf("duplicate target %q", id)
		}
	}
	sid := s.add(l3targets.LayerTargets, Sphere{Center: position, Radius: radius})
	s.owners[sid] = id
	s.targets = append(s.targets, l3targets.Target{ID: id, Position: position, Surfaces: []l3targets.SurfaceID{sid}})
	return nil
}

// MoveTarget moves a target and all of its sphere surfaces by the same offset.
func (s *Scene) MoveTarget(id l3targets.TargetID, position r3.Vec) error {
	for i := range s.targets {
		t := &s.targets[i]
		if t.ID != id {
			continue
		}
		delta := r3.Sub(position, t.Position)
		t.Position = position
		for j := range s.surfaces {
			if !t.Owns(s.surfaces[j].ID) {
				continue
			}
			if sp, ok := s.surfaces[j].Shape.(Sphere); ok {
				sp.Center = r3.Add(sp.Center, delta)
				s.surfaces[j].Shape = sp
			}
		}
		return nil
	}
	return fmt.Errorf("unknown target %q", id)
}

// Targets implements l3targets.Roster.
func (s *Scene) Targets() []l3targets.Target { return s.targets }

// OwnerOf implements l3targets.OwnerResolver.
func (s *Scene) OwnerOf(id l3targets.SurfaceID) (l3targets.TargetID, bool) {
	t, ok := s.owners[id]
	return t, ok
}

// Surfaces returns the scene surfaces.
func (s *Scene) Surfaces() []Surface { return s.surfaces }

// Query implements l4detect.LineOfSight: the nearest surface in layers hit
// at a non-negative distance no greater than maxDistance. A ray starting
// inside a shape hits its far side.
func (s *Scene) Query(origin, direction r3.Vec, maxDistance float64, layers l3targets.LayerMask) (l4detect.Hit, bool) {
	ray := l1pose.Ray{Origin: origin, Direction: direction}
	best := l4detect.Hit{Distance: maxDistance}
	found := false
	for i := range s.surfaces {
		sf := &s.surfaces[i]
		if !layers.Has(sf.Layer) {
			continue
		}
		t0, t1, ok := sf.Shape.Intersect(ray)
		if !ok {
			continue
		}
		t := t0
		if t < 0 {
			t = t1
		}
		if t <= best.Distance {
			best = l4detect.Hit{Surface: sf.ID, Distance: t}
			found = true
		}
	}
	return best, found
}

// RenderDepth implements l4detect.DepthRenderer. Each cell holds the linear
// normalized view-axis depth of the nearest surface in layers through the
// pixel centre, or l2depth.FarDepth when nothing between the clip planes is
// hit.
func (s *Scene) RenderDepth(view l1pose.View, layers l3targets.LayerMask, dst *l2depth.Grid) error {
	if err := dst.Validate(); err != nil {
		return err
	}
	cam := view.Camera
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			u, v := dst.Viewport(x, y)
			ray := view.ViewportPointToRay(u, v)
			cos := r3.Dot(ray.Direction, view.Forward)
			nearest := cam.Far
			for i := range s.surfaces {
				sf := &s.surfaces[i]
				if !layers.Has(sf.Layer) {
					continue
				}
				t0, t1, ok := sf.Shape.Intersect(ray)
				if !ok {
					continue
				}
				if z := t0 * cos; z >= cam.Near {
					nearest = min(nearest, z)
				} else if z := t1 * cos; z >= cam.Near {
					nearest = min(nearest, z)
				}
			}
			dst.Set(x, y, float32(cam.DistanceToDepth(nearest)))
		}
	}
	return nil
}
