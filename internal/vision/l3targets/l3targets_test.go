package l3targets

import (
	"math"
	"testing"

	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func ids(cs []Candidate) []TargetID {
	out := make([]TargetID, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFilterInRange(t *testing.T) {
	pose := l1pose.NewPose(r3.Vec{X: 100, Y: 0, Z: 100}, r3.Vec{Z: 1}, l1pose.WorldUp)
	lim := RangeLimits{MaxDistance: 20, MaxHalfAngle: 30 * math.Pi / 180}

	targets := []Target{
		{ID: "ahead", Position: r3.Vec{X: 100, Z: 110}},
		{ID: "too-far", Position: r3.Vec{X: 100, Z: 130}},
		{ID: "behind", Position: r3.Vec{X: 100, Z: 90}},
		{ID: "side", Position: r3.Vec{X: 110, Z: 101}},
		{ID: "edge-inside", Position: r3.Vec{X: 100 + 10*math.Tan(29*math.Pi/180), Z: 110}},
		{ID: "edge-outside", Position: r3.Vec{X: 100 + 10*math.Tan(31*math.Pi/180), Z: 110}},
		{ID: "at-limit", Position: r3.Vec{X: 100, Z: 120}},
	}

	got := FilterInRange(pose, targets, lim, nil)
	assert.Equal(t, []TargetID{"ahead", "edge-inside", "at-limit"}, ids(got))
	require.Len(t, got, 3)
	assert.InDelta(t, 10, got[0].Distance, 1e-9)
	assert.InDelta(t, 0, got[0].Angle, 1e-9)
}

// The bearing must be taken off the observer's forward vector, not off the
// observer's position vector. Far from the origin the two disagree.
func TestFilterInRange_UsesForwardNotPositionVector(t *testing.T) {
	lim := RangeLimits{MaxDistance: 100, MaxHalfAngle: math.Pi / 6}

	// Straight ahead, but 50 degrees apart as position vectors.
	pose := l1pose.NewPose(r3.Vec{X: 50}, r3.Vec{Z: 1}, l1pose.WorldUp)
	ahead := []Target{{ID: "ahead", Position: r3.Vec{X: 50, Z: 60}}}
	assert.Equal(t, []TargetID{"ahead"}, ids(FilterInRange(pose, ahead, lim, nil)))

	// Directly behind, but collinear as position vectors.
	pose = l1pose.NewPose(r3.Vec{X: 50}, r3.Vec{X: 1}, l1pose.WorldUp)
	behind := []Target{{ID: "behind", Position: r3.Vec{X: 40}}}
	assert.Empty(t, FilterInRange(pose, behind, lim, nil))
}

func TestFilterInRange_TargetAtEye(t *testing.T) {
	pose := l1pose.NewPose(r3.Vec{}, r3.Vec{Z: 1}, l1pose.WorldUp)
	got := FilterInRange(pose, []Target{{ID: "here"}}, RangeLimits{MaxDistance: 1, MaxHalfAngle: 0.1}, nil)
	assert.Equal(t, []TargetID{"here"}, ids(got))
}

func TestFilterInRange_AppendsAndDoesNotMutate(t *testing.T) {
	pose := l1pose.NewPose(r3.Vec{}, r3.Vec{Z: 1}, l1pose.WorldUp)
	targets := []Target{{ID: "a", Position: r3.Vec{Z: 5}, Surfaces: []SurfaceID{1}}}
	dst := make([]Candidate, 0, 4)
	dst = FilterInRange(pose, targets, RangeLimits{MaxDistance: 10, MaxHalfAngle: 1}, dst)
	dst = FilterInRange(pose, targets, RangeLimits{MaxDistance: 10, MaxHalfAngle: 1}, dst)
	assert.Len(t, dst, 2)
	assert.Same(t, &targets[0], dst[0].Target)
	assert.Equal(t, []SurfaceID{1}, targets[0].Surfaces)
}

func TestLimitsForCamera(t *testing.T) {
	c := l1pose.Camera{FieldOfViewDegrees: 60, Aspect: 1, Near: 0.3, Far: 40}
	lim := LimitsForCamera(c)
	assert.Equal(t, 40.0, lim.MaxDistance)
	assert.InDelta(t, c.ConeHalfAngle(), lim.MaxHalfAngle, 1e-12)
}

func TestTargetOwns(t *testing.T) {
	tg := Target{ID: "a", Surfaces: []SurfaceID{3, 7}}
	assert.True(t, tg.Owns(7))
	assert.False(t, tg.Owns(4))
}

func TestSurfaceIndex(t *testing.T) {
	idx := NewSurfaceIndex([]Target{
		{ID: "a", Surfaces: []SurfaceID{1, 2}},
		{ID: "b", Surfaces: []SurfaceID{2, 3}},
	})
	var r OwnerResolver = idx
	id, ok := r.OwnerOf(2)
	assert.True(t, ok)
	assert.Equal(t, TargetID("a"), id)
	id, ok = r.OwnerOf(3)
	assert.True(t, ok)
	assert.Equal(t, TargetID("b"), id)
	_, ok = r.OwnerOf(99)
	assert.False(t, ok)
}

func TestLayerMask(t *testing.T) {
	assert.True(t, LayerAll.Has(LayerTargets))
	assert.False(t, LayerEnvironment.Has(LayerTargets))
	assert.False(t, LayerNone.Has(LayerAll))
}
