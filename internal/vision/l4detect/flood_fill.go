package l4detect

import (
	"math"

	"github.com/banshee-data/sightline/internal/vision/l2depth"
)

// blobSuppressor marks the connected same-depth region around an anomaly as
// detected using a scanline march with a FIFO of vertical seeds.
//
// The march sweeps one row at a time: right from the seed, then left from
// the seed. At every swept pixel it probes the pixels directly above and
// below. A similar neighbour that opens a new vertical run is queued as a
// seed; one that continues a run seen in the previous column is only
// marked, and is reached later when that run's seed row is swept. Seed
// generation is therefore bounded by runs, not pixels, and the fill is
// linear in the region's area plus perimeter with no recursion.
type blobSuppressor struct {
	grid      *l2depth.Grid
	tolerance float64
	s         *passScratch
	stats     *PassStats

	// onTest, when set, is called for every similarity test. Tests use it to
	// verify each pixel is tested at most once per pass.
	onTest func(x, y int)
}

func (b *blobSuppressor) similar(a, c float32) bool {
	return math.Abs(float64(a)-float64(c)) <= b.tolerance
}

// test marks (x, y) checked and reports whether it is similar to ref.
func (b *blobSuppressor) test(x, y int, i int, ref float32) bool {
	b.s.checked[i] = true
	b.stats.PixelsTested++
	if b.onTest != nil {
		b.onTest(x, y)
	}
	if !b.similar(b.grid.Depth[i], ref) {
		return false
	}
	b.s.detected[i] = true
	b.stats.PixelsMarked++
	return true
}

// pending reports whether (x, y) is marked detected but not yet swept.
// Out-of-bounds coordinates are never pending.
func (b *blobSuppressor) pending(x, y int) bool {
	if !b.grid.InBounds(x, y) {
		return false
	}
	i := b.grid.Idx(x, y)
	return b.s.detected[i] && !b.s.swept[i]
}

// probe examines the vertical neighbour (x, y) of a pixel with depth ref.
// inRun reports whether the same neighbour in the previous column was part
// of a pending run. It returns the run state for the next column.
func (b *blobSuppressor) probe(x, y int, ref float32, inRun bool) bool {
	if y < 0 || y >= b.grid.Height {
		return false
	}
	i := b.grid.Idx(x, y)
	if b.s.checked[i] {
		return b.s.detected[i] && !b.s.swept[i]
	}
	if !b.test(x, y, i, ref) {
		return false
	}
	if !inRun {
		b.s.pushSeed(l2depth.PixelCoord{X: x, Y: y})
		b.stats.SeedsQueued++
	}
	return true
}

// sweep marks (x, y) swept and probes its vertical neighbours.
func (b *blobSuppressor) sweep(x, y int, up, down bool) (bool, bool) {
	i := b.grid.Idx(x, y)
	b.s.swept[i] = true
	ref := b.grid.Depth[i]
	return b.probe(x, y-1, ref, up), b.probe(x, y+1, ref, down)
}

// step tries to advance from (x, y) one column in dir. It returns the new
// column and false when the advance is blocked by the grid edge, a swept
// pixel, or a pixel already rejected or now found dissimilar.
func (b *blobSuppressor) step(x, y, dir int) (int, bool) {
	nx := x + dir
	if nx < 0 || nx >= b.grid.Width {
		return x, false
	}
	i := b.grid.Idx(nx, y)
	if b.s.swept[i] {
		return x, false
	}
	if b.s.checked[i] {
		// Marked by a probe from a neighbouring row: part of the region.
		return nx, b.s.detected[i]
	}
	if !b.test(nx, y, i, b.grid.Depth[b.grid.Idx(x, y)]) {
		return x, false
	}
	return nx, true
}

// run fills the region reachable from (sx, sy).
func (b *blobSuppressor) run(sx, sy int) {
	b.stats.Blobs++
	start := b.grid.Idx(sx, sy)
	b.s.checked[start] = true
	if !b.s.detected[start] {
		b.s.detected[start] = true
		b.stats.PixelsMarked++
	}

	x, y, dir := sx, sy, 1
	branch, hasBranch := l2depth.PixelCoord{X: sx, Y: sy}, true
	up, down := b.sweep(x, y, false, false)

	for {
		if nx, ok := b.step(x, y, dir); ok {
			x = nx
			up, down = b.sweep(x, y, up, down)
			continue
		}

		if hasBranch {
			// Scan the other half of the row, left of the seed. The seed's
			// neighbours were probed already; resume their run state.
			hasBranch = false
			x, y, dir = branch.X, branch.Y, -1
			up, down = b.pending(x, y-1), b.pending(x, y+1)
			continue
		}

		seed, ok := b.s.popSeed()
		if !ok {
			return
		}
		if b.s.swept[b.grid.Idx(seed.X, seed.Y)] {
			continue
		}
		x, y, dir = seed.X, seed.Y, 1
		branch, hasBranch = seed, true
		up, down = b.sweep(x, y, false, false)
	}
}
