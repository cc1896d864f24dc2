package l4detect

import (
	"github.com/banshee-data/sightline/internal/vision/l2depth"
	"github.com/banshee-data/sightline/internal/vision/l3targets"
)

// passScratch holds every buffer a pass writes. It is owned by one Detector,
// reset at pass entry, and reused across passes to avoid reallocation.
type passScratch struct {
	// checked is the flood fill's visited set: a pixel is marked before it is
	// tested for similarity, whatever the outcome.
	checked []bool
	// detected holds pixels known to belong to an already-confirmed silhouette.
	// The differencer skips them.
	detected []bool
	// swept holds detected pixels whose row has been scanned through them.
	// detected && !swept means "queued for a scan that has not reached it yet".
	swept []bool

	seeds    []l2depth.PixelCoord
	seedHead int

	candidates   []l3targets.Candidate
	bySurface    map[l3targets.SurfaceID]int
	byID         map[l3targets.TargetID]int
	envFallback  *l2depth.Grid
	renderEnv    *l2depth.Grid
	renderTarget *l2depth.Grid
}

func newPassScratch() *passScratch {
	return &passScratch{
		bySurface:    make(map[l3targets.SurfaceID]int),
		byID:         make(map[l3targets.TargetID]int),
		envFallback:  &l2depth.Grid{},
		renderEnv:    &l2depth.Grid{},
		renderTarget: &l2depth.Grid{},
	}
}

// resetPixels sizes and clears the pixel sets and seed queue for a w×h pass.
func (s *passScratch) resetPixels(w, h int) {
	n := w * h
	s.checked = resetBools(s.checked, n)
	s.detected = resetBools(s.detected, n)
	s.swept = resetBools(s.swept, n)
	s.seeds = s.seeds[:0]
	s.seedHead = 0
}

// resetCandidates clears the candidate list and its lookup indexes.
func (s *passScratch) resetCandidates() {
	s.candidates = s.candidates[:0]
	clear(s.bySurface)
	clear(s.byID)
}

// indexCandidates builds the surface and identity lookups for the current
// candidate list. On a shared surface the earlier candidate wins, matching a
// first-match scan over the list.
func (s *passScratch) indexCandidates() {
	for i := range s.candidates {
		c := &s.candidates[i]
		if _, ok := s.byID[c.ID]; !ok {
			s.byID[c.ID] = i
		}
		for _, sid := range c.Surfaces {
			if _, ok := s.bySurface[sid]; !ok {
				s.bySurface[sid] = i
			}
		}
	}
}

func resetBools(b []bool, n int) []bool {
	if cap(b) < n {
		return make([]bool, n)
	}
	b = b[:n]
	clear(b)
	return b
}

func (s *passScratch) pushSeed(p l2depth.PixelCoord) {
	s.seeds = append(s.seeds, p)
}

func (s *passScratch) popSeed() (l2depth.PixelCoord, bool) {
	if s.seedHead >= len(s.seeds) {
		s.seeds = s.seeds[:0]
		s.seedHead = 0
		return l2depth.PixelCoord{}, false
	}
	p := s.seeds[s.seedHead]
	s.seedHead++
	return p, true
}
