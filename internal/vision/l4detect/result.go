package l4detect

import (
	"sort"

	"github.com/banshee-data/sightline/internal/vision/l3targets"
)

// PassStats counts the work done by one pass.
type PassStats struct {
	Candidates          int // targets that passed the range filter
	Anomalies           int // pixels where target depth < environment depth
	ConfirmationQueries int
	ConfirmedHits       int // hits owned by an in-range candidate
	UnownedHits         int // hits on surfaces outside the candidate set
	Misses              int // queries that hit nothing
	Blobs               int // flood fills started
	PixelsTested        int // flood-fill similarity tests
	PixelsMarked        int // pixels added to the detected set
	SeedsQueued         int
}

// Result is the set of distinct targets one pass detected.
type Result struct {
	Observer string
	Stats    PassStats

	ids  []l3targets.TargetID
	seen map[l3targets.TargetID]struct{}
}

func newResult(observer string) *Result {
	return &Result{Observer: observer, seen: make(map[l3targets.TargetID]struct{})}
}

// add inserts id and reports whether it was new.
func (r *Result) add(id l3targets.TargetID) bool {
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	r.ids = append(r.ids, id)
	return true
}

// Contains reports whether id was detected.
func (r *Result) Contains(id l3targets.TargetID) bool {
	_, ok := r.seen[id]
	return ok
}

// Len returns the number of distinct detected targets.
func (r *Result) Len() int { return len(r.ids) }

// Any reports whether at least one target was detected.
func (r *Result) Any() bool { return len(r.ids) > 0 }

// IDs returns the detected targets in detection order.
func (r *Result) IDs() []l3targets.TargetID {
	out := make([]l3targets.TargetID, len(r.ids))
	copy(out, r.ids)
	return out
}

// SortedIDs returns the detected targets in lexical order.
func (r *Result) SortedIDs() []l3targets.TargetID {
	out := r.IDs()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
