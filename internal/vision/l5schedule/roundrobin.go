package l5schedule

import (
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/sightline/internal/monitoring"
	"github.com/banshee-data/sightline/internal/vision/l1pose"
	"github.com/banshee-data/sightline/internal/vision/l4detect"
	"github.com/google/uuid"
)

// ErrUnknownObserver is returned by DetectImmediate for an unregistered ID.
var ErrUnknownObserver = errors.New("unknown observer")

// Pass runs one detection pass. *l4detect.Detector and
// *l4detect.RaycastDetector both satisfy it.
type Pass interface {
	Detect(q l4detect.Query) (*l4detect.Result, error)
}

// ViewFunc returns an observer's current view. It is called once per pass.
type ViewFunc func() l1pose.View

type observer struct {
	id   string
	view ViewFunc
}

// RoundRobin schedules detection passes over registered observers. All
// passes run under one mutex, so a single Pass (and its scratch buffers) is
// never used concurrently.
type RoundRobin struct {
	mu        sync.Mutex
	pass      Pass
	perTick   int
	env       l4detect.Query
	observers []observer
	index     map[string]int
	cursor    int

	// OnResult, when set, receives every successful pass result. It is
	// called with the scheduler lock held and must not call back into it.
	OnResult func(*l4detect.Result)
}

// NewObserverID returns a fresh random observer ID.
func NewObserverID() string {
	return uuid.NewString()
}

// NewRoundRobin returns a scheduler running perTick passes per Tick. env
// supplies the roster and collaborators shared by every pass; its Observer
// and View fields are overwritten per observer.
func NewRoundRobin(pass Pass, perTick int, env l4detect.Query) (*RoundRobin, error) {
	if pass == nil {
		return nil, errors.New("nil pass")
	}
	if perTick < 1 {
		return nil, fmt.Errorf("observers per tick must be at least 1, got %d", perTick)
	}
	return &RoundRobin{
		pass:    pass,
		perTick: perTick,
		env:     env,
		index:   make(map[string]int),
	}, nil
}

// Register adds an observer. Registering an ID twice is a no-op and reports
// false.
func (r *RoundRobin) Register(id string, view ViewFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.observers)
	r.observers = append(r.observers, observer{id: id, view: view})
	return true
}

// Unregister removes an observer and reports whether it was registered.
// The rotation continues with the observer that followed it.
func (r *RoundRobin) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return false
	}
	delete(r.index, id)
	r.observers = append(r.observers[:i], r.observers[i+1:]...)
	for j := i; j < len(r.observers); j++ {
		r.index[r.observers[j].id] = j
	}
	if i < r.cursor {
		r.cursor--
	}
	if r.cursor >= len(r.observers) {
		r.cursor = 0
	}
	return true
}

// Len returns the number of registered observers.
func (r *RoundRobin) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}

// Tick runs passes for the next min(perTick, Len()) observers, wrapping
// around the registration order. A failed pass is logged and skipped; its
// error is joined into the returned error and the remaining observers still
// run.
func (r *RoundRobin) Tick() ([]*l4detect.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(r.perTick, len(r.observers))
	results := make([]*l4detect.Result, 0, n)
	var errs []error
	for k := 0; k < n; k++ {
		o := r.observers[r.cursor]
		r.cursor = (r.cursor + 1) % len(r.observers)

		res, err := r.run(o)
		if err != nil {
			monitoring.Logf("[l5schedule] observer %s: pass failed: %v", o.id, err)
			errs = append(errs, fmt.Errorf("observer %s: %w", o.id, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// DetectImmediate runs one pass for id outside the rotation. The cursor is
// not moved.
func (r *RoundRobin) DetectImmediate(id string) (*l4detect.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, id)
	}
	return r.run(r.observers[i])
}

func (r *RoundRobin) run(o observer) (*l4detect.Result, error) {
	q := r.env
	q.Observer = o.id
	q.View = o.view()
	res, err := r.pass.Detect(q)
	if err != nil {
		return nil, err
	}
	if r.OnResult != nil {
		r.OnResult(res)
	}
	return res, nil
}
