package async

import (
	"errors"
	"fmt"
	"sync"
)

// Failure is one tracked item that settled with an error.
type Failure struct {
	Name string
	Err  error
}

// Report is handed to the ready callback once every tracked item settled.
type Report struct {
	Loaded []string
	Failed []Failure
}

// Complete reports whether every tracked item succeeded.
func (r Report) Complete() bool {
	return len(r.Failed) == 0
}

// Err joins every failure, or returns nil when nothing failed.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
	}
	return errors.Join(errs...)
}

// Tracker counts outstanding items and fires its ready callback exactly once,
// after Seal has been called and every tracked item has settled, whatever the
// order of completion. Failed items count as settled.
type Tracker struct {
	mu          sync.Mutex
	outstanding int
	sealed      bool
	fired       bool
	report      Report
	onReady     func(Report)
}

func NewTracker(onReady func(Report)) *Tracker {
	return &Tracker{onReady: onReady}
}

// Track adds an item to wait on. Tracking after Seal is an error.
func (t *Tracker) Track(name string, a Awaitable) error {
	t.mu.Lock()
	if t.sealed {
		t.mu.Unlock()
		return fmt.Errorf("cannot track '%s': tracker already sealed", name)
	}
	t.outstanding++
	t.mu.Unlock()

	a.Done(func(err error) {
		t.settle(name, err)
	})
	return nil
}

// Seal closes the tracked set. Ready may fire from within Seal if every item
// already settled.
func (t *Tracker) Seal() {
	t.mu.Lock()
	t.sealed = true
	t.mu.Unlock()
	t.maybeFire()
}

// Outstanding returns how many tracked items are still pending.
func (t *Tracker) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outstanding
}

// Fired reports whether the ready callback already ran.
func (t *Tracker) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

func (t *Tracker) settle(name string, err error) {
	t.mu.Lock()
	t.outstanding--
	if err != nil {
		t.report.Failed = append(t.report.Failed, Failure{Name: name, Err: err})
	} else {
		t.report.Loaded = append(t.report.Loaded, name)
	}
	t.mu.Unlock()
	t.maybeFire()
}

func (t *Tracker) maybeFire() {
	t.mu.Lock()
	if t.fired || !t.sealed || t.outstanding > 0 {
		t.mu.Unlock()
		return
	}
	t.fired = true
	report := t.report
	t.mu.Unlock()

	if t.onReady != nil {
		t.onReady(report)
	}
}

// Named pairs a name with an awaitable for All.
type Named struct {
	Name string
	Item Awaitable
}

// All tracks every item, seals, and returns the tracker.
func All(onReady func(Report), items ...Named) *Tracker {
	t := NewTracker(onReady)
	for _, it := range items {
		// cannot fail: the tracker is not sealed yet
		_ = t.Track(it.Name, it.Item)
	}
	t.Seal()
	return t
}
