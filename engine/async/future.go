// Package async holds the single-settlement futures and the fan-in tracker
// used to coordinate asset loads.
package async

import (
	"errors"
	"sync"
)

// State of a future.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "loaded"
	case Rejected:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrNilRejection = errors.New("future rejected with a nil error")

// Awaitable is the type-erased view of a future that the Tracker fans in on.
type Awaitable interface {
	// Done registers fn to run once the future settles. err is nil on success.
	Done(fn func(err error))
}

// Future is a value that becomes available later. It settles exactly once;
// every later Resolve or Reject is ignored.
type Future[T any] struct {
	mu        sync.Mutex
	state     State
	value     T
	err       error
	callbacks []func(T, error)
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// Resolved returns an already fulfilled future.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Failed returns an already rejected future.
func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Resolve fulfills the future. It reports false if the future had already settled.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(Fulfilled, v, nil)
}

// Reject fails the future. It reports false if the future had already settled.
func (f *Future[T]) Reject(err error) bool {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	return f.settle(Rejected, zero, err)
}

func (f *Future[T]) settle(state State, v T, err error) bool {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	// callbacks run outside the lock so they may chain on other futures
	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// OnSettled registers a consumer. If the future has already settled the
// consumer runs immediately on the calling goroutine.
func (f *Future[T]) OnSettled(cb func(T, error)) {
	f.mu.Lock()
	if f.state == Pending {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

func (f *Future[T]) Done(fn func(err error)) {
	f.OnSettled(func(_ T, err error) { fn(err) })
}

func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the settled value and error; ok is false while pending.
func (f *Future[T]) Result() (value T, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.state != Pending
}

// Then derives a future whose value is fn applied to the fulfilled value of f.
// Rejections pass through untouched.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := NewFuture[U]()
	f.OnSettled(func(v T, err error) {
		if err != nil {
			out.Reject(err)
			return
		}
		u, err := fn(v)
		if err != nil {
			out.Reject(err)
			return
		}
		out.Resolve(u)
	})
	return out
}
