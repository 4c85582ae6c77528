// Package properties implements the shared material property bag: an
// ordered set of named values that notifies its listeners on every write.
package properties

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownProperty = errors.New("unknown property")

// Listener is notified after a property value is written.
type Listener interface {
	PropertyChanged(name string, value float32)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(name string, value float32)

func (f ListenerFunc) PropertyChanged(name string, value float32) {
	f(name, value)
}

type Entry struct {
	Name  string
	Value float32
}

// Bag owns the property values. Keys keep their insertion order.
type Bag struct {
	mu        sync.RWMutex
	keys      []string
	values    map[string]float32
	listeners []*subscription
}

type subscription struct {
	listener Listener
}

func NewBag(entries ...Entry) *Bag {
	b := &Bag{values: make(map[string]float32, len(entries))}
	for _, e := range entries {
		if _, ok := b.values[e.Name]; !ok {
			b.keys = append(b.keys, e.Name)
		}
		b.values[e.Name] = e.Value
	}
	return b
}

// Keys returns the property names in insertion order.
func (b *Bag) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.keys...)
}

func (b *Bag) Get(name string) (float32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[name]
	return v, ok
}

// Entries returns a snapshot of every property in order.
func (b *Bag) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, Entry{Name: k, Value: b.values[k]})
	}
	return out
}

// Set writes the value and then notifies every listener, in subscription
// order, on the calling goroutine.
func (b *Bag) Set(name string, value float32) error {
	b.mu.Lock()
	if _, ok := b.values[name]; !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: '%s'", ErrUnknownProperty, name)
	}
	b.values[name] = value
	subs := append([]*subscription(nil), b.listeners...)
	b.mu.Unlock()

	for _, s := range subs {
		s.listener.PropertyChanged(name, value)
	}
	return nil
}

// Subscribe registers l and returns a function that removes it again.
func (b *Bag) Subscribe(l Listener) func() {
	sub := &subscription{listener: l}
	b.mu.Lock()
	b.listeners = append(b.listeners, sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.listeners {
			if s == sub {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Sync pushes every current value to l, in order. Used when a listener
// subscribes after the bag was populated.
func (b *Bag) Sync(l Listener) {
	for _, e := range b.Entries() {
		l.PropertyChanged(e.Name, e.Value)
	}
}

func (b *Bag) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.keys)
}
