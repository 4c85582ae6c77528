package ui

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/properties"
)

type BindingParams struct {
	Min   float32
	Max   float32
	Step  float32
	Label string
}

type ChangeEvent struct {
	Key   string
	Value float32
}

// Binding is a slider bound to one key of a property bag.
type Binding struct {
	key      string
	bag      *properties.Bag
	params   BindingParams
	handlers []func(ChangeEvent)
}

func (b *Binding) Key() string {
	return b.key
}

func (b *Binding) Params() BindingParams {
	return b.params
}

func (b *Binding) Value() float32 {
	v, _ := b.bag.Get(b.key)
	return v
}

// OnChange registers fn to run after every write through the binding.
func (b *Binding) OnChange(fn func(ChangeEvent)) *Binding {
	b.handlers = append(b.handlers, fn)
	return b
}

// SetValue clamps v to [Min, Max], snaps it to Step and writes it to the bag.
// Bag listeners are notified before the binding's change handlers.
func (b *Binding) SetValue(v float32) error {
	v = b.normalize(v)
	if err := b.bag.Set(b.key, v); err != nil {
		return err
	}
	ev := ChangeEvent{Key: b.key, Value: v}
	for _, fn := range b.handlers {
		fn(ev)
	}
	return nil
}

// Nudge moves the value by the given number of steps.
func (b *Binding) Nudge(steps int) error {
	step := b.params.Step
	if step <= 0 {
		step = (b.params.Max - b.params.Min) / 10
	}
	return b.SetValue(b.Value() + float32(steps)*step)
}

func (b *Binding) normalize(v float32) float32 {
	if math32.IsNaN(v) {
		v = b.params.Min
	}
	v = math.Clamp(v, b.params.Min, b.params.Max)
	if b.params.Step > 0 {
		n := math32.Floor((v-b.params.Min)/b.params.Step + 0.5)
		v = math.Clamp(b.params.Min+n*b.params.Step, b.params.Min, b.params.Max)
	}
	return v
}
