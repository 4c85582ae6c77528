package ui

import (
	"testing"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sliderParams = BindingParams{Min: 0, Max: 1, Step: 0.1}

type recorder struct {
	values map[string]float32
	calls  int
}

func (r *recorder) PropertyChanged(name string, value float32) {
	r.values[name] = value
	r.calls++
}

func newMaterialPanel(t *testing.T) (*Panel, *properties.Bag) {
	bag := properties.NewBag(
		properties.Entry{Name: "clearcoat", Value: 0.8},
		properties.Entry{Name: "clearcoatRoughness", Value: 0.3},
		properties.Entry{Name: "metalness", Value: 0.8},
		properties.Entry{Name: "roughness", Value: 0.4},
	)
	panel := NewPanel("Debug")
	folder := panel.AddFolder("Material")
	for _, k := range bag.Keys() {
		_, err := folder.AddBinding(bag, k, sliderParams)
		require.NoError(t, err)
	}
	return panel, bag
}

func TestAddBindingRejectsUnknownKey(t *testing.T) {
	panel, bag := newMaterialPanel(t)
	_, err := panel.Folders()[0].AddBinding(bag, "sheen", sliderParams)
	assert.ErrorIs(t, err, properties.ErrUnknownProperty)

	_, err = panel.Folders()[0].AddBinding(bag, "roughness", BindingParams{Min: 1, Max: 0})
	assert.Error(t, err)
	assert.Len(t, panel.Bindings(), 4)
}

func TestSetValueWritesBagThenHandlers(t *testing.T) {
	panel, bag := newMaterialPanel(t)
	mat1 := &recorder{values: map[string]float32{}}
	mat2 := &recorder{values: map[string]float32{}}
	bag.Subscribe(mat1)
	bag.Subscribe(mat2)

	b := panel.Bindings()[2]
	require.Equal(t, "metalness", b.Key())
	var seen []float32
	b.OnChange(func(ev ChangeEvent) {
		// listeners already ran
		seen = append(seen, mat1.values[ev.Key])
	})

	require.NoError(t, b.SetValue(0.2))
	assert.InDelta(t, 0.2, b.Value(), 1e-6)
	assert.InDelta(t, 0.2, mat1.values["metalness"], 1e-6)
	assert.InDelta(t, 0.2, mat2.values["metalness"], 1e-6)
	require.Len(t, seen, 1)
	assert.InDelta(t, 0.2, seen[0], 1e-6)
}

func TestSetValueIsIdempotent(t *testing.T) {
	panel, bag := newMaterialPanel(t)
	mat := &recorder{values: map[string]float32{}}
	bag.Subscribe(mat)

	b := panel.Bindings()[3]
	require.NoError(t, b.SetValue(0.7))
	first := mat.values["roughness"]
	require.NoError(t, b.SetValue(0.7))
	assert.Equal(t, first, mat.values["roughness"])
	v, _ := bag.Get("roughness")
	assert.Equal(t, first, v)
}

func TestSetValueClampsAndSnaps(t *testing.T) {
	panel, _ := newMaterialPanel(t)
	b := panel.Bindings()[0]

	tests := []struct {
		in   float32
		want float32
	}{
		{in: -3, want: 0},
		{in: 5, want: 1},
		{in: 0.44, want: 0.4},
		{in: 0.46, want: 0.5},
		{in: 1, want: 1},
	}
	for _, tt := range tests {
		require.NoError(t, b.SetValue(tt.in))
		assert.InDelta(t, tt.want, b.Value(), 1e-6, "input %v", tt.in)
	}
}

func TestKeyboardDrivesSelection(t *testing.T) {
	panel, bag := newMaterialPanel(t)
	assert.Equal(t, "clearcoat", panel.Selected().Key())

	assert.True(t, panel.HandleKey(core.KEY_TAB))
	assert.Equal(t, "clearcoatRoughness", panel.Selected().Key())

	assert.True(t, panel.HandleKey(core.KEY_RIGHT))
	v, _ := bag.Get("clearcoatRoughness")
	assert.InDelta(t, 0.4, v, 1e-6)

	assert.True(t, panel.HandleKey(core.KEY_UP))
	assert.Equal(t, "clearcoat", panel.Selected().Key())
	assert.True(t, panel.HandleKey(core.KEY_UP))
	assert.Equal(t, "roughness", panel.Selected().Key())

	assert.False(t, panel.HandleKey(core.KEY_A))
	assert.False(t, NewPanel("empty").HandleKey(core.KEY_TAB))
}

func TestViewListsBindings(t *testing.T) {
	panel, _ := newMaterialPanel(t)
	out := panel.View()
	assert.Contains(t, out, "Debug")
	assert.Contains(t, out, "Material")
	assert.Contains(t, out, "metalness")
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "0.30")

	panel.Folders()[0].Expanded = false
	assert.NotContains(t, panel.View(), "metalness")
}
