package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/trainyard/engine"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/platform/headless"
	backend "github.com/spaghettifunk/trainyard/engine/renderer/headless"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/spaghettifunk/trainyard/engine/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelTemplate = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": %q, "mesh": 0}],
  "meshes": [{"name": %q, "primitives": [{"attributes": {}}]}]
}`

func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "textures", "colormap.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "materials"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "materials", "matte.amt"),
		[]byte("name = \"matte\"\nmetalness = 0.1\nroughness = 0.9\n"), 0o644))

	for file, mesh := range map[string]string{"engine.gltf": "cabin", "carriage.gltf": "coach"} {
		src := fmt.Sprintf(modelTemplate, mesh, mesh)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "models", file), []byte(src), 0o644))
	}
	return dir
}

type harness struct {
	viewer   *TrainViewer
	engine   *engine.Engine
	platform *headless.Platform
	backend  *backend.Backend
}

func newHarness(t *testing.T, configure ...func(*engine.ApplicationConfig)) *harness {
	t.Helper()
	config := engine.DefaultApplicationConfig()
	config.Assets.Path = writeAssets(t)
	config.Assets.Models = []string{"models/engine.gltf", "models/carriage.gltf"}
	config.Window.StartWidth = 640
	config.Window.StartHeight = 480
	config.Jobs.Workers = 2
	for _, fn := range configure {
		fn(config)
	}

	h := &harness{
		viewer:   NewTrainViewer(config),
		platform: headless.New(600),
		backend:  backend.New(),
	}
	e, err := engine.New(h.viewer.Game, h.platform, h.backend)
	require.NoError(t, err)
	h.engine = e
	require.NoError(t, e.Initialize())
	t.Cleanup(func() {
		assert.NoError(t, e.Shutdown())
	})
	return h
}

// runUntilReady drives the loop until the train is assembled.
func (h *harness) runUntilReady(t *testing.T) {
	t.Helper()
	h.platform.OnFrame = func(uint64) {
		if h.viewer.Assembler().Ready() {
			h.platform.Close()
		}
	}
	require.NoError(t, h.engine.Run())
	require.True(t, h.viewer.Assembler().Ready(), "train was not assembled within %d frames", h.platform.MaxFrames)
}

func (h *harness) binding(t *testing.T, key string) *ui.Binding {
	t.Helper()
	for _, b := range h.viewer.Panel().Bindings() {
		if b.Key() == key {
			return b
		}
	}
	require.Failf(t, "missing binding", "no binding for %s", key)
	return nil
}

func TestViewerSceneSetup(t *testing.T) {
	h := newHarness(t)
	tv := h.viewer

	lights := tv.Scene().Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, scene.LightAmbient, lights[0].Light().Type)
	assert.InDelta(t, 0.8, lights[0].Light().Intensity, 1e-6)
	assert.True(t, lights[1].WorldPosition().Compare(math.NewVec3(1, 1, 1), 1e-6))

	cam := tv.Camera()
	assert.InDelta(t, 50, cam.Fov, 1e-6)
	assert.InDelta(t, 0.1, cam.Near, 1e-6)
	assert.InDelta(t, 200, cam.Far, 1e-6)
	assert.True(t, cam.Position().Compare(math.NewVec3(0, 0, 5), 1e-6))
	assert.True(t, tv.Controls().EnableDamping)

	assert.Equal(t, TrainGroupName, tv.Train().Name)
	assert.Len(t, tv.Panel().Bindings(), 4)
}

func TestViewerAssemblesTexturedTrain(t *testing.T) {
	h := newHarness(t)
	h.runUntilReady(t)
	tv := h.viewer

	assert.True(t, tv.Assembler().Report().Complete())
	require.Len(t, tv.Train().Children(), 2)

	meshes := 0
	tv.Train().WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
		meshes++
		require.NotNil(t, m.Material.Map, n.Name)
		assert.Equal(t, "colormap.png", m.Material.Map.Name)
		assert.Equal(t, scene.ColorSpaceSRGB, m.Material.Map.ColorSpace)
		assert.False(t, m.Material.Map.FlipY)
		assert.InDelta(t, 0.8, m.Material.Metalness, 1e-6)
		assert.InDelta(t, 0.4, m.Material.Roughness, 1e-6)
	})
	assert.Equal(t, 2, meshes)

	coach := tv.Train().FindByName("coach")
	require.NotNil(t, coach)
	assert.True(t, coach.WorldPosition().Compare(math.NewVec3(0, 0, -2.7), 1e-5))

	packet := h.backend.LastPacket()
	require.NotNil(t, packet)
	assert.Len(t, packet.Items, 2)
	assert.Len(t, packet.Lights, 2)
}

func TestSliderUpdatesEveryMeshMaterial(t *testing.T) {
	h := newHarness(t)
	h.runUntilReady(t)
	tv := h.viewer

	b := h.binding(t, scene.PropertyMetalness)
	require.NoError(t, b.SetValue(0.2))
	require.NoError(t, b.SetValue(0.2))

	v, _ := tv.SystemManager.MaterialSystem().Properties().Get(scene.PropertyMetalness)
	assert.InDelta(t, 0.2, v, 1e-6)

	var materials []*scene.PhysicalMaterial
	tv.Train().WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
		assert.InDelta(t, 0.2, m.Material.Metalness, 1e-6, n.Name)
		assert.True(t, m.Material.NeedsUpdate, n.Name)
		materials = append(materials, m.Material)
	})
	require.Len(t, materials, 2)

	require.NoError(t, tv.Render(0.016))
	for _, m := range materials {
		assert.False(t, m.NeedsUpdate)
		version, ok := h.backend.UploadedVersion(m.ID)
		require.True(t, ok)
		assert.Equal(t, m.Version, version)
	}
}

func TestResizeSetsAspectAndSize(t *testing.T) {
	h := newHarness(t)
	tv := h.viewer

	require.NoError(t, tv.OnResize(800, 400))
	cam := tv.Camera()
	assert.InDelta(t, 2, cam.Aspect, 1e-6)
	want := math.NewMat4Perspective(math.DegToRad(50), 2, 0.1, 200)
	assert.Equal(t, want, cam.ProjectionMatrix())

	w, hgt := tv.Renderer.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(400), hgt)
	assert.InDelta(t, 400, tv.Controls().ViewportHeight, 1e-6)
}

func TestKeyboardDrivesPanel(t *testing.T) {
	h := newHarness(t)
	tv := h.viewer
	bag := tv.SystemManager.MaterialSystem().Properties()

	assert.Equal(t, scene.PropertyClearcoat, tv.Panel().Selected().Key())
	require.NoError(t, core.InputProcessKey(core.KEY_TAB, true))
	require.NoError(t, core.InputProcessKey(core.KEY_TAB, false))
	assert.Equal(t, scene.PropertyClearcoatRoughness, tv.Panel().Selected().Key())

	require.NoError(t, core.InputProcessKey(core.KEY_RIGHT, true))
	v, _ := bag.Get(scene.PropertyClearcoatRoughness)
	assert.InDelta(t, 0.4, v, 1e-6)
}

func TestDragOrbitsCamera(t *testing.T) {
	h := newHarness(t)
	tv := h.viewer
	start := tv.Camera().Position()

	// moving without a button held does nothing
	require.NoError(t, core.InputProcessMouseMove(10, 10))
	assert.False(t, tv.Controls().Pending())

	require.NoError(t, core.InputProcessButton(core.BUTTON_LEFT, true))
	require.NoError(t, core.InputProcessMouseMove(110, 10))
	assert.True(t, tv.Controls().Pending())

	require.NoError(t, tv.Update(0.016))
	moved := tv.Camera().Position()
	assert.False(t, moved.Compare(start, 1e-6))
	assert.InDelta(t, 5, moved.Length(), 1e-3)

	require.NoError(t, core.InputProcessButton(core.BUTTON_LEFT, false))
	require.NoError(t, core.InputProcessMouseWheel(1))
	assert.True(t, tv.Controls().Pending())
}

func TestMaterialPresetOverridesDefaults(t *testing.T) {
	h := newHarness(t, func(c *engine.ApplicationConfig) {
		c.Assets.MaterialPreset = "materials/matte.amt"
	})
	bag := h.viewer.SystemManager.MaterialSystem().Properties()
	h.platform.OnFrame = func(uint64) {
		if v, _ := bag.Get(scene.PropertyRoughness); v > 0.8 && h.viewer.Assembler().Ready() {
			h.platform.Close()
		}
	}
	require.NoError(t, h.engine.Run())

	v, _ := bag.Get(scene.PropertyMetalness)
	assert.InDelta(t, 0.1, v, 1e-6)
	v, _ = bag.Get(scene.PropertyClearcoat)
	assert.InDelta(t, 0.8, v, 1e-6)
	h.viewer.Train().WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
		assert.InDelta(t, 0.9, m.Material.Roughness, 1e-6, n.Name)
	})
}

func TestViewerRunsWithoutAssetsDirectory(t *testing.T) {
	h := newHarness(t, func(c *engine.ApplicationConfig) {
		c.Assets.Path = filepath.Join(t.TempDir(), "assets")
	})
	h.runUntilReady(t)

	report := h.viewer.Assembler().Report()
	assert.False(t, report.Complete())
	assert.Empty(t, report.Loaded)
	require.Len(t, report.Failed, 3)
	for _, f := range report.Failed {
		var le *core.LoadError
		require.ErrorAs(t, f.Err, &le, f.Name)
		assert.ErrorIs(t, f.Err, core.ErrAssetNotFound)
	}
	assert.Empty(t, h.viewer.Train().Children())
	assert.NotZero(t, h.backend.Stats().Frames)
}
