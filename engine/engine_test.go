package engine

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/platform/headless"
	backend "github.com/spaghettifunk/trainyard/engine/renderer/headless"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	inits, updates, renders int
	sizes                   [][2]uint32
}

func testConfig(t *testing.T) *ApplicationConfig {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	f, err := os.Create(filepath.Join(dir, "textures", "colormap.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	config := DefaultApplicationConfig()
	config.Assets.Path = dir
	config.Window.StartWidth = 320
	config.Window.StartHeight = 240
	config.Renderer.LimitFrames = false
	config.Jobs.Workers = 1
	return config
}

func countingGame(config *ApplicationConfig, c *counters) *Game {
	g := &Game{ApplicationConfig: config}
	g.FnInitialize = func() error { c.inits++; return nil }
	g.FnUpdate = func(float64) error { c.updates++; return nil }
	g.FnRender = func(dt float64) error {
		c.renders++
		return g.Renderer.Render(scene.New(), g.SystemManager.CameraSystem().GetDefault(), dt)
	}
	g.FnOnResize = func(w, h uint32) error {
		c.sizes = append(c.sizes, [2]uint32{w, h})
		return g.Renderer.SetSize(w, h)
	}
	return g
}

func startEngine(t *testing.T, g *Game, p *headless.Platform) (*Engine, *backend.Backend) {
	t.Helper()
	b := backend.New()
	e, err := New(g, p, b)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	return e, b
}

func TestNewRejectsIncompleteGame(t *testing.T) {
	_, err := New(&Game{}, headless.New(1), backend.New())
	assert.Error(t, err)

	c := &counters{}
	_, err = New(countingGame(testConfig(t), c), nil, backend.New())
	assert.Error(t, err)

	config := testConfig(t)
	config.Camera.Fov = 0
	_, err = New(countingGame(config, c), headless.New(1), backend.New())
	assert.Error(t, err)
}

func TestRunUntilPlatformCloses(t *testing.T) {
	c := &counters{}
	g := countingGame(testConfig(t), c)
	e, b := startEngine(t, g, headless.New(5))
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, [][2]uint32{{320, 240}}, c.sizes)

	require.NoError(t, e.Run())
	assert.Equal(t, 1, c.inits)
	assert.Equal(t, 5, c.updates)
	assert.Equal(t, 5, c.renders)
	assert.Equal(t, uint64(5), b.Stats().Frames)
	assert.Equal(t, uint64(5), g.Renderer.FrameNumber())
	assert.Same(t, e.Metrics(), g.Metrics)

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShuttingDown, e.Stage())
}

func TestRunRequiresInitialize(t *testing.T) {
	e, err := New(countingGame(testConfig(t), &counters{}), headless.New(1), backend.New())
	require.NoError(t, err)
	assert.Error(t, e.Run())
	require.NoError(t, e.Shutdown())
}

func TestEscapeQuits(t *testing.T) {
	c := &counters{}
	p := headless.New(10)
	p.OnFrame = func(frame uint64) {
		if frame == 2 {
			require.NoError(t, core.InputProcessKey(core.KEY_ESCAPE, true))
		}
	}
	e, _ := startEngine(t, countingGame(testConfig(t), c), p)

	require.NoError(t, e.Run())
	assert.Equal(t, 2, c.updates)
	require.NoError(t, e.Shutdown())
}

func TestStopEndsLoop(t *testing.T) {
	c := &counters{}
	p := headless.New(0)
	var e *Engine
	p.OnFrame = func(frame uint64) {
		if frame == 3 {
			e.Stop()
		}
	}
	e, _ = startEngine(t, countingGame(testConfig(t), c), p)

	require.NoError(t, e.Run())
	assert.Equal(t, 3, c.updates)
	require.NoError(t, e.Shutdown())
}

func TestResizeReachesGameAndMinimiseSuspends(t *testing.T) {
	c := &counters{}
	p := headless.New(4)
	p.OnFrame = func(frame uint64) {
		switch frame {
		case 1:
			p.Resize(640, 480)
		case 2:
			p.Resize(0, 0)
		}
	}
	g := countingGame(testConfig(t), c)
	e, b := startEngine(t, g, p)

	require.NoError(t, e.Run())
	assert.Equal(t, [][2]uint32{{320, 240}, {640, 480}}, c.sizes)
	assert.Equal(t, 2, c.updates)
	assert.True(t, e.Suspended())
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(0), w)
	assert.Equal(t, uint32(0), h)

	w, h = g.Renderer.Size()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
	assert.Equal(t, uint32(640), b.Stats().Width)
	require.NoError(t, e.Shutdown())
}

func TestPixelRatioComesFromPlatform(t *testing.T) {
	p := headless.New(1)
	p.Ratio = 3
	g := countingGame(testConfig(t), &counters{})
	e, b := startEngine(t, g, p)

	assert.InDelta(t, 2, g.Renderer.PixelRatio(), 1e-6)
	assert.Equal(t, uint32(640), b.Stats().Width)
	assert.Equal(t, uint32(480), b.Stats().Height)
	require.NoError(t, e.Shutdown())
}

func TestLoopDeliversLoads(t *testing.T) {
	config := testConfig(t)
	config.Renderer.LimitFrames = true
	p := headless.New(600)

	var future *async.Future[*scene.Texture]
	g := countingGame(config, &counters{})
	g.FnInitialize = func() error {
		future = g.SystemManager.ResourceSystem().LoadTexture("textures/colormap.png", metadata.ImageResourceParams{})
		return nil
	}
	g.FnUpdate = func(float64) error {
		if future.State() != async.Pending {
			p.Close()
		}
		return nil
	}
	e, _ := startEngine(t, g, p)

	require.NoError(t, e.Run())
	tex, err, ok := future.Result()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, "colormap.png", tex.Name)
	require.NoError(t, e.Shutdown())
}
