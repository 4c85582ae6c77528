package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/platform"
	"github.com/spaghettifunk/trainyard/engine/renderer"
	"github.com/spaghettifunk/trainyard/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const targetFrameSeconds float64 = 1.0 / 60.0

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      platform.Platform
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	unregister    []func()
}

func New(g *Game, p platform.Platform, backend renderer.RendererBackend) (*Engine, error) {
	if g == nil || g.FnInitialize == nil || g.FnUpdate == nil || g.FnRender == nil || g.FnOnResize == nil {
		err := fmt.Errorf("func engine.New - game must provide initialize, update, render and resize callbacks")
		core.LogError(err.Error())
		return nil, err
	}
	if p == nil {
		err := fmt.Errorf("func engine.New - a platform is required")
		core.LogError(err.Error())
		return nil, err
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		core.LogError("invalid application config: %s", err)
		return nil, err
	}
	core.SetLogLevel(config.LogLevel())

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		platform:     p,
		width:        config.Window.StartWidth,
		height:       config.Window.StartHeight,
	}

	sm, err := systems.NewSystemManager(config.SystemManagerConfig())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	r, err := renderer.New(&renderer.RendererConfig{
		ApplicationName: config.Window.Name,
		Width:           config.Window.StartWidth,
		Height:          config.Window.StartHeight,
		MaxPixelRatio:   config.Renderer.MaxPixelRatio,
		ClearColour:     config.Renderer.ClearColour,
	}, backend)
	if err != nil {
		return nil, errors.Join(err, sm.Shutdown())
	}
	e.systemManager = sm
	e.renderer = r

	g.SystemManager = sm
	g.Renderer = r
	g.Metrics = e.metrics

	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("engine cannot be initialized from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	e.unregister = append(e.unregister,
		core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent),
		core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey),
		core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized),
	)

	if err := e.platform.Startup(config.Window.Name,
		config.Window.StartPosX,
		config.Window.StartPosY,
		config.Window.StartWidth,
		config.Window.StartHeight); err != nil {
		return err
	}

	if err := e.renderer.Initialize(); err != nil {
		return err
	}
	if err := e.renderer.SetPixelRatio(e.platform.PixelRatio()); err != nil {
		return err
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the platform closes or Stop is called.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		// a quit event may have arrived with the messages
		if !e.isRunning.Load() {
			break
		}

		if e.isSuspended {
			e.platform.Sleep(targetFrameSeconds * 1000)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		// Deliver finished loads before the game looks at its scene.
		e.systemManager.Update()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		e.metrics.Update(delta)

		// Call the game's render routine.
		if err := e.gameInstance.FnRender(delta); err != nil {
			core.LogError("Game render failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}

		// Figure out how long the frame took and, if below
		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		remainingSeconds := targetFrameSeconds - frameElapsedTime
		if remainingSeconds > 0 && e.gameInstance.ApplicationConfig.Renderer.LimitFrames {
			// If there is time left, give it back to the OS.
			e.platform.Sleep(remainingSeconds*1000 - 1)
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		if err := core.InputUpdate(delta); err != nil {
			core.LogError(err.Error())
		}

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// Stop asks the loop to exit after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	for _, unregister := range e.unregister {
		unregister()
	}
	e.unregister = nil

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs,
		e.renderer.Shutdown(),
		e.systemManager.Shutdown(),
		e.platform.Shutdown(),
		core.EventSystemShutdown(),
		core.InputShutdown(),
	)
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Suspended() bool {
	return e.isSuspended
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return false
}
