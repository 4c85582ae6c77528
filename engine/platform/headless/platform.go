// Package headless is a platform without a window. It runs a fixed number
// of frames, or until closed, and can replay input at chosen frames.
package headless

import (
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/platform"
)

var _ platform.Platform = (*Platform)(nil)

type Platform struct {
	// Stop after this many frames; 0 runs until Close.
	MaxFrames uint64
	Ratio     float32
	// Called at the start of every frame with the frame number, before the
	// engine updates. Used to inject input or resizes.
	OnFrame func(frame uint64)

	frames atomic.Uint64
	closed atomic.Bool
	start  time.Time
}

func New(maxFrames uint64) *Platform {
	return &Platform{MaxFrames: maxFrames, Ratio: 1}
}

func (p *Platform) Startup(applicationName string, x, y, width, height uint32) error {
	p.start = time.Now()
	core.LogInfo("Headless platform started for '%s' at %dx%d.", applicationName, width, height)
	return nil
}

func (p *Platform) PumpMessages() bool {
	if p.closed.Load() {
		return false
	}
	frame := p.frames.Load()
	if p.MaxFrames > 0 && frame >= p.MaxFrames {
		return false
	}
	if p.OnFrame != nil {
		p.OnFrame(frame)
	}
	p.frames.Add(1)
	return !p.closed.Load()
}

// Close makes the next PumpMessages report that the application should quit.
func (p *Platform) Close() {
	p.closed.Store(true)
}

func (p *Platform) Frames() uint64 {
	return p.frames.Load()
}

func (p *Platform) PixelRatio() float32 {
	return p.Ratio
}

func (p *Platform) GetAbsoluteTime() float64 {
	return time.Since(p.start).Seconds()
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func (p *Platform) Shutdown() error {
	p.Close()
	return nil
}

// Resize fires the same resize event a window would.
func (p *Platform) Resize(width, height uint32) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: width, WindowHeight: height},
	})
}
