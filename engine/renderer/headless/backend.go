// Package headless is a renderer backend without a GPU. It records what it
// is asked to draw, which makes it usable for tests and for running the
// viewer on machines without a display.
package headless

import (
	"sync"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

type Stats struct {
	Frames        uint64
	Uploads       uint64
	LastDrawCount int
	LastLights    int
	Width         uint32
	Height        uint32
}

type Backend struct {
	// Every n-th frame is logged at debug level; 0 disables the summary.
	LogEvery uint64

	mu          sync.Mutex
	initialized bool
	stats       Stats
	last        *metadata.RenderPacket
	versions    map[string]uint32
}

func New() *Backend {
	return &Backend{
		LogEvery: 600,
		versions: make(map[string]uint32),
	}
}

func (b *Backend) Initialize(config *metadata.RendererBackendConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	b.stats.Width, b.stats.Height = config.Width, config.Height
	core.LogDebug("headless backend ready for '%s' at %dx%d", config.ApplicationName, config.Width, config.Height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		core.LogInfo("headless backend drew %d frames, %d material uploads", b.stats.Frames, b.stats.Uploads)
	}
	b.initialized = false
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.Width, b.stats.Height = width, height
	return nil
}

func (b *Backend) UploadMaterial(material *scene.PhysicalMaterial) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.Uploads++
	b.versions[material.ID] = material.Version + 1
	return nil
}

func (b *Backend) DrawFrame(packet *metadata.RenderPacket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.Frames++
	b.stats.LastDrawCount = len(packet.Items)
	b.stats.LastLights = len(packet.Lights)
	b.last = packet
	if b.LogEvery > 0 && b.stats.Frames%b.LogEvery == 0 {
		core.LogDebug("frame %d: %d draw items, %d lights, %dx%d",
			packet.FrameNumber, len(packet.Items), len(packet.Lights), packet.Width, packet.Height)
	}
	return nil
}

func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// LastPacket returns the packet of the most recent frame.
func (b *Backend) LastPacket() *metadata.RenderPacket {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// UploadedVersion reports the material version the backend last received.
func (b *Backend) UploadedVersion(materialID string) (uint32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.versions[materialID]
	return v, ok
}
