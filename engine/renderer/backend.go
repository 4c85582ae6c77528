package renderer

import (
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	// UploadMaterial is called for every material flagged NeedsUpdate
	// before the frame that first draws it.
	UploadMaterial(material *scene.PhysicalMaterial) error
	DrawFrame(packet *metadata.RenderPacket) error
}
