package renderer

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

/** @brief The renderer configuration. */
type RendererConfig struct {
	ApplicationName string
	Width           uint32
	Height          uint32
	/** @brief Upper bound applied by SetPixelRatio. */
	MaxPixelRatio float32
	/** @brief 0xRRGGBB */
	ClearColour uint32
}

type Renderer struct {
	config     *RendererConfig
	backend    RendererBackend
	width      uint32
	height     uint32
	pixelRatio float32
	frame      uint64
}

func New(config *RendererConfig, backend RendererBackend) (*Renderer, error) {
	if backend == nil {
		err := fmt.Errorf("func renderer.New - backend is required")
		core.LogError(err.Error())
		return nil, err
	}
	if config.MaxPixelRatio <= 0 {
		config.MaxPixelRatio = 2
	}
	return &Renderer{
		config:     config,
		backend:    backend,
		width:      config.Width,
		height:     config.Height,
		pixelRatio: 1,
	}, nil
}

func (r *Renderer) Initialize() error {
	w, h := r.DrawingBufferSize()
	if err := r.backend.Initialize(&metadata.RendererBackendConfig{
		ApplicationName: r.config.ApplicationName,
		Width:           w,
		Height:          h,
	}); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	core.LogInfo("Renderer initialized at %dx%d (pixel ratio %.1f).", r.width, r.height, r.pixelRatio)
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

// SetPixelRatio caps ratio at MaxPixelRatio.
func (r *Renderer) SetPixelRatio(ratio float32) error {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = min(ratio, r.config.MaxPixelRatio)
	return r.resizeBackend()
}

func (r *Renderer) PixelRatio() float32 {
	return r.pixelRatio
}

// SetSize sets the output size in logical pixels.
func (r *Renderer) SetSize(width, height uint32) error {
	r.width = width
	r.height = height
	return r.resizeBackend()
}

func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

// DrawingBufferSize is the output size in physical pixels.
func (r *Renderer) DrawingBufferSize() (uint32, uint32) {
	return uint32(float32(r.width) * r.pixelRatio), uint32(float32(r.height) * r.pixelRatio)
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frame
}

func (r *Renderer) resizeBackend() error {
	w, h := r.DrawingBufferSize()
	if err := r.backend.Resized(w, h); err != nil {
		core.LogError("renderer backend failed to resize to %dx%d: %s", w, h, err)
		return err
	}
	return nil
}

/**
 * @brief Draws the scene as seen from the camera. Dirty materials are
 * uploaded first; the backend receives exactly one DrawFrame call.
 */
func (r *Renderer) Render(s *scene.Scene, camera *scene.Camera, deltaTime float64) error {
	s.UpdateWorldMatrix()
	camera.Node().UpdateWorldMatrix()

	packet := &metadata.RenderPacket{
		FrameNumber:      r.frame,
		DeltaTime:        deltaTime,
		ClearColour:      r.config.ClearColour,
		ViewMatrix:       camera.ViewMatrix(),
		ProjectionMatrix: camera.ProjectionMatrix(),
		ViewPosition:     camera.Position(),
	}
	if s.Background != 0 {
		packet.ClearColour = s.Background
	}
	packet.Width, packet.Height = r.DrawingBufferSize()

	uploaded := make(map[*scene.PhysicalMaterial]struct{})
	var uploadErr error
	visit(s.Root(), func(n *scene.Node) {
		if uploadErr != nil {
			return
		}
		switch n.Kind {
		case scene.KindMesh:
			m := n.Mesh()
			if mat := m.Material; mat != nil && mat.NeedsUpdate {
				if _, done := uploaded[mat]; !done {
					uploaded[mat] = struct{}{}
					if err := r.backend.UploadMaterial(mat); err != nil {
						uploadErr = fmt.Errorf("upload of material '%s' failed: %w", mat.Name, err)
						return
					}
					mat.NeedsUpdate = false
					mat.Version++
				}
			}
			packet.Items = append(packet.Items, metadata.DrawItem{
				NodeID:   n.ID,
				Name:     n.Name,
				Model:    n.MatrixWorld(),
				Geometry: m.Geometry,
				Material: m.Material,
			})
		case scene.KindLight:
			l := n.Light()
			colour := l.ColorVec().MulScalar(l.Intensity)
			if l.Type == scene.LightAmbient {
				packet.AmbientColour = math.NewVec4(
					packet.AmbientColour.X+colour.X,
					packet.AmbientColour.Y+colour.Y,
					packet.AmbientColour.Z+colour.Z,
					1,
				)
			}
			packet.Lights = append(packet.Lights, metadata.LightData{
				Type:      l.Type,
				Colour:    l.ColorVec(),
				Intensity: l.Intensity,
				Position:  n.MatrixWorld().Position(),
				Target:    l.Target,
			})
		}
	})
	if uploadErr != nil {
		core.LogError(uploadErr.Error())
		return uploadErr
	}

	if err := r.backend.DrawFrame(packet); err != nil {
		core.LogError("renderer DrawFrame failed: %s", err)
		return err
	}
	r.frame++
	return nil
}

// visit walks the visible part of the graph.
func visit(n *scene.Node, fn func(*scene.Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.Children() {
		visit(c, fn)
	}
}
