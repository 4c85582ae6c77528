// Package viewer is the train viewer game: a textured toy train under two
// lights, orbit controls and a material panel driven from the keyboard.
package viewer

import (
	"github.com/spaghettifunk/trainyard/engine"
	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/controls"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/spaghettifunk/trainyard/engine/ui"
)

const (
	TrainGroupName = "train"
	statsInterval  = 1.0
)

var sliderParams = ui.BindingParams{Min: 0, Max: 1, Step: 0.1}

type TrainViewer struct {
	*engine.Game
}

type viewerState struct {
	scene     *scene.Scene
	train     *scene.Node
	camera    *scene.Camera
	controls  *controls.OrbitControls
	panel     *ui.Panel
	assembler *Assembler

	dragging     bool
	statsElapsed float64
	unregister   []func()
}

func NewTrainViewer(config *engine.ApplicationConfig) *TrainViewer {
	tv := &TrainViewer{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &viewerState{},
		},
	}
	tv.FnInitialize = tv.Initialize
	tv.FnUpdate = tv.Update
	tv.FnRender = tv.Render
	tv.FnOnResize = tv.OnResize
	tv.FnShutdown = tv.Shutdown
	return tv
}

func (tv *TrainViewer) state() *viewerState {
	return tv.State.(*viewerState)
}

func (tv *TrainViewer) Initialize() error {
	core.LogInfo("initializing train viewer...")
	config := tv.ApplicationConfig
	st := tv.state()

	st.scene = scene.New()
	st.scene.Add(scene.NewAmbientLight(0xffffff, 0.8))
	sun := scene.NewDirectionalLight(0xffffff, 0.8)
	sun.SetPosition(1, 1, 1)
	st.scene.Add(sun)

	st.camera = tv.SystemManager.CameraSystem().GetDefault()
	st.controls = controls.NewOrbitControls(st.camera)
	st.controls.EnableDamping = config.Controls.EnableDamping
	st.controls.DampingFactor = config.Controls.DampingFactor
	st.controls.RotateSpeed = config.Controls.RotateSpeed
	st.controls.MinDistance = config.Controls.MinDistance
	st.controls.MaxDistance = config.Controls.MaxDistance
	st.controls.ViewportHeight = float32(config.Window.StartHeight)

	st.train = scene.NewGroup(TrainGroupName)
	st.scene.Add(st.train)

	if err := tv.buildPanel(); err != nil {
		return err
	}

	st.unregister = append(st.unregister,
		core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, tv.onButton),
		core.EventRegister(core.EVENT_CODE_BUTTON_RELEASED, tv.onButton),
		core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, tv.onMouseMove),
		core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, tv.onMouseWheel),
		core.EventRegister(core.EVENT_CODE_KEY_PRESSED, tv.onKey),
	)

	st.assembler = NewAssembler(st.train, math.NewVec3(
		config.Assets.CarriageOffset[0],
		config.Assets.CarriageOffset[1],
		config.Assets.CarriageOffset[2],
	), tv.SystemManager.MaterialSystem())
	return tv.load()
}

func (tv *TrainViewer) buildPanel() error {
	st := tv.state()
	bag := tv.SystemManager.MaterialSystem().Properties()
	st.panel = ui.NewPanel("Debug")
	folder := st.panel.AddFolder("Material")
	for _, key := range bag.Keys() {
		b, err := folder.AddBinding(bag, key, sliderParams)
		if err != nil {
			return err
		}
		b.OnChange(func(ev ui.ChangeEvent) {
			core.LogDebug("%s = %.2f\n%s", ev.Key, ev.Value, st.panel.View())
		})
	}
	return nil
}

func (tv *TrainViewer) load() error {
	config := tv.ApplicationConfig
	resources := tv.SystemManager.ResourceSystem()

	texture, err := tv.SystemManager.TextureSystem().Acquire(config.Assets.Texture, metadata.ImageResourceParams{
		FlipY: false,
		SRGB:  true,
	}, false)
	if err != nil {
		texture = async.Failed[*scene.Texture](err)
	}
	models := make([]ModelLoad, 0, len(config.Assets.Models))
	for _, path := range config.Assets.Models {
		models = append(models, ModelLoad{Name: path, Future: resources.LoadModel(path)})
	}
	if config.Assets.MaterialPreset != "" {
		bag := tv.SystemManager.MaterialSystem().Properties()
		resources.LoadMaterialPreset(config.Assets.MaterialPreset).OnSettled(func(preset *properties.Preset, err error) {
			if err != nil {
				// already logged by the resource system; keep the defaults
				return
			}
			if err := bag.Apply(preset); err != nil {
				core.LogWarn(err.Error())
			}
			core.LogInfo("material preset '%s' applied.", preset.Name)
		})
	}
	return tv.state().assembler.Assemble(config.Assets.Texture, texture, models...)
}

func (tv *TrainViewer) Update(deltaTime float64) error {
	st := tv.state()
	st.controls.Update()

	st.statsElapsed += deltaTime
	if st.statsElapsed >= statsInterval {
		st.statsElapsed = 0
		core.LogDebug("%.0f fps (%.2f ms), %d outstanding loads",
			tv.Metrics.FPS(), tv.Metrics.FrameTime(), st.assembler.Outstanding())
	}
	return nil
}

func (tv *TrainViewer) Render(deltaTime float64) error {
	st := tv.state()
	return tv.Renderer.Render(st.scene, st.camera, deltaTime)
}

func (tv *TrainViewer) OnResize(width uint32, height uint32) error {
	st := tv.state()
	if height == 0 {
		return nil
	}
	tv.SystemManager.CameraSystem().SetAspect(float32(width) / float32(height))
	if st.controls != nil {
		st.controls.ViewportHeight = float32(height)
	}
	return tv.Renderer.SetSize(width, height)
}

func (tv *TrainViewer) Shutdown() error {
	st := tv.state()
	for _, unregister := range st.unregister {
		unregister()
	}
	st.unregister = nil
	return nil
}

func (tv *TrainViewer) Scene() *scene.Scene {
	return tv.state().scene
}

// Train is the group the models are assembled into.
func (tv *TrainViewer) Train() *scene.Node {
	return tv.state().train
}

func (tv *TrainViewer) Camera() *scene.Camera {
	return tv.state().camera
}

func (tv *TrainViewer) Controls() *controls.OrbitControls {
	return tv.state().controls
}

func (tv *TrainViewer) Panel() *ui.Panel {
	return tv.state().panel
}

func (tv *TrainViewer) Assembler() *Assembler {
	return tv.state().assembler
}

// OnReady runs fn once the train is assembled.
func (tv *TrainViewer) OnReady(fn func(async.Report)) {
	tv.state().assembler.OnReady(fn)
}

func (tv *TrainViewer) onButton(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || me.Button != core.BUTTON_LEFT {
		return false
	}
	tv.state().dragging = context.Type == core.EVENT_CODE_BUTTON_PRESSED
	return false
}

func (tv *TrainViewer) onMouseMove(context core.EventContext) bool {
	st := tv.state()
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || !st.dragging {
		return false
	}
	st.controls.Rotate(float32(me.PosX-me.PrevX), float32(me.PosY-me.PrevY))
	return true
}

func (tv *TrainViewer) onMouseWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	tv.state().controls.Dolly(float32(me.Scroll))
	return true
}

func (tv *TrainViewer) onKey(context core.EventContext) bool {
	st := tv.state()
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	if !st.panel.HandleKey(ke.KeyCode) {
		return false
	}
	if b := st.panel.Selected(); b != nil {
		core.LogDebug("selected '%s'\n%s", b.Key(), st.panel.View())
	}
	return true
}
