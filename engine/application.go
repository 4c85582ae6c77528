package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/spaghettifunk/trainyard/engine/systems"
)

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	// Directory every asset path is relative to.
	Path string `toml:"path"`
	// Colour map shared by every mesh.
	Texture string `toml:"texture"`
	// Models placed in the train group, in order.
	Models []string `toml:"models"`
	// Offset of every model after the first, relative to the one before it.
	CarriageOffset [3]float32 `toml:"carriage_offset"`
	// Optional .amt preset applied over the material defaults once loaded.
	MaterialPreset string `toml:"material_preset"`
}

type CameraConfig struct {
	Fov      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
}

type ControlsConfig struct {
	EnableDamping bool    `toml:"enable_damping"`
	DampingFactor float32 `toml:"damping_factor"`
	RotateSpeed   float32 `toml:"rotate_speed"`
	MinDistance   float32 `toml:"min_distance"`
	MaxDistance   float32 `toml:"max_distance"`
}

type RendererSection struct {
	MaxPixelRatio float32 `toml:"max_pixel_ratio"`
	ClearColour   uint32  `toml:"clear_colour"`
	// Sleep away the rest of a 60 Hz frame budget.
	LimitFrames bool `toml:"limit_frames"`
	// Frames the headless platform runs before quitting; 0 runs until interrupted.
	HeadlessFrames uint64 `toml:"headless_frames"`
}

type JobsConfig struct {
	Workers    int `toml:"workers"`
	QueueSize  int `toml:"queue_size"`
	MaxResults int `toml:"max_results"`
}

type MaterialConfig struct {
	MaxMaterials       uint32  `toml:"max_materials"`
	Clearcoat          float32 `toml:"clearcoat"`
	ClearcoatRoughness float32 `toml:"clearcoat_roughness"`
	Metalness          float32 `toml:"metalness"`
	Roughness          float32 `toml:"roughness"`
}

type ApplicationConfig struct {
	Window   WindowConfig    `toml:"window"`
	Log      LogConfig       `toml:"log"`
	Assets   AssetsConfig    `toml:"assets"`
	Camera   CameraConfig    `toml:"camera"`
	Controls ControlsConfig  `toml:"controls"`
	Renderer RendererSection `toml:"renderer"`
	Jobs     JobsConfig      `toml:"jobs"`
	Material MaterialConfig  `toml:"material"`
}

// DefaultApplicationConfig returns the viewer defaults: a 1280x720 window,
// a camera at z=5 and the train models from the assets directory.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Window: WindowConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Name:        "Trainyard",
		},
		Log: LogConfig{Level: "info"},
		Assets: AssetsConfig{
			Path:    "assets",
			Texture: "textures/colormap.png",
			Models: []string{
				"models/train-electric-bullet-a.glb",
				"models/train-electric-bullet-b.glb",
			},
			CarriageOffset: [3]float32{0, 0, -2.7},
		},
		Camera: CameraConfig{
			Fov:      50,
			Near:     0.1,
			Far:      200,
			Position: [3]float32{0, 0, 5},
		},
		Controls: ControlsConfig{
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			MinDistance:   1,
			MaxDistance:   50,
		},
		Renderer: RendererSection{
			MaxPixelRatio: 2,
			ClearColour:   0x000000,
			LimitFrames:   true,
		},
		Jobs: JobsConfig{
			Workers:    4,
			QueueSize:  16,
			MaxResults: 64,
		},
		Material: MaterialConfig{
			MaxMaterials:       256,
			Clearcoat:          0.8,
			ClearcoatRoughness: 0.3,
			Metalness:          0.8,
			Roughness:          0.4,
		},
	}
}

// LoadApplicationConfig overlays the toml file at path on the defaults.
// Keys the file does not know about are an error. A leading ~ in path or
// in assets.path is expanded to the home directory.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config '%s' at %d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	if config.Assets.Path, err = homedir.Expand(config.Assets.Path); err != nil {
		return nil, fmt.Errorf("failed to expand assets.path: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every invalid setting at once.
func (c *ApplicationConfig) Validate() error {
	var errs []error
	if c.Window.StartWidth == 0 || c.Window.StartHeight == 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.StartWidth, c.Window.StartHeight))
	}
	if c.Assets.Path == "" {
		errs = append(errs, fmt.Errorf("assets.path is required"))
	}
	if len(c.Assets.Models) == 0 {
		errs = append(errs, fmt.Errorf("assets.models needs at least one model"))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got %v and %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Controls.DampingFactor <= 0 || c.Controls.DampingFactor > 1 {
		errs = append(errs, fmt.Errorf("controls.damping_factor must be in (0, 1], got %v", c.Controls.DampingFactor))
	}
	if c.Controls.MaxDistance < c.Controls.MinDistance {
		errs = append(errs, fmt.Errorf("controls.max_distance is below min_distance"))
	}
	if c.Renderer.MaxPixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("renderer.max_pixel_ratio must be positive"))
	}
	if c.Jobs.Workers < 1 {
		errs = append(errs, fmt.Errorf("jobs.workers must be at least 1"))
	}
	if c.Material.MaxMaterials == 0 {
		errs = append(errs, fmt.Errorf("material.max_materials must be at least 1"))
	}
	for _, p := range c.materialEntries() {
		if p.Value < 0 || p.Value > 1 {
			errs = append(errs, fmt.Errorf("material.%s must be in [0, 1], got %v", p.Name, p.Value))
		}
	}
	return errors.Join(errs...)
}

func (c *ApplicationConfig) LogLevel() core.LogLevel {
	return core.ParseLogLevel(c.Log.Level)
}

func (c *ApplicationConfig) materialEntries() []properties.Entry {
	return []properties.Entry{
		{Name: scene.PropertyClearcoat, Value: c.Material.Clearcoat},
		{Name: scene.PropertyClearcoatRoughness, Value: c.Material.ClearcoatRoughness},
		{Name: scene.PropertyMetalness, Value: c.Material.Metalness},
		{Name: scene.PropertyRoughness, Value: c.Material.Roughness},
	}
}

// SystemManagerConfig maps the application settings onto the engine systems.
func (c *ApplicationConfig) SystemManagerConfig() *systems.SystemManagerConfig {
	return &systems.SystemManagerConfig{
		Jobs: systems.JobSystemConfig{
			NumWorkers: c.Jobs.Workers,
			QueueSize:  c.Jobs.QueueSize,
			MaxResults: c.Jobs.MaxResults,
		},
		Resources: systems.ResourceSystemConfig{
			AssetBasePath: c.Assets.Path,
		},
		Materials: systems.MaterialSystemConfig{
			MaxMaterialCount: c.Material.MaxMaterials,
		},
		Textures: systems.TextureSystemConfig{
			MaxTextureCount: 16,
		},
		Cameras: systems.CameraSystemConfig{
			MaxCameraCount: 8,
			Fov:            c.Camera.Fov,
			Near:           c.Camera.Near,
			Far:            c.Camera.Far,
			Aspect:         float32(c.Window.StartWidth) / float32(c.Window.StartHeight),
			Position:       math.NewVec3(c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2]),
		},
		MaterialProperties: c.materialEntries(),
	}
}
