package systems

import (
	"errors"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/properties"
)

type SystemManagerConfig struct {
	Jobs      JobSystemConfig
	Resources ResourceSystemConfig
	Materials MaterialSystemConfig
	Textures  TextureSystemConfig
	Cameras   CameraSystemConfig
	// Initial material property values, in display order.
	MaterialProperties []properties.Entry
}

type SystemManager struct {
	cameraSystem   *CameraSystem
	jobSystem      *JobSystem
	materialSystem *MaterialSystem
	resourceSystem *ResourceSystem
	textureSystem  *TextureSystem
}

func NewSystemManager(config *SystemManagerConfig) (*SystemManager, error) {
	js, err := NewJobSystem(&config.Jobs)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&config.Cameras)
	if err != nil {
		return nil, errors.Join(err, js.Shutdown())
	}
	rs, err := NewResourceSystem(&config.Resources, js)
	if err != nil {
		return nil, errors.Join(err, js.Shutdown())
	}
	ts, err := NewTextureSystem(&config.Textures, rs)
	if err != nil {
		return nil, errors.Join(err, js.Shutdown(), rs.Shutdown())
	}
	ms, err := NewMaterialSystem(&config.Materials, properties.NewBag(config.MaterialProperties...))
	if err != nil {
		return nil, errors.Join(err, js.Shutdown(), rs.Shutdown())
	}
	return &SystemManager{
		cameraSystem:   cs,
		jobSystem:      js,
		materialSystem: ms,
		resourceSystem: rs,
		textureSystem:  ts,
	}, nil
}

func (sm *SystemManager) CameraSystem() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) MaterialSystem() *MaterialSystem {
	return sm.materialSystem
}

func (sm *SystemManager) ResourceSystem() *ResourceSystem {
	return sm.resourceSystem
}

func (sm *SystemManager) TextureSystem() *TextureSystem {
	return sm.textureSystem
}

// Update delivers finished background work. Call once per frame from the
// main loop.
func (sm *SystemManager) Update() int {
	return sm.jobSystem.Update()
}

// Shutdown stops every system even when one of them fails and joins the
// errors.
func (sm *SystemManager) Shutdown() error {
	return shutdownAll(
		sm.materialSystem.Shutdown,
		sm.textureSystem.Shutdown,
		// workers read through the asset manager, stop them first
		sm.jobSystem.Shutdown,
		sm.resourceSystem.Shutdown,
		sm.cameraSystem.Shutdown,
	)
}

func shutdownAll(steps ...func() error) error {
	var errs []error
	for _, step := range steps {
		if err := step(); err != nil {
			core.LogError("system shutdown: %s", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
