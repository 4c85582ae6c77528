package systems

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

/** @brief The name of the default camera. */
const DefaultCameraName string = "default"

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system.
	 */
	MaxCameraCount uint16
	/** @brief Vertical field of view in degrees for new cameras. */
	Fov      float32
	Near     float32
	Far      float32
	Aspect   float32
	Position math.Vec3
}

type cameraLookup struct {
	camera         *scene.Camera
	referenceCount uint16
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	cameras map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *scene.Camera
}

/**
 * @brief Initializes the camera system.
 *
 * @param config The configuration for this system.
 */
func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Aspect <= 0 {
		config.Aspect = 1
	}
	cs := &CameraSystem{
		Config:  config,
		cameras: make(map[string]*cameraLookup, config.MaxCameraCount),
	}
	// Setup default camera.
	cs.DefaultCamera = cs.newCamera(DefaultCameraName)
	return cs, nil
}

func (cs *CameraSystem) newCamera(name string) *scene.Camera {
	node := scene.NewPerspectiveCamera(cs.Config.Fov, cs.Config.Aspect, cs.Config.Near, cs.Config.Far)
	node.Name = name
	cam := node.Camera()
	cam.SetPosition(cs.Config.Position)
	return cam
}

/**
 * @brief Shuts down the camera system.
 */
func (cs *CameraSystem) Shutdown() error {
	clear(cs.cameras)
	return nil
}

/**
 * @brief Acquires a camera by name.
 * If one is not found, a new one is created and retuned.
 * Internal reference counter is incremented.
 *
 * @param name The name of the camera to acquire.
 */
func (cs *CameraSystem) Acquire(name string) (*scene.Camera, error) {
	if name == DefaultCameraName {
		return cs.DefaultCamera, nil
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		lookup = &cameraLookup{camera: cs.newCamera(name)}
		cs.cameras[name] = lookup
	}
	lookup.referenceCount++
	return lookup.camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 *
 * @param name The name of the camera to release.
 */
func (cs *CameraSystem) Release(name string) {
	if name == DefaultCameraName {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	lookup.referenceCount--
	if lookup.referenceCount < 1 {
		delete(cs.cameras, name)
	}
}

/**
 * @brief Gets the default camera.
 */
func (cs *CameraSystem) GetDefault() *scene.Camera {
	return cs.DefaultCamera
}

// SetAspect updates the aspect ratio and projection of every camera.
func (cs *CameraSystem) SetAspect(aspect float32) {
	cs.Config.Aspect = aspect
	for _, cam := range cs.all() {
		cam.Aspect = aspect
		cam.UpdateProjectionMatrix()
	}
}

func (cs *CameraSystem) all() []*scene.Camera {
	out := []*scene.Camera{cs.DefaultCamera}
	for _, l := range cs.cameras {
		out = append(out, l.camera)
	}
	return out
}
