package systems

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/assets"
	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

/**
 * @brief Loads assets in the background. Every load returns a future that
 * settles on the goroutine driving JobSystem.Update.
 */
type ResourceSystem struct {
	Config *ResourceSystemConfig
	assets *assets.AssetManager
	jobs   *JobSystem
}

func NewResourceSystem(config *ResourceSystemConfig, js *JobSystem) (*ResourceSystem, error) {
	if js == nil {
		err := fmt.Errorf("func NewResourceSystem - a job system is required")
		core.LogError(err.Error())
		return nil, err
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError("failed to create asset manager: %s", err)
		return nil, err
	}
	if err := am.Initialize(config.AssetBasePath); err != nil {
		_ = am.Shutdown()
		return nil, err
	}

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)

	return &ResourceSystem{
		Config: config,
		assets: am,
		jobs:   js,
	}, nil
}

func (rs *ResourceSystem) Shutdown() error {
	return rs.assets.Shutdown()
}

func (rs *ResourceSystem) Assets() *assets.AssetManager {
	return rs.assets
}

/**
 * @brief Starts loading a texture.
 *
 * @param name The image path relative to the asset base path.
 * @param params Decoding options (colour space, flip).
 * @return A future that settles with the texture or a *core.LoadError.
 */
func (rs *ResourceSystem) LoadTexture(name string, params metadata.ImageResourceParams) *async.Future[*scene.Texture] {
	return load[*scene.Texture](rs, name, metadata.ResourceTypeImage, params, core.TextureLoadFailure)
}

/**
 * @brief Starts loading a glTF/GLB model.
 *
 * @param name The model path relative to the asset base path.
 * @return A future that settles with the model root or a *core.LoadError.
 */
func (rs *ResourceSystem) LoadModel(name string) *async.Future[*scene.Node] {
	return load[*scene.Node](rs, name, metadata.ResourceTypeModel, nil, core.ModelLoadFailure)
}

/**
 * @brief Starts loading a material preset (.amt).
 *
 * @param name The preset path relative to the asset base path.
 * @return A future that settles with the preset or a *core.LoadError.
 */
func (rs *ResourceSystem) LoadMaterialPreset(name string) *async.Future[*properties.Preset] {
	return load[*properties.Preset](rs, name, metadata.ResourceTypeMaterial, nil, core.MaterialLoadFailure)
}

func load[T any](rs *ResourceSystem, name string, resourceType metadata.ResourceType, params interface{}, kind core.LoadErrorKind) *async.Future[T] {
	future := async.NewFuture[T]()
	fail := func(err error) {
		lerr := &core.LoadError{Kind: kind, Path: name, Err: err}
		core.LogError("failed to load %s '%s': %s", resourceType, name, err)
		future.Reject(lerr)
	}

	err := rs.jobs.AddWorkNonBlocking(metadata.JobTask{
		Name:     fmt.Sprintf("load %s '%s'", resourceType, name),
		Priority: metadata.JOB_PRIORITY_NORMAL,
		OnStart: func(p interface{}) (interface{}, error) {
			res, err := rs.assets.LoadAsset(name, resourceType, p)
			if err != nil {
				return nil, err
			}
			v, ok := res.Data.(T)
			if !ok {
				return nil, fmt.Errorf("loader returned %T", res.Data)
			}
			return v, nil
		},
		OnComplete: func(result interface{}) {
			core.LogDebug("loaded %s '%s'", resourceType, name)
			future.Resolve(result.(T))
		},
		OnFailure:   fail,
		InputParams: params,
	})
	if err != nil {
		fail(err)
	}
	return future
}
