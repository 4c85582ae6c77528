package systems

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

type textureReference struct {
	future         *async.Future[*scene.Texture]
	params         metadata.ImageResourceParams
	referenceCount uint64
	autoRelease    bool
}

/**
 * @brief Shares texture loads. Every name is loaded once; later acquires
 * get the same future until the last reference is released.
 */
type TextureSystem struct {
	Config *TextureSystemConfig
	// Hashtable for texture lookups.
	registeredTextureTable map[string]*textureReference
	resources              *ResourceSystem
}

func NewTextureSystem(config *TextureSystemConfig, rs *ResourceSystem) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if rs == nil {
		err := fmt.Errorf("func NewTextureSystem - a resource system is required")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:                 config,
		registeredTextureTable: make(map[string]*textureReference, config.MaxTextureCount),
		resources:              rs,
	}, nil
}

func (ts *TextureSystem) Shutdown() error {
	clear(ts.registeredTextureTable)
	return nil
}

/**
 * @brief Acquires the texture with the given name, starting its load on
 * first use. The reference count is incremented.
 *
 * @param name The image path relative to the asset base path.
 * @param params Decoding options. Only the first acquire's params are used.
 * @param autoRelease Drop the texture once the reference count reaches 0.
 */
func (ts *TextureSystem) Acquire(name string, params metadata.ImageResourceParams, autoRelease bool) (*async.Future[*scene.Texture], error) {
	ref, ok := ts.registeredTextureTable[name]
	if !ok {
		if uint32(len(ts.registeredTextureTable)) >= ts.Config.MaxTextureCount {
			err := fmt.Errorf("texture system cannot hold anymore textures, adjust configuration to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		ref = &textureReference{
			future:      ts.resources.LoadTexture(name, params),
			params:      params,
			autoRelease: autoRelease,
		}
		ts.registeredTextureTable[name] = ref
		core.LogDebug("Texture '%s' does not yet exist. Load started.", name)
	} else if ref.params != params {
		core.LogWarn("texture '%s' already acquired with different params; keeping the first", name)
	}
	ref.referenceCount++
	return ref.future, nil
}

// Release decrements the reference count of name.
func (ts *TextureSystem) Release(name string) {
	ref, ok := ts.registeredTextureTable[name]
	if !ok || ref.referenceCount == 0 {
		core.LogWarn("Tried to release non-existent texture: '%s'", name)
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 && ref.autoRelease {
		delete(ts.registeredTextureTable, name)
		core.LogDebug("Released texture '%s', unloaded because reference count=0 and autoRelease=true.", name)
	}
}

// References returns the reference count of name; 0 when it is not loaded.
func (ts *TextureSystem) References(name string) uint64 {
	if ref, ok := ts.registeredTextureTable[name]; ok {
		return ref.referenceCount
	}
	return 0
}

func (ts *TextureSystem) Count() int {
	return len(ts.registeredTextureTable)
}
