package systems

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/** @brief The material system configuration. */
type MaterialSystemConfig struct {
	/** @brief The maximum number of materials alive at once. */
	MaxMaterialCount uint32
}

type materialReference struct {
	material    *scene.PhysicalMaterial
	unsubscribe func()
}

/**
 * @brief Creates physical materials that follow a shared property bag.
 * Every material it creates is subscribed to the bag until released.
 */
type MaterialSystem struct {
	Config          *MaterialSystemConfig
	bag             *properties.Bag
	materials       map[string]*materialReference
	defaultMaterial *scene.PhysicalMaterial
}

func NewMaterialSystem(config *MaterialSystemConfig, bag *properties.Bag) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if bag == nil {
		err := fmt.Errorf("func NewMaterialSystem - a property bag is required")
		core.LogError(err.Error())
		return nil, err
	}
	ms := &MaterialSystem{
		Config:    config,
		bag:       bag,
		materials: make(map[string]*materialReference, config.MaxMaterialCount),
	}
	ms.defaultMaterial = scene.NewPhysicalMaterial(DefaultMaterialName)
	bag.Sync(ms.defaultMaterial)
	return ms, nil
}

func (ms *MaterialSystem) Shutdown() error {
	for id, ref := range ms.materials {
		ref.unsubscribe()
		delete(ms.materials, id)
	}
	return nil
}

// Properties returns the bag every material follows.
func (ms *MaterialSystem) Properties() *properties.Bag {
	return ms.bag
}

func (ms *MaterialSystem) GetDefault() *scene.PhysicalMaterial {
	return ms.defaultMaterial
}

func (ms *MaterialSystem) Count() int {
	return len(ms.materials)
}

/**
 * @brief Creates a material that uses colourMap and the current bag
 * values, flagged for upload. colourMap may be nil.
 */
func (ms *MaterialSystem) Create(name string, colourMap *scene.Texture) (*scene.PhysicalMaterial, error) {
	if uint32(len(ms.materials)) >= ms.Config.MaxMaterialCount {
		err := fmt.Errorf("cannot create material '%s': limit of %d reached, adjust the material system config", name, ms.Config.MaxMaterialCount)
		core.LogError(err.Error())
		return nil, err
	}
	m := scene.NewPhysicalMaterial(name)
	m.Map = colourMap
	ms.bag.Sync(m)
	m.NeedsUpdate = true

	ms.materials[m.ID] = &materialReference{
		material:    m,
		unsubscribe: ms.bag.Subscribe(m),
	}
	return m, nil
}

// Release stops m from following the bag.
func (ms *MaterialSystem) Release(m *scene.PhysicalMaterial) {
	if m == nil {
		return
	}
	ref, ok := ms.materials[m.ID]
	if !ok {
		core.LogDebug("material '%s' is not managed, nothing was done", m.Name)
		return
	}
	ref.unsubscribe()
	delete(ms.materials, m.ID)
}

/**
 * @brief Gives every mesh under root its own new material using colourMap.
 * The previous material is released when this system created it.
 *
 * @return The number of meshes updated.
 */
func (ms *MaterialSystem) ApplyToModel(root *scene.Node, colourMap *scene.Texture) (int, error) {
	if root == nil {
		return 0, nil
	}
	count := 0
	var err error
	root.WalkMeshes(func(n *scene.Node, mesh *scene.Mesh) {
		if err != nil {
			return
		}
		var m *scene.PhysicalMaterial
		m, err = ms.Create(n.Name, colourMap)
		if err != nil {
			return
		}
		ms.Release(mesh.Material)
		mesh.Material = m
		count++
	})
	if err != nil {
		return count, err
	}
	core.LogDebug("applied materials to %d meshes of '%s'", count, root.Name)
	return count, nil
}
