package viewer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/trainyard/engine/async"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/properties"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/spaghettifunk/trainyard/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carriageOffset = math.NewVec3(0, 0, -2.7)

func newMaterials(t *testing.T) *systems.MaterialSystem {
	t.Helper()
	ms, err := systems.NewMaterialSystem(&systems.MaterialSystemConfig{MaxMaterialCount: 32}, properties.NewBag(
		properties.Entry{Name: scene.PropertyClearcoat, Value: 0.8},
		properties.Entry{Name: scene.PropertyClearcoatRoughness, Value: 0.3},
		properties.Entry{Name: scene.PropertyMetalness, Value: 0.8},
		properties.Entry{Name: scene.PropertyRoughness, Value: 0.4},
	))
	require.NoError(t, err)
	return ms
}

func newModel(name string, meshes ...string) *scene.Node {
	root := scene.NewGroup(name)
	for _, m := range meshes {
		root.Add(scene.NewMesh(m, &scene.Geometry{Name: m}, nil))
	}
	return root
}

type pendingLoads struct {
	texture  *async.Future[*scene.Texture]
	engine   *async.Future[*scene.Node]
	carriage *async.Future[*scene.Node]
}

func startAssembly(t *testing.T, ms *systems.MaterialSystem) (*Assembler, pendingLoads) {
	t.Helper()
	loads := pendingLoads{
		texture:  async.NewFuture[*scene.Texture](),
		engine:   async.NewFuture[*scene.Node](),
		carriage: async.NewFuture[*scene.Node](),
	}
	a := NewAssembler(scene.NewGroup(TrainGroupName), carriageOffset, ms)
	require.NoError(t, a.Assemble("colormap.png", loads.texture,
		ModelLoad{Name: "engine.glb", Future: loads.engine},
		ModelLoad{Name: "carriage.glb", Future: loads.carriage},
	))
	return a, loads
}

func TestAssemblyWaitsForEveryLoadInAnyOrder(t *testing.T) {
	orders := map[string][]string{
		"texture first": {"texture", "engine", "carriage"},
		"model first":   {"engine", "carriage", "texture"},
		"interleaved":   {"carriage", "texture", "engine"},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			a, loads := startAssembly(t, newMaterials(t))
			fired := 0
			a.OnReady(func(async.Report) { fired++ })

			tex := &scene.Texture{ID: "tex", Name: "colormap.png"}
			for i, item := range order {
				assert.False(t, a.Ready(), "ready before %s", item)
				switch item {
				case "texture":
					loads.texture.Resolve(tex)
				case "engine":
					loads.engine.Resolve(newModel("engine", "cabin", "wheels"))
				case "carriage":
					loads.carriage.Resolve(newModel("carriage", "coach"))
				}
				assert.Equal(t, len(order)-i-1, a.Outstanding())
			}

			assert.True(t, a.Ready())
			assert.Equal(t, 1, fired)
			assert.True(t, a.Report().Complete())
			require.Len(t, a.Placed(), 2)

			meshes := 0
			a.Group.WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
				meshes++
				require.NotNil(t, m.Material, n.Name)
				assert.Same(t, tex, m.Material.Map, n.Name)
				assert.True(t, m.Material.NeedsUpdate)
			})
			assert.Equal(t, 3, meshes)
		})
	}
}

func TestCarriageOffsetSurvivesGroupMoves(t *testing.T) {
	a, loads := startAssembly(t, newMaterials(t))
	loads.texture.Resolve(&scene.Texture{ID: "tex"})
	loads.engine.Resolve(newModel("engine", "cabin"))
	loads.carriage.Resolve(newModel("carriage", "coach"))
	require.True(t, a.Ready())

	engine, carriage := a.Placed()[0], a.Placed()[1]
	a.Group.UpdateWorldMatrix()
	assert.True(t, engine.WorldPosition().Compare(math.NewVec3Zero(), 1e-6))
	assert.True(t, carriage.WorldPosition().Compare(carriageOffset, 1e-6))

	a.Group.SetPosition(3, 0, 1)
	a.Group.UpdateWorldMatrix()
	relative := carriage.WorldPosition().Sub(a.Group.WorldPosition())
	assert.True(t, relative.Compare(carriageOffset, 1e-5))
}

func TestFailedTextureLeavesModelsUntextured(t *testing.T) {
	a, loads := startAssembly(t, newMaterials(t))
	loads.engine.Resolve(newModel("engine", "cabin"))
	loads.carriage.Resolve(newModel("carriage", "coach"))
	loads.texture.Reject(&core.LoadError{Kind: core.TextureLoadFailure, Path: "colormap.png", Err: errors.New("boom")})

	require.True(t, a.Ready())
	report := a.Report()
	assert.False(t, report.Complete())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "colormap.png", report.Failed[0].Name)
	assert.ErrorIs(t, report.Err(), core.ErrTextureLoad)

	a.Group.WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
		require.NotNil(t, m.Material)
		assert.Nil(t, m.Material.Map)
	})
	assert.Len(t, a.Placed(), 2)
}

func TestFailedModelIsSkipped(t *testing.T) {
	a, loads := startAssembly(t, newMaterials(t))
	loads.texture.Resolve(&scene.Texture{ID: "tex"})
	loads.engine.Reject(&core.LoadError{Kind: core.ModelLoadFailure, Path: "engine.glb", Err: errors.New("boom")})
	loads.carriage.Resolve(newModel("carriage", "coach"))

	require.True(t, a.Ready())
	require.Len(t, a.Placed(), 1)
	assert.Equal(t, "carriage", a.Placed()[0].Name)
	// keeps its slot in the train
	assert.True(t, a.Placed()[0].Transform.Position.Compare(carriageOffset, 1e-6))
	assert.ErrorIs(t, a.Report().Err(), core.ErrModelLoad)
}

func TestUnsettledLoadBlocksAssembly(t *testing.T) {
	a, loads := startAssembly(t, newMaterials(t))
	loads.texture.Resolve(&scene.Texture{ID: "tex"})
	loads.engine.Resolve(newModel("engine", "cabin"))

	assert.False(t, a.Ready())
	assert.Equal(t, 1, a.Outstanding())
	assert.Empty(t, a.Group.Children())
}

func TestAssembleOnlyOnce(t *testing.T) {
	a, loads := startAssembly(t, newMaterials(t))
	assert.Error(t, a.Assemble("again", loads.texture))

	loads.texture.Resolve(&scene.Texture{ID: "tex"})
	loads.engine.Resolve(newModel("engine", "cabin"))
	loads.carriage.Resolve(newModel("carriage", "coach"))

	late := 0
	a.OnReady(func(async.Report) { late++ })
	assert.Equal(t, 1, late)
}
