package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG writes a 4x2 image: red top row, blue bottom row.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
		img.Set(x, 1, color.NRGBA{B: 255, A: 255})
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestTextureLoader(t *testing.T) {
	path := writePNG(t, t.TempDir(), "colormap.png")

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, metadata.ImageResourceParams{SRGB: true})
	require.NoError(t, err)
	tex, ok := res.Data.(*scene.Texture)
	require.True(t, ok)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, scene.ColorSpaceSRGB, tex.ColorSpace)
	assert.False(t, tex.FlipY)
	assert.Equal(t, "colormap.png", tex.Name)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.Image.RGBAAt(0, 0))
	assert.NotZero(t, res.DataSize)
}

func TestTextureLoaderFlipY(t *testing.T) {
	path := writePNG(t, t.TempDir(), "colormap.png")

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true})
	require.NoError(t, err)
	tex := res.Data.(*scene.Texture)
	assert.Equal(t, scene.ColorSpaceLinear, tex.ColorSpace)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, tex.Image.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, tex.Image.RGBAAt(3, 1))
}

func TestTextureLoaderDownscales(t *testing.T) {
	path := writePNG(t, t.TempDir(), "colormap.png")

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, metadata.ImageResourceParams{MaxDimension: 2})
	require.NoError(t, err)
	tex := res.Data.(*scene.Texture)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 1, tex.Height)
}

func TestTextureLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := (&TextureLoader{}).Load(filepath.Join(dir, "missing.png"), metadata.ResourceTypeImage, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = (&TextureLoader{}).Load(bad, metadata.ResourceTypeImage, nil)
	assert.Error(t, err)

	_, err = (&TextureLoader{}).Load(bad, metadata.ResourceTypeImage, 42)
	assert.Error(t, err)
}

func trainDocument() *gltf.Document {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "train"},
			{Name: "body", Mesh: gltf.Index(0)},
			{Name: "wheels", Mesh: gltf.Index(1)},
		},
		Meshes: []*gltf.Mesh{
			{Name: "body", Primitives: []*gltf.Primitive{{}, {}}},
			{Name: "wheels", Primitives: []*gltf.Primitive{{Material: gltf.Index(0)}}},
		},
		Materials: []*gltf.Material{{Name: "metal"}},
	}
	doc.Nodes[0].Children = append(doc.Nodes[0].Children, 1, 2)
	doc.Nodes[2].Translation[2] = 1
	doc.Scenes = []*gltf.Scene{{Name: "main"}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func TestModelFromDocument(t *testing.T) {
	root, err := ModelFromDocument("train-a", trainDocument())
	require.NoError(t, err)
	assert.Equal(t, scene.KindGroup, root.Kind)
	assert.Equal(t, "train-a", root.Name)

	var meshes []string
	root.WalkMeshes(func(n *scene.Node, m *scene.Mesh) {
		meshes = append(meshes, n.Name)
		require.NotNil(t, m.Material)
	})
	assert.Equal(t, []string{"body", "wheels"}, meshes)

	body := root.FindByName("body").Mesh()
	assert.Equal(t, 2, body.Geometry.PrimitiveCount)
	assert.Equal(t, "metal", root.FindByName("wheels").Mesh().Material.Name)

	wheels := root.FindByName("wheels")
	assert.True(t, wheels.WorldPosition().Compare(math.NewVec3(0, 0, 1), 1e-6))
	assert.Equal(t, math.NewVec3One(), wheels.Transform.Scale)
}

func TestModelFromDocumentRejectsCycles(t *testing.T) {
	doc := trainDocument()
	doc.Nodes[1].Children = append(doc.Nodes[1].Children, 0)
	_, err := ModelFromDocument("loop", doc)
	assert.Error(t, err)
}

func TestModelFromDocumentWithoutScenes(t *testing.T) {
	doc := trainDocument()
	doc.Scenes = nil
	root, err := ModelFromDocument("train", doc)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
	assert.Equal(t, "train", root.Children()[0].Name)
}

func TestModelLoaderReadsGLTF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train-electric-bullet-a.gltf")
	src := `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "cabin", "mesh": 0, "translation": [0, 1, 0]}],
  "meshes": [{"name": "cabin", "primitives": [{"attributes": {}}]}]
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
	require.NoError(t, err)
	root, ok := res.Data.(*scene.Node)
	require.True(t, ok)
	assert.Equal(t, "train-electric-bullet-a", root.Name)
	cabin := root.FindByName("cabin")
	require.NotNil(t, cabin)
	assert.Equal(t, scene.KindMesh, cabin.Kind)
	assert.True(t, cabin.WorldPosition().Compare(math.NewVec3(0, 1, 0), 1e-6))

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
	assert.Error(t, err)
}
