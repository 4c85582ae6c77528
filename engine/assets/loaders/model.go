package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
)

type ModelLoader struct{}

// Load reads a glTF or GLB file and returns its default scene as a group
// node in Data.
func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	root, err := ModelFromDocument(name, doc)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     root,
	}, nil
}

func (ml *ModelLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
	}
	return nil
}

/**
 * @brief Builds the scene graph of a decoded glTF document. The returned
 * group holds the root nodes of the default scene (the first one when the
 * document names none). Every glTF mesh becomes a mesh node carrying the
 * document's material name and colour, so callers can replace it.
 */
func ModelFromDocument(name string, doc *gltf.Document) (*scene.Node, error) {
	b := &modelBuilder{doc: doc, visiting: make(map[int]bool)}
	root := scene.NewGroup(name)

	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		// no scene: every node without a parent is a root
		roots = orphanNodes(doc)
	}

	for _, idx := range roots {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	core.LogDebug("model '%s': %d nodes, %d meshes", name, b.nodes, b.meshes)
	return root, nil
}

type modelBuilder struct {
	doc      *gltf.Document
	visiting map[int]bool
	nodes    int
	meshes   int
}

func (b *modelBuilder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}
	b.nodes++

	var out *scene.Node
	if src.Mesh != nil {
		mesh, err := b.mesh(name, *src.Mesh)
		if err != nil {
			return nil, err
		}
		out = mesh
	} else {
		out = scene.NewGroup(name)
	}
	applyTransform(out, src)

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		out.Add(child)
	}
	return out, nil
}

func (b *modelBuilder) mesh(nodeName string, idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}
	src := b.doc.Meshes[idx]
	geometry := &scene.Geometry{Name: src.Name, PrimitiveCount: len(src.Primitives)}
	if geometry.Name == "" {
		geometry.Name = nodeName
	}

	var material *scene.PhysicalMaterial
	for _, p := range src.Primitives {
		if pos, ok := p.Attributes[gltf.POSITION]; ok && pos < len(b.doc.Accessors) {
			geometry.VertexCount += int(b.doc.Accessors[pos].Count)
		}
		if material == nil && p.Material != nil && *p.Material < len(b.doc.Materials) {
			material = b.material(b.doc.Materials[*p.Material])
		}
	}
	if material == nil {
		material = scene.NewPhysicalMaterial(geometry.Name)
	}
	b.meshes++
	return scene.NewMesh(nodeName, geometry, material), nil
}

func (b *modelBuilder) material(src *gltf.Material) *scene.PhysicalMaterial {
	m := scene.NewPhysicalMaterial(src.Name)
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			m.Color = math.NewVec3(float32(c[0]), float32(c[1]), float32(c[2]))
		}
		if pbr.MetallicFactor != nil {
			m.Metalness = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = float32(*pbr.RoughnessFactor)
		}
	}
	return m
}

func applyTransform(n *scene.Node, src *gltf.Node) {
	if m := toMat4(src.Matrix); m != (math.Mat4{}) && m != math.NewMat4Identity() {
		pos, rot, scale := m.Decompose()
		n.Transform.SetPositionRotationScale(pos, rot, scale)
		return
	}
	pos := toVec3(src.Translation)
	rot := math.Quaternion{
		X: float32(src.Rotation[0]),
		Y: float32(src.Rotation[1]),
		Z: float32(src.Rotation[2]),
		W: float32(src.Rotation[3]),
	}
	if rot == (math.Quaternion{}) {
		rot = math.NewQuatIdentity()
	}
	scale := toVec3(src.Scale)
	if scale == (math.Vec3{}) {
		scale = math.NewVec3One()
	}
	n.Transform.SetPositionRotationScale(pos, rot, scale)
}

func toVec3[T float32 | float64](v [3]T) math.Vec3 {
	return math.NewVec3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func toMat4[T float32 | float64](v [16]T) math.Mat4 {
	var m math.Mat4
	for i := range v {
		m.Data[i] = float32(v[i])
	}
	return m
}

func orphanNodes(doc *gltf.Document) []int {
	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var out []int
	for i, p := range hasParent {
		if !p {
			out = append(out, i)
		}
	}
	return out
}
