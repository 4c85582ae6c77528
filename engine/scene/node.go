// Package scene is the viewer's scene graph. Every node is one of a fixed
// set of kinds and carries the payload for its kind only.
package scene

import (
	"fmt"

	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/math"
)

type NodeKind int

const (
	KindGroup NodeKind = iota
	KindMesh
	KindLight
	KindCamera
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindMesh:
		return "Mesh"
	case KindLight:
		return "Light"
	case KindCamera:
		return "Camera"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is an element of the scene graph.
type Node struct {
	ID        string
	Name      string
	Kind      NodeKind
	Visible   bool
	Transform *math.Transform

	parent   *Node
	children []*Node
	world    math.Mat4

	mesh   *Mesh
	light  *Light
	camera *Camera
}

func newNode(kind NodeKind, name string) *Node {
	return &Node{
		ID:        core.NewIdentifier(),
		Name:      name,
		Kind:      kind,
		Visible:   true,
		Transform: math.TransformCreate(),
		world:     math.NewMat4Identity(),
	}
}

func NewGroup(name string) *Node {
	return newNode(KindGroup, name)
}

func NewMesh(name string, geometry *Geometry, material *PhysicalMaterial) *Node {
	n := newNode(KindMesh, name)
	n.mesh = &Mesh{Geometry: geometry, Material: material}
	return n
}

// Mesh returns the mesh payload, or nil if the node is not a mesh.
func (n *Node) Mesh() *Mesh {
	if n.Kind != KindMesh {
		return nil
	}
	return n.mesh
}

// Light returns the light payload, or nil if the node is not a light.
func (n *Node) Light() *Light {
	if n.Kind != KindLight {
		return nil
	}
	return n.light
}

// Camera returns the camera payload, or nil if the node is not a camera.
func (n *Node) Camera() *Camera {
	if n.Kind != KindCamera {
		return nil
	}
	return n.camera
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and its descendants depth first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// WalkMeshes calls fn for every mesh node in the subtree.
func (n *Node) WalkMeshes(fn func(*Node, *Mesh)) {
	n.Traverse(func(node *Node) {
		switch node.Kind {
		case KindMesh:
			fn(node, node.mesh)
		}
	})
}

// FindByName returns the first node in the subtree with the given name.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) {
		if found == nil && node.Name == name {
			found = node
		}
	})
	return found
}

// LocalMatrix is the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return n.Transform.GetLocal()
}

// WorldMatrix composes the local matrices from n up to the root.
func (n *Node) WorldMatrix() math.Mat4 {
	local := n.LocalMatrix()
	if n.parent == nil {
		return local
	}
	return local.Mul(n.parent.WorldMatrix())
}

// UpdateWorldMatrix recomputes the cached world matrix of n and its
// descendants. The parent's cached matrix is assumed to be current.
func (n *Node) UpdateWorldMatrix() {
	local := n.LocalMatrix()
	if n.parent == nil {
		n.world = local
	} else {
		n.world = local.Mul(n.parent.world)
	}
	for _, c := range n.children {
		c.UpdateWorldMatrix()
	}
}

// MatrixWorld returns the matrix cached by the last UpdateWorldMatrix.
func (n *Node) MatrixWorld() math.Mat4 {
	return n.world
}

func (n *Node) WorldPosition() math.Vec3 {
	return n.WorldMatrix().Position()
}

func (n *Node) SetPosition(x, y, z float32) *Node {
	n.Transform.SetPosition(math.NewVec3(x, y, z))
	return n
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
}
