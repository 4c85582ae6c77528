package scene

// Scene owns the root of the graph for the lifetime of the process.
type Scene struct {
	root *Node
	// 0xRRGGBB
	Background uint32
}

func New() *Scene {
	return &Scene{root: NewGroup("scene")}
}

func (s *Scene) Root() *Node {
	return s.root
}

func (s *Scene) Add(nodes ...*Node) {
	s.root.Add(nodes...)
}

func (s *Scene) Traverse(fn func(*Node)) {
	s.root.Traverse(fn)
}

func (s *Scene) UpdateWorldMatrix() {
	s.root.UpdateWorldMatrix()
}

func (s *Scene) Meshes() []*Node {
	return s.collect(KindMesh)
}

func (s *Scene) Lights() []*Node {
	return s.collect(KindLight)
}

func (s *Scene) collect(kind NodeKind) []*Node {
	var out []*Node
	s.root.Traverse(func(n *Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
	})
	return out
}
