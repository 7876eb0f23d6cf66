// Package scene is the canvas scene graph: nodes, meshes, the resources they
// own, and the camera used to project them.
package scene

import (
	"slices"

	"cogentcore.org/core/math32"
)

// Mesh pairs one geometry with one material. The mesh owns both.
type Mesh struct {
	Geometry *Geometry
	Material *Material

	destroyed bool
}

// SetGeometry releases the current geometry before taking g.
func (m *Mesh) SetGeometry(g *Geometry) {
	if m.Geometry != nil && m.Geometry != g {
		m.Geometry.Dispose()
	}
	m.Geometry = g
}

// Destroy releases geometry and material. It is idempotent.
func (m *Mesh) Destroy() {
	if m == nil || m.destroyed {
		return
	}
	m.destroyed = true
	m.Geometry.Dispose()
	m.Material.Dispose()
}

// Destroyed reports whether Destroy has run.
func (m *Mesh) Destroyed() bool {
	return m == nil || m.destroyed
}

// Node is a transform in the graph. Groups have no mesh.
type Node struct {
	Name     string
	Position math32.Vector3
	Rotation math32.Vector3
	Scale    math32.Vector3
	Mesh     *Mesh

	parent   *Node
	children []*Node
}

// NewGroup returns an empty transform node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Scale: math32.Vec3(1, 1, 1)}
}

// NewMeshNode returns a node drawing mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewGroup(name)
	n.Mesh = mesh
	return n
}

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it is attached to n.
func (n *Node) Remove(child *Node) {
	if child == nil {
		return
	}
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
}

// Children returns the attached nodes in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the attached parent or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// WorldScale is the product of the scales up to the root.
func (n *Node) WorldScale() math32.Vector3 {
	scale := n.Scale
	for p := n.parent; p != nil; p = p.parent {
		scale = math32.Vec3(scale.X*p.Scale.X, scale.Y*p.Scale.Y, scale.Z*p.Scale.Z)
	}
	return scale
}

// WorldPosition composes positions up to the root. Groups in this graph only
// translate and scale, so rotations affect the node's own plane only.
func (n *Node) WorldPosition() math32.Vector3 {
	pos := n.Position
	for p := n.parent; p != nil; p = p.parent {
		pos = math32.Vec3(pos.X*p.Scale.X, pos.Y*p.Scale.Y, pos.Z*p.Scale.Z).Add(p.Position)
	}
	return pos
}

// WorldBounds is the world-space box of the node's plane.
func (n *Node) WorldBounds() math32.Box3 {
	center := n.WorldPosition()
	if n.Mesh == nil || n.Mesh.Geometry == nil {
		return math32.Box3{Min: center, Max: center}
	}
	scale := n.WorldScale()
	hw := n.Mesh.Geometry.Width * scale.X / 2
	hh := n.Mesh.Geometry.Height * scale.Y / 2
	return math32.B3(center.X-hw, center.Y-hh, center.Z, center.X+hw, center.Y+hh, center.Z)
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Scene is the root of everything the renderer draws.
type Scene struct {
	root *Node
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{root: NewGroup("scene")}
}

// Add attaches a top-level node.
func (s *Scene) Add(n *Node) { s.root.Add(n) }

// Remove detaches a top-level node.
func (s *Scene) Remove(n *Node) { s.root.Remove(n) }

// Contains reports whether n is attached at the top level.
func (s *Scene) Contains(n *Node) bool {
	return slices.Contains(s.root.children, n)
}

// Len is the number of top-level nodes.
func (s *Scene) Len() int { return len(s.root.children) }

// Meshes returns every mesh node in draw order.
func (s *Scene) Meshes() []*Node {
	var out []*Node
	s.root.Walk(func(n *Node) {
		if n.Mesh != nil && !n.Mesh.Destroyed() {
			out = append(out, n)
		}
	})
	return out
}
