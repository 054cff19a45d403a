package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ObjectID identifies a node for the lifetime of a session. It is generated once when the
// node is created and never regenerated; names are not unique and are never used as keys.
type ObjectID uuid.UUID

var NilObjectID ObjectID

func NewObjectID() ObjectID {
	return ObjectID(uuid.New())
}

func (id ObjectID) String() string {
	return uuid.UUID(id).String()
}

// Node is a renderable surface or a group in the scene graph.
type Node struct {
	ID        ObjectID
	Name      string
	Transform Transform
	Static    bool
	Visible   bool
	Mesh      *Mesh
	Parent    *Node
	Children  []*Node
}

func NewNode(name string) *Node {
	return &Node{
		ID:        NewObjectID(),
		Name:      name,
		Transform: NewTransform(),
		Visible:   true,
	}
}

func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

func (n *Node) IsMesh() bool {
	return n != nil && n.Mesh != nil
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Traverse visits n and all of its descendants depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Walk is Traverse with the accumulated world matrix of every visited node.
func (n *Node) Walk(parentWorld mgl32.Mat4, fn func(n *Node, world mgl32.Mat4)) {
	if n == nil {
		return
	}
	world := parentWorld.Mul4(n.Transform.ObjectToWorld())
	fn(n, world)
	for _, c := range n.Children {
		c.Walk(world, fn)
	}
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	local := n.Transform.ObjectToWorld()
	if n.Parent == nil {
		return local
	}
	return n.Parent.WorldMatrix().Mul4(local)
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldBounds is the union of the world AABBs of every mesh under n.
func (n *Node) WorldBounds() AABB {
	box := EmptyAABB()
	parent := mgl32.Ident4()
	if n.Parent != nil {
		parent = n.Parent.WorldMatrix()
	}
	n.Walk(parent, func(c *Node, world mgl32.Mat4) {
		if c.Mesh != nil {
			box = box.Union(c.Mesh.Bounds().Transform(world))
		}
	})
	return box
}
