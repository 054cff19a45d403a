package scene

// Graph owns every node of the active scene and indexes them by ObjectID.
type Graph struct {
	Root  *Node
	index map[ObjectID]*Node
}

func NewGraph() *Graph {
	g := &Graph{
		Root:  NewNode("scene"),
		index: make(map[ObjectID]*Node),
	}
	g.index[g.Root.ID] = g.Root
	return g
}

// Add attaches n (and its subtree) under the root.
func (g *Graph) Add(n *Node) {
	g.Attach(g.Root, n)
}

func (g *Graph) Attach(parent, child *Node) {
	parent.AddChild(child)
	child.Traverse(func(c *Node) {
		g.index[c.ID] = c
	})
}

func (g *Graph) Remove(n *Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	n.Traverse(func(c *Node) {
		delete(g.index, c.ID)
	})
}

// Lookup returns nil for identifiers that are not (or no longer) part of the graph.
func (g *Graph) Lookup(id ObjectID) *Node {
	if g == nil {
		return nil
	}
	return g.index[id]
}

func (g *Graph) Traverse(fn func(*Node)) {
	g.Root.Traverse(fn)
}

func (g *Graph) Meshes() []*Node {
	var out []*Node
	g.Traverse(func(n *Node) {
		if n.Mesh != nil {
			out = append(out, n)
		}
	})
	return out
}

func (g *Graph) Len() int {
	return len(g.index)
}

// Clear detaches everything below the root.
func (g *Graph) Clear() {
	for _, c := range append([]*Node(nil), g.Root.Children...) {
		g.Remove(c)
	}
}
