package story

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoot       = errors.New("tree has no root node")
	ErrNodeNotFound = errors.New("node not found")
)

// Tree is an in-memory store for one episode's nodes. Nodes are append-only
// during construction; children keep insertion order, which pairs them
// positionally with their parent's choices.
type Tree struct {
	nodes    []Node
	byID     map[string]int
	children map[string][]string
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		byID:     make(map[string]int),
		children: make(map[string][]string),
	}
}

// TreeFromNodes rebuilds a tree index from a flat node list, e.g. one
// loaded from a snapshot.
func TreeFromNodes(nodes []Node) *Tree {
	t := NewTree()
	for _, n := range nodes {
		_ = t.Add(n)
	}
	return t
}

// Add appends a node. A non-root node must reference an existing parent,
// and its depth must be parent depth + 1.
func (t *Tree) Add(n Node) error {
	if _, exists := t.byID[n.ID]; exists {
		return fmt.Errorf("duplicate node id %q", n.ID)
	}
	if n.ParentID == "" {
		if root := t.Root(); root != nil {
			return fmt.Errorf("second root %q: tree already rooted at %q", n.ID, root.ID)
		}
		if n.Depth != 0 {
			return fmt.Errorf("root %q has depth %d, want 0", n.ID, n.Depth)
		}
	} else {
		parent, err := t.Node(n.ParentID)
		if err != nil {
			return fmt.Errorf("node %q: parent %q: %w", n.ID, n.ParentID, ErrNodeNotFound)
		}
		if n.Depth != parent.Depth+1 {
			return fmt.Errorf("node %q has depth %d, want parent depth+1 = %d", n.ID, n.Depth, parent.Depth+1)
		}
	}

	t.byID[n.ID] = len(t.nodes)
	t.nodes = append(t.nodes, n)
	if n.ParentID != "" {
		t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
	}
	return nil
}

// Root returns the unique parentless node, or nil if none exists.
func (t *Tree) Root() *Node {
	for i := range t.nodes {
		if t.nodes[i].ParentID == "" {
			return &t.nodes[i]
		}
	}
	return nil
}

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (*Node, error) {
	idx, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return &t.nodes[idx], nil
}

// Children returns a node's children in insertion order.
func (t *Tree) Children(id string) []*Node {
	ids := t.children[id]
	out := make([]*Node, 0, len(ids))
	for _, cid := range ids {
		if idx, ok := t.byID[cid]; ok {
			out = append(out, &t.nodes[idx])
		}
	}
	return out
}

// Path returns the nodes from the root down to the given node, inclusive.
func (t *Tree) Path(id string) ([]*Node, error) {
	node, err := t.Node(id)
	if err != nil {
		return nil, err
	}

	var path []*Node
	for node != nil {
		path = append([]*Node{node}, path...)
		if node.ParentID == "" {
			break
		}
		node, err = t.Node(node.ParentID)
		if err != nil {
			return nil, err
		}
	}
	return path, nil
}

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// DepthCounts returns how many nodes sit at each depth.
func (t *Tree) DepthCounts() map[int]int {
	counts := make(map[int]int)
	for i := range t.nodes {
		counts[t.nodes[i].Depth]++
	}
	return counts
}

// MaxDepth returns the deepest depth present, or -1 for an empty tree.
func (t *Tree) MaxDepth() int {
	max := -1
	for i := range t.nodes {
		if t.nodes[i].Depth > max {
			max = t.nodes[i].Depth
		}
	}
	return max
}
