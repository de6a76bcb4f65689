package framework

import (
	"strings"
)

// PathSeparator joins node names into scene paths.
const PathSeparator = "/"

// Node is one element of an immutable scene snapshot. Children are owned by
// the snapshot; the parent pointer is a back reference only.
type Node struct {
	Name string
	// ExcludeTag marks the node (and everything below it) as stripped from
	// the runtime build.
	ExcludeTag bool
	// Active mirrors the host's enabled flag. Counting ignores it; the
	// inspector shows it per chain root.
	Active bool

	parent   *Node
	children []*Node
}

// NewNode creates an active, untagged node.
func NewNode(name string) *Node {
	return &Node{Name: name, Active: true}
}

// AddChild appends child to n and returns the child so trees can be built
// fluently. A child already attached elsewhere is moved.
func (n *Node) AddChild(child *Node) *Node {
	if child == nil {
		return nil
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// Child creates a named child and returns it.
func (n *Node) Child(name string) *Node {
	return n.AddChild(NewNode(name))
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Children returns the ordered direct children. Callers must not modify the
// returned slice.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children
}

// Path returns the slash-joined names from the topmost ancestor to n.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, PathSeparator)
}

// IsDescendantOf reports whether ancestor appears on the parent chain of n.
// A node is not its own descendant.
func (n *Node) IsDescendantOf(ancestor *Node) bool {
	if n == nil || ancestor == nil {
		return false
	}
	for cur := n.parent; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth first. Returning false from visit
// skips the visited node's subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// Scene wraps a root node together with a path index for lookups.
type Scene struct {
	Root  *Node
	index map[string]*Node
}

// NewScene indexes every node under root by path. When sibling names clash
// the first node in child order wins the path.
func NewScene(root *Node) *Scene {
	s := &Scene{Root: root, index: make(map[string]*Node)}
	root.Walk(func(n *Node) bool {
		path := n.Path()
		if _, exists := s.index[path]; !exists {
			s.index[path] = n
		}
		return true
	})
	return s
}

// Find returns the node stored under path.
func (s *Scene) Find(path string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.index[strings.Trim(path, PathSeparator)]
	return n, ok
}

