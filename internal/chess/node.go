package chess

// Node is one move in a game tree, or the synthetic root standing for the
// start position. Children[0] is the mainline continuation and later children
// are alternatives in the order they were declared.
type Node struct {
	Move Move

	// SAN is the canonical notation of Move in the position before it.
	SAN string

	// Comment is the raw text of every comment span following the move,
	// joined with single spaces.
	Comment string

	// PreComment holds a comment written between "(" and the first move of a
	// variation.
	PreComment string

	Annotation Annotation

	Children []*Node

	// parent never owns; the tree is owned top-down through Children.
	parent *Node
}

// NewRoot creates a root node with no move.
func NewRoot() *Node {
	return &Node{}
}

// Parent returns the preceding node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is a tree root.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// AddChild appends a new child holding move and returns it.
func (n *Node) AddChild(move Move, san string) *Node {
	child := &Node{Move: move, SAN: san, parent: n}
	n.Children = append(n.Children, child)
	return child
}

// Mainline returns Children[0], or nil at the end of a line.
func (n *Node) Mainline() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Variations returns the alternatives to the mainline continuation.
func (n *Node) Variations() []*Node {
	if len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// ChildIndex returns the index of child in n.Children, or -1.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// FindChild returns the child playing move, or nil.
func (n *Node) FindChild(move Move) *Node {
	for _, c := range n.Children {
		if c.Move == move {
			return c
		}
	}
	return nil
}

// Depth returns the number of moves between the root and n.
func (n *Node) Depth() int {
	d := 0
	for p := n; p.parent != nil; p = p.parent {
		d++
	}
	return d
}

// Root walks up to the root of the tree containing n.
func (n *Node) Root() *Node {
	p := n
	for p.parent != nil {
		p = p.parent
	}
	return p
}

// Path returns the moves from the root to n, excluding the root.
func (n *Node) Path() []*Node {
	path := make([]*Node, n.Depth())
	i := len(path) - 1
	for p := n; p.parent != nil; p = p.parent {
		path[i] = p
		i--
	}
	return path
}

// IsMainline reports whether n lies on the mainline of its tree.
func (n *Node) IsMainline() bool {
	for p := n; p.parent != nil; p = p.parent {
		if p.parent.Children[0] != p {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth first, mainline child first.
// Returning false from fn prunes that subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// RemoveChild detaches Children[i] and returns it.
func (n *Node) RemoveChild(i int) *Node {
	child := n.Children[i]
	n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
	child.parent = nil
	return child
}

// SwapChildren exchanges Children[i] and Children[j].
func (n *Node) SwapChildren(i, j int) {
	n.Children[i], n.Children[j] = n.Children[j], n.Children[i]
}
