package source

// Node is one syntax tree node. Anonymous tokens (keywords, punctuation) are
// kept as unnamed children so rules can look for things like `async` or `*`.
type Node struct {
	Kind     string
	Field    string // field name in the parent, if any
	Named    bool
	IsError  bool
	Missing  bool
	Start    int // byte offset, inclusive
	End      int // byte offset, exclusive
	Parent   *Node
	Children []*Node

	src string
}

// Text returns the source text covered by the node
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.src[n.Start:n.End]
}

// ChildByField returns the first child stored under the given field name
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named children, skipping comments
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Named && c.Kind != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// FirstNamedChild returns the first named, non-comment child
func (n *Node) FirstNamedChild() *Node {
	for _, c := range n.NamedChildren() {
		return c
	}
	return nil
}

// Token returns the first anonymous child with the given kind, e.g. "async"
func (n *Node) Token(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if !c.Named && c.Kind == kind {
			return c
		}
	}
	return nil
}

// HasToken reports whether the node has an anonymous child of the given kind
func (n *Node) HasToken(kind string) bool {
	return n.Token(kind) != nil
}

// Walk visits n and its descendants in pre-order. Returning false from
// visit skips the children of the visited node.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// FindAll returns every node in the subtree (n included) of one of the given kinds, in pre-order
func (n *Node) FindAll(kinds ...string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
		return true
	})
	return out
}

// Contains reports whether other lies within the subtree rooted at n
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Ancestor returns the nearest proper ancestor with one of the given kinds
func (n *Node) Ancestor(kinds ...string) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		for _, k := range kinds {
			if p.Kind == k {
				return p
			}
		}
	}
	return nil
}
