package vnode

// Kind identifies the kind of a node
type Kind uint8

const (
	KindElement     Kind = iota // named element with attributes and children
	KindText                    // text content
	KindPlaceholder             // reserved position with no content yet
)

// VNode is one node of a rendered output tree.
//
// Nodes are allocated from a scope's write frame and are owned by that frame:
// they stay valid until the owning scope renders again, at which point the
// frame is recycled and every node in it is reset. Consumers must not retain
// node pointers across renders of the same scope.
type VNode struct {
	Kind     Kind
	Tag      string
	Text     string
	Attrs    []Attr
	Children []*VNode
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// IsPlaceholder reports whether n marks an empty position.
func (n *VNode) IsPlaceholder() bool {
	return n != nil && n.Kind == KindPlaceholder
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n *VNode) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += CountNodes(c)
	}
	return total
}

// Equal reports whether two trees have the same shape and content.
// Node identity (addresses) is ignored; only structure is compared.
func Equal(a, b *VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Tag != b.Tag || a.Text != b.Text {
		return false
	}
	if len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
