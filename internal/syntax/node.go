package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SameNode reports whether two nodes denote the same syntax node. Node
// pointers returned by different navigation calls are distinct Go values, so
// identity is compared by span and kind within one tree.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// IsField reports whether node is the named field child of parent.
func IsField(parent, node *sitter.Node, field string) bool {
	if parent == nil || node == nil {
		return false
	}
	return SameNode(parent.ChildByFieldName(field), node)
}

// Ancestors calls fn for each ancestor of node, nearest first, stopping when
// fn returns false.
func Ancestors(node *sitter.Node, fn func(*sitter.Node) bool) {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if !fn(anc) {
			return
		}
	}
}

// AncestorOfKind returns the nearest ancestor with the given kind.
func AncestorOfKind(node *sitter.Node, kind string) *sitter.Node {
	var found *sitter.Node
	Ancestors(node, func(anc *sitter.Node) bool {
		if anc.Kind() == kind {
			found = anc
			return false
		}
		return true
	})
	return found
}

// NamedChildren returns the named children of node.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	count := node.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// ChildOfKind returns the first named child of node with the given kind.
func ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for _, child := range NamedChildren(node) {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// IsPathKind reports whether kind is one of the scoped path node kinds.
func IsPathKind(kind string) bool {
	return kind == KindScopedIdentifier || kind == KindScopedTypeIdent
}

// LastPathSegment returns the final segment of a use/expression path: for a
// scoped path its name child, for a plain segment the node itself.
func LastPathSegment(path *sitter.Node) *sitter.Node {
	if path == nil {
		return nil
	}
	if IsPathKind(path.Kind()) {
		if name := path.ChildByFieldName(FieldName); name != nil {
			return name
		}
	}
	return path
}

// AttributePath returns the path child of an attribute node. The grammar
// leaves the path unnamed as a field, so it is the first child that looks
// like a path.
func AttributePath(attr *sitter.Node) *sitter.Node {
	for _, child := range NamedChildren(attr) {
		switch child.Kind() {
		case KindIdentifier, KindScopedIdentifier, KindCrate, KindSelf, KindSuper:
			return child
		}
	}
	return nil
}

// LifetimeIdent returns the identifier inside a lifetime or label node.
func LifetimeIdent(node *sitter.Node) *sitter.Node {
	return ChildOfKind(node, KindIdentifier)
}
