package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// The grammar does not distinguish defining from referencing occurrences the
// way an IDE needs to: an identifier leaf can introduce a name (the name of
// a declaration, a binding pattern) or use one (a path segment, a field
// access). Name, NameRef and Lifetime recover that split structurally so the
// classifier can dispatch on it.

// Name is a defining occurrence: a leaf that introduces a name.
type Name struct {
	Node *sitter.Node
}

// NameRef is a referencing occurrence: a leaf that uses an existing name.
type NameRef struct {
	Node *sitter.Node
}

// Lifetime is a lifetime or label occurrence, defining or referencing.
type Lifetime struct {
	Node *sitter.Node
}

// declNameParents maps declaration kinds to the name-bearing field whose
// child is a defining occurrence.
var declNameParents = map[string]string{
	KindModItem:           FieldName,
	KindFunctionItem:      FieldName,
	KindFunctionSignature: FieldName,
	KindStructItem:        FieldName,
	KindUnionItem:         FieldName,
	KindEnumItem:          FieldName,
	KindEnumVariant:       FieldName,
	KindFieldDecl:         FieldName,
	KindTraitItem:         FieldName,
	KindStaticItem:        FieldName,
	KindConstItem:         FieldName,
	KindTypeItem:          FieldName,
	KindAssociatedType:    FieldName,
	KindMacroDefinition:   FieldName,
	KindConstParameter:    FieldName,
	KindTypeParameter:     FieldName,
	KindUseAsClause:       FieldAlias,
	KindExternCrateDecl:   FieldAlias,
}

// AsName casts node to a defining occurrence.
func AsName(node *sitter.Node) (Name, bool) {
	parent := node.Parent()
	if parent == nil {
		return Name{}, false
	}

	switch node.Kind() {
	case KindShorthandFieldIdent:
		// `field` in `Foo { field } = x` both binds and refers; the binding
		// half makes it a defining occurrence.
		return Name{node}, parent.Kind() == KindFieldPattern

	case KindSelf:
		return Name{node}, parent.Kind() == KindSelfParameter

	case KindIdentifier, KindTypeIdentifier, KindFieldIdentifier:
		if field, ok := declNameParents[parent.Kind()]; ok {
			return Name{node}, IsField(parent, node, field)
		}
		if node.Kind() == KindIdentifier && IsBindingPattern(node) {
			return Name{node}, true
		}
	}
	return Name{}, false
}

// IsBindingPattern reports whether an identifier leaf sits in pattern
// position, i.e. syntactically introduces a binding. Whether it actually
// binds (rather than matching a constant) is a semantic question.
func IsBindingPattern(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || node.Kind() != KindIdentifier {
		return false
	}
	switch parent.Kind() {
	case KindLetDeclaration, KindLetCondition, KindParameter, KindForExpr:
		return IsField(parent, node, FieldPattern)
	case KindFieldPattern:
		return IsField(parent, node, FieldPattern)
	case KindTupleStructPattern:
		return !IsField(parent, node, FieldType)
	case KindClosureParams, KindTuplePattern, KindSlicePattern, KindOrPattern,
		KindMatchPattern, KindMutPattern, KindRefPattern, KindReferencePattern,
		KindCapturedPattern:
		return true
	}
	return false
}

// refLeafKinds are the leaf kinds that can be referencing occurrences.
var refLeafKinds = map[string]bool{
	KindIdentifier:          true,
	KindTypeIdentifier:      true,
	KindFieldIdentifier:     true,
	KindShorthandFieldIdent: true,
	KindPrimitiveType:       true,
	KindSelf:                true,
	KindSuper:               true,
	KindCrate:               true,
}

// AsNameRef casts node to a referencing occurrence.
func AsNameRef(node *sitter.Node) (NameRef, bool) {
	if !refLeafKinds[node.Kind()] {
		return NameRef{}, false
	}
	parent := node.Parent()
	if parent == nil {
		return NameRef{}, false
	}
	// Identifiers inside lifetime and label nodes belong to the lifetime
	// classifiers.
	if parent.Kind() == KindLifetime || parent.Kind() == KindLabel {
		return NameRef{}, false
	}
	if _, ok := AsName(node); ok {
		return NameRef{}, false
	}
	return NameRef{node}, true
}

// AsLifetime casts node to a lifetime occurrence. Both lifetimes and loop
// labels are covered; an identifier leaf inside either is normalized to the
// enclosing node.
func AsLifetime(node *sitter.Node) (Lifetime, bool) {
	switch node.Kind() {
	case KindLifetime, KindLabel:
		return Lifetime{node}, true
	}
	// the identifier leaf, or the quote token a cursor often lands on
	if parent := node.Parent(); parent != nil {
		if parent.Kind() == KindLifetime || parent.Kind() == KindLabel {
			return Lifetime{parent}, true
		}
	}
	return Lifetime{}, false
}
