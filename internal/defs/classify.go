package defs

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/semantics"
	"lodestar/internal/syntax"
)

// FromToken classifies the token under a cursor position. At most two
// definitions come back; when a shorthand names both a local and a field,
// the local is first.
func FromToken(sema *semantics.Semantics, token *sitter.Node) []Definition {
	if token == nil || token.Parent() == nil {
		return nil
	}
	// #[derive(Trim)]: the argument tokens of a derive attribute name
	// derive macros even though they sit in an unparsed token tree.
	if token.Kind() == syntax.KindIdentifier && token.Parent().Kind() == syntax.KindTokenTree {
		if attr := deriveAttrFor(token); attr != nil {
			if res, ok := sema.ResolveDeriveInput(attr, token); ok {
				if def, ok := FromResolution(res); ok {
					return []Definition{def}
				}
			}
			return nil
		}
	}
	return FromNode(sema, token)
}

// deriveAttrFor climbs out of nested token trees to the attribute that
// owns them, nil when the token is not attribute input.
func deriveAttrFor(token *sitter.Node) *sitter.Node {
	n := token.Parent()
	for n != nil && n.Kind() == syntax.KindTokenTree {
		n = n.Parent()
	}
	if n != nil && n.Kind() == syntax.KindAttribute {
		return n
	}
	return nil
}

// FromNode classifies a syntax node as a name occurrence.
func FromNode(sema *semantics.Semantics, node *sitter.Node) []Definition {
	if name, ok := syntax.AsName(node); ok {
		nc, ok := ClassifyName(sema, name)
		if !ok {
			return nil
		}
		if nc.Kind == NamePatFieldShorthand {
			return []Definition{LocalDef(nc.LocalDef), FieldDef(nc.FieldRef)}
		}
		return []Definition{nc.ReferencedOrDefined()}
	}

	if lt, ok := syntax.AsLifetime(node); ok {
		if nc, ok := ClassifyLifetimeName(sema, lt); ok {
			if def, ok := nc.DefinedAt(); ok {
				return []Definition{def}
			}
			return nil
		}
		if nrc, ok := ClassifyLifetimeRef(sema, lt); ok {
			return []Definition{nrc.Def}
		}
		return nil
	}

	if ref, ok := syntax.AsNameRef(node); ok {
		nrc, ok := ClassifyNameRef(sema, ref)
		if !ok {
			return nil
		}
		if nrc.Kind == NameRefFieldShorthand {
			return []Definition{LocalDef(nrc.LocalRef), FieldDef(nrc.FieldRef)}
		}
		return []Definition{nrc.Def}
	}
	return nil
}
