package semantics

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/syntax"
)

type namespace int

const (
	nsTypes namespace = iota
	nsValues
	nsMacros
)

// maxImportDepth bounds use-import chasing so that import cycles cannot
// hang a lookup.
const maxImportDepth = 16

func (s *Semantics) lookupIn(module ID, name string, space namespace, depth int) (symbolRef, bool) {
	if depth > maxImportDepth {
		return symbolRef{}, false
	}
	md := &s.db.modules[module]
	var direct map[string]symbolRef
	switch space {
	case nsTypes:
		direct = md.types
	case nsValues:
		direct = md.values
	case nsMacros:
		direct = md.macros
	}
	if sr, ok := direct[name]; ok {
		return sr, true
	}
	if space == nsTypes {
		if crate, ok := md.externs[name]; ok {
			if idx, ok := s.db.crateByName(crate); ok {
				return symbolRef{kind: symModule, id: s.db.crates[idx].root}, true
			}
		}
	}
	for _, imp := range md.uses {
		switch imp.alias {
		case name:
			if sr, ok := s.resolveSegments(module, imp.segments, space, depth+1); ok {
				return sr, true
			}
		case "*":
			container, ok := s.resolveSegments(module, imp.segments, nsTypes, depth+1)
			if !ok {
				continue
			}
			if sr, ok := s.lookupInContainer(container, name, space, depth+1); ok {
				return sr, true
			}
		}
	}
	return symbolRef{}, false
}

// lookupInContainer resolves a path segment inside an already-resolved
// qualifier: a module's namespaces, an enum's variants, or the associated
// items of an adt or trait.
func (s *Semantics) lookupInContainer(container symbolRef, name string, space namespace, depth int) (symbolRef, bool) {
	switch container.kind {
	case symModule:
		return s.lookupIn(container.id, name, space, depth)
	case symAdt:
		ad := &s.db.adts[container.id]
		if ad.kind == AdtEnum {
			for i := range s.db.variants {
				if s.db.variants[i].enum == container.id && s.db.variants[i].name == name {
					return symbolRef{kind: symVariant, id: ID(i)}, true
				}
			}
		}
		return s.assocInAdt(ad.name, name)
	case symTrait:
		return s.assocInTrait(container.id, name)
	case symTypeAlias:
		// Aliases of adts forward associated lookups to the aliased name.
		return s.assocInAdt(s.db.aliases[container.id].name, name)
	}
	return symbolRef{}, false
}

func (s *Semantics) assocInAdt(typeName, name string) (symbolRef, bool) {
	for i := range s.db.impls {
		imp := &s.db.impls[i]
		if imp.typeName != typeName || s.db.modules[imp.module].crate != s.crate {
			continue
		}
		for _, fid := range imp.methods {
			if s.db.functions[fid].name == name {
				return symbolRef{kind: symFunction, id: fid}, true
			}
		}
		for _, cid := range imp.consts {
			if s.db.consts[cid].name == name {
				return symbolRef{kind: symConst, id: cid}, true
			}
		}
		for _, aid := range imp.aliases {
			if s.db.aliases[aid].name == name {
				return symbolRef{kind: symTypeAlias, id: aid}, true
			}
		}
	}
	return symbolRef{}, false
}

func (s *Semantics) assocInTrait(trait ID, name string) (symbolRef, bool) {
	for _, item := range s.db.traits[trait].items {
		switch it := item.(type) {
		case Function:
			if s.db.functions[it.id].name == name {
				return symbolRef{kind: symFunction, id: it.id}, true
			}
		case Const:
			if s.db.consts[it.id].name == name {
				return symbolRef{kind: symConst, id: it.id}, true
			}
		case TypeAlias:
			if s.db.aliases[it.id].name == name {
				return symbolRef{kind: symTypeAlias, id: it.id}, true
			}
		}
	}
	return symbolRef{}, false
}

// resolveSegments walks a multi-segment path from a module. Intermediate
// segments resolve in the type namespace, the final one in the requested
// namespace.
func (s *Semantics) resolveSegments(from ID, segs []string, space namespace, depth int) (symbolRef, bool) {
	if len(segs) == 0 || depth > maxImportDepth {
		return symbolRef{}, false
	}
	cur := symbolRef{kind: symModule, id: from}
	start := 0
	switch segs[0] {
	case "crate":
		cur = symbolRef{kind: symModule, id: s.db.crates[s.db.modules[from].crate].root}
		start = 1
	case "self":
		start = 1
	case "super":
		parent := s.db.modules[from].parent
		if parent < 0 {
			return symbolRef{}, false
		}
		cur = symbolRef{kind: symModule, id: parent}
		start = 1
	default:
		if idx, ok := s.db.crateByName(segs[0]); ok {
			if _, hit := s.db.modules[from].types[segs[0]]; !hit {
				cur = symbolRef{kind: symModule, id: s.db.crates[idx].root}
				start = 1
			}
		}
	}
	if start == len(segs) {
		return cur, true
	}
	for i := start; i < len(segs); i++ {
		want := nsTypes
		if i == len(segs)-1 {
			want = space
		}
		next, ok := s.lookupInContainer(cur, segs[i], want, depth)
		if !ok && want != nsTypes {
			// items like enums live in the type namespace even when the
			// path is used in value position
			next, ok = s.lookupInContainer(cur, segs[i], nsTypes, depth)
		}
		if !ok {
			return symbolRef{}, false
		}
		cur = next
	}
	return cur, true
}

// moduleFor finds the module enclosing a node, falling back to the crate
// root.
func (s *Semantics) moduleFor(node *sitter.Node) ID {
	for n := node.Parent(); n != nil; n = n.Parent() {
		if n.Kind() != syntax.KindModItem {
			continue
		}
		if sr, ok := s.db.lookupDef(s.crate, n); ok && sr.kind == symModule {
			return sr.id
		}
	}
	return s.db.crates[s.crate].root
}

func (s *Semantics) pathSegmentsOf(node *sitter.Node) []string {
	switch node.Kind() {
	case syntax.KindScopedIdentifier, syntax.KindScopedTypeIdent:
		var qual []string
		if path := node.ChildByFieldName(syntax.FieldPath); path != nil {
			qual = s.pathSegmentsOf(path)
		}
		if name := node.ChildByFieldName(syntax.FieldName); name != nil {
			return append(qual, s.text(name))
		}
		return qual
	default:
		return []string{s.text(node)}
	}
}

// ResolvePath resolves a path ending at the given node: either a bare
// name or a scoped path whose final segment is being classified.
func (s *Semantics) ResolvePath(node *sitter.Node) (PathResolution, bool) {
	segs := s.pathSegmentsOf(node)
	if len(segs) == 0 {
		return nil, false
	}
	from := s.moduleFor(node)
	if len(segs) == 1 {
		return s.resolveSingle(node, segs[0], from)
	}
	if sr, ok := s.resolveSegments(from, segs, nsValues, 0); ok {
		return s.symToResolution(sr)
	}
	if sr, ok := s.resolveSegments(from, segs, nsTypes, 0); ok {
		return s.symToResolution(sr)
	}
	return nil, false
}

func (s *Semantics) resolveSingle(node *sitter.Node, name string, from ID) (PathResolution, bool) {
	switch name {
	case "crate":
		return Module{id: s.db.crates[s.crate].root}, true
	case "super":
		parent := s.db.modules[from].parent
		if parent < 0 {
			return nil, false
		}
		return Module{id: parent}, true
	case "Self":
		if impl := syntax.AncestorOfKind(node, syntax.KindImplItem); impl != nil {
			if sr, ok := s.db.lookupDef(s.crate, impl); ok && sr.kind == symImpl {
				return Impl{id: sr.id}, true
			}
		}
		return nil, false
	}
	// value position first: locals shadow items
	if node.Kind() != syntax.KindTypeIdentifier && node.Kind() != syntax.KindPrimitiveType {
		if local, ok := s.lookupLocal(node, name); ok {
			return local, true
		}
	}
	if name == "self" {
		return Module{id: from}, true
	}
	if param, ok := s.scopeGenericParam(node, name); ok {
		return param, true
	}
	for _, space := range []namespace{nsTypes, nsValues, nsMacros} {
		if sr, ok := s.lookupIn(from, name, space, 0); ok {
			return s.symToResolution(sr)
		}
	}
	if bt, ok := BuiltinByName(name); ok {
		return bt, true
	}
	return nil, false
}

func (s *Semantics) symToResolution(sr symbolRef) (PathResolution, bool) {
	switch sr.kind {
	case symModule:
		return Module{id: sr.id}, true
	case symFunction:
		return Function{id: sr.id}, true
	case symAdt:
		return Adt{id: sr.id}, true
	case symVariant:
		return Variant{id: sr.id}, true
	case symConst:
		return Const{id: sr.id}, true
	case symStatic:
		return Static{id: sr.id}, true
	case symTrait:
		return Trait{id: sr.id}, true
	case symTypeAlias:
		return TypeAlias{id: sr.id}, true
	case symMacro:
		return Macro{id: sr.id}, true
	case symLocal:
		return Local{id: sr.id}, true
	case symTypeParam:
		return TypeParam{id: sr.id}, true
	case symConstParam:
		return ConstParam{id: sr.id}, true
	case symImpl:
		return Impl{id: sr.id}, true
	}
	return nil, false
}

// lookupLocal resolves a name against the bindings lexically in scope at
// the reference: earlier lets in enclosing blocks, pattern bindings of
// enclosing arms and loops, and function or closure parameters.
func (s *Semantics) lookupLocal(ref *sitter.Node, name string) (Local, bool) {
	prev := ref
	for n := ref.Parent(); n != nil; n = n.Parent() {
		switch n.Kind() {
		case syntax.KindBlock:
			children := syntax.NamedChildren(n)
			for i := len(children) - 1; i >= 0; i-- {
				stmt := children[i]
				if stmt.StartByte() >= prev.StartByte() {
					continue
				}
				if stmt.Kind() != syntax.KindLetDeclaration {
					continue
				}
				if local, ok := s.bindingIn(stmt.ChildByFieldName(syntax.FieldPattern), name); ok {
					return local, true
				}
			}
		case syntax.KindFunctionItem:
			if params := n.ChildByFieldName(syntax.FieldParameters); params != nil {
				if local, ok := s.paramBinding(params, name); ok {
					return local, true
				}
			}
			return Local{}, false
		case syntax.KindClosureExpr:
			if params := syntax.ChildOfKind(n, syntax.KindClosureParams); params != nil {
				if local, ok := s.paramBinding(params, name); ok {
					return local, true
				}
			}
		case syntax.KindMatchArm:
			if pat := n.ChildByFieldName(syntax.FieldPattern); pat != nil && !within(pat, ref) {
				if local, ok := s.bindingIn(pat, name); ok {
					return local, true
				}
			}
		case syntax.KindForExpr:
			if pat := n.ChildByFieldName(syntax.FieldPattern); pat != nil && !within(pat, ref) {
				if local, ok := s.bindingIn(pat, name); ok {
					return local, true
				}
			}
		case syntax.KindIfExpr, syntax.KindWhileExpr:
			cond := n.ChildByFieldName(syntax.FieldCondition)
			if cond != nil && cond.Kind() == syntax.KindLetCondition && !within(cond, ref) {
				if local, ok := s.bindingIn(cond.ChildByFieldName(syntax.FieldPattern), name); ok {
					return local, true
				}
			}
		}
		prev = n
	}
	return Local{}, false
}

func within(outer, node *sitter.Node) bool {
	return node.StartByte() >= outer.StartByte() && node.EndByte() <= outer.EndByte()
}

func (s *Semantics) paramBinding(params *sitter.Node, name string) (Local, bool) {
	for _, p := range syntax.NamedChildren(params) {
		switch p.Kind() {
		case syntax.KindSelfParameter:
			if name != "self" {
				continue
			}
			if sr, ok := s.db.lookupDef(s.crate, p); ok && sr.kind == symLocal {
				return Local{id: sr.id}, true
			}
		case syntax.KindParameter:
			if local, ok := s.bindingIn(p.ChildByFieldName(syntax.FieldPattern), name); ok {
				return local, true
			}
		default:
			if local, ok := s.bindingIn(p, name); ok {
				return local, true
			}
		}
	}
	return Local{}, false
}

// bindingIn scans a pattern subtree for a binding of the given name.
func (s *Semantics) bindingIn(pattern *sitter.Node, name string) (Local, bool) {
	if pattern == nil {
		return Local{}, false
	}
	var found Local
	ok := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if ok {
			return
		}
		switch n.Kind() {
		case syntax.KindIdentifier:
			if s.text(n) != name || !syntax.IsBindingPattern(n) {
				return
			}
			if sr, hit := s.db.lookupDef(s.crate, n); hit && sr.kind == symLocal {
				found, ok = Local{id: sr.id}, true
			}
			return
		case syntax.KindShorthandFieldIdent:
			if s.text(n) != name {
				return
			}
			if sr, hit := s.db.lookupDef(s.crate, n); hit && sr.kind == symLocal {
				found, ok = Local{id: sr.id}, true
			}
			return
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(pattern)
	return found, ok
}

// scopeGenericParam finds a type or const parameter of that name declared
// by an enclosing generic item.
func (s *Semantics) scopeGenericParam(node *sitter.Node, name string) (PathResolution, bool) {
	for n := node.Parent(); n != nil; n = n.Parent() {
		tp := n.ChildByFieldName(syntax.FieldTypeParams)
		if tp == nil {
			continue
		}
		for _, param := range syntax.NamedChildren(tp) {
			switch param.Kind() {
			case syntax.KindTypeParameter:
				target := param.ChildByFieldName(syntax.FieldName)
				if target == nil || s.text(target) != name {
					continue
				}
				if sr, ok := s.db.lookupDef(s.crate, target); ok && sr.kind == symTypeParam {
					return TypeParam{id: sr.id}, true
				}
			case syntax.KindConstParameter:
				if s.text(param.ChildByFieldName(syntax.FieldName)) != name {
					continue
				}
				if sr, ok := s.db.lookupDef(s.crate, param); ok && sr.kind == symConstParam {
					return ConstParam{id: sr.id}, true
				}
			}
		}
	}
	return nil, false
}

// inferAdt derives the adt behind an expression from annotations and
// literal shapes. It is deliberately shallow; anything it cannot see
// simply fails to resolve.
func (s *Semantics) inferAdt(expr *sitter.Node) (ID, bool) {
	name, ok := s.inferTypeName(expr)
	if !ok {
		return 0, false
	}
	return s.adtByName(name)
}

func (s *Semantics) inferTypeName(expr *sitter.Node) (string, bool) {
	switch expr.Kind() {
	case syntax.KindIdentifier, syntax.KindSelf:
		local, ok := s.lookupLocal(expr, s.text(expr))
		if !ok {
			return "", false
		}
		name := s.db.locals[local.id].typeName
		return name, name != ""
	case syntax.KindStructExpr:
		name := s.text(expr.ChildByFieldName(syntax.FieldName))
		return normalizeTypeName(name), name != ""
	case syntax.KindFieldExpr:
		adt, ok := s.inferAdt(expr.ChildByFieldName(syntax.FieldValue))
		if !ok {
			return "", false
		}
		field, ok := s.fieldByName(adt, s.text(expr.ChildByFieldName(syntax.FieldField)))
		if !ok {
			return "", false
		}
		name := s.db.fields[field.id].typeName
		return name, name != ""
	case syntax.KindReferenceExpr, syntax.KindParenthesizedExp:
		for _, child := range syntax.NamedChildren(expr) {
			return s.inferTypeName(child)
		}
	case syntax.KindCallExpr:
		fn := expr.ChildByFieldName(syntax.FieldFunction)
		if fn == nil {
			return "", false
		}
		segs := s.pathSegmentsOf(fn)
		// Type::new() style constructors
		if len(segs) >= 2 {
			return segs[len(segs)-2], true
		}
	}
	return "", false
}

func (s *Semantics) adtByName(name string) (ID, bool) {
	for i := range s.db.adts {
		ad := &s.db.adts[i]
		if ad.name == name && s.db.modules[ad.module].crate == s.crate {
			return ID(i), true
		}
	}
	return 0, false
}

func (s *Semantics) fieldByName(adt ID, name string) (Field, bool) {
	for i := range s.db.fields {
		if s.db.fields[i].adt == adt && s.db.fields[i].name == name {
			return Field{id: ID(i)}, true
		}
	}
	return Field{}, false
}

// ResolveFieldAccess resolves the field of an expr.field access.
func (s *Semantics) ResolveFieldAccess(nameRef *sitter.Node) (Field, bool) {
	parent := nameRef.Parent()
	if parent == nil || parent.Kind() != syntax.KindFieldExpr {
		return Field{}, false
	}
	adt, ok := s.inferAdt(parent.ChildByFieldName(syntax.FieldValue))
	if !ok {
		return Field{}, false
	}
	return s.fieldByName(adt, s.text(nameRef))
}

// ResolveMethodCall resolves the method of a receiver.method(...) call.
func (s *Semantics) ResolveMethodCall(nameRef *sitter.Node) (Function, bool) {
	parent := nameRef.Parent()
	if parent == nil || parent.Kind() != syntax.KindFieldExpr {
		return Function{}, false
	}
	adt, ok := s.inferAdt(parent.ChildByFieldName(syntax.FieldValue))
	if !ok {
		return Function{}, false
	}
	sr, ok := s.assocInAdt(s.db.adts[adt].name, s.text(nameRef))
	if !ok || sr.kind != symFunction {
		return Function{}, false
	}
	return Function{id: sr.id}, true
}

// ResolveRecordField resolves a field mentioned in a record literal. For
// shorthand initializers the matching local binding is reported as well.
func (s *Semantics) ResolveRecordField(nameRef *sitter.Node) (RecordField, bool) {
	lit := syntax.AncestorOfKind(nameRef, syntax.KindStructExpr)
	if lit == nil {
		return RecordField{}, false
	}
	adt, ok := s.structPathAdt(lit.ChildByFieldName(syntax.FieldName))
	if !ok {
		return RecordField{}, false
	}
	field, ok := s.fieldByName(adt, s.text(nameRef))
	if !ok {
		return RecordField{}, false
	}
	rf := RecordField{Field: field}
	parent := nameRef.Parent()
	if parent != nil && parent.Kind() == syntax.KindShorthandInit {
		if local, ok := s.lookupLocal(nameRef, s.text(nameRef)); ok {
			rf.Local = local
			rf.HasLocal = true
		}
	}
	return rf, true
}

// ResolveRecordPatField resolves a field mentioned in a record pattern.
func (s *Semantics) ResolveRecordPatField(nameRef *sitter.Node) (Field, bool) {
	pat := syntax.AncestorOfKind(nameRef, syntax.KindStructPattern)
	if pat == nil {
		return Field{}, false
	}
	adt, ok := s.structPathAdt(pat.ChildByFieldName(syntax.FieldType))
	if !ok {
		return Field{}, false
	}
	return s.fieldByName(adt, s.text(nameRef))
}

// structPathAdt resolves the type path of a record literal or pattern to
// the adt owning its fields, looking through enum variants.
func (s *Semantics) structPathAdt(path *sitter.Node) (ID, bool) {
	if path == nil {
		return 0, false
	}
	res, ok := s.ResolvePath(syntax.LastPathSegment(path))
	if !ok {
		return 0, false
	}
	switch r := res.(type) {
	case Adt:
		return r.id, true
	case Variant:
		return s.db.variants[r.id].enum, true
	case TypeAlias:
		return s.adtByName(s.db.aliases[r.id].name)
	case Impl:
		return s.adtByName(s.db.impls[r.id].typeName)
	}
	return 0, false
}

// ResolveMacroCall resolves the path of a macro invocation in the macro
// namespace.
func (s *Semantics) ResolveMacroCall(nameRef *sitter.Node) (Macro, bool) {
	return s.resolveMacroPath(nameRef)
}

// ResolvePathAsMacro resolves an arbitrary path in the macro namespace.
func (s *Semantics) ResolvePathAsMacro(nameRef *sitter.Node) (Macro, bool) {
	return s.resolveMacroPath(nameRef)
}

func (s *Semantics) resolveMacroPath(nameRef *sitter.Node) (Macro, bool) {
	segs := s.pathSegmentsOf(nameRef)
	if len(segs) == 0 {
		return Macro{}, false
	}
	from := s.moduleFor(nameRef)
	var sr symbolRef
	var ok bool
	if len(segs) == 1 {
		sr, ok = s.lookupIn(from, segs[0], nsMacros, 0)
	} else {
		sr, ok = s.resolveSegments(from, segs, nsMacros, 0)
	}
	if !ok || sr.kind != symMacro {
		return Macro{}, false
	}
	return Macro{id: sr.id}, true
}

// ResolveExternCrate resolves an extern crate declaration to the root
// module of the named crate.
func (s *Semantics) ResolveExternCrate(decl *sitter.Node) (Module, bool) {
	if decl.Kind() != syntax.KindExternCrateDecl {
		decl = syntax.AncestorOfKind(decl, syntax.KindExternCrateDecl)
		if decl == nil {
			return Module{}, false
		}
	}
	name := s.text(decl.ChildByFieldName(syntax.FieldName))
	idx, ok := s.db.crateByName(name)
	if !ok {
		return Module{}, false
	}
	return Module{id: s.db.crates[idx].root}, true
}

// ResolveBindingAsConst reports the constant or unit enum variant a
// pattern identifier refers to, when one of that name is in scope. Such
// an identifier is not a binding at all.
func (s *Semantics) ResolveBindingAsConst(ident *sitter.Node) (PathResolution, bool) {
	name := s.text(ident)
	from := s.moduleFor(ident)
	sr, ok := s.lookupIn(from, name, nsValues, 0)
	if !ok {
		return nil, false
	}
	switch sr.kind {
	case symConst:
		return Const{id: sr.id}, true
	case symVariant:
		if s.db.variants[sr.id].unit {
			return Variant{id: sr.id}, true
		}
	}
	return nil, false
}

// ResolveDeriveInput resolves an identifier inside a #[derive(...)]
// argument list to the derive macro it names.
func (s *Semantics) ResolveDeriveInput(attr, ident *sitter.Node) (PathResolution, bool) {
	path := syntax.AttributePath(attr)
	if path == nil {
		return nil, false
	}
	segs := s.pathSegmentsOf(path)
	if len(segs) == 0 || segs[len(segs)-1] != "derive" {
		return nil, false
	}
	name := s.text(ident)
	if sr, ok := s.lookupIn(s.moduleFor(attr), name, nsMacros, 0); ok && sr.kind == symMacro {
		if s.db.macros[sr.id].kind == MacroDerive {
			return Macro{id: sr.id}, true
		}
	}
	// fall back to any derive macro of that name exported anywhere
	for i := range s.db.macros {
		if s.db.macros[i].kind == MacroDerive && s.db.macros[i].name == name {
			return Macro{id: ID(i)}, true
		}
	}
	return nil, false
}

// ResolveLabel resolves the label of a break or continue to its
// declaration on an enclosing loop or block.
func (s *Semantics) ResolveLabel(lifetime *sitter.Node) (Label, bool) {
	ident := syntax.LifetimeIdent(lifetime)
	if ident == nil {
		return Label{}, false
	}
	name := s.text(ident)
	for n := lifetime.Parent(); n != nil; n = n.Parent() {
		switch n.Kind() {
		case syntax.KindLoopExpr, syntax.KindWhileExpr, syntax.KindForExpr, syntax.KindBlock:
			label := syntax.ChildOfKind(n, syntax.KindLabel)
			if label == nil || s.text(syntax.LifetimeIdent(label)) != name {
				continue
			}
			if sr, ok := s.db.lookupDef(s.crate, label); ok && sr.kind == symLabel {
				return Label{id: sr.id}, true
			}
		}
	}
	return Label{}, false
}

// ResolveLifetimeParam resolves a lifetime use to the parameter declared
// by an enclosing generic item or for<...> binder.
func (s *Semantics) ResolveLifetimeParam(lifetime *sitter.Node) (LifetimeParam, bool) {
	ident := syntax.LifetimeIdent(lifetime)
	if ident == nil {
		return LifetimeParam{}, false
	}
	name := s.text(ident)
	for n := lifetime.Parent(); n != nil; n = n.Parent() {
		if n.Kind() == syntax.KindForLifetimes {
			if lp, ok := s.lifetimeDeclIn(n, name); ok {
				return lp, true
			}
			continue
		}
		tp := n.ChildByFieldName(syntax.FieldTypeParams)
		if tp != nil {
			if lp, ok := s.lifetimeDeclIn(tp, name); ok {
				return lp, true
			}
		}
		if fl := syntax.ChildOfKind(n, syntax.KindForLifetimes); fl != nil && fl.StartByte() < lifetime.StartByte() {
			if lp, ok := s.lifetimeDeclIn(fl, name); ok {
				return lp, true
			}
		}
	}
	return LifetimeParam{}, false
}

func (s *Semantics) lifetimeDeclIn(list *sitter.Node, name string) (LifetimeParam, bool) {
	for _, param := range syntax.NamedChildren(list) {
		// type_parameters wraps lifetimes; for_lifetimes holds them bare
		target := param
		if param.Kind() == syntax.KindLifetimeParameter {
			target = param.ChildByFieldName(syntax.FieldName)
		}
		if target == nil || target.Kind() != syntax.KindLifetime {
			continue
		}
		if s.text(syntax.LifetimeIdent(target)) != name {
			continue
		}
		if sr, ok := s.db.lookupDef(s.crate, target); ok && sr.kind == symLifetimeParam {
			return LifetimeParam{id: sr.id}, true
		}
	}
	return LifetimeParam{}, false
}
