package semantics

// Metadata accessors for resolved handles. These are the read side of the
// arenas; invalid handles panic the same way an out-of-range slice index
// would.

func (db *DB) ModuleName(m Module) string { return db.modules[m.id].name }

// ModuleParent returns the enclosing module, reporting false for a crate
// root.
func (db *DB) ModuleParent(m Module) (Module, bool) {
	parent := db.modules[m.id].parent
	if parent < 0 {
		return Module{}, false
	}
	return Module{id: parent}, true
}

// IsCrateRoot reports whether the module is the root of its crate.
func (db *DB) IsCrateRoot(m Module) bool { return db.modules[m.id].parent < 0 }

// ModuleCrateName returns the name of the crate a module belongs to.
func (db *DB) ModuleCrateName(m Module) string {
	return db.crates[db.modules[m.id].crate].name
}

func (db *DB) ModuleVisibility(m Module) Visibility { return db.modules[m.id].vis }

// ModulePathToRoot lists the module and its ancestors, crate root first.
func (db *DB) ModulePathToRoot(m Module) []Module {
	var rev []Module
	cur, ok := m, true
	for ok {
		rev = append(rev, cur)
		cur, ok = db.ModuleParent(cur)
	}
	path := make([]Module, len(rev))
	for i, mod := range rev {
		path[len(rev)-1-i] = mod
	}
	return path
}

func (db *DB) FunctionName(f Function) string           { return db.functions[f.id].name }
func (db *DB) FunctionModule(f Function) Module         { return Module{id: db.functions[f.id].module} }
func (db *DB) FunctionVisibility(f Function) Visibility { return db.functions[f.id].vis }

func (db *DB) AdtName(a Adt) string           { return db.adts[a.id].name }
func (db *DB) AdtKindOf(a Adt) AdtKind        { return db.adts[a.id].kind }
func (db *DB) AdtModule(a Adt) Module         { return Module{id: db.adts[a.id].module} }
func (db *DB) AdtVisibility(a Adt) Visibility { return db.adts[a.id].vis }

func (db *DB) VariantName(v Variant) string { return db.variants[v.id].name }
func (db *DB) VariantEnum(v Variant) Adt    { return Adt{id: db.variants[v.id].enum} }
func (db *DB) VariantModule(v Variant) Module {
	return db.AdtModule(db.VariantEnum(v))
}

func (db *DB) FieldName(f Field) string           { return db.fields[f.id].name }
func (db *DB) FieldAdt(f Field) Adt               { return Adt{id: db.fields[f.id].adt} }
func (db *DB) FieldVisibility(f Field) Visibility { return db.fields[f.id].vis }

// FieldModule returns the module of the adt owning the field.
func (db *DB) FieldModule(f Field) Module {
	return db.AdtModule(db.FieldAdt(f))
}

func (db *DB) ConstName(c Const) (string, bool) {
	name := db.consts[c.id].name
	return name, name != "" && name != "_"
}
func (db *DB) ConstModule(c Const) Module         { return Module{id: db.consts[c.id].module} }
func (db *DB) ConstVisibility(c Const) Visibility { return db.consts[c.id].vis }

func (db *DB) StaticName(s Static) string           { return db.statics[s.id].name }
func (db *DB) StaticModule(s Static) Module         { return Module{id: db.statics[s.id].module} }
func (db *DB) StaticVisibility(s Static) Visibility { return db.statics[s.id].vis }

func (db *DB) TraitName(t Trait) string           { return db.traits[t.id].name }
func (db *DB) TraitModule(t Trait) Module         { return Module{id: db.traits[t.id].module} }
func (db *DB) TraitVisibility(t Trait) Visibility { return db.traits[t.id].vis }

func (db *DB) TypeAliasNameOf(ta TypeAlias) string         { return db.aliases[ta.id].name }
func (db *DB) TypeAliasModule(ta TypeAlias) Module         { return Module{id: db.aliases[ta.id].module} }
func (db *DB) TypeAliasVisibility(ta TypeAlias) Visibility { return db.aliases[ta.id].vis }

func (db *DB) MacroName(m Macro) string      { return db.macros[m.id].name }
func (db *DB) MacroKindOf(m Macro) MacroKind { return db.macros[m.id].kind }
func (db *DB) MacroModule(m Macro) Module    { return Module{id: db.macros[m.id].module} }

func (db *DB) ImplModule(i Impl) Module   { return Module{id: db.impls[i.id].module} }
func (db *DB) ImplTypeName(i Impl) string { return db.impls[i.id].typeName }

func (db *DB) LocalName(l Local) string   { return db.locals[l.id].name }
func (db *DB) LocalModule(l Local) Module { return Module{id: db.locals[l.id].module} }

func (db *DB) TypeParamName(p TypeParam) string         { return db.typeParams[p.id].name }
func (db *DB) TypeParamModule(p TypeParam) Module       { return Module{id: db.typeParams[p.id].module} }
func (db *DB) ConstParamName(p ConstParam) string       { return db.constParams[p.id].name }
func (db *DB) ConstParamModule(p ConstParam) Module     { return Module{id: db.constParams[p.id].module} }
func (db *DB) LifetimeParamName(p LifetimeParam) string { return db.lifetimeParams[p.id].name }
func (db *DB) LifetimeParamModule(p LifetimeParam) Module {
	return Module{id: db.lifetimeParams[p.id].module}
}

func (db *DB) LabelName(l Label) string   { return db.labels[l.id].name }
func (db *DB) LabelModule(l Label) Module { return Module{id: db.labels[l.id].module} }
