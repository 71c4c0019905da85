package semantics

import "strings"

// SymbolInfo is a flattened view of one declared symbol, shaped for the
// workspace index rather than for classification.
type SymbolInfo struct {
	Name       string
	Kind       string
	ModulePath string
	Visibility Visibility
	Line       uint32
	Column     uint32
}

// CrateSymbols lists every item-like symbol of a crate, fields included.
func (db *DB) CrateSymbols(crateName string) []SymbolInfo {
	crate, ok := db.crateByName(crateName)
	if !ok {
		return nil
	}
	src := db.crates[crate].file.Source

	var out []SymbolInfo
	add := func(name, kind string, module ID, vis Visibility, node nodeRef) {
		if name == "" {
			return
		}
		line, col := positionAt(src, node.start)
		out = append(out, SymbolInfo{
			Name:       name,
			Kind:       kind,
			ModulePath: db.modulePathString(module),
			Visibility: vis,
			Line:       line,
			Column:     col,
		})
	}

	for i := range db.modules {
		m := &db.modules[i]
		if m.crate != crate || m.parent < 0 {
			continue
		}
		add(m.name, "module", m.parent, m.vis, m.node)
	}
	for i := range db.functions {
		f := &db.functions[i]
		if db.modules[f.module].crate != crate {
			continue
		}
		add(f.name, "function", f.module, f.vis, f.node)
	}
	for i := range db.adts {
		a := &db.adts[i]
		if db.modules[a.module].crate != crate {
			continue
		}
		kind := "struct"
		switch a.kind {
		case AdtUnion:
			kind = "union"
		case AdtEnum:
			kind = "enum"
		}
		add(a.name, kind, a.module, a.vis, a.node)
	}
	for i := range db.variants {
		v := &db.variants[i]
		enum := &db.adts[v.enum]
		if db.modules[enum.module].crate != crate {
			continue
		}
		add(v.name, "variant", enum.module, enum.vis, v.node)
	}
	for i := range db.fields {
		f := &db.fields[i]
		adt := &db.adts[f.adt]
		if db.modules[adt.module].crate != crate {
			continue
		}
		add(f.name, "field", adt.module, f.vis, f.node)
	}
	for i := range db.consts {
		c := &db.consts[i]
		if db.modules[c.module].crate != crate || c.name == "" || c.name == "_" {
			continue
		}
		add(c.name, "const", c.module, c.vis, c.node)
	}
	for i := range db.statics {
		s := &db.statics[i]
		if db.modules[s.module].crate != crate {
			continue
		}
		add(s.name, "static", s.module, s.vis, s.node)
	}
	for i := range db.traits {
		t := &db.traits[i]
		if db.modules[t.module].crate != crate {
			continue
		}
		add(t.name, "trait", t.module, t.vis, t.node)
	}
	for i := range db.aliases {
		a := &db.aliases[i]
		if db.modules[a.module].crate != crate {
			continue
		}
		add(a.name, "type_alias", a.module, a.vis, a.node)
	}
	for i := range db.macros {
		m := &db.macros[i]
		if db.modules[m.module].crate != crate {
			continue
		}
		add(m.name, "macro", m.module, VisPublic, m.node)
	}
	return out
}

func (db *DB) modulePathString(module ID) string {
	path := db.ModulePathToRoot(Module{id: module})
	parts := make([]string, 0, len(path))
	parts = append(parts, db.crates[db.modules[module].crate].name)
	for _, m := range path[1:] {
		parts = append(parts, db.modules[m.id].name)
	}
	return strings.Join(parts, "::")
}

// positionAt converts a byte offset to zero-based line and column.
func positionAt(src []byte, offset uint32) (uint32, uint32) {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	var line, col uint32
	for _, b := range src[:offset] {
		if b == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
