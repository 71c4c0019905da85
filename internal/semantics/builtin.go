package semantics

// builtinNames covers the primitive types a path can resolve to. The order
// is the identity of the BuiltinType handle.
var builtinNames = []string{
	"bool", "char", "str",
	"u8", "u16", "u32", "u64", "u128", "usize",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"f32", "f64",
}

var builtinByName = func() map[string]BuiltinType {
	m := make(map[string]BuiltinType, len(builtinNames))
	for i, name := range builtinNames {
		m[name] = BuiltinType{idx: int16(i)}
	}
	return m
}()

// BuiltinByName resolves a primitive type name.
func BuiltinByName(name string) (BuiltinType, bool) {
	b, ok := builtinByName[name]
	return b, ok
}

// Name returns the builtin's name. Builtins are not owned by any module, so
// unlike other handles no database is needed.
func (b BuiltinType) Name() string {
	if int(b.idx) < 0 || int(b.idx) >= len(builtinNames) {
		return ""
	}
	return builtinNames[b.idx]
}
