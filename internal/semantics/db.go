package semantics

import (
	"fmt"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"lodestar/internal/shared/observability"
	"lodestar/internal/syntax"
)

// nodeRef identifies a syntax node within one crate's tree by span and kind
// id. The database never holds tree pointers in its arenas; handles stay
// valid as long as the crate's File does.
type nodeRef struct {
	crate      int32
	start, end uint32
	kind       uint16
}

// symKind tags entries of the declaration index.
type symKind uint8

const (
	symModule symKind = iota
	symFunction
	symAdt
	symVariant
	symField
	symConst
	symStatic
	symTrait
	symTypeAlias
	symMacro
	symImpl
	symLocal
	symTypeParam
	symConstParam
	symLifetimeParam
	symLabel
)

type symbolRef struct {
	kind symKind
	id   ID
}

type ownerKind uint8

const (
	ownerModule ownerKind = iota
	ownerTrait
	ownerImpl
)

type owner struct {
	kind  ownerKind
	trait Trait
	impl  Impl
}

type useImport struct {
	alias    string
	segments []string
}

type crateData struct {
	name string
	root ID
	file *syntax.File
}

type moduleData struct {
	name    string
	crate   int32
	parent  ID // -1 for a crate root
	vis     Visibility
	node    nodeRef
	types   map[string]symbolRef
	values  map[string]symbolRef
	macros  map[string]symbolRef
	uses    []useImport
	externs map[string]string // local name -> crate name
}

type functionData struct {
	name   string
	module ID
	vis    Visibility
	node   nodeRef
	owner  owner
}

type adtData struct {
	kind   AdtKind
	name   string
	module ID
	vis    Visibility
	node   nodeRef
}

type variantData struct {
	name string
	enum ID
	node nodeRef
	unit bool
}

type fieldData struct {
	name     string
	adt      ID
	variant  ID // -1 when owned by the adt directly
	vis      Visibility
	node     nodeRef
	typeName string
}

type constData struct {
	name   string
	module ID
	vis    Visibility
	node   nodeRef
	owner  owner
}

type staticData struct {
	name   string
	module ID
	vis    Visibility
	node   nodeRef
}

type traitData struct {
	name   string
	module ID
	vis    Visibility
	node   nodeRef
	items  []AssocItem
}

type typeAliasData struct {
	name   string
	module ID
	vis    Visibility
	node   nodeRef
	owner  owner
}

type macroData struct {
	name   string
	kind   MacroKind
	module ID
	node   nodeRef
}

type implData struct {
	module   ID
	node     nodeRef
	typeName string
	methods  []ID // function ids
	consts   []ID
	aliases  []ID
}

type localData struct {
	name     string
	module   ID
	node     nodeRef
	typeName string // annotated or inferred receiver type, "" when unknown
}

type paramData struct {
	name   string
	module ID
	node   nodeRef
}

type labelData struct {
	name   string
	module ID
	node   nodeRef
}

// DB is the semantic database: arenas of symbol facts plus a declaration
// index from syntax nodes to handles. It is immutable once the crates are
// added, so concurrent readers need no locking.
type DB struct {
	crates         []crateData
	modules        []moduleData
	functions      []functionData
	adts           []adtData
	variants       []variantData
	fields         []fieldData
	consts         []constData
	statics        []staticData
	traits         []traitData
	aliases        []typeAliasData
	macros         []macroData
	impls          []implData
	locals         []localData
	typeParams     []paramData
	constParams    []paramData
	lifetimeParams []paramData
	labels         []labelData

	defs map[nodeRef]symbolRef
}

func NewDB() *DB {
	return &DB{defs: make(map[nodeRef]symbolRef)}
}

// AddCrate parses and analyzes source as a crate named name. Paths between
// crates resolve in either direction once both are added.
func (db *DB) AddCrate(name string, source []byte) error {
	for _, c := range db.crates {
		if c.name == name {
			return fmt.Errorf("crate %q already added", name)
		}
	}
	parseStart := time.Now()
	file, err := syntax.Parse(name+".rs", source)
	if err != nil {
		return fmt.Errorf("add crate %q: %w", name, err)
	}
	observability.ParseDuration.Observe(time.Since(parseStart).Seconds())
	crate := int32(len(db.crates))
	a := &analyzer{db: db, crate: crate, file: file}
	root := a.newModule(name, -1, VisPublic, file.Root())
	db.crates = append(db.crates, crateData{name: name, root: root, file: file})
	a.collectItems(file.Root(), root, owner{kind: ownerModule})
	return nil
}

// Close releases the parsed trees backing the database.
func (db *DB) Close() {
	for _, c := range db.crates {
		c.file.Close()
	}
}

// Semantics returns the query facade scoped to one crate's tree. Nodes
// passed to its methods must belong to that tree.
func (db *DB) Semantics(crateName string) (*Semantics, bool) {
	for i, c := range db.crates {
		if c.name == crateName {
			return &Semantics{db: db, crate: int32(i), file: c.file}, true
		}
	}
	return nil, false
}

// CrateFile exposes the parsed file of a crate, for features that need to
// locate tokens before classifying them.
func (db *DB) CrateFile(crateName string) (*syntax.File, bool) {
	for _, c := range db.crates {
		if c.name == crateName {
			return c.file, true
		}
	}
	return nil, false
}

func (db *DB) ref(crate int32, node *sitter.Node) nodeRef {
	return nodeRef{
		crate: crate,
		start: uint32(node.StartByte()),
		end:   uint32(node.EndByte()),
		kind:  node.KindId(),
	}
}

func (db *DB) lookupDef(crate int32, node *sitter.Node) (symbolRef, bool) {
	ref, ok := db.defs[db.ref(crate, node)]
	return ref, ok
}

func (db *DB) crateByName(name string) (int32, bool) {
	for i, c := range db.crates {
		if c.name == name {
			return int32(i), true
		}
	}
	return 0, false
}
