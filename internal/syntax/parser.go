// Package syntax wraps tree-sitter parsing and navigation for Rust source.
// It knows nothing about name resolution; it only answers structural
// questions about nodes, which the classifier and the semantic layer build
// on.
package syntax

import (
	"errors"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var (
	languageOnce sync.Once
	rustLanguage *sitter.Language
)

// Language returns the shared Rust grammar.
func Language() *sitter.Language {
	languageOnce.Do(func() {
		rustLanguage = sitter.NewLanguage(tree_sitter_rust.Language())
	})
	return rustLanguage
}

// File is a parsed source file. The tree stays alive until Close is called;
// nodes handed out by navigation helpers are only valid while the File is.
type File struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

// Parse parses content as Rust source. An empty tree is still a valid parse;
// only a wholly failed parse is an error.
func Parse(path string, content []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(Language())

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}

	return &File{Path: path, Source: content, tree: tree}, nil
}

func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Text returns the source text covered by node.
func (f *File) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(f.Source[node.StartByte():node.EndByte()])
}

// TokenAt returns the smallest node covering the byte offset, descending to
// a leaf token when possible. Returns nil when the offset is out of range.
func (f *File) TokenAt(offset uint) *sitter.Node {
	root := f.Root()
	if offset >= root.EndByte() {
		return nil
	}
	return root.DescendantForByteRange(offset, offset)
}
