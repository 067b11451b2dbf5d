package nav

import (
	"path"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Node is either a *Folder or a *Leaf.
type Node interface {
	isNode()
}

// Folder groups child nodes by path segment.
type Folder struct {
	children map[string]Node
}

// Leaf is a single navigable page.
type Leaf struct {
	Label string // display text derived from the file name
	Path  string // original relative path, used as the navigation target
}

func (*Folder) isNode() {}
func (*Leaf) isNode()   {}

// NewFolder returns an empty folder.
func NewFolder() *Folder {
	return &Folder{children: make(map[string]Node)}
}

// Keys returns the child segment names in render order.
func (f *Folder) Keys() []string {
	keys := make([]string, 0, len(f.children))
	for k := range f.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Child returns the node stored under segment.
func (f *Folder) Child(segment string) (Node, bool) {
	n, ok := f.children[segment]
	return n, ok
}

// Len returns the number of direct children.
func (f *Folder) Len() int { return len(f.children) }

// Leaves returns every leaf below f in render order.
func (f *Folder) Leaves() []*Leaf {
	var out []*Leaf
	for _, k := range f.Keys() {
		switch n := f.children[k].(type) {
		case *Folder:
			out = append(out, n.Leaves()...)
		case *Leaf:
			out = append(out, n)
		}
	}
	return out
}

// folder returns the child folder for segment, creating it when absent.
// A leaf occupying the segment is replaced (last write wins).
func (f *Folder) folder(segment string) *Folder {
	if child, ok := f.children[segment].(*Folder); ok {
		return child
	}
	child := NewFolder()
	f.children[segment] = child
	return child
}

// Build folds relative paths into a tree. Paths are normalised first and
// unusable ones are skipped. A path repeated in full overwrites the earlier leaf.
func Build(paths []string) *Folder {
	root := NewFolder()
	for _, p := range paths {
		Insert(root, p)
	}
	return root
}

// Insert adds a single path to root. It reports false when p was not a usable RelativePath.
func Insert(root *Folder, p string) bool {
	norm, ok := NormalizePath(p)
	if !ok {
		return false
	}
	segments := strings.Split(norm, "/")
	cur := root
	for _, s := range segments[:len(segments)-1] {
		cur = cur.folder(s)
	}
	name := segments[len(segments)-1]
	cur.children[name] = &Leaf{Label: Label(name), Path: norm}
	return true
}

// Label derives display text from a file name: extension stripped, underscores
// become spaces and each word is title-cased ("getting_started.html" -> "Getting Started").
func Label(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	if base == "" {
		base = name
	}
	base = strings.ReplaceAll(base, "_", " ")
	// Casers keep state; one per call keeps Label safe for concurrent use.
	return cases.Title(language.Und).String(base)
}
