// Package variables implements the scope-local value store (§3.4 Variables,
// §4.2 Arguments) and the Path type used for VARPTR arithmetic and by-ref
// writes (§3.9).
package variables

import "basic/internal/variant"

// PathKind tags a Path's alternative.
type PathKind byte

const (
	PathRoot PathKind = iota
	PathArrayElement
	PathProperty
)

// Path is a navigable identifier addressing a live storage location
// (§3.9): Root(name, shared) | ArrayElement(parent, indices) |
// Property(parent, field). Paths are a tree (owned sub-paths), never a
// DAG — no back-pointers to parent scopes are stored in values themselves
// (§9 "Arena + index over pointer graphs").
type Path struct {
	Kind    PathKind
	Name    string // PathRoot
	Shared  bool   // PathRoot: true when this root lives in the global/shared block
	Parent  *Path  // PathArrayElement, PathProperty
	Indices []variant.Variant
	Field   string // PathProperty
}

// Root builds a Root path.
func Root(name string, shared bool) Path {
	return Path{Kind: PathRoot, Name: name, Shared: shared}
}

// ArrayElement wraps parent with an array-index step.
func ArrayElement(parent Path, indices []variant.Variant) Path {
	p := parent
	return Path{Kind: PathArrayElement, Parent: &p, Indices: indices}
}

// Property wraps parent with a record-field step.
func Property(parent Path, field string) Path {
	p := parent
	return Path{Kind: PathProperty, Parent: &p, Field: field}
}

// RootOf walks to the Root of any path — every Path eventually bottoms out
// at exactly one Root (§3.9).
func (p Path) RootOf() Path {
	cur := p
	for cur.Kind != PathRoot {
		cur = *cur.Parent
	}
	return cur
}
