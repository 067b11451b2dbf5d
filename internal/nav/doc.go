// Package nav turns a flat list of relative page paths into a navigation tree
// and renders that tree as nested list markup.
//
// The tree is a sum type: every Node is either a *Folder (children keyed by
// path segment) or a *Leaf (display label plus the original relative path).
// Rendering walks children in ascending byte-wise order of segment name at
// every level, so output is a pure function of the input path set.
package nav
