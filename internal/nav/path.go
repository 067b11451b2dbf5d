package nav

import (
	"path"
	"strings"
)

// NormalizePath converts p into a RelativePath: forward slashes only, no leading
// or trailing slash, no empty or "." segments. ok is false when nothing usable remains
// or when the path climbs out of its root with "..".
func NormalizePath(p string) (string, bool) {
	segments := Segments(p)
	if len(segments) == 0 {
		return "", false
	}
	for _, s := range segments {
		if s == ".." {
			return "", false
		}
	}
	return strings.Join(segments, "/"), true
}

// Segments splits p on both slash kinds and drops empty and "." segments.
func Segments(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	raw := strings.Split(p, "/")
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ReplaceExtension swaps the extension of p for ext (with or without the leading dot).
func ReplaceExtension(p, ext string) string {
	base := strings.TrimSuffix(p, path.Ext(p))
	return base + "." + strings.TrimPrefix(ext, ".")
}
