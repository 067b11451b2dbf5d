// Package splice replaces a placeholder comment in a file with generated markup.
package splice

import (
	"log/slog"
	"os"
	"strings"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// Marker is the placeholder replaced by the navigation block.
const Marker = "<!-- AUTOGEN - NAVIGATION SECTION -->"

// String replaces every occurrence of marker in content. The boolean reports
// whether any occurrence was found; when false content is returned unchanged.
func String(content, marker, replacement string) (string, bool) {
	if marker == "" || !strings.Contains(content, marker) {
		return content, false
	}
	return strings.ReplaceAll(content, marker, replacement), true
}

// Indented is String for multi-line markup. When a marker is alone on its
// line after whitespace, every following line of replacement gets that
// whitespace and a trailing newline of replacement is dropped.
func Indented(content, marker, replacement string) (string, bool) {
	if marker == "" || !strings.Contains(content, marker) {
		return content, false
	}

	var b strings.Builder
	pos := 0
	for {
		i := strings.Index(content[pos:], marker)
		if i < 0 {
			b.WriteString(content[pos:])
			return b.String(), true
		}
		at := pos + i
		b.WriteString(content[pos:at])
		b.WriteString(indentLines(replacement, lineIndent(content[:at])))
		pos = at + len(marker)
	}
}

// lineIndent returns the text between the last newline of before and its end
// when that text is only blanks.
func lineIndent(before string) string {
	prefix := before[strings.LastIndexByte(before, '\n')+1:]
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func indentLines(s, indent string) string {
	if indent == "" || !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// File splices replacement into the file at path at every Marker occurrence,
// indented to the marker's line. A file without the marker is left untouched
// and reported as not replaced.
func File(path, replacement string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, ferrors.NotFoundError("splice target does not exist").WithContext("path", path).Build()
		}
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat splice target").WithContext("path", path).Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read splice target").WithContext("path", path).Build()
	}

	out, replaced := Indented(string(data), Marker, replacement)
	if !replaced {
		slog.Debug("Navigation marker not found", logfields.Path(path))
		return false, nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write splice target").WithContext("path", path).Build()
	}
	return true, nil
}
