// Package collect enumerates files of interest below a root directory.
package collect

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/util/sets"
)

// Options select which files Files returns.
type Options struct {
	// Extensions to include, compared case-insensitively, with or without the leading dot.
	// Empty means every regular file.
	Extensions []string
	// Excludes drops any file whose forward-slash relative path contains one of the substrings.
	Excludes []string
	// IncludeHidden keeps files and directories whose name starts with ".".
	IncludeHidden bool
}

// Files returns the sorted, forward-slash relative paths of regular files below root
// matching opts. A missing root yields ErrNotFound and a non-directory root
// ErrNotADirectory; any other walk failure is logged and an empty result returned.
func Files(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NotFoundError("folder does not exist").WithContext("path", root).Build()
		}
		slog.Warn("Unable to stat folder", logfields.Path(root), logfields.Error(err))
		return []string{}, nil
	}
	if !info.IsDir() {
		return nil, ferrors.NotADirectoryError("path is not a directory").WithContext("path", root).Build()
	}

	exts := extensionSet(opts.Extensions)
	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(exts) > 0 && !exts.Has(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if excluded(rel, opts.Excludes) {
			slog.Debug("Excluded file", logfields.File(rel))
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		slog.Warn("Failed to walk folder", logfields.Path(root), logfields.Error(walkErr))
		return []string{}, nil
	}

	slices.Sort(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}

func extensionSet(exts []string) sets.Set[string] {
	s := sets.New[string]()
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		s.Add(e)
	}
	return s
}

func excluded(rel string, excludes []string) bool {
	for _, ex := range excludes {
		if ex != "" && strings.Contains(rel, ex) {
			return true
		}
	}
	return false
}
