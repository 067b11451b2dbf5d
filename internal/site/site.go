// Package site installs the page shell (index, home, stylesheet, script) into an output folder.
package site

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/util/sets"
)

const (
	// IndexPage receives the navigation block. It is reserved at the output root.
	IndexPage = "index.html"
	// HomePage is loaded into the content frame first.
	HomePage = "home.html"
)

//go:embed templates
var embedded embed.FS

// Default returns the built-in template set.
func Default() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic("embedded site templates missing: " + err.Error())
	}
	return sub
}

// FromDir returns a template set read from dir. The directory must contain IndexPage.
func FromDir(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.NotFoundError("templates folder does not exist").WithContext("path", dir).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat templates folder").WithContext("path", dir).Build()
	}
	if !info.IsDir() {
		return nil, ferrors.NotADirectoryError("templates path is not a directory").WithContext("path", dir).Build()
	}

	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, IndexPage); err != nil {
		return nil, ferrors.ConfigError("templates folder has no "+IndexPage).WithContext("path", dir).Build()
	}
	return fsys, nil
}

// IsReserved reports whether rel (forward-slash, relative to the output root)
// is a shell page that must not appear in navigation.
func IsReserved(rel string) bool {
	return rel == IndexPage || rel == HomePage
}

// Result lists what Install did, as forward-slash relative paths.
type Result struct {
	Installed []string
	Kept      []string
}

// Install copies every file of src into dst, creating folders as needed.
// Paths in keep already hold generated content and are left alone.
func Install(dst string, src fs.FS, keep sets.Set[string]) (Result, error) {
	var res Result
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if keep.Has(p) {
			slog.Debug("Keeping generated page over template", logfields.File(p))
			res.Kept = append(res.Kept, p)
			return nil
		}

		target := filepath.Join(dst, filepath.FromSlash(p))
		if err := copyFromFS(src, p, target); err != nil {
			return err
		}
		res.Installed = append(res.Installed, p)
		return nil
	})
	if err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "install site templates").WithContext("path", dst).Build()
	}
	return res, nil
}

func copyFromFS(src fs.FS, name, target string) (err error) {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// Names lists the files of a template set.
func Names(src fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path.Clean(p))
		}
		return nil
	})
	return names, err
}
