package build

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

// resolvePaths validates the input folder and the output location and returns
// both as absolute paths.
func resolvePaths(input, output string) (string, string, error) {
	if strings.TrimSpace(input) == "" {
		return "", "", ferrors.ValidationError("input folder is required").Build()
	}
	if strings.TrimSpace(output) == "" {
		return "", "", ferrors.ValidationError("output folder is required").Build()
	}

	in, err := filepath.Abs(input)
	if err != nil {
		return "", "", ferrors.WrapError(err, ferrors.CategoryValidation, "invalid input path").WithContext("path", input).Build()
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return "", "", ferrors.WrapError(err, ferrors.CategoryValidation, "invalid output path").WithContext("path", output).Build()
	}

	info, err := os.Stat(in)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", "", ferrors.NotFoundError("input folder does not exist").WithContext("path", input).Build()
	case err != nil:
		return "", "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot access input folder").WithContext("path", input).Build()
	case !info.IsDir():
		return "", "", ferrors.NotADirectoryError("input path is not a directory").WithContext("path", input).Build()
	}

	if info, err := os.Stat(out); err == nil && !info.IsDir() {
		return "", "", ferrors.NotADirectoryError("output path is not a directory").WithContext("path", output).Build()
	}

	if within(out, in) {
		return "", "", ferrors.ValidationError("output folder must not be inside the input folder").WithContext("path", output).Build()
	}
	if within(in, out) {
		return "", "", ferrors.ValidationError("input folder must not be inside the output folder").WithContext("path", input).Build()
	}
	return in, out, nil
}

// within reports whether path equals root or lies below it. Both must be absolute and clean.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// prepareOutput creates the output folder and, when clean is set, removes its contents.
func prepareOutput(out string, clean bool) error {
	if clean {
		entries, err := os.ReadDir(out)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return ferrors.FileSystemError("failed to read output folder").WithCause(err).WithContext("path", out).Build()
		}
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(out, e.Name())); err != nil {
				return ferrors.FileSystemError("failed to clean output folder").WithCause(err).WithContext("path", out).Build()
			}
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return ferrors.FileSystemError("failed to create output folder").WithCause(err).WithContext("path", out).Build()
	}
	return nil
}
