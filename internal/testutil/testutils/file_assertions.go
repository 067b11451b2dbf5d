// Package helpers holds shared test fixtures for griddle packages.
package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions checks the state of a generated output tree.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{
		t:       t,
		baseDir: baseDir,
	}
}

// AssertFileExists validates that a file exists.
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	if stat, err := os.Stat(fullPath); err != nil {
		fa.t.Errorf("Expected file to exist: %s", fullPath)
	} else if stat.IsDir() {
		fa.t.Errorf("Expected %s to be a file, but it's a directory", fullPath)
	}
	return fa
}

// AssertFileNotExists validates that nothing exists at the path.
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))
	if _, err := os.Stat(fullPath); err == nil {
		fa.t.Errorf("Expected %s not to exist", fullPath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(relativePath, expectedContent string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(relativePath)
	if ok && !strings.Contains(content, expectedContent) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s",
			relativePath, expectedContent, content)
	}
	return fa
}

// AssertFileNotContains validates that a file does not contain unexpected content.
func (fa *FileAssertions) AssertFileNotContains(relativePath, unexpected string) *FileAssertions {
	fa.t.Helper()
	content, ok := fa.read(relativePath)
	if ok && strings.Contains(content, unexpected) {
		fa.t.Errorf("Expected file %s not to contain %q", relativePath, unexpected)
	}
	return fa
}

func (fa *FileAssertions) read(relativePath string) (string, bool) {
	fa.t.Helper()
	fullPath := filepath.Join(fa.baseDir, filepath.FromSlash(relativePath))

	// #nosec G304 - test helper, paths are controlled by test code
	content, err := os.ReadFile(fullPath)
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", fullPath, err)
		return "", false
	}
	return string(content), true
}

// WriteTree creates files below root from a map of forward-slash paths to content.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}
