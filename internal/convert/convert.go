// Package convert turns single source documents into standalone HTML pages.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/nav"
)

// Adapter converts one input format.
type Adapter interface {
	// Name is a short human readable format name, e.g. "Markdown".
	Name() string
	// Extensions lists the lower-case file extensions the adapter expects, with leading dot.
	Extensions() []string
	// Convert reads job.Input and writes job.Output. The output directory already exists.
	Convert(ctx context.Context, job Job) error
}

// Job describes one conversion.
type Job struct {
	Input  string
	Output string
	// SourceURL, when set, is rendered as a "View source" link on the page.
	SourceURL string
	// Warn receives non-fatal findings. It may be nil.
	Warn func(format string, args ...any)
}

func (j Job) warnf(format string, args ...any) {
	if j.Warn != nil {
		j.Warn(format, args...)
	}
}

// OutputPath maps a relative source path to the relative path of its HTML page.
func OutputPath(rel string) string {
	return nav.ReplaceExtension(rel, ".html")
}

// Registry maps file extensions to adapters.
type Registry struct {
	byExt map[string]Adapter
	order []Adapter
}

// NewRegistry registers adapters; a later adapter claiming the same extension wins.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{byExt: map[string]Adapter{}}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter.
func (r *Registry) Register(a Adapter) {
	r.order = append(r.order, a)
	for _, ext := range a.Extensions() {
		r.byExt[strings.ToLower(ext)] = a
	}
}

// For returns the adapter for path's extension.
func (r *Registry) For(path string) (Adapter, bool) {
	a, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return a, ok
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Adapters returns the adapters in registration order.
func (r *Registry) Adapters() []Adapter {
	return slices.Clone(r.order)
}

// Defaults returns a registry with every built-in adapter.
func Defaults(md MarkdownOptions) *Registry {
	return NewRegistry(
		NewMarkdown(md),
		NewAsciiDoc(".adoc"),
		NewAsciiDoc(".asciidoc"),
		NewPDF(),
	)
}

// Do checks the job, prepares the output directory and runs the adapter.
// An extension the adapter does not expect is reported through job.Warn
// and conversion continues.
func Do(ctx context.Context, a Adapter, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(job.Input)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return ferrors.NotFoundError("input file does not exist").WithContext("path", job.Input).Build()
	case err != nil:
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat input file").WithContext("path", job.Input).Build()
	case info.IsDir():
		return ferrors.ConversionError("input is a directory").WithCause(ferrors.ErrConversion).WithContext("path", job.Input).Build()
	}

	ext := strings.ToLower(filepath.Ext(job.Input))
	if !slices.Contains(a.Extensions(), ext) {
		job.warnf("The file %s does not have the expected %s extension", job.Input, strings.Join(a.Extensions(), " or "))
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").WithContext("path", job.Output).Build()
	}

	if err := a.Convert(ctx, job); err != nil {
		if ferrors.IsClassified(err) {
			return err
		}
		return ferrors.WrapError(fmt.Errorf("%w: %w", ferrors.ErrConversion, err), ferrors.CategoryConversion, a.Name()+" conversion failed").
			WithContext("path", job.Input).Build()
	}
	return nil
}
