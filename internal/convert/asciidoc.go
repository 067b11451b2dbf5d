package convert

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"os"
	"path/filepath"

	"github.com/bytesparadise/libasciidoc"
	"github.com/bytesparadise/libasciidoc/pkg/configuration"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

// AsciiDoc converts AsciiDoc documents with the html5 backend. One adapter
// is registered per accepted extension so mismatches are reported per flavour.
type AsciiDoc struct {
	ext string
}

// NewAsciiDoc creates an adapter expecting ext (".adoc" or ".asciidoc").
func NewAsciiDoc(ext string) *AsciiDoc {
	return &AsciiDoc{ext: ext}
}

func (a *AsciiDoc) Name() string         { return "AsciiDoc" }
func (a *AsciiDoc) Extensions() []string { return []string{a.ext} }

func (a *AsciiDoc) Convert(_ context.Context, job Job) error {
	f, err := os.Open(job.Input)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "open asciidoc file").WithContext("path", job.Input).Build()
	}
	defer func() { _ = f.Close() }()

	cfg := configuration.NewConfiguration(
		configuration.WithFilename(job.Input),
		configuration.WithBackEnd("html5"),
		configuration.WithHeaderFooter(false),
	)

	var buf bytes.Buffer
	meta, err := libasciidoc.Convert(f, &buf, cfg)
	if err != nil {
		return err
	}

	title := filepath.Base(job.Input)
	body := buf.String()
	// Without header and footer the document title is only in the metadata,
	// already escaped.
	if meta.Title != "" {
		title = html.UnescapeString(meta.Title)
		body = "<h1>" + meta.Title + "</h1>\n" + body
	}

	return Page{
		Title:     title,
		Body:      template.HTML(body), //nolint:gosec // libasciidoc output
		SourceURL: job.SourceURL,
	}.WriteFile(job.Output)
}
