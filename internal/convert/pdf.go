package convert

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

const pdfMIME = "application/pdf"

// PDF produces a viewer page that embeds the document in a full-height iframe.
// The PDF itself is copied next to the page so the relative src resolves.
type PDF struct{}

// NewPDF creates the PDF adapter.
func NewPDF() *PDF { return &PDF{} }

func (p *PDF) Name() string         { return "PDF" }
func (p *PDF) Extensions() []string { return []string{".pdf"} }

const pdfStyle = `html, body { height: 100%; margin: 0; padding: 0; }
iframe { border: none; display: block; height: 100%; width: 100%; }
.source { font-family: Arial, sans-serif; font-size: 0.9em; margin: 0; padding: 4px 8px; text-align: right; }`

func (p *PDF) Convert(_ context.Context, job Job) error {
	mt, err := mimetype.DetectFile(job.Input)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read pdf file").WithContext("path", job.Input).Build()
	}
	if !mt.Is(pdfMIME) {
		job.warnf("The file %s does not look like a PDF (detected %s)", job.Input, mt.String())
	}

	name := filepath.Base(job.Input)
	dst := filepath.Join(filepath.Dir(job.Output), name)
	if err := copyFile(job.Input, dst); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy pdf file").WithContext("path", dst).Build()
	}

	src := (&url.URL{Path: name}).String()
	body := fmt.Sprintf(`<iframe src="%s" title="%s"></iframe>`, template.HTMLEscapeString(src), template.HTMLEscapeString(name))

	return Page{
		Title:     name,
		Body:      template.HTML(body), //nolint:gosec // attribute values escaped above
		SourceURL: job.SourceURL,
		Style:     pdfStyle,
	}.WriteFile(job.Output)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
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
