package convert

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/frontmatter"
	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

// MarkdownOptions tune the Markdown adapter.
type MarkdownOptions struct {
	// HighlightStyle names a chroma style. Unknown names fall back to DefaultHighlightStyle.
	HighlightStyle string
	LineNumbers    bool
}

// Markdown converts CommonMark plus GitHub extensions.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds the Markdown adapter.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	style := opts.HighlightStyle
	if !slices.Contains(styles.Names(), style) {
		style = DefaultHighlightStyle
	}

	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(opts.LineNumbers),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)}
}

func (m *Markdown) Name() string         { return "Markdown" }
func (m *Markdown) Extensions() []string { return []string{".md"} }

// Render converts a Markdown document into an HTML fragment and reports the
// frontmatter title, if any. A leading --- that does not open a YAML mapping
// is a thematic break and the whole source is rendered.
func (m *Markdown) Render(src []byte) (body []byte, title string, err error) {
	content, title := stripFrontmatter(src)

	var buf bytes.Buffer
	if err := m.md.Convert(content, &buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), title, nil
}

func (m *Markdown) Convert(_ context.Context, job Job) error {
	src, err := os.ReadFile(job.Input)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "read markdown file").WithContext("path", job.Input).Build()
	}

	body, title, err := m.Render(src)
	if err != nil {
		return err
	}
	if title == "" {
		title = filepath.Base(job.Input)
	}

	return Page{
		Title:     title,
		Body:      template.HTML(body), //nolint:gosec // goldmark output, raw HTML is allowed on purpose
		SourceURL: job.SourceURL,
	}.WriteFile(job.Output)
}

func stripFrontmatter(src []byte) (content []byte, title string) {
	fm, body, had, err := frontmatter.Split(src)
	if err != nil {
		slog.Debug("Leading delimiter is not frontmatter", logfields.Error(err))
		return src, ""
	}
	if !had {
		return body, ""
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		slog.Debug("Leading block is not YAML frontmatter", logfields.Error(err))
		return src, ""
	}
	title, _ = frontmatter.Title(fields)
	return body, title
}
