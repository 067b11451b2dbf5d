package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/griddle/internal/console"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

func newReporter(buf *bytes.Buffer) *console.Reporter {
	noColor := false
	return console.New(buf, console.Options{Color: &noColor})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "docs/guide.html", OutputPath("docs/guide.md"))
	assert.Equal(t, "a/b.html", OutputPath("a/b.asciidoc"))
	assert.Equal(t, "scan.html", OutputPath("scan.PDF"))
}

func TestRegistry(t *testing.T) {
	r := Defaults(MarkdownOptions{})
	assert.Equal(t, []string{".adoc", ".asciidoc", ".md", ".pdf"}, r.Extensions())

	a, ok := r.For("docs/Guide.MD")
	require.True(t, ok)
	assert.Equal(t, "Markdown", a.Name())

	a, ok = r.For("book.asciidoc")
	require.True(t, ok)
	assert.Equal(t, []string{".asciidoc"}, a.Extensions())

	_, ok = r.For("notes.txt")
	assert.False(t, ok)
	assert.Len(t, r.Adapters(), 4)
}

func TestMarkdownHeading(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in", "title.md")
	out := filepath.Join(dir, "out", "nested", "title.html")
	writeFile(t, in, "# Title\n")

	var buf bytes.Buffer
	ok := Run(context.Background(), newReporter(&buf), NewMarkdown(MarkdownOptions{}), Job{Input: in, Output: out})
	require.True(t, ok, buf.String())

	page := readFile(t, out)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, `<h1 id="title">Title</h1>`)
	assert.Contains(t, page, "<title>title.md</title>")
	assert.Contains(t, page, "max-width: 800px")
	assert.NotContains(t, page, "View source")
}

func TestMarkdownFrontmatterTitleAndSourceLink(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "guide.md")
	out := filepath.Join(dir, "guide.html")
	writeFile(t, in, "---\ntitle: Getting Started\n---\nSome *text*.\n")

	err := Do(context.Background(), NewMarkdown(MarkdownOptions{}), Job{
		Input:     in,
		Output:    out,
		SourceURL: "https://github.com/org/repo/blob/main/guide.md",
	})
	require.NoError(t, err)

	page := readFile(t, out)
	assert.Contains(t, page, "<title>Getting Started</title>")
	assert.Contains(t, page, "<em>text</em>")
	assert.NotContains(t, page, "title: Getting Started")
	assert.Contains(t, page, `href="https://github.com/org/repo/blob/main/guide.md"`)
}

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown(MarkdownOptions{HighlightStyle: "no-such-style"})

	body, title, err := md.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n```go\nfunc main() {}\n```\n\n<div class=\"raw\">kept</div>\n"))
	require.NoError(t, err)
	assert.Empty(t, title)

	html := string(body)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<pre")
	assert.NotContains(t, html, `class="language-go"`)
	assert.Contains(t, html, `<div class="raw">kept</div>`)
}

func TestMarkdownRenderLeadingThematicBreak(t *testing.T) {
	md := NewMarkdown(MarkdownOptions{})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no closing delimiter", src: "---\n\n# Title\n\nSome text.\n", want: `<h1 id="title">Title</h1>`},
		{name: "unclosed with yaml-like line", src: "---\ntitle: x\n# no closing\n", want: "no closing"},
		{name: "block is not a mapping", src: "---\nIntro paragraph: see below: now\n---\n\nbody\n", want: "<p>body</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, title, err := md.Render([]byte(tt.src))
			require.NoError(t, err)
			assert.Empty(t, title)
			assert.Contains(t, string(body), "<hr")
			assert.Contains(t, string(body), tt.want)
		})
	}
}

func TestMarkdownThematicBreakConverts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.md")
	out := filepath.Join(dir, "notes.html")
	writeFile(t, in, "---\n\n# Title\n\nSome text.\n")

	require.NoError(t, Do(context.Background(), NewMarkdown(MarkdownOptions{}), Job{Input: in, Output: out}))
	assert.Contains(t, readFile(t, out), "Some text.")
}

func TestMissingInputReportsAndWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out", "missing.html")

	var buf bytes.Buffer
	r := newReporter(&buf)
	ok := Run(context.Background(), r, NewMarkdown(MarkdownOptions{}), Job{
		Input:  filepath.Join(dir, "missing.md"),
		Output: out,
	})

	assert.False(t, ok)
	assert.NoFileExists(t, out)
	assert.Equal(t, 1, r.Count(console.SeverityError))
	assert.Contains(t, buf.String(), "ERROR: Failed to convert")
	assert.Contains(t, buf.String(), "missing.md")
}

func TestDoMissingInputIsNotFound(t *testing.T) {
	err := Do(context.Background(), NewPDF(), Job{Input: filepath.Join(t.TempDir(), "x.pdf"), Output: "unused.html"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ferrors.ErrNotFound))
}

func TestExtensionMismatchWarnsAndConverts(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	out := filepath.Join(dir, "notes.html")
	writeFile(t, in, "# Notes\n")

	var buf bytes.Buffer
	r := newReporter(&buf)
	ok := Run(context.Background(), r, NewMarkdown(MarkdownOptions{}), Job{Input: in, Output: out})

	require.True(t, ok)
	assert.Equal(t, 1, r.Count(console.SeverityWarning))
	assert.Contains(t, buf.String(), "WARNING: The file")
	assert.Contains(t, buf.String(), "expected .md extension")
	assert.FileExists(t, out)
}

func TestCancelledContext(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.md")
	writeFile(t, in, "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, NewMarkdown(MarkdownOptions{}), Job{Input: in, Output: filepath.Join(dir, "a.html")})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "a.html"))
}

func TestAsciiDoc(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ref.adoc")
	out := filepath.Join(dir, "site", "ref.html")
	writeFile(t, in, "Hello *world*.\n")

	err := Do(context.Background(), NewAsciiDoc(".adoc"), Job{Input: in, Output: out})
	require.NoError(t, err)

	page := readFile(t, out)
	assert.Contains(t, page, "<strong>world</strong>")
	assert.Contains(t, page, "<title>ref.adoc</title>")
	assert.NotContains(t, page, "<h1>")
}

func TestAsciiDocDocumentTitle(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ref.adoc")
	out := filepath.Join(dir, "ref.html")
	writeFile(t, in, "= Tips & Tricks\n\nHello *world*.\n")

	require.NoError(t, Do(context.Background(), NewAsciiDoc(".adoc"), Job{Input: in, Output: out}))

	page := readFile(t, out)
	assert.Contains(t, page, "<h1>Tips &amp; Tricks</h1>")
	assert.Contains(t, page, "<title>Tips &amp; Tricks</title>")
	assert.Contains(t, page, "<strong>world</strong>")
}

func TestAsciiDocFlavourMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ref.adoc")
	writeFile(t, in, "Text.\n")

	var warnings []string
	err := Do(context.Background(), NewAsciiDoc(".asciidoc"), Job{
		Input:  in,
		Output: filepath.Join(dir, "ref.html"),
		Warn:   func(format string, args ...any) { warnings = append(warnings, format) },
	})
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}

func TestPDF(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "docs", "scan 1.pdf")
	out := filepath.Join(dir, "site", "docs", "scan 1.html")
	writeFile(t, in, "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

	var warnings int
	err := Do(context.Background(), NewPDF(), Job{
		Input:  in,
		Output: out,
		Warn:   func(string, ...any) { warnings++ },
	})
	require.NoError(t, err)
	assert.Zero(t, warnings)

	page := readFile(t, out)
	assert.Contains(t, page, `<iframe src="scan%201.pdf"`)
	assert.Contains(t, page, "<title>scan 1.pdf</title>")
	assert.FileExists(t, filepath.Join(dir, "site", "docs", "scan 1.pdf"))
}

func TestPDFNotAPDFWarns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "fake.pdf")
	writeFile(t, in, "just some text\n")

	var warnings int
	err := Do(context.Background(), NewPDF(), Job{
		Input:  in,
		Output: filepath.Join(dir, "out", "fake.html"),
		Warn:   func(string, ...any) { warnings++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, warnings)
}

func TestPageWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	writeFile(t, path, "old content that is longer than nothing")

	require.NoError(t, Page{Title: "New", Body: "<p>new</p>"}.WriteFile(path))

	page := readFile(t, path)
	assert.Contains(t, page, "<title>New</title>")
	assert.NotContains(t, page, "old content")
	assert.NoFileExists(t, path+".tmp")
}

func TestPageWriteFileFailureLeavesNoPage(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken.html")
	writeFile(t, filepath.Join(target, "child.txt"), "x")

	err := Page{Title: "T", Body: "<p>x</p>"}.WriteFile(target)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
	assert.NoFileExists(t, target+".tmp")
}
