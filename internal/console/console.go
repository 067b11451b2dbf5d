// Package console prints user-facing status lines with a severity-dependent style.
//
// Diagnostics go through log/slog; the Reporter is only for what the person
// running griddle is meant to read.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Severity classifies a console message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Named colours, shared by every renderer.
var (
	colorInfo    = lipgloss.Color("#87CEEB")
	colorWarning = lipgloss.Color("#FFCC00")
	colorError   = lipgloss.Color("#FF5F87")
	colorSuccess = lipgloss.Color("#04B575")
	colorMuted   = lipgloss.Color("#626262")
)

// Reporter writes severity-tagged messages. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	verbose bool
	styles  map[Severity]lipgloss.Style
	muted   lipgloss.Style
	counts  map[Severity]int
}

// Options configure a Reporter.
type Options struct {
	// Color forces styling on or off. Nil auto-detects a terminal and honours NO_COLOR.
	Color   *bool
	Verbose bool
}

// New creates a Reporter writing to out.
func New(out io.Writer, opts Options) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	color := detectColor(out)
	if opts.Color != nil {
		color = *opts.Color
	}

	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:     out,
		color:   color,
		verbose: opts.Verbose,
		styles: map[Severity]lipgloss.Style{
			SeverityInfo:    r.NewStyle().Foreground(colorInfo),
			SeverityWarning: r.NewStyle().Foreground(colorWarning),
			SeverityError:   r.NewStyle().Foreground(colorError).Bold(true),
			SeveritySuccess: r.NewStyle().Foreground(colorSuccess),
		},
		muted:  r.NewStyle().Foreground(colorMuted),
		counts: make(map[Severity]int),
	}
}

// Discard returns a Reporter that drops everything (tests, library callers).
func Discard() *Reporter {
	off := false
	return New(io.Discard, Options{Color: &off})
}

func detectColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Verbose reports whether Verbosef output is shown.
func (r *Reporter) Verbose() bool { return r.verbose }

// Infof prints an informational line.
func (r *Reporter) Infof(format string, args ...any) {
	r.Print(SeverityInfo, fmt.Sprintf(format, args...))
}

// Warnf prints a warning line.
func (r *Reporter) Warnf(format string, args ...any) {
	r.Print(SeverityWarning, fmt.Sprintf(format, args...))
}

// Errorf prints an error line.
func (r *Reporter) Errorf(format string, args ...any) {
	r.Print(SeverityError, fmt.Sprintf(format, args...))
}

// Successf prints a success line.
func (r *Reporter) Successf(format string, args ...any) {
	r.Print(SeveritySuccess, fmt.Sprintf(format, args...))
}

// Verbosef prints a muted status line, only when verbose output is enabled.
func (r *Reporter) Verbosef(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.write(r.muted, fmt.Sprintf(format, args...))
}

// Print writes text with the given severity. Error text gains an "ERROR: " prefix and
// warning text a "WARNING: " prefix unless it already mentions an error.
func (r *Reporter) Print(severity Severity, text string) {
	text = prefixed(severity, text)
	style, ok := r.styles[severity]
	if !ok {
		style = lipgloss.NewStyle()
	}

	r.mu.Lock()
	r.counts[severity]++
	r.mu.Unlock()

	r.write(style, text)
}

// Count returns how many messages of a severity were printed.
func (r *Reporter) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[severity]
}

func (r *Reporter) write(style lipgloss.Style, text string) {
	if r.color {
		text = style.Render(text)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, text)
}

func prefixed(severity Severity, text string) string {
	mentionsError := strings.Contains(strings.ToLower(text), "error")
	switch severity {
	case SeverityError:
		if !mentionsError {
			return "ERROR: " + text
		}
	case SeverityWarning:
		if !mentionsError {
			return "WARNING: " + text
		}
	}
	return text
}
