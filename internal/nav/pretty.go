package nav

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Pretty re-indents markup one element per line, nesting by indent. Text is kept
// on the line of its enclosing inline element so labels stay readable.
func Pretty(markup, indent string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	depth := 0
	line := func(s string) {
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteString(s)
		b.WriteString("\n")
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		case html.StartTagToken:
			tok := z.Token()
			if isInline(tok.Data) {
				line(inlineElement(z, tok))
				continue
			}
			line(tok.String())
			depth++
		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
			line(z.Token().String())
		case html.SelfClosingTagToken:
			line(z.Token().String())
		case html.TextToken:
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				line(html.EscapeString(text))
			}
		case html.CommentToken, html.DoctypeToken:
			line(z.Token().String())
		}
	}
}

func isInline(tag string) bool {
	return tag == "a" || tag == "span"
}

// inlineElement renders an inline element and everything up to its end tag on one line.
func inlineElement(z *html.Tokenizer, start html.Token) string {
	var b strings.Builder
	b.WriteString(start.String())
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.StartTagToken:
			if tok.Data == start.Data {
				depth++
			}
		case html.EndTagToken:
			if tok.Data == start.Data {
				depth--
			}
		}
		b.WriteString(tok.String())
	}
	return b.String()
}
