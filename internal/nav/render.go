package nav

import (
	"html"
	"strings"
)

// HomeTarget is the navigation target of the synthetic Home entry.
const HomeTarget = "home.html"

// RenderOptions tune the synthetic Home entry.
type RenderOptions struct {
	HomeLabel  string
	HomeTarget string
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.HomeLabel == "" {
		o.HomeLabel = "Home"
	}
	if o.HomeTarget == "" {
		o.HomeTarget = HomeTarget
	}
	return o
}

// Render produces the navigation markup for root with the default Home entry.
func Render(root *Folder) string {
	return RenderWith(root, RenderOptions{})
}

// RenderWith produces the navigation markup for root. Home is always the first
// item; folders become a labelled group with a nested list, leaves a single anchor.
func RenderWith(root *Folder, opts RenderOptions) string {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString(`<div class="navbar"><ul class="tree">`)
	writeLink(&b, opts.HomeTarget, opts.HomeLabel)
	if root != nil {
		renderChildren(&b, root)
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func renderChildren(b *strings.Builder, f *Folder) {
	for _, key := range f.Keys() {
		switch n := f.children[key].(type) {
		case *Folder:
			b.WriteString(`<li><span class="folder">`)
			b.WriteString(html.EscapeString(key))
			b.WriteString(`</span><ul>`)
			renderChildren(b, n)
			b.WriteString(`</ul></li>`)
		case *Leaf:
			writeLink(b, n.Path, n.Label)
		}
	}
}

func writeLink(b *strings.Builder, target, label string) {
	b.WriteString(`<li><a href="#" data-url="`)
	b.WriteString(html.EscapeString(target))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</a></li>`)
}
