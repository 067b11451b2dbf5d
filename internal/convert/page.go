package convert

import (
	"bytes"
	"html/template"
	"os"
)

// Stylesheet is inlined in every converted page.
const Stylesheet = `body { font-family: Arial, sans-serif; line-height: 1.6; margin: 20px auto; max-width: 800px; padding: 0 20px; }
pre, code { background-color: #f4f4f4; border-radius: 3px; padding: 2px 4px; }
pre { overflow-x: auto; padding: 10px; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 4px 8px; }
.source { font-size: 0.9em; text-align: right; }`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{ .Title }}</title>
<style>
{{ .Style }}
</style>
</head>
<body>
{{- if .SourceURL }}
<p class="source"><a href="{{ .SourceURL }}" target="_blank" rel="noopener">View source</a></p>
{{- end }}
{{ .Body }}
</body>
</html>
`))

// Page is a rendered document wrapped in the standard shell.
type Page struct {
	Title     string
	Body      template.HTML
	SourceURL string
	// Style replaces Stylesheet when set.
	Style template.CSS
}

// WriteFile renders p into path, replacing any existing file. The page is
// written to a temporary sibling first so a failure never leaves a partial page.
func (p Page) WriteFile(path string) error {
	if p.Style == "" {
		p.Style = template.CSS(Stylesheet)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
