package ui

import (
	"embed"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderDocs converts the embedded markdown documentation into HTML
// for the docs panel
func renderDocs(fsys embed.FS, path string) (template.HTML, error) {
	source, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
	})
	rendered := markdown.ToHTML(source, p, renderer)
	return template.HTML(rendered), nil
}
