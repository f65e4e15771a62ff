// Package render implements template rendering for file.copy actions with
// template: true. Grounded on the teacher's own choice in
// internal/plugins/template/template.go: text/template, not a third-party
// templating engine.
package render

import (
	"bytes"
	"text/template"

	"github.com/cloudhex/statum/internal/contexts"
)

// Render parses src as a text/template body and executes it against ctx's
// flattened variable scope, returning the rendered bytes.
func Render(name string, src []byte, ctx contexts.Contexts) ([]byte, error) {
	tmpl, err := template.New(name).Parse(string(src))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Flatten()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
