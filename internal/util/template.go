package util

import (
	"bytes"
	"fmt"
	"text/template"
)

// funcs are available to every template rendered here.
var funcs = template.FuncMap{
	// inc turns a zero-based range index into a list number.
	"inc": func(i int) int { return i + 1 },
}

// ParseTemplate compiles a named prompt template with the shared helper funcs.
func ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}
	return tmpl, nil
}

// MustParseTemplate is ParseTemplate for package level templates.
func MustParseTemplate(name, text string) *template.Template {
	tmpl, err := ParseTemplate(name, text)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Execute renders tmpl with data. Output is plain text; nothing is escaped.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
