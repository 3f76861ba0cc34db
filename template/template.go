// Package template loads the pull request body template. A template is a
// plain text file with a single {{.Description}} placeholder where the
// generated description is substituted.
package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholderMarker is substituted during validation to count how many
// times the template references the description.
const placeholderMarker = "\x00mergetrain-description\x00"

// Template is a loaded, validated PR body template.
type Template struct {
	name string
	tmpl *template.Template
}

// Load reads and parses a template file and validates that it references
// {{.Description}} exactly once.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse parses template text. name is used in error messages.
func Parse(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Funcs(funcMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	t := &Template{name: name, tmpl: tmpl}

	probe, err := t.Render(placeholderMarker)
	if err != nil {
		return nil, fmt.Errorf("validate template %s: %w", name, err)
	}
	switch n := strings.Count(probe, placeholderMarker); {
	case n == 0:
		return nil, fmt.Errorf("template %s does not reference .Description", name)
	case n > 1:
		return nil, fmt.Errorf("template %s references .Description %d times, want exactly one", name, n)
	}

	return t, nil
}

// Render substitutes the description into the template.
func (t *Template) Render(description string) (string, error) {
	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, map[string]string{"Description": description})
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", t.name, err)
	}
	return buf.String(), nil
}

// funcMap returns helper functions available to template authors.
func funcMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCaser.String,
		"trim":  strings.TrimSpace,
	}
}
