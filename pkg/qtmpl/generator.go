// Package qtmpl renders LAMMPS input files from text templates and writes
// structures and potentials that are already in LAMMPS format.
package qtmpl

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cast"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qstage"
)

//go:embed default.in.tmpl
var defaultTemplate string

// Generator renders an input file from a template. Templates see the
// fields of qstage.GenerateInput plus AtomStyle, and these functions:
//
//	param "a.b"     value at a dotted parameter path, nil if absent
//	flag "a.b"      the same value as a bool
//	required "a.b"  like param, but absence is a validation error
//	default x v     v, or x when v is nil or empty
type Generator struct {
	tmpl *template.Template
}

type data struct {
	qstage.GenerateInput
	AtomStyle string
}

// placeholders let templates parse before the parameters are known.
var placeholders = template.FuncMap{
	"param":    func(string) any { return nil },
	"flag":     func(string) bool { return false },
	"required": func(string) (any, error) { return nil, nil },
	"default":  defaultValue,
}

// New parses text as an input file template.
func New(name, text string) (*Generator, error) {
	tmpl, err := template.New(name).Funcs(placeholders).Parse(text)
	if err != nil {
		return nil, qerr.Errorf(qerr.CodeConfiguration, "parse template %s: %v", name, err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Load parses the template file at path.
func Load(path string) (*Generator, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, qerr.New(qerr.CodeConfiguration, fmt.Errorf("read template: %w", err))
	}
	return New(path, string(text))
}

// Default returns the built-in molecular dynamics template.
func Default() *Generator {
	g, err := New("default.in", defaultTemplate)
	if err != nil {
		panic(err)
	}
	return g
}

// Generate implements qstage.Generator.
func (g *Generator) Generate(in qstage.GenerateInput) (string, error) {
	lookup := func(key string) (any, bool) {
		return in.Parameters.Lookup(key)
	}

	tmpl, err := g.tmpl.Clone()
	if err != nil {
		return "", err
	}
	tmpl.Funcs(template.FuncMap{
		"param": func(key string) any {
			v, _ := lookup(key)
			return v
		},
		"flag": func(key string) bool {
			v, _ := lookup(key)
			return cast.ToBool(v)
		},
		"required": func(key string) (any, error) {
			v, ok := lookup(key)
			if !ok || v == nil {
				return nil, fmt.Errorf("missing required parameter %q", key)
			}
			return v, nil
		},
	})

	d := data{GenerateInput: in}
	if in.Potential != nil {
		d.AtomStyle = in.Potential.AtomStyle()
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, d); err != nil {
		return "", qerr.New(qerr.CodeValidation, err)
	}
	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

func defaultValue(fallback, v any) any {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}

var _ qstage.Generator = (*Generator)(nil)
