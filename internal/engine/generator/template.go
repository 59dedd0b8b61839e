package generator

import (
	"os"
	"path/filepath"
	"strings"

	lerrors "loom/internal/core/errors"
)

// Context carries template variables. Values are strings for {{name}}
// substitution or []Context for {{#each name}} blocks.
type Context map[string]any

// Template is a parsed flat-text template with {{name}} placeholders and
// {{#each xs}}…{{/each}} blocks. Rendering is pure: identical inputs
// produce identical bytes.
type Template struct {
	segments []segment
}

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentVariable
	segmentEach
)

type segment struct {
	kind    segmentKind
	literal string
	name    string
	inner   *Template
}

const (
	openDelim  = "{{"
	closeDelim = "}}"
	eachPrefix = "{{#each "
	eachClose  = "{{/each}}"
)

// ParseTemplate compiles the template text.
func ParseTemplate(text string) *Template {
	tpl, _ := parseSegments(text, false)
	return tpl
}

// parseSegments consumes text until the end, or until a matching
// {{/each}} when inBlock is set. It returns the remaining text after the
// block close.
func parseSegments(text string, inBlock bool) (*Template, string) {
	tpl := &Template{}

	for len(text) > 0 {
		open := strings.Index(text, openDelim)
		if open < 0 {
			tpl.segments = append(tpl.segments, segment{kind: segmentLiteral, literal: text})
			return tpl, ""
		}
		if open > 0 {
			tpl.segments = append(tpl.segments, segment{kind: segmentLiteral, literal: text[:open]})
			text = text[open:]
		}

		if strings.HasPrefix(text, eachClose) {
			if inBlock {
				return tpl, text[len(eachClose):]
			}
			// A stray close renders as-is.
			tpl.segments = append(tpl.segments, segment{kind: segmentLiteral, literal: eachClose})
			text = text[len(eachClose):]
			continue
		}

		if strings.HasPrefix(text, eachPrefix) {
			end := strings.Index(text, closeDelim)
			if end < 0 {
				tpl.segments = append(tpl.segments, segment{kind: segmentLiteral, literal: text})
				return tpl, ""
			}
			name := strings.TrimSpace(text[len(eachPrefix):end])
			inner, rest := parseSegments(text[end+len(closeDelim):], true)
			tpl.segments = append(tpl.segments, segment{kind: segmentEach, name: name, inner: inner})
			text = rest
			continue
		}

		end := strings.Index(text, closeDelim)
		if end < 0 {
			tpl.segments = append(tpl.segments, segment{kind: segmentLiteral, literal: text})
			return tpl, ""
		}
		name := strings.TrimSpace(text[len(openDelim):end])
		tpl.segments = append(tpl.segments, segment{kind: segmentVariable, name: name})
		text = text[end+len(closeDelim):]
	}

	return tpl, ""
}

// Render substitutes the context into the template. Unknown names render
// empty; iteration order is the order of the context slices, which the
// generator derives from AST document order.
func (t *Template) Render(ctx Context) string {
	var b strings.Builder
	t.renderInto(&b, []Context{ctx})
	return b.String()
}

func (t *Template) renderInto(b *strings.Builder, scopes []Context) {
	for _, seg := range t.segments {
		switch seg.kind {
		case segmentLiteral:
			b.WriteString(seg.literal)
		case segmentVariable:
			if value, ok := lookup(scopes, seg.name); ok {
				if s, isString := value.(string); isString {
					b.WriteString(s)
				}
			}
		case segmentEach:
			value, ok := lookup(scopes, seg.name)
			if !ok {
				continue
			}
			items, isList := value.([]Context)
			if !isList {
				continue
			}
			for _, item := range items {
				seg.inner.renderInto(b, append(scopes, item))
			}
		}
	}
}

// lookup searches the innermost scope first.
func lookup(scopes []Context, name string) (any, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if value, ok := scopes[i][name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Bundle is a set of templates addressed by logical name.
type Bundle struct {
	templates map[string]*Template
}

// LoadBundle reads every .tmpl file in the directory. A missing or
// unreadable path is the generator's only error class.
func LoadBundle(path string) (*Bundle, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, lerrors.InvalidTemplatePath{Path: path}
	}

	bundle := &Bundle{templates: make(map[string]*Template)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		fullPath := filepath.Join(path, entry.Name())
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, lerrors.InvalidTemplatePath{Path: fullPath}
		}
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		bundle.templates[name] = ParseTemplate(string(data))
	}
	return bundle, nil
}

// Template returns the named template.
func (b *Bundle) Template(name string) (*Template, error) {
	tpl, ok := b.templates[name]
	if !ok {
		return nil, lerrors.InvalidTemplatePath{Path: name + ".tmpl"}
	}
	return tpl, nil
}
