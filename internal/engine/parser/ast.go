package parser

import (
	"loom/internal/engine/lexer"
	"loom/internal/model"
)

// Expr is an AST node. The tree is owned in one place: children are held
// by value slices, and the inspector derives parent chains during its own
// walk instead of back-pointers.
type Expr interface {
	expr()
}

// File is the AST root of one compilation unit.
type File struct {
	Path    string
	Imports []ImportStatement
	Types   []*TypeDeclaration
}

// ImportStatement is an import lifted from the source.
type ImportStatement struct {
	Path     string
	Testable bool
}

// TypeDeclaration is an injectable type with nested children in document
// order. Children are either *TypeDeclaration or one of the annotation
// leaves.
type TypeDeclaration struct {
	Name            string
	Access          model.AccessLevel
	DoesSupportObjc bool
	Offset          int
	Line            int
	Children        []Expr
	Config          []model.ConfigurationAttribute
}

// Registration declares a concrete type with a build closure.
type Registration struct {
	Name           string
	Access         model.AccessLevel
	Abstract       model.AbstractType
	Concrete       model.ConcreteType
	Parameters     []model.CompositeType
	ParameterCount int
	Offset         int
	Line           int
	Config         []model.ConfigurationAttribute
}

// Reference states that an ancestor must register the type.
type Reference struct {
	Name     string
	Access   model.AccessLevel
	Abstract model.AbstractType
	Offset   int
	Line     int
	Config   []model.ConfigurationAttribute
}

// Parameter is a caller-provided value slot.
type Parameter struct {
	Name   string
	Access model.AccessLevel
	Type   model.AbstractType
	Offset int
	Line   int
	Config []model.ConfigurationAttribute
}

func (*File) expr()            {}
func (*TypeDeclaration) expr() {}
func (*Registration) expr()    {}
func (*Reference) expr()       {}
func (*Parameter) expr()       {}

// Dependencies returns the direct dependency children in document order.
func (t *TypeDeclaration) Dependencies() []Expr {
	var deps []Expr
	for _, child := range t.Children {
		switch child.(type) {
		case *Registration, *Reference, *Parameter:
			deps = append(deps, child)
		}
	}
	return deps
}

// NestedTypes returns the direct nested type declarations in document
// order.
func (t *TypeDeclaration) NestedTypes() []*TypeDeclaration {
	var nested []*TypeDeclaration
	for _, child := range t.Children {
		if typ, ok := child.(*TypeDeclaration); ok {
			nested = append(nested, typ)
		}
	}
	return nested
}

// DependencyName extracts the declared name of a dependency node.
func DependencyName(e Expr) (string, bool) {
	switch dep := e.(type) {
	case *Registration:
		return dep.Name, true
	case *Reference:
		return dep.Name, true
	case *Parameter:
		return dep.Name, true
	}
	return "", false
}

// Scope returns the registration's effective scope: an explicit scope
// attribute, or graph.
func (r *Registration) Scope() model.Scope {
	for _, attr := range r.Config {
		if attr.Name == model.AttrScope && attr.ValueKind == model.AttributeScope {
			return attr.ScopeValue
		}
	}
	return model.ScopeGraph
}

// CustomBuilder returns the custom builder identifier, if configured.
func (r *Registration) CustomBuilder() (string, bool) {
	for _, attr := range r.Config {
		if attr.Name == model.AttrCustomBuilder && attr.ValueKind == model.AttributeString {
			return attr.StringVal, true
		}
	}
	return "", false
}

// IsIsolated reports whether the type opted out of parent resolver
// surfaces.
func (t *TypeDeclaration) IsIsolated() bool {
	for _, attr := range t.Config {
		if attr.Name == model.AttrIsIsolated && attr.ValueKind == model.AttributeBool {
			return attr.BoolValue
		}
	}
	return false
}

// tokenLine is a helper shared by parser states.
func tokenLine(tok lexer.Token) int { return tok.Line }
