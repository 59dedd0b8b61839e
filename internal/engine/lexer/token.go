package lexer

import (
	"loom/internal/model"
)

// Token is one element of the lexer output, positioned by byte offset and
// 0-based line.
type Token struct {
	Payload Payload
	Offset  int
	Length  int
	Line    int
}

// Payload discriminates token kinds.
type Payload interface {
	payload()
}

// InjectableType opens a class or struct declaration eligible for wiring.
type InjectableType struct {
	Name            string
	Access          model.AccessLevel
	DoesSupportObjc bool
}

// EndOfInjectableType closes an InjectableType body.
type EndOfInjectableType struct{}

// AnyDeclaration opens an enum or extension the parser tracks only for
// nesting.
type AnyDeclaration struct{}

// EndOfAnyDeclaration closes an AnyDeclaration body.
type EndOfAnyDeclaration struct{}

// RegisterAnnotation declares a concrete type with a build closure.
type RegisterAnnotation struct {
	Name           string
	Access         model.AccessLevel
	Abstract       model.AbstractType
	Concrete       model.ConcreteType
	Parameters     []model.CompositeType
	ParameterCount int
}

// ReferenceAnnotation states that an ancestor must register the type.
type ReferenceAnnotation struct {
	Name     string
	Access   model.AccessLevel
	Abstract model.AbstractType
}

// ParameterAnnotation is a caller-provided value slot.
type ParameterAnnotation struct {
	Name   string
	Access model.AccessLevel
	Type   model.AbstractType
}

// ConfigurationAnnotation attaches an attribute to a dependency or, with
// TargetSelf, to the enclosing type.
type ConfigurationAnnotation struct {
	Target     string
	TargetSelf bool
	Attribute  model.ConfigurationAttribute
}

// ImportDeclaration is lifted verbatim from the raw source.
type ImportDeclaration struct {
	Path     string
	Testable bool
}

func (InjectableType) payload()          {}
func (EndOfInjectableType) payload()     {}
func (AnyDeclaration) payload()          {}
func (EndOfAnyDeclaration) payload()     {}
func (RegisterAnnotation) payload()      {}
func (ReferenceAnnotation) payload()     {}
func (ParameterAnnotation) payload()     {}
func (ConfigurationAnnotation) payload() {}
func (ImportDeclaration) payload()       {}
