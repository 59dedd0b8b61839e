// Package errors defines the pipeline error taxonomy. Every error is a
// comparable value struct so golden tests can match errors with ==, and
// every user-facing rendering names the failure, the file, and a 1-based
// line. Lines are stored 0-based internally.
package errors

import (
	"errors"
	"fmt"
)

// Kind labels the component an error originates from.
type Kind string

const (
	KindToken     Kind = "TOKEN"
	KindLexer     Kind = "LEXER"
	KindParser    Kind = "PARSER"
	KindInspector Kind = "INSPECTOR"
	KindGenerator Kind = "GENERATOR"
)

// Kinder is implemented by every error in this package.
type Kinder interface {
	error
	Kind() Kind
}

// IsKind reports whether err (or anything it wraps) carries the kind.
func IsKind(err error, kind Kind) bool {
	var k Kinder
	if errors.As(err, &k) {
		return k.Kind() == kind
	}
	return false
}

// --- token errors ---

// InvalidAnnotation is raised for annotation text the lexer cannot parse.
type InvalidAnnotation struct {
	Text string
}

func (e InvalidAnnotation) Error() string {
	return fmt.Sprintf("invalid annotation %q", e.Text)
}

func (e InvalidAnnotation) Kind() Kind { return KindToken }

// InvalidScope is raised for an unknown scope literal.
type InvalidScope struct {
	Text string
}

func (e InvalidScope) Error() string {
	return fmt.Sprintf("invalid scope %q", e.Text)
}

func (e InvalidScope) Kind() Kind { return KindToken }

// --- lexer errors ---

// LexerInvalidAnnotation wraps a token error with its source position.
type LexerInvalidAnnotation struct {
	File  string
	Line  int // 0-based
	Cause error
}

func (e LexerInvalidAnnotation) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line+1, e.Cause)
}

func (e LexerInvalidAnnotation) Kind() Kind    { return KindLexer }
func (e LexerInvalidAnnotation) Unwrap() error { return e.Cause }

// --- parser errors ---

// UnexpectedToken is raised when a token is illegal in the current parser
// state.
type UnexpectedToken struct {
	File string
	Line int // 0-based
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("%s:%d: unexpected token", e.File, e.Line+1)
}

func (e UnexpectedToken) Kind() Kind { return KindParser }

// UnexpectedEOF is raised when the token stream ends inside an open body.
type UnexpectedEOF struct {
	File string
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("%s: unexpected end of file", e.File)
}

func (e UnexpectedEOF) Kind() Kind { return KindParser }

// UnknownDependency is raised when a configuration annotation targets a
// dependency that was never declared in the same type.
type UnknownDependency struct {
	File string
	Line int // 0-based
	Name string
}

func (e UnknownDependency) Error() string {
	return fmt.Sprintf("%s:%d: unknown dependency %q", e.File, e.Line+1, e.Name)
}

func (e UnknownDependency) Kind() Kind { return KindParser }

// DependencyDoubleDeclaration is raised when a type declares two
// dependencies under the same name.
type DependencyDoubleDeclaration struct {
	File string
	Line int // 0-based
	Name string
}

func (e DependencyDoubleDeclaration) Error() string {
	return fmt.Sprintf("%s:%d: dependency %q is declared twice", e.File, e.Line+1, e.Name)
}

func (e DependencyDoubleDeclaration) Kind() Kind { return KindParser }

// --- inspector errors ---

// GraphCause discriminates graph rejections.
type GraphCause string

const (
	CyclicDependency       GraphCause = "cyclic dependency"
	UnresolvableDependency GraphCause = "unresolvable dependency"
)

// InvalidAST is raised when the inspector receives a malformed expression.
type InvalidAST struct {
	File   string
	Detail string
}

func (e InvalidAST) Error() string {
	if e.File == "" {
		return fmt.Sprintf("invalid AST: %s", e.Detail)
	}
	return fmt.Sprintf("%s: invalid AST: %s", e.File, e.Detail)
}

func (e InvalidAST) Kind() Kind { return KindInspector }

// InvalidGraph is raised when the dependency graph violates resolvability
// or acyclicity.
type InvalidGraph struct {
	File  string
	Line  int // 0-based
	Name  string
	Type  string
	Cause GraphCause
}

func (e InvalidGraph) Error() string {
	return fmt.Sprintf("%s:%d: %s: dependency %q of type %q", e.File, e.Line+1, e.Cause, e.Name, e.Type)
}

func (e InvalidGraph) Kind() Kind { return KindInspector }

// --- generator errors ---

// InvalidTemplatePath is raised when a template bundle entry cannot be
// read.
type InvalidTemplatePath struct {
	Path string
}

func (e InvalidTemplatePath) Error() string {
	return fmt.Sprintf("invalid template path %q", e.Path)
}

func (e InvalidTemplatePath) Kind() Kind { return KindGenerator }
