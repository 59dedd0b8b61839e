package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "loom/internal/core/errors"
	"loom/internal/engine/lexer"
	"loom/internal/model"
)

func named(name string) model.AbstractType {
	return model.AbstractType{Type: model.Named(name)}
}

func concrete(name string) model.ConcreteType {
	return model.ConcreteType{Type: model.Named(name)}
}

// tok builds a token at a line-scaled offset so ordering mimics a real
// stream.
func tok(payload lexer.Payload, offset, length, line int) lexer.Token {
	return lexer.Token{Payload: payload, Offset: offset, Length: length, Line: line}
}

func TestParse_NestedTypes(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.ImportDeclaration{Path: "Foundation"}, 0, 17, 0),
		tok(lexer.InjectableType{Name: "AppDelegate", Access: model.AccessPublic}, 20, 300, 2),
		tok(lexer.RegisterAnnotation{Name: "urlSession", Abstract: named("URLSession"), Concrete: concrete("URLSession")}, 40, 30, 3),
		tok(lexer.ConfigurationAnnotation{Target: "urlSession", Attribute: model.ScopeAttribute(model.ScopeContainer)}, 40, 30, 3),
		tok(lexer.InjectableType{Name: "HomeViewController"}, 100, 150, 6),
		tok(lexer.ReferenceAnnotation{Name: "urlSession", Abstract: named("URLSession")}, 120, 20, 7),
		tok(lexer.EndOfInjectableType{}, 249, 1, 12),
		tok(lexer.EndOfInjectableType{}, 319, 1, 14),
	}

	file, err := New("App.swift", tokens).Parse()
	require.NoError(t, err)

	require.Len(t, file.Imports, 1)
	require.Len(t, file.Types, 1)

	app := file.Types[0]
	assert.Equal(t, "AppDelegate", app.Name)
	assert.Equal(t, model.AccessPublic, app.Access)
	require.Len(t, app.Children, 2)

	reg, ok := app.Children[0].(*Registration)
	require.True(t, ok)
	assert.Equal(t, "urlSession", reg.Name)
	assert.Equal(t, model.ScopeContainer, reg.Scope())

	nested, ok := app.Children[1].(*TypeDeclaration)
	require.True(t, ok)
	assert.Equal(t, "HomeViewController", nested.Name)
	require.Len(t, nested.Children, 1)
	ref, ok := nested.Children[0].(*Reference)
	require.True(t, ok)
	assert.Equal(t, "urlSession", ref.Name)
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.InjectableType{Name: "A"}, 0, 200, 0),
		tok(lexer.ReferenceAnnotation{Name: "first", Abstract: named("First")}, 10, 10, 1),
		tok(lexer.InjectableType{Name: "Mid"}, 30, 40, 3),
		tok(lexer.EndOfInjectableType{}, 69, 1, 5),
		tok(lexer.ReferenceAnnotation{Name: "second", Abstract: named("Second")}, 80, 10, 7),
		tok(lexer.EndOfInjectableType{}, 199, 1, 9),
	}

	file, err := New("A.swift", tokens).Parse()
	require.NoError(t, err)

	children := file.Types[0].Children
	require.Len(t, children, 3)
	_, isRef := children[0].(*Reference)
	_, isType := children[1].(*TypeDeclaration)
	_, isRef2 := children[2].(*Reference)
	assert.True(t, isRef)
	assert.True(t, isType)
	assert.True(t, isRef2)
}

func TestParse_DoubleDeclaration(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.InjectableType{Name: "A"}, 0, 100, 0),
		tok(lexer.RegisterAnnotation{Name: "repo", Abstract: named("Repo"), Concrete: concrete("RepoImpl")}, 10, 10, 1),
		tok(lexer.ReferenceAnnotation{Name: "repo", Abstract: named("Repo")}, 30, 10, 3),
		tok(lexer.EndOfInjectableType{}, 99, 1, 5),
	}

	_, err := New("A.swift", tokens).Parse()
	require.Error(t, err)
	assert.Equal(t, error(lerrors.DependencyDoubleDeclaration{File: "A.swift", Line: 3, Name: "repo"}), err)
}

func TestParse_UnknownConfigurationTarget(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.InjectableType{Name: "A"}, 0, 100, 0),
		tok(lexer.ConfigurationAnnotation{Target: "ghost", Attribute: model.BoolAttribute(model.AttrSetter, true)}, 10, 10, 1),
		tok(lexer.EndOfInjectableType{}, 99, 1, 5),
	}

	_, err := New("A.swift", tokens).Parse()
	require.Error(t, err)
	assert.Equal(t, error(lerrors.UnknownDependency{File: "A.swift", Line: 1, Name: "ghost"}), err)
}

func TestParse_UnexpectedEOF(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.InjectableType{Name: "A"}, 0, 100, 0),
		tok(lexer.ReferenceAnnotation{Name: "x", Abstract: named("X")}, 10, 10, 1),
	}

	_, err := New("A.swift", tokens).Parse()
	require.Error(t, err)
	assert.Equal(t, error(lerrors.UnexpectedEOF{File: "A.swift"}), err)
}

func TestParse_UnexpectedTokenAtTopLevel(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.ReferenceAnnotation{Name: "stray", Abstract: named("X")}, 0, 10, 0),
	}

	_, err := New("A.swift", tokens).Parse()
	require.Error(t, err)
	assert.Equal(t, error(lerrors.UnexpectedToken{File: "A.swift", Line: 0}), err)
}

func TestParse_SelfConfiguration(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.InjectableType{Name: "A"}, 0, 100, 0),
		tok(lexer.ConfigurationAnnotation{TargetSelf: true, Attribute: model.BoolAttribute(model.AttrIsIsolated, true)}, 5, 20, 0),
		tok(lexer.EndOfInjectableType{}, 99, 1, 5),
	}

	file, err := New("A.swift", tokens).Parse()
	require.NoError(t, err)
	assert.True(t, file.Types[0].IsIsolated())
}

func TestParse_TypeInsideEnumNamespace(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.AnyDeclaration{}, 0, 100, 0),
		tok(lexer.InjectableType{Name: "Inner"}, 10, 50, 1),
		tok(lexer.ReferenceAnnotation{Name: "dep", Abstract: named("Dep")}, 20, 10, 2),
		tok(lexer.EndOfInjectableType{}, 59, 1, 4),
		tok(lexer.EndOfAnyDeclaration{}, 99, 1, 6),
	}

	file, err := New("A.swift", tokens).Parse()
	require.NoError(t, err)
	require.Len(t, file.Types, 1)
	assert.Equal(t, "Inner", file.Types[0].Name)
	require.Len(t, file.Types[0].Children, 1)
}

func TestParse_SkipsPlainDeclarations(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.AnyDeclaration{}, 0, 50, 0),
		tok(lexer.EndOfAnyDeclaration{}, 49, 1, 3),
		tok(lexer.InjectableType{Name: "A"}, 60, 40, 5),
		tok(lexer.EndOfInjectableType{}, 99, 1, 7),
	}

	file, err := New("A.swift", tokens).Parse()
	require.NoError(t, err)
	require.Len(t, file.Types, 1)
	assert.Empty(t, file.Types[0].Children)
}
