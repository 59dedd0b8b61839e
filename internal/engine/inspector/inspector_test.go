package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "loom/internal/core/errors"
	"loom/internal/engine/parser"
	"loom/internal/model"
)

func abstract(name string) model.AbstractType {
	return model.AbstractType{Type: model.Named(name)}
}

func registration(name, abstractName, concreteName string, offset int, attrs ...model.ConfigurationAttribute) *parser.Registration {
	return &parser.Registration{
		Name:     name,
		Abstract: abstract(abstractName),
		Concrete: model.ConcreteType{Type: model.Named(concreteName)},
		Offset:   offset,
		Line:     offset / 10,
		Config:   attrs,
	}
}

func reference(name, abstractName string, offset int) *parser.Reference {
	return &parser.Reference{
		Name:     name,
		Abstract: abstract(abstractName),
		Offset:   offset,
		Line:     offset / 10,
	}
}

func fileOf(types ...*parser.TypeDeclaration) *parser.File {
	f := &parser.File{Path: "Unit.swift"}
	f.Types = append(f.Types, types...)
	return f
}

func TestInspect_ResolvesThroughAncestorChain(t *testing.T) {
	// Root registers a session; a doubly nested type references it.
	leaf := &parser.TypeDeclaration{
		Name:   "Leaf",
		Offset: 200,
		Children: []parser.Expr{
			reference("session", "Session", 210),
		},
	}
	mid := &parser.TypeDeclaration{
		Name:     "Mid",
		Offset:   100,
		Children: []parser.Expr{leaf},
	}
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Children: []parser.Expr{
			registration("session", "Session", "Session", 10),
			mid,
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	require.True(t, report.OK(), "unexpected error: %v", report.Err)
}

func TestInspect_ForwardedReference(t *testing.T) {
	leaf := &parser.TypeDeclaration{
		Name:     "Leaf",
		Offset:   200,
		Children: []parser.Expr{reference("logger", "Logger", 210)},
	}
	mid := &parser.TypeDeclaration{
		Name:   "Mid",
		Offset: 100,
		Children: []parser.Expr{
			reference("logger", "Logger", 110),
			leaf,
		},
	}
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Children: []parser.Expr{
			registration("logger", "Logger", "ConsoleLogger", 10),
			mid,
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	require.True(t, report.OK(), "unexpected error: %v", report.Err)
}

func TestInspect_UnresolvableReference(t *testing.T) {
	leaf := &parser.TypeDeclaration{
		Name:     "Leaf",
		Offset:   0,
		Children: []parser.Expr{reference("logger", "Logger", 10)},
	}

	report := Inspect([]*parser.File{fileOf(leaf)})
	require.False(t, report.OK())
	assert.Equal(t, error(lerrors.InvalidGraph{
		File:  "Unit.swift",
		Line:  1,
		Name:  "logger",
		Type:  "Logger",
		Cause: lerrors.UnresolvableDependency,
	}), report.Err)
}

func TestInspect_NameMatchesButTypeDoesNot(t *testing.T) {
	leaf := &parser.TypeDeclaration{
		Name:     "Leaf",
		Offset:   100,
		Children: []parser.Expr{reference("logger", "Logger", 110)},
	}
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Children: []parser.Expr{
			registration("logger", "Metrics", "MetricsImpl", 10),
			leaf,
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	require.False(t, report.OK())
	var graphErr lerrors.InvalidGraph
	require.ErrorAs(t, report.Err, &graphErr)
	assert.Equal(t, lerrors.UnresolvableDependency, graphErr.Cause)
}

func TestInspect_CycleDetection(t *testing.T) {
	// A registers b: B, B registers a: A.
	typeA := &parser.TypeDeclaration{
		Name:     "A",
		Offset:   0,
		Children: []parser.Expr{registration("b", "B", "B", 10)},
	}
	typeB := &parser.TypeDeclaration{
		Name:     "B",
		Offset:   100,
		Children: []parser.Expr{registration("a", "A", "A", 110)},
	}

	report := Inspect([]*parser.File{fileOf(typeA, typeB)})
	require.False(t, report.OK())

	// The error pins the lexically first registration of the component.
	assert.Equal(t, error(lerrors.InvalidGraph{
		File:  "Unit.swift",
		Line:  1,
		Name:  "b",
		Type:  "B",
		Cause: lerrors.CyclicDependency,
	}), report.Err)
}

func TestInspect_SelfLoop(t *testing.T) {
	typeA := &parser.TypeDeclaration{
		Name:     "A",
		Offset:   0,
		Children: []parser.Expr{registration("a", "A", "A", 10)},
	}

	report := Inspect([]*parser.File{fileOf(typeA)})
	require.False(t, report.OK())
	var graphErr lerrors.InvalidGraph
	require.ErrorAs(t, report.Err, &graphErr)
	assert.Equal(t, lerrors.CyclicDependency, graphErr.Cause)
}

func TestInspect_AcyclicChainPasses(t *testing.T) {
	typeA := &parser.TypeDeclaration{
		Name:     "A",
		Offset:   0,
		Children: []parser.Expr{registration("b", "B", "B", 10)},
	}
	typeB := &parser.TypeDeclaration{
		Name:     "B",
		Offset:   100,
		Children: []parser.Expr{registration("c", "C", "C", 110)},
	}
	typeC := &parser.TypeDeclaration{Name: "C", Offset: 200}

	report := Inspect([]*parser.File{fileOf(typeA, typeB, typeC)})
	assert.True(t, report.OK(), "unexpected error: %v", report.Err)
}

func TestInspect_AccessViolation(t *testing.T) {
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Access: model.AccessInternal,
		Children: []parser.Expr{
			&parser.Registration{
				Name:     "service",
				Access:   model.AccessPublic,
				Abstract: abstract("Service"),
				Concrete: model.ConcreteType{Type: model.Named("Service")},
				Offset:   10,
				Line:     1,
			},
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	require.False(t, report.OK())
	var graphErr lerrors.InvalidGraph
	require.ErrorAs(t, report.Err, &graphErr)
	assert.Equal(t, lerrors.UnresolvableDependency, graphErr.Cause)
	assert.Equal(t, "service", graphErr.Name)
}

func TestInspect_ScopeMonotonicity(t *testing.T) {
	// Cache is container scoped; its type builds against a transient
	// sibling registration.
	cacheType := &parser.TypeDeclaration{
		Name:   "Cache",
		Offset: 100,
		Children: []parser.Expr{
			registration("clock", "Clock", "SystemClock", 110, model.ScopeAttribute(model.ScopeTransient)),
		},
	}
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Children: []parser.Expr{
			registration("cache", "Cache", "Cache", 10, model.ScopeAttribute(model.ScopeContainer)),
			cacheType,
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	require.False(t, report.OK())
	var graphErr lerrors.InvalidGraph
	require.ErrorAs(t, report.Err, &graphErr)
	assert.Equal(t, "cache", graphErr.Name)
	assert.Equal(t, lerrors.UnresolvableDependency, graphErr.Cause)
}

func TestInspect_GraphScopedSiblingsPass(t *testing.T) {
	cacheType := &parser.TypeDeclaration{
		Name:   "Cache",
		Offset: 100,
		Children: []parser.Expr{
			registration("clock", "Clock", "SystemClock", 110),
		},
	}
	root := &parser.TypeDeclaration{
		Name:   "Root",
		Offset: 0,
		Children: []parser.Expr{
			registration("cache", "Cache", "Cache", 10, model.ScopeAttribute(model.ScopeContainer)),
			cacheType,
		},
	}

	report := Inspect([]*parser.File{fileOf(root)})
	assert.True(t, report.OK(), "unexpected error: %v", report.Err)
}
