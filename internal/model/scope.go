package model

import "strings"

// Scope governs instance reuse across resolve calls.
type Scope int

const (
	// ScopeGraph is the default: one instance per enclosing resolve graph.
	ScopeGraph Scope = iota
	// ScopeTransient builds a new instance on every resolve.
	ScopeTransient
	// ScopeContainer holds one instance per container.
	ScopeContainer
	// ScopeWeak is container-scoped but released when no strong holder
	// remains.
	ScopeWeak
	// ScopeLazy is container-scoped, built on first resolve.
	ScopeLazy
)

var scopeNames = map[Scope]string{
	ScopeGraph:     "graph",
	ScopeTransient: "transient",
	ScopeContainer: "container",
	ScopeWeak:      "weak",
	ScopeLazy:      "lazy",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "graph"
}

// ParseScope parses a scope literal such as ".graph" or "graph".
func ParseScope(s string) (Scope, bool) {
	name := strings.TrimPrefix(strings.TrimSpace(s), ".")
	for scope, n := range scopeNames {
		if n == name {
			return scope, true
		}
	}
	return ScopeGraph, false
}

// SharedAcrossResolves reports whether instances outlive a single resolve
// graph.
func (s Scope) SharedAcrossResolves() bool {
	switch s {
	case ScopeContainer, ScopeWeak, ScopeLazy:
		return true
	}
	return false
}
