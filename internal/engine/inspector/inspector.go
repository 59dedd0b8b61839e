// Package inspector builds the typed dependency graph from the AST and
// proves resolvability and acyclicity under the scope rules. It never
// mutates the AST.
package inspector

import (
	lerrors "loom/internal/core/errors"
	"loom/internal/engine/parser"
	"loom/internal/model"
)

// Report is the outcome of one inspection.
type Report struct {
	Graph *Graph
	Err   error
}

// OK reports whether the graph passed every invariant.
func (r Report) OK() bool { return r.Err == nil }

// Inspect validates the compilation unit. The first violation aborts the
// inspection; checks run in lexical order so the reported site is
// deterministic.
func Inspect(files []*parser.File) Report {
	for _, file := range files {
		if file == nil {
			return Report{Err: lerrors.InvalidAST{Detail: "nil file expression"}}
		}
	}

	graph := BuildGraph(files)
	report := Report{Graph: graph}

	if err := checkResolvability(graph); err != nil {
		report.Err = err
		return report
	}
	if err := checkAcyclicity(graph); err != nil {
		report.Err = err
		return report
	}
	if err := checkAccess(graph); err != nil {
		report.Err = err
		return report
	}
	if err := checkScopes(graph); err != nil {
		report.Err = err
		return report
	}
	return report
}

// checkResolvability proves that every reference has a resolving
// ancestor: a registration or parameter with the same name and a
// compatible type, or another reference forwarding the obligation.
// Matching is by name first; the type match is then required.
func checkResolvability(g *Graph) error {
	for _, entry := range g.typeEntries() {
		for _, dep := range g.Dependencies(entry.Path) {
			if dep.Kind != model.KindReference {
				continue
			}

			target := g.resolveReference(entry, dep)
			if target == nil || !referenceSatisfied(dep, target) {
				return lerrors.InvalidGraph{
					File:  dep.File,
					Line:  dep.Line,
					Name:  dep.Name,
					Type:  dep.Abstract.String(),
					Cause: lerrors.UnresolvableDependency,
				}
			}
		}
	}
	return nil
}

func referenceSatisfied(ref, target *ResolvedDependency) bool {
	switch target.Kind {
	case model.KindRegistration:
		if target.Abstract.Equal(ref.Abstract) {
			return true
		}
		return target.Concrete != nil && target.Concrete.Type.Equal(ref.Abstract.Type)
	case model.KindParameter, model.KindReference:
		return target.Abstract.Equal(ref.Abstract)
	}
	return false
}

// checkAcyclicity runs SCC detection over the build graph. A component
// larger than one node, or a self-loop, is a cycle; the error is pinned
// to the lexically first node of the offending component.
func checkAcyclicity(g *Graph) error {
	components := tarjanSCC(g.edges)

	offender := -1
	for _, component := range components {
		if len(component) > 1 || hasSelfLoop(g.edges, component[0]) {
			// Node indices are lexical, so the smallest index is the
			// lexically first site.
			if offender == -1 || component[0] < offender {
				offender = component[0]
			}
		}
	}
	if offender == -1 {
		return nil
	}

	reg := g.regs[offender]
	return lerrors.InvalidGraph{
		File:  reg.File,
		Line:  reg.Line,
		Name:  reg.Name,
		Type:  reg.Abstract.String(),
		Cause: lerrors.CyclicDependency,
	}
}

// checkAccess rejects dependencies whose declared access exceeds the
// enclosing type's.
func checkAccess(g *Graph) error {
	for _, entry := range g.typeEntries() {
		for _, dep := range g.Dependencies(entry.Path) {
			depAccess := dep.Access.ResolveAgainst(entry.Access)
			if depAccess == model.AccessPublic && entry.Access != model.AccessPublic {
				return lerrors.InvalidGraph{
					File:  dep.File,
					Line:  dep.Line,
					Name:  dep.Name,
					Type:  dep.Abstract.String(),
					Cause: lerrors.UnresolvableDependency,
				}
			}
		}
	}
	return nil
}

// checkScopes enforces scope monotonicity: a registration whose
// instances outlive a resolve graph may not build against a transient
// sibling registration. Parameters and references are exempt, because a
// reference resolves at the ancestor's own scope.
func checkScopes(g *Graph) error {
	for _, reg := range g.regs {
		if !reg.Scope.SharedAcrossResolves() {
			continue
		}
		entry := g.concreteEntry(reg)
		if entry == nil {
			continue
		}
		for _, dep := range g.Dependencies(entry.Path) {
			if dep.Kind == model.KindRegistration && dep.Scope == model.ScopeTransient {
				return lerrors.InvalidGraph{
					File:  reg.File,
					Line:  reg.Line,
					Name:  reg.Name,
					Type:  reg.Abstract.String(),
					Cause: lerrors.UnresolvableDependency,
				}
			}
		}
	}
	return nil
}
