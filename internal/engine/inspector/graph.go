package inspector

import (
	"sort"

	"loom/internal/engine/parser"
	"loom/internal/model"
)

// ResolvedDependency is one node of the dependency graph.
type ResolvedDependency struct {
	Name          string
	Kind          model.DependencyKind
	Scope         model.Scope
	Access        model.AccessLevel
	Abstract      model.AbstractType
	Concrete      *model.ConcreteType
	DeclaringType *parser.TypeDeclaration
	TypePath      string
	File          string
	Offset        int
	Line          int
}

// typeEntry indexes one injectable type declaration.
type typeEntry struct {
	Decl      *parser.TypeDeclaration
	Path      string
	File      string
	Offset    int
	Access    model.AccessLevel // resolved against enclosing declarations
	Ancestors []*typeEntry      // outermost first; walk backwards for nearest
}

// Graph is derived from the AST and holds no independent state: nodes
// live in a vector and edges are index pairs, so cycles in the build
// graph never become ownership cycles here.
type Graph struct {
	entries   []*typeEntry
	byPath    map[string]*typeEntry
	bySimple  map[string]*typeEntry
	deps      map[string][]*ResolvedDependency // type path -> deps in document order
	regs      []*ResolvedDependency            // registration nodes, lexical order
	regIndex  map[depKey]int
	edges     [][]int
}

type depKey struct {
	TypePath string
	Name     string
}

// BuildGraph indexes the files' type declarations and dependencies.
func BuildGraph(files []*parser.File) *Graph {
	g := &Graph{
		byPath:   make(map[string]*typeEntry),
		bySimple: make(map[string]*typeEntry),
		deps:     make(map[string][]*ResolvedDependency),
		regIndex: make(map[depKey]int),
	}

	for _, file := range files {
		for _, typ := range file.Types {
			g.indexType(file.Path, typ, "", nil, model.AccessDefault)
		}
	}

	// Lexical order keeps every later decision deterministic.
	sort.SliceStable(g.regs, func(i, j int) bool {
		if g.regs[i].File != g.regs[j].File {
			return g.regs[i].File < g.regs[j].File
		}
		return g.regs[i].Offset < g.regs[j].Offset
	})
	for i, reg := range g.regs {
		g.regIndex[depKey{TypePath: reg.TypePath, Name: reg.Name}] = i
	}

	g.edges = make([][]int, len(g.regs))
	for i, reg := range g.regs {
		g.edges[i] = g.buildEdges(reg)
	}

	return g
}

func (g *Graph) indexType(file string, typ *parser.TypeDeclaration, parentPath string, ancestors []*typeEntry, enclosingAccess model.AccessLevel) {
	path := typ.Name
	if parentPath != "" {
		path = parentPath + "." + typ.Name
	}

	entry := &typeEntry{
		Decl:   typ,
		Path:   path,
		File:   file,
		Offset: typ.Offset,
		Access: typ.Access.ResolveAgainst(enclosingAccess),
	}
	entry.Ancestors = append([]*typeEntry{}, ancestors...)

	g.entries = append(g.entries, entry)
	g.byPath[path] = entry
	if _, taken := g.bySimple[typ.Name]; !taken {
		g.bySimple[typ.Name] = entry
	}

	for _, child := range typ.Children {
		switch dep := child.(type) {
		case *parser.Registration:
			concrete := dep.Concrete
			resolved := &ResolvedDependency{
				Name:          dep.Name,
				Kind:          model.KindRegistration,
				Scope:         dep.Scope(),
				Access:        dep.Access,
				Abstract:      dep.Abstract,
				Concrete:      &concrete,
				DeclaringType: typ,
				TypePath:      path,
				File:          file,
				Offset:        dep.Offset,
				Line:          dep.Line,
			}
			g.deps[path] = append(g.deps[path], resolved)
			g.regs = append(g.regs, resolved)
		case *parser.Reference:
			g.deps[path] = append(g.deps[path], &ResolvedDependency{
				Name:          dep.Name,
				Kind:          model.KindReference,
				Access:        dep.Access,
				Abstract:      dep.Abstract,
				DeclaringType: typ,
				TypePath:      path,
				File:          file,
				Offset:        dep.Offset,
				Line:          dep.Line,
			})
		case *parser.Parameter:
			g.deps[path] = append(g.deps[path], &ResolvedDependency{
				Name:          dep.Name,
				Kind:          model.KindParameter,
				Access:        dep.Access,
				Abstract:      dep.Type,
				DeclaringType: typ,
				TypePath:      path,
				File:          file,
				Offset:        dep.Offset,
				Line:          dep.Line,
			})
		case *parser.TypeDeclaration:
			g.indexType(file, dep, path, append(ancestors[:len(ancestors):len(ancestors)], entry), entry.Access)
		}
	}
}

// concreteEntry finds the type declaration a registration's concrete type
// names, if the declaration is part of the compilation unit.
func (g *Graph) concreteEntry(reg *ResolvedDependency) *typeEntry {
	if reg.Concrete == nil || reg.Concrete.Type.Kind != model.TypeNamed {
		return nil
	}
	name := reg.Concrete.Type.Name
	if entry, ok := g.byPath[name]; ok {
		return entry
	}
	return g.bySimple[name]
}

// buildEdges computes the registrations a builder depends on: the
// registered type's own dependency set. References contribute the
// ancestor registration they resolve to.
func (g *Graph) buildEdges(reg *ResolvedDependency) []int {
	entry := g.concreteEntry(reg)
	if entry == nil {
		return nil
	}

	var edges []int
	for _, dep := range g.deps[entry.Path] {
		switch dep.Kind {
		case model.KindRegistration:
			if idx, ok := g.regIndex[depKey{TypePath: entry.Path, Name: dep.Name}]; ok {
				edges = append(edges, idx)
			}
		case model.KindReference:
			if target := g.resolveReference(entry, dep); target != nil && target.Kind == model.KindRegistration {
				if idx, ok := g.regIndex[depKey{TypePath: target.TypePath, Name: target.Name}]; ok {
					edges = append(edges, idx)
				}
			}
		}
	}
	return edges
}

// resolveReference walks the parent chain looking for the first
// dependency with the same name. The caller checks type compatibility.
func (g *Graph) resolveReference(from *typeEntry, ref *ResolvedDependency) *ResolvedDependency {
	for i := len(from.Ancestors) - 1; i >= 0; i-- {
		ancestor := from.Ancestors[i]
		for _, dep := range g.deps[ancestor.Path] {
			if dep.Name == ref.Name {
				return dep
			}
		}
	}
	return nil
}

// Dependencies returns a type's direct dependencies in document order.
func (g *Graph) Dependencies(typePath string) []*ResolvedDependency {
	return g.deps[typePath]
}

// Registrations returns all registration nodes in lexical order.
func (g *Graph) Registrations() []*ResolvedDependency {
	return g.regs
}

func (g *Graph) typeEntries() []*typeEntry {
	return g.entries
}
