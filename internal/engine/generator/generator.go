// Package generator walks a validated AST and emits the host-language
// wiring files through the template bundle. Semantic errors are caught
// upstream by the inspector; the only failure here is a bad template
// path.
package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"loom/internal/engine/parser"
	"loom/internal/model"
)

// GeneratedFile is one output unit.
type GeneratedFile struct {
	Path    string
	Content string
}

// Generator emits wiring code for validated ASTs.
type Generator struct {
	bundle *Bundle
}

func New(bundle *Bundle) *Generator {
	return &Generator{bundle: bundle}
}

// Generate produces one output file per input file that declares at
// least one dependency. Output is a pure function of the input AST:
// iteration follows document order everywhere.
func (g *Generator) Generate(files []*parser.File) ([]GeneratedFile, error) {
	fileTemplate, err := g.bundle.Template("file")
	if err != nil {
		return nil, err
	}

	var outputs []GeneratedFile
	for _, file := range files {
		types := flattenTypes(file)
		if !anyDependencies(types) {
			continue
		}

		ctx := Context{
			"sourceFile": filepath.Base(file.Path),
			"imports":    importContexts(file),
			"types":      typeContexts(types),
		}

		base := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		outputs = append(outputs, GeneratedFile{
			Path:    "Loom." + base + ".swift",
			Content: fileTemplate.Render(ctx),
		})
	}
	return outputs, nil
}

// flatType pairs a declaration with its qualified path.
type flatType struct {
	decl *parser.TypeDeclaration
	path string
}

func flattenTypes(file *parser.File) []flatType {
	var flat []flatType
	var walk func(t *parser.TypeDeclaration, parent string)
	walk = func(t *parser.TypeDeclaration, parent string) {
		path := t.Name
		if parent != "" {
			path = parent + "." + t.Name
		}
		flat = append(flat, flatType{decl: t, path: path})
		for _, nested := range t.NestedTypes() {
			walk(nested, path)
		}
	}
	for _, t := range file.Types {
		walk(t, "")
	}
	return flat
}

func anyDependencies(types []flatType) bool {
	for _, t := range types {
		if len(t.decl.Dependencies()) > 0 {
			return true
		}
	}
	return false
}

func importContexts(file *parser.File) []Context {
	seen := map[string]bool{}
	var paths []string
	for _, imp := range file.Imports {
		if !seen[imp.Path] {
			seen[imp.Path] = true
			paths = append(paths, imp.Path)
		}
	}
	sort.Strings(paths)

	contexts := make([]Context, 0, len(paths))
	for _, path := range paths {
		contexts = append(contexts, Context{"path": path})
	}
	return contexts
}

func typeContexts(types []flatType) []Context {
	var contexts []Context
	for _, t := range types {
		deps := t.decl.Dependencies()
		if len(deps) == 0 {
			continue
		}

		access := ""
		if t.decl.Access == model.AccessPublic {
			access = "public "
		}

		contexts = append(contexts, Context{
			"typeName":       t.decl.Name,
			"qualifiedName":  t.path,
			"containerName":  containerName(t.path),
			"accessModifier": access,
			"dependencies":   dependencyContexts(deps),
			"registrations":  registrationContexts(deps),
		})
	}
	return contexts
}

func containerName(path string) string {
	return strings.ReplaceAll(path, ".", "_") + "DependencyContainer"
}

// dependencyContexts builds the resolver surface: one typed getter per
// dependency, in document order.
func dependencyContexts(deps []parser.Expr) []Context {
	var contexts []Context
	for _, dep := range deps {
		switch d := dep.(type) {
		case *parser.Registration:
			contexts = append(contexts, resolverContext(d.Name, d.Abstract.Type, d.Parameters, hasObjcConfig(d.Config)))
		case *parser.Reference:
			contexts = append(contexts, resolverContext(d.Name, d.Abstract.Type, nil, hasObjcConfig(d.Config)))
		}
	}
	return contexts
}

// resolverContext derives the getter's signature from the dependency's
// abstract type and parameter list; the key expression mirrors the
// runtime's instance-key identity.
func resolverContext(name string, abstract model.CompositeType, parameters []model.CompositeType, objc bool) Context {
	returnType := abstract.String()

	attribute := ""
	if objc {
		attribute = "@objc "
	}

	var signature, body string
	if len(parameters) == 0 {
		signature = fmt.Sprintf("%svar %s: %s", attribute, name, returnType)
		body = fmt.Sprintf("return resolve(%s.self, key: %s)", returnType, keyExpression(abstract, parameters))
	} else {
		var args, names []string
		for i, param := range parameters {
			args = append(args, fmt.Sprintf("_ p%d: %s", i+1, param.String()))
			names = append(names, fmt.Sprintf("p%d", i+1))
		}
		signature = fmt.Sprintf("%sfunc %s(%s) -> %s", attribute, name, strings.Join(args, ", "), returnType)
		body = fmt.Sprintf(
			"return resolve(%s.self, key: %s, parameters: [%s])",
			returnType, keyExpression(abstract, parameters), strings.Join(names, ", "),
		)
	}

	return Context{
		"name":              name,
		"returnType":        returnType,
		"resolverSignature": signature,
		"resolverBody":      body,
	}
}

// registrationContexts builds the container-construction entries: every
// registration child with its scope and builder closure.
func registrationContexts(deps []parser.Expr) []Context {
	var contexts []Context
	for _, dep := range deps {
		reg, ok := dep.(*parser.Registration)
		if !ok {
			continue
		}

		scope := reg.Scope()
		concrete := reg.Concrete.String()

		build := fmt.Sprintf("%s(injecting: resolver)", concrete)
		if custom, ok := reg.CustomBuilder(); ok {
			build = fmt.Sprintf("%s.%s(resolver)", concrete, custom)
		}

		// weak and lazy registrations get their cache-state wrapper; the
		// resolver handle inside the closure is non-owning.
		builder := fmt.Sprintf("Builder { resolver in %s }", build)
		switch scope {
		case model.ScopeWeak:
			builder = fmt.Sprintf("Builder.weak { [unowned resolver] in %s }", build)
		case model.ScopeLazy:
			builder = fmt.Sprintf("Builder.lazy { resolver in %s }", build)
		}

		contexts = append(contexts, Context{
			"name":    reg.Name,
			"scope":   scope.String(),
			"key":     keyExpression(reg.Abstract.Type, reg.Parameters),
			"builder": builder,
		})
	}
	return contexts
}

// keyExpression renders the InstanceKey construction for a dependency:
// the abstract type plus the ordered parameter types.
func keyExpression(abstract model.CompositeType, parameters []model.CompositeType) string {
	if len(parameters) == 0 {
		return fmt.Sprintf("InstanceKey(%q)", abstract.String())
	}
	quoted := make([]string, 0, len(parameters))
	for _, param := range parameters {
		quoted = append(quoted, fmt.Sprintf("%q", param.String()))
	}
	return fmt.Sprintf("InstanceKey(%q, parameterTypes: [%s])", abstract.String(), strings.Join(quoted, ", "))
}

func hasObjcConfig(attrs []model.ConfigurationAttribute) bool {
	for _, attr := range attrs {
		if (attr.Name == model.AttrObjc || attr.Name == model.AttrDoesSupportObjc) && attr.ValueKind == model.AttributeBool {
			return attr.BoolValue
		}
	}
	return false
}
