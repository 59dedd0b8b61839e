// Package lexer turns a declaration-record stream plus raw source into a
// flat annotation token stream ordered by byte offset.
package lexer

import (
	"sort"
	"strings"

	lerrors "loom/internal/core/errors"
	"loom/internal/engine/decoder"
	"loom/internal/model"
)

// Lexer tokenizes one compilation unit.
type Lexer struct {
	file   string
	source []byte
	lines  *LineIndex
}

func New(file string, source []byte) *Lexer {
	return &Lexer{
		file:   file,
		source: source,
		lines:  NewLineIndex(source),
	}
}

// File returns the unit path the lexer was built for.
func (l *Lexer) File() string { return l.file }

// Tokenize folds the declaration records into a token stream. The stream
// is sorted by byte offset; records at equal offsets keep their emission
// order.
func (l *Lexer) Tokenize(declarations []decoder.Declaration) ([]Token, error) {
	var tokens []Token

	tokens = append(tokens, l.importTokens()...)

	for _, decl := range declarations {
		declTokens, err := l.tokenizeDeclaration(decl)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, declTokens...)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].Offset < tokens[j].Offset
	})
	return tokens, nil
}

func (l *Lexer) tokenizeDeclaration(decl decoder.Declaration) ([]Token, error) {
	var tokens []Token

	switch decl.Kind {
	case decoder.DeclClass, decoder.DeclStruct:
		open := Token{
			Payload: InjectableType{
				Name:            decl.Name,
				Access:          model.ParseDeclaredAccessLevel(decl.Accessibility),
				DoesSupportObjc: hasAttribute(decl, "objc"),
			},
			Offset: decl.Offset,
			Length: decl.Length,
			Line:   l.lines.LineAt(decl.Offset),
		}
		tokens = append(tokens, open)

		selfTokens, err := l.typeConfigurationTokens(decl)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, selfTokens...)

		if decl.HasBody() {
			childTokens, err := l.tokenizeChildren(decl)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, childTokens...)
			tokens = append(tokens, l.endToken(decl, EndOfInjectableType{}))
		}

	case decoder.DeclEnum, decoder.DeclExtension:
		tokens = append(tokens, Token{
			Payload: AnyDeclaration{},
			Offset:  decl.Offset,
			Length:  decl.Length,
			Line:    l.lines.LineAt(decl.Offset),
		})
		if decl.HasBody() {
			childTokens, err := l.tokenizeChildren(decl)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, childTokens...)
			tokens = append(tokens, l.endToken(decl, EndOfAnyDeclaration{}))
		}

	case decoder.DeclVarInstance:
		varTokens, err := l.tokenizeVariable(decl)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, varTokens...)
	}

	return tokens, nil
}

func (l *Lexer) tokenizeChildren(decl decoder.Declaration) ([]Token, error) {
	var tokens []Token
	for _, child := range decl.Substructure {
		childTokens, err := l.tokenizeDeclaration(child)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, childTokens...)
	}
	return tokens, nil
}

func (l *Lexer) endToken(decl decoder.Declaration, payload Payload) Token {
	offset := decl.Offset + decl.Length - 1
	return Token{
		Payload: payload,
		Offset:  offset,
		Length:  1,
		Line:    l.lines.LineAt(offset),
	}
}

// typeConfigurationTokens decodes annotation attributes attached to the
// type declaration itself (e.g. isIsolated).
func (l *Lexer) typeConfigurationTokens(decl decoder.Declaration) ([]Token, error) {
	var tokens []Token
	for _, attr := range decl.Attributes {
		parsed, ours, err := parseAnnotation(attr.Text)
		if err != nil {
			return nil, l.annotationError(attr, err)
		}
		if !ours {
			continue
		}
		if parsed.HasKind || parsed.Type != nil {
			return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
		}
		for _, configAttr := range parsed.Attributes {
			if !model.KnownTypeAttribute(configAttr.Name) {
				return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
			}
			tokens = append(tokens, Token{
				Payload: ConfigurationAnnotation{TargetSelf: true, Attribute: configAttr},
				Offset:  attr.Offset,
				Length:  attr.Length,
				Line:    l.lines.LineAt(attr.Offset),
			})
		}
	}
	return tokens, nil
}

func (l *Lexer) tokenizeVariable(decl decoder.Declaration) ([]Token, error) {
	var tokens []Token

	for _, attr := range decl.Attributes {
		parsed, ours, err := parseAnnotation(attr.Text)
		if err != nil {
			return nil, l.annotationError(attr, err)
		}
		if !ours {
			continue
		}
		if !parsed.HasKind {
			return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
		}

		declared, err := l.declaredType(decl, attr)
		if err != nil {
			return nil, err
		}

		payload, err := l.dependencyPayload(decl, attr, parsed, declared)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, Token{
			Payload: payload,
			Offset:  attr.Offset,
			Length:  attr.Length,
			Line:    l.lines.LineAt(attr.Offset),
		})

		for _, configAttr := range parsed.Attributes {
			if !model.KnownDependencyAttribute(configAttr.Name) {
				return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
			}
			tokens = append(tokens, Token{
				Payload: ConfigurationAnnotation{Target: decl.Name, Attribute: configAttr},
				Offset:  attr.Offset,
				Length:  attr.Length,
				Line:    l.lines.LineAt(attr.Offset),
			})
		}

		if hasAttribute(decl, "objc") {
			tokens = append(tokens, Token{
				Payload: ConfigurationAnnotation{Target: decl.Name, Attribute: model.BoolAttribute(model.AttrObjc, true)},
				Offset:  attr.Offset,
				Length:  attr.Length,
				Line:    l.lines.LineAt(attr.Offset),
			})
		}
	}

	return tokens, nil
}

// declaredType parses the property's type annotation. Every annotated
// variable must carry one.
func (l *Lexer) declaredType(decl decoder.Declaration, attr decoder.Attribute) (model.CompositeType, error) {
	if strings.TrimSpace(decl.TypeName) == "" {
		return model.CompositeType{}, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
	}
	declared, err := model.ParseCompositeType(decl.TypeName)
	if err != nil {
		return model.CompositeType{}, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
	}
	return declared, nil
}

func (l *Lexer) dependencyPayload(decl decoder.Declaration, attr decoder.Attribute, parsed parsedAnnotation, declared model.CompositeType) (Payload, error) {
	// A Pn annotation requires the declared type to be a closure with n
	// parameters; the dependency's own type is the closure return.
	abstract := declared
	var parameters []model.CompositeType
	if declared.Kind == model.TypeClosure {
		abstract = *declared.Return
		parameters = declared.Params
	}
	if parsed.ParameterCount > 0 && len(parameters) != parsed.ParameterCount {
		return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
	}

	access := model.ParseDeclaredAccessLevel(decl.Accessibility)

	switch parsed.Kind {
	case model.KindRegistration:
		concrete := abstract
		if parsed.Type != nil {
			concrete = *parsed.Type
		}
		return RegisterAnnotation{
			Name:           decl.Name,
			Access:         access,
			Abstract:       model.AbstractType{Type: abstract},
			Concrete:       model.ConcreteType{Type: concrete},
			Parameters:     parameters,
			ParameterCount: parsed.ParameterCount,
		}, nil
	case model.KindReference:
		if parsed.Type != nil {
			abstract = *parsed.Type
		}
		return ReferenceAnnotation{
			Name:     decl.Name,
			Access:   access,
			Abstract: model.AbstractType{Type: abstract},
		}, nil
	case model.KindParameter:
		if parsed.Type != nil {
			abstract = *parsed.Type
		}
		return ParameterAnnotation{
			Name:   decl.Name,
			Access: access,
			Type:   model.AbstractType{Type: abstract},
		}, nil
	}
	return nil, l.annotationError(attr, lerrors.InvalidAnnotation{Text: attr.Text})
}

func (l *Lexer) annotationError(attr decoder.Attribute, cause error) error {
	return lerrors.LexerInvalidAnnotation{
		File:  l.file,
		Line:  l.lines.LineAt(attr.Offset),
		Cause: cause,
	}
}

// importTokens lifts import declarations straight from the raw text.
func (l *Lexer) importTokens() []Token {
	var tokens []Token
	offset := 0
	for _, line := range strings.SplitAfter(string(l.source), "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		testable := false
		if strings.HasPrefix(trimmed, "@testable ") {
			testable = true
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "@testable "))
		}
		if strings.HasPrefix(trimmed, "import ") {
			path := strings.TrimSpace(strings.TrimPrefix(trimmed, "import "))
			if path != "" {
				tokens = append(tokens, Token{
					Payload: ImportDeclaration{Path: path, Testable: testable},
					Offset:  offset,
					Length:  len(line),
					Line:    l.lines.LineAt(offset),
				})
			}
		}
		offset += len(line)
	}
	return tokens
}

func hasAttribute(decl decoder.Declaration, name string) bool {
	for _, attr := range decl.Attributes {
		if attr.Name == name {
			return true
		}
	}
	return false
}
