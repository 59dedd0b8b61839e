// Package parser folds the lexer's token stream into a typed AST of
// injectable types with their dependencies and configuration.
package parser

import (
	lerrors "loom/internal/core/errors"
	"loom/internal/engine/lexer"
)

type state int

const (
	parsingFile state = iota
	parsingType
	done
)

// Parser is a recursive-descent state machine with a hand-maintained
// cursor over the token stream.
type Parser struct {
	file   string
	tokens []lexer.Token
	cursor int
	state  state
}

func New(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens, state: parsingFile}
}

// Parse consumes the whole stream and returns the file AST. Tokens do not
// outlive this call.
func (p *Parser) Parse() (*File, error) {
	file := &File{Path: p.file}

	for p.state == parsingFile {
		tok, ok := p.peek()
		if !ok {
			p.state = done
			break
		}

		switch payload := tok.Payload.(type) {
		case lexer.ImportDeclaration:
			p.advance()
			file.Imports = append(file.Imports, ImportStatement{Path: payload.Path, Testable: payload.Testable})
		case lexer.InjectableType:
			typ, err := p.parseType(tok, payload)
			if err != nil {
				return nil, err
			}
			file.Types = append(file.Types, typ)
		case lexer.AnyDeclaration:
			nested, err := p.skipAnyDeclaration()
			if err != nil {
				return nil, err
			}
			file.Types = append(file.Types, nested...)
		default:
			return nil, lerrors.UnexpectedToken{File: p.file, Line: tokenLine(tok)}
		}
	}

	return file, nil
}

// parseType consumes an InjectableType token and its body up to the
// matching end token.
func (p *Parser) parseType(open lexer.Token, payload lexer.InjectableType) (*TypeDeclaration, error) {
	p.advance()
	prev := p.state
	p.state = parsingType
	defer func() { p.state = prev }()

	typ := &TypeDeclaration{
		Name:            payload.Name,
		Access:          payload.Access,
		DoesSupportObjc: payload.DoesSupportObjc,
		Offset:          open.Offset,
		Line:            tokenLine(open),
	}

	// The open token's length spans the whole declaration; a declaration
	// without a body never produced an end token.
	hasBody := p.bodyFollows(open)
	if !hasBody {
		return typ, nil
	}

	declaredNames := map[string]bool{}

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, lerrors.UnexpectedEOF{File: p.file}
		}

		switch tokPayload := tok.Payload.(type) {
		case lexer.EndOfInjectableType:
			p.advance()
			return typ, nil

		case lexer.InjectableType:
			nested, err := p.parseType(tok, tokPayload)
			if err != nil {
				return nil, err
			}
			typ.Children = append(typ.Children, nested)

		case lexer.AnyDeclaration:
			nested, err := p.skipAnyDeclaration()
			if err != nil {
				return nil, err
			}
			for _, nestedType := range nested {
				typ.Children = append(typ.Children, nestedType)
			}

		case lexer.RegisterAnnotation:
			p.advance()
			if declaredNames[tokPayload.Name] {
				return nil, lerrors.DependencyDoubleDeclaration{File: p.file, Line: tokenLine(tok), Name: tokPayload.Name}
			}
			declaredNames[tokPayload.Name] = true
			typ.Children = append(typ.Children, &Registration{
				Name:           tokPayload.Name,
				Access:         tokPayload.Access,
				Abstract:       tokPayload.Abstract,
				Concrete:       tokPayload.Concrete,
				Parameters:     tokPayload.Parameters,
				ParameterCount: tokPayload.ParameterCount,
				Offset:         tok.Offset,
				Line:           tokenLine(tok),
			})

		case lexer.ReferenceAnnotation:
			p.advance()
			if declaredNames[tokPayload.Name] {
				return nil, lerrors.DependencyDoubleDeclaration{File: p.file, Line: tokenLine(tok), Name: tokPayload.Name}
			}
			declaredNames[tokPayload.Name] = true
			typ.Children = append(typ.Children, &Reference{
				Name:     tokPayload.Name,
				Access:   tokPayload.Access,
				Abstract: tokPayload.Abstract,
				Offset:   tok.Offset,
				Line:     tokenLine(tok),
			})

		case lexer.ParameterAnnotation:
			p.advance()
			if declaredNames[tokPayload.Name] {
				return nil, lerrors.DependencyDoubleDeclaration{File: p.file, Line: tokenLine(tok), Name: tokPayload.Name}
			}
			declaredNames[tokPayload.Name] = true
			typ.Children = append(typ.Children, &Parameter{
				Name:   tokPayload.Name,
				Access: tokPayload.Access,
				Type:   tokPayload.Type,
				Offset: tok.Offset,
				Line:   tokenLine(tok),
			})

		case lexer.ConfigurationAnnotation:
			p.advance()
			if tokPayload.TargetSelf {
				typ.Config = append(typ.Config, tokPayload.Attribute)
				continue
			}
			if !declaredNames[tokPayload.Target] {
				return nil, lerrors.UnknownDependency{File: p.file, Line: tokenLine(tok), Name: tokPayload.Target}
			}
			if !p.attachConfig(typ, tokPayload) {
				return nil, lerrors.UnknownDependency{File: p.file, Line: tokenLine(tok), Name: tokPayload.Target}
			}

		default:
			return nil, lerrors.UnexpectedToken{File: p.file, Line: tokenLine(tok)}
		}
	}
}

// attachConfig routes a configuration annotation to the dependency it
// names within the same type body.
func (p *Parser) attachConfig(typ *TypeDeclaration, config lexer.ConfigurationAnnotation) bool {
	for _, child := range typ.Children {
		switch dep := child.(type) {
		case *Registration:
			if dep.Name == config.Target {
				dep.Config = append(dep.Config, config.Attribute)
				return true
			}
		case *Reference:
			if dep.Name == config.Target {
				dep.Config = append(dep.Config, config.Attribute)
				return true
			}
		case *Parameter:
			if dep.Name == config.Target {
				dep.Config = append(dep.Config, config.Attribute)
				return true
			}
		}
	}
	return false
}

// skipAnyDeclaration consumes an enum/extension declaration and its
// body. The declaration itself never joins the AST, but injectable types
// nested inside (the enum-as-namespace pattern) are parsed and handed
// back to the enclosing level. Dependency annotations cannot live here:
// enums and extensions carry no stored properties.
func (p *Parser) skipAnyDeclaration() ([]*TypeDeclaration, error) {
	open, _ := p.peek()
	p.advance()

	if !p.bodyFollows(open) {
		return nil, nil
	}

	var types []*TypeDeclaration
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, lerrors.UnexpectedEOF{File: p.file}
		}
		switch payload := tok.Payload.(type) {
		case lexer.EndOfAnyDeclaration:
			p.advance()
			return types, nil
		case lexer.AnyDeclaration:
			nested, err := p.skipAnyDeclaration()
			if err != nil {
				return nil, err
			}
			types = append(types, nested...)
		case lexer.InjectableType:
			typ, err := p.parseType(tok, payload)
			if err != nil {
				return nil, err
			}
			types = append(types, typ)
		default:
			return nil, lerrors.UnexpectedToken{File: p.file, Line: tokenLine(tok)}
		}
	}
}

// bodyFollows reports whether the next tokens sit inside the open
// declaration's byte range, i.e. the declaration has a body.
func (p *Parser) bodyFollows(open lexer.Token) bool {
	tok, ok := p.peek()
	if !ok {
		return false
	}
	return tok.Offset < open.Offset+open.Length
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.cursor >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.cursor], true
}

func (p *Parser) advance() {
	p.cursor++
}
