package decoder

import (
	"strings"
	"sync"

	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SwiftDecoder decodes Swift sources with the tree-sitter Swift grammar.
type SwiftDecoder struct {
	mu     sync.Mutex
	parser *sitter.Parser
	engine *ExtractorEngine
}

func NewSwiftDecoder() (*SwiftDecoder, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(sitter.NewLanguage(tree_sitter_swift.Language())); err != nil {
		return nil, err
	}

	d := &SwiftDecoder{parser: parser}
	d.engine = NewExtractorEngine(map[string]NodeHandler{
		"class_declaration":    d.extractTypeDeclaration,
		"protocol_declaration": d.extractTypeDeclaration,
		"property_declaration": d.extractProperty,
	})
	return d, nil
}

// Decode parses one file. The parser is stateful, so decoding is
// serialized; the driver holds one decoder and decodes units one at a time.
func (d *SwiftDecoder) Decode(path string, source []byte) ([]Declaration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tree := d.parser.Parse(source, nil)
	if tree == nil {
		return nil, nil
	}
	defer tree.Close()

	var records []Declaration
	ctx := &DecodeContext{Source: source, Records: &records}
	d.engine.Walk(ctx, tree.RootNode())
	return records, nil
}

var typeKeywords = []struct {
	keyword string
	kind    DeclKind
}{
	{"class", DeclClass},
	{"actor", DeclClass},
	{"struct", DeclStruct},
	{"enum", DeclEnum},
	{"extension", DeclExtension},
}

func (d *SwiftDecoder) extractTypeDeclaration(ctx *DecodeContext, node *sitter.Node) bool {
	kind := DeclClass
	for _, entry := range typeKeywords {
		if ctx.ChildOfKind(node, entry.keyword) != nil {
			kind = entry.kind
			break
		}
	}
	// Protocols carry no injectable body of their own.
	if node.Kind() == "protocol_declaration" {
		kind = DeclExtension
	}

	name := ctx.ChildText(node, "type_identifier")
	if name == "" {
		name = ctx.ChildText(node, "user_type")
	}

	record := Declaration{
		Kind:          kind,
		Name:          name,
		Offset:        int(node.StartByte()),
		Length:        int(node.EndByte() - node.StartByte()),
		Accessibility: d.modifierText(ctx, node),
		Attributes:    d.collectAttributes(ctx, node),
	}

	body := ctx.ChildOfKind(node, "class_body")
	if body == nil {
		body = ctx.ChildOfKind(node, "enum_class_body")
	}
	if body == nil {
		body = ctx.ChildOfKind(node, "protocol_body")
	}
	if body != nil {
		record.BodyOffset = int(body.StartByte())
		record.BodyLength = int(body.EndByte() - body.StartByte())
	}

	attached := ctx.Attach(record)

	if body != nil {
		ctx.Stack = append(ctx.Stack, attached)
		for i := uint(0); i < body.ChildCount(); i++ {
			d.engine.Walk(ctx, body.Child(i))
		}
		ctx.Stack = ctx.Stack[:len(ctx.Stack)-1]
	}
	return true
}

func (d *SwiftDecoder) extractProperty(ctx *DecodeContext, node *sitter.Node) bool {
	record := Declaration{
		Kind:          DeclVarInstance,
		Name:          d.propertyName(ctx, node),
		TypeName:      d.propertyType(ctx, node),
		Offset:        int(node.StartByte()),
		Length:        int(node.EndByte() - node.StartByte()),
		Accessibility: d.modifierText(ctx, node),
		Attributes:    d.collectAttributes(ctx, node),
	}
	ctx.Attach(record)
	return true
}

func (d *SwiftDecoder) propertyName(ctx *DecodeContext, node *sitter.Node) string {
	if pattern := ctx.ChildOfKind(node, "pattern"); pattern != nil {
		if id := ctx.ChildText(pattern, "simple_identifier"); id != "" {
			return id
		}
		return ctx.Text(pattern)
	}
	return ctx.ChildText(node, "simple_identifier")
}

func (d *SwiftDecoder) propertyType(ctx *DecodeContext, node *sitter.Node) string {
	annotation := ctx.ChildOfKind(node, "type_annotation")
	if annotation == nil {
		return ""
	}
	text := ctx.Text(annotation)
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), ":"))
}

func (d *SwiftDecoder) modifierText(ctx *DecodeContext, node *sitter.Node) string {
	var parts []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "modifiers" {
			for j := uint(0); j < child.ChildCount(); j++ {
				mod := child.Child(j)
				if mod.Kind() != "attribute" {
					parts = append(parts, ctx.Text(mod))
				}
			}
		}
	}
	return strings.Join(parts, " ")
}

// collectAttributes gathers attribute nodes attached to the declaration,
// both direct children and those nested in the modifiers clause.
func (d *SwiftDecoder) collectAttributes(ctx *DecodeContext, node *sitter.Node) []Attribute {
	var attrs []Attribute
	appendAttr := func(attrNode *sitter.Node) {
		text := ctx.Text(attrNode)
		name := strings.TrimPrefix(text, "@")
		if idx := strings.IndexAny(name, "( \t\n"); idx >= 0 {
			name = name[:idx]
		}
		attrs = append(attrs, Attribute{
			Name:   name,
			Text:   text,
			Offset: int(attrNode.StartByte()),
			Length: int(attrNode.EndByte() - attrNode.StartByte()),
		})
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "attribute":
			appendAttr(child)
		case "modifiers":
			for j := uint(0); j < child.ChildCount(); j++ {
				if mod := child.Child(j); mod.Kind() == "attribute" {
					appendAttr(mod)
				}
			}
		}
	}
	return attrs
}
