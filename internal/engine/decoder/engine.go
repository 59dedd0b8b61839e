package decoder

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node for the Swift extractor.
// Returns true if the handler has processed children and the walker should stop.
type NodeHandler func(ctx *DecodeContext, node *sitter.Node) bool

// DecodeContext carries shared state/helpers used by the extractor.
type DecodeContext struct {
	Source            []byte
	Records           *[]Declaration
	Stack             []*Declaration // open enclosing declarations
	ProcessedChildren bool           // If true, the walker will skip this node's children
}

func (c *DecodeContext) ResetProcessedChildren() {
	c.ProcessedChildren = false
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *DecodeContext, node *sitter.Node) {
	if node == nil {
		return
	}

	ctx.ResetProcessedChildren()
	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}

	if !stop && !ctx.ProcessedChildren {
		for i := uint(0); i < node.ChildCount(); i++ {
			e.Walk(ctx, node.Child(i))
		}
	}
}

func (c *DecodeContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

func (c *DecodeContext) ChildText(node *sitter.Node, kind string) string {
	if node == nil {
		return ""
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return c.Text(child)
		}
	}
	return ""
}

func (c *DecodeContext) ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// Attach appends the record under the innermost open declaration, or to
// the top-level record list when the stack is empty.
func (c *DecodeContext) Attach(record Declaration) *Declaration {
	if len(c.Stack) > 0 {
		parent := c.Stack[len(c.Stack)-1]
		parent.Substructure = append(parent.Substructure, record)
		return &parent.Substructure[len(parent.Substructure)-1]
	}
	*c.Records = append(*c.Records, record)
	return &(*c.Records)[len(*c.Records)-1]
}
