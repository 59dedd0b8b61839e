// Package decoder turns raw Swift source into a flat stream of
// declaration records with byte-accurate offsets. The lexer consumes the
// records and never touches the syntax tree itself, so tests can feed
// records directly.
package decoder

// DeclKind is the structural kind of a declaration record.
type DeclKind string

const (
	DeclClass       DeclKind = "class"
	DeclStruct      DeclKind = "struct"
	DeclEnum        DeclKind = "enum"
	DeclExtension   DeclKind = "extension"
	DeclVarInstance DeclKind = "var.instance"
)

// Attribute is an attribute attached to a declaration, e.g. a property
// wrapper annotation or @objc.
type Attribute struct {
	// Name is the attribute identifier without the leading @.
	Name string
	// Text is the full attribute text including arguments.
	Text string
	// Offset/Length locate Text inside the source.
	Offset int
	Length int
}

// Declaration is one record of the structural decode. Offsets are byte
// offsets into the decoded source.
type Declaration struct {
	Kind          DeclKind
	Name          string
	TypeName      string // declared type of a variable, if annotated
	Offset        int
	Length        int
	BodyOffset    int // 0 when the declaration has no body
	BodyLength    int
	Accessibility string // raw modifier text, e.g. "public final"
	Attributes    []Attribute
	Substructure  []Declaration
}

// HasBody reports whether the declaration carries a braced body.
func (d Declaration) HasBody() bool { return d.BodyLength > 0 }

// Decoder produces declaration records for one source file.
type Decoder interface {
	Decode(path string, source []byte) ([]Declaration, error)
}
