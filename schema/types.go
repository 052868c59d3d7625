package schema

// ProtoFile represents a single .proto file
type ProtoFile struct {
	Name     string     `json:"name"`     // visitor.proto
	Package  string     `json:"package"`  // package name
	Syntax   string     `json:"syntax"`   // proto2 or proto3
	Messages []*Message `json:"messages"` // message definitions
}

// Message represents a protobuf message definition
type Message struct {
	Name        string     `json:"name"`         // "VisitorData"
	Fields      []*Field   `json:"fields"`       // message fields
	NestedTypes []*Message `json:"nested_types"` // nested messages
}

// FieldByNumber returns the field with the given number, or nil.
func (m *Message) FieldByNumber(number int32) *Field {
	for _, f := range m.Fields {
		if f.Number == number {
			return f
		}
	}
	return nil
}

// Field represents a message field
type Field struct {
	Name   string     `json:"name"`   // "visitor_id"
	Number int32      `json:"number"` // 1
	Label  FieldLabel `json:"label"`  // optional, required, repeated
	Type   FieldType  `json:"type"`   // field type information
}

// FieldLabel represents field labels
type FieldLabel string

const (
	LabelOptional FieldLabel = "optional"
	LabelRequired FieldLabel = "required"
	LabelRepeated FieldLabel = "repeated"
)

// FieldType represents field type information
type FieldType struct {
	Kind          TypeKind      `json:"kind"`                     // primitive or message
	PrimitiveType PrimitiveType `json:"primitive_type,omitempty"` // for primitive types
	MessageType   string        `json:"message_type,omitempty"`   // for message types: "Locale"
}

// TypeKind represents the kind of field type
type TypeKind string

const (
	KindPrimitive TypeKind = "primitive"
	KindMessage   TypeKind = "message"
)

// PrimitiveType represents protobuf primitive types
type PrimitiveType string

const (
	TypeDouble   PrimitiveType = "double"
	TypeFloat    PrimitiveType = "float"
	TypeInt64    PrimitiveType = "int64"
	TypeUint64   PrimitiveType = "uint64"
	TypeInt32    PrimitiveType = "int32"
	TypeFixed64  PrimitiveType = "fixed64"
	TypeFixed32  PrimitiveType = "fixed32"
	TypeBool     PrimitiveType = "bool"
	TypeString   PrimitiveType = "string"
	TypeBytes    PrimitiveType = "bytes"
	TypeUint32   PrimitiveType = "uint32"
	TypeSfixed32 PrimitiveType = "sfixed32"
	TypeSfixed64 PrimitiveType = "sfixed64"
	TypeSint32   PrimitiveType = "sint32"
	TypeSint64   PrimitiveType = "sint64"
)

var primitiveTypes = map[PrimitiveType]struct{}{
	TypeDouble: {}, TypeFloat: {}, TypeInt64: {}, TypeUint64: {}, TypeInt32: {},
	TypeFixed64: {}, TypeFixed32: {}, TypeBool: {}, TypeString: {}, TypeBytes: {},
	TypeUint32: {}, TypeSfixed32: {}, TypeSfixed64: {}, TypeSint32: {}, TypeSint64: {},
}

// IsPrimitive reports whether name is a protobuf scalar type
func IsPrimitive(name string) bool {
	_, ok := primitiveTypes[PrimitiveType(name)]
	return ok
}

// IsVarint reports whether values of t use the varint wire type without
// zigzag encoding.
func (t PrimitiveType) IsVarint() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeUint32, TypeUint64, TypeBool:
		return true
	}
	return false
}

// IsLengthDelimited reports whether values of t use the bytes wire type
func (t PrimitiveType) IsLengthDelimited() bool {
	return t == TypeString || t == TypeBytes
}
