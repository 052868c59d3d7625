package wire

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType represents protobuf wire format types
type WireType int32

const (
	WireVarint  WireType = 0 // int32, int64, uint32, uint64, bool, enum
	WireFixed64 WireType = 1 // never produced by the builder
	WireBytes   WireType = 2 // string, bytes, embedded messages
	WireFixed32 WireType = 5 // never produced by the builder
)

// FieldNumber represents a protobuf field number
type FieldNumber int32

// MaxFieldNumber is the largest field number protobuf allows (2^29 - 1).
const MaxFieldNumber FieldNumber = 1<<29 - 1

// Valid reports whether n can be used as a field number.
func (n FieldNumber) Valid() bool {
	return n >= 1 && n <= MaxFieldNumber
}

// Tag represents a protobuf field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

func (t WireType) String() string {
	switch t {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireFixed32:
		return "fixed32"
	default:
		return "unknown"
	}
}
