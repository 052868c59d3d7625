package wire

// VarintEncoder handles varint encoding operations
type VarintEncoder struct {
	encoder *Encoder
}

// NewVarintEncoder creates a new varint encoder
func NewVarintEncoder(e *Encoder) *VarintEncoder {
	return &VarintEncoder{encoder: e}
}

// EncodeVarint encodes a uint64 as varint, least significant group first.
func (ve *VarintEncoder) EncodeVarint(v uint64) {
	for v >= 0x80 {
		ve.encoder.buf = append(ve.encoder.buf, byte(v)|0x80)
		v >>= 7
	}
	ve.encoder.buf = append(ve.encoder.buf, byte(v))
}

// EncodeInt64 encodes a non-negative int64 as varint. There is no zigzag
// variant, so negative values are rejected.
func (ve *VarintEncoder) EncodeInt64(v int64) error {
	if v < 0 {
		return invalidArgument("varint value %d is negative", v)
	}
	ve.EncodeVarint(uint64(v))
	return nil
}

// EncodeTag encodes a field tag
func (ve *VarintEncoder) EncodeTag(fieldNumber FieldNumber, wireType WireType) error {
	if !fieldNumber.Valid() {
		return invalidArgument("field number %d out of range [1, %d]", fieldNumber, MaxFieldNumber)
	}
	ve.EncodeVarint(uint64(MakeTag(fieldNumber, wireType)))
	return nil
}

// VarintSize returns the number of bytes needed to encode the given varint
func VarintSize(v uint64) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	case v < 1<<28:
		return 4
	case v < 1<<35:
		return 5
	case v < 1<<42:
		return 6
	case v < 1<<49:
		return 7
	case v < 1<<56:
		return 8
	case v < 1<<63:
		return 9
	default:
		return 10
	}
}

// EncodeVarint - convenience method for main encoder
func (e *Encoder) EncodeVarint(v uint64) {
	NewVarintEncoder(e).EncodeVarint(v)
}

// EncodeTag - convenience method for main encoder
func (e *Encoder) EncodeTag(fieldNumber FieldNumber, wireType WireType) error {
	return NewVarintEncoder(e).EncodeTag(fieldNumber, wireType)
}
