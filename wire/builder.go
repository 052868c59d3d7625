package wire

import (
	"encoding/base64"
)

// MessageBuilder accumulates fields into a protobuf wire message. Fields are
// written in the order they are appended; the builder does not check for
// duplicate tags or ordering, it only guarantees each field is encoded
// correctly.
type MessageBuilder struct {
	enc *Encoder
}

// NewMessageBuilder creates an empty message builder
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{enc: NewEncoder()}
}

// AppendVarint writes a varint field. value must be non-negative.
func (b *MessageBuilder) AppendVarint(fieldNumber FieldNumber, value int64) error {
	if value < 0 {
		return invalidArgument("varint value %d is negative", value)
	}
	if err := b.enc.EncodeTag(fieldNumber, WireVarint); err != nil {
		return err
	}
	b.enc.EncodeVarint(uint64(value))
	return nil
}

// AppendString writes a length-delimited string field
func (b *MessageBuilder) AppendString(fieldNumber FieldNumber, value string) error {
	if err := b.enc.EncodeTag(fieldNumber, WireBytes); err != nil {
		return err
	}
	b.enc.EncodeString(value)
	return nil
}

// AppendBytes writes a length-delimited bytes field. It is also how an
// already built sub-message is embedded.
func (b *MessageBuilder) AppendBytes(fieldNumber FieldNumber, value []byte) error {
	if err := b.enc.EncodeTag(fieldNumber, WireBytes); err != nil {
		return err
	}
	b.enc.EncodeBytes(value)
	return nil
}

// Size returns the number of bytes appended so far
func (b *MessageBuilder) Size() int {
	return b.enc.Len()
}

// Bytes returns a copy of the encoded message
func (b *MessageBuilder) Bytes() []byte {
	out := make([]byte, b.enc.Len())
	copy(out, b.enc.Bytes())
	return out
}

// URLSafeBase64 returns the message encoded as unpadded base64url
func (b *MessageBuilder) URLSafeBase64() string {
	return base64.RawURLEncoding.EncodeToString(b.enc.Bytes())
}
