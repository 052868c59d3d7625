package visitortoken

import (
	"fmt"
	"time"

	"github.com/anirudhraja/visitortoken/registry"
	"github.com/anirudhraja/visitortoken/schema"
	"github.com/anirudhraja/visitortoken/wire"
)

const (
	// IdentifierAlphabet is the base64url alphabet visitor ids are drawn from.
	IdentifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	// IdentifierLength is the number of symbols in a visitor id.
	IdentifierLength = 11
	// MaxAgeOffset bounds how far issued_at is pushed into the past.
	MaxAgeOffset = 600000 * time.Second
	// Region is the fixed locale region carried by every token.
	Region = "US"
	// MaxNonce is the largest nonce value; nonces are drawn from [1, MaxNonce].
	MaxNonce = 255
)

// Kind selects how a field value is written on the wire.
type Kind int

const (
	KindVarint Kind = iota
	KindString
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindVarint:
		return "varint"
	case KindString:
		return "string"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one (tag, kind, value) entry of a message. Only the value matching
// Kind is used.
type Field struct {
	Name    string
	Number  wire.FieldNumber
	Kind    Kind
	Varint  int64
	Text    string
	Message *Message
}

// Message is an ordered list of fields. Fields are encoded in slice order.
type Message struct {
	Name   string
	Fields []Field
}

// Params holds the random inputs of one token.
type Params struct {
	VisitorID string
	IssuedAt  int64 // unix seconds
	Nonce     int64
}

// DrawParams draws a visitor id, a nonce and a randomized issue time from src.
// issued_at is clamped to zero if the offset would take it before the epoch.
func DrawParams(src Source, now time.Time) (Params, error) {
	id, err := RandomString(src, IdentifierAlphabet, IdentifierLength)
	if err != nil {
		return Params{}, err
	}
	nonce := int64(src.IntN(MaxNonce) + 1)

	issuedAt := now.Unix() - int64(src.IntN(int(MaxAgeOffset/time.Second)))
	if issuedAt < 0 {
		issuedAt = 0
	}

	return Params{
		VisitorID: id,
		IssuedAt:  issuedAt,
		Nonce:     nonce,
	}, nil
}

// Recipe returns the three-level message tree of a visitor token.
func Recipe(p Params) *Message {
	extra := &Message{
		Name: "Extra",
		Fields: []Field{
			{Name: "reserved", Number: 2, Kind: KindString, Text: ""},
			{Name: "nonce", Number: 4, Kind: KindVarint, Varint: p.Nonce},
		},
	}
	locale := &Message{
		Name: "Locale",
		Fields: []Field{
			{Name: "region", Number: 1, Kind: KindString, Text: Region},
			{Name: "extra", Number: 2, Kind: KindMessage, Message: extra},
		},
	}
	return &Message{
		Name: "VisitorData",
		Fields: []Field{
			{Name: "visitor_id", Number: 1, Kind: KindString, Text: p.VisitorID},
			{Name: "issued_at", Number: 5, Kind: KindVarint, Varint: p.IssuedAt},
			{Name: "locale", Number: 6, Kind: KindMessage, Message: locale},
		},
	}
}

// Encode serializes m, building each nested message with its own builder and
// embedding the result as a bytes field.
func (m *Message) Encode() ([]byte, error) {
	b, err := m.build()
	if err != nil {
		return nil, wire.WrapField(err, m.Name)
	}
	return b.Bytes(), nil
}

// EncodeBase64 serializes m as unpadded base64url.
func (m *Message) EncodeBase64() (string, error) {
	b, err := m.build()
	if err != nil {
		return "", wire.WrapField(err, m.Name)
	}
	return b.URLSafeBase64(), nil
}

func (m *Message) build() (*wire.MessageBuilder, error) {
	b := wire.NewMessageBuilder()
	for _, f := range m.Fields {
		var err error
		switch f.Kind {
		case KindVarint:
			err = b.AppendVarint(f.Number, f.Varint)
		case KindString:
			err = b.AppendString(f.Number, f.Text)
		case KindMessage:
			if f.Message == nil {
				err = fmt.Errorf("%w: nil message", ErrInvalidArgument)
				break
			}
			var nested *wire.MessageBuilder
			if nested, err = f.Message.build(); err == nil {
				err = b.AppendBytes(f.Number, nested.Bytes())
			}
		default:
			err = fmt.Errorf("%w: unknown field kind %s", ErrInvalidArgument, f.Kind)
		}
		if err != nil {
			return nil, wire.WrapField(err, f.Name)
		}
	}
	return b, nil
}

// ValidateRecipe checks that m agrees with the message definitions in reg:
// every field exists with the same number and a compatible wire type, and
// nested messages have the expected type.
func ValidateRecipe(m *Message, reg *registry.Registry) error {
	def, err := reg.GetMessage(m.Name)
	if err != nil {
		return err
	}
	return validateMessage(m, def, reg)
}

func validateMessage(m *Message, def *schema.Message, reg *registry.Registry) error {
	for _, f := range m.Fields {
		sf := def.FieldByNumber(int32(f.Number))
		if sf == nil {
			return fmt.Errorf("%s: field %d (%s) not in schema", m.Name, f.Number, f.Name)
		}
		if sf.Name != f.Name {
			return fmt.Errorf("%s: field %d is %s in schema, %s in recipe", m.Name, f.Number, sf.Name, f.Name)
		}

		switch f.Kind {
		case KindVarint:
			if sf.Type.Kind != schema.KindPrimitive || !sf.Type.PrimitiveType.IsVarint() {
				return fmt.Errorf("%s.%s: recipe writes varint, schema type is %s", m.Name, f.Name, describeType(sf.Type))
			}
		case KindString:
			if sf.Type.Kind != schema.KindPrimitive || !sf.Type.PrimitiveType.IsLengthDelimited() {
				return fmt.Errorf("%s.%s: recipe writes string, schema type is %s", m.Name, f.Name, describeType(sf.Type))
			}
		case KindMessage:
			if sf.Type.Kind != schema.KindMessage || f.Message == nil {
				return fmt.Errorf("%s.%s: recipe writes message, schema type is %s", m.Name, f.Name, describeType(sf.Type))
			}
			nested, err := reg.GetMessage(sf.Type.MessageType)
			if err != nil {
				return err
			}
			if nested != lookupMessage(reg, f.Message.Name) {
				return fmt.Errorf("%s.%s: recipe embeds %s, schema expects %s", m.Name, f.Name, f.Message.Name, sf.Type.MessageType)
			}
			if err := validateMessage(f.Message, nested, reg); err != nil {
				return err
			}
		}
	}
	return nil
}

func lookupMessage(reg *registry.Registry, name string) *schema.Message {
	msg, _ := reg.GetMessage(name)
	return msg
}

func describeType(t schema.FieldType) string {
	if t.Kind == schema.KindMessage {
		return t.MessageType
	}
	return string(t.PrimitiveType)
}
