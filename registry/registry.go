package registry

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/anirudhraja/visitortoken/schema"
)

// Registry allows us to store the schema of the protobuf messages. We look this up when we need to describe or check a message.
type Registry struct {
	files    map[string]*schema.ProtoFile
	messages map[string]*schema.Message // fully qualified name -> message
}

func NewRegistry() *Registry {
	return &Registry{
		files:    make(map[string]*schema.ProtoFile),
		messages: make(map[string]*schema.Message),
	}
}

// Default returns a registry holding the embedded visitor token schema.
func Default() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadSource(schema.VisitorProtoName, bytes.NewReader(schema.VisitorProto)); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadSource parses a single .proto source and registers its messages
func (r *Registry) LoadSource(name string, src io.Reader) error {
	if _, exists := r.files[name]; exists {
		return fmt.Errorf("proto file already loaded: %s", name)
	}

	parsed, err := protoparser.Parse(src, protoparser.WithFilename(name))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	protoFile := &schema.ProtoFile{
		Name:     name,
		Syntax:   "proto2", // protoc's default when no syntax statement is present
		Messages: []*schema.Message{},
	}
	if parsed.Syntax != nil {
		protoFile.Syntax = strings.Trim(parsed.Syntax.ProtobufVersion, `"'`)
	}

	for _, body := range parsed.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Package:
			protoFile.Package = b.Name
		case *protoparserparser.Import:
			return fmt.Errorf("%s: imports are not supported: %s", name, b.Location)
		case *protoparserparser.Message:
			msg, err := convertMessage(b)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			protoFile.Messages = append(protoFile.Messages, msg)
		}
	}

	if err := r.register(protoFile); err != nil {
		return err
	}
	r.files[name] = protoFile
	return nil
}

// convertMessage converts a parsed message body into its schema form.
// Field types are left as written; they are resolved once every name in the
// file is known.
func convertMessage(m *protoparserparser.Message) (*schema.Message, error) {
	msg := &schema.Message{Name: m.MessageName}

	for _, body := range m.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Field:
			field, err := convertField(b)
			if err != nil {
				return nil, fmt.Errorf("message %s: %w", m.MessageName, err)
			}
			if existing := msg.FieldByNumber(field.Number); existing != nil {
				return nil, fmt.Errorf("message %s: field number %d used by both %s and %s",
					m.MessageName, field.Number, existing.Name, field.Name)
			}
			msg.Fields = append(msg.Fields, field)
		case *protoparserparser.Message:
			nested, err := convertMessage(b)
			if err != nil {
				return nil, err
			}
			msg.NestedTypes = append(msg.NestedTypes, nested)
		}
	}

	return msg, nil
}

func convertField(f *protoparserparser.Field) (*schema.Field, error) {
	var number int32
	if _, err := fmt.Sscanf(f.FieldNumber, "%d", &number); err != nil {
		return nil, fmt.Errorf("field %s: bad field number %q", f.FieldName, f.FieldNumber)
	}

	field := &schema.Field{
		Name:   f.FieldName,
		Number: number,
		Label:  schema.LabelOptional,
	}
	switch {
	case f.IsRepeated:
		field.Label = schema.LabelRepeated
	case f.IsRequired:
		field.Label = schema.LabelRequired
	}

	if schema.IsPrimitive(f.Type) {
		field.Type = schema.FieldType{Kind: schema.KindPrimitive, PrimitiveType: schema.PrimitiveType(f.Type)}
	} else {
		field.Type = schema.FieldType{Kind: schema.KindMessage, MessageType: f.Type}
	}
	return field, nil
}

// register adds the file's messages to the symbol table and resolves message
// typed fields to fully qualified names.
func (r *Registry) register(protoFile *schema.ProtoFile) error {
	added := make(map[string]*schema.Message)
	for _, msg := range protoFile.Messages {
		if err := r.registerNames(protoFile.Package, msg.Name, msg, added); err != nil {
			return err
		}
	}

	known := make(map[string]struct{}, len(r.messages)+len(added))
	for name := range r.messages {
		known[name] = struct{}{}
	}
	for name := range added {
		known[name] = struct{}{}
	}

	for fullName, msg := range added {
		for _, field := range msg.Fields {
			if field.Type.Kind != schema.KindMessage {
				continue
			}
			resolved, err := getReferencedType(field.Type.MessageType, fullName, known)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", fullName, field.Name, err)
			}
			field.Type.MessageType = resolved
		}
	}

	for name, msg := range added {
		r.messages[name] = msg
	}
	return nil
}

// registerNames registers msg and its nested messages under their fully qualified names
func (r *Registry) registerNames(pkg, name string, msg *schema.Message, added map[string]*schema.Message) error {
	fullName := getFullName(pkg, name)
	if _, exists := r.messages[fullName]; exists {
		return fmt.Errorf("duplicate message: %s", fullName)
	}
	if _, exists := added[fullName]; exists {
		return fmt.Errorf("duplicate message: %s", fullName)
	}
	added[fullName] = msg

	for _, nested := range msg.NestedTypes {
		if err := r.registerNames(pkg, name+"."+nested.Name, nested, added); err != nil {
			return err
		}
	}
	return nil
}

func getFullName(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// GetMessage retrieves a message definition by name
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}

	// Try without package prefix
	for fullName, msg := range r.messages {
		if strings.HasSuffix(fullName, "."+name) {
			return msg, nil
		}
	}

	return nil, fmt.Errorf("message not found: %s", name)
}

// File returns a loaded proto file by the name it was loaded under
func (r *Registry) File(name string) (*schema.ProtoFile, error) {
	if f, exists := r.files[name]; exists {
		return f, nil
	}
	return nil, fmt.Errorf("proto file not loaded: %s", name)
}

// ListMessages returns all registered message names, sorted
func (r *Registry) ListMessages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
