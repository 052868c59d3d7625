package registry

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/anirudhraja/visitortoken/schema"
)

var primitiveDescriptorTypes = map[schema.PrimitiveType]descriptorpb.FieldDescriptorProto_Type{
	schema.TypeDouble:   descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
	schema.TypeFloat:    descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
	schema.TypeInt64:    descriptorpb.FieldDescriptorProto_TYPE_INT64,
	schema.TypeUint64:   descriptorpb.FieldDescriptorProto_TYPE_UINT64,
	schema.TypeInt32:    descriptorpb.FieldDescriptorProto_TYPE_INT32,
	schema.TypeFixed64:  descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
	schema.TypeFixed32:  descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
	schema.TypeBool:     descriptorpb.FieldDescriptorProto_TYPE_BOOL,
	schema.TypeString:   descriptorpb.FieldDescriptorProto_TYPE_STRING,
	schema.TypeBytes:    descriptorpb.FieldDescriptorProto_TYPE_BYTES,
	schema.TypeUint32:   descriptorpb.FieldDescriptorProto_TYPE_UINT32,
	schema.TypeSfixed32: descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
	schema.TypeSfixed64: descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
	schema.TypeSint32:   descriptorpb.FieldDescriptorProto_TYPE_SINT32,
	schema.TypeSint64:   descriptorpb.FieldDescriptorProto_TYPE_SINT64,
}

var labelDescriptors = map[schema.FieldLabel]descriptorpb.FieldDescriptorProto_Label{
	schema.LabelOptional: descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL,
	schema.LabelRequired: descriptorpb.FieldDescriptorProto_LABEL_REQUIRED,
	schema.LabelRepeated: descriptorpb.FieldDescriptorProto_LABEL_REPEATED,
}

// FileDescriptorProto converts a loaded file into its descriptor form
func (r *Registry) FileDescriptorProto(name string) (*descriptorpb.FileDescriptorProto, error) {
	file, err := r.File(name)
	if err != nil {
		return nil, err
	}

	fdp := &descriptorpb.FileDescriptorProto{
		Name:   proto.String(file.Name),
		Syntax: proto.String(file.Syntax),
	}
	if file.Package != "" {
		fdp.Package = proto.String(file.Package)
	}

	for _, msg := range file.Messages {
		dp, err := messageDescriptorProto(msg)
		if err != nil {
			return nil, err
		}
		fdp.MessageType = append(fdp.MessageType, dp)
	}
	return fdp, nil
}

// FileDescriptor builds a validated protoreflect descriptor for a loaded file,
// usable with dynamicpb.
func (r *Registry) FileDescriptor(name string) (protoreflect.FileDescriptor, error) {
	fdp, err := r.FileDescriptorProto(name)
	if err != nil {
		return nil, err
	}
	fd, err := protodesc.NewFile(fdp, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor for %s: %w", name, err)
	}
	return fd, nil
}

func messageDescriptorProto(msg *schema.Message) (*descriptorpb.DescriptorProto, error) {
	dp := &descriptorpb.DescriptorProto{Name: proto.String(msg.Name)}

	for _, field := range msg.Fields {
		fp := &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(field.Name),
			Number: proto.Int32(field.Number),
			Label:  labelDescriptors[field.Label].Enum(),
		}
		switch field.Type.Kind {
		case schema.KindPrimitive:
			t, ok := primitiveDescriptorTypes[field.Type.PrimitiveType]
			if !ok {
				return nil, fmt.Errorf("%s.%s: unknown primitive type %q", msg.Name, field.Name, field.Type.PrimitiveType)
			}
			fp.Type = t.Enum()
		case schema.KindMessage:
			fp.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
			fp.TypeName = proto.String("." + field.Type.MessageType)
		default:
			return nil, fmt.Errorf("%s.%s: unsupported kind %q", msg.Name, field.Name, field.Type.Kind)
		}
		dp.Field = append(dp.Field, fp)
	}

	for _, nested := range msg.NestedTypes {
		ndp, err := messageDescriptorProto(nested)
		if err != nil {
			return nil, err
		}
		dp.NestedType = append(dp.NestedType, ndp)
	}
	return dp, nil
}
