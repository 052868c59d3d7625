package schema

import (
	_ "embed"
)

// VisitorProtoName is the file name the embedded schema is registered under.
const VisitorProtoName = "visitor.proto"

// VisitorProto is the source of the visitor token schema.
//
//go:embed visitor.proto
var VisitorProto []byte
