package format

import (
	"google.golang.org/protobuf/proto"
)

// ProtoDataCodec is a data codec strategy for protobuf payloads: a
// proto.Message data value declared with a protobuf media type is marshaled
// to its binary wire form, which then travels as byte-sequence data.
type ProtoDataCodec struct{}

func (ProtoDataCodec) Matches(data any, contentType string) bool {
	if _, ok := data.(proto.Message); !ok {
		return false
	}
	switch baseMediaType(contentType) {
	case "application/protobuf", "application/x-protobuf":
		return true
	}
	return false
}

func (ProtoDataCodec) Encode(data any, contentType string) ([]byte, error) {
	msg, ok := data.(proto.Message)
	if !ok {
		return nil, &UnsupportedDataTypeError{ContentType: contentType, Data: data}
	}
	return proto.Marshal(msg)
}
