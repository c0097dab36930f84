// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import "fmt"

// ExtensionObjectEncoding is the encoding of the body of an ExtensionObject.
type ExtensionObjectEncoding byte

// ExtensionObjectEncodings
const (
	ExtensionObjectEncodingNone       ExtensionObjectEncoding = 0x00
	ExtensionObjectEncodingByteString ExtensionObjectEncoding = 0x01
	ExtensionObjectEncodingXMLElement ExtensionObjectEncoding = 0x02
)

// ExtensionObject stores a structure that is not one of the built-in types.
// When decoded, Value holds the structure if the registry had a decoder for TypeID.
// Otherwise Body holds the raw bytes exactly as received.
// When encoded, a non-nil Value is written using the encoder registered for its type.
type ExtensionObject struct {
	TypeID   NodeID
	Encoding ExtensionObjectEncoding
	Body     []byte
	Value    interface{}
}

// NewExtensionObject returns an ExtensionObject holding a registered structure.
func NewExtensionObject(value interface{}) *ExtensionObject {
	return &ExtensionObject{Encoding: ExtensionObjectEncodingByteString, Value: value}
}

// NewExtensionObjectBody returns an ExtensionObject holding raw bytes.
func NewExtensionObjectBody(typeID NodeID, encoding ExtensionObjectEncoding, body []byte) *ExtensionObject {
	return &ExtensionObject{TypeID: typeID, Encoding: encoding, Body: body}
}

// NilExtensionObject is the value with no body.
var NilExtensionObject = ExtensionObject{}

// IsDecoded returns true if the body was decoded into a structure.
func (eo *ExtensionObject) IsDecoded() bool {
	return eo != nil && eo.Value != nil
}

func (eo *ExtensionObject) String() string {
	if eo.Value != nil {
		return fmt.Sprintf("%s %+v", eo.TypeID, eo.Value)
	}
	return fmt.Sprintf("%s [%d bytes]", eo.TypeID, len(eo.Body))
}
