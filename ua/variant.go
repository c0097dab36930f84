// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// XMLElement is stored as string
type XMLElement string

// ByteString is stored as a string.
type ByteString string

// String returns ByteString as a base64-encoded string.
func (b ByteString) String() string {
	return base64.StdEncoding.EncodeToString([]byte(b))
}

// VariantType is the built-in type of the value stored in the Variant.
type VariantType byte

// VariantTypes
const (
	VariantTypeNull VariantType = iota
	VariantTypeBoolean
	VariantTypeSByte
	VariantTypeByte
	VariantTypeInt16
	VariantTypeUInt16
	VariantTypeInt32
	VariantTypeUInt32
	VariantTypeInt64
	VariantTypeUInt64
	VariantTypeFloat
	VariantTypeDouble
	VariantTypeString
	VariantTypeDateTime
	VariantTypeGUID
	VariantTypeByteString
	VariantTypeXMLElement
	VariantTypeNodeID
	VariantTypeExpandedNodeID
	VariantTypeStatusCode
	VariantTypeQualifiedName
	VariantTypeLocalizedText
	VariantTypeExtensionObject
	VariantTypeDataValue
	VariantTypeVariant
	VariantTypeDiagnosticInfo
)

var variantTypeNames = [...]string{
	"Null", "Boolean", "SByte", "Byte", "Int16", "UInt16", "Int32", "UInt32", "Int64", "UInt64",
	"Float", "Double", "String", "DateTime", "Guid", "ByteString", "XmlElement", "NodeId",
	"ExpandedNodeId", "StatusCode", "QualifiedName", "LocalizedText", "ExtensionObject",
	"DataValue", "Variant", "DiagnosticInfo",
}

// IsValid returns true if the type is one of the 26 built-in types.
func (t VariantType) IsValid() bool {
	return t <= VariantTypeDiagnosticInfo
}

func (t VariantType) String() string {
	if t.IsValid() {
		return variantTypeNames[t]
	}
	return fmt.Sprintf("VariantType(%d)", byte(t))
}

// Variant wraps a value of one of the built-in types. Arrays are stored as slices.
// Multi-dimensional arrays are stored flattened and described by ArrayDimensions.
type Variant struct {
	value           interface{}
	variantType     VariantType
	isArray         bool
	arrayDimensions []int32
}

// NilVariant is the nil value.
var NilVariant = Variant{}

// NewVariant returns a new Variant. The built-in type is inferred from the Go type of the value.
// A nil value returns a Variant of type Null.
func NewVariant(value interface{}) (*Variant, error) {
	if value == nil {
		return &Variant{}, nil
	}
	typ, isArray, ok := inferVariantType(value)
	if !ok {
		return nil, BadTypeMismatch
	}
	return &Variant{value: value, variantType: typ, isArray: isArray}, nil
}

// MustNewVariant is like NewVariant but panics if the type of value is not a built-in type.
func MustNewVariant(value interface{}) *Variant {
	v, err := NewVariant(value)
	if err != nil {
		panic(fmt.Sprintf("ua: unsupported variant value of type %T", value))
	}
	return v
}

// NewVariantWithDimensions returns a new multi-dimensional Variant. The value is the flattened
// array, and the product of the dimensions must equal its length.
func NewVariantWithDimensions(value interface{}, dimensions []int32) (*Variant, error) {
	v, err := NewVariant(value)
	if err != nil {
		return nil, err
	}
	if !v.isArray {
		return nil, BadInvalidArgument
	}
	if err := validateDimensions(dimensions, reflect.ValueOf(value).Len()); err != nil {
		return nil, err
	}
	v.arrayDimensions = dimensions
	return v, nil
}

// NewVariantObject returns a new Variant holding a structure, encoded as an ExtensionObject
// using the registry of the encoder.
func NewVariantObject(value interface{}) *Variant {
	if eo, ok := value.(*ExtensionObject); ok {
		return &Variant{value: eo, variantType: VariantTypeExtensionObject}
	}
	return &Variant{value: NewExtensionObject(value), variantType: VariantTypeExtensionObject}
}

// Value returns the value.
func (v *Variant) Value() interface{} {
	return v.value
}

// Type returns the VariantType enumeration.
func (v *Variant) Type() VariantType {
	return v.variantType
}

// IsArray returns true if the value is an array.
func (v *Variant) IsArray() bool {
	return v.isArray
}

// ArrayDimensions returns the array dimensions, or nil if the array is one-dimensional.
func (v *Variant) ArrayDimensions() []int32 {
	return v.arrayDimensions
}

// IsNil checks if Variant is nil
func (v *Variant) IsNil() bool {
	return v == nil || v.variantType == VariantTypeNull
}

// Equal checks if the values are equal
func (v *Variant) Equal(b *Variant) bool {
	if v.IsNil() || b.IsNil() {
		return v.IsNil() == b.IsNil()
	}
	if v.variantType != b.variantType || v.isArray != b.isArray {
		return false
	}
	if len(v.arrayDimensions) != len(b.arrayDimensions) {
		return false
	}
	for i := range v.arrayDimensions {
		if v.arrayDimensions[i] != b.arrayDimensions[i] {
			return false
		}
	}
	return reflect.DeepEqual(v.value, b.value)
}

// String returns a string representation of the value.
func (v *Variant) String() string {
	if v.IsNil() {
		return "Null"
	}
	if v.arrayDimensions != nil {
		return fmt.Sprintf("%s%v %v", v.variantType, v.arrayDimensions, v.value)
	}
	return fmt.Sprintf("%s(%v)", v.variantType, v.value)
}

func validateDimensions(dimensions []int32, length int) error {
	if len(dimensions) == 0 {
		return BadInvalidArgument
	}
	zero := false
	for _, d := range dimensions {
		if d < 0 {
			return BadInvalidArgument
		}
		if d == 0 {
			zero = true
		}
	}
	if zero {
		if length != 0 {
			return BadInvalidArgument
		}
		return nil
	}
	n := int64(1)
	for _, d := range dimensions {
		n *= int64(d)
		if n > int64(length) {
			return BadInvalidArgument
		}
	}
	if n != int64(length) {
		return BadInvalidArgument
	}
	return nil
}

func inferVariantType(value interface{}) (VariantType, bool, bool) {
	switch value.(type) {
	case bool:
		return VariantTypeBoolean, false, true
	case int8:
		return VariantTypeSByte, false, true
	case byte:
		return VariantTypeByte, false, true
	case int16:
		return VariantTypeInt16, false, true
	case uint16:
		return VariantTypeUInt16, false, true
	case int32:
		return VariantTypeInt32, false, true
	case uint32:
		return VariantTypeUInt32, false, true
	case int64:
		return VariantTypeInt64, false, true
	case uint64:
		return VariantTypeUInt64, false, true
	case float32:
		return VariantTypeFloat, false, true
	case float64:
		return VariantTypeDouble, false, true
	case string:
		return VariantTypeString, false, true
	case time.Time:
		return VariantTypeDateTime, false, true
	case uuid.UUID:
		return VariantTypeGUID, false, true
	case ByteString:
		return VariantTypeByteString, false, true
	case XMLElement:
		return VariantTypeXMLElement, false, true
	case NodeID:
		return VariantTypeNodeID, false, true
	case ExpandedNodeID:
		return VariantTypeExpandedNodeID, false, true
	case StatusCode:
		return VariantTypeStatusCode, false, true
	case QualifiedName:
		return VariantTypeQualifiedName, false, true
	case LocalizedText:
		return VariantTypeLocalizedText, false, true
	case *ExtensionObject:
		return VariantTypeExtensionObject, false, true
	case *DataValue:
		return VariantTypeDataValue, false, true
	case *Variant:
		return VariantTypeVariant, false, true
	case *DiagnosticInfo:
		return VariantTypeDiagnosticInfo, false, true
	case []bool:
		return VariantTypeBoolean, true, true
	case []int8:
		return VariantTypeSByte, true, true
	case []byte:
		return VariantTypeByte, true, true
	case []int16:
		return VariantTypeInt16, true, true
	case []uint16:
		return VariantTypeUInt16, true, true
	case []int32:
		return VariantTypeInt32, true, true
	case []uint32:
		return VariantTypeUInt32, true, true
	case []int64:
		return VariantTypeInt64, true, true
	case []uint64:
		return VariantTypeUInt64, true, true
	case []float32:
		return VariantTypeFloat, true, true
	case []float64:
		return VariantTypeDouble, true, true
	case []string:
		return VariantTypeString, true, true
	case []time.Time:
		return VariantTypeDateTime, true, true
	case []uuid.UUID:
		return VariantTypeGUID, true, true
	case []ByteString:
		return VariantTypeByteString, true, true
	case []XMLElement:
		return VariantTypeXMLElement, true, true
	case []NodeID:
		return VariantTypeNodeID, true, true
	case []ExpandedNodeID:
		return VariantTypeExpandedNodeID, true, true
	case []StatusCode:
		return VariantTypeStatusCode, true, true
	case []QualifiedName:
		return VariantTypeQualifiedName, true, true
	case []LocalizedText:
		return VariantTypeLocalizedText, true, true
	case []*ExtensionObject:
		return VariantTypeExtensionObject, true, true
	case []*DataValue:
		return VariantTypeDataValue, true, true
	case []*Variant:
		return VariantTypeVariant, true, true
	case []*DiagnosticInfo:
		return VariantTypeDiagnosticInfo, true, true
	}
	return VariantTypeNull, false, false
}
