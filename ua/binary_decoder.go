// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// BinaryDecoder decodes the UA Binary protocol.
type BinaryDecoder struct {
	r     io.Reader
	reg   *TypeRegistry
	bs    [8]byte
	depth int
}

// NewBinaryDecoder returns a new decoder that reads from an io.Reader.
// The registry supplies the decoders of structures stored in ExtensionObjects, and may be nil.
func NewBinaryDecoder(r io.Reader, reg *TypeRegistry) *BinaryDecoder {
	return &BinaryDecoder{r: r, reg: reg}
}

// Registry returns the registry of the decoder.
func (dec *BinaryDecoder) Registry() *TypeRegistry {
	return dec.reg
}

func (dec *BinaryDecoder) enter() error {
	if dec.depth >= MaxNestingDepth {
		return BadEncodingLimitsExceeded
	}
	dec.depth++
	return nil
}

func (dec *BinaryDecoder) leave() {
	dec.depth--
}

func (dec *BinaryDecoder) read(bs []byte) error {
	if _, err := io.ReadFull(dec.r, bs); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return BadEndOfStream
		}
		return BadDecodingError
	}
	return nil
}

// Decode decodes the value using the UA Binary protocol. The value must be a pointer.
func (dec *BinaryDecoder) Decode(value interface{}) error {
	if ok, err := dec.decodeBuiltIn(value); ok {
		return err
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return BadDecodingError
	}
	return dec.decodeValue(rv.Elem())
}

func (dec *BinaryDecoder) decodeBuiltIn(value interface{}) (bool, error) {
	switch val := value.(type) {
	case *bool:
		return true, dec.ReadBoolean(val)
	case *int8:
		return true, dec.ReadSByte(val)
	case *uint8:
		return true, dec.ReadByte(val)
	case *int16:
		return true, dec.ReadInt16(val)
	case *uint16:
		return true, dec.ReadUInt16(val)
	case *int32:
		return true, dec.ReadInt32(val)
	case *uint32:
		return true, dec.ReadUInt32(val)
	case *int64:
		return true, dec.ReadInt64(val)
	case *uint64:
		return true, dec.ReadUInt64(val)
	case *float32:
		return true, dec.ReadFloat(val)
	case *float64:
		return true, dec.ReadDouble(val)
	case *string:
		return true, dec.ReadString(val)
	case *time.Time:
		return true, dec.ReadDateTime(val)
	case *uuid.UUID:
		return true, dec.ReadGUID(val)
	case *ByteString:
		return true, dec.ReadByteString(val)
	case *XMLElement:
		return true, dec.ReadXMLElement(val)
	case *NodeID:
		return true, dec.ReadNodeID(val)
	case *ExpandedNodeID:
		return true, dec.ReadExpandedNodeID(val)
	case *StatusCode:
		return true, dec.ReadStatusCode(val)
	case *QualifiedName:
		return true, dec.ReadQualifiedName(val)
	case *LocalizedText:
		return true, dec.ReadLocalizedText(val)
	case **ExtensionObject:
		return true, dec.ReadExtensionObject(val)
	case **DataValue:
		return true, dec.ReadDataValue(val)
	case **Variant:
		return true, dec.ReadVariant(val)
	case **DiagnosticInfo:
		return true, dec.ReadDiagnosticInfo(val)
	case *[]bool:
		return true, dec.ReadBooleanArray(val)
	case *[]int8:
		return true, dec.ReadSByteArray(val)
	case *[]uint8:
		return true, dec.ReadByteArray(val)
	case *[]int16:
		return true, dec.ReadInt16Array(val)
	case *[]uint16:
		return true, dec.ReadUInt16Array(val)
	case *[]int32:
		return true, dec.ReadInt32Array(val)
	case *[]uint32:
		return true, dec.ReadUInt32Array(val)
	case *[]int64:
		return true, dec.ReadInt64Array(val)
	case *[]uint64:
		return true, dec.ReadUInt64Array(val)
	case *[]float32:
		return true, dec.ReadFloatArray(val)
	case *[]float64:
		return true, dec.ReadDoubleArray(val)
	case *[]string:
		return true, dec.ReadStringArray(val)
	case *[]time.Time:
		return true, dec.ReadDateTimeArray(val)
	case *[]uuid.UUID:
		return true, dec.ReadGUIDArray(val)
	case *[]ByteString:
		return true, dec.ReadByteStringArray(val)
	case *[]XMLElement:
		return true, dec.ReadXMLElementArray(val)
	case *[]NodeID:
		return true, dec.ReadNodeIDArray(val)
	case *[]ExpandedNodeID:
		return true, dec.ReadExpandedNodeIDArray(val)
	case *[]StatusCode:
		return true, dec.ReadStatusCodeArray(val)
	case *[]QualifiedName:
		return true, dec.ReadQualifiedNameArray(val)
	case *[]LocalizedText:
		return true, dec.ReadLocalizedTextArray(val)
	case *[]*ExtensionObject:
		return true, dec.ReadExtensionObjectArray(val)
	case *[]*DataValue:
		return true, dec.ReadDataValueArray(val)
	case *[]*Variant:
		return true, dec.ReadVariantArray(val)
	case *[]*DiagnosticInfo:
		return true, dec.ReadDiagnosticInfoArray(val)
	}
	return false, nil
}

// decodeValue reads enums, structs and slices of structs, field by field.
func (dec *BinaryDecoder) decodeValue(rv reflect.Value) error {
	if rv.CanAddr() {
		if ok, err := dec.decodeBuiltIn(rv.Addr().Interface()); ok {
			return err
		}
	}
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return dec.decodeValue(rv.Elem())
	case reflect.Bool:
		var v bool
		if err := dec.ReadBoolean(&v); err != nil {
			return err
		}
		rv.SetBool(v)
	case reflect.Int8:
		var v int8
		if err := dec.ReadSByte(&v); err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Uint8:
		var v byte
		if err := dec.ReadByte(&v); err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Int16:
		var v int16
		if err := dec.ReadInt16(&v); err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Uint16:
		var v uint16
		if err := dec.ReadUInt16(&v); err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Int32: // e.g. enums
		var v int32
		if err := dec.ReadInt32(&v); err != nil {
			return err
		}
		rv.SetInt(int64(v))
	case reflect.Uint32:
		var v uint32
		if err := dec.ReadUInt32(&v); err != nil {
			return err
		}
		rv.SetUint(uint64(v))
	case reflect.Int64:
		var v int64
		if err := dec.ReadInt64(&v); err != nil {
			return err
		}
		rv.SetInt(v)
	case reflect.Uint64:
		var v uint64
		if err := dec.ReadUInt64(&v); err != nil {
			return err
		}
		rv.SetUint(v)
	case reflect.Float32:
		var v float32
		if err := dec.ReadFloat(&v); err != nil {
			return err
		}
		rv.SetFloat(float64(v))
	case reflect.Float64:
		var v float64
		if err := dec.ReadDouble(&v); err != nil {
			return err
		}
		rv.SetFloat(v)
	case reflect.String:
		var v string
		if err := dec.ReadString(&v); err != nil {
			return err
		}
		rv.SetString(v)
	case reflect.Struct: // e.g. PublishResponse
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			if typ.Field(i).PkgPath != "" {
				continue
			}
			if err := dec.decodeValue(rv.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice: // e.g. []MonitoredItemCreateResult
		var n int32
		if err := dec.ReadInt32(&n); err != nil {
			return err
		}
		if n < 0 {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if n > MaxArrayLength {
			return BadEncodingLimitsExceeded
		}
		s := reflect.MakeSlice(rv.Type(), int(n), int(n))
		for i := 0; i < int(n); i++ {
			if err := dec.decodeValue(s.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(s)
	default:
		return BadDecodingError
	}
	return nil
}

// ReadMessage reads the binary encoding id of a message followed by its fields,
// using the decoder registered for the id.
func (dec *BinaryDecoder) ReadMessage() (interface{}, error) {
	var id NodeID
	if err := dec.ReadNodeID(&id); err != nil {
		return nil, err
	}
	f, ok := dec.reg.decoderFor(id)
	if !ok {
		return nil, BadDataTypeIDUnknown
	}
	return f(dec)
}

// ReadBoolean reads a boolean.
func (dec *BinaryDecoder) ReadBoolean(value *bool) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = dec.bs[0] != 0
	return nil
}

// ReadSByte reads a sbyte.
func (dec *BinaryDecoder) ReadSByte(value *int8) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = int8(dec.bs[0])
	return nil
}

// ReadByte reads a byte.
func (dec *BinaryDecoder) ReadByte(value *byte) error {
	if err := dec.read(dec.bs[:1]); err != nil {
		return err
	}
	*value = dec.bs[0]
	return nil
}

// ReadInt16 reads a int16.
func (dec *BinaryDecoder) ReadInt16(value *int16) error {
	if err := dec.read(dec.bs[:2]); err != nil {
		return err
	}
	*value = int16(binary.LittleEndian.Uint16(dec.bs[:2]))
	return nil
}

// ReadUInt16 reads a uint16.
func (dec *BinaryDecoder) ReadUInt16(value *uint16) error {
	if err := dec.read(dec.bs[:2]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint16(dec.bs[:2])
	return nil
}

// ReadInt32 reads a int32.
func (dec *BinaryDecoder) ReadInt32(value *int32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = int32(binary.LittleEndian.Uint32(dec.bs[:4]))
	return nil
}

// ReadUInt32 reads a uint32.
func (dec *BinaryDecoder) ReadUInt32(value *uint32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint32(dec.bs[:4])
	return nil
}

// ReadInt64 reads a int64.
func (dec *BinaryDecoder) ReadInt64(value *int64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = int64(binary.LittleEndian.Uint64(dec.bs[:8]))
	return nil
}

// ReadUInt64 reads a uint64.
func (dec *BinaryDecoder) ReadUInt64(value *uint64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = binary.LittleEndian.Uint64(dec.bs[:8])
	return nil
}

// ReadFloat reads a float.
func (dec *BinaryDecoder) ReadFloat(value *float32) error {
	if err := dec.read(dec.bs[:4]); err != nil {
		return err
	}
	*value = math.Float32frombits(binary.LittleEndian.Uint32(dec.bs[:4]))
	return nil
}

// ReadDouble reads a double.
func (dec *BinaryDecoder) ReadDouble(value *float64) error {
	if err := dec.read(dec.bs[:8]); err != nil {
		return err
	}
	*value = math.Float64frombits(binary.LittleEndian.Uint64(dec.bs[:8]))
	return nil
}

// readBytes reads length-prefixed bytes. A null length returns nil.
func (dec *BinaryDecoder) readBytes() ([]byte, error) {
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	if n > MaxStringLength {
		return nil, BadEncodingLimitsExceeded
	}
	bs := make([]byte, n)
	if err := dec.read(bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// ReadString reads a string. Null and empty strings are both read as "".
func (dec *BinaryDecoder) ReadString(value *string) error {
	bs, err := dec.readBytes()
	if err != nil {
		return err
	}
	*value = string(bs)
	return nil
}

// ReadDateTime reads a date/time. Zero ticks are read as the zero time.
func (dec *BinaryDecoder) ReadDateTime(value *time.Time) error {
	var ticks int64
	if err := dec.ReadInt64(&ticks); err != nil {
		return err
	}
	if ticks <= 0 {
		*value = time.Time{}
		return nil
	}
	if ticks >= maxTicks {
		ticks = maxTicks
	}
	*value = time.Unix(ticks/10000000-epochOffsetSeconds, (ticks%10000000)*100).UTC()
	return nil
}

// ReadGUID reads a UUID.
func (dec *BinaryDecoder) ReadGUID(value *uuid.UUID) error {
	var bs [16]byte
	if err := dec.read(bs[:]); err != nil {
		return err
	}
	value[0] = bs[3]
	value[1] = bs[2]
	value[2] = bs[1]
	value[3] = bs[0]
	value[4] = bs[5]
	value[5] = bs[4]
	value[6] = bs[7]
	value[7] = bs[6]
	copy(value[8:], bs[8:])
	return nil
}

// ReadByteString reads a ByteString.
func (dec *BinaryDecoder) ReadByteString(value *ByteString) error {
	bs, err := dec.readBytes()
	if err != nil {
		return err
	}
	*value = ByteString(bs)
	return nil
}

// ReadXMLElement reads a XmlElement.
func (dec *BinaryDecoder) ReadXMLElement(value *XMLElement) error {
	bs, err := dec.readBytes()
	if err != nil {
		return err
	}
	*value = XMLElement(bs)
	return nil
}

// ReadNodeID reads a NodeID.
func (dec *BinaryDecoder) ReadNodeID(value *NodeID) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	if b&0xF0 != 0 {
		return BadDecodingError
	}
	return dec.readNodeID(b, value)
}

func (dec *BinaryDecoder) readNodeID(b byte, value *NodeID) error {
	switch b & 0x0F {
	case 0x00:
		var id byte
		if err := dec.ReadByte(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(0, uint32(id))
	case 0x01:
		var ns byte
		if err := dec.ReadByte(&ns); err != nil {
			return err
		}
		var id uint16
		if err := dec.ReadUInt16(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(uint16(ns), uint32(id))
	case 0x02:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id uint32
		if err := dec.ReadUInt32(&id); err != nil {
			return err
		}
		*value = NewNodeIDNumeric(ns, id)
	case 0x03:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id string
		if err := dec.ReadString(&id); err != nil {
			return err
		}
		*value = NewNodeIDString(ns, id)
	case 0x04:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id uuid.UUID
		if err := dec.ReadGUID(&id); err != nil {
			return err
		}
		*value = NewNodeIDGUID(ns, id)
	case 0x05:
		var ns uint16
		if err := dec.ReadUInt16(&ns); err != nil {
			return err
		}
		var id ByteString
		if err := dec.ReadByteString(&id); err != nil {
			return err
		}
		*value = NewNodeIDOpaque(ns, id)
	default:
		return BadDecodingError
	}
	return nil
}

// ReadExpandedNodeID reads an ExpandedNodeID.
func (dec *BinaryDecoder) ReadExpandedNodeID(value *ExpandedNodeID) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	if b&0x30 != 0 {
		return BadDecodingError
	}
	var n ExpandedNodeID
	if err := dec.readNodeID(b, &n.nodeID); err != nil {
		return err
	}
	if b&0x80 != 0 {
		if err := dec.ReadString(&n.namespaceURI); err != nil {
			return err
		}
	}
	if b&0x40 != 0 {
		if err := dec.ReadUInt32(&n.serverIndex); err != nil {
			return err
		}
	}
	*value = n
	return nil
}

// ReadStatusCode reads a StatusCode.
func (dec *BinaryDecoder) ReadStatusCode(value *StatusCode) error {
	return dec.ReadUInt32((*uint32)(value))
}

// ReadQualifiedName reads a QualifiedName.
func (dec *BinaryDecoder) ReadQualifiedName(value *QualifiedName) error {
	var ns uint16
	if err := dec.ReadUInt16(&ns); err != nil {
		return err
	}
	var name string
	if err := dec.ReadString(&name); err != nil {
		return err
	}
	*value = QualifiedName{ns, name}
	return nil
}

// ReadLocalizedText reads a LocalizedText.
func (dec *BinaryDecoder) ReadLocalizedText(value *LocalizedText) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	var text, locale string
	if (b & 1) != 0 {
		if err := dec.ReadString(&locale); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := dec.ReadString(&text); err != nil {
			return err
		}
	}
	*value = LocalizedText{text, locale}
	return nil
}

// ReadExtensionObject reads an ExtensionObject. If the registry holds a decoder for the
// type id, the body is decoded into Value. If no decoder is registered, or the decoder
// fails, the raw bytes are kept in Body.
func (dec *BinaryDecoder) ReadExtensionObject(value **ExtensionObject) error {
	var id NodeID
	if err := dec.ReadNodeID(&id); err != nil {
		return err
	}
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	switch ExtensionObjectEncoding(b) {
	case ExtensionObjectEncodingNone:
		if id.IsNil() {
			*value = nil
			return nil
		}
		*value = &ExtensionObject{TypeID: id}
		return nil
	case ExtensionObjectEncodingByteString, ExtensionObjectEncodingXMLElement:
		body, err := dec.readBytes()
		if err != nil {
			return err
		}
		eo := &ExtensionObject{TypeID: id, Encoding: ExtensionObjectEncoding(b), Body: body}
		if eo.Encoding == ExtensionObjectEncodingByteString && body != nil {
			if err := dec.enter(); err != nil {
				return err
			}
			defer dec.leave()
			if f, ok := dec.reg.decoderFor(id); ok {
				sub := &BinaryDecoder{r: bytes.NewReader(body), reg: dec.reg, depth: dec.depth}
				if v, ok := decodeBody(f, sub); ok {
					eo.Value = v
					eo.Body = nil
				}
			}
		}
		*value = eo
		return nil
	}
	return BadDecodingError
}

// ReadDataValue reads a DataValue. Picoseconds are read and discarded.
func (dec *BinaryDecoder) ReadDataValue(value **DataValue) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()

	dv := &DataValue{}
	if (b & 1) != 0 {
		if err := dec.ReadVariant(&dv.Value); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := dec.ReadStatusCode(&dv.StatusCode); err != nil {
			return err
		}
	}
	if (b & 4) != 0 {
		if err := dec.ReadDateTime(&dv.SourceTimestamp); err != nil {
			return err
		}
	}
	var pico uint16
	if (b & 16) != 0 {
		if err := dec.ReadUInt16(&pico); err != nil {
			return err
		}
	}
	if (b & 8) != 0 {
		if err := dec.ReadDateTime(&dv.ServerTimestamp); err != nil {
			return err
		}
	}
	if (b & 32) != 0 {
		if err := dec.ReadUInt16(&pico); err != nil {
			return err
		}
	}
	*value = dv
	return nil
}

// ReadVariant reads a Variant.
func (dec *BinaryDecoder) ReadVariant(value **Variant) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	if b == 0 {
		*value = &Variant{}
		return nil
	}
	typ := VariantType(b & 0x3F)
	if typ == VariantTypeNull || !typ.IsValid() {
		return BadDecodingError
	}
	isArray := b&0x80 != 0
	hasDimensions := b&0x40 != 0
	if hasDimensions && !isArray {
		return BadDecodingError
	}
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()

	if !isArray {
		v, err := dec.readScalar(typ)
		if err != nil {
			return err
		}
		*value = &Variant{value: v, variantType: typ}
		return nil
	}
	v, err := dec.readArray(typ)
	if err != nil {
		return err
	}
	var dims []int32
	if hasDimensions {
		if err := dec.ReadInt32Array(&dims); err != nil {
			return err
		}
		if dims != nil && validateDimensions(dims, reflect.ValueOf(v).Len()) != nil {
			return BadDecodingError
		}
	}
	*value = &Variant{value: v, variantType: typ, isArray: true, arrayDimensions: dims}
	return nil
}

func (dec *BinaryDecoder) readScalar(typ VariantType) (interface{}, error) {
	switch typ {
	case VariantTypeBoolean:
		return readAs(dec.ReadBoolean)
	case VariantTypeSByte:
		return readAs(dec.ReadSByte)
	case VariantTypeByte:
		return readAs(dec.ReadByte)
	case VariantTypeInt16:
		return readAs(dec.ReadInt16)
	case VariantTypeUInt16:
		return readAs(dec.ReadUInt16)
	case VariantTypeInt32:
		return readAs(dec.ReadInt32)
	case VariantTypeUInt32:
		return readAs(dec.ReadUInt32)
	case VariantTypeInt64:
		return readAs(dec.ReadInt64)
	case VariantTypeUInt64:
		return readAs(dec.ReadUInt64)
	case VariantTypeFloat:
		return readAs(dec.ReadFloat)
	case VariantTypeDouble:
		return readAs(dec.ReadDouble)
	case VariantTypeString:
		return readAs(dec.ReadString)
	case VariantTypeDateTime:
		return readAs(dec.ReadDateTime)
	case VariantTypeGUID:
		return readAs(dec.ReadGUID)
	case VariantTypeByteString:
		return readAs(dec.ReadByteString)
	case VariantTypeXMLElement:
		return readAs(dec.ReadXMLElement)
	case VariantTypeNodeID:
		return readAs(dec.ReadNodeID)
	case VariantTypeExpandedNodeID:
		return readAs(dec.ReadExpandedNodeID)
	case VariantTypeStatusCode:
		return readAs(dec.ReadStatusCode)
	case VariantTypeQualifiedName:
		return readAs(dec.ReadQualifiedName)
	case VariantTypeLocalizedText:
		return readAs(dec.ReadLocalizedText)
	case VariantTypeExtensionObject:
		return readAs(dec.ReadExtensionObject)
	case VariantTypeDataValue:
		return readAs(dec.ReadDataValue)
	case VariantTypeVariant:
		return readAs(dec.ReadVariant)
	case VariantTypeDiagnosticInfo:
		return readAs(dec.ReadDiagnosticInfo)
	}
	return nil, BadDecodingError
}

func (dec *BinaryDecoder) readArray(typ VariantType) (interface{}, error) {
	switch typ {
	case VariantTypeBoolean:
		return readAs(dec.ReadBooleanArray)
	case VariantTypeSByte:
		return readAs(dec.ReadSByteArray)
	case VariantTypeByte:
		return readAs(dec.ReadByteArray)
	case VariantTypeInt16:
		return readAs(dec.ReadInt16Array)
	case VariantTypeUInt16:
		return readAs(dec.ReadUInt16Array)
	case VariantTypeInt32:
		return readAs(dec.ReadInt32Array)
	case VariantTypeUInt32:
		return readAs(dec.ReadUInt32Array)
	case VariantTypeInt64:
		return readAs(dec.ReadInt64Array)
	case VariantTypeUInt64:
		return readAs(dec.ReadUInt64Array)
	case VariantTypeFloat:
		return readAs(dec.ReadFloatArray)
	case VariantTypeDouble:
		return readAs(dec.ReadDoubleArray)
	case VariantTypeString:
		return readAs(dec.ReadStringArray)
	case VariantTypeDateTime:
		return readAs(dec.ReadDateTimeArray)
	case VariantTypeGUID:
		return readAs(dec.ReadGUIDArray)
	case VariantTypeByteString:
		return readAs(dec.ReadByteStringArray)
	case VariantTypeXMLElement:
		return readAs(dec.ReadXMLElementArray)
	case VariantTypeNodeID:
		return readAs(dec.ReadNodeIDArray)
	case VariantTypeExpandedNodeID:
		return readAs(dec.ReadExpandedNodeIDArray)
	case VariantTypeStatusCode:
		return readAs(dec.ReadStatusCodeArray)
	case VariantTypeQualifiedName:
		return readAs(dec.ReadQualifiedNameArray)
	case VariantTypeLocalizedText:
		return readAs(dec.ReadLocalizedTextArray)
	case VariantTypeExtensionObject:
		return readAs(dec.ReadExtensionObjectArray)
	case VariantTypeDataValue:
		return readAs(dec.ReadDataValueArray)
	case VariantTypeVariant:
		return readAs(dec.ReadVariantArray)
	case VariantTypeDiagnosticInfo:
		return readAs(dec.ReadDiagnosticInfoArray)
	}
	return nil, BadDecodingError
}

func readAs[T any](read func(*T) error) (interface{}, error) {
	var v T
	if err := read(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadDiagnosticInfo reads a DiagnosticInfo. Absent index fields are set to -1.
func (dec *BinaryDecoder) ReadDiagnosticInfo(value **DiagnosticInfo) error {
	var b byte
	if err := dec.ReadByte(&b); err != nil {
		return err
	}
	if err := dec.enter(); err != nil {
		return err
	}
	defer dec.leave()

	info := NilDiagnosticInfo
	if (b & 1) != 0 {
		if err := dec.ReadInt32(&info.SymbolicID); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := dec.ReadInt32(&info.NamespaceURI); err != nil {
			return err
		}
	}
	if (b & 8) != 0 {
		if err := dec.ReadInt32(&info.Locale); err != nil {
			return err
		}
	}
	if (b & 4) != 0 {
		if err := dec.ReadInt32(&info.LocalizedText); err != nil {
			return err
		}
	}
	if (b & 16) != 0 {
		if err := dec.ReadString(&info.AdditionalInfo); err != nil {
			return err
		}
	}
	if (b & 32) != 0 {
		if err := dec.ReadStatusCode(&info.InnerStatusCode); err != nil {
			return err
		}
	}
	if (b & 64) != 0 {
		if err := dec.ReadDiagnosticInfo(&info.InnerDiagnosticInfo); err != nil {
			return err
		}
	}
	*value = &info
	return nil
}

// readSlice reads the int32 length followed by each element. A negative length is read as nil.
func readSlice[T any](dec *BinaryDecoder, value *[]T, read func(*T) error) error {
	var n int32
	if err := dec.ReadInt32(&n); err != nil {
		return err
	}
	if n < 0 {
		*value = nil
		return nil
	}
	if n > MaxArrayLength {
		return BadEncodingLimitsExceeded
	}
	s := make([]T, n)
	for i := range s {
		if err := read(&s[i]); err != nil {
			return err
		}
	}
	*value = s
	return nil
}

// ReadBooleanArray reads a bool array.
func (dec *BinaryDecoder) ReadBooleanArray(value *[]bool) error {
	return readSlice(dec, value, dec.ReadBoolean)
}

// ReadSByteArray reads a int8 array.
func (dec *BinaryDecoder) ReadSByteArray(value *[]int8) error {
	return readSlice(dec, value, dec.ReadSByte)
}

// ReadByteArray reads a byte array.
func (dec *BinaryDecoder) ReadByteArray(value *[]byte) error {
	bs, err := dec.readBytes()
	if err != nil {
		return err
	}
	*value = bs
	return nil
}

// ReadInt16Array reads a int16 array.
func (dec *BinaryDecoder) ReadInt16Array(value *[]int16) error {
	return readSlice(dec, value, dec.ReadInt16)
}

// ReadUInt16Array reads a uint16 array.
func (dec *BinaryDecoder) ReadUInt16Array(value *[]uint16) error {
	return readSlice(dec, value, dec.ReadUInt16)
}

// ReadInt32Array reads a int32 array.
func (dec *BinaryDecoder) ReadInt32Array(value *[]int32) error {
	return readSlice(dec, value, dec.ReadInt32)
}

// ReadUInt32Array reads a uint32 array.
func (dec *BinaryDecoder) ReadUInt32Array(value *[]uint32) error {
	return readSlice(dec, value, dec.ReadUInt32)
}

// ReadInt64Array reads a int64 array.
func (dec *BinaryDecoder) ReadInt64Array(value *[]int64) error {
	return readSlice(dec, value, dec.ReadInt64)
}

// ReadUInt64Array reads a uint64 array.
func (dec *BinaryDecoder) ReadUInt64Array(value *[]uint64) error {
	return readSlice(dec, value, dec.ReadUInt64)
}

// ReadFloatArray reads a float32 array.
func (dec *BinaryDecoder) ReadFloatArray(value *[]float32) error {
	return readSlice(dec, value, dec.ReadFloat)
}

// ReadDoubleArray reads a float64 array.
func (dec *BinaryDecoder) ReadDoubleArray(value *[]float64) error {
	return readSlice(dec, value, dec.ReadDouble)
}

// ReadStringArray reads a string array.
func (dec *BinaryDecoder) ReadStringArray(value *[]string) error {
	return readSlice(dec, value, dec.ReadString)
}

// ReadDateTimeArray reads a Time array.
func (dec *BinaryDecoder) ReadDateTimeArray(value *[]time.Time) error {
	return readSlice(dec, value, dec.ReadDateTime)
}

// ReadGUIDArray reads a UUID array.
func (dec *BinaryDecoder) ReadGUIDArray(value *[]uuid.UUID) error {
	return readSlice(dec, value, dec.ReadGUID)
}

// ReadByteStringArray reads a ByteString array.
func (dec *BinaryDecoder) ReadByteStringArray(value *[]ByteString) error {
	return readSlice(dec, value, dec.ReadByteString)
}

// ReadXMLElementArray reads a XmlElement array.
func (dec *BinaryDecoder) ReadXMLElementArray(value *[]XMLElement) error {
	return readSlice(dec, value, dec.ReadXMLElement)
}

// ReadNodeIDArray reads a NodeID array.
func (dec *BinaryDecoder) ReadNodeIDArray(value *[]NodeID) error {
	return readSlice(dec, value, dec.ReadNodeID)
}

// ReadExpandedNodeIDArray reads a ExpandedNodeID array.
func (dec *BinaryDecoder) ReadExpandedNodeIDArray(value *[]ExpandedNodeID) error {
	return readSlice(dec, value, dec.ReadExpandedNodeID)
}

// ReadStatusCodeArray reads a StatusCode array.
func (dec *BinaryDecoder) ReadStatusCodeArray(value *[]StatusCode) error {
	return readSlice(dec, value, dec.ReadStatusCode)
}

// ReadQualifiedNameArray reads a QualifiedName array.
func (dec *BinaryDecoder) ReadQualifiedNameArray(value *[]QualifiedName) error {
	return readSlice(dec, value, dec.ReadQualifiedName)
}

// ReadLocalizedTextArray reads a LocalizedText array.
func (dec *BinaryDecoder) ReadLocalizedTextArray(value *[]LocalizedText) error {
	return readSlice(dec, value, dec.ReadLocalizedText)
}

// ReadExtensionObjectArray reads a ExtensionObject array.
func (dec *BinaryDecoder) ReadExtensionObjectArray(value *[]*ExtensionObject) error {
	return readSlice(dec, value, dec.ReadExtensionObject)
}

// ReadDataValueArray reads a DataValue array.
func (dec *BinaryDecoder) ReadDataValueArray(value *[]*DataValue) error {
	return readSlice(dec, value, dec.ReadDataValue)
}

// ReadVariantArray reads a Variant array.
func (dec *BinaryDecoder) ReadVariantArray(value *[]*Variant) error {
	return readSlice(dec, value, dec.ReadVariant)
}

// ReadDiagnosticInfoArray reads a DiagnosticInfo array.
func (dec *BinaryDecoder) ReadDiagnosticInfoArray(value *[]*DiagnosticInfo) error {
	return readSlice(dec, value, dec.ReadDiagnosticInfo)
}
