// Copyright 2020 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/djherbis/buffer"
	"github.com/google/uuid"
)

const (
	// MaxNestingDepth limits the nesting of Variant, DataValue, ExtensionObject and DiagnosticInfo.
	MaxNestingDepth = 100
	// MaxStringLength limits the length of a String, ByteString or XmlElement.
	MaxStringLength = 16 * 1024 * 1024
	// MaxArrayLength limits the number of elements of an array.
	MaxArrayLength = 1024 * 1024

	// ticks are 100 nanosecond intervals since January 1, 1601
	epochOffsetSeconds = 11644473600
	maxTicks           = 2650467743990000000 // 9999-12-31 23:59:59 UTC
)

// BinaryEncoder encodes the UA Binary protocol.
type BinaryEncoder struct {
	w     io.Writer
	reg   *TypeRegistry
	bs    [8]byte
	depth int
}

// NewBinaryEncoder returns a new encoder that writes to an io.Writer.
// The registry supplies the encoders of structures stored in ExtensionObjects, and may be nil.
func NewBinaryEncoder(w io.Writer, reg *TypeRegistry) *BinaryEncoder {
	return &BinaryEncoder{w: w, reg: reg}
}

// Registry returns the registry of the encoder.
func (enc *BinaryEncoder) Registry() *TypeRegistry {
	return enc.reg
}

func (enc *BinaryEncoder) enter() error {
	if enc.depth >= MaxNestingDepth {
		return BadEncodingLimitsExceeded
	}
	enc.depth++
	return nil
}

func (enc *BinaryEncoder) leave() {
	enc.depth--
}

// Encode encodes the value using the UA Binary protocol and writes the bytes to the io.writer.
func (enc *BinaryEncoder) Encode(value interface{}) error {
	switch val := value.(type) {
	case bool:
		return enc.WriteBoolean(val)
	case int8:
		return enc.WriteSByte(val)
	case uint8:
		return enc.WriteByte(val)
	case int16:
		return enc.WriteInt16(val)
	case uint16:
		return enc.WriteUInt16(val)
	case int32:
		return enc.WriteInt32(val)
	case uint32:
		return enc.WriteUInt32(val)
	case int64:
		return enc.WriteInt64(val)
	case uint64:
		return enc.WriteUInt64(val)
	case float32:
		return enc.WriteFloat(val)
	case float64:
		return enc.WriteDouble(val)
	case string:
		return enc.WriteString(val)
	case time.Time:
		return enc.WriteDateTime(val)
	case uuid.UUID:
		return enc.WriteGUID(val)
	case ByteString:
		return enc.WriteByteString(val)
	case XMLElement:
		return enc.WriteXMLElement(val)
	case NodeID:
		return enc.WriteNodeID(val)
	case ExpandedNodeID:
		return enc.WriteExpandedNodeID(val)
	case StatusCode:
		return enc.WriteStatusCode(val)
	case QualifiedName:
		return enc.WriteQualifiedName(val)
	case LocalizedText:
		return enc.WriteLocalizedText(val)
	case *ExtensionObject:
		return enc.WriteExtensionObject(val)
	case *DataValue:
		return enc.WriteDataValue(val)
	case *Variant:
		return enc.WriteVariant(val)
	case *DiagnosticInfo:
		return enc.WriteDiagnosticInfo(val)
	case []bool:
		return enc.WriteBooleanArray(val)
	case []int8:
		return enc.WriteSByteArray(val)
	case []uint8:
		return enc.WriteByteArray(val)
	case []int16:
		return enc.WriteInt16Array(val)
	case []uint16:
		return enc.WriteUInt16Array(val)
	case []int32:
		return enc.WriteInt32Array(val)
	case []uint32:
		return enc.WriteUInt32Array(val)
	case []int64:
		return enc.WriteInt64Array(val)
	case []uint64:
		return enc.WriteUInt64Array(val)
	case []float32:
		return enc.WriteFloatArray(val)
	case []float64:
		return enc.WriteDoubleArray(val)
	case []string:
		return enc.WriteStringArray(val)
	case []time.Time:
		return enc.WriteDateTimeArray(val)
	case []uuid.UUID:
		return enc.WriteGUIDArray(val)
	case []ByteString:
		return enc.WriteByteStringArray(val)
	case []XMLElement:
		return enc.WriteXMLElementArray(val)
	case []NodeID:
		return enc.WriteNodeIDArray(val)
	case []ExpandedNodeID:
		return enc.WriteExpandedNodeIDArray(val)
	case []StatusCode:
		return enc.WriteStatusCodeArray(val)
	case []QualifiedName:
		return enc.WriteQualifiedNameArray(val)
	case []LocalizedText:
		return enc.WriteLocalizedTextArray(val)
	case []*ExtensionObject:
		return enc.WriteExtensionObjectArray(val)
	case []*DataValue:
		return enc.WriteDataValueArray(val)
	case []*Variant:
		return enc.WriteVariantArray(val)
	case []*DiagnosticInfo:
		return enc.WriteDiagnosticInfoArray(val)
	}
	if value == nil {
		return BadEncodingError
	}
	return enc.encodeValue(reflect.ValueOf(value))
}

// encodeValue writes enums, structs and slices of structs, field by field.
func (enc *BinaryEncoder) encodeValue(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return enc.encodeValue(reflect.New(rv.Type().Elem()).Elem())
		}
		return enc.encodeValue(rv.Elem())
	case reflect.Bool:
		return enc.WriteBoolean(rv.Bool())
	case reflect.Int8:
		return enc.WriteSByte(int8(rv.Int()))
	case reflect.Uint8:
		return enc.WriteByte(uint8(rv.Uint()))
	case reflect.Int16:
		return enc.WriteInt16(int16(rv.Int()))
	case reflect.Uint16:
		return enc.WriteUInt16(uint16(rv.Uint()))
	case reflect.Int32: // e.g. enums
		return enc.WriteInt32(int32(rv.Int()))
	case reflect.Uint32:
		return enc.WriteUInt32(uint32(rv.Uint()))
	case reflect.Int64:
		return enc.WriteInt64(rv.Int())
	case reflect.Uint64:
		return enc.WriteUInt64(rv.Uint())
	case reflect.Float32:
		return enc.WriteFloat(float32(rv.Float()))
	case reflect.Float64:
		return enc.WriteDouble(rv.Float())
	case reflect.String:
		return enc.WriteString(rv.String())
	case reflect.Struct: // e.g. PublishRequest
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			if typ.Field(i).PkgPath != "" {
				continue
			}
			if err := enc.Encode(rv.Field(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice: // e.g. []MonitoredItemCreateRequest
		if rv.IsNil() {
			return enc.WriteInt32(-1)
		}
		n := rv.Len()
		if err := enc.WriteInt32(int32(n)); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := enc.Encode(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return BadEncodingError
}

// WriteMessage writes the binary encoding id of the message followed by its fields.
func (enc *BinaryEncoder) WriteMessage(msg interface{}) error {
	id, f, ok := enc.reg.encoderFor(reflect.TypeOf(msg))
	if !ok {
		return BadEncodingError
	}
	if err := enc.WriteNodeID(id); err != nil {
		return err
	}
	return f(enc, msg)
}

// WriteBoolean writes a boolean.
func (enc *BinaryEncoder) WriteBoolean(value bool) error {
	if value {
		enc.bs[0] = 1
	} else {
		enc.bs[0] = 0
	}
	if _, err := enc.w.Write(enc.bs[:1]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteSByte writes a sbyte.
func (enc *BinaryEncoder) WriteSByte(value int8) error {
	enc.bs[0] = byte(value)
	if _, err := enc.w.Write(enc.bs[:1]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteByte writes a byte.
func (enc *BinaryEncoder) WriteByte(value byte) error {
	enc.bs[0] = value
	if _, err := enc.w.Write(enc.bs[:1]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteInt16 writes a int16.
func (enc *BinaryEncoder) WriteInt16(value int16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], uint16(value))
	if _, err := enc.w.Write(enc.bs[:2]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteUInt16 writes a uint16.
func (enc *BinaryEncoder) WriteUInt16(value uint16) error {
	binary.LittleEndian.PutUint16(enc.bs[:2], value)
	if _, err := enc.w.Write(enc.bs[:2]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteInt32 writes an int32.
func (enc *BinaryEncoder) WriteInt32(value int32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], uint32(value))
	if _, err := enc.w.Write(enc.bs[:4]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteUInt32 writes an uint32.
func (enc *BinaryEncoder) WriteUInt32(value uint32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], value)
	if _, err := enc.w.Write(enc.bs[:4]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteInt64 writes an int64.
func (enc *BinaryEncoder) WriteInt64(value int64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], uint64(value))
	if _, err := enc.w.Write(enc.bs[:8]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteUInt64 writes an uint64.
func (enc *BinaryEncoder) WriteUInt64(value uint64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], value)
	if _, err := enc.w.Write(enc.bs[:8]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteFloat writes a float.
func (enc *BinaryEncoder) WriteFloat(value float32) error {
	binary.LittleEndian.PutUint32(enc.bs[:4], math.Float32bits(value))
	if _, err := enc.w.Write(enc.bs[:4]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteDouble writes a double.
func (enc *BinaryEncoder) WriteDouble(value float64) error {
	binary.LittleEndian.PutUint64(enc.bs[:8], math.Float64bits(value))
	if _, err := enc.w.Write(enc.bs[:8]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteString writes a string. The empty string is written as null.
func (enc *BinaryEncoder) WriteString(value string) error {
	if len(value) == 0 {
		return enc.WriteInt32(-1)
	}
	if len(value) > MaxStringLength {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(len(value))); err != nil {
		return err
	}
	if _, err := io.WriteString(enc.w, value); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteDateTime writes a date/time. The zero time is written as 0.
func (enc *BinaryEncoder) WriteDateTime(value time.Time) error {
	if value.IsZero() {
		return enc.WriteInt64(0)
	}
	secs := value.Unix() + epochOffsetSeconds
	if secs < 0 {
		return enc.WriteInt64(0)
	}
	if secs >= maxTicks/10000000 {
		return enc.WriteInt64(math.MaxInt64)
	}
	return enc.WriteInt64(secs*10000000 + int64(value.Nanosecond())/100)
}

// WriteGUID writes a UUID
func (enc *BinaryEncoder) WriteGUID(value uuid.UUID) error {
	enc.bs[0] = value[3]
	enc.bs[1] = value[2]
	enc.bs[2] = value[1]
	enc.bs[3] = value[0]
	enc.bs[4] = value[5]
	enc.bs[5] = value[4]
	enc.bs[6] = value[7]
	enc.bs[7] = value[6]
	if _, err := enc.w.Write(enc.bs[:8]); err != nil {
		return BadEncodingError
	}
	if _, err := enc.w.Write(value[8:]); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteByteString writes a ByteString. The empty ByteString is written as null.
func (enc *BinaryEncoder) WriteByteString(value ByteString) error {
	return enc.WriteString(string(value))
}

// WriteXMLElement writes a XmlElement
func (enc *BinaryEncoder) WriteXMLElement(value XMLElement) error {
	return enc.WriteString(string(value))
}

// WriteNodeID writes a NodeID in its most compact form.
func (enc *BinaryEncoder) WriteNodeID(value NodeID) error {
	return enc.writeNodeID(value, 0)
}

func (enc *BinaryEncoder) writeNodeID(value NodeID, flags byte) error {
	switch value.idType {
	case IDTypeNumeric:
		switch {
		case value.nid <= 255 && value.namespaceIndex == 0:
			if err := enc.WriteByte(0x00 | flags); err != nil {
				return err
			}
			return enc.WriteByte(byte(value.nid))
		case value.nid <= 65535 && value.namespaceIndex <= 255:
			if err := enc.WriteByte(0x01 | flags); err != nil {
				return err
			}
			if err := enc.WriteByte(byte(value.namespaceIndex)); err != nil {
				return err
			}
			return enc.WriteUInt16(uint16(value.nid))
		default:
			if err := enc.WriteByte(0x02 | flags); err != nil {
				return err
			}
			if err := enc.WriteUInt16(value.namespaceIndex); err != nil {
				return err
			}
			return enc.WriteUInt32(value.nid)
		}
	case IDTypeString:
		if err := enc.WriteByte(0x03 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(value.namespaceIndex); err != nil {
			return err
		}
		return enc.WriteString(value.sid)
	case IDTypeGUID:
		if err := enc.WriteByte(0x04 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(value.namespaceIndex); err != nil {
			return err
		}
		return enc.WriteGUID(value.gid)
	case IDTypeOpaque:
		if err := enc.WriteByte(0x05 | flags); err != nil {
			return err
		}
		if err := enc.WriteUInt16(value.namespaceIndex); err != nil {
			return err
		}
		return enc.WriteByteString(value.bid)
	}
	return BadEncodingError
}

// WriteExpandedNodeID writes an ExpandedNodeID
func (enc *BinaryEncoder) WriteExpandedNodeID(value ExpandedNodeID) error {
	var flags byte
	if len(value.namespaceURI) > 0 {
		flags |= 0x80
	}
	if value.serverIndex > 0 {
		flags |= 0x40
	}
	if err := enc.writeNodeID(value.nodeID, flags); err != nil {
		return err
	}
	if flags&0x80 != 0 {
		if err := enc.WriteString(value.namespaceURI); err != nil {
			return err
		}
	}
	if flags&0x40 != 0 {
		if err := enc.WriteUInt32(value.serverIndex); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatusCode writes a StatusCode
func (enc *BinaryEncoder) WriteStatusCode(value StatusCode) error {
	return enc.WriteUInt32(uint32(value))
}

// WriteQualifiedName writes a QualifiedName
func (enc *BinaryEncoder) WriteQualifiedName(value QualifiedName) error {
	if err := enc.WriteUInt16(value.NamespaceIndex); err != nil {
		return err
	}
	return enc.WriteString(value.Name)
}

// WriteLocalizedText writes a LocalizedText
func (enc *BinaryEncoder) WriteLocalizedText(value LocalizedText) error {
	var b byte
	if value.Locale != "" {
		b |= 1
	}
	if value.Text != "" {
		b |= 2
	}
	if err := enc.WriteByte(b); err != nil {
		return err
	}
	if (b & 1) != 0 {
		if err := enc.WriteString(value.Locale); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := enc.WriteString(value.Text); err != nil {
			return err
		}
	}
	return nil
}

// WriteExtensionObject writes an ExtensionObject. A structure held in Value is encoded
// with the encoder registered for its type; if none is registered, BadEncodingError is returned.
func (enc *BinaryEncoder) WriteExtensionObject(value *ExtensionObject) error {
	if value == nil {
		if err := enc.WriteNodeID(NilNodeID); err != nil {
			return err
		}
		return enc.WriteByte(0x00)
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()

	if value.Value != nil {
		id, f, ok := enc.reg.encoderFor(reflect.TypeOf(value.Value))
		if !ok {
			return BadEncodingError
		}
		if err := enc.WriteNodeID(id); err != nil {
			return err
		}
		if err := enc.WriteByte(0x01); err != nil {
			return err
		}
		return enc.writeBody(value.Value, f)
	}

	switch value.Encoding {
	case ExtensionObjectEncodingNone:
		if err := enc.WriteNodeID(value.TypeID); err != nil {
			return err
		}
		return enc.WriteByte(0x00)
	case ExtensionObjectEncodingByteString, ExtensionObjectEncodingXMLElement:
		if err := enc.WriteNodeID(value.TypeID); err != nil {
			return err
		}
		if err := enc.WriteByte(byte(value.Encoding)); err != nil {
			return err
		}
		return enc.writeBytes(value.Body)
	}
	return BadEncodingError
}

// writeBody writes the length-prefixed body of a structure.
func (enc *BinaryEncoder) writeBody(value interface{}, f EncodeFunc) error {
	// cast writer to BufferAt to access superpowers
	if buf, ok := enc.w.(buffer.BufferAt); ok {
		mark := buf.Len() // mark where length is written
		bs := make([]byte, 4)
		if _, err := buf.Write(bs); err != nil {
			return BadEncodingError
		}
		start := buf.Len() // mark where encoding starts
		if err := f(enc, value); err != nil {
			return err
		}
		end := buf.Len() // mark where encoding ends
		binary.LittleEndian.PutUint32(bs, uint32(end-start))
		// write actual length at mark
		if _, err := buf.WriteAt(bs, mark); err != nil {
			return BadEncodingError
		}
		return nil
	}
	// if BufferAt interface not available
	buf2 := buffer.NewPartitionAt(bufferPool)
	defer buf2.Reset()
	enc2 := &BinaryEncoder{w: buf2, reg: enc.reg, depth: enc.depth}
	if err := f(enc2, value); err != nil {
		return err
	}
	if buf2.Len() > MaxStringLength {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(buf2.Len())); err != nil {
		return err
	}
	buf3 := bytesPool.Get().([]byte)
	defer bytesPool.Put(buf3)
	if _, err := io.CopyBuffer(enc.w, buf2, buf3); err != nil {
		return BadEncodingError
	}
	return nil
}

// writeBytes writes length-prefixed bytes. A nil slice is written as null.
func (enc *BinaryEncoder) writeBytes(value []byte) error {
	if value == nil {
		return enc.WriteInt32(-1)
	}
	if len(value) > MaxStringLength {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(len(value))); err != nil {
		return err
	}
	if _, err := enc.w.Write(value); err != nil {
		return BadEncodingError
	}
	return nil
}

// WriteDataValue writes a DataValue. A nil DataValue is written as an empty mask.
func (enc *BinaryEncoder) WriteDataValue(value *DataValue) error {
	if value == nil {
		return enc.WriteByte(0)
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()

	var b byte
	if value.Value != nil {
		b |= 1
	}
	if value.StatusCode != Good {
		b |= 2
	}
	if !value.SourceTimestamp.IsZero() {
		b |= 4
	}
	if !value.ServerTimestamp.IsZero() {
		b |= 8
	}
	if err := enc.WriteByte(b); err != nil {
		return err
	}
	if (b & 1) != 0 {
		if err := enc.WriteVariant(value.Value); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := enc.WriteStatusCode(value.StatusCode); err != nil {
			return err
		}
	}
	if (b & 4) != 0 {
		if err := enc.WriteDateTime(value.SourceTimestamp); err != nil {
			return err
		}
	}
	if (b & 8) != 0 {
		if err := enc.WriteDateTime(value.ServerTimestamp); err != nil {
			return err
		}
	}
	return nil
}

// WriteVariant writes a Variant.
func (enc *BinaryEncoder) WriteVariant(value *Variant) error {
	if value.IsNil() {
		return enc.WriteByte(0)
	}
	if !value.variantType.IsValid() {
		return BadEncodingError
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()

	b := byte(value.variantType)
	if value.isArray {
		b |= 0x80
		if value.arrayDimensions != nil {
			b |= 0x40
			rv := reflect.ValueOf(value.value)
			if rv.Kind() != reflect.Slice || validateDimensions(value.arrayDimensions, rv.Len()) != nil {
				return BadEncodingError
			}
		}
	} else if value.arrayDimensions != nil {
		return BadEncodingError
	}
	if err := enc.WriteByte(b); err != nil {
		return err
	}
	if !value.isArray {
		return enc.writeScalar(value.variantType, value.value)
	}
	if err := enc.writeArray(value.variantType, value.value); err != nil {
		return err
	}
	if value.arrayDimensions != nil {
		return enc.WriteInt32Array(value.arrayDimensions)
	}
	return nil
}

func (enc *BinaryEncoder) writeScalar(typ VariantType, value interface{}) error {
	switch typ {
	case VariantTypeBoolean:
		return writeAs(value, enc.WriteBoolean)
	case VariantTypeSByte:
		return writeAs(value, enc.WriteSByte)
	case VariantTypeByte:
		return writeAs(value, enc.WriteByte)
	case VariantTypeInt16:
		return writeAs(value, enc.WriteInt16)
	case VariantTypeUInt16:
		return writeAs(value, enc.WriteUInt16)
	case VariantTypeInt32:
		return writeAs(value, enc.WriteInt32)
	case VariantTypeUInt32:
		return writeAs(value, enc.WriteUInt32)
	case VariantTypeInt64:
		return writeAs(value, enc.WriteInt64)
	case VariantTypeUInt64:
		return writeAs(value, enc.WriteUInt64)
	case VariantTypeFloat:
		return writeAs(value, enc.WriteFloat)
	case VariantTypeDouble:
		return writeAs(value, enc.WriteDouble)
	case VariantTypeString:
		return writeAs(value, enc.WriteString)
	case VariantTypeDateTime:
		return writeAs(value, enc.WriteDateTime)
	case VariantTypeGUID:
		return writeAs(value, enc.WriteGUID)
	case VariantTypeByteString:
		return writeAs(value, enc.WriteByteString)
	case VariantTypeXMLElement:
		return writeAs(value, enc.WriteXMLElement)
	case VariantTypeNodeID:
		return writeAs(value, enc.WriteNodeID)
	case VariantTypeExpandedNodeID:
		return writeAs(value, enc.WriteExpandedNodeID)
	case VariantTypeStatusCode:
		return writeAs(value, enc.WriteStatusCode)
	case VariantTypeQualifiedName:
		return writeAs(value, enc.WriteQualifiedName)
	case VariantTypeLocalizedText:
		return writeAs(value, enc.WriteLocalizedText)
	case VariantTypeExtensionObject:
		return writeAs(value, enc.WriteExtensionObject)
	case VariantTypeDataValue:
		return writeAs(value, enc.WriteDataValue)
	case VariantTypeVariant:
		return writeAs(value, enc.WriteVariant)
	case VariantTypeDiagnosticInfo:
		return writeAs(value, enc.WriteDiagnosticInfo)
	}
	return BadEncodingError
}

func (enc *BinaryEncoder) writeArray(typ VariantType, value interface{}) error {
	switch typ {
	case VariantTypeBoolean:
		return writeAs(value, enc.WriteBooleanArray)
	case VariantTypeSByte:
		return writeAs(value, enc.WriteSByteArray)
	case VariantTypeByte:
		return writeAs(value, enc.WriteByteArray)
	case VariantTypeInt16:
		return writeAs(value, enc.WriteInt16Array)
	case VariantTypeUInt16:
		return writeAs(value, enc.WriteUInt16Array)
	case VariantTypeInt32:
		return writeAs(value, enc.WriteInt32Array)
	case VariantTypeUInt32:
		return writeAs(value, enc.WriteUInt32Array)
	case VariantTypeInt64:
		return writeAs(value, enc.WriteInt64Array)
	case VariantTypeUInt64:
		return writeAs(value, enc.WriteUInt64Array)
	case VariantTypeFloat:
		return writeAs(value, enc.WriteFloatArray)
	case VariantTypeDouble:
		return writeAs(value, enc.WriteDoubleArray)
	case VariantTypeString:
		return writeAs(value, enc.WriteStringArray)
	case VariantTypeDateTime:
		return writeAs(value, enc.WriteDateTimeArray)
	case VariantTypeGUID:
		return writeAs(value, enc.WriteGUIDArray)
	case VariantTypeByteString:
		return writeAs(value, enc.WriteByteStringArray)
	case VariantTypeXMLElement:
		return writeAs(value, enc.WriteXMLElementArray)
	case VariantTypeNodeID:
		return writeAs(value, enc.WriteNodeIDArray)
	case VariantTypeExpandedNodeID:
		return writeAs(value, enc.WriteExpandedNodeIDArray)
	case VariantTypeStatusCode:
		return writeAs(value, enc.WriteStatusCodeArray)
	case VariantTypeQualifiedName:
		return writeAs(value, enc.WriteQualifiedNameArray)
	case VariantTypeLocalizedText:
		return writeAs(value, enc.WriteLocalizedTextArray)
	case VariantTypeExtensionObject:
		return writeAs(value, enc.WriteExtensionObjectArray)
	case VariantTypeDataValue:
		return writeAs(value, enc.WriteDataValueArray)
	case VariantTypeVariant:
		return writeAs(value, enc.WriteVariantArray)
	case VariantTypeDiagnosticInfo:
		return writeAs(value, enc.WriteDiagnosticInfoArray)
	}
	return BadEncodingError
}

// writeAs asserts the value has the Go type expected by the writer.
func writeAs[T any](value interface{}, write func(T) error) error {
	v, ok := value.(T)
	if !ok {
		return BadEncodingError
	}
	return write(v)
}

// WriteDiagnosticInfo writes a DiagnosticInfo. A nil DiagnosticInfo is written as an empty mask.
func (enc *BinaryEncoder) WriteDiagnosticInfo(value *DiagnosticInfo) error {
	if value == nil {
		return enc.WriteByte(0)
	}
	if err := enc.enter(); err != nil {
		return err
	}
	defer enc.leave()

	b := value.encodingMask()
	if err := enc.WriteByte(b); err != nil {
		return err
	}
	if (b & 1) != 0 {
		if err := enc.WriteInt32(value.SymbolicID); err != nil {
			return err
		}
	}
	if (b & 2) != 0 {
		if err := enc.WriteInt32(value.NamespaceURI); err != nil {
			return err
		}
	}
	if (b & 8) != 0 {
		if err := enc.WriteInt32(value.Locale); err != nil {
			return err
		}
	}
	if (b & 4) != 0 {
		if err := enc.WriteInt32(value.LocalizedText); err != nil {
			return err
		}
	}
	if (b & 16) != 0 {
		if err := enc.WriteString(value.AdditionalInfo); err != nil {
			return err
		}
	}
	if (b & 32) != 0 {
		if err := enc.WriteStatusCode(value.InnerStatusCode); err != nil {
			return err
		}
	}
	if (b & 64) != 0 {
		if err := enc.WriteDiagnosticInfo(value.InnerDiagnosticInfo); err != nil {
			return err
		}
	}
	return nil
}

// writeSlice writes the int32 length followed by each element. A nil slice is written as -1.
func writeSlice[T any](enc *BinaryEncoder, value []T, write func(T) error) error {
	if value == nil {
		return enc.WriteInt32(-1)
	}
	if len(value) > MaxArrayLength {
		return BadEncodingLimitsExceeded
	}
	if err := enc.WriteInt32(int32(len(value))); err != nil {
		return err
	}
	for i := range value {
		if err := write(value[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteBooleanArray writes a bool array.
func (enc *BinaryEncoder) WriteBooleanArray(value []bool) error {
	return writeSlice(enc, value, enc.WriteBoolean)
}

// WriteSByteArray writes a int8 array.
func (enc *BinaryEncoder) WriteSByteArray(value []int8) error {
	return writeSlice(enc, value, enc.WriteSByte)
}

// WriteByteArray writes a byte array.
func (enc *BinaryEncoder) WriteByteArray(value []byte) error {
	return enc.writeBytes(value)
}

// WriteInt16Array writes a int16 array.
func (enc *BinaryEncoder) WriteInt16Array(value []int16) error {
	return writeSlice(enc, value, enc.WriteInt16)
}

// WriteUInt16Array writes a uint16 array.
func (enc *BinaryEncoder) WriteUInt16Array(value []uint16) error {
	return writeSlice(enc, value, enc.WriteUInt16)
}

// WriteInt32Array writes a int32 array.
func (enc *BinaryEncoder) WriteInt32Array(value []int32) error {
	return writeSlice(enc, value, enc.WriteInt32)
}

// WriteUInt32Array writes a uint32 array.
func (enc *BinaryEncoder) WriteUInt32Array(value []uint32) error {
	return writeSlice(enc, value, enc.WriteUInt32)
}

// WriteInt64Array writes a int64 array.
func (enc *BinaryEncoder) WriteInt64Array(value []int64) error {
	return writeSlice(enc, value, enc.WriteInt64)
}

// WriteUInt64Array writes a uint64 array.
func (enc *BinaryEncoder) WriteUInt64Array(value []uint64) error {
	return writeSlice(enc, value, enc.WriteUInt64)
}

// WriteFloatArray writes a float32 array.
func (enc *BinaryEncoder) WriteFloatArray(value []float32) error {
	return writeSlice(enc, value, enc.WriteFloat)
}

// WriteDoubleArray writes a float64 array.
func (enc *BinaryEncoder) WriteDoubleArray(value []float64) error {
	return writeSlice(enc, value, enc.WriteDouble)
}

// WriteStringArray writes a string array.
func (enc *BinaryEncoder) WriteStringArray(value []string) error {
	return writeSlice(enc, value, enc.WriteString)
}

// WriteDateTimeArray writes a Time array.
func (enc *BinaryEncoder) WriteDateTimeArray(value []time.Time) error {
	return writeSlice(enc, value, enc.WriteDateTime)
}

// WriteGUIDArray writes a UUID array.
func (enc *BinaryEncoder) WriteGUIDArray(value []uuid.UUID) error {
	return writeSlice(enc, value, enc.WriteGUID)
}

// WriteByteStringArray writes a ByteString array.
func (enc *BinaryEncoder) WriteByteStringArray(value []ByteString) error {
	return writeSlice(enc, value, enc.WriteByteString)
}

// WriteXMLElementArray writes a XmlElement array.
func (enc *BinaryEncoder) WriteXMLElementArray(value []XMLElement) error {
	return writeSlice(enc, value, enc.WriteXMLElement)
}

// WriteNodeIDArray writes a NodeID array.
func (enc *BinaryEncoder) WriteNodeIDArray(value []NodeID) error {
	return writeSlice(enc, value, enc.WriteNodeID)
}

// WriteExpandedNodeIDArray writes a ExpandedNodeID array.
func (enc *BinaryEncoder) WriteExpandedNodeIDArray(value []ExpandedNodeID) error {
	return writeSlice(enc, value, enc.WriteExpandedNodeID)
}

// WriteStatusCodeArray writes a StatusCode array.
func (enc *BinaryEncoder) WriteStatusCodeArray(value []StatusCode) error {
	return writeSlice(enc, value, enc.WriteStatusCode)
}

// WriteQualifiedNameArray writes a QualifiedName array.
func (enc *BinaryEncoder) WriteQualifiedNameArray(value []QualifiedName) error {
	return writeSlice(enc, value, enc.WriteQualifiedName)
}

// WriteLocalizedTextArray writes a LocalizedText array.
func (enc *BinaryEncoder) WriteLocalizedTextArray(value []LocalizedText) error {
	return writeSlice(enc, value, enc.WriteLocalizedText)
}

// WriteExtensionObjectArray writes a ExtensionObject array.
func (enc *BinaryEncoder) WriteExtensionObjectArray(value []*ExtensionObject) error {
	return writeSlice(enc, value, enc.WriteExtensionObject)
}

// WriteDataValueArray writes a DataValue array.
func (enc *BinaryEncoder) WriteDataValueArray(value []*DataValue) error {
	return writeSlice(enc, value, enc.WriteDataValue)
}

// WriteVariantArray writes a Variant array.
func (enc *BinaryEncoder) WriteVariantArray(value []*Variant) error {
	return writeSlice(enc, value, enc.WriteVariant)
}

// WriteDiagnosticInfoArray writes a DiagnosticInfo array.
func (enc *BinaryEncoder) WriteDiagnosticInfoArray(value []*DiagnosticInfo) error {
	return writeSlice(enc, value, enc.WriteDiagnosticInfo)
}
