// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"
)

// EncodeFunc writes the body of a structure.
type EncodeFunc func(enc *BinaryEncoder, value interface{}) error

// DecodeFunc reads the body of a structure.
type DecodeFunc func(dec *BinaryDecoder) (interface{}, error)

type typeEncoder struct {
	id  NodeID
	enc EncodeFunc
}

// TypeRegistry maps binary encoding ids to decoders, and Go types to encoders.
// A registry is passed to the BinaryEncoder and BinaryDecoder, and may be shared by many of them.
// The first registration of an id or type wins.
type TypeRegistry struct {
	mu       sync.Mutex
	decoders map[NodeID]DecodeFunc
	encoders map[reflect.Type]typeEncoder
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		decoders: make(map[NodeID]DecodeFunc),
		encoders: make(map[reflect.Type]typeEncoder),
	}
}

// Register adds the encoder and decoder of a structure with the given binary encoding id.
// Returns false, leaving the registry unchanged, if the type or id is already registered.
// Either enc or dec may be nil.
func (r *TypeRegistry) Register(typ reflect.Type, id NodeID, enc EncodeFunc, dec DecodeFunc) bool {
	if typ == nil && enc != nil {
		panic("ua: Register with an encoder requires a type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if dec != nil {
		if _, ok := r.decoders[id]; ok {
			return false
		}
	}
	if enc != nil {
		if _, ok := r.encoders[typ]; ok {
			return false
		}
		r.encoders[typ] = typeEncoder{id, enc}
	}
	if dec != nil {
		r.decoders[id] = dec
	}
	return true
}

// RegisterDecoder adds a decoder for the given binary encoding id.
func (r *TypeRegistry) RegisterDecoder(id NodeID, dec DecodeFunc) bool {
	return r.Register(nil, id, nil, dec)
}

// Unregister removes the decoder of the id and every encoder writing that id.
func (r *TypeRegistry) Unregister(id NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.decoders, id)
	for typ, te := range r.encoders {
		if te.id == id {
			delete(r.encoders, typ)
		}
	}
}

// Clear removes all entries.
func (r *TypeRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders = make(map[NodeID]DecodeFunc)
	r.encoders = make(map[reflect.Type]typeEncoder)
}

// Len returns the number of registered decoders.
func (r *TypeRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.decoders)
}

// BinaryEncodingID returns the id registered for the type of the value.
func (r *TypeRegistry) BinaryEncodingID(value interface{}) (NodeID, bool) {
	id, _, ok := r.encoderFor(reflect.TypeOf(value))
	return id, ok
}

func (r *TypeRegistry) encoderFor(typ reflect.Type) (NodeID, EncodeFunc, bool) {
	if r == nil || typ == nil {
		return NilNodeID, nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	te, ok := r.encoders[typ]
	return te.id, te.enc, ok
}

func (r *TypeRegistry) decoderFor(id NodeID) (DecodeFunc, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dec, ok := r.decoders[id]
	return dec, ok
}

// DecodeBody decodes the raw body of the ExtensionObject with the decoder registered for its TypeID.
// A value already decoded is returned as is. Returns false if no decoder is registered, the body
// is not binary, or the decoder fails.
func (r *TypeRegistry) DecodeBody(eo *ExtensionObject) (interface{}, bool) {
	if eo == nil {
		return nil, false
	}
	if eo.Value != nil {
		return eo.Value, true
	}
	if eo.Encoding != ExtensionObjectEncodingByteString || eo.Body == nil {
		return nil, false
	}
	f, ok := r.decoderFor(eo.TypeID)
	if !ok {
		return nil, false
	}
	return decodeBody(f, NewBinaryDecoder(bytes.NewReader(eo.Body), r))
}

// RegisterStructure registers a plain struct type T with the given binary encoding id.
// Values are encoded from *T, field by field, and decoded into a new *T.
func RegisterStructure[T any](r *TypeRegistry, id NodeID) bool {
	typ := reflect.TypeOf((*T)(nil))
	if typ.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("ua: RegisterStructure requires a struct type, got %s", typ.Elem()))
	}
	return r.Register(typ, id,
		func(enc *BinaryEncoder, value interface{}) error {
			return enc.Encode(value)
		},
		func(dec *BinaryDecoder) (interface{}, error) {
			v := new(T)
			if err := dec.Decode(v); err != nil {
				return nil, err
			}
			return v, nil
		},
	)
}

// decodeBody runs the decoder against the body. Errors and panics are reported as
// ok == false so the caller can keep the raw body.
func decodeBody(dec DecodeFunc, sub *BinaryDecoder) (value interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			value, ok = nil, false
		}
	}()
	v, err := dec(sub)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}
