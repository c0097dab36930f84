// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"bytes"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/awcullen/uastream/ua"
	"gotest.tools/assert"
)

// Vector is a custom structure of namespace 2.
type Vector struct {
	X float64
	Y float64
	Z float64
}

var vectorEncodingID = ua.NewNodeIDNumeric(2, 5001)

func TestExtensionObjectRegistered(t *testing.T) {
	reg := ua.NewTypeRegistry()
	assert.Assert(t, ua.RegisterStructure[Vector](reg, vectorEncodingID))

	in := ua.NewExtensionObject(&Vector{X: 1, Y: 2, Z: 3})
	buf := &bytes.Buffer{}
	enc := ua.NewBinaryEncoder(buf, reg)
	assert.NilError(t, enc.WriteExtensionObject(in))
	assert.DeepEqual(t, buf.Bytes()[:9], []byte{0x01, 0x02, 0x89, 0x13, 0x01, 0x18, 0x00, 0x00, 0x00})

	dec := ua.NewBinaryDecoder(buf, reg)
	var out *ua.ExtensionObject
	assert.NilError(t, dec.ReadExtensionObject(&out))
	assert.Assert(t, out.IsDecoded())
	assert.Equal(t, out.TypeID, vectorEncodingID)
	assert.DeepEqual(t, out.Value, &Vector{X: 1, Y: 2, Z: 3})
	assert.Assert(t, out.Body == nil)
}

func TestExtensionObjectUnknownKeepsBody(t *testing.T) {
	bs := []byte{
		0x01, 0x02, 0x89, 0x13, // type id
		0x01,                   // binary body
		0x03, 0x00, 0x00, 0x00, // length
		0xaa, 0xbb, 0xcc,
	}
	dec := ua.NewBinaryDecoder(bytes.NewReader(bs), ua.NewTypeRegistry())
	var out *ua.ExtensionObject
	assert.NilError(t, dec.ReadExtensionObject(&out))
	assert.Assert(t, !out.IsDecoded())
	assert.Equal(t, out.TypeID, vectorEncodingID)
	assert.Equal(t, out.Encoding, ua.ExtensionObjectEncodingByteString)
	assert.DeepEqual(t, out.Body, []byte{0xaa, 0xbb, 0xcc})

	// re-encoding reproduces the input
	buf := &bytes.Buffer{}
	enc := ua.NewBinaryEncoder(buf, nil)
	assert.NilError(t, enc.WriteExtensionObject(out))
	assert.DeepEqual(t, buf.Bytes(), bs)
}

func TestExtensionObjectDecoderFailureKeepsBody(t *testing.T) {
	bs := []byte{0x01, 0x02, 0x89, 0x13, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x02}
	decoders := map[string]ua.DecodeFunc{
		"error": func(dec *ua.BinaryDecoder) (interface{}, error) {
			return nil, errors.New("bad body")
		},
		"short": func(dec *ua.BinaryDecoder) (interface{}, error) {
			var v float64
			if err := dec.ReadDouble(&v); err != nil {
				return nil, err
			}
			return v, nil
		},
		"panic": func(dec *ua.BinaryDecoder) (interface{}, error) {
			panic("boom")
		},
	}
	for name, f := range decoders {
		t.Run(name, func(t *testing.T) {
			reg := ua.NewTypeRegistry()
			reg.RegisterDecoder(vectorEncodingID, f)
			dec := ua.NewBinaryDecoder(bytes.NewReader(bs), reg)
			var out *ua.ExtensionObject
			assert.NilError(t, dec.ReadExtensionObject(&out))
			assert.Assert(t, !out.IsDecoded())
			assert.DeepEqual(t, out.Body, []byte{0x01, 0x02})
		})
	}
}

func TestExtensionObjectEncodings(t *testing.T) {
	cases := []struct {
		in    *ua.ExtensionObject
		bytes []byte
	}{
		{
			nil,
			[]byte{0x00, 0x00, 0x00},
		},
		{
			ua.NewExtensionObjectBody(vectorEncodingID, ua.ExtensionObjectEncodingNone, nil),
			[]byte{0x01, 0x02, 0x89, 0x13, 0x00},
		},
		{
			ua.NewExtensionObjectBody(vectorEncodingID, ua.ExtensionObjectEncodingXMLElement, []byte("<v/>")),
			[]byte{0x01, 0x02, 0x89, 0x13, 0x02, 0x04, 0x00, 0x00, 0x00, 0x3c, 0x76, 0x2f, 0x3e},
		},
	}
	for _, c := range cases {
		buf := &bytes.Buffer{}
		enc := ua.NewBinaryEncoder(buf, nil)
		assert.NilError(t, enc.WriteExtensionObject(c.in))
		assert.DeepEqual(t, buf.Bytes(), c.bytes)

		dec := ua.NewBinaryDecoder(buf, nil)
		var out *ua.ExtensionObject
		assert.NilError(t, dec.ReadExtensionObject(&out))
		assert.DeepEqual(t, out, c.in)
	}
}

func TestExtensionObjectWithoutEncoder(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := ua.NewBinaryEncoder(buf, ua.NewTypeRegistry())
	assert.Equal(t, enc.WriteExtensionObject(ua.NewExtensionObject(&Vector{})), ua.BadEncodingError)
	enc = ua.NewBinaryEncoder(buf, nil)
	assert.Equal(t, enc.WriteVariant(ua.NewVariantObject(&Vector{})), ua.BadEncodingError)
}

func TestVariantObject(t *testing.T) {
	reg := ua.NewTypeRegistry()
	ua.RegisterStructure[Vector](reg, vectorEncodingID)
	buf := &bytes.Buffer{}
	enc := ua.NewBinaryEncoder(buf, reg)
	assert.NilError(t, enc.WriteVariant(ua.NewVariantObject(&Vector{X: 4})))
	assert.Equal(t, buf.Bytes()[0], byte(ua.VariantTypeExtensionObject))

	dec := ua.NewBinaryDecoder(buf, reg)
	var out *ua.Variant
	assert.NilError(t, dec.ReadVariant(&out))
	eo, ok := out.Value().(*ua.ExtensionObject)
	assert.Assert(t, ok)
	assert.DeepEqual(t, eo.Value, &Vector{X: 4})
}

func TestRegisterFirstWins(t *testing.T) {
	reg := ua.NewTypeRegistry()
	first := func(dec *ua.BinaryDecoder) (interface{}, error) { return "first", nil }
	second := func(dec *ua.BinaryDecoder) (interface{}, error) { return "second", nil }
	assert.Assert(t, reg.RegisterDecoder(vectorEncodingID, first))
	assert.Assert(t, !reg.RegisterDecoder(vectorEncodingID, second))
	assert.Equal(t, reg.Len(), 1)

	bs := []byte{0x01, 0x02, 0x89, 0x13, 0x01, 0x00, 0x00, 0x00, 0x00}
	dec := ua.NewBinaryDecoder(bytes.NewReader(bs), reg)
	var out *ua.ExtensionObject
	assert.NilError(t, dec.ReadExtensionObject(&out))
	assert.Equal(t, out.Value, "first")

	// same type under another id is refused
	assert.Assert(t, ua.RegisterStructure[Vector](reg, ua.NewNodeIDNumeric(2, 6001)))
	assert.Assert(t, !ua.RegisterStructure[Vector](reg, ua.NewNodeIDNumeric(2, 6002)))
	id, ok := reg.BinaryEncodingID(&Vector{})
	assert.Assert(t, ok)
	assert.Equal(t, id, ua.NewNodeIDNumeric(2, 6001))
}

func TestRegistryUnregisterAndClear(t *testing.T) {
	reg := ua.NewTypeRegistry()
	ua.RegisterSubscriptionTypes(reg)
	n := reg.Len()
	assert.Assert(t, n > 0)
	ua.RegisterSubscriptionTypes(reg)
	assert.Equal(t, reg.Len(), n)

	reg.Unregister(ua.ObjectIDPublishResponseEncodingDefaultBinary)
	assert.Equal(t, reg.Len(), n-1)
	_, ok := reg.BinaryEncodingID(&ua.PublishResponse{})
	assert.Assert(t, !ok)

	reg.Clear()
	assert.Equal(t, reg.Len(), 0)
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	reg := ua.NewTypeRegistry()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reg.Register(reflect.TypeOf(&Vector{}), vectorEncodingID, func(enc *ua.BinaryEncoder, v interface{}) error {
				return enc.Encode(v)
			}, nil) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, wins, 1)
}

func TestRegisterStructureRequiresStruct(t *testing.T) {
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	ua.RegisterStructure[int32](ua.NewTypeRegistry(), vectorEncodingID)
}

func TestMessageRoundTrip(t *testing.T) {
	reg := ua.NewTypeRegistry()
	ua.RegisterSubscriptionTypes(reg)
	in := &ua.CreateMonitoredItemsRequest{
		RequestHeader:      ua.RequestHeader{RequestHandle: 42, TimeoutHint: 5000},
		SubscriptionID:     7,
		TimestampsToReturn: ua.TimestampsToReturnBoth,
		ItemsToCreate: []ua.MonitoredItemCreateRequest{
			{
				ItemToMonitor:  ua.ReadValueID{NodeID: ua.NewNodeIDString(2, "Demo.Dynamic.Scalar.Float"), AttributeID: ua.AttributeIDValue},
				MonitoringMode: ua.MonitoringModeReporting,
				RequestedParameters: ua.MonitoringParameters{
					ClientHandle:     1,
					SamplingInterval: -1,
					QueueSize:        1,
					DiscardOldest:    true,
				},
			},
		},
	}
	buf := &bytes.Buffer{}
	enc := ua.NewBinaryEncoder(buf, reg)
	assert.NilError(t, enc.WriteMessage(in))
	assert.DeepEqual(t, buf.Bytes()[:4], []byte{0x01, 0x00, 0xef, 0x02})

	dec := ua.NewBinaryDecoder(buf, reg)
	out, err := dec.ReadMessage()
	assert.NilError(t, err)
	assert.DeepEqual(t, out, in)

	// unknown message id
	dec = ua.NewBinaryDecoder(bytes.NewReader([]byte{0x01, 0x00, 0x01, 0x01}), reg)
	_, err = dec.ReadMessage()
	assert.Equal(t, err, ua.BadDataTypeIDUnknown)
}

func TestDecodeBody(t *testing.T) {
	reg := ua.NewTypeRegistry()
	assert.Assert(t, ua.RegisterStructure[Vector](reg, vectorEncodingID))
	buf := &bytes.Buffer{}
	assert.NilError(t, ua.NewBinaryEncoder(buf, reg).Encode(&Vector{X: 1, Y: 2, Z: 3}))

	v, ok := reg.DecodeBody(ua.NewExtensionObjectBody(vectorEncodingID, ua.ExtensionObjectEncodingByteString, buf.Bytes()))
	assert.Assert(t, ok)
	assert.DeepEqual(t, v, &Vector{X: 1, Y: 2, Z: 3})

	// already decoded
	v, ok = reg.DecodeBody(ua.NewExtensionObject(&Vector{X: 4}))
	assert.Assert(t, ok)
	assert.DeepEqual(t, v, &Vector{X: 4})

	_, ok = reg.DecodeBody(ua.NewExtensionObjectBody(ua.NewNodeIDNumeric(2, 9999), ua.ExtensionObjectEncodingByteString, buf.Bytes()))
	assert.Assert(t, !ok)
	_, ok = reg.DecodeBody(ua.NewExtensionObjectBody(vectorEncodingID, ua.ExtensionObjectEncodingByteString, []byte{0x01}))
	assert.Assert(t, !ok)
	_, ok = reg.DecodeBody(nil)
	assert.Assert(t, !ok)
}
