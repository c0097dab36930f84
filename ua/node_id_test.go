// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua_test

import (
	"bytes"
	"testing"

	"github.com/awcullen/uastream/ua"
	"github.com/google/uuid"
	"gotest.tools/assert"
)

func TestNodeID(t *testing.T) {
	cases := []struct {
		in    ua.NodeID
		bytes []byte
	}{
		{
			ua.NewNodeIDNumeric(0, 200),
			[]byte{0x00, 0xc8},
		},
		{
			ua.NewNodeIDNumeric(0, 300),
			[]byte{0x01, 0x00, 0x2c, 0x01},
		},
		{
			ua.NewNodeIDNumeric(5, 200),
			[]byte{0x01, 0x05, 0xc8, 0x00},
		},
		{
			ua.NewNodeIDNumeric(300, 5),
			[]byte{0x02, 0x2c, 0x01, 0x05, 0x00, 0x00, 0x00},
		},
		{
			ua.NewNodeIDNumeric(2, 70000),
			[]byte{0x02, 0x02, 0x00, 0x70, 0x11, 0x01, 0x00},
		},
		{
			ua.NewNodeIDString(1, "Hot水"),
			[]byte{0x03, 0x01, 0x00, 0x06, 0x00, 0x00, 0x00, 0x48, 0x6f, 0x74, 0xe6, 0xb0, 0xb4},
		},
		{
			ua.NewNodeIDGUID(4, uuid.MustParse("72962B91-FA75-4AE6-8D28-B404DC7DAF63")),
			[]byte{
				0x04, 0x04, 0x00,
				0x91, 0x2b, 0x96, 0x72, 0x75, 0xfa, 0xe6, 0x4a, 0x8d, 0x28, 0xb4, 0x04, 0xdc, 0x7d, 0xaf, 0x63,
			},
		},
		{
			ua.NewNodeIDOpaque(1, ua.ByteString("\x01\x02")),
			[]byte{0x05, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0x02},
		},
	}
	for _, c := range cases {
		buf := &bytes.Buffer{}
		enc := ua.NewBinaryEncoder(buf, nil)
		if err := enc.WriteNodeID(c.in); err != nil {
			t.Fatal(err)
		}
		assert.DeepEqual(t, buf.Bytes(), c.bytes)

		dec := ua.NewBinaryDecoder(buf, nil)
		var out ua.NodeID
		if err := dec.ReadNodeID(&out); err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, out, c.in)
	}
}

func TestReadNodeIDRejectsExpandedFlags(t *testing.T) {
	for _, b := range []byte{0x40, 0x80, 0x10} {
		dec := ua.NewBinaryDecoder(bytes.NewReader([]byte{b, 0x05}), nil)
		var out ua.NodeID
		assert.Equal(t, dec.ReadNodeID(&out), ua.BadDecodingError)
	}
	dec := ua.NewBinaryDecoder(bytes.NewReader([]byte{0x06, 0x00}), nil)
	var out ua.NodeID
	assert.Equal(t, dec.ReadNodeID(&out), ua.BadDecodingError)
}

func TestExpandedNodeID(t *testing.T) {
	cases := []struct {
		in    ua.ExpandedNodeID
		bytes []byte
	}{
		{
			ua.NewExpandedNodeID(ua.NewNodeIDNumeric(0, 85)),
			[]byte{0x00, 0x55},
		},
		{
			ua.NewExpandedNodeIDWithURI(0, "urn:a", ua.NewNodeIDNumeric(0, 5)),
			[]byte{
				0x80, 0x05,
				0x05, 0x00, 0x00, 0x00, 0x75, 0x72, 0x6e, 0x3a, 0x61,
			},
		},
		{
			ua.NewExpandedNodeIDWithURI(2, "", ua.NewNodeIDString(1, "x")),
			[]byte{
				0x43, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x78,
				0x02, 0x00, 0x00, 0x00,
			},
		},
		{
			ua.NewExpandedNodeIDWithURI(1, "urn:a", ua.NewNodeIDNumeric(0, 5)),
			[]byte{
				0xc0, 0x05,
				// uri precedes server index
				0x05, 0x00, 0x00, 0x00, 0x75, 0x72, 0x6e, 0x3a, 0x61,
				0x01, 0x00, 0x00, 0x00,
			},
		},
	}
	for _, c := range cases {
		buf := &bytes.Buffer{}
		enc := ua.NewBinaryEncoder(buf, nil)
		if err := enc.WriteExpandedNodeID(c.in); err != nil {
			t.Fatal(err)
		}
		assert.DeepEqual(t, buf.Bytes(), c.bytes)

		dec := ua.NewBinaryDecoder(buf, nil)
		var out ua.ExpandedNodeID
		if err := dec.ReadExpandedNodeID(&out); err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, out, c.in)
	}
}

func TestParseNodeID(t *testing.T) {
	cases := []struct {
		s   string
		id  ua.NodeID
		err error
	}{
		{"i=85", ua.NewNodeIDNumeric(0, 85), nil},
		{"ns=2;s=Demo.Static.Scalar.Float", ua.NewNodeIDString(2, "Demo.Static.Scalar.Float"), nil},
		{"ns=2;g=5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c", ua.NewNodeIDGUID(2, uuid.MustParse("5ce9dbce-5d79-434c-9ac3-1cfba9a6e92c")), nil},
		{"ns=2;b=YWJjZA==", ua.NewNodeIDOpaque(2, ua.ByteString("abcd")), nil},
		{"ns=x;i=1", ua.NilNodeID, ua.BadNodeIDInvalid},
		{"ns=2", ua.NilNodeID, ua.BadNodeIDInvalid},
		{"q=1", ua.NilNodeID, ua.BadNodeIDInvalid},
		{"i=-1", ua.NilNodeID, ua.BadNodeIDInvalid},
	}
	for _, c := range cases {
		id, err := ua.ParseNodeID(c.s)
		if c.err != nil {
			assert.Equal(t, err, c.err)
			continue
		}
		assert.NilError(t, err)
		assert.Equal(t, id, c.id)
		assert.Equal(t, id.String(), c.s)
	}
}

func TestParseExpandedNodeID(t *testing.T) {
	for _, s := range []string{
		"i=85",
		"nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo.Static.Scalar.Float",
		"svr=1;nsu=urn:foo;i=1001",
	} {
		id, err := ua.ParseExpandedNodeID(s)
		assert.NilError(t, err)
		assert.Equal(t, id.String(), s)
	}
}

func TestNodeIDIsNil(t *testing.T) {
	assert.Assert(t, ua.NilNodeID.IsNil())
	assert.Assert(t, ua.NewNodeIDString(0, "").IsNil())
	assert.Assert(t, !ua.NewNodeIDNumeric(1, 0).IsNil())
	assert.Assert(t, !ua.NewExpandedNodeIDWithURI(0, "urn:a", ua.NilNodeID).IsNil())
}

func TestNodeIDAsMapKey(t *testing.T) {
	m := map[ua.NodeID]int{}
	m[ua.NewNodeIDString(2, "a")] = 1
	m[ua.NewNodeIDNumeric(2, 1)] = 2
	assert.Equal(t, m[ua.MustParseNodeID("ns=2;s=a")], 1)
	assert.Equal(t, m[ua.MustParseNodeID("ns=2;i=1")], 2)
}
