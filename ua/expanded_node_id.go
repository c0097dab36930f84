// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandedNodeID identifies a Node that may reside on a remote server or in a namespace given by URI.
type ExpandedNodeID struct {
	serverIndex  uint32
	namespaceURI string
	nodeID       NodeID
}

// NewExpandedNodeID casts an ExpandedNodeID from a NodeID.
func NewExpandedNodeID(nodeID NodeID) ExpandedNodeID {
	return ExpandedNodeID{nodeID: nodeID}
}

// NewExpandedNodeIDWithURI constructs an ExpandedNodeID qualified by a namespace uri and server index.
func NewExpandedNodeIDWithURI(serverIndex uint32, namespaceURI string, nodeID NodeID) ExpandedNodeID {
	return ExpandedNodeID{serverIndex, namespaceURI, nodeID}
}

// NilExpandedNodeID is the nil value.
var NilExpandedNodeID = ExpandedNodeID{}

// ServerIndex returns the index in the servers table.
func (n ExpandedNodeID) ServerIndex() uint32 {
	return n.serverIndex
}

// NamespaceURI returns the namespace uri.
func (n ExpandedNodeID) NamespaceURI() string {
	return n.namespaceURI
}

// NodeID returns the local part.
func (n ExpandedNodeID) NodeID() NodeID {
	return n.nodeID
}

// IsNil returns true if the nodeId is nil
func (n ExpandedNodeID) IsNil() bool {
	if n.namespaceURI != "" || n.serverIndex != 0 {
		return false
	}
	return n.nodeID.IsNil()
}

// Equal returns true if both ExpandedNodeIDs are identical.
func (n ExpandedNodeID) Equal(other ExpandedNodeID) bool {
	return n == other
}

// ParseExpandedNodeID returns an ExpandedNodeID from a string representation.
//   - ParseExpandedNodeID("i=85")
//   - ParseExpandedNodeID("nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo.Static.Scalar.Float")
//   - ParseExpandedNodeID("svr=1;nsu=urn:foo;i=1001")
func ParseExpandedNodeID(s string) (ExpandedNodeID, error) {
	var svr uint64
	var err error
	if strings.HasPrefix(s, "svr=") {
		pos := strings.Index(s, ";")
		if pos == -1 {
			return NilExpandedNodeID, BadNodeIDInvalid
		}
		svr, err = strconv.ParseUint(s[4:pos], 10, 32)
		if err != nil {
			return NilExpandedNodeID, BadNodeIDInvalid
		}
		s = s[pos+1:]
	}
	var nsu string
	if strings.HasPrefix(s, "nsu=") {
		pos := strings.Index(s, ";")
		if pos == -1 {
			return NilExpandedNodeID, BadNodeIDInvalid
		}
		nsu = s[4:pos]
		s = s[pos+1:]
	}
	id, err := ParseNodeID(s)
	if err != nil {
		return NilExpandedNodeID, err
	}
	return ExpandedNodeID{uint32(svr), nsu, id}, nil
}

// String returns a string representation of the ExpandedNodeID, e.g. "nsu=http://www.unifiedautomation.com/DemoServer/;s=Demo"
func (n ExpandedNodeID) String() string {
	b := new(strings.Builder)
	if n.serverIndex > 0 {
		fmt.Fprintf(b, "svr=%d;", n.serverIndex)
	}
	if len(n.namespaceURI) > 0 {
		fmt.Fprintf(b, "nsu=%s;", n.namespaceURI)
	}
	b.WriteString(n.nodeID.String())
	return b.String()
}
