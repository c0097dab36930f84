// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"fmt"
	"time"
)

// DataValue holds the value, quality and timestamps of a sample.
// A nil Value means the value is absent. Picoseconds are not retained.
type DataValue struct {
	Value           *Variant
	StatusCode      StatusCode
	SourceTimestamp time.Time
	ServerTimestamp time.Time
}

// NewDataValue returns a new DataValue.
func NewDataValue(value *Variant, statusCode StatusCode, sourceTimestamp time.Time, serverTimestamp time.Time) *DataValue {
	return &DataValue{value, statusCode, sourceTimestamp, serverTimestamp}
}

// InnerValue returns the value stored in the Variant, or nil if absent.
func (dv *DataValue) InnerValue() interface{} {
	if dv.Value.IsNil() {
		return nil
	}
	return dv.Value.Value()
}

func (dv *DataValue) String() string {
	return fmt.Sprintf("%v %s src=%s srv=%s", dv.Value, dv.StatusCode, dv.SourceTimestamp.Format(time.RFC3339Nano), dv.ServerTimestamp.Format(time.RFC3339Nano))
}
