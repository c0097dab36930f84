// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"
	"sync"

	"github.com/awcullen/uastream/ua"
)

// Dispatcher calls the callback registered for the client handle of each data change.
type Dispatcher struct {
	sync.RWMutex
	callbacks map[uint32]func(*ua.DataValue)
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{callbacks: make(map[uint32]func(*ua.DataValue))}
}

// Register sets the callback of the client handle, replacing any earlier one.
func (d *Dispatcher) Register(handle uint32, fn func(*ua.DataValue)) {
	d.Lock()
	d.callbacks[handle] = fn
	d.Unlock()
}

// Unregister removes the callback of the client handle.
func (d *Dispatcher) Unregister(handle uint32) {
	d.Lock()
	delete(d.callbacks, handle)
	d.Unlock()
}

// Dispatch calls the callback of the data change. It returns false if none is registered.
func (d *Dispatcher) Dispatch(dc DataChange) bool {
	d.RLock()
	fn, ok := d.callbacks[dc.ClientHandle]
	d.RUnlock()
	if !ok {
		return false
	}
	fn(dc.Value)
	return true
}

// Run dispatches the data changes received on ch until ch is closed or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, ch <-chan DataChange) error {
	for {
		select {
		case dc, ok := <-ch:
			if !ok {
				return nil
			}
			d.Dispatch(dc)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
