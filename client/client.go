// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"

	"github.com/awcullen/uastream/ua"
)

// Channel is a secure channel with an activated session. Implementations handle
// request correlation, chunking, signing and encryption.
type Channel interface {
	// Request sends a service request to the server and returns the response.
	// The ctx carries the deadline and cancellation of the call.
	Request(ctx context.Context, req ua.ServiceRequest) (ua.ServiceResponse, error)
	// Close closes the session and channel gracefully.
	Close(ctx context.Context) error
	// Abort closes the channel without closing the session.
	Abort(ctx context.Context) error
	// Done is closed when the connection is lost.
	Done() <-chan struct{}
}

// Dialer opens a secure channel and activates a session.
type Dialer func(ctx context.Context) (Channel, error)
