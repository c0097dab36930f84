// Copyright 2021 Converter Systems LLC. All rights reserved.

package client_test

import (
	"context"
	"fmt"
	"time"

	"github.com/awcullen/uastream/client"
	"github.com/awcullen/uastream/ua"
)

// This example demonstrates subscribing to a variable and receiving data changes.
func ExampleSupervisor() {
	// the test server answers the first publish request with a sample of handle 1.
	srv := newTestServer()
	srv.onPublish = func(ctx context.Context, req *ua.PublishRequest) (*ua.PublishResponse, error) {
		srv.Lock()
		id := srv.subscriptionID
		first := len(srv.publishHints) == 1
		srv.Unlock()
		if first {
			return dataChangeResponse(id, 1, 0, 1), nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	// the supervisor dials, creates the subscription and keeps it alive.
	sup, err := client.NewSupervisor(srv.Dial,
		client.WithPublishingInterval(500*time.Millisecond),
		client.WithMaxPublishRequests(1),
	)
	if err != nil {
		fmt.Printf("Error creating supervisor. %s\n", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// items may be added before or after Run.
	handle, err := sup.Subscribe(ctx, ua.NewNodeIDString(2, "Demo.Dynamic.Scalar.Int32"))
	if err != nil {
		fmt.Printf("Error subscribing. %s\n", err.Error())
		return
	}
	go sup.Run(ctx)

	dc := <-sup.DataChanges()
	fmt.Println(dc.ClientHandle == handle, dc.Value.Value.Value())

	// delete the subscription and stop.
	if err := sup.DeleteSubscription(ctx); err != nil {
		fmt.Printf("Error deleting subscription. %s\n", err.Error())
	}

	// Output:
	// true 1
}
