// Copyright 2021 Converter Systems LLC. All rights reserved.

package client_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/awcullen/uastream/client"
	"github.com/awcullen/uastream/ua"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/assert"
)

func waitStatus(t *testing.T, sup *client.Supervisor, want bool) {
	t.Helper()
	select {
	case got, ok := <-sup.ConnectionStatus():
		assert.Assert(t, ok, "connection status closed")
		assert.Equal(t, got, want)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for connection status %v", want)
	}
}

func runSupervisor(t *testing.T, sup *client.Supervisor) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- sup.Run(ctx) }()
	return cancel, result
}

func waitRun(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Run to return")
		return nil
	}
}

// TestReconnectReplay registers three nodes while disconnected, then checks every connection
// creates them with one call each, keeping the original handles in registration order.
func TestReconnectReplay(t *testing.T) {
	srv := newTestServer()
	sup, err := client.NewSupervisor(srv.Dial,
		client.WithPublishingInterval(10*time.Millisecond),
		client.WithReconnectDelay(10*time.Millisecond),
		client.WithIdlePollInterval(time.Hour),
	)
	assert.NilError(t, err)
	ctx := context.Background()
	nodes := []ua.NodeID{
		ua.NewNodeIDNumeric(2, 1001),
		ua.NewNodeIDString(2, "Demo.Static.Scalar.Double"),
		ua.NewNodeIDNumeric(2, 1003),
	}
	for i, n := range nodes {
		h, err := sup.Subscribe(ctx, n)
		assert.NilError(t, err)
		assert.Equal(t, h, uint32(i+1))
		status, err := sup.ItemStatus(h)
		assert.NilError(t, err)
		assert.Equal(t, status, ua.BadWaitingForInitialData)
	}
	assert.Equal(t, sup.State(), client.Disconnected)

	cancel, result := runSupervisor(t, sup)
	waitStatus(t, sup, true)
	assert.Equal(t, sup.State(), client.Connected)
	assert.DeepEqual(t, srv.createdHandles(), [][]uint32{{1}, {2}, {3}})
	for h := uint32(1); h <= 3; h++ {
		status, err := sup.ItemStatus(h)
		assert.NilError(t, err)
		assert.Equal(t, status, ua.Good)
	}

	srv.resetCalls()
	srv.dropConnection()
	waitStatus(t, sup, false)
	waitStatus(t, sup, true)
	assert.DeepEqual(t, srv.createdHandles(), [][]uint32{{1}, {2}, {3}})
	srv.Lock()
	assert.Equal(t, srv.dials, 2)
	assert.Equal(t, srv.subscriptionID, uint32(2))
	srv.Unlock()
	assert.DeepEqual(t, sup.Handles(), []uint32{1, 2, 3})

	cancel()
	assert.Equal(t, waitRun(t, result), context.Canceled)
	_, ok := <-sup.DataChanges()
	assert.Assert(t, !ok)
}

func TestSupervisorDeliversDataChanges(t *testing.T) {
	srv := newTestServer()
	var mu sync.Mutex
	sent := false
	srv.onPublish = func(ctx context.Context, req *ua.PublishRequest) (*ua.PublishResponse, error) {
		mu.Lock()
		first := !sent
		sent = true
		mu.Unlock()
		if first {
			srv.Lock()
			id := srv.subscriptionID
			srv.Unlock()
			return dataChangeResponse(id, 1, len(req.SubscriptionAcknowledgements), 1, 2), nil
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	sup, err := client.NewSupervisor(srv.Dial, client.WithMaxPublishRequests(1), client.WithReconnectDelay(0))
	assert.NilError(t, err)
	ctx := context.Background()
	h1, err := sup.Subscribe(ctx, ua.NewNodeIDNumeric(2, 1))
	assert.NilError(t, err)
	h2, err := sup.SubscribeWithInterval(ctx, ua.NewNodeIDNumeric(2, 2), 250*time.Millisecond)
	assert.NilError(t, err)

	d := client.NewDispatcher()
	got := make(chan uint32, 2)
	var value interface{}
	d.Register(h1, func(v *ua.DataValue) { got <- h1 })
	d.Register(h2, func(v *ua.DataValue) {
		mu.Lock()
		value = v.Value.Value()
		mu.Unlock()
		got <- h2
	})

	cancel, result := runSupervisor(t, sup)
	dispatched := make(chan error, 1)
	go func() { dispatched <- d.Run(context.Background(), sup.DataChanges()) }()

	for _, want := range []uint32{h1, h2} {
		select {
		case h := <-got:
			assert.Equal(t, h, want)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for data change")
		}
	}
	mu.Lock()
	assert.Equal(t, value, int32(1))
	mu.Unlock()
	cancel()
	waitRun(t, result)
	assert.NilError(t, <-dispatched)

	srv.Lock()
	defer srv.Unlock()
	assert.Equal(t, srv.createCalls[1][0].RequestedParameters.SamplingInterval, 250.0)
	assert.Equal(t, srv.createCalls[0][0].RequestedParameters.SamplingInterval, -1.0)
}

func TestSupervisorSubscribeWhileConnected(t *testing.T) {
	srv := newTestServer()
	sup, err := client.NewSupervisor(srv.Dial, client.WithReconnectDelay(10*time.Millisecond))
	assert.NilError(t, err)
	cancel, result := runSupervisor(t, sup)
	defer func() {
		cancel()
		waitRun(t, result)
	}()
	waitStatus(t, sup, true)
	ctx := context.Background()

	h, err := sup.Subscribe(ctx, ua.NewNodeIDNumeric(2, 10))
	assert.NilError(t, err)
	status, err := sup.ItemStatus(h)
	assert.NilError(t, err)
	assert.Equal(t, status, ua.Good)

	bad, err := sup.Subscribe(ctx, ua.NewNodeIDNumeric(9, 10))
	assert.NilError(t, err)
	status, err = sup.ItemStatus(bad)
	assert.NilError(t, err)
	assert.Equal(t, status, ua.BadNodeIDUnknown)

	assert.NilError(t, sup.Unsubscribe(ctx, h))
	srv.Lock()
	assert.DeepEqual(t, srv.deletedItems, []uint32{1})
	srv.Unlock()
	assert.Equal(t, sup.Unsubscribe(ctx, h), error(ua.BadInvalidArgument))
	_, err = sup.ItemStatus(h)
	assert.Equal(t, err, error(ua.BadInvalidArgument))

	// a failed item is not created, so nothing is deleted on the server
	assert.NilError(t, sup.Unsubscribe(ctx, bad))
	srv.Lock()
	assert.DeepEqual(t, srv.deletedItems, []uint32{1})
	srv.Unlock()

	// handles are never reused
	h3, err := sup.Subscribe(ctx, ua.NewNodeIDNumeric(2, 11))
	assert.NilError(t, err)
	assert.Equal(t, h3, uint32(3))

	_, err = sup.Subscribe(ctx, ua.NodeID{})
	assert.Equal(t, err, error(ua.BadNodeIDInvalid))
}

func TestSupervisorRetriesDial(t *testing.T) {
	srv := newTestServer()
	srv.failDials = 2
	reg := prometheus.NewRegistry()
	m, err := client.NewMetrics(reg)
	assert.NilError(t, err)
	sup, err := client.NewSupervisor(srv.Dial,
		client.WithReconnectDelay(5*time.Millisecond),
		client.WithMetrics(m),
	)
	assert.NilError(t, err)
	cancel, result := runSupervisor(t, sup)
	waitStatus(t, sup, true)
	srv.Lock()
	assert.Equal(t, srv.dials, 3)
	srv.Unlock()
	assert.Equal(t, testutil.ToFloat64(m.Reconnects), 2.0)
	cancel()
	waitRun(t, result)
}

func TestSupervisorReconnectsAfterEngineFailure(t *testing.T) {
	srv := newTestServer()
	var mu sync.Mutex
	failures := 1
	srv.onPublish = func(ctx context.Context, req *ua.PublishRequest) (*ua.PublishResponse, error) {
		mu.Lock()
		fail := failures > 0
		failures--
		mu.Unlock()
		if fail {
			return nil, ua.BadTimeout
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	sup, err := client.NewSupervisor(srv.Dial,
		client.WithMaxPublishRequests(1),
		client.WithReconnectDelay(5*time.Millisecond),
	)
	assert.NilError(t, err)
	_, err = sup.Subscribe(context.Background(), ua.NewNodeIDNumeric(2, 1))
	assert.NilError(t, err)
	cancel, result := runSupervisor(t, sup)
	waitStatus(t, sup, true)
	waitStatus(t, sup, false)
	waitStatus(t, sup, true)
	assert.DeepEqual(t, srv.createdHandles(), [][]uint32{{1}, {1}})
	cancel()
	waitRun(t, result)
}

func TestSupervisorDeleteSubscription(t *testing.T) {
	srv := newTestServer()
	sup, err := client.NewSupervisor(srv.Dial, client.WithReconnectDelay(10*time.Millisecond))
	assert.NilError(t, err)
	_, result := runSupervisor(t, sup)
	waitStatus(t, sup, true)
	ctx := context.Background()
	assert.NilError(t, sup.DeleteSubscription(ctx))
	assert.NilError(t, waitRun(t, result))
	srv.Lock()
	assert.DeepEqual(t, srv.deletedSubs, []uint32{1})
	srv.Unlock()
	assert.NilError(t, sup.DeleteSubscription(ctx))
	_, err = sup.Subscribe(ctx, ua.NewNodeIDNumeric(2, 1))
	assert.Equal(t, err, error(ua.BadInvalidState))
	assert.Equal(t, sup.Run(ctx), error(ua.BadInvalidState))
}

func TestNewSupervisorOptions(t *testing.T) {
	srv := newTestServer()
	cases := []struct {
		name string
		opt  client.Option
		ok   bool
	}{
		{"publishing interval", client.WithPublishingInterval(0), false},
		{"keep alive", client.WithKeepAliveCount(0), false},
		{"lifetime", client.WithLifetimeCount(0), false},
		{"max publish requests", client.WithMaxPublishRequests(0), false},
		{"timeout multiplier", client.WithTimeoutMultiplier(0), false},
		{"min publish timeout", client.WithMinPublishTimeout(-time.Second), false},
		{"reconnect delay", client.WithReconnectDelay(-time.Second), false},
		{"idle poll", client.WithIdlePollInterval(0), false},
		{"queue size", client.WithQueueSize(0), false},
		{"notification queue", client.WithNotificationQueueSize(0), false},
		{"logger", client.WithLogger(nil), false},
		{"sampling interval", client.WithSamplingInterval(-5 * time.Second), true},
		{"discard oldest", client.WithDiscardOldest(false), true},
		{"priority", client.WithPriority(200), true},
		{"max notifications", client.WithMaxNotificationsPerPublish(100), true},
		{"trace", client.WithTrace(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := client.NewSupervisor(srv.Dial, c.opt)
			if c.ok {
				assert.NilError(t, err)
			} else {
				assert.Equal(t, err, error(ua.BadInvalidArgument))
			}
		})
	}
	_, err := client.NewSupervisor(nil)
	assert.Equal(t, err, error(ua.BadInvalidArgument))
}

func TestSupervisorDeleteSubscriptionDuringReplay(t *testing.T) {
	srv := newTestServer()
	replaying := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	srv.onCreate = func() {
		once.Do(func() { close(replaying) })
		<-release
	}
	sup, err := client.NewSupervisor(srv.Dial, client.WithReconnectDelay(10*time.Millisecond))
	assert.NilError(t, err)
	ctx := context.Background()
	_, err = sup.Subscribe(ctx, ua.NewNodeIDNumeric(2, 1))
	assert.NilError(t, err)

	_, result := runSupervisor(t, sup)
	select {
	case <-replaying:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for monitored items to be created")
	}
	assert.Equal(t, sup.State(), client.Connecting)
	assert.NilError(t, sup.DeleteSubscription(ctx))
	srv.Lock()
	assert.DeepEqual(t, srv.deletedSubs, []uint32{1})
	srv.Unlock()

	close(release)
	assert.NilError(t, waitRun(t, result))
	srv.Lock()
	defer srv.Unlock()
	assert.DeepEqual(t, srv.deletedSubs, []uint32{1})
}
