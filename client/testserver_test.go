// Copyright 2021 Converter Systems LLC. All rights reserved.

package client_test

import (
	"bytes"
	"context"
	"sync"

	"github.com/awcullen/uastream/client"
	"github.com/awcullen/uastream/ua"
)

// testServer answers the subscription services in memory. Every request and response
// passes through the binary codec, as it would on a real channel.
type testServer struct {
	reg *ua.TypeRegistry

	sync.Mutex
	dials              int
	failDials          int
	nextSubscriptionID uint32
	nextItemID         uint32
	subscriptionID     uint32
	current            *testChannel
	createCalls        [][]ua.MonitoredItemCreateRequest
	deletedItems       []uint32
	deletedSubs        []uint32
	publishHints       []uint32

	// onPublish answers publish requests. The default blocks until the call is cancelled.
	onPublish func(ctx context.Context, req *ua.PublishRequest) (*ua.PublishResponse, error)
	// onCreate, if set, is called before each CreateMonitoredItems call is answered.
	onCreate func()
	connected chan struct{}
}

func newTestServer() *testServer {
	reg := ua.NewTypeRegistry()
	ua.RegisterSubscriptionTypes(reg)
	return &testServer{
		reg:       reg,
		connected: make(chan struct{}, 16),
	}
}

// Dial is a client.Dialer.
func (srv *testServer) Dial(ctx context.Context) (client.Channel, error) {
	srv.Lock()
	defer srv.Unlock()
	srv.dials++
	if srv.failDials > 0 {
		srv.failDials--
		return nil, ua.BadServerNotConnected
	}
	ch := &testChannel{srv: srv, done: make(chan struct{})}
	srv.current = ch
	select {
	case srv.connected <- struct{}{}:
	default:
	}
	return ch, nil
}

// dropConnection closes the current channel as if the transport failed.
func (srv *testServer) dropConnection() {
	srv.Lock()
	ch := srv.current
	srv.Unlock()
	if ch != nil {
		ch.close()
	}
}

// createdHandles returns the client handles of each CreateMonitoredItems call.
func (srv *testServer) createdHandles() [][]uint32 {
	srv.Lock()
	defer srv.Unlock()
	calls := make([][]uint32, 0, len(srv.createCalls))
	for _, items := range srv.createCalls {
		handles := make([]uint32, 0, len(items))
		for _, item := range items {
			handles = append(handles, item.RequestedParameters.ClientHandle)
		}
		calls = append(calls, handles)
	}
	return calls
}

func (srv *testServer) resetCalls() {
	srv.Lock()
	srv.createCalls = nil
	srv.Unlock()
}

func (srv *testServer) handle(ctx context.Context, ch *testChannel, msg interface{}) (ua.ServiceResponse, error) {
	switch req := msg.(type) {
	case *ua.CreateSubscriptionRequest:
		srv.Lock()
		srv.nextSubscriptionID++
		srv.subscriptionID = srv.nextSubscriptionID
		res := &ua.CreateSubscriptionResponse{
			SubscriptionID:            srv.subscriptionID,
			RevisedPublishingInterval: req.RequestedPublishingInterval,
			RevisedLifetimeCount:      req.RequestedLifetimeCount,
			RevisedMaxKeepAliveCount:  req.RequestedMaxKeepAliveCount,
		}
		srv.Unlock()
		return res, nil

	case *ua.ModifySubscriptionRequest:
		return &ua.ModifySubscriptionResponse{
			RevisedPublishingInterval: req.RequestedPublishingInterval,
			RevisedLifetimeCount:      req.RequestedLifetimeCount,
			RevisedMaxKeepAliveCount:  req.RequestedMaxKeepAliveCount,
		}, nil

	case *ua.SetPublishingModeRequest:
		return &ua.SetPublishingModeResponse{Results: make([]ua.StatusCode, len(req.SubscriptionIDs))}, nil

	case *ua.DeleteSubscriptionsRequest:
		srv.Lock()
		defer srv.Unlock()
		results := make([]ua.StatusCode, len(req.SubscriptionIDs))
		for i, id := range req.SubscriptionIDs {
			if id == 0 || id > srv.nextSubscriptionID {
				return &ua.ServiceFault{ResponseHeader: ua.ResponseHeader{ServiceResult: ua.BadNoSubscription}}, nil
			}
			srv.deletedSubs = append(srv.deletedSubs, id)
			results[i] = ua.Good
		}
		return &ua.DeleteSubscriptionsResponse{Results: results}, nil

	case *ua.CreateMonitoredItemsRequest:
		srv.Lock()
		onCreate := srv.onCreate
		srv.Unlock()
		if onCreate != nil {
			onCreate()
		}
		srv.Lock()
		defer srv.Unlock()
		srv.createCalls = append(srv.createCalls, req.ItemsToCreate)
		results := make([]ua.MonitoredItemCreateResult, len(req.ItemsToCreate))
		for i, item := range req.ItemsToCreate {
			if item.ItemToMonitor.NodeID.NamespaceIndex() == 9 {
				results[i] = ua.MonitoredItemCreateResult{StatusCode: ua.BadNodeIDUnknown}
				continue
			}
			srv.nextItemID++
			results[i] = ua.MonitoredItemCreateResult{
				MonitoredItemID:         srv.nextItemID,
				RevisedSamplingInterval: item.RequestedParameters.SamplingInterval,
				RevisedQueueSize:        item.RequestedParameters.QueueSize,
			}
		}
		return &ua.CreateMonitoredItemsResponse{Results: results}, nil

	case *ua.ModifyMonitoredItemsRequest:
		results := make([]ua.MonitoredItemModifyResult, len(req.ItemsToModify))
		for i, item := range req.ItemsToModify {
			results[i] = ua.MonitoredItemModifyResult{
				RevisedSamplingInterval: item.RequestedParameters.SamplingInterval,
				RevisedQueueSize:        item.RequestedParameters.QueueSize,
			}
		}
		return &ua.ModifyMonitoredItemsResponse{Results: results}, nil

	case *ua.DeleteMonitoredItemsRequest:
		srv.Lock()
		defer srv.Unlock()
		srv.deletedItems = append(srv.deletedItems, req.MonitoredItemIDs...)
		return &ua.DeleteMonitoredItemsResponse{Results: make([]ua.StatusCode, len(req.MonitoredItemIDs))}, nil

	case *ua.PublishRequest:
		srv.Lock()
		srv.publishHints = append(srv.publishHints, req.RequestHeader.TimeoutHint)
		onPublish := srv.onPublish
		srv.Unlock()
		if onPublish != nil {
			return onPublish(ctx, req)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch.done:
			return nil, ua.BadConnectionClosed
		}

	default:
		return &ua.ServiceFault{ResponseHeader: ua.ResponseHeader{ServiceResult: ua.BadServiceUnsupported}}, nil
	}
}

// testChannel is a client.Channel connected to a testServer.
type testChannel struct {
	srv  *testServer
	done chan struct{}
	once sync.Once
}

func (ch *testChannel) close() {
	ch.once.Do(func() { close(ch.done) })
}

func (ch *testChannel) Request(ctx context.Context, req ua.ServiceRequest) (ua.ServiceResponse, error) {
	select {
	case <-ch.done:
		return nil, ua.BadConnectionClosed
	default:
	}
	buf := &bytes.Buffer{}
	if err := ua.NewBinaryEncoder(buf, ch.srv.reg).WriteMessage(req); err != nil {
		return nil, err
	}
	msg, err := ua.NewBinaryDecoder(buf, ch.srv.reg).ReadMessage()
	if err != nil {
		return nil, err
	}
	res, err := ch.srv.handle(ctx, ch, msg)
	if err != nil {
		return nil, err
	}
	res.Header().RequestHandle = req.Header().RequestHandle
	buf.Reset()
	if err := ua.NewBinaryEncoder(buf, ch.srv.reg).WriteMessage(res); err != nil {
		return nil, err
	}
	out, err := ua.NewBinaryDecoder(buf, ch.srv.reg).ReadMessage()
	if err != nil {
		return nil, err
	}
	return out.(ua.ServiceResponse), nil
}

func (ch *testChannel) Close(ctx context.Context) error {
	ch.close()
	return nil
}

func (ch *testChannel) Abort(ctx context.Context) error {
	ch.close()
	return nil
}

func (ch *testChannel) Done() <-chan struct{} {
	return ch.done
}

// dataChangeResponse returns a publish response carrying one data change per handle.
func dataChangeResponse(subscriptionID, seq uint32, acks int, handles ...uint32) *ua.PublishResponse {
	items := make([]ua.MonitoredItemNotification, len(handles))
	for i, h := range handles {
		items[i] = ua.MonitoredItemNotification{
			ClientHandle: h,
			Value:        &ua.DataValue{Value: ua.MustNewVariant(int32(seq)), StatusCode: ua.Good},
		}
	}
	return &ua.PublishResponse{
		SubscriptionID: subscriptionID,
		NotificationMessage: ua.NotificationMessage{
			SequenceNumber: seq,
			NotificationData: []*ua.ExtensionObject{
				ua.NewExtensionObject(&ua.DataChangeNotification{MonitoredItems: items}),
			},
		},
		Results: make([]ua.StatusCode, acks),
	}
}
