// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"
	"sync"
	"time"

	"github.com/awcullen/uastream/ua"
	"github.com/pkg/errors"
)

// SubscriptionParameters are the requested parameters of a Subscription.
type SubscriptionParameters struct {
	PublishingInterval         time.Duration
	KeepAliveCount             uint32
	LifetimeCount              uint32
	MaxNotificationsPerPublish uint32
	Priority                   byte
}

// ItemParameters are the requested parameters of a monitored item.
// A negative SamplingInterval requests the publishing interval of the Subscription.
type ItemParameters struct {
	SamplingInterval time.Duration
	QueueSize        uint32
	DiscardOldest    bool
}

func samplingIntervalMillis(d time.Duration) float64 {
	if d < 0 {
		return -1
	}
	return float64(d) / float64(time.Millisecond)
}

// Subscription is a server-side Subscription created on a Channel.
type Subscription struct {
	ch Channel
	id uint32

	sync.RWMutex
	revisedPublishingInterval float64
	revisedLifetimeCount      uint32
	revisedMaxKeepAliveCount  uint32
}

// CreateSubscription creates a Subscription with publishing enabled and returns a handle to it.
func CreateSubscription(ctx context.Context, ch Channel, params SubscriptionParameters) (*Subscription, error) {
	if params.PublishingInterval <= 0 || params.KeepAliveCount == 0 {
		return nil, ua.BadInvalidArgument
	}
	req := &ua.CreateSubscriptionRequest{
		RequestedPublishingInterval: float64(params.PublishingInterval) / float64(time.Millisecond),
		RequestedMaxKeepAliveCount:  params.KeepAliveCount,
		RequestedLifetimeCount:      params.LifetimeCount,
		MaxNotificationsPerPublish:  params.MaxNotificationsPerPublish,
		PublishingEnabled:           true,
		Priority:                    params.Priority,
	}
	res, err := createSubscription(ctx, ch, req)
	if err != nil {
		return nil, errors.Wrap(err, "create subscription")
	}
	return &Subscription{
		ch:                        ch,
		id:                        res.SubscriptionID,
		revisedPublishingInterval: res.RevisedPublishingInterval,
		revisedLifetimeCount:      res.RevisedLifetimeCount,
		revisedMaxKeepAliveCount:  res.RevisedMaxKeepAliveCount,
	}, nil
}

// ID returns the server-assigned id.
func (s *Subscription) ID() uint32 {
	return s.id
}

// Channel returns the channel the Subscription was created on.
func (s *Subscription) Channel() Channel {
	return s.ch
}

// PublishingInterval returns the revised publishing interval.
func (s *Subscription) PublishingInterval() time.Duration {
	s.RLock()
	defer s.RUnlock()
	return time.Duration(s.revisedPublishingInterval * float64(time.Millisecond))
}

// KeepAliveCount returns the revised max keep-alive count.
func (s *Subscription) KeepAliveCount() uint32 {
	s.RLock()
	defer s.RUnlock()
	return s.revisedMaxKeepAliveCount
}

// LifetimeCount returns the revised lifetime count.
func (s *Subscription) LifetimeCount() uint32 {
	s.RLock()
	defer s.RUnlock()
	return s.revisedLifetimeCount
}

// publishTimeout returns the longest time the server may stay silent, times the multiplier,
// but no less than min.
func (s *Subscription) publishTimeout(multiplier uint32, min time.Duration) time.Duration {
	s.RLock()
	ms := s.revisedPublishingInterval * float64(s.revisedMaxKeepAliveCount) * float64(multiplier)
	s.RUnlock()
	d := time.Duration(ms * float64(time.Millisecond))
	if d < min {
		return min
	}
	return d
}

// Modify changes the parameters of the Subscription.
func (s *Subscription) Modify(ctx context.Context, params SubscriptionParameters) error {
	if params.PublishingInterval <= 0 || params.KeepAliveCount == 0 {
		return ua.BadInvalidArgument
	}
	req := &ua.ModifySubscriptionRequest{
		SubscriptionID:              s.id,
		RequestedPublishingInterval: float64(params.PublishingInterval) / float64(time.Millisecond),
		RequestedMaxKeepAliveCount:  params.KeepAliveCount,
		RequestedLifetimeCount:      params.LifetimeCount,
		MaxNotificationsPerPublish:  params.MaxNotificationsPerPublish,
		Priority:                    params.Priority,
	}
	res, err := modifySubscription(ctx, s.ch, req)
	if err != nil {
		return errors.Wrap(err, "modify subscription")
	}
	s.Lock()
	s.revisedPublishingInterval = res.RevisedPublishingInterval
	s.revisedLifetimeCount = res.RevisedLifetimeCount
	s.revisedMaxKeepAliveCount = res.RevisedMaxKeepAliveCount
	s.Unlock()
	return nil
}

// SetPublishingMode enables or disables sending of notifications.
func (s *Subscription) SetPublishingMode(ctx context.Context, enabled bool) error {
	req := &ua.SetPublishingModeRequest{
		PublishingEnabled: enabled,
		SubscriptionIDs:   []uint32{s.id},
	}
	res, err := setPublishingMode(ctx, s.ch, req)
	if err != nil {
		return errors.Wrap(err, "set publishing mode")
	}
	if len(res.Results) != 1 {
		return ua.BadUnexpectedError
	}
	if res.Results[0].IsBad() {
		return res.Results[0]
	}
	return nil
}

// Delete removes the Subscription from the server.
func (s *Subscription) Delete(ctx context.Context) error {
	req := &ua.DeleteSubscriptionsRequest{
		SubscriptionIDs: []uint32{s.id},
	}
	res, err := deleteSubscriptions(ctx, s.ch, req)
	if err != nil {
		return errors.Wrap(err, "delete subscription")
	}
	if len(res.Results) != 1 {
		return ua.BadUnexpectedError
	}
	if res.Results[0].IsBad() {
		return res.Results[0]
	}
	return nil
}

// CreateMonitoredItems creates a monitored item for the Value attribute of each node.
// Results are returned one per node, in the order given. A bad status of an item is
// returned in its result, not as an error.
func (s *Subscription) CreateMonitoredItems(ctx context.Context, nodeIDs []ua.NodeID, clientHandles []uint32, params ItemParameters) ([]ua.MonitoredItemCreateResult, error) {
	if len(nodeIDs) != len(clientHandles) {
		return nil, ua.BadInvalidArgument
	}
	if len(nodeIDs) == 0 {
		return nil, ua.BadNothingToDo
	}
	items := make([]ua.MonitoredItemCreateRequest, len(nodeIDs))
	for i, id := range nodeIDs {
		items[i] = ua.MonitoredItemCreateRequest{
			ItemToMonitor:  ua.ReadValueID{NodeID: id, AttributeID: ua.AttributeIDValue},
			MonitoringMode: ua.MonitoringModeReporting,
			RequestedParameters: ua.MonitoringParameters{
				ClientHandle:     clientHandles[i],
				SamplingInterval: samplingIntervalMillis(params.SamplingInterval),
				QueueSize:        params.QueueSize,
				DiscardOldest:    params.DiscardOldest,
			},
		}
	}
	req := &ua.CreateMonitoredItemsRequest{
		SubscriptionID:     s.id,
		TimestampsToReturn: ua.TimestampsToReturnBoth,
		ItemsToCreate:      items,
	}
	res, err := createMonitoredItems(ctx, s.ch, req)
	if err != nil {
		return nil, errors.Wrap(err, "create monitored items")
	}
	if len(res.Results) != len(items) {
		return nil, ua.BadUnexpectedError
	}
	return res.Results, nil
}

// ModifyMonitoredItems changes the parameters of monitored items. Results are returned one per item,
// in the order given.
func (s *Subscription) ModifyMonitoredItems(ctx context.Context, monitoredItemIDs []uint32, clientHandles []uint32, params ItemParameters) ([]ua.MonitoredItemModifyResult, error) {
	if len(monitoredItemIDs) != len(clientHandles) {
		return nil, ua.BadInvalidArgument
	}
	if len(monitoredItemIDs) == 0 {
		return nil, ua.BadNothingToDo
	}
	items := make([]ua.MonitoredItemModifyRequest, len(monitoredItemIDs))
	for i, id := range monitoredItemIDs {
		items[i] = ua.MonitoredItemModifyRequest{
			MonitoredItemID: id,
			RequestedParameters: ua.MonitoringParameters{
				ClientHandle:     clientHandles[i],
				SamplingInterval: samplingIntervalMillis(params.SamplingInterval),
				QueueSize:        params.QueueSize,
				DiscardOldest:    params.DiscardOldest,
			},
		}
	}
	req := &ua.ModifyMonitoredItemsRequest{
		SubscriptionID:     s.id,
		TimestampsToReturn: ua.TimestampsToReturnBoth,
		ItemsToModify:      items,
	}
	res, err := modifyMonitoredItems(ctx, s.ch, req)
	if err != nil {
		return nil, errors.Wrap(err, "modify monitored items")
	}
	if len(res.Results) != len(items) {
		return nil, ua.BadUnexpectedError
	}
	return res.Results, nil
}

// DeleteMonitoredItems removes monitored items. Results are returned one per item, in the order given.
func (s *Subscription) DeleteMonitoredItems(ctx context.Context, monitoredItemIDs []uint32) ([]ua.StatusCode, error) {
	if len(monitoredItemIDs) == 0 {
		return nil, ua.BadNothingToDo
	}
	req := &ua.DeleteMonitoredItemsRequest{
		SubscriptionID:   s.id,
		MonitoredItemIDs: monitoredItemIDs,
	}
	res, err := deleteMonitoredItems(ctx, s.ch, req)
	if err != nil {
		return nil, errors.Wrap(err, "delete monitored items")
	}
	if len(res.Results) != len(monitoredItemIDs) {
		return nil, ua.BadUnexpectedError
	}
	return res.Results, nil
}
