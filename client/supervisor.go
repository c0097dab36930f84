// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/awcullen/uastream/ua"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ConnectionState is the state of the connection of a Supervisor.
type ConnectionState int32

// ConnectionStates
const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	default:
		return fmt.Sprintf("ConnectionState(%d)", int32(s))
	}
}

const closeTimeout = 5 * time.Second

// monitoredItem is an entry of the table of a Supervisor. The table survives reconnects.
type monitoredItem struct {
	nodeID           ua.NodeID
	samplingInterval time.Duration
	monitoredItemID  uint32
	status           ua.StatusCode
	created          bool
}

// Supervisor keeps a subscription alive across connection losses. It dials a channel, creates
// the subscription and its monitored items, and runs a PublishEngine. When the channel or the
// engine fails it waits ReconnectDelay, then does it all again with the same client handles.
type Supervisor struct {
	dial                  Dialer
	subscriptionParams    SubscriptionParameters
	itemParams            ItemParameters
	engineConfig          EngineConfig
	reconnectDelay        time.Duration
	idlePollInterval      time.Duration
	notificationQueueSize int
	logger                *zap.Logger
	metrics               *Metrics

	mu         sync.Mutex
	state      ConnectionState
	ch         Channel
	sub        *Subscription
	engine     *PublishEngine
	items      map[uint32]*monitoredItem
	order      []uint32
	nextHandle uint32
	running    bool
	deleted    bool
	deletedCh  chan struct{}

	// createMu serializes the monitored item calls so replay, subscribe and unsubscribe
	// never interleave.
	createMu sync.Mutex

	notifications *queue[DataChange]
	statuses      *queue[bool]
}

// NewSupervisor returns a Supervisor that opens channels with dial. Call Run to start it.
func NewSupervisor(dial Dialer, opts ...Option) (*Supervisor, error) {
	if dial == nil {
		return nil, ua.BadInvalidArgument
	}
	s := &Supervisor{
		dial: dial,
		subscriptionParams: SubscriptionParameters{
			PublishingInterval: defaultPublishingInterval,
			KeepAliveCount:     defaultKeepAliveCount,
			LifetimeCount:      defaultLifetimeCount,
		},
		itemParams: ItemParameters{
			SamplingInterval: defaultSamplingInterval,
			QueueSize:        defaultQueueSize,
			DiscardOldest:    true,
		},
		engineConfig: EngineConfig{
			MaxPublishRequests: defaultMaxPublishRequests,
			TimeoutMultiplier:  defaultTimeoutMultiplier,
			MinPublishTimeout:  defaultMinPublishTimeout,
		},
		reconnectDelay:        defaultReconnectDelay,
		idlePollInterval:      defaultIdlePollInterval,
		notificationQueueSize: defaultNotificationQueueSize,
		logger:                zap.NewNop(),
		items:                 make(map[uint32]*monitoredItem),
		deletedCh:             make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.engineConfig.Logger = s.logger
	s.engineConfig.Metrics = s.metrics
	s.notifications = newQueue[DataChange](s.notificationQueueSize, s.metrics.dropped)
	s.statuses = newQueue[bool](0, nil)
	return s, nil
}

// DataChanges returns the channel of data changes of all monitored items. It is closed when Run returns.
func (s *Supervisor) DataChanges() <-chan DataChange {
	return s.notifications.Out()
}

// ConnectionStatus returns a channel that receives true when the subscription is established
// and false when the connection is lost. It is closed when Run returns.
func (s *Supervisor) ConnectionStatus() <-chan bool {
	return s.statuses.Out()
}

// State returns the connection state.
func (s *Supervisor) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) setState(state ConnectionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run connects and keeps the subscription alive until ctx is done or the subscription is deleted.
func (s *Supervisor) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ua.BadInvalidState
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.notifications.Close()
		s.statuses.Close()
	}()

	for attempt := 1; ; attempt++ {
		if s.isDeleted() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt > 1 {
			s.metrics.reconnected()
		}
		s.setState(Connecting)
		s.logger.Debug("connecting", zap.Int("attempt", attempt))
		err := s.connect(ctx)
		if err == nil {
			s.setState(Connected)
			s.logger.Info("subscription established", zap.Uint32("subscription_id", s.subscription().ID()), zap.Int("attempt", attempt))
			s.statuses.Push(true)
			err = s.serve(ctx)
			s.teardown(err)
			s.statuses.Push(false)
		}
		s.setState(Disconnected)
		if s.isDeleted() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("connection lost", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-time.After(s.reconnectDelay):
		case <-s.deletedCh:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Supervisor) isDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleted
}

func (s *Supervisor) subscription() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub
}

// connect dials a channel, creates the subscription, replays the table and starts the engine.
func (s *Supervisor) connect(ctx context.Context) error {
	ch, err := s.dial(ctx)
	if err != nil {
		return errors.Wrap(err, "dial")
	}
	sub, err := CreateSubscription(ctx, ch, s.subscriptionParams)
	if err != nil {
		s.abort(ch)
		return err
	}

	s.createMu.Lock()
	s.mu.Lock()
	s.ch = ch
	s.sub = sub
	handles := make([]uint32, len(s.order))
	copy(handles, s.order)
	for _, it := range s.items {
		it.created = false
		it.monitoredItemID = 0
		it.status = ua.BadWaitingForInitialData
	}
	s.mu.Unlock()
	for _, h := range handles {
		if err := s.createItem(ctx, sub, h); err != nil {
			s.createMu.Unlock()
			s.clearChannel()
			s.abort(ch)
			return err
		}
	}
	s.createMu.Unlock()

	engine := NewPublishEngine(sub, s.notifications.Push, s.engineConfig)
	if err := engine.Start(ctx); err != nil {
		s.clearChannel()
		s.abort(ch)
		return err
	}
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
	return nil
}

// serve waits for the connection or the engine to fail, retrying pending items meanwhile.
func (s *Supervisor) serve(ctx context.Context) error {
	s.mu.Lock()
	ch, sub, engine := s.ch, s.sub, s.engine
	s.mu.Unlock()
	ticker := time.NewTicker(s.idlePollInterval)
	defer ticker.Stop()
	engineDone := engine.Done()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.deletedCh:
			return nil
		case <-ch.Done():
			return ua.BadConnectionClosed
		case <-engineDone:
			if err := engine.Err(); err != nil {
				return err
			}
			// stopped by DeleteSubscription, which closes deletedCh when done.
			engineDone = nil
		case <-ticker.C:
			if err := s.createPending(ctx, sub); err != nil {
				return err
			}
		}
	}
}

// teardown stops the engine and releases the channel. A failed connection is aborted,
// otherwise the channel is closed gracefully.
func (s *Supervisor) teardown(cause error) {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()
	if engine != nil {
		engine.Stop()
	}
	ch := s.clearChannel()
	if ch == nil {
		return
	}
	if cause != nil && errors.Cause(cause) != context.Canceled {
		s.abort(ch)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := ch.Close(ctx); err != nil {
		s.logger.Debug("error closing channel", zap.Error(err))
	}
}

func (s *Supervisor) clearChannel() Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.ch
	s.ch = nil
	s.sub = nil
	s.engine = nil
	return ch
}

func (s *Supervisor) abort(ch Channel) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := ch.Abort(ctx); err != nil {
		s.logger.Debug("error aborting channel", zap.Error(err))
	}
}

// createItem creates the monitored item of one table entry with its own call.
// The caller holds createMu. A bad status of the item is recorded, not returned.
func (s *Supervisor) createItem(ctx context.Context, sub *Subscription, handle uint32) error {
	s.mu.Lock()
	it, ok := s.items[handle]
	if !ok || it.created || s.sub != sub {
		s.mu.Unlock()
		return nil
	}
	nodeID, interval := it.nodeID, it.samplingInterval
	s.mu.Unlock()

	params := s.itemParams
	params.SamplingInterval = interval
	results, err := sub.CreateMonitoredItems(ctx, []ua.NodeID{nodeID}, []uint32{handle}, params)
	if err != nil {
		return err
	}
	result := results[0]
	s.mu.Lock()
	it.status = result.StatusCode
	if result.StatusCode.IsGood() {
		it.created = true
		it.monitoredItemID = result.MonitoredItemID
	}
	s.mu.Unlock()
	if result.StatusCode.IsBad() {
		s.logger.Warn("error creating monitored item", zap.Uint32("client_handle", handle), zap.Stringer("node_id", nodeID), zap.Error(result.StatusCode))
	}
	return nil
}

// createPending creates the entries that were registered but not yet attempted on this connection.
func (s *Supervisor) createPending(ctx context.Context, sub *Subscription) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	s.mu.Lock()
	var pending []uint32
	for _, h := range s.order {
		if it := s.items[h]; !it.created && it.status == ua.BadWaitingForInitialData {
			pending = append(pending, h)
		}
	}
	s.mu.Unlock()
	for _, h := range pending {
		if err := s.createItem(ctx, sub, h); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe adds a monitored item for the Value attribute of the node, sampled at the
// default sampling interval. See SubscribeWithInterval.
func (s *Supervisor) Subscribe(ctx context.Context, nodeID ua.NodeID) (uint32, error) {
	return s.SubscribeWithInterval(ctx, nodeID, s.itemParams.SamplingInterval)
}

// SubscribeWithInterval adds a monitored item for the Value attribute of the node and returns
// its client handle. While connected the item is created immediately. Otherwise it is
// recorded and created on the next connection. A negative interval requests the publishing interval.
func (s *Supervisor) SubscribeWithInterval(ctx context.Context, nodeID ua.NodeID, samplingInterval time.Duration) (uint32, error) {
	if nodeID.IsNil() {
		return 0, ua.BadNodeIDInvalid
	}
	if samplingInterval < 0 {
		samplingInterval = -1
	}
	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		return 0, ua.BadInvalidState
	}
	s.nextHandle++
	handle := s.nextHandle
	s.items[handle] = &monitoredItem{
		nodeID:           nodeID,
		samplingInterval: samplingInterval,
		status:           ua.BadWaitingForInitialData,
	}
	s.order = append(s.order, handle)
	sub := s.sub
	connected := s.state == Connected
	s.mu.Unlock()

	if connected && sub != nil {
		s.createMu.Lock()
		err := s.createItem(ctx, sub, handle)
		s.createMu.Unlock()
		if err != nil {
			// retried by the idle poll or on the next connection
			s.logger.Debug("monitored item pending", zap.Uint32("client_handle", handle), zap.Error(err))
		}
	}
	return handle, nil
}

// Unsubscribe removes the entry of the client handle and deletes its monitored item from the server.
func (s *Supervisor) Unsubscribe(ctx context.Context, handle uint32) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()
	s.mu.Lock()
	it, ok := s.items[handle]
	if !ok {
		s.mu.Unlock()
		return ua.BadInvalidArgument
	}
	delete(s.items, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	sub := s.sub
	created := it.created && sub != nil
	id := it.monitoredItemID
	s.mu.Unlock()

	if !created {
		return nil
	}
	results, err := sub.DeleteMonitoredItems(ctx, []uint32{id})
	if err != nil {
		return err
	}
	if results[0].IsBad() {
		return results[0]
	}
	return nil
}

// ItemStatus returns the result of creating the monitored item of the client handle.
// An item not yet created reports BadWaitingForInitialData.
func (s *Supervisor) ItemStatus(handle uint32) (ua.StatusCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[handle]
	if !ok {
		return 0, ua.BadInvalidArgument
	}
	return it.status, nil
}

// Handles returns the client handles of the table in registration order.
func (s *Supervisor) Handles() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	handles := make([]uint32, len(s.order))
	copy(handles, s.order)
	return handles
}

// DeleteSubscription deletes the subscription from the server and stops Run.
// The supervisor cannot be used afterwards.
func (s *Supervisor) DeleteSubscription(ctx context.Context) error {
	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		return nil
	}
	s.deleted = true
	engine, sub := s.engine, s.sub
	s.mu.Unlock()
	defer close(s.deletedCh)
	if engine != nil {
		return engine.Delete(ctx)
	}
	// still replaying the table
	if sub != nil {
		return sub.Delete(ctx)
	}
	return nil
}
