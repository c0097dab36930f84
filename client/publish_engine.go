// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/awcullen/uastream/ua"
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EngineState is the lifecycle state of a PublishEngine.
type EngineState int32

// EngineStates
const (
	EngineCreated EngineState = iota
	EngineRunning
	EngineStopped
	EngineDeleted
)

func (s EngineState) String() string {
	switch s {
	case EngineCreated:
		return "Created"
	case EngineRunning:
		return "Running"
	case EngineStopped:
		return "Stopped"
	case EngineDeleted:
		return "Deleted"
	default:
		return fmt.Sprintf("EngineState(%d)", int32(s))
	}
}

// DataChange is a sample of a monitored item, identified by its client handle.
type DataChange struct {
	ClientHandle uint32
	Value        *ua.DataValue
}

// EngineConfig holds the settings of a PublishEngine.
type EngineConfig struct {
	// MaxPublishRequests is the number of publish requests kept outstanding.
	MaxPublishRequests int
	// TimeoutMultiplier scales publishing interval times keep-alive count into the timeout of a publish call.
	TimeoutMultiplier uint32
	// MinPublishTimeout is the lower bound of the timeout of a publish call.
	MinPublishTimeout time.Duration
	// Registry decodes notification payloads the channel left as raw bodies.
	// Defaults to a registry of the subscription types.
	Registry *ua.TypeRegistry
	Logger   *zap.Logger
	Trace    bool
	Metrics  *Metrics
}

func (c *EngineConfig) setDefaults() {
	if c.MaxPublishRequests < 1 {
		c.MaxPublishRequests = defaultMaxPublishRequests
	}
	if c.TimeoutMultiplier == 0 {
		c.TimeoutMultiplier = defaultTimeoutMultiplier
	}
	if c.MinPublishTimeout <= 0 {
		c.MinPublishTimeout = defaultMinPublishTimeout
	}
	if c.Registry == nil {
		c.Registry = ua.NewTypeRegistry()
		ua.RegisterSubscriptionTypes(c.Registry)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// PublishEngine keeps publish requests outstanding for a Subscription, acknowledges the
// notification messages it receives, and passes each data change to the sink.
// The engine stops at the first error and never retries.
type PublishEngine struct {
	sub    *Subscription
	sink   func(DataChange)
	cfg    EngineConfig
	logger *zap.Logger

	sync.Mutex
	state   EngineState
	unacked map[uint32]ua.SubscriptionAcknowledgement
	err     error
	cancel  context.CancelFunc
	done    chan struct{}
}

type publishResult struct {
	req   *ua.PublishRequest
	res   *ua.PublishResponse
	err   error
	start time.Time
}

// NewPublishEngine returns an engine for the Subscription. The sink is called from a single
// goroutine, in the order the server sent the notifications, and must not block.
func NewPublishEngine(sub *Subscription, sink func(DataChange), cfg EngineConfig) *PublishEngine {
	cfg.setDefaults()
	return &PublishEngine{
		sub:     sub,
		sink:    sink,
		cfg:     cfg,
		logger:  cfg.Logger.With(zap.Uint32("subscription_id", sub.ID())),
		state:   EngineCreated,
		unacked: make(map[uint32]ua.SubscriptionAcknowledgement),
		done:    make(chan struct{}),
	}
}

// Start begins publishing. The engine runs until Stop, until ctx is done, or until a publish fails.
func (e *PublishEngine) Start(ctx context.Context) error {
	e.Lock()
	defer e.Unlock()
	if e.state != EngineCreated {
		return ua.BadInvalidState
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.state = EngineRunning
	go e.run(ctx)
	return nil
}

// Stop cancels the outstanding publish requests and waits for the engine to finish.
func (e *PublishEngine) Stop() {
	e.Lock()
	switch e.state {
	case EngineCreated:
		e.state = EngineStopped
		close(e.done)
		e.Unlock()
		return
	case EngineRunning:
		e.state = EngineStopped
		e.cancel()
	}
	e.Unlock()
	<-e.done
}

// Delete stops the engine and deletes the Subscription from the server.
func (e *PublishEngine) Delete(ctx context.Context) error {
	e.Stop()
	e.Lock()
	if e.state == EngineDeleted {
		e.Unlock()
		return nil
	}
	e.state = EngineDeleted
	e.Unlock()
	return e.sub.Delete(ctx)
}

// Done is closed when the engine has stopped.
func (e *PublishEngine) Done() <-chan struct{} {
	return e.done
}

// Err returns the error that stopped the engine, or nil if it was stopped intentionally.
func (e *PublishEngine) Err() error {
	e.Lock()
	defer e.Unlock()
	return e.err
}

// State returns the lifecycle state.
func (e *PublishEngine) State() EngineState {
	e.Lock()
	defer e.Unlock()
	return e.state
}

// Subscription returns the Subscription the engine publishes for.
func (e *PublishEngine) Subscription() *Subscription {
	return e.sub
}

// Unacknowledged returns the sequence numbers received but not yet acknowledged, in ascending order.
func (e *PublishEngine) Unacknowledged() []uint32 {
	e.Lock()
	defer e.Unlock()
	seqs := make([]uint32, 0, len(e.unacked))
	for seq := range e.unacked {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs
}

// acknowledgements returns a snapshot of the unacknowledged set.
func (e *PublishEngine) acknowledgements() []ua.SubscriptionAcknowledgement {
	e.Lock()
	defer e.Unlock()
	acks := make([]ua.SubscriptionAcknowledgement, 0, len(e.unacked))
	for _, ack := range e.unacked {
		acks = append(acks, ack)
	}
	sort.Slice(acks, func(i, j int) bool { return acks[i].SequenceNumber < acks[j].SequenceNumber })
	return acks
}

// fail records the first error and cancels the pipeline.
func (e *PublishEngine) fail(err error) {
	e.Lock()
	first := e.err == nil
	if first {
		e.err = err
	}
	e.cancel()
	e.Unlock()
	if first {
		e.logger.Error("publish engine stopped", zap.Error(err))
	}
}

func (e *PublishEngine) run(ctx context.Context) {
	defer func() {
		e.Lock()
		if e.state == EngineRunning {
			e.state = EngineStopped
		}
		e.cancel()
		e.Unlock()
		close(e.done)
	}()
	pool := workerpool.New(e.cfg.MaxPublishRequests)
	results := make(chan publishResult, e.cfg.MaxPublishRequests)
	outstanding := 0
	for {
		for outstanding < e.cfg.MaxPublishRequests && ctx.Err() == nil {
			req := &ua.PublishRequest{
				SubscriptionAcknowledgements: e.acknowledgements(),
			}
			outstanding++
			e.cfg.Metrics.publishSent()
			pool.Submit(func() {
				start := time.Now()
				res, err := e.publish(ctx, req)
				results <- publishResult{req, res, err, start}
			})
		}
		select {
		case r := <-results:
			outstanding--
			if err := e.handle(ctx, r); err != nil {
				e.fail(err)
			}
		case <-ctx.Done():
			pool.StopWait()
			for outstanding > 0 {
				e.discard(<-results)
				outstanding--
			}
			return
		}
	}
}

// publish sends the request with a timeout derived from the revised parameters of the Subscription.
func (e *PublishEngine) publish(ctx context.Context, req *ua.PublishRequest) (*ua.PublishResponse, error) {
	timeout := e.sub.publishTimeout(e.cfg.TimeoutMultiplier, e.cfg.MinPublishTimeout)
	req.RequestHeader.TimeoutHint = uint32(timeout / time.Millisecond)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if e.cfg.Trace {
		e.logger.Debug("publish request", zap.Int("acknowledgements", len(req.SubscriptionAcknowledgements)), zap.Duration("timeout", timeout))
	}
	res, err := publish(ctx, e.sub.ch, req)
	if err != nil && ctx.Err() == context.DeadlineExceeded && errors.Cause(err) != ua.BadRequestTimeout {
		err = errors.Wrap(ua.BadRequestTimeout, err.Error())
	}
	return res, err
}

// handle does the bookkeeping of one completed publish call and dispatches its notifications.
func (e *PublishEngine) handle(ctx context.Context, r publishResult) error {
	if ctx.Err() != nil {
		// stopping
		e.discard(r)
		return nil
	}
	if r.err != nil {
		e.cfg.Metrics.publishFailed()
		return errors.Wrap(r.err, "publish")
	}
	e.cfg.Metrics.publishReceived(r.start)
	res := r.res
	msg := res.NotificationMessage
	if e.cfg.Trace {
		e.logger.Debug("publish response",
			zap.Uint32("sequence_number", msg.SequenceNumber),
			zap.Int("notifications", len(msg.NotificationData)),
			zap.Bool("more_notifications", res.MoreNotifications))
	}
	e.removeAcknowledged(r.req, res)
	if len(msg.NotificationData) == 0 {
		return nil // keep-alive
	}
	if res.SubscriptionID != e.sub.ID() {
		e.logger.Warn("notification for unknown subscription", zap.Uint32("sequence_number", msg.SequenceNumber), zap.Uint32("response_subscription_id", res.SubscriptionID))
		return nil
	}
	e.Lock()
	e.unacked[msg.SequenceNumber] = ua.SubscriptionAcknowledgement{SubscriptionID: res.SubscriptionID, SequenceNumber: msg.SequenceNumber}
	n := len(e.unacked)
	e.Unlock()
	e.cfg.Metrics.setUnacknowledged(n)
	return e.dispatch(msg)
}

// discard does the bookkeeping of a publish call completed while the engine stops.
// Its notifications are not dispatched.
func (e *PublishEngine) discard(r publishResult) {
	if r.err != nil {
		e.cfg.Metrics.publishCancelled()
		return
	}
	e.cfg.Metrics.publishReceived(r.start)
	e.removeAcknowledged(r.req, r.res)
	if msg := r.res.NotificationMessage; len(msg.NotificationData) > 0 {
		e.logger.Warn("notification message discarded",
			zap.Uint32("sequence_number", msg.SequenceNumber),
			zap.Int("notifications", len(msg.NotificationData)))
	}
}

// removeAcknowledged removes each acknowledgement of the request whose positional result is Good.
func (e *PublishEngine) removeAcknowledged(req *ua.PublishRequest, res *ua.PublishResponse) {
	e.Lock()
	for i, ack := range req.SubscriptionAcknowledgements {
		if i >= len(res.Results) {
			break
		}
		if res.Results[i].IsGood() {
			delete(e.unacked, ack.SequenceNumber)
		} else if e.cfg.Trace {
			e.logger.Debug("acknowledgement failed", zap.Uint32("sequence_number", ack.SequenceNumber), zap.Error(res.Results[i]))
		}
	}
	n := len(e.unacked)
	e.Unlock()
	e.cfg.Metrics.setUnacknowledged(n)
}

// dispatch passes the data changes of the message to the sink, by binary encoding id of each payload.
// A payload left undecoded by the channel is decoded with the registry of the engine.
func (e *PublishEngine) dispatch(msg ua.NotificationMessage) error {
	for _, eo := range msg.NotificationData {
		if eo == nil {
			continue
		}
		id := eo.TypeID
		if id.IsNil() && eo.Value != nil {
			id, _ = e.cfg.Registry.BinaryEncodingID(eo.Value)
		}
		switch id {
		case ua.ObjectIDDataChangeNotificationEncodingDefaultBinary:
			v, _ := e.cfg.Registry.DecodeBody(eo)
			n, ok := v.(*ua.DataChangeNotification)
			if !ok {
				return errors.Wrapf(ua.BadDecodingError, "data change notification of message %d", msg.SequenceNumber)
			}
			for _, item := range n.MonitoredItems {
				e.sink(DataChange{ClientHandle: item.ClientHandle, Value: item.Value})
			}
			e.cfg.Metrics.notified(len(n.MonitoredItems))
		case ua.ObjectIDStatusChangeNotificationEncodingDefaultBinary:
			v, _ := e.cfg.Registry.DecodeBody(eo)
			n, ok := v.(*ua.StatusChangeNotification)
			if !ok {
				return errors.Wrapf(ua.BadDecodingError, "status change notification of message %d", msg.SequenceNumber)
			}
			if n.Status.IsBad() {
				return errors.Wrapf(n.Status, "subscription %d status changed", e.sub.ID())
			}
		default:
			// events and unknown payloads are not delivered
		}
	}
	return nil
}
