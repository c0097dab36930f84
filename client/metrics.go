// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors updated by publish engines and supervisors.
// A nil *Metrics records nothing.
type Metrics struct {
	PublishRequests      prometheus.Counter
	PublishResponses     prometheus.Counter
	PublishFailures      prometheus.Counter
	Notifications        prometheus.Counter
	NotificationsDropped prometheus.Counter
	Reconnects           prometheus.Counter
	PublishOutstanding   prometheus.Gauge
	Unacknowledged       prometheus.Gauge
	PublishLatency       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. If a collector with the same
// name is already registered, the existing one is used, so several supervisors may share a registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PublishRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_publish_requests_total",
			Help: "Publish requests sent.",
		}),
		PublishResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_publish_responses_total",
			Help: "Publish responses received.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_publish_failures_total",
			Help: "Publish calls that stopped the publish engine.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_notifications_total",
			Help: "Data change notifications dispatched.",
		}),
		NotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_notifications_dropped_total",
			Help: "Data change notifications discarded because the queue was full.",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uastream_reconnects_total",
			Help: "Connection attempts after the first.",
		}),
		PublishOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uastream_publish_outstanding",
			Help: "Publish requests awaiting a response.",
		}),
		Unacknowledged: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uastream_unacknowledged",
			Help: "Sequence numbers received but not yet acknowledged.",
		}),
		PublishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uastream_publish_latency_seconds",
			Help:    "Time from sending a publish request to receiving its response.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	var err error
	if m.PublishRequests, err = register(reg, m.PublishRequests); err != nil {
		return nil, err
	}
	if m.PublishResponses, err = register(reg, m.PublishResponses); err != nil {
		return nil, err
	}
	if m.PublishFailures, err = register(reg, m.PublishFailures); err != nil {
		return nil, err
	}
	if m.Notifications, err = register(reg, m.Notifications); err != nil {
		return nil, err
	}
	if m.NotificationsDropped, err = register(reg, m.NotificationsDropped); err != nil {
		return nil, err
	}
	if m.Reconnects, err = register(reg, m.Reconnects); err != nil {
		return nil, err
	}
	if m.PublishOutstanding, err = register(reg, m.PublishOutstanding); err != nil {
		return nil, err
	}
	if m.Unacknowledged, err = register(reg, m.Unacknowledged); err != nil {
		return nil, err
	}
	if m.PublishLatency, err = register(reg, m.PublishLatency); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if stderrors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "register metric")
	}
	return c, nil
}

func (m *Metrics) publishSent() {
	if m == nil {
		return
	}
	m.PublishRequests.Inc()
	m.PublishOutstanding.Inc()
}

func (m *Metrics) publishReceived(start time.Time) {
	if m == nil {
		return
	}
	m.PublishResponses.Inc()
	m.PublishOutstanding.Dec()
	m.PublishLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) publishFailed() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
	m.PublishOutstanding.Dec()
}

// publishCancelled records a publish call cancelled by stopping the engine.
func (m *Metrics) publishCancelled() {
	if m == nil {
		return
	}
	m.PublishOutstanding.Dec()
}

func (m *Metrics) notified(n int) {
	if m == nil {
		return
	}
	m.Notifications.Add(float64(n))
}

func (m *Metrics) dropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}

func (m *Metrics) reconnected() {
	if m == nil {
		return
	}
	m.Reconnects.Inc()
}

func (m *Metrics) setUnacknowledged(n int) {
	if m == nil {
		return
	}
	m.Unacknowledged.Set(float64(n))
}
