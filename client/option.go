// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"time"

	"github.com/awcullen/uastream/ua"
	"go.uber.org/zap"
)

const (
	defaultPublishingInterval    = time.Second
	defaultKeepAliveCount        = uint32(10)
	defaultLifetimeCount         = uint32(30)
	defaultMaxPublishRequests    = 2
	defaultTimeoutMultiplier     = uint32(3)
	defaultMinPublishTimeout     = 15 * time.Second
	defaultReconnectDelay        = 5 * time.Second
	defaultIdlePollInterval      = time.Second
	defaultSamplingInterval      = time.Duration(-1)
	defaultQueueSize             = uint32(1)
	defaultNotificationQueueSize = 10000
)

// Option is a functional option to be applied to a supervisor during initialization.
type Option func(*Supervisor) error

// WithPublishingInterval sets the requested publishing interval of the subscription. (default: 1s)
func WithPublishingInterval(d time.Duration) Option {
	return func(s *Supervisor) error {
		if d <= 0 {
			return ua.BadInvalidArgument
		}
		s.subscriptionParams.PublishingInterval = d
		return nil
	}
}

// WithKeepAliveCount sets the requested max keep-alive count of the subscription. (default: 10)
func WithKeepAliveCount(n uint32) Option {
	return func(s *Supervisor) error {
		if n == 0 {
			return ua.BadInvalidArgument
		}
		s.subscriptionParams.KeepAliveCount = n
		return nil
	}
}

// WithLifetimeCount sets the requested lifetime count of the subscription. The server requires
// at least three times the keep-alive count. (default: 30)
func WithLifetimeCount(n uint32) Option {
	return func(s *Supervisor) error {
		if n == 0 {
			return ua.BadInvalidArgument
		}
		s.subscriptionParams.LifetimeCount = n
		return nil
	}
}

// WithMaxNotificationsPerPublish sets the max notifications per publish response. (default: 0, no limit)
func WithMaxNotificationsPerPublish(n uint32) Option {
	return func(s *Supervisor) error {
		s.subscriptionParams.MaxNotificationsPerPublish = n
		return nil
	}
}

// WithPriority sets the relative priority of the subscription. (default: 0)
func WithPriority(p byte) Option {
	return func(s *Supervisor) error {
		s.subscriptionParams.Priority = p
		return nil
	}
}

// WithMaxPublishRequests sets the number of publish requests kept outstanding. (default: 2)
func WithMaxPublishRequests(n int) Option {
	return func(s *Supervisor) error {
		if n < 1 {
			return ua.BadInvalidArgument
		}
		s.engineConfig.MaxPublishRequests = n
		return nil
	}
}

// WithTimeoutMultiplier sets the factor applied to publishing interval times keep-alive count
// to compute the timeout of a publish call. (default: 3)
func WithTimeoutMultiplier(n uint32) Option {
	return func(s *Supervisor) error {
		if n == 0 {
			return ua.BadInvalidArgument
		}
		s.engineConfig.TimeoutMultiplier = n
		return nil
	}
}

// WithMinPublishTimeout sets the lower bound of the timeout of a publish call. (default: 15s)
func WithMinPublishTimeout(d time.Duration) Option {
	return func(s *Supervisor) error {
		if d <= 0 {
			return ua.BadInvalidArgument
		}
		s.engineConfig.MinPublishTimeout = d
		return nil
	}
}

// WithReconnectDelay sets the delay between connection attempts. (default: 5s)
func WithReconnectDelay(d time.Duration) Option {
	return func(s *Supervisor) error {
		if d < 0 {
			return ua.BadInvalidArgument
		}
		s.reconnectDelay = d
		return nil
	}
}

// WithIdlePollInterval sets how often pending monitored items are retried while connected. (default: 1s)
func WithIdlePollInterval(d time.Duration) Option {
	return func(s *Supervisor) error {
		if d <= 0 {
			return ua.BadInvalidArgument
		}
		s.idlePollInterval = d
		return nil
	}
}

// WithSamplingInterval sets the default sampling interval of monitored items. A negative value
// requests the publishing interval. (default: -1)
func WithSamplingInterval(d time.Duration) Option {
	return func(s *Supervisor) error {
		if d < 0 {
			d = -1
		}
		s.itemParams.SamplingInterval = d
		return nil
	}
}

// WithQueueSize sets the server-side queue size of monitored items. (default: 1)
func WithQueueSize(n uint32) Option {
	return func(s *Supervisor) error {
		if n == 0 {
			return ua.BadInvalidArgument
		}
		s.itemParams.QueueSize = n
		return nil
	}
}

// WithDiscardOldest sets whether the server discards the oldest sample when the queue of a
// monitored item is full. (default: true)
func WithDiscardOldest(b bool) Option {
	return func(s *Supervisor) error {
		s.itemParams.DiscardOldest = b
		return nil
	}
}

// WithNotificationQueueSize sets the capacity of the queue feeding DataChanges. When full, the
// oldest notification is discarded. (default: 10000)
func WithNotificationQueueSize(n int) Option {
	return func(s *Supervisor) error {
		if n < 1 {
			return ua.BadInvalidArgument
		}
		s.notificationQueueSize = n
		return nil
	}
}

// WithLogger sets the logger. (default: no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(s *Supervisor) error {
		if logger == nil {
			return ua.BadInvalidArgument
		}
		s.logger = logger
		return nil
	}
}

// WithTrace logs every publish request and response at debug level. (default: false)
func WithTrace() Option {
	return func(s *Supervisor) error {
		s.engineConfig.Trace = true
		return nil
	}
}

// WithMetrics records metrics of the supervisor and its publish engines. (default: none)
func WithMetrics(m *Metrics) Option {
	return func(s *Supervisor) error {
		s.metrics = m
		return nil
	}
}
