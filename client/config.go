// Copyright 2021 Converter Systems LLC. All rights reserved.

package client

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML strings like "500ms" or "1m30s".
// The string "-1" is accepted as a negative duration.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "":
		return nil
	case "-1":
		d.Duration = -1
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	d.Duration = parsed
	return nil
}

// Config is the file form of the options of a Supervisor. Absent keys keep their defaults.
type Config struct {
	PublishingInterval         *Duration `yaml:"publishing_interval,omitempty"`
	KeepAliveCount             *uint32   `yaml:"keep_alive_count,omitempty"`
	LifetimeCount              *uint32   `yaml:"lifetime_count,omitempty"`
	MaxNotificationsPerPublish *uint32   `yaml:"max_notifications_per_publish,omitempty"`
	Priority                   *byte     `yaml:"priority,omitempty"`
	MaxPublishRequests         *int      `yaml:"max_publish_requests,omitempty"`
	TimeoutMultiplier          *uint32   `yaml:"timeout_multiplier,omitempty"`
	MinPublishTimeout          *Duration `yaml:"min_publish_timeout,omitempty"`
	ReconnectDelay             *Duration `yaml:"reconnect_delay,omitempty"`
	IdlePollInterval           *Duration `yaml:"idle_poll_interval,omitempty"`
	SamplingInterval           *Duration `yaml:"sampling_interval,omitempty"`
	QueueSize                  *uint32   `yaml:"queue_size,omitempty"`
	DiscardOldest              *bool     `yaml:"discard_oldest,omitempty"`
	NotificationQueueSize      *int      `yaml:"notification_queue_size,omitempty"`
	Trace                      bool      `yaml:"trace,omitempty"`
}

// LoadConfig reads a YAML config file, expanding environment variables.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", path)
	}
	cfg, err := ParseConfig([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config in %s", path)
	}
	return cfg, nil
}

// ParseConfig parses YAML config. Unknown keys are an error.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies the options to a scratch supervisor and returns the first error.
func (c *Config) Validate() error {
	s := &Supervisor{}
	for _, opt := range c.Options() {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the options of the keys present in the config.
func (c *Config) Options() []Option {
	var opts []Option
	if c.PublishingInterval != nil {
		opts = append(opts, WithPublishingInterval(c.PublishingInterval.Duration))
	}
	if c.KeepAliveCount != nil {
		opts = append(opts, WithKeepAliveCount(*c.KeepAliveCount))
	}
	if c.LifetimeCount != nil {
		opts = append(opts, WithLifetimeCount(*c.LifetimeCount))
	}
	if c.MaxNotificationsPerPublish != nil {
		opts = append(opts, WithMaxNotificationsPerPublish(*c.MaxNotificationsPerPublish))
	}
	if c.Priority != nil {
		opts = append(opts, WithPriority(*c.Priority))
	}
	if c.MaxPublishRequests != nil {
		opts = append(opts, WithMaxPublishRequests(*c.MaxPublishRequests))
	}
	if c.TimeoutMultiplier != nil {
		opts = append(opts, WithTimeoutMultiplier(*c.TimeoutMultiplier))
	}
	if c.MinPublishTimeout != nil {
		opts = append(opts, WithMinPublishTimeout(c.MinPublishTimeout.Duration))
	}
	if c.ReconnectDelay != nil {
		opts = append(opts, WithReconnectDelay(c.ReconnectDelay.Duration))
	}
	if c.IdlePollInterval != nil {
		opts = append(opts, WithIdlePollInterval(c.IdlePollInterval.Duration))
	}
	if c.SamplingInterval != nil {
		opts = append(opts, WithSamplingInterval(c.SamplingInterval.Duration))
	}
	if c.QueueSize != nil {
		opts = append(opts, WithQueueSize(*c.QueueSize))
	}
	if c.DiscardOldest != nil {
		opts = append(opts, WithDiscardOldest(*c.DiscardOldest))
	}
	if c.NotificationQueueSize != nil {
		opts = append(opts, WithNotificationQueueSize(*c.NotificationQueueSize))
	}
	if c.Trace {
		opts = append(opts, WithTrace())
	}
	return opts
}
