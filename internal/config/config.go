package config

import "time"

// Config holds server configuration values.
type Config struct {
	// Addr is the TCP listen address for the chat protocol.
	Addr string `mapstructure:"addr" yaml:"addr"`
	// HTTPAddr is the listen address for the ops server (health, metrics,
	// user listing, websocket bridge).
	HTTPAddr string `mapstructure:"http_addr" yaml:"http_addr"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// EventBuffer is the capacity of the shared dispatcher event channel.
	EventBuffer int `mapstructure:"event_buffer" yaml:"event_buffer"`
	// QueueSize is the capacity of each user's outbound queue.
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
	// DrainTimeout bounds how long a logout waits for outbound delivery to
	// drain before the connection is forced closed.
	DrainTimeout      time.Duration `mapstructure:"drain_timeout" yaml:"drain_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":12123",
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		EventBuffer:       64,
		QueueSize:         32,
		DrainTimeout:      5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.HTTPAddr != "" {
		c.HTTPAddr = other.HTTPAddr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.EventBuffer != 0 {
		c.EventBuffer = other.EventBuffer
	}
	if other.QueueSize != 0 {
		c.QueueSize = other.QueueSize
	}
	if other.DrainTimeout != 0 {
		c.DrainTimeout = other.DrainTimeout
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
