package config

import (
	"net/http"
	"strings"
	"time"
)

const (
	DefaultMethod   = http.MethodGet
	DefaultInterval = 30 * time.Second
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Poll: PollConfig{
			Method:   DefaultMethod,
			Interval: Duration(DefaultInterval),
			Timeout:  Duration(DefaultTimeout),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyDefaults fills values that an explicit but empty YAML entry cleared.
func (c *Config) applyDefaults() {
	c.Poll.Method = strings.ToUpper(c.Poll.Method)
	if c.Poll.Method == "" {
		c.Poll.Method = DefaultMethod
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = Duration(DefaultInterval)
	}
	if c.Poll.Timeout <= 0 {
		c.Poll.Timeout = Duration(DefaultTimeout)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
