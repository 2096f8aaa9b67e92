package httpclient

import (
	"time"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/security"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sdiscovery"
)

// Config configures the HTTP client.
type Config struct {
	// Timeout bounds a single request, including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is applied to every request when set.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.InvalidConfig("httpclient: timeout must be positive")
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.TLS.Validate()
}
