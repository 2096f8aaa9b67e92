package config

import (
	"fmt"
	"os"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/httpclient"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/observability"
	"github.com/kbukum/sdiscovery/util"
	"github.com/kbukum/sdiscovery/validation"
)

// EnvDiscoveryURLs holds a comma separated endpoint list used when no
// endpoints are configured otherwise.
const EnvDiscoveryURLs = "DISCOVERY_URLS"

// ClientConfig is everything needed to build a registry client.
//
// Example config.yml:
//
//	endpoints:
//	  - http://discovery-1:8080
//	  - http://discovery-2:8080
//	timeout: 5s
//	logging:
//	  level: debug
type ClientConfig struct {
	// Endpoints are the registry base URLs, tried in order.
	Endpoints []string `yaml:"endpoints" mapstructure:"endpoints"`

	httpclient.Config `yaml:",inline" mapstructure:",squash"`

	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults applies default values to the transport and logging sections.
func (c *ClientConfig) ApplyDefaults() {
	c.Config.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Telemetry.Enabled {
		c.Telemetry.ApplyDefaults()
	}
}

// Validate reports every bad endpoint at once, then checks the nested sections.
func (c *ClientConfig) Validate() error {
	v := validation.New().
		Custom(len(c.Endpoints) > 0, "endpoints", "Must specify list of discovery service URLS")
	for i, ep := range c.Endpoints {
		v.URL(fmt.Sprintf("endpoints[%d]", i), ep)
	}
	if appErr := v.Validate(); appErr != nil {
		return errors.InvalidConfig(appErr.Message).WithDetails(appErr.Details)
	}

	if err := c.Config.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("config.logging: %v", err)).WithCause(err)
	}
	return nil
}

// LoadClientConfig loads a ClientConfig for the named tool, applies defaults
// and fills Endpoints from DISCOVERY_URLS when nothing else set them. The
// result is not validated so callers can still override Endpoints.
func LoadClientConfig(name string, opts ...LoaderOption) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := LoadConfig(name, cfg, opts...); err != nil {
		return nil, err
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = util.SplitList(os.Getenv(EnvDiscoveryURLs), ",")
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
