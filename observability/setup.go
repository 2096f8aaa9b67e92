package observability

import (
	"context"
	"errors"
)

// Config selects whether and where telemetry is exported.
type Config struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	Endpoint    string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure    bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "sdiscovery"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs tracer and meter providers when cfg.Enabled is set.
// When disabled it installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config, version string) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()

	tracerCfg := DefaultTracerConfig(cfg.ServiceName)
	tracerCfg.ServiceVersion = version
	tracerCfg.Endpoint = cfg.Endpoint
	tracerCfg.Insecure = cfg.Insecure
	tracerCfg.SampleRate = cfg.SampleRate
	tp, err := InitTracer(ctx, tracerCfg)
	if err != nil {
		return nil, err
	}

	meterCfg := DefaultMeterConfig(cfg.ServiceName)
	meterCfg.ServiceVersion = version
	meterCfg.Endpoint = cfg.Endpoint
	meterCfg.Insecure = cfg.Insecure
	mp, err := InitMeter(ctx, &meterCfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
