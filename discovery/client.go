package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/sdiscovery/config"
	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/failover"
	"github.com/kbukum/sdiscovery/httpclient"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/observability"
)

// Operation names used in logs, spans and metrics.
const (
	OpQuery    = "query"
	OpAnnounce = "announce"
	OpDelete   = "delete"
)

// HeaderRequestID carries the per-operation request id to the registry.
const HeaderRequestID = "X-Request-ID"

// Client talks to a discovery registry through an ordered endpoint list.
// It is safe for concurrent use.
type Client struct {
	executor  *failover.Executor
	transport *httpclient.Client
	log       *logger.Logger
	newID     func() string

	mu       sync.RWMutex
	snapshot *Snapshot
}

type clientOptions struct {
	log        *logger.Logger
	transport  *httpclient.Client
	httpConfig httpclient.Config
	metrics    *observability.RegistryMetrics
	newID      func() string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the logger for request and failure logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithHTTPClient uses an existing transport instead of building one.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(o *clientOptions) { o.transport = c }
}

// WithHTTPConfig configures the transport built when WithHTTPClient is not given.
func WithHTTPConfig(cfg httpclient.Config) Option {
	return func(o *clientOptions) { o.httpConfig = cfg }
}

// WithMetrics records attempt and operation metrics.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithRequestIDFunc replaces the request id generator.
func WithRequestIDFunc(fn func() string) Option {
	return func(o *clientOptions) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// NewClient creates a client for the given registry base URLs. The list is
// copied; an empty list is an INVALID_CONFIG error.
func NewClient(endpoints []string, opts ...Option) (*Client, error) {
	o := clientOptions{
		log:   logger.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	executor, err := failover.New(endpoints,
		failover.WithLogger(o.log),
		failover.WithMetrics(o.metrics),
	)
	if err != nil {
		return nil, err
	}

	transport := o.transport
	if transport == nil {
		if transport, err = httpclient.New(o.httpConfig); err != nil {
			return nil, err
		}
	}

	return &Client{
		executor:  executor,
		transport: transport,
		log:       o.log.WithComponent("discovery"),
		newID:     o.newID,
	}, nil
}

// New validates cfg and creates a client from it. Options given here
// override the ones derived from cfg.
func New(cfg *config.ClientConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.InvalidConfig("Must specify list of discovery service URLS")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{
		WithHTTPConfig(cfg.Config),
		WithLogger(logger.New(&cfg.Logging, "sdiscovery")),
	}
	return NewClient(cfg.Endpoints, append(base, opts...)...)
}

// Endpoints returns the registry base URLs in attempt order.
func (c *Client) Endpoints() []string {
	return c.executor.Endpoints()
}

// Refresh queries the registry and replaces the held snapshot. On failure
// the previous snapshot is kept.
func (c *Client) Refresh(ctx context.Context) (*Snapshot, error) {
	ctx = c.withRequestID(ctx)
	log := c.log.WithContext(ctx)

	snap, err := failover.Execute(ctx, c.executor, OpQuery, func(ctx context.Context, endpoint string) (*Snapshot, error) {
		target, err := httpclient.ResolveURL(endpoint, "v1", "service")
		if err != nil {
			return nil, err
		}
		log.Debug("Get Request", logger.Fields(logger.FieldURL, target))

		resp, err := c.transport.Do(ctx, httpclient.Request{
			Method:  http.MethodGet,
			Path:    target,
			Headers: requestHeaders(ctx),
		})
		if err != nil {
			return nil, err
		}
		return decodeServiceList(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
	return snap, nil
}

// Snapshot returns the last successfully fetched snapshot without network
// I/O, or nil if no query has succeeded yet.
func (c *Client) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// GetServices queries the registry and returns the services matching q.
// An empty match is an empty slice, not an error.
func (c *Client) GetServices(ctx context.Context, q Query) ([]ServiceRecord, error) {
	snap, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Filter(q), nil
}

// GetServicesByName returns Properties[propertyKey] of every service of the
// given type that defines it, in registry order.
func (c *Client) GetServicesByName(ctx context.Context, serviceType, propertyKey string) ([]string, error) {
	snap, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PropertyValues(serviceType, propertyKey), nil
}

// HTTPServices returns the "http" property of every service of serviceType.
func (c *Client) HTTPServices(ctx context.Context, serviceType string) ([]string, error) {
	return c.GetServicesByName(ctx, serviceType, PropertyHTTP)
}

// JDBCServices returns the "jdbc" property of every service of serviceType.
func (c *Client) JDBCServices(ctx context.Context, serviceType string) ([]string, error) {
	return c.GetServicesByName(ctx, serviceType, PropertyJDBC)
}

// GetEnvironment queries the registry and returns the environment it reports.
func (c *Client) GetEnvironment(ctx context.Context) (string, error) {
	snap, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return snap.Environment, nil
}

func decodeServiceList(body []byte) (*Snapshot, error) {
	var list serviceList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.DecodeFailed("service list", err)
	}
	if list.Services == nil {
		return nil, errors.DecodeFailed("service list", fmt.Errorf("response has no services"))
	}
	return NewSnapshot(list.Environment, *list.Services), nil
}

// withRequestID keeps a caller-supplied request id and generates one otherwise.
func (c *Client) withRequestID(ctx context.Context) context.Context {
	if _, ok := logger.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return logger.ContextWithRequestID(ctx, c.newID())
}

func requestHeaders(ctx context.Context) map[string]string {
	id, ok := logger.RequestIDFromContext(ctx)
	if !ok {
		return nil
	}
	return map[string]string{HeaderRequestID: id}
}
