package discovery

import "context"

// Resolver looks services up in a registry.
type Resolver interface {
	GetServices(ctx context.Context, q Query) ([]ServiceRecord, error)
	GetServicesByName(ctx context.Context, serviceType, propertyKey string) ([]string, error)
	GetEnvironment(ctx context.Context) (string, error)
}

// Registry publishes and retracts static announcements.
type Registry interface {
	StaticAnnounce(ctx context.Context, a Announcement) (string, error)
	StaticDelete(ctx context.Context, id *string) error
}

var (
	_ Resolver = (*Client)(nil)
	_ Registry = (*Client)(nil)
)
