package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is something with a start/stop lifecycle, such as a static
// announcement that must be retracted when the process exits.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start acquires whatever the component holds.
	Start(ctx context.Context) error

	// Stop releases it. Stop after a failed or missing Start is a no-op.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component can report about itself.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component, e.g. "announcement".
	Type string
	// Details is a human-readable one-liner, e.g. "web/general in prod".
	Details string
}

// Describable is optionally implemented by components to describe
// themselves in start-up logs.
type Describable interface {
	Describe() Description
}
