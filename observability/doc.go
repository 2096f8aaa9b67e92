// Package observability wires OpenTelemetry tracing and metrics for registry
// operations.
//
// Tracing and metrics are off unless a provider is installed; the otel globals
// default to no-ops, so library users pay nothing when they do not opt in.
//
//	shutdown, err := observability.Setup(ctx, observability.Config{
//	    ServiceName: "sdiscovery",
//	    Endpoint:    "localhost:4318",
//	    Insecure:    true,
//	})
//	defer shutdown(ctx)
//
// The failover executor opens one span per logical operation and one child
// span per endpoint attempt, and records counters through RegistryMetrics.
package observability
