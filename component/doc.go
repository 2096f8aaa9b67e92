// Package component runs start/stop lifecycles in a fixed order.
//
// Register components in dependency order, call StartAll on the way up and
// StopAll on the way down:
//
//	reg := component.NewRegistry(log)
//	_ = reg.Register(discovery.NewAnnouncer(client, announcement, log))
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
