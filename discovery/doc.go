// Package discovery is a client for a service-discovery registry.
//
// A Client resolves services by type and pool, publishes static announcements
// and retracts them. Every operation walks the configured registry endpoints
// in order through the failover package and returns on the first success.
//
//	client, err := discovery.NewClient([]string{"http://discovery-a:8080", "http://discovery-b:8080"},
//	    discovery.WithLogger(log),
//	)
//	services, err := client.GetServices(ctx, discovery.Query{Type: util.Ptr("web")})
//
//	id, err := client.StaticAnnounce(ctx, discovery.Announcement{
//	    Pool:        util.Ptr("general"),
//	    Environment: util.Ptr("prod"),
//	    Type:        util.Ptr("web"),
//	    Properties:  map[string]string{"http": "http://10.0.0.1:8080"},
//	})
//	defer client.StaticDelete(ctx, &id)
//
// Each query goes to the registry; the last successful result is kept only so
// Snapshot can return it without network I/O.
package discovery
