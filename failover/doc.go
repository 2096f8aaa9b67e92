// Package failover runs one operation against an ordered list of registry
// endpoints, trying each endpoint once and stopping at the first success.
//
//	ex, err := failover.New([]string{"http://a:8080", "http://b:8080"})
//	id, err := failover.Execute(ctx, ex, "announce", func(ctx context.Context, endpoint string) (string, error) {
//	    return post(ctx, endpoint)
//	})
//	if errors.IsCode(err, errors.ErrCodeAllEndpointsUnreachable) {
//	    for _, a := range failover.AttemptsOf(err) {
//	        log.Printf("%s: %v", a.Endpoint, a.Err)
//	    }
//	}
//
// Attempts are sequential. There is no retry, no backoff and no parallel
// fan-out; a timeout is an ordinary failed attempt.
package failover
