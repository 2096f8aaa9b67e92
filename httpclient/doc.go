// Package httpclient is the HTTP transport used to reach registry endpoints.
//
// Each call to Do is exactly one request: there is no retry, no circuit
// breaker and no rate limiting here. Endpoint failover is the caller's job.
// Non-2xx responses and connection failures come back as a classified *Error.
//
//	client, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	target, err := httpclient.ResolveURL("http://discovery:8080", "v1", "service")
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   target,
//	})
package httpclient
