package failover

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/httpclient"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/observability"
)

const detailAttempts = "attempts"

// Attempt records one failed call against one endpoint.
type Attempt struct {
	Endpoint string `json:"endpoint"`
	Err      error  `json:"-"`
}

func (a Attempt) String() string {
	return fmt.Sprintf("%s: %v", a.Endpoint, a.Err)
}

// Executor holds the immutable endpoint list for a client.
// It is safe for concurrent use.
type Executor struct {
	endpoints []string
	log       *logger.Logger
	metrics   *observability.RegistryMetrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for attempt failures.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records attempt and operation metrics.
func WithMetrics(m *observability.RegistryMetrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// New creates an Executor. The endpoint slice is copied; order is attempt
// order and duplicates are kept. An empty list or a blank entry is a
// configuration error.
func New(endpoints []string, opts ...Option) (*Executor, error) {
	if len(endpoints) == 0 {
		return nil, errors.InvalidConfig("Must specify list of discovery service URLS")
	}
	copied := make([]string, len(endpoints))
	for i, ep := range endpoints {
		ep = strings.TrimSpace(ep)
		if ep == "" {
			return nil, errors.InvalidConfig(fmt.Sprintf("discovery URL at position %d is blank", i))
		}
		copied[i] = ep
	}

	e := &Executor{
		endpoints: copied,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("failover")
	return e, nil
}

// Endpoints returns a copy of the configured endpoints in attempt order.
func (e *Executor) Endpoints() []string {
	out := make([]string, len(e.endpoints))
	copy(out, e.endpoints)
	return out
}

// Execute calls fn for each endpoint in order until one returns a nil error.
// When every attempt fails it returns an ALL_ENDPOINTS_UNREACHABLE error whose
// attempts are available through AttemptsOf. If ctx ends part way, the
// remaining endpoints are recorded as failed with the context error and no
// call is made for them.
func Execute[T any](ctx context.Context, e *Executor, op string, fn func(ctx context.Context, endpoint string) (T, error)) (T, error) {
	var zero T
	requestID, _ := logger.RequestIDFromContext(ctx)
	log := e.log.WithContext(ctx)

	oc := observability.NewOperationContext(op, requestID, e.metrics)
	ctx, span := oc.Start(ctx, e.endpoints)

	attempts := make([]Attempt, 0, len(e.endpoints))
	for i, endpoint := range e.endpoints {
		if ctxErr := ctx.Err(); ctxErr != nil {
			attempts = append(attempts, Attempt{Endpoint: endpoint, Err: ctxErr})
			continue
		}

		actx, aspan := oc.StartAttempt(ctx, endpoint, i+1)
		result, err := fn(actx, endpoint)
		oc.EndAttempt(actx, aspan, endpoint, err)
		if err == nil {
			oc.End(ctx, span, observability.StatusOK, nil)
			return result, nil
		}

		attempts = append(attempts, Attempt{Endpoint: endpoint, Err: err})
		logAttemptFailure(log, op, endpoint, i+1, err)
	}

	exhausted := exhaustedError(e.endpoints, attempts)
	log.Error(exhausted.Message, logger.Fields(
		logger.FieldOperation, op,
		"attempts", len(attempts),
	))
	oc.End(ctx, span, observability.StatusExhausted, exhausted)
	return zero, exhausted
}

// AttemptsOf returns the failed attempts carried by an
// ALL_ENDPOINTS_UNREACHABLE error, in attempt order. Other errors yield nil.
func AttemptsOf(err error) []Attempt {
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeAllEndpointsUnreachable {
		return nil
	}
	attempts, ok := appErr.Details[detailAttempts].([]Attempt)
	if !ok {
		return nil
	}
	out := make([]Attempt, len(attempts))
	copy(out, attempts)
	return out
}

func exhaustedError(endpoints []string, attempts []Attempt) *errors.AppError {
	causes := make([]error, 0, len(attempts))
	for _, a := range attempts {
		causes = append(causes, fmt.Errorf("%s: %w", a.Endpoint, a.Err))
	}
	return errors.AllEndpointsUnreachable(endpoints, stderrors.Join(causes...)).
		WithDetail(detailAttempts, attempts)
}

func logAttemptFailure(log *logger.Logger, op, endpoint string, attempt int, err error) {
	fields := logger.Fields(
		logger.FieldOperation, op,
		logger.FieldEndpoint, endpoint,
		logger.FieldAttempt, attempt,
	)
	if status := httpclient.StatusCode(err); status > 0 {
		fields[logger.FieldStatus] = status
		if body := httpclient.ResponseBody(err); len(body) > 0 {
			fields["body"] = string(body)
		}
	}
	log.Error(endpoint+": "+err.Error(), logger.MergeWithError(fields, err))
}
