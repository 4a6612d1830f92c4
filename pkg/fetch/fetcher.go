package fetch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/statekit-dev/statekit/internal/errkit"
	"github.com/statekit-dev/statekit/pkg/state"
)

// tracerName identifies fetch spans.
const tracerName = "statekit/fetch"

// FetchState is the observable {loading, data, error} tuple.
// At most one of a data update or an error update is current at a time:
// a successful fetch clears the prior error, and a failed fetch leaves
// the previous data untouched.
type FetchState struct {
	// Loading is true while at least one request is outstanding.
	Loading bool

	// Data is the last successfully decoded JSON payload, or nil.
	Data any

	// Err is the last captured failure, or nil.
	Err error
}

// Fetcher owns the fetch lifecycle and status flags for one base address.
//
// Fetch is re-entrant: calling it again while a previous call is
// outstanding starts a second concurrent request. Both race to update
// the shared state and the last one to complete wins — deliberately no
// cancellation and no sequencing between overlapping calls.
type Fetcher struct {
	base   string
	client *http.Client
	logger *slog.Logger
	tracer trace.Tracer

	loading *state.Signal[bool]
	data    *state.Signal[any]
	err     *state.Signal[error]

	// outstanding counts in-flight requests; loading is derived from it
	// so overlapping calls keep loading true until the last settles.
	outstanding atomic.Int64

	onSuccess func(any)
	onError   func(error)
}

// NewFetcher creates a Fetcher with the given base address.
// The request URL for Fetch(path) is exactly base + path; no separator
// is inserted, matching the caller-supplied concatenation contract.
func NewFetcher(base string, opts ...Option) *Fetcher {
	f := &Fetcher{
		base:    base,
		client:  http.DefaultClient,
		logger:  slog.Default().With("component", "fetch"),
		tracer:  otel.Tracer(tracerName),
		loading: state.NewSignal(false),
		data:    state.NewSignal[any](nil),
		err:     state.NewSignal[error](nil),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Base returns the fixed base address this Fetcher was constructed with.
func (f *Fetcher) Base() string {
	return f.base
}

// Fetch issues a GET request to base + path in its own goroutine and
// returns immediately; the caller is never blocked. The returned
// channel closes once this call has settled (state updated, loading
// released), which is the awaitable handle for callers that care.
func (f *Fetcher) Fetch(path string) <-chan struct{} {
	f.begin()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.do(context.Background(), path)
	}()
	return done
}

// begin marks one request outstanding before the goroutine starts, so
// loading is observably true immediately after Fetch returns.
func (f *Fetcher) begin() {
	inFlight.Inc()
	if f.outstanding.Add(1) == 1 {
		f.loading.Set(true)
	}
}

// settle releases one outstanding request. Loading drops to false only
// when the last overlapping request finishes.
func (f *Fetcher) settle() {
	inFlight.Dec()
	if f.outstanding.Add(-1) == 0 {
		f.loading.Set(false)
	}
}

// do performs one fetch operation synchronously.
// Errors are recorded as state, never returned.
func (f *Fetcher) do(ctx context.Context, path string) {
	defer f.settle()

	start := time.Now()
	url := f.base + path

	ctx, span := f.tracer.Start(ctx, "fetch.get",
		trace.WithAttributes(
			attribute.String("fetch.base", f.base),
			attribute.String("fetch.path", path),
		))
	defer span.End()
	defer func() {
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	payload, err := f.get(ctx, url)
	if err != nil {
		f.fail(span, url, err)
		return
	}

	// Success clears any prior error; both writes land atomically for
	// observers.
	state.Batch(func() {
		f.data.Set(payload)
		f.err.Set(nil)
	})

	requestsTotal.WithLabelValues(outcomeSuccess).Inc()
	span.SetStatus(codes.Ok, "")
	f.logger.Debug("fetch succeeded", "url", url, "duration", time.Since(start))

	if f.onSuccess != nil {
		f.onSuccess(payload)
	}
}

// get issues the GET request and decodes the JSON body.
// A non-2xx status is not itself a failure; the body is decoded like
// any other response.
func (f *Fetcher) get(ctx context.Context, url string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// fail records a failure. Prior data is left untouched (stale data
// remains readable next to the error).
func (f *Fetcher) fail(span trace.Span, url string, cause error) {
	// Single error kind: transport and decode failures collapse into one.
	ferr := errkit.Wrap("E101", cause).WithDetail("GET %s", url)

	f.err.Set(ferr)

	requestsTotal.WithLabelValues(outcomeError).Inc()
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	f.logger.Error("fetch failed", "url", url, "error", cause)

	if f.onError != nil {
		f.onError(ferr)
	}
}

// Loading returns the loading signal for tracked reads or subscription.
func (f *Fetcher) Loading() *state.Signal[bool] {
	return f.loading
}

// Data returns the data signal for tracked reads or subscription.
func (f *Fetcher) Data() *state.Signal[any] {
	return f.data
}

// Err returns the error signal for tracked reads or subscription.
func (f *Fetcher) Err() *state.Signal[error] {
	return f.err
}

// State returns an untracked snapshot of the current fetch state.
func (f *Fetcher) State() FetchState {
	return FetchState{
		Loading: f.loading.Peek(),
		Data:    f.data.Peek(),
		Err:     f.err.Peek(),
	}
}

// Subscribe registers an observer called with a fresh snapshot whenever
// any part of the fetch state changes. The returned function cancels
// the subscription.
func (f *Fetcher) Subscribe(fn func(FetchState)) func() {
	notify := func() { fn(f.State()) }

	cancelLoading := f.loading.Subscribe(func(bool) { notify() })
	cancelData := f.data.Subscribe(func(any) { notify() })
	cancelErr := f.err.Subscribe(func(error) { notify() })

	return func() {
		cancelLoading()
		cancelData()
		cancelErr()
	}
}
