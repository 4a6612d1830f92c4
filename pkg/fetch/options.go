package fetch

import (
	"log/slog"
	"net/http"
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client used for requests.
// Defaults to http.DefaultClient.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets the logger for fetch lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// OnSuccess registers a callback invoked after each successful fetch
// with the decoded payload.
func OnSuccess(fn func(any)) Option {
	return func(f *Fetcher) {
		f.onSuccess = fn
	}
}

// OnError registers a callback invoked after each failed fetch with the
// captured error.
func OnError(fn func(error)) Option {
	return func(f *Fetcher) {
		f.onError = fn
	}
}
