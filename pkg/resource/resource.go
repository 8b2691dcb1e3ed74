// Package resource loads one backend value per page load and reports it as a
// small state machine the templates can switch on
package resource

import (
	"context"
	"errors"
	"log"
	"reflect"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
)

// Status is the state of a resource
type Status string

const (
	Failed    Status = "failed"
	Loaded    Status = "loaded"
	Cancelled Status = "cancelled" // The requester went away before the value arrived
)

// Resource is the result of one load
type Resource[T any] struct {
	Status  Status
	Value   T
	Err     error
	Message string // User-visible text when Status is Failed
}

// Fetcher retrieves a value from the backend
type Fetcher[T any] func(ctx context.Context) (T, error)

// Load performs exactly one fetch. Failures become a Failed resource carrying a
// user message built from fallback. A cancelled context yields Cancelled and
// the value is discarded
func Load[T any](ctx context.Context, fetch Fetcher[T], fallback string) Resource[T] {
	value, err := fetch(ctx)

	if ctx.Err() != nil {
		return Resource[T]{Status: Cancelled, Err: ctx.Err()}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Resource[T]{Status: Cancelled, Err: err}
		}
		return Resource[T]{Status: Failed, Err: err, Message: sdk.UserMessage(err, fallback)}
	}

	return Resource[T]{Status: Loaded, Value: value}
}

// IsFailed reports whether the fetch failed
func (r Resource[T]) IsFailed() bool {
	return r.Status == Failed
}

// IsLoaded reports whether the value is available
func (r Resource[T]) IsLoaded() bool {
	return r.Status == Loaded
}

// IsCancelled reports whether the load was abandoned
func (r Resource[T]) IsCancelled() bool {
	return r.Status == Cancelled
}

// Empty reports whether a loaded value is an empty slice or map
func (r Resource[T]) Empty() bool {
	if r.Status != Loaded {
		return false
	}

	v := reflect.ValueOf(r.Value)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Invalid:
		return true
	}
	return false
}

// Logged logs a failed or cancelled resource under the given tag and returns it unchanged
func Logged[T any](r Resource[T], tag string, what string) Resource[T] {
	switch r.Status {
	case Failed:
		log.Printf("[%s]: Failed to load %s: %s", tag, what, r.Err)
	case Cancelled:
		log.Printf("[%s]: Load of %s cancelled: %s", tag, what, r.Err)
	}
	return r
}
