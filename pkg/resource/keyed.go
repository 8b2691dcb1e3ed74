package resource

import (
	"context"
	"errors"
	"strings"
)

// Keyed loads a value identified by a key, such as a transcript by id. The
// value is refetched whenever the key changes; an empty key is never fetched
type Keyed[T any] struct {
	Fetch    func(ctx context.Context, key string) (T, error)
	Fallback string // User message when the fetch fails without a backend message
	Missing  string // User message when the key is empty
}

// Load fetches the value for key once
func (k Keyed[T]) Load(ctx context.Context, key string) Resource[T] {
	key = strings.TrimSpace(key)
	if key == "" {
		return Resource[T]{Status: Failed, Err: ErrNoKey, Message: k.Missing}
	}

	return Load[T](ctx, func(ctx context.Context) (T, error) {
		return k.Fetch(ctx, key)
	}, k.Fallback)
}

// ErrNoKey is returned for loads without an identifier
var ErrNoKey = errors.New("no identifier given")
