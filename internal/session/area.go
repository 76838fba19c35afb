// Package session persists the (credential, user) pair in a key-value area
// shared by every storefront context, and exposes it as one combined record.
package session

import (
	"context"
	"errors"
)

// ErrAreaClosed is returned by areas that were shut down.
var ErrAreaClosed = errors.New("session area closed")

// Area is the key-value space shared by all storefront contexts.
//
// Watch delivers the native change notification: fn is called with the
// mutated key whenever ANOTHER context changes the area. Mutations made
// through the same Area value are not reported back to it.
//
// GetMany reads several keys as one snapshot; missing keys are left out of
// the result.
type Area interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Put(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Watch(fn func(key string)) (stop func(), err error)
}
