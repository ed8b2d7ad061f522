// Package localstate persists small client-side state (the restored
// credential set and the speculative analytics snapshot) in a local
// SQLite database. It is a key/value store; values are opaque blobs,
// usually JSON, owned by the callers.
package localstate

import "context"

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
