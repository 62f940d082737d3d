package ports

import "context"

// KVStore is the string key-value storage holding the session token and the
// cached user record. Multi-key writes and deletes are applied together where
// the backend allows it.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
