package storage

import (
	"context"

	"github.com/cockroachdb/errors"
)

var ErrDoesNotExist = errors.New("does not exist")

// System defines the operations for interacting with the archive backend
type System interface {
	// Write uploads data under the given key, overwriting any existing object
	Write(ctx context.Context, key string, data []byte) error

	// Read fetches the object stored under key
	Read(ctx context.Context, key string) ([]byte, error)

	// GetKeysWithPrefix returns every key beginning with prefix. Implementations
	// must walk all listing pages before returning; a truncated listing would
	// undercount the keys already written for a day.
	GetKeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
