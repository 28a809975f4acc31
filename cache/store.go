package cache

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by a Store when the key holds no value.
var ErrNotFound = errors.New("cache entry not found")

// Store is the key-value storage the cache persists its entry in. Put must
// replace the value atomically.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Error describes a failed cache operation. The cache never returns it to
// its callers; it only shows up in the log.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Cause() error {
	return e.Err
}

func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
