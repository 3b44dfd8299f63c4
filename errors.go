package assetcache

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a load is requested after the manager has
// been closed.
var ErrClosed = errors.New("assetcache: manager closed")

var errNilInstance = errors.New("loader returned nil instance")

// LoadError indicates that a caller-supplied loader failed. Nothing is
// cached for the key.
//
// The loader's error can be accessed via errors.Unwrap.
type LoadError struct {
	Key   string
	cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Key, e.cause)
}

func (e *LoadError) Unwrap() error { return e.cause }
