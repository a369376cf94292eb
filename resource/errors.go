package resource

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for every request that does not map to a servable
// resource. Malformed paths unwrap to it as well.
var ErrNotFound = errors.New("resource not found")

// PathError describes why a request path was rejected.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid resource path %q: %s", e.Path, e.Reason)
}

func (e *PathError) Unwrap() error {
	return ErrNotFound
}

// NotFound returns an error for the store key name that wraps ErrNotFound.
func NotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}
