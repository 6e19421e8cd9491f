package imagestore

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType marks an upload whose content type is outside the
	// allowed set. Transports map it to a client error.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrNotFound marks a retrieval name that is malformed or not stored.
	ErrNotFound = errors.New("image not found")
)

// FaultError reports an I/O or transform failure while saving or opening
// an image.
type FaultError struct {
	Op   string // "write", "transform", "publish", "open", ...
	Name string
	Err  error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }

func fault(op, name string, err error) error {
	return &FaultError{Op: op, Name: name, Err: err}
}
