package contract

import "errors"

// Sentinel errors shared across packages.
var (
	ErrUnsupportedBackend = errors.New("unsupported database backend")
	ErrEmptyProject       = errors.New("project is required")
	ErrNoSnapshots        = errors.New("no snapshot data found")
)
