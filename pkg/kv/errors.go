package kv

import "errors"

// ErrNotFound is returned for absent or expired keys.
var ErrNotFound = errors.New("kv: key not found")
