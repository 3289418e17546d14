package storage

import "errors"

// ErrTokenNotFound is returned by token stores for unknown or expired keys.
var ErrTokenNotFound = errors.New("token not found")
