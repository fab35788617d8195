package cache

import "errors"

// ErrEmptyKey is returned by Set when the key is empty.
var ErrEmptyKey = errors.New("cache key must not be empty")
