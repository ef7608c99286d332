package triprepo

import "errors"

// ErrNotFound covers both a missing trip and a trip owned by someone else.
var ErrNotFound = errors.New("trip not found")
