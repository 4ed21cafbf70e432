package domain

import "errors"

// ErrNotFound marks lookups that resolved cleanly but matched nothing: an
// unknown station name or a keyword with no nearby places. Callers map it to
// user-facing guidance instead of a generic failure.
var ErrNotFound = errors.New("not found")
