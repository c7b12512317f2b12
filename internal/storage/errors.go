package storage

import "errors"

// ErrInvalidPid is returned whenever a caller names a page id outside the
// range the paged file currently manages.
var ErrInvalidPid = errors.New("invalid page id")
