package repository

import "errors"

// ErrStore is the sentinel kind for persistence failures. Callers treat
// it as a generic storage failure, distinct from validation or not-found
// conditions.
var ErrStore = errors.New("event store failure")
