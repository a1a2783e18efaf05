package model

import "errors"

// Sentinel kinds shared by the validator, the store and the API layer.
// Not-found is deliberately distinct from validation failure: referencing
// an unknown entity is not the same as a malformed record.
var (
	ErrWorkerNotFound  = errors.New("worker not found")
	ErrStationNotFound = errors.New("workstation not found")
)
