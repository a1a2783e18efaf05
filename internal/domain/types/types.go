// Package types contains common types shared between the service facade
// and the HTTP adapter.
package types

import "errors"

// ErrBatchTooLarge reports a batch exceeding the configured limit.
var ErrBatchTooLarge = errors.New("batch too large")

// BatchItem is the per-record outcome of a batch ingestion.
type BatchItem struct {
	Index int
	ID    int64
	Err   error
}

// BatchResult summarizes a batch ingestion. One invalid record never
// blocks the valid ones; each item carries its own outcome.
type BatchResult struct {
	BatchID      string
	SuccessCount int
	TotalCount   int
	Items        []BatchItem
}
