// Package ingest runs VRCX rows through the model converters in bulk.
//
// ConvertAll converts a slice of independent rows on a bounded worker pool.
// A row that fails to convert becomes a model.Failure; it never aborts the
// rest of the batch. Only context cancellation stops a batch early.
//
// Pipeline wires a Source of raw rows to a Sink of normalized records and
// records every run, with its per-row failures, under a UUIDv7 run id.
package ingest
