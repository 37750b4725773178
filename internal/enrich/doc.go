// Package enrich drives the collection enrichment pipeline: deduplication,
// field-selection pre-pass, concurrent completion-time resolution and genre
// classification, Unknown fill and quarter-hour rounding in the post-pass,
// and the run cost summary.
//
// All per-record and per-batch provider failures are contained at that
// granularity; a run always completes and produces an output row for every
// input record. Run-scoped state (the genre cache and the cost ledger) is
// created inside Run and discarded with it, so repeated runs never leak
// state into each other.
package enrich
