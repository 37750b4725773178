// Package hltb provides the minimal completion-time provider client used
// during collection enrichment.
//
// It exposes a single search-by-title operation returning fuzzy-matched
// candidates with provider-computed similarity scores, release years,
// main-story estimates, and community scores. Responses are strongly typed so
// the match resolver can threshold them. Options allow tests to supply custom
// HTTP clients without modifying production code.
package hltb
