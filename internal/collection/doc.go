// Package collection holds the in-memory representation of a game collection:
// the per-row Record type with its tri-state optional cells, identity-key
// normalization, duplicate collapsing, and the CSV codec for the flat file the
// tool reads and writes.
//
// Missing values, values a run explicitly marked Unknown, and user-entered
// values are distinct states; the literal "Unknown" string exists only at the
// CSV boundary. Downstream enrichment logic should branch on cell state, never
// on rendered strings.
package collection
