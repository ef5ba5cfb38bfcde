// Package transform implements the per-record transformation pipeline.
//
// A Transformer holds the compiled, immutable operation list and applies it
// to one JSON record at a time: for each operation, in configured order, it
// reads the source field, runs the regex, and writes the non-empty result
// back into the document. Absent fields, non-matching patterns, and empty
// capture groups all surface as an empty string and silently skip that
// operation's write; only an unreadable payload (not UTF-8, not JSON) aborts
// the record.
//
// Later operations observe the writes of earlier ones, so an operation may
// read a field that a preceding operation produced.
//
// Each call owns its document exclusively and the operation list is
// read-only, so a single Transformer serves any number of concurrent calls
// without locking.
package transform
