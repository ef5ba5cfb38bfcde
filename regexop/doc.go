// Package regexop defines the regex operations a RegexStream transformer can
// run against a record field, and the parsing of the declarative operation
// list they are configured from.
//
// Two operation kinds exist, forming a closed set:
//
//   - Capture extracts the first explicit capture group of a pattern from the
//     source field's text and targets a separate output path. No match, or a
//     group that did not participate in the match, yields the empty string.
//
//   - Replace performs a global find-and-replace over the source field's text
//     using a replacement template (which may reference groups as $1 or
//     ${name}) and writes back to the source path itself. Text with no match
//     passes through unchanged.
//
// Patterns use Go's regexp syntax, including inline flags such as (?i) for
// case-insensitive matching, character classes, anchors, and named or
// numbered capture groups. Every pattern is compiled once when the operation
// list is parsed; a pattern that fails to compile is a configuration error
// that must prevent the transformer from starting.
//
// The wire format of the operation list is a JSON array:
//
//	[
//	    {"capture": {"regex": "...", "target": "/src", "output": "/dst"}},
//	    {"replace": {"regex": "...", "target": "/src", "with": "template"}}
//	]
//
// ParseSpec validates the blob against an embedded JSON Schema before
// decoding, so malformed configuration is rejected with a precise reason
// instead of producing a half-built operation list.
package regexop
