// Package jsontree implements pointer-based access and structural mutation of
// JSON documents represented as encoding/json values (map[string]any, []any,
// string, float64, bool, nil).
//
// Three capabilities build on each other:
//
//   - Read resolves a slash-delimited pointer path against a document and
//     returns the addressed value as text. Strings pass through verbatim;
//     everything else is serialized to compact JSON. A path that does not
//     resolve yields the empty string, which callers treat as "absent" rather
//     than as an error.
//
//   - Merge deep-merges one value into another. Two objects merge key by key,
//     recursively; in every other pairing the source value replaces the
//     destination outright, so a scalar always wins over an object and an
//     object always wins over an array.
//
//   - Write places a value at a pointer path, building any missing
//     intermediate object levels leaf-to-root and merging with whatever
//     already exists at the first anchor point it finds. A path containing no
//     separator at all is silently discarded so a malformed destination can
//     never corrupt the document.
//
// Read decodes RFC 6901 escapes (~0, ~1) in pointer tokens. Write splits the
// destination path on '/' without decoding, mirroring the asymmetry of the
// original pointer implementation this package is modeled on.
package jsontree
