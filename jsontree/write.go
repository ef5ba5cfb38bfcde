package jsontree

import "strings"

// Write places value at path within doc, merging with any existing content.
//
// A path with no '/' separator at all is malformed for write purposes and is
// silently discarded, leaving doc untouched. Otherwise Write walks the path
// from leaf toward root: if the full path already resolves, value is merged
// into the existing subtree in place; if not, the last segment is popped and
// value is wrapped in a one-entry object keyed by it, and the parent path is
// tried next, until an existing anchor point (or the document root) absorbs
// the accumulated structure.
//
// If an intermediate component exists but is not an object (an array, say),
// resolution fails for the deeper path and the wrapped value lands at the
// nearest object ancestor, replacing the non-object content entirely.
//
// Writing the same scalar (path, value) pair twice yields the same document
// as writing it once.
func Write(doc *any, path string, value any) {
	if !strings.Contains(path, "/") {
		return
	}

	for {
		// Existing subtree at this level: merge and stop.
		if mergeAt(doc, path, value) {
			return
		}

		segments := strings.Split(path, "/")[1:]
		if len(segments) == 0 {
			// Root marker with nothing to pop: merge at the top.
			Merge(doc, value)
			return
		}

		// Pop the leaf segment and wrap the value one level deeper.
		key := segments[len(segments)-1]
		segments = segments[:len(segments)-1]
		value = map[string]any{key: value}

		if len(segments) == 0 {
			// New top-level key: merge the wrapped value at the root.
			Merge(doc, value)
			return
		}

		path = "/" + strings.Join(segments, "/")
	}
}

// mergeAt merges value into the subtree addressed by pointer, if one exists.
// Returns false when the pointer does not resolve, in which case doc is left
// unchanged.
func mergeAt(doc *any, pointer string, value any) bool {
	if pointer == "" {
		Merge(doc, value)
		return true
	}

	tokens, ok := parsePointer(pointer)
	if !ok {
		return false
	}

	// Walk to the parent of the final token so a replacing merge can be
	// written back into its container.
	cur := *doc
	for _, tok := range tokens[:len(tokens)-1] {
		next, ok := step(cur, tok)
		if !ok {
			return false
		}
		cur = next
	}

	last := tokens[len(tokens)-1]
	switch c := cur.(type) {
	case map[string]any:
		existing, ok := c[last]
		if !ok {
			return false
		}
		Merge(&existing, value)
		c[last] = existing
		return true
	case []any:
		i, ok := arrayIndex(last, len(c))
		if !ok {
			return false
		}
		existing := c[i]
		Merge(&existing, value)
		c[i] = existing
		return true
	default:
		return false
	}
}
