package regexop

import "regexp"

// Operation is one configured regex operation. The set of implementations is
// closed: Capture and Replace are the only variants.
//
// Implementations are immutable after construction and safe for concurrent
// use by any number of transformations.
type Operation interface {
	// Target returns the pointer path of the source field to read.
	Target() string

	// Output returns the pointer path the result is written to. For Replace
	// operations this is the target path (in-place replace semantics).
	Output() string

	// Apply runs the operation against the field's text value. An empty
	// result means "nothing to write" and the caller skips the operation.
	Apply(text string) string

	// isOperation seals the interface to this package's variants.
	isOperation()
}

// Capture extracts the first explicit capture group of a pattern from a
// source field into a separate output field.
type Capture struct {
	pattern *regexp.Regexp
	target  string
	output  string
}

// NewCapture creates a capture operation from an already-compiled pattern.
func NewCapture(pattern *regexp.Regexp, target, output string) Capture {
	return Capture{pattern: pattern, target: target, output: output}
}

// Target returns the source field path.
func (c Capture) Target() string { return c.target }

// Output returns the destination field path.
func (c Capture) Output() string { return c.output }

// Apply returns the text of capture group 1 for the first match of the
// pattern. No match at all, or a group 1 that did not participate in the
// match, returns the empty string; neither is an error.
func (c Capture) Apply(text string) string {
	m := c.pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func (Capture) isOperation() {}

// Replace performs a global find-and-replace on a source field, writing the
// result back to the same path.
type Replace struct {
	pattern *regexp.Regexp
	target  string
	with    string
}

// NewReplace creates a replace operation from an already-compiled pattern.
// The replacement template may reference capture groups ($1, ${name}).
func NewReplace(pattern *regexp.Regexp, target, with string) Replace {
	return Replace{pattern: pattern, target: target, with: with}
}

// Target returns the source field path.
func (r Replace) Target() string { return r.target }

// Output returns the source field path: a replace always writes in place.
func (r Replace) Output() string { return r.target }

// Apply substitutes every match of the pattern in text with the replacement
// template. When nothing matches, the input is returned unchanged; a no-op
// replace is therefore still a non-empty result and still written back.
func (r Replace) Apply(text string) string {
	return r.pattern.ReplaceAllString(text, r.with)
}

func (Replace) isOperation() {}
