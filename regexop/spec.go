package regexop

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/regexstream/errors"
)

// specSchemaJSON is the JSON Schema every operation list must satisfy:
// an array of single-key objects, each either a capture or a replace with
// exactly its three required string fields.
const specSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"minProperties": 1,
		"maxProperties": 1,
		"additionalProperties": false,
		"properties": {
			"capture": {
				"type": "object",
				"required": ["regex", "target", "output"],
				"additionalProperties": false,
				"properties": {
					"regex":  {"type": "string", "minLength": 1},
					"target": {"type": "string"},
					"output": {"type": "string"}
				}
			},
			"replace": {
				"type": "object",
				"required": ["regex", "target", "with"],
				"additionalProperties": false,
				"properties": {
					"regex":  {"type": "string", "minLength": 1},
					"target": {"type": "string"},
					"with":   {"type": "string"}
				}
			}
		}
	}
}`

var specSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(specSchemaJSON))
	if err != nil {
		panic("regexop: embedded spec schema is invalid: " + err.Error())
	}
	specSchema = schema
}

// Wire format of one operation-list element. Exactly one of the two variants
// is set; the schema enforces that before decoding.
type rawOperation struct {
	Capture *rawCapture `json:"capture,omitempty"`
	Replace *rawReplace `json:"replace,omitempty"`
}

type rawCapture struct {
	Regex  string `json:"regex"`
	Target string `json:"target"`
	Output string `json:"output"`
}

type rawReplace struct {
	Regex  string `json:"regex"`
	Target string `json:"target"`
	With   string `json:"with"`
}

// ParseSpec parses the operation-list configuration blob into compiled
// operations.
//
// The blob is validated against the embedded schema, decoded, and every
// pattern compiled. Any failure (missing blob, invalid JSON, schema
// violation, uncompilable pattern) is a configuration error: the caller must
// not start transforming records. The returned slice preserves configuration
// order and is immutable by convention; it is safe to share across
// concurrent transformations.
func ParseSpec(raw []byte) ([]Operation, error) {
	if len(raw) == 0 {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "OperationList", "ParseSpec", "read operations spec")
	}

	result, err := specSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, errors.WrapInvalid(err, "OperationList", "ParseSpec", "parse spec JSON")
	}
	if !result.Valid() {
		return nil, errors.WrapInvalid(
			fmt.Errorf("spec does not match schema: %s", formatSchemaErrors(result)),
			"OperationList", "ParseSpec", "validate spec")
	}

	var rawOps []rawOperation
	if err := json.Unmarshal(raw, &rawOps); err != nil {
		return nil, errors.WrapInvalid(err, "OperationList", "ParseSpec", "decode spec")
	}

	ops := make([]Operation, 0, len(rawOps))
	for i, ro := range rawOps {
		op, err := ro.compile()
		if err != nil {
			return nil, errors.WrapInvalid(err, "OperationList", "ParseSpec",
				fmt.Sprintf("compile operation %d", i))
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// compile turns a wire element into its compiled operation.
func (ro rawOperation) compile() (Operation, error) {
	switch {
	case ro.Capture != nil:
		pattern, err := regexp.Compile(ro.Capture.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errors.ErrInvalidRegex, ro.Capture.Regex, err)
		}
		return NewCapture(pattern, ro.Capture.Target, ro.Capture.Output), nil
	case ro.Replace != nil:
		pattern, err := regexp.Compile(ro.Replace.Regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errors.ErrInvalidRegex, ro.Replace.Regex, err)
		}
		return NewReplace(pattern, ro.Replace.Target, ro.Replace.With), nil
	default:
		// Unreachable when the schema validated, kept as a guard for direct
		// construction of rawOperation.
		return nil, errors.ErrInvalidConfig
	}
}

// formatSchemaErrors flattens schema validation errors into one line.
func formatSchemaErrors(result *gojsonschema.Result) string {
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return strings.Join(msgs, "; ")
}
