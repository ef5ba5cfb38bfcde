package transform

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/c360/regexstream/errors"
	"github.com/c360/regexstream/jsontree"
	"github.com/c360/regexstream/regexop"
)

// Record is one unit of input or output: a JSON document plus an opaque key
// that passes through the transformation unchanged.
type Record struct {
	Key   []byte
	Value []byte
}

// Transformer applies a fixed operation list to JSON records.
//
// The operation list is set at construction and never mutated, so a single
// Transformer is safe for concurrent use.
type Transformer struct {
	ops []regexop.Operation
}

// New creates a Transformer from already-compiled operations.
func New(ops []regexop.Operation) *Transformer {
	return &Transformer{ops: ops}
}

// NewFromSpec creates a Transformer by parsing the operation-list
// configuration blob. A parse or compile failure is a configuration error;
// the caller must treat it as fatal and not process records.
func NewFromSpec(raw []byte) (*Transformer, error) {
	ops, err := regexop.ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	return New(ops), nil
}

// Operations returns the number of configured operations.
func (t *Transformer) Operations() int {
	return len(t.ops)
}

// Apply transforms one record and returns the mutated document.
//
// The record must be UTF-8 text holding a single JSON document; anything
// else aborts this record with an invalid-record error. Each operation then
// runs in configured order: read source field, run regex, write non-empty
// results back. An empty read or an empty regex result skips that operation.
// Later operations see the cumulative effect of earlier writes.
func (t *Transformer) Apply(record []byte) (any, error) {
	if !utf8.Valid(record) {
		return nil, errors.WrapInvalid(errors.ErrInvalidText, "Transformer", "Apply", "decode record")
	}

	var doc any
	if err := json.Unmarshal(record, &doc); err != nil {
		return nil, errors.WrapInvalid(err, "Transformer", "Apply", "parse record JSON")
	}

	for _, op := range t.ops {
		// Skip if the source field is absent
		text := jsontree.Read(doc, op.Target())
		if text == "" {
			continue
		}

		// Skip if the regex produced nothing
		result := op.Apply(text)
		if result == "" {
			continue
		}

		jsontree.Write(&doc, op.Output(), result)
	}

	return doc, nil
}

// ApplyBytes transforms one record and re-serializes the result to compact
// JSON.
func (t *Transformer) ApplyBytes(record []byte) ([]byte, error) {
	doc, err := t.Apply(record)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Transformer", "ApplyBytes", "serialize result")
	}
	return out, nil
}

// TransformRecord transforms a keyed record, passing the key through
// untouched.
func (t *Transformer) TransformRecord(rec Record) (Record, error) {
	out, err := t.ApplyBytes(rec.Value)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: rec.Key, Value: out}, nil
}
