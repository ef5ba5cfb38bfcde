// Package regexstream provides a per-record JSON transformation engine for
// streaming pipelines.
//
// # Overview
//
// RegexStream transforms one JSON record at a time using a declarative list of
// regex operations. Each operation reads a field addressed by a JSON pointer
// path, runs a regular expression against its text value (either extracting a
// capture group or performing a global replace), and writes the result back
// into the record at a caller-specified path, creating any missing intermediate
// object levels on demand.
//
// The repository has two layers:
//
// Core layer (pure transformation logic, no I/O):
//   - jsontree: pointer-based field access, structural deep merge, and
//     path-building writes into JSON documents
//   - regexop: the capture/replace operation types and operation-list parsing
//   - transform: the per-record pipeline that drives the operations in order
//
// Runtime layer (stream processing host):
//   - processor/regex_ops: a lifecycle-managed component that subscribes to
//     NATS subjects, transforms each record, and republishes it
//   - component, natsclient, metric, config, errors: the component model,
//     messaging, observability, configuration, and error classification that
//     back the runtime
//
// The operation list is compiled once at startup and is immutable afterwards;
// each record is transformed independently with no shared mutable state, so
// any number of records can be processed concurrently.
//
// # Quick Start
//
// Library use:
//
//	spec := []byte(`[
//	    {"capture": {"regex": "(?i)Second:\\s+(\\w+)\\b",
//	                 "target": "/description", "output": "/parsed/second"}},
//	    {"replace": {"regex": "\\d{3}-\\d{2}-\\d{4}",
//	                 "target": "/name/ssn", "with": "***-**-****"}}
//	]`)
//
//	t, err := transform.NewFromSpec(spec)
//	if err != nil {
//	    log.Fatal(err) // bad configuration: refuse to start
//	}
//
//	out, err := t.ApplyBytes(record)
//
// Runtime use: see cmd/regexstream and processor/regex_ops.
package regexstream
