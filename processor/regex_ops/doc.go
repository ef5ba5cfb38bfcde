// Package regexopsprocessor provides a processor that rewrites JSON records
// with an ordered list of regex capture and replace operations.
//
// # Overview
//
// The regex ops processor subscribes to NATS subjects carrying raw JSON
// records (json.record.v1 interface), runs each record through a compiled
// regex operation pipeline, and publishes the rewritten record to an output
// subject. The pipeline is fixed at creation: a bad pattern or a malformed
// operation list fails component creation, never record processing.
//
// # Operations
//
// Two operation kinds are supported:
//
//   - Capture: extract the first capture group of a pattern from a source
//     field and write it to a separate output field
//   - Replace: globally substitute every match of a pattern in a source
//     field, in place
//
// Operations run in configured order, and each one sees the writes of the
// operations before it. Fields are addressed with JSON pointer paths
// ("/customer/ssn"); writing to a path that does not exist yet creates the
// intermediate objects.
//
// # Quick Start
//
// Extract an order number and mask social security numbers:
//
//	config := regexopsprocessor.Config{
//	    Ports: &component.PortConfig{
//	        Inputs: []component.PortDefinition{
//	            {Name: "input", Type: "nats", Subject: "records.raw.>", Interface: "json.record.v1"},
//	        },
//	        Outputs: []component.PortDefinition{
//	            {Name: "output", Type: "nats", Subject: "records.clean", Interface: "json.record.v1"},
//	        },
//	    },
//	    Operations: json.RawMessage(`[
//	        {"capture": {"regex": "(?i)order\\s+(\\d+)", "target": "/description", "output": "/parsed/order-id"}},
//	        {"replace": {"regex": "\\d{3}-\\d{2}-\\d{4}", "target": "/customer/ssn", "with": "***-**-****"}}
//	    ]`),
//	}
//
//	rawConfig, _ := json.Marshal(config)
//	processor, err := regexopsprocessor.NewProcessor(rawConfig, deps)
//
// A record like
//
//	{"description": "Shipped Order 4521", "customer": {"ssn": "123-45-6789"}}
//
// becomes
//
//	{"description": "Shipped Order 4521",
//	 "customer": {"ssn": "***-**-****"},
//	 "parsed": {"order-id": "4521"}}
//
// # Skip Semantics
//
// A single operation is skipped, without failing the record, when:
//
//   - the source field is absent, or reads as the empty string
//   - a capture pattern does not match, or group 1 is empty
//
// A replace whose pattern matches nothing writes the unchanged value back,
// which leaves the record identical.
//
// # Error Handling
//
// The processor uses the errors package for consistent classification:
//
//   - Invalid config or bad regex: errors.WrapInvalid at creation
//   - NATS errors: errors.WrapTransient (retryable)
//
// Records that are not UTF-8 text or not a single JSON document are dropped
// and counted; the rest of the stream keeps flowing. Drops are logged at
// Debug level.
//
// # Load Balancing
//
// Input ports may name a NATS queue group. Instances sharing the same queue
// split the subject's records between them, so a hot subject can be scaled
// horizontally without duplicate outputs.
//
// # Observability
//
// The processor implements component.Discoverable, and registers Prometheus
// metrics under the regexstream_regex_ops namespace when a metrics registry
// is provided: transformation counts and durations, output sizes, drop and
// error counters, and the configured pipeline size.
//
// # Testing
//
// Run tests:
//
//	go test ./processor/regex_ops -v              # Unit tests
//	INTEGRATION_TESTS=1 go test -tags integration ./processor/regex_ops -v  # Integration tests
package regexopsprocessor
