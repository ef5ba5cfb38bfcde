// Package component defines the discovery, lifecycle, and registration
// contracts shared by every runtime component.
//
// A component is anything that can be created from configuration and wired
// into the NATS message fabric: processors that transform records, or
// supporting pieces like metric exporters. Components implement Discoverable
// so the management layer can inspect their ports, configuration schema,
// health, and data flow at runtime. Components that run goroutines or hold
// connections additionally implement LifecycleComponent:
//
//	Initialize() error                  // setup only, no I/O
//	Start(ctx context.Context) error    // begin work, context passed through
//	Stop(timeout time.Duration) error   // graceful shutdown with deadline
//
// Factories are registered by name in a Registry and receive raw JSON
// configuration plus a Dependencies struct. The factory parses its own
// config and returns a Discoverable; all I/O is deferred to Start.
package component
