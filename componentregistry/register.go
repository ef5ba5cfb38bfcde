// Package componentregistry provides component registration for the
// RegexStream runtime. All built-in component factories are registered here
// so the service binary and tests share one wiring point.
package componentregistry

import (
	"errors"

	"github.com/c360/regexstream/component"
	pkgerrors "github.com/c360/regexstream/errors"
	regexops "github.com/c360/regexstream/processor/regex_ops"
)

// Register registers all built-in RegexStream components with the provided
// registry:
//
//   - regex_ops processor (regex capture and replace over JSON records)
func Register(registry *component.Registry) error {
	// Nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := regexops.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "regex ops processor registration")
	}

	return nil
}
