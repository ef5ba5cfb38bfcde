package component

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360/regexstream/errors"
)

// Config validation constants
const (
	MaxStringLength = 1024        // Maximum length for string values
	MaxJSONSize     = 1024 * 1024 // Maximum JSON config size (1MB)
)

// ValidateComponentName validates component/instance names.
// Names are used in log fields, metric labels, and NATS subjects, so the
// character set is restricted to alphanumerics plus dash, underscore, dot.
func ValidateComponentName(name string) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "ConfigValidator", "ValidateComponentName", "empty name")
	}
	if len(name) > MaxStringLength {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "ConfigValidator", "ValidateComponentName", "name too long")
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.') {
			return errors.WrapInvalid(
				errors.ErrInvalidConfig, "ConfigValidator", "ValidateComponentName",
				"invalid name characters")
		}
	}
	return nil
}

// ValidateFactoryConfig checks that raw factory configuration is within safe
// size limits and is well-formed JSON before it reaches a factory.
func ValidateFactoryConfig(data json.RawMessage) error {
	if len(data) == 0 {
		return nil // Factories apply their own defaults
	}
	if len(data) > MaxJSONSize {
		return errors.WrapInvalid(
			errors.ErrInvalidConfig, "ConfigValidator", "ValidateFactoryConfig", "config too large")
	}
	if !json.Valid(data) {
		return errors.WrapInvalid(
			errors.ErrInvalidConfig, "ConfigValidator", "ValidateFactoryConfig", "malformed JSON")
	}
	return nil
}

// ValidateSubject checks a NATS subject for obviously invalid characters.
// Full subject grammar is enforced by the server; this catches config typos early.
func ValidateSubject(subject string) error {
	if subject == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "ConfigValidator", "ValidateSubject", "empty subject")
	}
	if strings.ContainsAny(subject, " \t\r\n") {
		return errors.WrapInvalid(
			fmt.Errorf("subject %q contains whitespace", subject),
			"ConfigValidator", "ValidateSubject", "subject character check")
	}
	return nil
}
