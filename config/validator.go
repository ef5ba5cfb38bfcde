package config

import (
	"encoding/json"

	"github.com/c360/regexstream/component"
)

// ComponentRegistry defines the interface needed for schema validation.
// This allows dependency injection and testing.
type ComponentRegistry interface {
	GetComponentSchema(componentType string) (component.ConfigSchema, error)
}

// ValidateComponents validates every enabled component instance's
// configuration against the schema its factory declares. Instances whose
// factory is unknown, or whose factory declares no schema, produce no errors
// here; factory lookup failures surface at creation time instead.
func ValidateComponents(registry ComponentRegistry, cfg *Config) map[string][]component.ValidationError {
	if registry == nil || cfg == nil {
		return nil
	}

	results := make(map[string][]component.ValidationError)

	for instanceName, instance := range cfg.Components {
		if !instance.Enabled {
			continue
		}

		schema, err := registry.GetComponentSchema(instance.Name)
		if err != nil {
			continue
		}

		if len(schema.Properties) == 0 {
			continue
		}

		var raw map[string]any
		if len(instance.Config) > 0 {
			if err := json.Unmarshal(instance.Config, &raw); err != nil {
				results[instanceName] = []component.ValidationError{{
					Field:   "config",
					Message: "configuration is not a JSON object",
					Code:    "invalid_json",
				}}
				continue
			}
		}

		if errs := component.ValidateConfig(raw, schema); len(errs) > 0 {
			results[instanceName] = errs
		}
	}

	if len(results) == 0 {
		return nil
	}
	return results
}
