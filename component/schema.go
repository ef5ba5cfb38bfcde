package component

import (
	"fmt"
)

// ValidationError represents a validation error for a specific configuration field.
//
// Error codes are standardized:
//   - "required": Field is required but missing
//   - "min": Numeric value below minimum threshold
//   - "max": Numeric value above maximum threshold
//   - "enum": Value not in allowed enum values
//   - "type": Value doesn't match expected type (string, int, bool, etc.)
type ValidationError struct {
	Field   string `json:"field"`   // Name of the field that failed validation
	Message string `json:"message"` // Human-readable error message
	Code    string `json:"code"`    // Machine-readable error code
}

// ValidateConfig validates a configuration map against a ConfigSchema.
// It checks required fields, type constraints, min/max bounds, and enum values.
//
// The validation is lenient - unknown fields are allowed to support backward
// compatibility and future schema evolution. Only explicitly defined
// properties are validated against their schema constraints.
//
// Returns a slice of ValidationError containing all validation failures
// found. An empty slice indicates the configuration is valid.
func ValidateConfig(config map[string]any, schema ConfigSchema) []ValidationError {
	var errs []ValidationError

	for _, requiredField := range schema.Required {
		if _, exists := config[requiredField]; !exists {
			errs = append(errs, ValidationError{
				Field:   requiredField,
				Message: fmt.Sprintf("Field %q is required", requiredField),
				Code:    "required",
			})
		}
	}

	for fieldName, value := range config {
		propSchema, exists := schema.Properties[fieldName]
		if !exists {
			// Unknown fields are allowed (lenient validation)
			continue
		}

		if err := validateType(fieldName, value, propSchema); err != nil {
			errs = append(errs, *err)
			continue // Skip further validation if type is wrong
		}

		if len(propSchema.Enum) > 0 {
			if err := validateEnum(fieldName, value, propSchema.Enum); err != nil {
				errs = append(errs, *err)
			}
		}

		if propSchema.Type == "int" || propSchema.Type == "float" {
			if propSchema.Minimum != nil {
				if err := validateMin(fieldName, value, *propSchema.Minimum); err != nil {
					errs = append(errs, *err)
				}
			}
			if propSchema.Maximum != nil {
				if err := validateMax(fieldName, value, *propSchema.Maximum); err != nil {
					errs = append(errs, *err)
				}
			}
		}
	}

	return errs
}

// validateType checks if the value matches the expected type
func validateType(fieldName string, value any, propSchema PropertySchema) *ValidationError {
	switch propSchema.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a string", fieldName),
				Code:    "type",
			}
		}
	case "int":
		// Accept both int and float64 (JSON numbers)
		switch value.(type) {
		case int, int32, int64, float64:
		default:
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be an integer", fieldName),
				Code:    "type",
			}
		}
	case "bool":
		if _, ok := value.(bool); !ok {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a boolean", fieldName),
				Code:    "type",
			}
		}
	case "float":
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("Field %q must be a number", fieldName),
				Code:    "type",
			}
		}
	}
	return nil
}

// validateEnum checks if the value is in the allowed enum values
func validateEnum(fieldName string, value any, enumValues []string) *ValidationError {
	strValue, ok := value.(string)
	if !ok {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be a string for enum validation", fieldName),
			Code:    "type",
		}
	}

	for _, allowed := range enumValues {
		if strValue == allowed {
			return nil
		}
	}

	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("Field %q must be one of: %v", fieldName, enumValues),
		Code:    "enum",
	}
}

// validateMin checks if numeric value meets minimum
func validateMin(fieldName string, value any, min int) *ValidationError {
	numValue, err := asFloat(fieldName, value, "min")
	if err != nil {
		return err
	}

	if numValue < float64(min) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be >= %d", fieldName, min),
			Code:    "min",
		}
	}
	return nil
}

// validateMax checks if numeric value meets maximum
func validateMax(fieldName string, value any, max int) *ValidationError {
	numValue, err := asFloat(fieldName, value, "max")
	if err != nil {
		return err
	}

	if numValue > float64(max) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be <= %d", fieldName, max),
			Code:    "max",
		}
	}
	return nil
}

func asFloat(fieldName string, value any, check string) (float64, *ValidationError) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("Field %q must be numeric for %s validation", fieldName, check),
			Code:    "type",
		}
	}
}
