// Schema tags eliminate duplication between Config structs and ConfigSchema
// definitions by auto-generating schemas from struct tags, following the Go
// stdlib pattern of json tags.
//
// Define configuration with schema tags:
//
//	type MyConfig struct {
//	    Name string `json:"name" schema:"type:string,description:Component name,category:basic"`
//	    Port int    `json:"port" schema:"type:int,description:Port,min:1,max:65535,default:8080"`
//	}
//
// Generate the schema once at init time and cache it in a package variable:
//
//	var schema = component.GenerateConfigSchema(reflect.TypeOf(MyConfig{}))
//
// Tags use comma-separated directives with colon-separated key-value pairs:
//   - type:string - Field data type (required)
//   - description:text - Field description (recommended)
//   - category:basic - UI organization (basic or advanced)
//   - default:value - Default value
//   - min:N, max:N - Numeric constraints
//   - enum:a|b|c - Valid enum values (pipe-separated)
//   - readonly, editable, required, hidden - Boolean flags
//
// Invalid tags result in graceful degradation: the field is skipped rather
// than failing schema generation.
package component

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/c360/regexstream/errors"
)

// SchemaDirectives represents parsed schema tag directives
type SchemaDirectives struct {
	Type        string // REQUIRED - field type
	Description string // REQUIRED (warning if missing)

	// UI organization
	Category string // "basic" or "advanced"
	ReadOnly bool   // For PortDefinition fields
	Editable bool   // For PortDefinition fields
	Hidden   bool   // Hide from UI

	// Constraints
	Default  any      // Stored as string, converted during schema generation
	Required bool     // Field must be provided
	Min      *int     // Numeric minimum
	Max      *int     // Numeric maximum
	Enum     []string // Valid enum values
}

// PortFieldInfo describes metadata for PortDefinition fields
type PortFieldInfo struct {
	Type     string `json:"type"`
	Editable bool   `json:"editable"`
}

// ParseSchemaTag parses a schema struct tag into directives.
//
// Returns an error if the tag is empty, the type directive is missing or
// invalid, the directive syntax is malformed, or numeric values cannot be
// parsed.
func ParseSchemaTag(tag string) (SchemaDirectives, error) {
	directives := SchemaDirectives{}

	if tag == "" {
		return directives, errors.WrapInvalid(
			fmt.Errorf("empty schema tag"),
			"SchemaTag", "ParseSchemaTag", "tag validation",
		)
	}

	parts := strings.Split(tag, ",")

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Boolean flags (no colon)
		if !strings.Contains(part, ":") {
			if err := parseBooleanFlag(part, &directives); err != nil {
				return directives, err
			}
			continue
		}

		if err := parseKeyValueDirective(part, &directives); err != nil {
			return directives, err
		}
	}

	if directives.Type == "" {
		return directives, errors.WrapInvalid(
			fmt.Errorf("type directive is required"),
			"SchemaTag", "ParseSchemaTag", "required field validation",
		)
	}

	return directives, nil
}

// parseBooleanFlag parses boolean flags from schema tags
func parseBooleanFlag(flag string, directives *SchemaDirectives) error {
	switch flag {
	case "readonly":
		directives.ReadOnly = true
	case "editable":
		directives.Editable = true
	case "hidden":
		directives.Hidden = true
	case "required":
		directives.Required = true
	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown boolean flag: %s", flag),
			"SchemaTag", "parseBooleanFlag", "flag parsing",
		)
	}
	return nil
}

// parseKeyValueDirective parses key:value directives from schema tags
func parseKeyValueDirective(part string, directives *SchemaDirectives) error {
	kv := strings.SplitN(part, ":", 2)
	if len(kv) != 2 {
		return errors.WrapInvalid(
			fmt.Errorf("invalid directive format: %s", part),
			"SchemaTag", "parseKeyValueDirective", "directive parsing",
		)
	}

	key := strings.TrimSpace(kv[0])
	value := strings.TrimSpace(kv[1])

	if value == "" {
		return errors.WrapInvalid(
			fmt.Errorf("empty value for directive: %s", key),
			"SchemaTag", "parseKeyValueDirective", "value validation",
		)
	}

	switch key {
	case "type":
		if !isValidType(value) {
			return errors.WrapInvalid(
				fmt.Errorf("invalid type: %s", value),
				"SchemaTag", "parseKeyValueDirective", "type validation",
			)
		}
		directives.Type = value

	case "description":
		directives.Description = value

	case "category":
		if value != "basic" && value != "advanced" {
			return errors.WrapInvalid(
				fmt.Errorf("invalid category: %s (must be 'basic' or 'advanced')", value),
				"SchemaTag", "parseKeyValueDirective", "category validation",
			)
		}
		directives.Category = value

	case "default":
		directives.Default = value

	case "min":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("invalid min value: %s", value),
				"SchemaTag", "parseKeyValueDirective", "min parsing",
			)
		}
		directives.Min = &n

	case "max":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.WrapInvalid(
				fmt.Errorf("invalid max value: %s", value),
				"SchemaTag", "parseKeyValueDirective", "max parsing",
			)
		}
		directives.Max = &n

	case "enum":
		directives.Enum = strings.Split(value, "|")
		for i := range directives.Enum {
			directives.Enum[i] = strings.TrimSpace(directives.Enum[i])
		}

	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown directive: %s", key),
			"SchemaTag", "parseKeyValueDirective", "directive validation",
		)
	}

	return nil
}

// isValidType checks if a type string is valid
func isValidType(t string) bool {
	switch t {
	case "string", "int", "bool", "float", "enum", "array", "object", "ports":
		return true
	}
	return false
}

// GenerateConfigSchema generates a ConfigSchema from a struct type using
// reflection. Call once at init() time and cache the result in a
// package-level variable so reflection cost is paid only once.
//
// Only exported fields with both 'json' and 'schema' tags are included.
// Fields with json:"-" or invalid schema tags are skipped. Fields with type
// "ports" automatically include PortFieldInfo metadata for the nested
// PortDefinition fields.
func GenerateConfigSchema(configType reflect.Type) ConfigSchema {
	schema := ConfigSchema{
		Properties: make(map[string]PropertySchema),
		Required:   []string{},
	}

	if configType.Kind() == reflect.Ptr {
		configType = configType.Elem()
	}

	if configType.Kind() != reflect.Struct {
		return schema
	}

	for i := 0; i < configType.NumField(); i++ {
		field := configType.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		fieldName := strings.Split(jsonTag, ",")[0]
		if fieldName == "" {
			continue
		}

		schemaTag := field.Tag.Get("schema")
		if schemaTag == "" {
			continue
		}

		directives, err := ParseSchemaTag(schemaTag)
		if err != nil {
			// Graceful degradation: skip the field
			continue
		}

		description := directives.Description
		if description == "" {
			description = fieldName
		}

		propSchema := PropertySchema{
			Type:        directives.Type,
			Description: description,
			Category:    directives.Category,
			Default:     convertDefault(directives.Default, directives.Type),
			Minimum:     directives.Min,
			Maximum:     directives.Max,
			Enum:        directives.Enum,
		}

		if directives.Type == "ports" {
			propSchema.PortFields = GeneratePortFieldSchema()
		}

		schema.Properties[fieldName] = propSchema

		if directives.Required {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	return schema
}

// GeneratePortFieldSchema extracts field metadata from the PortDefinition
// struct so UIs know which port fields are user-editable.
func GeneratePortFieldSchema() map[string]PortFieldInfo {
	fields := make(map[string]PortFieldInfo)

	portType := reflect.TypeOf(PortDefinition{})
	for i := 0; i < portType.NumField(); i++ {
		field := portType.Field(i)

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		fieldName := strings.Split(jsonTag, ",")[0]

		schemaTag := field.Tag.Get("schema")
		if schemaTag == "" {
			continue
		}

		directives, err := ParseSchemaTag(schemaTag)
		if err != nil {
			continue
		}

		fields[fieldName] = PortFieldInfo{
			Type:     directives.Type,
			Editable: directives.Editable,
		}
	}

	return fields
}

// convertDefault converts a string default value to the appropriate Go type
func convertDefault(value any, fieldType string) any {
	str, ok := value.(string)
	if !ok || str == "" {
		return nil
	}

	switch fieldType {
	case "int":
		if n, err := strconv.Atoi(str); err == nil {
			return n
		}
	case "float":
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
	case "bool":
		if b, err := strconv.ParseBool(str); err == nil {
			return b
		}
	default:
		return str
	}

	return nil
}
