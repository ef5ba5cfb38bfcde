package component

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/c360/regexstream/errors"
)

// Info holds metadata about an available component type
type Info struct {
	Type        string `json:"type"`        // "processor", "output", "metrics"
	Protocol    string `json:"protocol"`    // Technical protocol (nats, http, etc.)
	Domain      string `json:"domain"`      // Business domain (processing, observability)
	Description string `json:"description"` // Human-readable description
	Version     string `json:"version"`     // Component version
}

// Factory creates a component instance from configuration.
// The factory function receives raw JSON configuration and dependencies,
// parses its own config, and returns a properly initialized component that
// implements the Discoverable interface. All I/O operations are performed in
// the component's Start() method, not in the factory.
type Factory func(rawConfig json.RawMessage, deps Dependencies) (Discoverable, error)

// Registration holds factory and metadata for a component type
type Registration struct {
	Name        string       `json:"name"`        // Factory name (e.g., "regex_ops")
	Type        string       `json:"type"`        // Component type (processor/output/metrics)
	Protocol    string       `json:"protocol"`    // Technical protocol
	Domain      string       `json:"domain"`      // Business domain
	Description string       `json:"description"` // Human-readable description
	Version     string       `json:"version"`     // Component version
	Schema      ConfigSchema `json:"schema"`      // Schema as static metadata
	Factory     Factory      `json:"-"`           // Factory function (not serializable)
}

// RegistrationConfig provides a clean API for component registration.
// It maps 1:1 to Registration struct fields.
type RegistrationConfig struct {
	Name        string       // Component name (e.g., "regex_ops")
	Factory     Factory      // Factory function to create component instances
	Schema      ConfigSchema // Configuration schema for validation and discovery
	Type        string       // Component type: "processor", "output", "metrics"
	Protocol    string       // Technical protocol (nats, http, etc.)
	Domain      string       // Business domain (processing, observability)
	Description string       // Human-readable description of the component
	Version     string       // Component version (semver recommended)
}

// InstanceConfig describes one component instance to create: which factory
// to use, whether it is enabled, and the factory-specific configuration.
type InstanceConfig struct {
	Name    string          `json:"name"`    // Factory name (e.g., "regex_ops")
	Type    string          `json:"type"`    // Component type, must match the factory
	Enabled bool            `json:"enabled"` // Disabled instances are skipped
	Config  json.RawMessage `json:"config"`  // Factory-specific configuration
}

// Registry manages component factories and instances.
// It provides thread-safe registration and lookup of both factories (for
// creation) and instances (for discovery and management).
type Registry struct {
	factories map[string]*Registration // Factory registry by name
	instances map[string]Discoverable  // Instance registry by name
	mu        sync.RWMutex             // Protects both maps
}

// NewRegistry creates a new empty component registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Registration),
		instances: make(map[string]Discoverable),
	}
}

// RegisterFactory registers a component factory with the given name.
// Returns an error if a factory with the same name is already registered.
func (r *Registry) RegisterFactory(name string, registration *Registration) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "factory name validation")
	}
	if registration == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "registration validation")
	}
	if registration.Factory == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "factory function validation")
	}
	if registration.Type == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterFactory", "component type validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		msg := fmt.Errorf("factory '%s' is already registered", name)
		return errors.WrapInvalid(msg, "Registry", "RegisterFactory", "duplicate factory check")
	}

	r.factories[name] = registration
	return nil
}

// RegisterWithConfig registers a component using a configuration struct.
//
// Example usage:
//
//	registry.RegisterWithConfig(component.RegistrationConfig{
//	    Name:        "regex_ops",
//	    Factory:     NewProcessor,
//	    Schema:      regexOpsSchema,
//	    Type:        "processor",
//	    Protocol:    "nats",
//	    Domain:      "processing",
//	    Description: "Regex capture and replace over JSON records",
//	    Version:     "0.1.0",
//	})
func (r *Registry) RegisterWithConfig(config RegistrationConfig) error {
	registration := &Registration{
		Name:        config.Name,
		Factory:     config.Factory,
		Schema:      config.Schema,
		Type:        config.Type,
		Protocol:    config.Protocol,
		Domain:      config.Domain,
		Description: config.Description,
		Version:     config.Version,
	}

	return r.RegisterFactory(config.Name, registration)
}

// CreateComponent creates and registers a new component instance.
// The instanceName parameter is the unique identifier for this instance
// (e.g., "docket-masker"). The config contains the factory name, type, and
// component-specific configuration. Factory functions don't do I/O, so no
// context is needed.
func (r *Registry) CreateComponent(
	instanceName string, config InstanceConfig, deps Dependencies,
) (Discoverable, error) {
	if err := ValidateComponentName(instanceName); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "instance name validation")
	}
	if config.Type == "" {
		return nil, errors.WrapInvalid(
			errors.ErrInvalidConfig, "Registry", "CreateComponent", "component type validation")
	}
	if err := ValidateComponentName(config.Name); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "factory name validation")
	}
	if deps.NATSClient == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "CreateComponent", "NATS client validation")
	}
	if err := ValidateFactoryConfig(config.Config); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "config validation")
	}

	r.mu.RLock()
	registration, exists := r.factories[config.Name]
	r.mu.RUnlock()

	if !exists {
		msg := fmt.Errorf("unknown component factory '%s'", config.Name)
		return nil, errors.WrapInvalid(msg, "Registry", "CreateComponent", "factory lookup")
	}

	if registration.Type != config.Type {
		msg := fmt.Errorf("component '%s' is type '%s', not '%s'",
			config.Name, registration.Type, config.Type)
		return nil, errors.WrapInvalid(msg, "Registry", "CreateComponent", "type validation")
	}

	component, err := registration.Factory(config.Config, deps)
	if err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "factory execution")
	}

	if err := r.RegisterInstance(instanceName, component); err != nil {
		return nil, errors.Wrap(err, "Registry", "CreateComponent", "instance registration")
	}

	return component, nil
}

// RegisterInstance registers a component instance with the given name.
// Returns an error if an instance with the same name is already registered.
func (r *Registry) RegisterInstance(name string, component Discoverable) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterInstance", "instance name validation")
	}
	if component == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Registry", "RegisterInstance", "component validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[name]; exists {
		msg := fmt.Errorf("instance '%s' is already registered", name)
		return errors.WrapInvalid(msg, "Registry", "RegisterInstance", "duplicate instance check")
	}

	r.instances[name] = component
	return nil
}

// UnregisterInstance removes a component instance from the registry.
// This is typically called when a component is stopped or destroyed.
func (r *Registry) UnregisterInstance(name string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.instances, name)
}

// ListComponents returns all registered component instances
func (r *Registry) ListComponents() map[string]Discoverable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Discoverable, len(r.instances))
	maps.Copy(result, r.instances)

	return result
}

// Component retrieves a specific component instance by name.
// Returns nil if the component is not found.
func (r *Registry) Component(name string) Discoverable {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.instances[name]
}

// GetComponentSchema retrieves a component's schema directly from
// Registration metadata, without component instantiation.
func (r *Registry) GetComponentSchema(name string) (ConfigSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.factories[name]
	if !exists {
		return ConfigSchema{}, errors.WrapInvalid(
			fmt.Errorf("component type %q not found", name),
			"Registry", "GetComponentSchema", "type lookup")
	}

	return registration.Schema, nil
}

// ListComponentTypes returns all registered component factory type names
func (r *Registry) ListComponentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// ListFactories returns all registered component factories.
// The factory functions themselves are not copied.
func (r *Registry) ListFactories() map[string]*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Registration, len(r.factories))
	for name, registration := range r.factories {
		result[name] = &Registration{
			Name:        registration.Name,
			Type:        registration.Type,
			Protocol:    registration.Protocol,
			Domain:      registration.Domain,
			Description: registration.Description,
			Version:     registration.Version,
		}
	}

	return result
}

// GetFactory returns a specific factory by name.
// Unlike ListFactories, this returns the actual Factory function for creating components.
func (r *Registry) GetFactory(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.factories[name]
	if !exists {
		return nil, false
	}
	return registration.Factory, true
}

// ListAvailable returns information about all available component types
func (r *Registry) ListAvailable() map[string]Info {
	factories := r.ListFactories()
	result := make(map[string]Info, len(factories))

	for name, registration := range factories {
		result[name] = Info{
			Type:        registration.Type,
			Protocol:    registration.Protocol,
			Domain:      registration.Domain,
			Description: registration.Description,
			Version:     registration.Version,
		}
	}

	return result
}
