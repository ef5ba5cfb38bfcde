package component

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/regexstream/errors"
)

// fakeComponent is a minimal Discoverable for registry tests
type fakeComponent struct {
	name string
}

func (f *fakeComponent) Meta() Metadata {
	return Metadata{Name: f.name, Type: "processor", Version: "0.0.1"}
}

func (f *fakeComponent) InputPorts() []Port  { return nil }
func (f *fakeComponent) OutputPorts() []Port { return nil }

func (f *fakeComponent) ConfigSchema() ConfigSchema {
	return ConfigSchema{Properties: map[string]PropertySchema{}}
}

func (f *fakeComponent) Health() HealthStatus {
	return HealthStatus{Healthy: true, LastCheck: time.Now()}
}

func (f *fakeComponent) DataFlow() FlowMetrics { return FlowMetrics{} }

func fakeFactory(_ json.RawMessage, _ Dependencies) (Discoverable, error) {
	return &fakeComponent{name: "fake"}, nil
}

func TestRegisterFactory(t *testing.T) {
	registry := NewRegistry()

	err := registry.RegisterWithConfig(RegistrationConfig{
		Name:        "fake",
		Factory:     fakeFactory,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "processing",
		Description: "test factory",
		Version:     "0.0.1",
	})
	require.NoError(t, err)

	types := registry.ListComponentTypes()
	assert.Equal(t, []string{"fake"}, types)

	factory, ok := registry.GetFactory("fake")
	assert.True(t, ok)
	assert.NotNil(t, factory)

	_, ok = registry.GetFactory("missing")
	assert.False(t, ok)
}

func TestRegisterFactoryValidation(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name         string
		factoryName  string
		registration *Registration
	}{
		{"empty name", "", &Registration{Type: "processor", Factory: fakeFactory}},
		{"nil registration", "x", nil},
		{"nil factory", "x", &Registration{Type: "processor"}},
		{"empty type", "x", &Registration{Factory: fakeFactory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registry.RegisterFactory(tt.factoryName, tt.registration)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestRegisterFactoryDuplicate(t *testing.T) {
	registry := NewRegistry()

	cfg := RegistrationConfig{Name: "fake", Factory: fakeFactory, Type: "processor"}
	require.NoError(t, registry.RegisterWithConfig(cfg))

	err := registry.RegisterWithConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestCreateComponent(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterWithConfig(RegistrationConfig{
		Name: "fake", Factory: fakeFactory, Type: "processor",
	}))

	deps := Dependencies{NATSClient: testNATSClient(t)}

	comp, err := registry.CreateComponent("fake-instance", InstanceConfig{
		Name:    "fake",
		Type:    "processor",
		Enabled: true,
		Config:  json.RawMessage(`{}`),
	}, deps)
	require.NoError(t, err)
	require.NotNil(t, comp)

	assert.Same(t, comp, registry.Component("fake-instance"))
	assert.Len(t, registry.ListComponents(), 1)

	// Same instance name twice is rejected
	_, err = registry.CreateComponent("fake-instance", InstanceConfig{
		Name: "fake", Type: "processor",
	}, deps)
	require.Error(t, err)

	registry.UnregisterInstance("fake-instance")
	assert.Nil(t, registry.Component("fake-instance"))
}

func TestCreateComponentErrors(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterWithConfig(RegistrationConfig{
		Name: "fake", Factory: fakeFactory, Type: "processor",
	}))

	deps := Dependencies{NATSClient: testNATSClient(t)}

	tests := []struct {
		name     string
		instance string
		config   InstanceConfig
	}{
		{"bad instance name", "bad name!", InstanceConfig{Name: "fake", Type: "processor"}},
		{"missing type", "ok", InstanceConfig{Name: "fake"}},
		{"unknown factory", "ok", InstanceConfig{Name: "nope", Type: "processor"}},
		{"type mismatch", "ok", InstanceConfig{Name: "fake", Type: "output"}},
		{"malformed config", "ok", InstanceConfig{Name: "fake", Type: "processor", Config: json.RawMessage(`{broken`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.CreateComponent(tt.instance, tt.config, deps)
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))
		})
	}

	t.Run("nil nats client", func(t *testing.T) {
		_, err := registry.CreateComponent("ok", InstanceConfig{Name: "fake", Type: "processor"}, Dependencies{})
		require.Error(t, err)
	})
}

func TestGetComponentSchema(t *testing.T) {
	registry := NewRegistry()
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"subject": {Type: "string", Description: "NATS subject"},
		},
		Required: []string{"subject"},
	}
	require.NoError(t, registry.RegisterWithConfig(RegistrationConfig{
		Name: "fake", Factory: fakeFactory, Type: "processor", Schema: schema,
	}))

	got, err := registry.GetComponentSchema("fake")
	require.NoError(t, err)
	assert.Equal(t, schema, got)

	_, err = registry.GetComponentSchema("missing")
	require.Error(t, err)
}

func TestListAvailable(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterWithConfig(RegistrationConfig{
		Name: "fake", Factory: fakeFactory, Type: "processor",
		Protocol: "nats", Domain: "processing", Description: "d", Version: "1.0.0",
	}))

	available := registry.ListAvailable()
	require.Contains(t, available, "fake")
	assert.Equal(t, "processor", available["fake"].Type)
	assert.Equal(t, "nats", available["fake"].Protocol)
}

func TestValidateComponentName(t *testing.T) {
	assert.NoError(t, ValidateComponentName("docket-masker_01.a"))
	assert.Error(t, ValidateComponentName(""))
	assert.Error(t, ValidateComponentName("has space"))
	assert.Error(t, ValidateComponentName("slash/name"))
}

func TestValidateSubject(t *testing.T) {
	assert.NoError(t, ValidateSubject("records.raw.>"))
	assert.Error(t, ValidateSubject(""))
	assert.Error(t, ValidateSubject("records raw"))
}
