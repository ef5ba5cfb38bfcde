package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/regexstream/component"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	// Loader path validation requires files under the working directory
	dir, err := os.Getwd()
	require.NoError(t, err)

	tmp, err := os.MkdirTemp(dir, "cfgtest")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmp) })

	path := filepath.Join(tmp, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	rel, err := filepath.Rel(dir, path)
	require.NoError(t, err)
	return rel
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"nats://localhost:4222"}, cfg.NATS.URLs)
	assert.Equal(t, -1, cfg.NATS.MaxReconnects)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Components)
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, "config.json", `{
		"nats": {
			"urls": ["nats://nats-1:4222", "nats://nats-2:4222"],
			"reconnect_wait": "500ms"
		},
		"metrics": {"enabled": true, "port": 9100},
		"components": {
			"docket-masker": {
				"name": "regex_ops",
				"type": "processor",
				"enabled": true,
				"config": {"operations": [{"replace": {"regex": "x", "target": "/a", "with": "y"}}]}
			}
		}
	}`)

	loader := NewLoader()
	loader.EnableValidation(true)

	cfg, err := loader.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"nats://nats-1:4222", "nats://nats-2:4222"}, cfg.NATS.URLs)
	assert.Equal(t, "nats://nats-1:4222", cfg.NATS.URL())
	assert.Equal(t, 500*time.Millisecond, cfg.NATS.ReconnectWait)
	assert.Equal(t, 9100, cfg.Metrics.Port)

	instance, ok := cfg.Components["docket-masker"]
	require.True(t, ok)
	assert.Equal(t, "regex_ops", instance.Name)
	assert.Equal(t, "processor", instance.Type)
	assert.True(t, instance.Enabled)
	assert.True(t, json.Valid(instance.Config))
}

func TestLoadLayerMerging(t *testing.T) {
	base := writeConfigFile(t, "base.json", `{
		"nats": {"urls": ["nats://base:4222"], "max_reconnects": 3},
		"metrics": {"enabled": true, "port": 9090}
	}`)
	override := writeConfigFile(t, "prod.json", `{
		"nats": {"urls": ["nats://prod:4222"]}
	}`)

	loader := NewLoader()
	loader.AddLayer(base)
	loader.AddLayer(override)

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Override wins for urls, base survives for the rest
	assert.Equal(t, []string{"nats://prod:4222"}, cfg.NATS.URLs)
	assert.Equal(t, 3, cfg.NATS.MaxReconnects)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoadErrors(t *testing.T) {
	loader := NewLoader()

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFile("does-not-exist.json")
		require.Error(t, err)
	})

	t.Run("non-json extension", func(t *testing.T) {
		_, err := loader.LoadFile("config.yaml")
		require.Error(t, err)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := loader.LoadFile("../../../etc/passwd.json")
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeConfigFile(t, "bad.json", `{"nats": `)
		_, err := loader.LoadFile(path)
		require.Error(t, err)
	})

	t.Run("excessive nesting", func(t *testing.T) {
		nested := strings.Repeat(`{"a":`, 150) + "1" + strings.Repeat("}", 150)
		path := writeConfigFile(t, "deep.json", nested)
		_, err := loader.LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nesting too deep")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REGEXSTREAM_NATS_URLS", "nats://env-1:4222,nats://env-2:4222")
	t.Setenv("REGEXSTREAM_NATS_TOKEN", "secret")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"nats://env-1:4222", "nats://env-2:4222"}, cfg.NATS.URLs)
	assert.Equal(t, "secret", cfg.NATS.Token)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "no nats urls",
			mutate:  func(c *Config) { c.NATS.URLs = nil },
			wantErr: "nats.urls",
		},
		{
			name: "tls missing cert",
			mutate: func(c *Config) {
				c.NATS.TLS = NATSTLSConfig{Enabled: true}
			},
			wantErr: "cert_file",
		},
		{
			name: "metrics port out of range",
			mutate: func(c *Config) {
				c.Metrics = MetricsConfig{Enabled: true, Port: 70000}
			},
			wantErr: "out of range",
		},
		{
			name: "bad instance name",
			mutate: func(c *Config) {
				c.Components = ComponentConfigs{
					"bad name!": {Name: "regex_ops", Type: "processor"},
				}
			},
			wantErr: "bad name!",
		},
		{
			name: "missing factory name",
			mutate: func(c *Config) {
				c.Components = ComponentConfigs{
					"masker": {Type: "processor"},
				}
			},
			wantErr: "factory name",
		},
		{
			name: "missing type",
			mutate: func(c *Config) {
				c.Components = ComponentConfigs{
					"masker": {Name: "regex_ops"},
				}
			},
			wantErr: "type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewLoader().getDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSafeConfig(t *testing.T) {
	cfg := NewLoader().getDefaults()
	sc := NewSafeConfig(cfg)

	// Get returns a deep copy
	got := sc.Get()
	got.NATS.URLs = []string{"nats://mutated:4222"}
	assert.Equal(t, []string{"nats://localhost:4222"}, sc.Get().NATS.URLs)

	// Update validates before swapping
	bad := cfg.Clone()
	bad.NATS.URLs = nil
	require.Error(t, sc.Update(bad))

	good := cfg.Clone()
	good.NATS.URLs = []string{"nats://next:4222"}
	require.NoError(t, sc.Update(good))
	assert.Equal(t, []string{"nats://next:4222"}, sc.Get().NATS.URLs)

	require.Error(t, sc.Update(nil))
}

func TestSaveToFile(t *testing.T) {
	cfg := NewLoader().getDefaults()
	cfg.Components = ComponentConfigs{
		"masker": {Name: "regex_ops", Type: "processor", Enabled: true, Config: json.RawMessage(`{}`)},
	}

	path := writeConfigFile(t, "out.json", `{}`)
	require.NoError(t, cfg.SaveToFile(path))

	reloaded, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.NATS.URLs, reloaded.NATS.URLs)
	assert.Contains(t, reloaded.Components, "masker")
}

func TestUnmarshalReconnectWait(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"nats": {"urls": ["nats://h:4222"], "reconnect_wait": "3s"}}`), &cfg))
	assert.Equal(t, 3*time.Second, cfg.NATS.ReconnectWait)

	var cfg2 Config
	require.NoError(t, json.Unmarshal([]byte(`{"nats": {"urls": ["nats://h:4222"], "reconnect_wait": 1000000000}}`), &cfg2))
	assert.Equal(t, time.Second, cfg2.NATS.ReconnectWait)

	var cfg3 Config
	require.Error(t, json.Unmarshal([]byte(`{"nats": {"reconnect_wait": "soon"}}`), &cfg3))
}

type fakeRegistry struct {
	schemas map[string]component.ConfigSchema
}

func (f *fakeRegistry) GetComponentSchema(componentType string) (component.ConfigSchema, error) {
	schema, ok := f.schemas[componentType]
	if !ok {
		return component.ConfigSchema{}, assert.AnError
	}
	return schema, nil
}

func TestValidateComponents(t *testing.T) {
	registry := &fakeRegistry{
		schemas: map[string]component.ConfigSchema{
			"regex_ops": {
				Properties: map[string]component.PropertySchema{
					"operations": {Type: "array", Description: "ops"},
				},
				Required: []string{"operations"},
			},
		},
	}

	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{
			Components: ComponentConfigs{
				"masker": {
					Name: "regex_ops", Type: "processor", Enabled: true,
					Config: json.RawMessage(`{"operations": []}`),
				},
			},
		}
		assert.Nil(t, ValidateComponents(registry, cfg))
	})

	t.Run("missing required field", func(t *testing.T) {
		cfg := &Config{
			Components: ComponentConfigs{
				"masker": {
					Name: "regex_ops", Type: "processor", Enabled: true,
					Config: json.RawMessage(`{}`),
				},
			},
		}
		results := ValidateComponents(registry, cfg)
		require.Contains(t, results, "masker")
		assert.Equal(t, "operations", results["masker"][0].Field)
	})

	t.Run("disabled instances skipped", func(t *testing.T) {
		cfg := &Config{
			Components: ComponentConfigs{
				"masker": {
					Name: "regex_ops", Type: "processor", Enabled: false,
					Config: json.RawMessage(`{}`),
				},
			},
		}
		assert.Nil(t, ValidateComponents(registry, cfg))
	})

	t.Run("unknown factory skipped", func(t *testing.T) {
		cfg := &Config{
			Components: ComponentConfigs{
				"mystery": {
					Name: "unknown", Type: "processor", Enabled: true,
					Config: json.RawMessage(`{}`),
				},
			},
		}
		assert.Nil(t, ValidateComponents(registry, cfg))
	})

	t.Run("nil registry", func(t *testing.T) {
		assert.Nil(t, ValidateComponents(nil, &Config{}))
	})
}
