// Package config provides configuration management for the RegexStream
// service.
//
// This package handles loading and validation of application configuration
// from JSON files and environment variables.
//
// # Core Components
//
// Config: Main configuration structure containing NATS connection details,
// the metrics endpoint, and component instance definitions.
//
// SafeConfig: Thread-safe wrapper using RWMutex and deep cloning to prevent
// concurrent access issues and accidental mutations.
//
// Loader: Loads configuration with layer merging (base + overrides) and
// environment variable substitution for flexible deployment scenarios.
//
// # Basic Usage
//
// Loading configuration from files with layer merging:
//
//	loader := config.NewLoader()
//	loader.AddLayer("config/base.json")
//	loader.AddLayer("config/production.json") // Overrides base
//	loader.EnableValidation(true)
//
//	cfg, err := loader.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Overrides
//
// A fixed set of REGEXSTREAM_* environment variables override file values
// after all layers merge: NATS_URLS (comma separated), NATS_USERNAME,
// NATS_PASSWORD, NATS_TOKEN.
//
// # Component Instances
//
// The components map binds instance names to registered factories:
//
//	{
//	  "nats": {"urls": ["nats://localhost:4222"]},
//	  "components": {
//	    "docket-masker": {
//	      "name": "regex_ops",
//	      "type": "processor",
//	      "enabled": true,
//	      "config": {"operations": [...]}
//	    }
//	  }
//	}
//
// ValidateComponents checks each enabled instance's config against the
// schema its factory declares, for early feedback before creation.
//
// # Security
//
// File loading enforces a 10MB size cap, a JSON nesting depth limit, path
// traversal checks, and a .json extension requirement.
package config
