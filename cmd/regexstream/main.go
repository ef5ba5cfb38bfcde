// Package main implements the entry point for the RegexStream service.
// RegexStream applies configured regex capture and replace operations to
// JSON records flowing over NATS subjects.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/c360/regexstream/component"
	"github.com/c360/regexstream/componentregistry"
	"github.com/c360/regexstream/config"
	"github.com/c360/regexstream/metric"
	"github.com/c360/regexstream/natsclient"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "regexstream"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate configuration
	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ctx := context.Background()

	// Setup core infrastructure
	natsClient, metricsRegistry, err := setupInfrastructure(ctx, cfg)
	if err != nil {
		return err
	}
	defer natsClient.Close(ctx)

	// Metrics endpoint
	metricsServer := startMetricsServer(cfg, metricsRegistry)
	if metricsServer != nil {
		defer metricsServer.Stop()
	}

	// Component registry and instances
	registry, err := setupComponentRegistry(cfg)
	if err != nil {
		return err
	}

	managed, err := createComponents(cfg, registry, component.Dependencies{
		NATSClient:      natsClient,
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	if len(managed) == 0 {
		return fmt.Errorf("no enabled components configured")
	}

	// Run with signal handling
	return runWithSignalHandling(ctx, managed, metricsRegistry, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting RegexStream",
		"version", Version,
		"build_time", BuildTime,
		"run_id", uuid.NewString(),
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads and validates configuration
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	loader.EnableValidation(true)

	cfg, err := loader.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// setupInfrastructure creates the NATS client and metrics registry and
// connects to NATS
func setupInfrastructure(
	ctx context.Context, cfg *config.Config,
) (*natsclient.Client, *metric.MetricsRegistry, error) {
	metricsRegistry := metric.NewMetricsRegistry()
	core := metricsRegistry.CoreMetrics()

	opts := []natsclient.ClientOption{
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithHealthChangeCallback(func(healthy bool) {
			core.RecordNATSStatus(healthy)
		}),
		natsclient.WithReconnectCallback(func() {
			core.RecordNATSReconnect()
		}),
	}
	if cfg.NATS.ReconnectWait > 0 {
		opts = append(opts, natsclient.WithReconnectWait(cfg.NATS.ReconnectWait))
	}
	if cfg.NATS.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.NATS.Username, cfg.NATS.Password))
	}
	if cfg.NATS.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.NATS.Token))
	}
	if cfg.NATS.TLS.Enabled {
		opts = append(opts, natsclient.WithTLS(cfg.NATS.TLS.CertFile, cfg.NATS.TLS.KeyFile, cfg.NATS.TLS.CAFile))
	}

	natsClient, err := natsclient.NewClient(cfg.NATS.URL(), opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create NATS client: %w", err)
	}

	slog.Info("Connecting to NATS", "url", cfg.NATS.URL())
	if err := natsClient.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := natsClient.WaitForConnection(connCtx); err != nil {
		return nil, nil, fmt.Errorf("NATS connection timeout: %w", err)
	}

	core.RecordNATSStatus(true)
	if rtt, err := natsClient.RTT(); err == nil {
		core.RecordNATSRTT(rtt)
	}

	return natsClient, metricsRegistry, nil
}

// startMetricsServer starts the Prometheus endpoint when enabled
func startMetricsServer(cfg *config.Config, registry *metric.MetricsRegistry) *metric.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)

	go func() {
		slog.Info("Metrics endpoint listening", "address", server.Address())
		if err := server.Start(); err != nil {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return server
}

// setupComponentRegistry creates the registry and registers built-in factories
func setupComponentRegistry(cfg *config.Config) (*component.Registry, error) {
	registry := component.NewRegistry()
	if err := componentregistry.Register(registry); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	slog.Info("Component factories registered", "factories", registry.ListComponentTypes())

	// Early schema feedback; creation failures are still authoritative
	for instanceName, errs := range config.ValidateComponents(registry, cfg) {
		for _, e := range errs {
			slog.Warn("Component config validation",
				"instance", instanceName,
				"field", e.Field,
				"message", e.Message)
		}
	}

	return registry, nil
}

// createComponents creates all enabled component instances from config
func createComponents(
	cfg *config.Config, registry *component.Registry, deps component.Dependencies,
) ([]*component.ManagedComponent, error) {
	// Stable creation order for deterministic startup
	names := make([]string, 0, len(cfg.Components))
	for name := range cfg.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	var managed []*component.ManagedComponent
	for i, name := range names {
		instance := cfg.Components[name]
		if !instance.Enabled {
			slog.Info("Component disabled in config", "instance", name)
			continue
		}

		comp, err := registry.CreateComponent(name, instance, deps)
		if err != nil {
			return nil, fmt.Errorf("create component %s: %w", name, err)
		}

		managed = append(managed, &component.ManagedComponent{
			Component:  comp,
			State:      component.StateCreated,
			StartOrder: i,
		})

		slog.Info("Created component", "instance", name, "factory", instance.Name)
	}

	return managed, nil
}

// runWithSignalHandling starts components and handles shutdown signals
func runWithSignalHandling(
	ctx context.Context,
	managed []*component.ManagedComponent,
	metricsRegistry *metric.MetricsRegistry,
	shutdownTimeout time.Duration,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := startAll(signalCtx, managed, metricsRegistry); err != nil {
		stopAll(managed, shutdownTimeout, metricsRegistry)
		return fmt.Errorf("start components: %w", err)
	}

	slog.Info("RegexStream started", "components", len(managed))

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	stopAll(managed, shutdownTimeout, metricsRegistry)

	slog.Info("RegexStream shutdown complete")
	return nil
}

// startAll initializes and starts components in start order
func startAll(
	ctx context.Context, managed []*component.ManagedComponent, metricsRegistry *metric.MetricsRegistry,
) error {
	core := metricsRegistry.CoreMetrics()

	for _, mc := range managed {
		name := mc.Component.Meta().Name

		lc, ok := component.AsLifecycleComponent(mc.Component)
		if !ok {
			return fmt.Errorf("component %s does not support lifecycle management", name)
		}

		if err := lc.Initialize(); err != nil {
			mc.State = component.StateFailed
			mc.LastError = err
			return fmt.Errorf("initialize %s: %w", name, err)
		}
		mc.State = component.StateInitialized

		componentCtx, cancel := context.WithCancel(ctx)
		mc.Context = componentCtx
		mc.Cancel = cancel

		if err := lc.Start(componentCtx); err != nil {
			mc.State = component.StateFailed
			mc.LastError = err
			return fmt.Errorf("start %s: %w", name, err)
		}
		mc.State = component.StateStarted

		core.RecordComponentStatus(name, 2)
		core.RecordHealthStatus(name, true)
		slog.Info("Component started", "component", name)
	}

	return nil
}

// stopAll stops components in reverse start order
func stopAll(managed []*component.ManagedComponent, timeout time.Duration, metricsRegistry *metric.MetricsRegistry) {
	core := metricsRegistry.CoreMetrics()

	for i := len(managed) - 1; i >= 0; i-- {
		mc := managed[i]
		if mc.State != component.StateStarted {
			continue
		}

		name := mc.Component.Meta().Name

		lc, ok := component.AsLifecycleComponent(mc.Component)
		if !ok {
			continue
		}

		if err := lc.Stop(timeout); err != nil {
			slog.Error("Error stopping component", "component", name, "error", err)
			mc.LastError = err
		}

		if mc.Cancel != nil {
			mc.Cancel()
		}

		mc.State = component.StateStopped
		core.RecordComponentStatus(name, 0)
		core.RecordHealthStatus(name, false)
		slog.Info("Component stopped", "component", name)
	}
}
