// Package regexopsprocessor provides a core processor that rewrites JSON
// records with a configured list of regex capture and replace operations.
package regexopsprocessor

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360/regexstream/component"
	"github.com/c360/regexstream/errors"
	"github.com/c360/regexstream/natsclient"
	"github.com/c360/regexstream/transform"
)

// Config holds configuration for the regex ops processor
type Config struct {
	Ports      *component.PortConfig `json:"ports"      schema:"type:ports,description:Port configuration,category:basic"`
	Operations json.RawMessage       `json:"operations" schema:"type:array,description:Ordered regex capture and replace operations,category:basic,required"`
}

// DefaultConfig returns the default configuration for the regex ops processor
func DefaultConfig() Config {
	inputDefs := []component.PortDefinition{
		{
			Name:        "nats_input",
			Type:        "nats",
			Subject:     "records.raw.>",
			Interface:   "json.record.v1",
			Required:    true,
			Description: "NATS subjects carrying raw JSON records",
		},
	}

	outputDefs := []component.PortDefinition{
		{
			Name:        "nats_output",
			Type:        "nats",
			Subject:     "records.clean",
			Interface:   "json.record.v1",
			Required:    true,
			Description: "NATS subject for transformed JSON records",
		},
	}

	return Config{
		Ports: &component.PortConfig{
			Inputs:  inputDefs,
			Outputs: outputDefs,
		},
	}
}

// regexOpsSchema defines the configuration schema for the regex ops processor
var regexOpsSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Processor applies a fixed regex operation pipeline to JSON records
type Processor struct {
	name        string
	inputs      []component.PortDefinition
	outputSubj  string
	transformer *transform.Transformer
	natsClient  *natsclient.Client
	logger      *slog.Logger

	// Lifecycle management
	shutdown    chan struct{}
	done        chan struct{}
	running     bool
	startTime   time.Time
	mu          sync.RWMutex
	lifecycleMu sync.Mutex
	wg          *sync.WaitGroup

	// Metrics (atomic counters for DataFlow)
	recordsReceived    int64
	recordsTransformed int64
	errors             int64
	lastActivity       time.Time

	// Prometheus metrics
	metrics *regexOpsMetrics
}

// NewProcessor creates a new regex ops processor from configuration
func NewProcessor(
	rawConfig json.RawMessage, deps component.Dependencies,
) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, errors.WrapInvalid(err, "RegexOpsProcessor", "NewProcessor", "config unmarshal")
	}

	if config.Ports == nil {
		defaults := DefaultConfig()
		config.Ports = defaults.Ports
	}

	if len(config.Operations) == 0 {
		return nil, errors.WrapInvalid(
			errors.ErrMissingConfig, "RegexOpsProcessor", "NewProcessor",
			"no operations configured")
	}

	// Compile the operation pipeline up front so a bad regex or malformed
	// operation list fails at creation, not per record
	transformer, err := transform.NewFromSpec(config.Operations)
	if err != nil {
		return nil, errors.Wrap(err, "RegexOpsProcessor", "NewProcessor", "compile operations")
	}

	var inputs []component.PortDefinition
	for _, input := range config.Ports.Inputs {
		if input.Type == "nats" {
			inputs = append(inputs, input)
		}
	}

	var outputSubject string
	if len(config.Ports.Outputs) > 0 {
		outputSubject = config.Ports.Outputs[0].Subject
	}

	if len(inputs) == 0 {
		return nil, errors.WrapInvalid(
			errors.ErrInvalidConfig, "RegexOpsProcessor", "NewProcessor",
			"no input subjects configured")
	}

	// Initialize metrics if registry provided
	metrics, err := newRegexOpsMetrics(deps.MetricsRegistry, "regex-ops-processor")
	if err != nil {
		deps.GetLogger().Error("Failed to initialize regex ops metrics", "error", err)
		metrics = nil // Continue without metrics
	}

	return &Processor{
		name:        "regex-ops-processor",
		inputs:      inputs,
		outputSubj:  outputSubject,
		transformer: transformer,
		natsClient:  deps.NATSClient,
		logger:      deps.GetLogger(),
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		wg:          &sync.WaitGroup{},
		metrics:     metrics,
	}, nil
}

// Initialize prepares the processor (no-op for regex ops)
func (p *Processor) Initialize() error {
	return nil
}

// Start begins transforming records
func (p *Processor) Start(ctx context.Context) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.running {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "RegexOpsProcessor", "Start", "check running state")
	}

	if p.natsClient == nil {
		return errors.WrapFatal(errors.ErrMissingConfig, "RegexOpsProcessor", "Start", "NATS client required")
	}

	// Subscribe to input subjects, joining a queue group when configured
	for _, input := range p.inputs {
		p.logger.Debug("Subscribing to NATS subject",
			"component", p.name,
			"subject", input.Subject,
			"queue", input.Queue)

		var err error
		if input.Queue != "" {
			err = p.natsClient.QueueSubscribe(ctx, input.Subject, input.Queue, p.handleMessage)
		} else {
			err = p.natsClient.Subscribe(ctx, input.Subject, p.handleMessage)
		}
		if err != nil {
			p.logger.Error("Failed to subscribe to NATS subject",
				"component", p.name,
				"subject", input.Subject,
				"error", err)
			return errors.WrapTransient(err, "RegexOpsProcessor", "Start",
				fmt.Sprintf("subscribe to %s", input.Subject))
		}
	}

	p.mu.Lock()
	p.running = true
	p.startTime = time.Now()
	p.mu.Unlock()

	p.metrics.recordOperationsConfigured(p.name, p.transformer.Operations())

	p.logger.Info("Regex ops processor started",
		"component", p.name,
		"input_subjects", p.inputSubjects(),
		"output_subject", p.outputSubj,
		"operations", p.transformer.Operations())

	return nil
}

// Stop gracefully stops the processor
func (p *Processor) Stop(timeout time.Duration) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.running {
		return nil
	}

	// Signal shutdown
	close(p.shutdown)

	// Wait for goroutines with timeout
	waitCh := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		// Clean shutdown
	case <-time.After(timeout):
		return errors.WrapTransient(
			fmt.Errorf("shutdown timeout after %v", timeout),
			"RegexOpsProcessor", "Stop", "graceful shutdown")
	}

	p.mu.Lock()
	p.running = false
	close(p.done)
	p.mu.Unlock()

	return nil
}

// handleMessage transforms one incoming record and publishes the result
func (p *Processor) handleMessage(ctx context.Context, msgData []byte) {
	atomic.AddInt64(&p.recordsReceived, 1)
	p.mu.Lock()
	p.lastActivity = time.Now()
	p.mu.Unlock()

	p.logger.Debug("Received record",
		"component", p.name,
		"size_bytes", len(msgData))

	start := time.Now()
	transformed, err := p.transformer.ApplyBytes(msgData)
	duration := time.Since(start)

	if err != nil {
		atomic.AddInt64(&p.errors, 1)

		// A record that is not UTF-8 text or not a JSON document is dropped;
		// the rest of the stream keeps flowing
		reason := "parse"
		if stderrors.Is(err, errors.ErrInvalidText) {
			reason = "invalid_utf8"
		}
		p.metrics.recordDrop(p.name, reason)

		p.logger.Debug("Dropped record",
			"component", p.name,
			"reason", reason,
			"error", err)
		return
	}

	atomic.AddInt64(&p.recordsTransformed, 1)
	p.metrics.recordTransformation(p.name, duration, len(transformed))

	p.logger.Debug("Record transformed",
		"component", p.name,
		"output_subject", p.outputSubj,
		"input_bytes", len(msgData),
		"output_bytes", len(transformed),
		"transformation_time_us", duration.Microseconds())

	if p.outputSubj == "" {
		return
	}

	if err := p.natsClient.Publish(ctx, p.outputSubj, transformed); err != nil {
		atomic.AddInt64(&p.errors, 1)
		p.metrics.recordError(p.name, "publish")
		p.logger.Error("Failed to publish transformed record",
			"component", p.name,
			"output_subject", p.outputSubj,
			"error", err)
	}
}

// inputSubjects returns the configured input subjects for logging
func (p *Processor) inputSubjects() []string {
	subjects := make([]string, len(p.inputs))
	for i, input := range p.inputs {
		subjects[i] = input.Subject
	}
	return subjects
}

// Discoverable interface implementation

// Meta returns metadata describing this processor component.
func (p *Processor) Meta() component.Metadata {
	return component.Metadata{
		Name:        p.name,
		Type:        "processor",
		Description: "Regex capture and replace over JSON records",
		Version:     "0.1.0",
	}
}

// InputPorts returns the NATS input ports this processor subscribes to.
func (p *Processor) InputPorts() []component.Port {
	ports := make([]component.Port, len(p.inputs))
	for i, input := range p.inputs {
		ports[i] = component.Port{
			Name:      fmt.Sprintf("input_%d", i),
			Direction: component.DirectionInput,
			Required:  true,
			Config: component.NATSPort{
				Subject: input.Subject,
				Queue:   input.Queue,
				Interface: &component.InterfaceContract{
					Type:    "json.record.v1",
					Version: "v1",
				},
			},
		}
	}
	return ports
}

// OutputPorts returns the NATS output port for transformed records.
func (p *Processor) OutputPorts() []component.Port {
	if p.outputSubj == "" {
		return []component.Port{}
	}
	return []component.Port{
		{
			Name:      "output",
			Direction: component.DirectionOutput,
			Required:  false,
			Config: component.NATSPort{
				Subject: p.outputSubj,
				Interface: &component.InterfaceContract{
					Type:    "json.record.v1",
					Version: "v1",
				},
			},
		},
	}
}

// ConfigSchema returns the configuration schema for this processor.
func (p *Processor) ConfigSchema() component.ConfigSchema {
	return regexOpsSchema
}

// Health returns the current health status of this processor.
func (p *Processor) Health() component.HealthStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return component.HealthStatus{
		Healthy:    p.running,
		LastCheck:  time.Now(),
		ErrorCount: int(atomic.LoadInt64(&p.errors)),
		Uptime:     time.Since(p.startTime),
	}
}

// DataFlow returns current data flow metrics for this processor.
func (p *Processor) DataFlow() component.FlowMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()

	received := atomic.LoadInt64(&p.recordsReceived)
	errorCount := atomic.LoadInt64(&p.errors)

	var errorRate float64
	if received > 0 {
		errorRate = float64(errorCount) / float64(received)
	}

	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         errorRate,
		LastActivity:      p.lastActivity,
	}
}

// Register registers the regex ops processor component with the given registry
func Register(registry *component.Registry) error {
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "regex_ops",
		Factory:     NewProcessor,
		Schema:      regexOpsSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "processing",
		Description: "Applies ordered regex capture and replace operations to JSON records",
		Version:     "0.1.0",
	})
}
