//go:build integration

package regexopsprocessor_test

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/regexstream/component"
	"github.com/c360/regexstream/natsclient"
	regexopsprocessor "github.com/c360/regexstream/processor/regex_ops"
)

// Package-level shared test client to avoid Docker resource exhaustion
var (
	sharedTestClient *natsclient.TestClient
	sharedNATSClient *natsclient.Client
)

// TestMain sets up a single shared NATS container for all regex ops processor tests
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") != "" {
		testClient, err := natsclient.NewSharedTestClient(
			natsclient.WithTestTimeout(5*time.Second),
			natsclient.WithStartTimeout(30*time.Second),
		)
		if err != nil {
			panic("Failed to create shared test client: " + err.Error())
		}

		sharedTestClient = testClient
		sharedNATSClient = testClient.Client
	}

	exitCode := m.Run()

	if sharedTestClient != nil {
		sharedTestClient.Terminate()
	}

	os.Exit(exitCode)
}

// getSharedNATSClient returns the shared NATS client for integration tests
func getSharedNATSClient(t *testing.T) *natsclient.Client {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set INTEGRATION_TESTS=1 to run.")
	}
	if sharedNATSClient == nil {
		t.Fatal("Shared NATS client not initialized - TestMain should have created it")
	}
	return sharedNATSClient
}

func portsFor(inputSubject, outputSubject string) *component.PortConfig {
	return &component.PortConfig{
		Inputs: []component.PortDefinition{
			{
				Name:      "input",
				Type:      "nats",
				Subject:   inputSubject,
				Interface: "json.record.v1",
				Required:  true,
			},
		},
		Outputs: []component.PortDefinition{
			{
				Name:      "output",
				Type:      "nats",
				Subject:   outputSubject,
				Interface: "json.record.v1",
				Required:  true,
			},
		},
	}
}

func startProcessor(
	t *testing.T, ctx context.Context, natsClient *natsclient.Client, config regexopsprocessor.Config,
) component.LifecycleComponent {
	t.Helper()

	rawConfig, err := json.Marshal(config)
	require.NoError(t, err)

	deps := component.Dependencies{
		NATSClient: natsClient,
	}

	comp, err := regexopsprocessor.NewProcessor(rawConfig, deps)
	require.NoError(t, err)
	require.NotNil(t, comp)

	proc, ok := comp.(component.LifecycleComponent)
	require.True(t, ok)

	require.NoError(t, proc.Initialize())
	require.NoError(t, proc.Start(ctx))
	t.Cleanup(func() { proc.Stop(5 * time.Second) })

	// Give processor time to subscribe
	time.Sleep(100 * time.Millisecond)

	return proc
}

// TestIntegration_CaptureAndReplace runs a full capture plus replace pipeline
// through real NATS
func TestIntegration_CaptureAndReplace(t *testing.T) {
	natsClient := getSharedNATSClient(t)

	config := regexopsprocessor.Config{
		Ports: portsFor("test.regexops.input", "test.regexops.output"),
		Operations: json.RawMessage(`[
			{"capture": {"regex": "(?i)order\\s+(\\d+)", "target": "/description", "output": "/parsed/order-id"}},
			{"replace": {"regex": "\\d{3}-\\d{2}-\\d{4}", "target": "/customer/ssn", "with": "***-**-****"}}
		]`),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	startProcessor(t, ctx, natsClient, config)

	received := make([]map[string]any, 0)
	var receiveMu sync.Mutex

	err := natsClient.Subscribe(ctx, "test.regexops.output", func(_ context.Context, data []byte) {
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err == nil {
			receiveMu.Lock()
			received = append(received, doc)
			receiveMu.Unlock()
		}
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	record := []byte(`{
		"description": "Shipped Order 4521 on Friday",
		"customer": {"ssn": "123-45-6789"}
	}`)
	require.NoError(t, natsClient.Publish(ctx, "test.regexops.input", record))

	require.Eventually(t, func() bool {
		receiveMu.Lock()
		defer receiveMu.Unlock()
		return len(received) == 1
	}, 5*time.Second, 50*time.Millisecond)

	receiveMu.Lock()
	doc := received[0]
	receiveMu.Unlock()

	parsed, ok := doc["parsed"].(map[string]any)
	require.True(t, ok, "capture should create the parsed object")
	assert.Equal(t, "4521", parsed["order-id"])

	customer, ok := doc["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***-**-****", customer["ssn"])
	assert.Equal(t, "Shipped Order 4521 on Friday", doc["description"])
}

// TestIntegration_BadRecordsDropped verifies malformed records never reach the
// output subject
func TestIntegration_BadRecordsDropped(t *testing.T) {
	natsClient := getSharedNATSClient(t)

	config := regexopsprocessor.Config{
		Ports: portsFor("test.regexops.drop.input", "test.regexops.drop.output"),
		Operations: json.RawMessage(`[
			{"capture": {"regex": "(\\w+)", "target": "/text", "output": "/word"}}
		]`),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	startProcessor(t, ctx, natsClient, config)

	received := make([][]byte, 0)
	var receiveMu sync.Mutex

	err := natsClient.Subscribe(ctx, "test.regexops.drop.output", func(_ context.Context, data []byte) {
		receiveMu.Lock()
		received = append(received, data)
		receiveMu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	// Not JSON, then not UTF-8, then a good record
	require.NoError(t, natsClient.Publish(ctx, "test.regexops.drop.input", []byte(`{broken`)))
	require.NoError(t, natsClient.Publish(ctx, "test.regexops.drop.input", []byte{0xff, 0xfe}))
	require.NoError(t, natsClient.Publish(ctx, "test.regexops.drop.input", []byte(`{"text": "hello world"}`)))

	require.Eventually(t, func() bool {
		receiveMu.Lock()
		defer receiveMu.Unlock()
		return len(received) == 1
	}, 5*time.Second, 50*time.Millisecond)

	receiveMu.Lock()
	out := received[0]
	receiveMu.Unlock()

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "hello", doc["word"])
}

// TestIntegration_QueueGroupPorts verifies queue-configured input ports share
// load across instances
func TestIntegration_QueueGroupPorts(t *testing.T) {
	natsClient := getSharedNATSClient(t)

	ports := portsFor("test.regexops.queue.input", "test.regexops.queue.output")
	ports.Inputs[0].Queue = "regexops-workers"

	config := regexopsprocessor.Config{
		Ports: ports,
		Operations: json.RawMessage(`[
			{"replace": {"regex": "cat", "target": "/animal", "with": "dog"}}
		]`),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Two processor instances in the same queue group
	startProcessor(t, ctx, natsClient, config)
	startProcessor(t, ctx, natsClient, config)

	received := make([][]byte, 0)
	var receiveMu sync.Mutex

	err := natsClient.Subscribe(ctx, "test.regexops.queue.output", func(_ context.Context, data []byte) {
		receiveMu.Lock()
		received = append(received, data)
		receiveMu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	for range 6 {
		require.NoError(t, natsClient.Publish(ctx, "test.regexops.queue.input", []byte(`{"animal": "cat"}`)))
	}

	// Exactly one output per input even with two subscribed instances
	require.Eventually(t, func() bool {
		receiveMu.Lock()
		defer receiveMu.Unlock()
		return len(received) == 6
	}, 5*time.Second, 50*time.Millisecond)

	time.Sleep(200 * time.Millisecond)

	receiveMu.Lock()
	defer receiveMu.Unlock()
	assert.Len(t, received, 6)
	for _, out := range received {
		assert.JSONEq(t, `{"animal": "dog"}`, string(out))
	}
}
