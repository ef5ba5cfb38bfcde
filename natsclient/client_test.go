package natsclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", client.URL())
	assert.Equal(t, StatusDisconnected, client.Status())
	assert.False(t, client.IsHealthy())
	assert.Equal(t, int32(0), client.Failures())
	assert.Equal(t, time.Second, client.Backoff())
	assert.Equal(t, -1, client.maxReconnects)
	assert.Equal(t, 2*time.Second, client.reconnectWait)
	assert.Equal(t, 30*time.Second, client.msgTimeout)
	assert.Equal(t, int32(5), client.circuitThreshold)
	assert.Equal(t, time.Minute, client.maxBackoff)
}

func TestNewClientOptions(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithMaxReconnects(3),
		WithReconnectWait(500*time.Millisecond),
		WithPingInterval(time.Minute),
		WithHealthInterval(time.Second),
		WithCircuitBreakerThreshold(2),
		WithMaxBackoff(10*time.Second),
		WithCredentials("user", "pass"),
		WithName("test-client"),
		WithTimeout(time.Second),
		WithDrainTimeout(2*time.Second),
		WithMessageTimeout(5*time.Second),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, client.maxReconnects)
	assert.Equal(t, 500*time.Millisecond, client.reconnectWait)
	assert.Equal(t, time.Minute, client.pingInterval)
	assert.Equal(t, time.Second, client.healthInterval)
	assert.Equal(t, int32(2), client.circuitThreshold)
	assert.Equal(t, 10*time.Second, client.maxBackoff)
	assert.Equal(t, "user", client.username)
	assert.Equal(t, "pass", client.password)
	assert.Equal(t, "test-client", client.clientName)
	assert.Equal(t, time.Second, client.timeout)
	assert.Equal(t, 2*time.Second, client.drainTimeout)
	assert.Equal(t, 5*time.Second, client.msgTimeout)
}

func TestOptionDefaultClamps(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(0),
		WithMaxBackoff(time.Millisecond),
		WithMessageTimeout(time.Millisecond),
	)
	require.NoError(t, err)

	assert.Equal(t, int32(5), client.circuitThreshold)
	assert.Equal(t, time.Minute, client.maxBackoff)
	assert.Equal(t, 30*time.Second, client.msgTimeout)
}

func TestConnectionStatusString(t *testing.T) {
	tests := []struct {
		status ConnectionStatus
		want   string
	}{
		{StatusDisconnected, "disconnected"},
		{StatusConnecting, "connecting"},
		{StatusConnected, "connected"},
		{StatusReconnecting, "reconnecting"},
		{StatusCircuitOpen, "circuit_open"},
		{ConnectionStatus(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(3),
	)
	require.NoError(t, err)

	client.recordFailure()
	client.recordFailure()
	assert.NotEqual(t, StatusCircuitOpen, client.Status())

	client.recordFailure()
	assert.Equal(t, StatusCircuitOpen, client.Status())
	assert.Equal(t, int32(3), client.Failures())

	// Backoff doubled on open
	assert.Equal(t, 2*time.Second, client.Backoff())
}

func TestCircuitBreakerBackoffCapped(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(1),
		WithMaxBackoff(4*time.Second),
	)
	require.NoError(t, err)

	for range 5 {
		client.recordFailure()
	}

	assert.Equal(t, StatusCircuitOpen, client.Status())
	assert.LessOrEqual(t, client.Backoff(), 4*time.Second)
}

func TestResetCircuit(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(1),
	)
	require.NoError(t, err)

	client.recordFailure()
	require.Equal(t, StatusCircuitOpen, client.Status())

	client.resetCircuit()

	assert.Equal(t, StatusDisconnected, client.Status())
	assert.Equal(t, int32(0), client.Failures())
	assert.Equal(t, time.Second, client.Backoff())
}

func TestTestCircuitReopensForConnect(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(1),
	)
	require.NoError(t, err)

	client.recordFailure()
	require.Equal(t, StatusCircuitOpen, client.Status())

	client.testCircuit()
	assert.Equal(t, StatusDisconnected, client.Status())
}

func TestPublishNotConnected(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = client.Publish(context.Background(), "test.subject", []byte("data"))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSubscribeNotConnected(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = client.Subscribe(context.Background(), "test.subject", func(context.Context, []byte) {})
	assert.ErrorIs(t, err, ErrNotConnected)

	err = client.QueueSubscribe(context.Background(), "test.subject", "workers", func(context.Context, []byte) {})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestRTTNotConnected(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	_, err = client.RTT()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConnectCircuitOpen(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCircuitBreakerThreshold(1),
	)
	require.NoError(t, err)

	client.recordFailure()
	require.Equal(t, StatusCircuitOpen, client.Status())

	err = client.Connect(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestWaitForConnectionTimeout(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = client.WaitForConnection(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetStatus(t *testing.T) {
	client, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	client.recordFailure()

	status := client.GetStatus()
	assert.Equal(t, StatusDisconnected, status.Status)
	assert.Equal(t, int32(1), status.FailureCount)
	assert.False(t, status.LastFailureTime.IsZero())
}

func TestCloseIdempotent(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCredentials("user", "pass"),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close(context.Background()))
	require.NoError(t, client.Close(context.Background()))

	// Credentials cleared on close
	assert.Empty(t, client.username)
	assert.Empty(t, client.password)
}

func TestConnectionOptionsIncludeAuth(t *testing.T) {
	client, err := NewClient("nats://localhost:4222",
		WithCredentials("user", "pass"),
		WithToken("secret"),
		WithName("regexstream"),
	)
	require.NoError(t, err)

	// UserInfo, Token and Name options on top of the base set of nine
	opts := client.ConnectionOptions()
	assert.Len(t, opts, 12)
}
