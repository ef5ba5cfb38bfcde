package component

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/c360/regexstream/natsclient"
)

// testNATSClient returns an unconnected client for dependency wiring in tests.
// NewClient performs no I/O, so this is safe without a server.
func testNATSClient(t *testing.T) *natsclient.Client {
	t.Helper()

	client, err := natsclient.NewClient("nats://localhost:4222")
	require.NoError(t, err)
	return client
}
