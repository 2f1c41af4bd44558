package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enabled, err := Init(context.Background(), "test")
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.NoError(t, Shutdown(context.Background()))

	_, span := Tracer(DBTracer).Start(context.Background(), "noop")
	span.End()
}

func TestEndpointHost(t *testing.T) {
	assert.Equal(t, "collector:4318", endpointHost("http://collector:4318/"))
	assert.Equal(t, "collector:4318", endpointHost("https://collector:4318"))
	assert.Equal(t, "collector:4318", endpointHost("collector:4318"))
}
