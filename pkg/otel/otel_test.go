package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGRPCProtocol(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "")

	require.False(t, grpcProtocol("TRACES"))

	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	require.True(t, grpcProtocol("TRACES"))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "http/protobuf")
	require.False(t, grpcProtocol("TRACES"))
	require.True(t, grpcProtocol("LOGS"))
}

func TestSetupWithoutTelemetry(t *testing.T) {
	enabled := EnableTelemetry
	EnableTelemetry = false

	t.Cleanup(func() { EnableTelemetry = enabled })

	shutdown, err := Setup(context.Background(), "lahde", "test")
	require.NoError(t, err)

	require.NoError(t, shutdown(context.Background()))
}
