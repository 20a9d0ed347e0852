package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := Tracer
	Tracer = tp.Tracer("test")
	defer func() { Tracer = previous }()

	_, span := StartSpan(context.Background(), "backup.restore", attribute.String("user.id", "u1"))
	span.End(errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "backup.restore", ended[0].Name())
	assert.Len(t, ended[0].Events(), 1)
}

func TestInitTracing_DisabledExporter(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "nashr-test", Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
