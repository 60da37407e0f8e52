package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSampleRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.05, SampleRatio("production"))
	assert.Equal(t, 0.1, SampleRatio("staging"))
	assert.Equal(t, 1.0, SampleRatio("development"))
	assert.Equal(t, 1.0, SampleRatio(""))
}

func TestSetupWithoutExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "vendor-api", Env: "development"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestEndRecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := Start(context.Background(), "report.generate")
	End(span, errors.New("query failed"))

	_, ok := Start(context.Background(), "report.upload")
	End(ok, nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "report.generate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}
