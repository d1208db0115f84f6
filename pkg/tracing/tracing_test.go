package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartAndEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, ok := StartSpan(context.Background(), "progress.CompleteLesson", attribute.String("lesson.id", "l1"))
	EndSpan(ok, nil)
	_, failed := StartSpan(context.Background(), "progress.JoinGroup")
	EndSpan(failed, errors.New("group is full"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "progress.CompleteLesson", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("lesson.id", "l1"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "group is full", spans[1].Status().Description)
}
