package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/mint/internal/adapters/telemetry"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOTelTracer_StartRecordsKind(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(nil, sr)
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	_, span := tracer.Start(context.Background(), "minify", ports.WithKind("minify"))
	span.SetAttribute("mint.jobs", 3)
	span.SetAttribute(ports.AttributeCached, true)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "minify", ended[0].Name())

	kind, ok := attr(ended[0].Attributes(), ports.AttributeKind)
	require.True(t, ok)
	assert.Equal(t, "minify", kind.AsString())

	jobs, ok := attr(ended[0].Attributes(), "mint.jobs")
	require.True(t, ok)
	assert.Equal(t, int64(3), jobs.AsInt64())

	cached, ok := attr(ended[0].Attributes(), ports.AttributeCached)
	require.True(t, ok)
	assert.True(t, cached.AsBool())
}

func TestOTelTracer_SetAttributeTypes(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(nil, sr)

	_, span := tracer.Start(context.Background(), "attrs")
	span.SetAttribute("string", "val")
	span.SetAttribute("int64", int64(7))
	span.SetAttribute("float64", 1.5)
	span.SetAttribute("slice", []string{"a", "b"})
	span.SetAttribute("other", struct{ N int }{N: 1})
	span.End()

	attrs := sr.Ended()[0].Attributes()
	v, _ := attr(attrs, "string")
	assert.Equal(t, "val", v.AsString())
	v, _ = attr(attrs, "int64")
	assert.Equal(t, int64(7), v.AsInt64())
	v, _ = attr(attrs, "float64")
	assert.InDelta(t, 1.5, v.AsFloat64(), 0)
	v, _ = attr(attrs, "slice")
	assert.Equal(t, []string{"a", "b"}, v.AsStringSlice())
	v, _ = attr(attrs, "other")
	assert.Equal(t, "{1}", v.AsString())
}

func TestOTelTracer_RecordErrorMarksSpanFailed(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(nil, sr)

	_, span := tracer.Start(context.Background(), "lint")
	span.RecordError(errors.New("unexpected token"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "unexpected token", ended[0].Status().Description)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(renderer, sr)

	tasks := []string{"lint", "minify"}
	deps := map[string][]string{"minify": {"lint"}}
	targets := []string{"minify"}

	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "run", gomock.Any())
	renderer.EXPECT().OnPlanEmit(tasks, deps, targets).Times(2)
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil, false)

	// Without an active span only the renderer sees the plan.
	tracer.EmitPlan(context.Background(), tasks, deps, targets)

	ctx, span := tracer.Start(context.Background(), "run")
	tracer.EmitPlan(ctx, tasks, deps, targets)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelTracer_WriteForwardsToRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := telemetry.NewOTelTracer(renderer)

	var logged []byte
	renderer.EXPECT().OnTaskStart(gomock.Any(), gomock.Any(), "exec", gomock.Any())
	renderer.EXPECT().OnTaskLog(gomock.Any(), gomock.Any()).
		Do(func(_ string, data []byte) { logged = append(logged, data...) }).
		MinTimes(1)
	renderer.EXPECT().OnTaskComplete(gomock.Any(), gomock.Any(), nil, false)

	_, span := tracer.Start(context.Background(), "exec")
	for range 3 {
		n, err := span.Write([]byte("out\n"))
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}
	span.End()

	assert.Equal(t, "out\nout\nout\n", string(logged))
}

func TestOTelTracer_WriteWithoutRendererRecordsEvent(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(nil, sr)

	_, span := tracer.Start(context.Background(), "exec")
	n, err := span.Write([]byte("log"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "log", events[0].Name)
}
