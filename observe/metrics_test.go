package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestNewQueryMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	m, err := NewQueryMetrics(meter)
	if err != nil {
		t.Fatalf("NewQueryMetrics failed: %v", err)
	}

	ctx := context.Background()

	// Recording must not panic on any instrument.
	m.RecordLookup(ctx, true, 2*time.Millisecond)
	m.RecordLookup(ctx, false, 5*time.Millisecond)
	m.RecordBackend(ctx, 200*time.Millisecond, nil)
	m.RecordBackend(ctx, 50*time.Millisecond, errors.New("boom"))
	m.RecordAcquireWait(ctx, time.Millisecond)
	m.AddInUse(ctx, 1)
	m.AddInUse(ctx, -1)
}

func TestQueryMetrics_NilReceiver(t *testing.T) {
	var m *QueryMetrics
	ctx := context.Background()

	// A nil QueryMetrics is a valid "metrics disabled" value.
	m.RecordLookup(ctx, true, time.Millisecond)
	m.RecordBackend(ctx, time.Millisecond, nil)
	m.RecordAcquireWait(ctx, time.Millisecond)
	m.AddInUse(ctx, 1)
}
