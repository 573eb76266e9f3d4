package telemetry

import (
	"context"
	"log"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var anomalies atomic.Int64

// RecordAnomaly reports a recoverable invariant violation, such as a
// non-finite heading that had to be reset. The game keeps running; the
// event is logged and attached to the current span, or to a fresh one
// when ctx carries none.
func RecordAnomaly(ctx context.Context, component, msg string, attrs ...attribute.KeyValue) {
	anomalies.Add(1)
	log.Printf("anomaly in %s: %s", component, msg)

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		_, span = Tracer(component).Start(ctx, component+".anomaly")
		defer span.End()
	}

	attrs = append(attrs, attribute.String("anomaly.component", component))
	span.AddEvent(msg, trace.WithAttributes(attrs...))
}

// AnomalyCount returns how many anomalies were recorded by this process.
func AnomalyCount() int64 {
	return anomalies.Load()
}
