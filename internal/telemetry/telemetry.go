package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/dslab/avl/internal/config"
	"github.com/dslab/avl/pkg/avl"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type Telemetry struct {
	opDurInstrument         api.Float64Histogram
	opCountInstrument       api.Int64Counter
	rotationCountInstrument api.Int64Counter
	heightInstrument        api.Int64ObservableGauge
	registration            api.Registration
}

func NewTreeMetrics() *Telemetry {
	return &Telemetry{}
}

// NewProvider installs a global meter provider backed by a fresh
// prometheus registry and returns both.
func NewProvider() (*sdkmetric.MeterProvider, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return provider, registry, nil
}

// Setup creates the instruments on the global meter provider. height is
// polled by the tree height gauge on every collection and must be safe to
// call from the collecting goroutine.
func (tm *Telemetry) Setup(conf *config.AVLConfig, height func() int) error {
	if conf.Metrics == nil {
		return nil
	}
	meter := otel.Meter("avl-tree-metrics", api.WithInstrumentationAttributes(
		attribute.String("key_type", string(conf.Tree.KeyType)),
		attribute.StringSlice("tag", conf.Tags),
	))

	var err error
	if tm.opDurInstrument, err = meter.Float64Histogram(
		"avl_operation_duration", api.WithUnit("us")); err != nil {
		return err
	}
	if tm.opCountInstrument, err = meter.Int64Counter(
		"avl_operation_count"); err != nil {
		return err
	}
	if tm.rotationCountInstrument, err = meter.Int64Counter(
		"avl_rotation_count"); err != nil {
		return err
	}
	if tm.heightInstrument, err = meter.Int64ObservableGauge(
		"avl_tree_height"); err != nil {
		return err
	}
	if height != nil {
		tm.registration, err = meter.RegisterCallback(
			func(_ context.Context, o api.Observer) error {
				o.ObserveInt64(tm.heightInstrument, int64(height()))
				return nil
			}, tm.heightInstrument)
	}
	return err
}

// Close stops the height gauge callback.
func (tm *Telemetry) Close() error {
	if tm == nil || tm.registration == nil {
		return nil
	}
	return tm.registration.Unregister()
}

func (tm *Telemetry) MeasureOperation(
	ctx context.Context, op string,
	start time.Time, err error,
) {
	if tm == nil || tm.opDurInstrument == nil || tm.opCountInstrument == nil {
		return
	}
	elapsed := time.Since(start)
	attrSet := attribute.NewSet(
		attribute.String("op", op),
		attribute.String("result", resultOf(err)),
	)
	tm.opDurInstrument.Record(ctx,
		float64(elapsed)/float64(time.Microsecond),
		api.WithAttributeSet(attrSet))
	tm.opCountInstrument.Add(ctx, 1,
		api.WithAttributeSet(attrSet))
}

func (tm *Telemetry) MeasureRotation(ctx context.Context, kind avl.Rotation) {
	if tm == nil || tm.rotationCountInstrument == nil {
		return
	}
	tm.rotationCountInstrument.Add(ctx, 1,
		api.WithAttributes(attribute.String("kind", kind.String())))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, avl.ErrNotFound):
		return ResultNotFound
	default:
		return ResultError
	}
}
