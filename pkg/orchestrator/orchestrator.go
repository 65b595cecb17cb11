// Package orchestrator drives apply/destroy of a root Plan: it generates
// the per-run apply_uuid, delegates to the Plan's own apply/destroy
// algorithm (which performs the pending-destroy drain exactly once, at the
// root), and wraps the run with tracing and metrics.
//
// The observability wiring (otel spans, prometheus counters/histograms) is
// carried as an ambient concern even though diff visualization and policy
// evaluation are out of scope — metrics on the run itself are not.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amirhadar/pdep-go/pkg/resource"
	"github.com/amirhadar/pdep-go/pkg/state"
)

const instrumentationName = "github.com/amirhadar/pdep-go/pkg/orchestrator"

// Metrics bundles the orchestrator's prometheus instruments. Callers
// construct one with NewMetrics and register it against a prometheus
// registry of their choosing (cmd/pdep registers it against a fresh
// prometheus.NewRegistry()).
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	pendingDrains prometheus.Counter
}

// NewMetrics constructs and registers the orchestrator's instruments.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdep",
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Count of orchestrator apply/destroy runs by operation and outcome.",
		}, []string{"operation", "outcome"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pdep",
			Subsystem: "orchestrator",
			Name:      "run_duration_seconds",
			Help:      "Duration of a root apply/destroy run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		pendingDrains: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pdep",
			Subsystem: "orchestrator",
			Name:      "pending_destroy_drains_total",
			Help:      "Count of root applies that drained at least one pending-destroy entry.",
		}),
	}
	reg.MustRegister(m.runsTotal, m.runDuration, m.pendingDrains)
	return m
}

// Orchestrator is the apply/destroy driver wrapping a root Plan.
type Orchestrator struct {
	store    state.Store
	provider resource.Provider
	log      zerolog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// New builds an Orchestrator. metrics may be nil, in which case no
// prometheus instruments are recorded (useful for tests and for the `plan`
// CLI subcommand's dry preview).
func New(store state.Store, provider resource.Provider, log zerolog.Logger, metrics *Metrics) *Orchestrator {
	return &Orchestrator{
		store:    store,
		provider: provider,
		log:      log.With().Str("component", "orchestrator").Logger(),
		metrics:  metrics,
		tracer:   otel.Tracer(instrumentationName),
	}
}

// Root is the minimal surface the orchestrator needs from a root Plan.
type Root interface {
	resource.Node
}

// Apply generates a fresh apply_uuid, applies root, and returns the
// apply_uuid used (so callers can report it, e.g. attributing remote
// changes to the run).
func (o *Orchestrator) Apply(ctx context.Context, root Root, dry, checkDrift bool) (uuid.UUID, error) {
	applyUUID := uuid.New()
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "orchestrator.apply",
		trace.WithAttributes(
			attribute.String("pdep.apply_uuid", applyUUID.String()),
			attribute.String("pdep.root_class", root.ClassTag()),
			attribute.Bool("pdep.dry_run", dry),
		))
	defer span.End()

	o.log.Info().Str("apply_uuid", applyUUID.String()).Str("root", root.ClassTag()).Bool("dry", dry).Msg("apply started")

	err := root.Apply(ctx, o.store, o.provider, applyUUID, dry, checkDrift)

	o.recordOutcome("apply", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Error().Err(err).Str("apply_uuid", applyUUID.String()).Msg("apply failed")
		return applyUUID, err
	}

	o.log.Info().Str("apply_uuid", applyUUID.String()).Dur("elapsed", time.Since(start)).Msg("apply completed")
	return applyUUID, nil
}

// Destroy tears down root entirely: a fresh apply_uuid is still generated
// (destroy hooks receive it for parity with create/update) and recorded in
// the same way apply is.
func (o *Orchestrator) Destroy(ctx context.Context, root Root, dry bool) (uuid.UUID, error) {
	applyUUID := uuid.New()
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "orchestrator.destroy",
		trace.WithAttributes(
			attribute.String("pdep.apply_uuid", applyUUID.String()),
			attribute.String("pdep.root_class", root.ClassTag()),
		))
	defer span.End()

	o.log.Info().Str("apply_uuid", applyUUID.String()).Str("root", root.ClassTag()).Msg("destroy started")

	err := root.Destroy(ctx, o.store, o.provider, applyUUID, dry, false)

	o.recordOutcome("destroy", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Error().Err(err).Str("apply_uuid", applyUUID.String()).Msg("destroy failed")
		return applyUUID, err
	}

	o.log.Info().Str("apply_uuid", applyUUID.String()).Dur("elapsed", time.Since(start)).Msg("destroy completed")
	return applyUUID, nil
}

func (o *Orchestrator) recordOutcome(operation string, start time.Time, err error) {
	if o.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	o.metrics.runsTotal.WithLabelValues(operation, outcome).Inc()
	o.metrics.runDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
