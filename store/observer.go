package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hatlonely/gridx/grid/validate"
	"github.com/hatlonely/gridx/log/logger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// mutationMetrics 变更流水线的 prometheus 指标
type mutationMetrics struct {
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	activeOperations  *prometheus.GaugeVec
	batchSize         *prometheus.HistogramVec
}

func newMutationMetrics(name string, registerer prometheus.Registerer) *mutationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &mutationMetrics{
		operationCounter: register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_mutations_total",
				Help: "Total number of table mutations by outcome",
			},
			[]string{"entity", "operation", "status"},
		)),
		operationDuration: register(registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_mutation_duration_seconds",
				Help:    "Duration of table mutations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"entity", "operation"},
		)),
		activeOperations: register(registerer, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: name + "_active_mutations",
				Help: "Number of pending table mutations",
			},
			[]string{"entity", "operation"},
		)),
		batchSize: register(registerer, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_mutation_batch_size",
				Help:    "Number of rows touched by a mutation",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"entity", "operation"},
		)),
	}
}

// register 同名指标已经注册过时复用已有的收集器，多个 Mutator 共享同一组指标
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("register collector failed: %v", err))
	}
	return c
}

type observer struct {
	entity  string
	name    string
	metrics *mutationMetrics
	tracer  trace.Tracer
	logger  logger.Logger
}

// status 变更的结果，用作指标标签
func status(err error) string {
	if err == nil {
		return "committed"
	}
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return "rejected"
	}
	return "rolled_back"
}

// observe 统一记录指标、span 和日志
func (o *observer) observe(ctx context.Context, operation Operation, batchSize int, fn func(context.Context) error) error {
	start := time.Now()
	op := string(operation)

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, fmt.Sprintf("%s.%s", o.name, op),
			trace.WithAttributes(
				attribute.String("entity", o.entity),
				attribute.String("operation", op),
				attribute.Int("batch_size", batchSize),
			),
		)
		defer span.End()
	}

	if o.metrics != nil {
		o.metrics.batchSize.WithLabelValues(o.entity, op).Observe(float64(batchSize))
		o.metrics.activeOperations.WithLabelValues(o.entity, op).Inc()
		defer o.metrics.activeOperations.WithLabelValues(o.entity, op).Dec()
	}

	err := fn(ctx)
	duration := time.Since(start)

	if span != nil {
		span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if o.metrics != nil {
		o.metrics.operationCounter.WithLabelValues(o.entity, op, status(err)).Inc()
		o.metrics.operationDuration.WithLabelValues(o.entity, op).Observe(duration.Seconds())
	}

	switch status(err) {
	case "committed":
		o.logger.InfoContext(ctx, "mutation committed",
			"operation", op,
			"batch_size", batchSize,
			"duration_ms", duration.Milliseconds(),
		)
	case "rejected":
		o.logger.WarnContext(ctx, "mutation rejected",
			"operation", op,
			"error", err.Error(),
		)
	default:
		o.logger.WarnContext(ctx, "mutation rolled back",
			"operation", op,
			"batch_size", batchSize,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
	}

	return err
}

func newTracer(name string) trace.Tracer {
	return otel.Tracer(fmt.Sprintf("gridx.%s", name))
}
