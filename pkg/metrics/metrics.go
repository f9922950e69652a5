package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMMetrics records latency and outcomes for model calls.
type LLMMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
	tokens   *prometheus.CounterVec
}

// NewLLMMetrics registers the model-call metrics on the provided registerer.
func NewLLMMetrics(reg prometheus.Registerer) *LLMMetrics {
	if reg == nil {
		return &LLMMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_call_duration_seconds",
		Help:    "Duration of model calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_calls_total",
		Help: "Model calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	tokens := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Prompt tokens submitted per operation.",
	}, []string{"operation"})
	reg.MustRegister(duration, calls, tokens)
	return &LLMMetrics{
		duration: duration,
		calls:    calls,
		tokens:   tokens,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *LLMMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *LLMMetrics) IncSuccess(operation string) {
	if m == nil || m.calls == nil {
		return
	}
	m.calls.WithLabelValues(normalizeLabel(operation), "success").Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *LLMMetrics) IncFailure(operation string) {
	if m == nil || m.calls == nil {
		return
	}
	m.calls.WithLabelValues(normalizeLabel(operation), "failure").Inc()
}

// AddTokens records prompt tokens submitted for the named operation.
func (m *LLMMetrics) AddTokens(operation string, count int) {
	if m == nil || m.tokens == nil || count <= 0 {
		return
	}
	m.tokens.WithLabelValues(normalizeLabel(operation)).Add(float64(count))
}

// PipelineMetrics records metadata for batch pipeline runs.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	records  *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_duration_seconds",
		Help:    "Duration of pipeline runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"pipeline"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_success",
		Help: "Successful pipeline runs.",
	}, []string{"pipeline"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_failure",
		Help: "Failed pipeline runs.",
	}, []string{"pipeline"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_records_processed",
		Help: "Records processed per pipeline run.",
	}, []string{"pipeline"})
	reg.MustRegister(duration, success, failure, records)
	return &PipelineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		records:  records,
	}
}

// ObserveDuration records the duration for the named pipeline.
func (p *PipelineMetrics) ObserveDuration(pipeline string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(pipeline)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named pipeline.
func (p *PipelineMetrics) IncSuccess(pipeline string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(pipeline)).Inc()
}

// IncFailure increments the failure counter for the named pipeline.
func (p *PipelineMetrics) IncFailure(pipeline string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(pipeline)).Inc()
}

// AddRecords counts processed records for the named pipeline.
func (p *PipelineMetrics) AddRecords(pipeline string, count int) {
	if p == nil || p.records == nil || count <= 0 {
		return
	}
	p.records.WithLabelValues(normalizeLabel(pipeline)).Add(float64(count))
}

func normalizeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
