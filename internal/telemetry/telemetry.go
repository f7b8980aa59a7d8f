package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the process-wide instrumentation for the agent and HTTP
// layers. All collectors are registered once at startup.
type Metrics struct {
	AgentInvocations *prometheus.CounterVec
	AgentIterations  prometheus.Histogram
	ToolCalls        *prometheus.CounterVec
	LLMRequests      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg and returns the handle. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AgentInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasiq_agent_invocations_total",
			Help: "Agent loop invocations by outcome.",
		}, []string{"outcome"}),
		AgentIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atlasiq_agent_iterations",
			Help:    "Loop iterations consumed per agent invocation.",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasiq_tool_calls_total",
			Help: "Tool dispatches by tool name.",
		}, []string{"tool"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atlasiq_llm_requests_total",
			Help: "Model completion requests by model and status.",
		}, []string{"model", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlasiq_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(m.AgentInvocations, m.AgentIterations, m.ToolCalls, m.LLMRequests, m.RequestDuration)
	return m
}

// ObserveInvocation is nil-safe so callers can run without metrics wired.
func (m *Metrics) ObserveInvocation(outcome string, iterations int) {
	if m == nil {
		return
	}
	m.AgentInvocations.WithLabelValues(outcome).Inc()
	m.AgentIterations.Observe(float64(iterations))
}

// ObserveToolCall is nil-safe.
func (m *Metrics) ObserveToolCall(tool string) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool).Inc()
}
