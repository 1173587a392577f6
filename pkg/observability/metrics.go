// Package observability exposes run and node metrics to Prometheus, fed from
// the engine's event channel.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/ports"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	runsCompleted *prometheus.CounterVec
	nodesTotal    *prometheus.CounterVec
	nodeDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpstudio",
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Workflow runs by terminal status.",
		}, []string{"status"}),
		nodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpstudio",
			Subsystem: "engine",
			Name:      "nodes_total",
			Help:      "Node executions by outcome.",
		}, []string{"outcome"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mcpstudio",
			Subsystem: "engine",
			Name:      "node_duration_seconds",
			Help:      "Wall-clock node execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.runsCompleted, m.nodesTotal, m.nodeDuration)
	return m
}

// Listener returns an event listener feeding the collectors. Register it on
// the broker under a stable id.
func (m *Metrics) Listener() domain.Listener {
	return func(evt domain.Event) {
		switch evt.Type {
		case domain.EventNodeCompleted:
			m.nodesTotal.WithLabelValues("completed").Inc()
		case domain.EventNodeFailed:
			m.nodesTotal.WithLabelValues("failed").Inc()
		case domain.EventRunCompleted:
			m.runsCompleted.WithLabelValues(string(domain.StatusCompleted)).Inc()
		case domain.EventRunFailed:
			m.runsCompleted.WithLabelValues(string(domain.StatusError)).Inc()
		case domain.EventRunStopped:
			m.runsCompleted.WithLabelValues(string(domain.StatusStopped)).Inc()
		}
	}
}

// ObserveNode records a finished node's duration directly from its record.
func (m *Metrics) ObserveNode(ne *domain.NodeExecution) {
	outcome := "completed"
	if ne.Status == domain.NodeError {
		outcome = "failed"
	}
	m.nodeDuration.WithLabelValues(outcome).Observe(ne.Duration.Seconds())
}

// Handler exposes the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WrapStore decorates an execution store so node durations are observed
// whenever a terminal record is persisted.
func (m *Metrics) WrapStore(store ports.ExecutionStore) ports.ExecutionStore {
	return &instrumentedStore{ExecutionStore: store, metrics: m}
}

type instrumentedStore struct {
	ports.ExecutionStore
	metrics *Metrics
}

func (s *instrumentedStore) Save(ctx context.Context, exec *domain.Execution) error {
	if exec.Status.Terminal() {
		for _, ne := range exec.Nodes {
			s.metrics.ObserveNode(ne)
		}
	}
	return s.ExecutionStore.Save(ctx, exec)
}
