// Prometheus exposition. Gauges are refreshed from each broadcast snapshot
// rather than incremented inline, so the engine stays free of metric calls.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linesim/linesim/sim"
)

// Metrics holds the platform-level gauges for the simulator.
type Metrics struct {
	SimTime        prometheus.Gauge
	Running        prometheus.Gauge
	ItemsInSystem  prometheus.Gauge
	ItemsSpawned   prometheus.Gauge
	ItemsCompleted prometheus.Gauge
	Throughput     prometheus.Gauge
	AvgCycleTime   prometheus.Gauge
	Stations       prometheus.Gauge
	WSClients      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all simulator gauges on a dedicated
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SimTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "clock",
			Name:      "simulated_seconds",
			Help:      "Current simulated time in seconds",
		}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "clock",
			Name:      "running",
			Help:      "Whether simulated time is advancing (1=running, 0=paused)",
		}),
		ItemsInSystem: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "items",
			Name:      "in_system",
			Help:      "Items currently in queues and processing slots",
		}),
		ItemsSpawned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "items",
			Name:      "spawned_total",
			Help:      "Total items admitted at entry stations since the last reset",
		}),
		ItemsCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "items",
			Name:      "completed_total",
			Help:      "Total items retired at terminal stations since the last reset",
		}),
		Throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "line",
			Name:      "throughput",
			Help:      "Completed items per simulated second",
		}),
		AvgCycleTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "line",
			Name:      "avg_cycle_time_seconds",
			Help:      "Mean cycle time across all completed items",
		}),
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "line",
			Name:      "stations",
			Help:      "Stations currently in the topology",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "linesim",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected WebSocket snapshot subscribers",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.SimTime, m.Running, m.ItemsInSystem, m.ItemsSpawned,
		m.ItemsCompleted, m.Throughput, m.AvgCycleTime, m.Stations, m.WSClients,
	)
	return m
}

// Observe refreshes all gauges from a snapshot.
func (m *Metrics) Observe(snap sim.Snapshot, wsClients int) {
	m.SimTime.Set(snap.Timestamp)
	if snap.Running {
		m.Running.Set(1)
	} else {
		m.Running.Set(0)
	}
	m.ItemsInSystem.Set(float64(snap.ItemsInSystem))
	m.ItemsSpawned.Set(float64(snap.TotalSpawned))
	m.ItemsCompleted.Set(float64(snap.TotalCompleted))
	m.Throughput.Set(snap.Throughput)
	m.AvgCycleTime.Set(snap.AvgCycleTime)
	m.Stations.Set(float64(len(snap.Stations)))
	m.WSClients.Set(float64(wsClients))
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
