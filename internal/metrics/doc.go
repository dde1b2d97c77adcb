// Package metrics provides engine.MetricsCollector implementations.
//
// NopMetrics discards everything. PrometheusCollector records solver
// counters and histograms into a Prometheus registry, which WriteTextfile
// can export for the node_exporter textfile collector.
package metrics
