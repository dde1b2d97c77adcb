package metrics

import "slotting.dev/slotting/internal/engine"

// NopMetrics implements a no-op metrics collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ engine.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordNode discards the node outcome.
func (n *NopMetrics) RecordNode(_ /* outcome */ string) {
	// No-op
}

// RecordRelaxation discards the relaxation timing.
func (n *NopMetrics) RecordRelaxation(_ /* seconds */ float64, _ /* exact */ bool) {
	// No-op
}

// RecordIncumbent discards the incumbent objective.
func (n *NopMetrics) RecordIncumbent(_ /* objective */ float64) {
	// No-op
}

// RecordQueueDepth discards the queue depth.
func (n *NopMetrics) RecordQueueDepth(_ /* depth */ int) {
	// No-op
}

// RecordSolve discards the solve summary.
func (n *NopMetrics) RecordSolve(_ /* status */ string, _ /* seconds */ float64) {
	// No-op
}
