package engine

// Node outcomes reported to MetricsCollector.RecordNode
const (
	OutcomePruned     = "pruned"
	OutcomeInfeasible = "infeasible"
	OutcomeIntegral   = "integral"
	OutcomeBranched   = "branched"
)

// MetricsCollector receives solver events.
// Implementations must be safe for concurrent use by the workers.
type MetricsCollector interface {
	// RecordNode records the outcome of one dequeued subproblem
	RecordNode(outcome string)

	// RecordRelaxation records one relaxation; exact is false for the combinatorial fallback
	RecordRelaxation(seconds float64, exact bool)

	// RecordIncumbent records a new best objective
	RecordIncumbent(objective float64)

	// RecordQueueDepth records the number of open subproblems
	RecordQueueDepth(depth int)

	// RecordSolve records a finished solve
	RecordSolve(status string, seconds float64)
}

type nopMetrics struct{}

func (nopMetrics) RecordNode(string) {}
func (nopMetrics) RecordRelaxation(float64, bool) {}
func (nopMetrics) RecordIncumbent(float64) {}
func (nopMetrics) RecordQueueDepth(int) {}
func (nopMetrics) RecordSolve(string, float64) {}
