// Package engine finds a minimum-cost slotting assignment by branch-and-bound.
//
// It is the core of slotting, responsible for:
//   - Exploring subproblems best-bound-first with a pool of workers
//   - Relaxing each subproblem and pruning against the incumbent
//   - Branching on the most fractional variable
//   - Stopping in order at a time limit, node limit or cancellation and
//     handing back the open frontier so the search can be resumed
//
// With one worker the exploration order is deterministic. With more workers
// the optimal objective is the same but the assignment may differ between
// equal-cost optima.
package engine
