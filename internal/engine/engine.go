package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/relax"
	"slotting.dev/slotting/internal/validate"
)

const (
	reasonWorkerError = "worker error"
	statusInfeasible  = "infeasible"
)

// Engine solves one problem. It holds no search state between calls to Solve.
type Engine struct {
	problem *model.Problem

	workers          int
	timeLimit        time.Duration
	nodeLimit        int64
	logger           *slog.Logger
	metrics          MetricsCollector
	progress         func(Progress)
	progressInterval time.Duration
	warmStart        bool
	frontier         *Frontier
	relaxOpts        []relax.Option
	intTol           float64

	relaxFn relaxFunc
}

// relaxFunc bounds one subproblem; relax.Solve outside of tests
type relaxFunc func(p *model.Problem, fix []relax.Fix, opts ...relax.Option) (*relax.Relaxation, error)

// New creates an engine for p
func New(p *model.Problem, opts ...Option) *Engine {
	e := &Engine{
		problem:          p,
		workers:          1,
		logger:           discardLogger(),
		metrics:          nopMetrics{},
		progressInterval: 100 * time.Millisecond,
		warmStart:        true,
		intTol:           relax.DefaultIntegralityTolerance,
		relaxFn:          relax.Solve,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// search is the state of one Solve call
type search struct {
	e       *Engine
	queue   *nodeQueue
	inc     *incumbent
	started time.Time

	created    *atomic.Int64
	relaxed    *atomic.Int64
	pruned     *atomic.Int64
	infeasible *atomic.Int64
	branched   *atomic.Int64
	integral   *atomic.Int64
	updates    *atomic.Int64
	fallbacks  *atomic.Int64
	oversized  *atomic.Int64

	lastProgress *atomic.Int64
}

// Solve runs the search until the tree is exhausted or a limit is reached.
//
// A search that stops early with an incumbent returns the Result together with
// a *errors.TimedOutError. A search that ends without any feasible assignment
// returns a *errors.InfeasibleError.
func (e *Engine) Solve(ctx context.Context) (*Result, error) {
	s := e.newSearch()

	if err := s.seed(); err != nil {
		return nil, err
	}

	e.logger.Info("starting search",
		"items", e.problem.NumItems(),
		"shelves", e.problem.NumShelves(),
		"workers", e.workers,
		"open", s.queue.size())

	// AfterFunc runs asynchronously, so an already canceled context is
	// handled here before any node is dequeued.
	if ctx.Err() != nil {
		s.queue.stop(ReasonCanceled)
	}
	stopWatch := context.AfterFunc(ctx, func() {
		s.queue.stop(ReasonCanceled)
	})
	defer stopWatch()
	if e.timeLimit > 0 {
		timer := time.AfterFunc(e.timeLimit, func() {
			s.queue.stop(ReasonTimeLimit)
		})
		defer timer.Stop()
	}

	var g errgroup.Group
	for w := 0; w < e.workers; w++ {
		g.Go(s.work)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stopWatch()

	return s.finish()
}

func (e *Engine) newSearch() *search {
	return &search{
		e:            e,
		queue:        newNodeQueue(e.nodeLimit),
		inc:          newIncumbent(),
		started:      time.Now(),
		created:      atomic.NewInt64(0),
		relaxed:      atomic.NewInt64(0),
		pruned:       atomic.NewInt64(0),
		infeasible:   atomic.NewInt64(0),
		branched:     atomic.NewInt64(0),
		integral:     atomic.NewInt64(0),
		updates:      atomic.NewInt64(0),
		fallbacks:    atomic.NewInt64(0),
		oversized:    atomic.NewInt64(0),
		lastProgress: atomic.NewInt64(0),
	}
}

// seed fills the queue from the frontier or with the root, then tries the warm start
func (s *search) seed() error {
	p := s.e.problem
	if f := s.e.frontier; f != nil {
		if f.Fingerprint != p.Fingerprint() {
			return &slotErrors.CheckpointMismatchError{Want: p.Fingerprint(), Got: f.Fingerprint}
		}
		for _, open := range f.Nodes {
			for _, d := range open.Decisions {
				if d.Var < 0 || d.Var >= p.NumVars() {
					return fmt.Errorf("checkpoint decision on variable %d out of range", d.Var)
				}
			}
			s.queue.push(fromOpen(open))
		}
		s.created.Add(int64(len(f.Nodes)))
		if f.Incumbent != nil {
			objective, err := validate.Assignment(p, f.Incumbent)
			if err != nil {
				return fmt.Errorf("checkpoint incumbent: %w", err)
			}
			s.inc.offer(f.Incumbent, objective)
		}
	} else {
		s.queue.push(rootSubproblem())
		s.created.Inc()
	}

	if !s.e.warmStart {
		return nil
	}
	a, ok := greedy(p)
	if !ok {
		s.e.logger.Debug("greedy warm start found no complete assignment")
		return nil
	}
	objective, err := validate.Assignment(p, a)
	if err != nil {
		s.e.logger.Debug("greedy warm start rejected", "error", err)
		return nil
	}
	if s.inc.offer(a, objective) {
		s.updates.Inc()
		s.e.metrics.RecordIncumbent(objective)
		s.e.logger.Debug("warm start", "incumbent", objective)
	}
	return nil
}

func (s *search) work() error {
	for {
		node, ok := s.queue.pop()
		if !ok {
			return nil
		}
		children, err := s.process(node)
		open := s.queue.done(children...)
		if err != nil {
			s.queue.stop(reasonWorkerError)
			return err
		}
		s.e.metrics.RecordQueueDepth(open)
		s.report(false)
	}
}

// process moves one node through relaxation to pruned, integral or branched
func (s *search) process(node *subproblem) ([]*subproblem, error) {
	if s.inc.prunes(node.bound) {
		s.pruned.Inc()
		s.e.metrics.RecordNode(OutcomePruned)
		return nil, nil
	}

	// A limit may have fired while the node waited; keep it open unrelaxed
	// rather than start a relaxation past the limit.
	if s.queue.isStopped() {
		return []*subproblem{node}, nil
	}

	p := s.e.problem
	fix := node.fix(p.NumVars())

	started := time.Now()
	rel, err := s.e.relaxFn(p, fix, s.e.relaxOpts...)
	var numErr *relax.NumericalError
	if errors.As(err, &numErr) {
		s.fallbacks.Inc()
		s.e.logger.Debug("relaxation failed, using combinatorial bound",
			"error", numErr.Err,
			"depth", len(node.decisions))
		rel, err = relax.CombinatorialBound(p, fix, s.e.relaxOpts...)
	}
	if errors.Is(err, relax.ErrInfeasible) {
		s.e.metrics.RecordRelaxation(time.Since(started).Seconds(), numErr == nil)
		s.infeasible.Inc()
		s.e.metrics.RecordNode(OutcomeInfeasible)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("relax subproblem: %w", err)
	}
	s.e.metrics.RecordRelaxation(time.Since(started).Seconds(), rel.Exact)
	s.relaxed.Inc()
	if !rel.Exact && numErr == nil {
		s.oversized.Inc()
	}

	bound := math.Max(rel.Objective, node.bound)
	if s.inc.prunes(bound) {
		s.pruned.Inc()
		s.e.metrics.RecordNode(OutcomePruned)
		return nil, nil
	}

	if rel.Integral() {
		accepted, err := s.acceptIntegral(rel)
		if accepted {
			return nil, nil
		}
		// The vector looked integral but did not validate; branch on the
		// combinatorial choice instead.
		s.fallbacks.Inc()
		s.e.logger.Warn("integral relaxation failed validation", "error", err)
		rel, err = relax.CombinatorialBound(p, fix, s.e.relaxOpts...)
		if errors.Is(err, relax.ErrInfeasible) {
			s.infeasible.Inc()
			s.e.metrics.RecordNode(OutcomeInfeasible)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("relax subproblem: %w", err)
		}
	}

	v, ok := rel.MostFractional()
	if !ok {
		// Every item is pinned yet the assignment is invalid
		s.infeasible.Inc()
		s.e.metrics.RecordNode(OutcomeInfeasible)
		return nil, nil
	}

	s.branched.Inc()
	s.created.Add(2)
	s.e.metrics.RecordNode(OutcomeBranched)
	return []*subproblem{
		node.child(v, true, bound),
		node.child(v, false, bound),
	}, nil
}

// acceptIntegral validates an integral relaxation and offers it as incumbent
func (s *search) acceptIntegral(rel *relax.Relaxation) (bool, error) {
	p := s.e.problem
	a, err := validate.Values(p, rel.Values, s.e.intTol)
	if err != nil {
		return false, err
	}
	objective, err := validate.Assignment(p, a)
	if err != nil {
		return false, err
	}

	s.integral.Inc()
	s.e.metrics.RecordNode(OutcomeIntegral)
	if s.inc.offer(a, objective) {
		s.updates.Inc()
		s.e.metrics.RecordIncumbent(objective)
		s.e.logger.Debug("new incumbent", "incumbent", objective, "nodes", s.relaxed.Load())
		s.report(true)
	}
	return true, nil
}

func (s *search) report(force bool) {
	if s.e.progress == nil {
		return
	}
	now := time.Now().UnixNano()
	last := s.lastProgress.Load()
	if !force && now-last < int64(s.e.progressInterval) {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) && !force {
		return
	}

	_, objective, ok := s.inc.get()
	bound, hasBound := s.queue.minBound()
	s.e.progress(Progress{
		Nodes:        s.relaxed.Load(),
		Open:         s.queue.size(),
		Incumbent:    objective,
		HasIncumbent: ok,
		Bound:        bound,
		HasBound:     hasBound && !math.IsInf(bound, -1),
		Elapsed:      time.Since(s.started),
	})
}

func (s *search) stats() Stats {
	return Stats{
		Created:          s.created.Load(),
		Relaxed:          s.relaxed.Load(),
		Pruned:           s.pruned.Load(),
		Infeasible:       s.infeasible.Load(),
		Branched:         s.branched.Load(),
		Integral:         s.integral.Load(),
		IncumbentUpdates: s.updates.Load(),
		Fallbacks:        s.fallbacks.Load(),
		Oversized:        s.oversized.Load(),
		Elapsed:          time.Since(s.started),
	}
}

// finish turns the final search state into a Result
func (s *search) finish() (*Result, error) {
	p := s.e.problem
	reason := s.queue.stopReason()

	var open []*subproblem
	for _, node := range s.queue.drain() {
		if !s.inc.prunes(node.bound) {
			open = append(open, node)
		}
	}

	assignment, objective, found := s.inc.get()
	stats := s.stats()

	if len(open) == 0 {
		if !found {
			s.e.metrics.RecordSolve(statusInfeasible, stats.Elapsed.Seconds())
			s.e.logger.Info("search exhausted without a feasible assignment", "nodes", stats.Relaxed)
			return nil, slotErrors.NewInfeasibleError(true, "no assignment satisfies capacity and slot limits")
		}
		s.e.metrics.RecordSolve(StatusOptimal.String(), stats.Elapsed.Seconds())
		s.e.logger.Info("search complete",
			"status", StatusOptimal.String(),
			"incumbent", objective,
			"nodes", stats.Relaxed,
			"elapsed", stats.Elapsed)
		return &Result{
			Assignment:    assignment,
			Objective:     objective,
			Status:        StatusOptimal,
			LowerBound:    objective,
			HasLowerBound: true,
			Stats:         stats,
		}, nil
	}

	if !found {
		s.e.metrics.RecordSolve(statusInfeasible, stats.Elapsed.Seconds())
		s.e.logger.Info("search stopped without a feasible assignment", "reason", reason, "open", len(open))
		return nil, slotErrors.NewInfeasibleError(false, reason)
	}
	s.e.metrics.RecordSolve(StatusTimedOut.String(), stats.Elapsed.Seconds())

	frontier := &Frontier{
		Fingerprint: p.Fingerprint(),
		Nodes:       make([]OpenNode, len(open)),
		Incumbent:   assignment.Clone(),
		Objective:   objective,
	}
	lower := objective
	for k, node := range open {
		frontier.Nodes[k] = node.open()
		lower = math.Min(lower, node.bound)
	}
	hasLower := !math.IsInf(lower, -1)

	s.e.logger.Info("search stopped",
		"reason", reason,
		"incumbent", objective,
		"bound", lower,
		"open", len(open),
		"nodes", stats.Relaxed)

	result := &Result{
		Assignment:    assignment,
		Objective:     objective,
		Status:        StatusTimedOut,
		StopReason:    reason,
		LowerBound:    lower,
		HasLowerBound: hasLower,
		Stats:         stats,
		Frontier:      frontier,
	}
	return result, &slotErrors.TimedOutError{
		Reason:        reason,
		Objective:     objective,
		LowerBound:    lower,
		HasLowerBound: hasLower,
	}
}
