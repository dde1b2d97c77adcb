package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"slotting.dev/slotting/internal/engine"
	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/metrics"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/relax"
	"slotting.dev/slotting/internal/runtime"
	"slotting.dev/slotting/internal/tui"
	"slotting.dev/slotting/internal/utilization"
	"slotting.dev/slotting/internal/validate"
)

// SolveOptions contains options for the solve command
type SolveOptions struct {
	ItemsPath   string
	ShelvesPath string

	// OutputPath receives the assignment; empty prints only
	OutputPath string
	// Format overrides the format inferred from OutputPath
	Format string
	Force  bool

	// CheckpointPath receives the open frontier when the search stops early
	CheckpointPath string
	// ResumePath seeds the search from a checkpoint
	ResumePath string

	// MetricsPath overrides metrics.textfile
	MetricsPath string

	NoProgress bool
}

// SolveAction reads records, solves the slotting problem and writes the
// assignment. A solve stopped by a limit still writes its best assignment
// and returns an error matching errors.ErrTimedOut.
func SolveAction(ctx *runtime.Context, opts SolveOptions) error {
	cfg := ctx.Config
	splog := ctx.Splog
	logger := ctx.Logger()

	var format records.Format
	if opts.OutputPath != "" {
		var err error
		format, err = outputFormat(opts.OutputPath, firstNonEmpty(opts.Format, cfg.Output.Format))
		if err != nil {
			return err
		}
		if err := ensureWritable(opts.OutputPath, opts.Force); err != nil {
			return err
		}
	}
	if opts.CheckpointPath != "" {
		if err := ensureWritable(opts.CheckpointPath, opts.Force); err != nil {
			return err
		}
	}

	p, dropped, err := loadProblem(ctx, opts.ItemsPath, opts.ShelvesPath)
	if err != nil {
		return err
	}

	metricsPath := firstNonEmpty(opts.MetricsPath, cfg.Metrics.Textfile)
	var (
		registry  *prometheus.Registry
		collector engine.MetricsCollector = metrics.NewNop()
	)
	if metricsPath != "" {
		registry = prometheus.NewRegistry()
		collector = metrics.NewPrometheus(registry, cfg.Metrics.Namespace)
	}

	engineOpts := []engine.Option{
		engine.WithWorkers(cfg.Solver.Workers),
		engine.WithTimeLimit(cfg.Solver.TimeLimit),
		engine.WithNodeLimit(cfg.Solver.NodeLimit),
		engine.WithWarmStart(cfg.Solver.WarmStart),
		engine.WithRelaxOptions(
			relax.WithTolerance(cfg.Solver.Tolerance),
			relax.WithMaxSize(cfg.Solver.MaxLPSize),
		),
		engine.WithIntegralityTolerance(cfg.Solver.IntegralityTolerance),
		engine.WithLogger(logger),
		engine.WithMetrics(collector),
	}

	if opts.ResumePath != "" {
		cp, err := records.ReadCheckpoint(opts.ResumePath)
		if err != nil {
			return err
		}
		splog.Info("Resuming run %s with %d open subproblems.", cp.RunID, len(cp.Frontier.Nodes))
		logger.Info("resuming", "from_run", cp.RunID, "open", len(cp.Frontier.Nodes))
		engineOpts = append(engineOpts, engine.WithFrontier(cp.Frontier))
	}

	solveCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	var reporter tui.ProgressReporter
	if !opts.NoProgress {
		reporter = tui.NewProgressReporter(splog, fmt.Sprintf("Slotting %d items onto %d shelves", p.NumItems(), p.NumShelves()), cancel)
		engineOpts = append(engineOpts, engine.WithProgress(reporter.Update))
	}

	res, solveErr := engine.New(p, engineOpts...).Solve(solveCtx)
	if reporter != nil {
		reporter.Done()
	}
	defer writeMetrics(ctx, metricsPath, registry)

	if solveErr != nil && !errors.Is(solveErr, slotErrors.ErrTimedOut) {
		return solveErr
	}

	objective, err := validate.Assignment(p, res.Assignment)
	if err != nil {
		return fmt.Errorf("solver returned an invalid assignment: %w", err)
	}

	usage := utilization.Aggregate(p, res.Assignment)
	summary := utilization.Summarize(usage)
	out := &records.Output{
		Status:     res.Status.String(),
		Objective:  objective,
		Assignment: p.Pairs(res.Assignment),
		Usage:      usage,
		Summary:    &summary,
	}
	if res.HasLowerBound {
		bound := res.LowerBound
		out.LowerBound = &bound
	}

	if opts.OutputPath != "" {
		if err := records.WriteAssignment(opts.OutputPath, format, out); err != nil {
			return err
		}
		logger.Info("assignment written", "path", opts.OutputPath, "format", string(format))
	}

	if res.Status == engine.StatusTimedOut {
		splog.Warn("Search stopped (%s) before proving optimality.", res.StopReason)
		if opts.CheckpointPath != "" && res.Frontier != nil {
			if err := records.WriteCheckpoint(opts.CheckpointPath, ctx.RunID, res.Frontier); err != nil {
				return err
			}
			splog.Tip("Resume with --resume %s", opts.CheckpointPath)
		}
	}

	printSolution(splog, p, out, res, dropped)
	if opts.OutputPath != "" {
		splog.Info("Wrote %d placements to %s.", len(out.Assignment), opts.OutputPath)
	}
	return solveErr
}

func printSolution(splog *tui.Splog, p *model.Problem, out *records.Output, res *engine.Result, dropped []string) {
	splog.Page(tui.RenderResult(tui.ResultSummary{
		Status:     out.Status,
		Objective:  out.Objective,
		LowerBound: out.LowerBound,
		Gap:        res.Gap(),
		Dropped:    len(dropped),
		Nodes:      res.Stats.Relaxed,
	}))
	splog.Newline()
	splog.Page(tui.RenderUtilization(out.Usage, *out.Summary))
	splog.Newline()
	splog.Debug("%d items, %d shelves, slot limit %d", p.NumItems(), p.NumShelves(), p.SlotLimit())
}

func writeMetrics(ctx *runtime.Context, path string, registry *prometheus.Registry) {
	if path == "" || registry == nil {
		return
	}
	if err := metrics.WriteTextfile(path, registry); err != nil {
		ctx.Splog.Warn("%v", err)
		return
	}
	ctx.Logger().Debug("metrics written", "path", path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
