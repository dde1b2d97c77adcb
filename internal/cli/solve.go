package cli

import (
	"github.com/spf13/cobra"

	"slotting.dev/slotting/internal/actions"
	"slotting.dev/slotting/internal/cli/helpers"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/relax"
	"slotting.dev/slotting/internal/runtime"
)

// newSolveCmd creates the solve command
func newSolveCmd() *cobra.Command {
	var (
		opts        actions.SolveOptions
		noWarmStart bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute a minimum-distance assignment of items to shelves",
		Long: `Compute an assignment of every stocked item to one shelf that minimizes
the total pick-weighted distance while respecting shelf capacities and the
per-shelf slot limit.

Items without a par level or pick frequency are dropped with a warning. Items
without a volume use the default volume.

When a time or node limit stops the search, the best assignment found so far
is still written and the command exits with status 2. Pass --checkpoint to
save the open subproblems and --resume to continue from them later.`,
		Example: `  slotting solve --items items.csv --shelves shelves.csv -o assignment.csv
  slotting solve --items items.xlsx --shelves shelves.xlsx --time-limit 5m --checkpoint run.ckpt.yaml
  slotting solve --items items.csv --shelves shelves.csv --resume run.ckpt.yaml -o assignment.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				if noWarmStart {
					ctx.Config.Solver.WarmStart = false
				}
				return actions.SolveAction(ctx, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ItemsPath, "items", "", "item records (.csv or .xlsx)")
	flags.StringVar(&opts.ShelvesPath, "shelves", "", "shelf records (.csv or .xlsx)")
	flags.StringVarP(&opts.OutputPath, "output", "o", "", "write the assignment to this file")
	flags.StringVar(&opts.Format, "format", "", "assignment format (csv, xlsx, json, yaml); inferred from --output by default")
	flags.BoolVarP(&opts.Force, "force", "f", false, "replace existing output files without asking")
	flags.StringVar(&opts.CheckpointPath, "checkpoint", "", "save the open subproblems here if the search stops early")
	flags.StringVar(&opts.ResumePath, "resume", "", "continue the search from a checkpoint")
	flags.StringVar(&opts.MetricsPath, "metrics-file", "", "write solver metrics in Prometheus text format")
	flags.BoolVar(&opts.NoProgress, "no-progress", false, "do not show search progress")
	flags.BoolVar(&noWarmStart, "no-warm-start", false, "do not seed the search with a greedy assignment")

	flags.Int("workers", 1, "subproblems evaluated in parallel")
	flags.Duration("time-limit", 0, "stop the search after this long (0 for no limit)")
	flags.Int64("node-limit", 0, "stop the search after this many relaxations (0 for no limit)")
	flags.Int("slot-limit", model.DefaultSlotLimit, "maximum distinct items per shelf")
	flags.Float64("default-volume", model.DefaultVolume, "volume for items with no volume")
	flags.Int("max-lp-size", relax.DefaultMaxSize, "largest relaxation, in matrix cells, solved with the simplex (0 for no limit)")
	bindConfigFlag(cmd, "workers", "solver.workers")
	bindConfigFlag(cmd, "time-limit", "solver.time_limit")
	bindConfigFlag(cmd, "node-limit", "solver.node_limit")
	bindConfigFlag(cmd, "slot-limit", "solver.slot_limit")
	bindConfigFlag(cmd, "default-volume", "solver.default_volume")
	bindConfigFlag(cmd, "max-lp-size", "solver.max_lp_size")

	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("shelves")
	helpers.RecordFileFlag(cmd, "items")
	helpers.RecordFileFlag(cmd, "shelves")
	helpers.AssignmentFileFlag(cmd, "output")
	_ = cmd.MarkFlagFilename("checkpoint", "yaml")
	_ = cmd.MarkFlagFilename("resume", "yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", helpers.CompleteFormats)

	return cmd
}
