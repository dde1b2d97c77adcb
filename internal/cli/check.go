package cli

import (
	"github.com/spf13/cobra"

	"slotting.dev/slotting/internal/actions"
	"slotting.dev/slotting/internal/cli/helpers"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/runtime"
)

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	var opts actions.CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate an existing assignment and print its cost",
		Long: `Validate that an assignment places every stocked item on exactly one known
shelf without overfilling a shelf or exceeding the slot limit, then print its
objective and shelf utilization.

The command fails when any of these rules is broken.`,
		Example: `  slotting check --items items.csv --shelves shelves.csv --assignment assignment.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CheckAction(ctx, opts)
			})
		},
	}

	addRecordFlags(cmd, &opts.ItemsPath, &opts.ShelvesPath, &opts.AssignmentPath)
	return cmd
}

// addRecordFlags adds the required --items, --shelves and --assignment flags
func addRecordFlags(cmd *cobra.Command, items, shelves, assignment *string) {
	flags := cmd.Flags()
	flags.StringVar(items, "items", "", "item records (.csv or .xlsx)")
	flags.StringVar(shelves, "shelves", "", "shelf records (.csv or .xlsx)")
	flags.StringVarP(assignment, "assignment", "a", "", "assignment file written by solve")

	flags.Int("slot-limit", model.DefaultSlotLimit, "maximum distinct items per shelf")
	flags.Float64("default-volume", model.DefaultVolume, "volume for items with no volume")
	bindConfigFlag(cmd, "slot-limit", "solver.slot_limit")
	bindConfigFlag(cmd, "default-volume", "solver.default_volume")

	for _, name := range []string{"items", "shelves", "assignment"} {
		_ = cmd.MarkFlagRequired(name)
	}
	helpers.RecordFileFlag(cmd, "items")
	helpers.RecordFileFlag(cmd, "shelves")
	helpers.AssignmentFileFlag(cmd, "assignment")
}
