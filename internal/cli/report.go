package cli

import (
	"github.com/spf13/cobra"

	"slotting.dev/slotting/internal/actions"
	"slotting.dev/slotting/internal/cli/helpers"
	"slotting.dev/slotting/internal/runtime"
)

// newReportCmd creates the report command
func newReportCmd() *cobra.Command {
	var opts actions.ReportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print shelf utilization for an assignment",
		Long: `Print the items, volume and fill of every shelf for an assignment.

Unlike check, report does not reject overfull shelves, so it can be used to
inspect hand-made or outdated assignments.`,
		Example: `  slotting report --items items.csv --shelves shelves.csv -a assignment.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ReportAction(ctx, opts)
			})
		},
	}

	addRecordFlags(cmd, &opts.ItemsPath, &opts.ShelvesPath, &opts.AssignmentPath)
	return cmd
}
