package actions

import (
	"fmt"

	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/runtime"
	"slotting.dev/slotting/internal/tui"
	"slotting.dev/slotting/internal/utilization"
)

// ReportOptions contains options for the report command
type ReportOptions struct {
	ItemsPath      string
	ShelvesPath    string
	AssignmentPath string
}

// ReportAction prints shelf utilization for an assignment. Unlike check it
// does not enforce capacity or slot limits, so overfull shelves show up in
// the table instead of failing the command.
func ReportAction(ctx *runtime.Context, opts ReportOptions) error {
	p, _, err := loadProblem(ctx, opts.ItemsPath, opts.ShelvesPath)
	if err != nil {
		return err
	}

	pairs, err := records.ReadAssignment(opts.AssignmentPath)
	if err != nil {
		return fmt.Errorf("failed to read assignment: %w", err)
	}
	a, err := resolvePairs(p, pairs)
	if err != nil {
		return fmt.Errorf("failed to resolve assignment: %w", err)
	}
	if missing := len(a) - len(pairs); missing > 0 {
		ctx.Splog.Warn("%d items have no shelf in %s.", missing, opts.AssignmentPath)
	}

	usage := utilization.Aggregate(p, a)
	ctx.Splog.Page(tui.RenderUtilization(usage, utilization.Summarize(usage)))
	ctx.Splog.Newline()
	return nil
}
