package actions

import (
	"fmt"

	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/runtime"
	"slotting.dev/slotting/internal/tui"
	"slotting.dev/slotting/internal/utilization"
	"slotting.dev/slotting/internal/validate"
)

// CheckOptions contains options for the check command
type CheckOptions struct {
	ItemsPath      string
	ShelvesPath    string
	AssignmentPath string
}

// CheckAction validates an existing assignment against the records and
// prints its objective and utilization. Any violated invariant is returned
// as an error matching errors.ErrValidationFailed.
func CheckAction(ctx *runtime.Context, opts CheckOptions) error {
	p, dropped, err := loadProblem(ctx, opts.ItemsPath, opts.ShelvesPath)
	if err != nil {
		return err
	}

	pairs, err := records.ReadAssignment(opts.AssignmentPath)
	if err != nil {
		return fmt.Errorf("failed to read assignment: %w", err)
	}

	a, objective, err := validate.Pairs(p, pairs)
	if err != nil {
		ctx.Logger().Info("assignment rejected", "path", opts.AssignmentPath, "error", err)
		return err
	}
	ctx.Logger().Info("assignment valid", "path", opts.AssignmentPath, "objective", objective)

	usage := utilization.Aggregate(p, a)
	ctx.Splog.Page(tui.RenderResult(tui.ResultSummary{
		Status:    "valid",
		Objective: objective,
		Dropped:   len(dropped),
	}))
	ctx.Splog.Newline()
	ctx.Splog.Page(tui.RenderUtilization(usage, utilization.Summarize(usage)))
	ctx.Splog.Newline()
	return nil
}
