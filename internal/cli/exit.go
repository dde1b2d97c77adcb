package cli

import (
	"errors"

	slotErrors "slotting.dev/slotting/internal/errors"
)

// Exit codes
const (
	ExitOK       = 0
	ExitError    = 1
	ExitTimedOut = 2
)

// ExitCode maps a command error to the process exit status. A solve stopped
// by a limit has still written its best assignment, so it gets its own code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, slotErrors.ErrTimedOut):
		return ExitTimedOut
	default:
		return ExitError
	}
}
