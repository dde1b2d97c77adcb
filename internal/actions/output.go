package actions

import (
	"errors"
	"fmt"
	"os"

	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/tui"
)

// ensureWritable refuses to replace an existing file unless force is set or
// the user confirms
func ensureWritable(path string, force bool) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if force {
		return nil
	}

	ok, err := tui.PromptConfirm(fmt.Sprintf("%s already exists. Overwrite?", path), false)
	if errors.Is(err, tui.ErrInteractiveDisabled) {
		return fmt.Errorf("%w: %s (use --force to replace it)", slotErrors.ErrOutputExists, path)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", slotErrors.ErrOutputExists, path)
	}
	return nil
}

// outputFormat picks the explicit format or infers it from the path
func outputFormat(path, explicit string) (records.Format, error) {
	if explicit != "" {
		return records.ParseFormat(explicit)
	}
	return records.FormatFromPath(path)
}
