// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"strings"

	"github.com/spf13/cobra"

	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/records"
)

// CompleteConfigKeys is a cobra.ValidArgsFunction returning configuration keys
func CompleteConfigKeys(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var keys []string
	for _, key := range config.Keys() {
		if strings.HasPrefix(key, toComplete) {
			keys = append(keys, key)
		}
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}

// RecordFileFlag marks a flag as taking a record file
func RecordFileFlag(cmd *cobra.Command, name string) {
	_ = cmd.MarkFlagFilename(name, "csv", "xlsx")
}

// AssignmentFileFlag marks a flag as taking an assignment file in any supported format
func AssignmentFileFlag(cmd *cobra.Command, name string) {
	exts := make([]string, 0, len(records.Formats)+1)
	for _, f := range records.Formats {
		exts = append(exts, string(f))
	}
	exts = append(exts, "yml")
	_ = cmd.MarkFlagFilename(name, exts...)
}

// CompleteFormats completes the --format flag
func CompleteFormats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(records.Formats))
	for i, f := range records.Formats {
		out[i] = string(f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
