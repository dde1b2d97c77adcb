package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the slotting version",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			lenientConfigAnnotation: "true",
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "slotting %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
