package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"slotting.dev/slotting/internal/cli/helpers"
	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set configuration",
		Long: `Get and set configuration values.

Values come from built-in defaults, the config file, SLOTTING_* environment
variables and command-line flags, later sources winning. The config file is
--config if given, ./slotting.yaml if it exists, and ~/.slotting/config.yaml
otherwise.

Examples:
  slotting config init
  slotting config get solver.slot_limit
  slotting config set solver.time_limit 10m
  slotting config set input.items.frequency "Picks (12 mo)"`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func lenient() map[string]string {
	return map[string]string{lenientConfigAnnotation: "true"}
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a configuration value",
		Args:              cobra.ExactArgs(1),
		Annotations:       lenient(),
		ValidArgsFunction: helpers.CompleteConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				value, err := ctx.Manager.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration value",
		Args:              cobra.ExactArgs(2),
		Annotations:       lenient(),
		ValidArgsFunction: helpers.CompleteConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				key, value := args[0], args[1]
				if err := ctx.Manager.Set(key, value); err != nil {
					return err
				}
				ctx.Logger().Info("config set", "key", key, "value", value, "path", ctx.Manager.Path())
				ctx.Splog.Info("Set %s to: %s", key, value)
				return nil
			})
		},
	}
}

// newConfigListCmd creates the config list command
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List every configuration key with its effective value",
		Args:        cobra.NoArgs,
		Annotations: lenient(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				for _, key := range config.Keys() {
					value, err := ctx.Manager.Get(key)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\n", key, value)
				}
				return nil
			})
		},
	}
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a config file holding every default",
		Args:        cobra.MaximumNArgs(1),
		Annotations: lenient(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				path := ctx.Manager.Path()
				if len(args) == 1 {
					path = args[0]
				}
				if err := config.Init(path, force); err != nil {
					return err
				}
				ctx.Splog.Info("Wrote default configuration to %s.", path)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing config file")
	return cmd
}

// newConfigPathCmd creates the config path command
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config file in use",
		Args:        cobra.NoArgs,
		Annotations: lenient(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				fmt.Fprintln(cmd.OutOrStdout(), ctx.Manager.Path())
				return nil
			})
		},
	}
}
