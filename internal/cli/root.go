// Package cli wires the slotting commands to cobra.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"slotting.dev/slotting/internal/config"
	"slotting.dev/slotting/internal/runtime"
	"slotting.dev/slotting/internal/tui"
)

const (
	// configKeyAnnotation ties a flag to the configuration key it overrides
	configKeyAnnotation = "slotting/config-key"
	// lenientConfigAnnotation lets a command run with an invalid config file,
	// so the file can still be inspected and repaired
	lenientConfigAnnotation = "slotting/lenient-config"
)

// bindConfigFlag marks a flag as overriding key once the config is loaded
func bindConfigFlag(cmd *cobra.Command, flag, key string) {
	_ = cmd.Flags().SetAnnotation(flag, configKeyAnnotation, []string{key})
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		configPath string
		debug      bool
		quiet      bool
	)

	rootCmd := &cobra.Command{
		Use:   "slotting",
		Short: "Place warehouse items on shelves to minimize walking distance",
		Long: `Slotting assigns every stocked item to one shelf so that frequently picked
items sit close to the picking origin, without overfilling a shelf or
exceeding its slot limit.

Items and shelves are read from .csv or .xlsx files. The assignment is
found by branch-and-bound over the linear relaxation and can be written as
csv, xlsx, json or yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd, configPath, debug, quiet)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if ctx, err := runtime.GetContext(cmd.Context()); err == nil {
				_ = ctx.Splog.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./slotting.yaml, then ~/.slotting/config.yaml)")
	flags.BoolVar(&debug, "debug", false, "print debug output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only print warnings and errors")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

// setupContext loads configuration, applies flag overrides and attaches the
// runtime context every command reads through helpers.Run
func setupContext(cmd *cobra.Command, configPath string, debug, quiet bool) error {
	mgr, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if bindErr != nil || len(keys) != 1 {
			return
		}
		bindErr = mgr.BindFlag(keys[0], f)
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := mgr.Config()
	if err != nil && cmd.Annotations[lenientConfigAnnotation] == "" {
		return err
	}

	opts := tui.LogOptions{Debug: debug}
	switch {
	case cfg == nil:
		opts.File = tui.GetLogFilePath()
	case cfg.Log.Enabled:
		opts.File = cfg.Log.File
		if opts.File == "" {
			opts.File = tui.GetLogFilePath()
		}
		opts.MaxSize = cfg.Log.MaxSize
		opts.MaxBackups = cfg.Log.MaxBackups
		opts.MaxAge = cfg.Log.MaxAge
	}
	splog, err := tui.NewSplogWithConfig(cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	splog.SetQuiet(quiet)

	ctx := runtime.NewContext(cmd.Context(), mgr, cfg, splog)
	cmd.SetContext(runtime.WithContext(cmd.Context(), ctx))
	ctx.Logger().Debug("command started", "command", cmd.CommandPath(), "config", mgr.Path())
	return nil
}
