// Package cli provides the xlspill command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "xlspill",
		Short: "Evaluate spreadsheet formulas and spill array results",
		Long: `xlspill evaluates spreadsheet formulas against a CSV or xlsx sheet.

Array results spill into the neighbouring cells when they are empty and
report #SPILL! otherwise. Edits can be given as flags or in xlspill.yaml.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, used, err := LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if used != "" {
				logger.Debug("using config file", "path", used)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./xlspill.yaml)")
	pf.StringP("input", "i", "", "input sheet (.csv or .xlsx)")
	pf.String("sheet", "", "worksheet name for xlsx input (default: active sheet)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.Int("preview-rows", 0, "default SHOWDATA row limit")

	rootCmd.AddCommand(newEvalCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newDescribeCommand())
	rootCmd.AddCommand(newFunctionsCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func configFrom(cmd *cobra.Command) (*Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

func loggerFrom(cmd *cobra.Command) *slog.Logger {
	if l, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
