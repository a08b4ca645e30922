package cli

import (
	"github.com/spf13/cobra"
)

func newApplyCommand() *cobra.Command {
	var edits []string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply edits to the input sheet and spill formula results",
		Long: `Evaluate the formulas already in the input sheet, then apply each edit
in row-major order. Formula edits start with "=". Array results spill
right and down from their cell when the footprint is empty.`,
		Example: `  xlspill apply -i data.csv --edit 'D1==FILTER(A1:A3,[true,false,true])' -o out.csv
  xlspill apply -i book.xlsx --sheet Sheet1 --edit B2=42 --operation-log ops.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			logger := loggerFrom(cmd)
			s, err := openSession(cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			outcomes, err := s.run(edits)
			if err != nil {
				return err
			}
			printOutcomes(cmd.OutOrStdout(), outcomes)

			if cfg.Output != "" {
				if err := s.save(cfg.Output); err != nil {
					return err
				}
				logger.Info("sheet written", "path", cfg.Output)
			}
			if cfg.OperationLog != "" {
				if err := s.writeLog(cfg.OperationLog); err != nil {
					return err
				}
				logger.Info("operation log written", "path", cfg.OperationLog, "events", s.log.Len())
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&edits, "edit", "e", nil, "edit as CELL=VALUE, repeatable")
	f.StringP("output", "o", "", "write the edited sheet (.csv, or .xlsx for workbook input)")
	f.String("operation-log", "", "write the event log as JSON")
	return cmd
}
