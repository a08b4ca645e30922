package cli

import (
	"fmt"
	"strings"

	"github.com/javajack/xlspill"
	"github.com/spf13/cobra"
)

func newEvalCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "eval FORMULA",
		Short: "Evaluate one formula against the input sheet",
		Long: `Evaluate a formula against the input sheet without modifying it.

Scalar results print on one line, arrays print one row per line with cells
separated by " | ", and errors print their token.`,
		Example: `  xlspill eval -i roster.csv '=FILTER(A:E,"佐藤",B:B)'
  xlspill eval '=DATEDIF("2020-01-15","2024-03-01","Y")'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			ref, err := xlspill.ParseCellRef(strings.ToUpper(at))
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			s, err := openSession(cfg, loggerFrom(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			res := s.manager.Engine().Evaluate(args[0], s.sheet.Snapshot(), ref.Row, ref.Col)
			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "A1", "cell the formula is evaluated at")
	return cmd
}

func printResult(cmd *cobra.Command, res xlspill.Result) {
	out := cmd.OutOrStdout()
	switch res.Kind {
	case xlspill.ResultArray:
		for _, row := range res.Array {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = xlspill.FormatValue(v)
			}
			fmt.Fprintln(out, strings.Join(cells, " | "))
		}
	case xlspill.ResultError:
		fmt.Fprintln(out, res.Token())
		if res.Message != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
		}
	default:
		fmt.Fprintln(out, xlspill.FormatValue(res.Value))
	}
}
