package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDescribeCommand() *cobra.Command {
	var edits []string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show formula bindings and spill ranges after applying edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cfg, loggerFrom(cmd))
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.run(edits); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, s.manager.Describe())
			issues := s.manager.Validate()
			if len(issues) == 0 {
				fmt.Fprintln(out, "No issues.")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&edits, "edit", "e", nil, "edit as CELL=VALUE, repeatable")
	return cmd
}
