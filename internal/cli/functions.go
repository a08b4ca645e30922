package cli

import (
	"fmt"

	"github.com/javajack/xlspill"
	"github.com/spf13/cobra"
)

func newFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in formula functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib := xlspill.NewLibrary()
			out := cmd.OutOrStdout()
			for _, name := range lib.Names() {
				fn, _ := lib.Lookup(name)
				fmt.Fprintf(out, "%-12s %s\n", name, arity(fn))
			}
			return nil
		},
	}
}

func arity(fn *xlspill.Function) string {
	switch {
	case fn.MaxArgs == xlspill.Variadic:
		return fmt.Sprintf("%d+ args", fn.MinArgs)
	case fn.MinArgs == fn.MaxArgs:
		return fmt.Sprintf("%d args", fn.MinArgs)
	default:
		return fmt.Sprintf("%d-%d args", fn.MinArgs, fn.MaxArgs)
	}
}
