package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/pkg/booklib"
)

// revision is the git revision, set by the build with -ldflags -X.
var revision string

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the booklib version",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "booklib v%s\nmodule: %s\n", booklib.Version, booklib.ModulePath)
			if revision != "" {
				fmt.Fprintf(out, "revision: %s\n", revision)
			}
			return nil
		},
	}
}
