package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/backend"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newMigrateCmd(a *app) *cobra.Command {
	var to string
	var force bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all collections to another backend",
		Long: `Migrate copies the library and reservations collections from the configured
backend into the backend named by --to, replacing what the target holds.
The target uses the same data directory and connection settings.
Migrate refuses to empty a target collection that holds records unless
--force is given.

Example:
  booklib migrate --to sqlite
  booklib --backend sqlite migrate --to json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return userError(types.MsgFillField)
			}
			if to == a.config.Backend {
				return userErrorf("source and target backend are both %q", to)
			}
			target := a.config
			target.Backend = to
			if err := target.Validate(); err != nil {
				return userErrorf("invalid target: %w", err)
			}

			src, err := backend.Open(a.config, a.logger)
			if err != nil {
				return sysErrorf("open source storage: %w", err)
			}
			defer src.Detach()
			dst, err := backend.Open(target, a.logger)
			if err != nil {
				return sysErrorf("open target storage: %w", err)
			}
			defer dst.Detach()

			counts, err := backend.Copy(src, dst, force, a.logger)
			if errors.Is(err, types.ErrWouldEraseTarget) {
				return userErrorf("migrate: %w (use --force to overwrite)", err)
			}
			if err != nil {
				return sysErrorf("migrate: %w", err)
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), counts)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d books and %d reservations from %s to %s\n",
				counts[types.CollectionLibrary], counts[types.CollectionReservations], a.config.Backend, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target backend")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite target collections even when the source is empty")
	return cmd
}
