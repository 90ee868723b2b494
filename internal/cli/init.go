package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/booklib/internal/backend"
	"github.com/mesh-intelligence/booklib/internal/logging"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize booklib storage",
		Long:  "Create the configuration directory and config.yaml, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysErrorf("create config directory: %w", err)
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, a.config, a.settings.GetString(cfgKeyLogLevel))
	if err != nil {
		return sysErrorf("write config: %w", err)
	}
	if written {
		a.logger.Info("config written", logging.AttrPath, configPath)
	}

	// Attaching creates the data directory and empty collections.
	store, err := backend.Open(a.config, a.logger)
	if err != nil {
		return sysErrorf("initialize storage: %w", err)
	}
	if err := store.Detach(); err != nil {
		return sysErrorf("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "booklib initialized (backend: %s)\n", a.config.Backend)
	return nil
}
