// Package cli implements the booklib command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/booklib/internal/backend"
	"github.com/mesh-intelligence/booklib/internal/library"
	"github.com/mesh-intelligence/booklib/internal/logging"
	"github.com/mesh-intelligence/booklib/internal/paths"
	"github.com/mesh-intelligence/booklib/pkg/booklib"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state of one CLI invocation. PersistentPreRunE fills it in
// before any subcommand runs.
type app struct {
	flags     rootFlags
	configDir string
	settings  *viper.Viper
	config    types.Config
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "booklib" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "booklib",
		Short: "A small library's book catalog and reservation ledger",
		Long: "booklib registers books, lists and filters the catalog, and records\n" +
			"reservations. Data is kept as whole record collections in the\n" +
			"configured backend (" + strings.Join(backend.Names, ", ") + ").",
		Version:           booklib.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: "+strings.Join(backend.Names, ", "))
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newOptionsCmd(a))
	root.AddCommand(newFieldsCmd(a))
	root.AddCommand(newTakeCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newReservationsCmd(a))
	root.AddCommand(newMigrateCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// setup resolves directories, loads config.yaml and builds the logger.
// Flags take precedence over the config file and the environment.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}
	settings, err := loadConfig(configDir)
	if err != nil {
		return sysErrorf("load config: %w", err)
	}
	if a.flags.backend != "" {
		settings.Set(cfgKeyBackend, a.flags.backend)
	}
	if a.flags.logLevel != "" {
		settings.Set(cfgKeyLogLevel, a.flags.logLevel)
	}

	level, err := logging.ParseLevel(settings.GetString(cfgKeyLogLevel))
	if err != nil {
		return userErrorf("%w", err)
	}
	opID, err := uuid.NewV7()
	if err != nil {
		return sysErrorf("generate operation id: %w", err)
	}
	a.logger = logging.New(cmd.ErrOrStderr(), level, a.flags.jsonMode).
		With(logging.AttrOpID, opID.String())

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, settings.GetString(cfgKeyDataDir))
	if err != nil {
		return sysErrorf("resolve data dir: %w", err)
	}

	a.configDir = configDir
	a.settings = settings
	a.config = storageConfig(settings, dataDir)
	if err := a.config.Validate(); err != nil {
		return userErrorf("invalid configuration: %w", err)
	}
	a.logger.Debug("configuration loaded",
		logging.AttrBackend, a.config.Backend,
		logging.AttrPath, dataDir)
	return nil
}

// libraryRunE adapts run into a cobra RunE that attaches the configured
// backend for the duration of the command.
func (a *app) libraryRunE(run func(cmd *cobra.Command, args []string, lib *library.Library) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		store, err := backend.Open(a.config, a.logger)
		if err != nil {
			return sysErrorf("open storage: %w", err)
		}
		defer func() {
			if derr := store.Detach(); derr != nil && err == nil {
				err = sysErrorf("close storage: %w", derr)
			}
		}()
		return run(cmd, args, library.New(store, a.logger))
	}
}
