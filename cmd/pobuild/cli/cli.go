// Package cli represents the command line interface of pobuild.
package cli

import (
	"context"
	"fmt"

	"github.com/canonical/pobuild/internal/consts"
	"github.com/canonical/pobuild/internal/gettext"
	"github.com/canonical/pobuild/internal/i18n"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cmdName is the binary name.
const cmdName = "pobuild"

// App encapsulate commands and options of pobuild, which can be controlled by env variables and config files.
type App struct {
	rootCmd cobra.Command
	viper   *viper.Viper
	config  appConfig

	runner gettext.Runner

	ctx    context.Context
	cancel context.CancelFunc
}

// appConfig is the configuration of pobuild. Vars are construction variables
// applied before msginit is set up and Linguas the locales of po-create.
type appConfig struct {
	Verbosity int
	Vars      map[string]any
	Linguas   []string
	EnvFile   string `mapstructure:"env-file"`
}

type options struct {
	runner gettext.Runner
}

type option func(*options)

// New registers commands and return a new App.
func New(args ...option) *App {
	opts := options{
		runner: gettext.ExecRunner{},
	}
	for _, f := range args {
		f(&opts)
	}

	a := App{runner: opts.runner}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.rootCmd = cobra.Command{
		Use:   fmt.Sprintf("%s COMMAND", cmdName),
		Short: i18n.G("Translation catalog initializer"),
		Long:  i18n.G("pobuild creates gettext translation catalogs from a template with msginit."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Force a visit of the local flags so persistent flags for all parents are merged.
			cmd.LocalFlags()

			// command parsing has been successful. Returns to not print usage anymore.
			a.rootCmd.SilenceUsage = true

			if err := initViperConfig(cmdName, &a.rootCmd, a.viper); err != nil {
				return err
			}

			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}

			setVerboseMode(a.config.Verbosity)
			log.Debugf("Debug mode is enabled, running %s version %s", cmdName, consts.Version)

			return nil
		},
		// We display usage error ourselves
		SilenceErrors: true,
	}
	a.viper = viper.New()
	// Keys must be known to viper for POBUILD_* variables to be unmarshalled.
	a.viper.SetDefault("linguas", []string{})
	a.viper.SetDefault("env-file", "")

	installVerbosityFlag(&a.rootCmd, a.viper)
	installConfigFlag(&a.rootCmd)

	// subcommands
	a.installInit()
	a.installPOCreate()
	a.installVersion()

	return &a
}

// Run executes the command and associated process. It returns an error on syntax/usage error.
func (a *App) Run() error {
	return a.rootCmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a *App) UsageError() bool {
	return !a.rootCmd.SilenceUsage
}

// Quit cancels any msginit run in progress. It can be called several times.
func (a *App) Quit() {
	a.cancel()
}

// RootCmd returns a copy of the root command for the app. Shouldn't be in general necessary apart when running generators.
func (a *App) RootCmd() cobra.Command {
	return a.rootCmd
}

// SetArgs changes the root command args. Shouldn't be in general necessary apart for tests.
func (a *App) SetArgs(args ...string) {
	a.rootCmd.SetArgs(args)
}

// Config returns the appConfig for test purposes.
//
//nolint:revive
func (a *App) Config() appConfig {
	return a.config
}
