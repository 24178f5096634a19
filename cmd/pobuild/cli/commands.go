package cli

import (
	"context"
	"fmt"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/gettext"
	"github.com/canonical/pobuild/internal/i18n"
	"github.com/canonical/pobuild/internal/msginit"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type buildFlags struct {
	auto   bool
	dryRun bool
}

func installBuildFlags(cmd *cobra.Command) *buildFlags {
	f := &buildFlags{}
	cmd.Flags().BoolVar(&f.auto, "auto", false, i18n.G("create catalogs without asking for translator details"))
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, i18n.G("print msginit command lines instead of running them"))
	return f
}

// options returns the POInit options matching the flags.
func (f buildFlags) options() []msginit.InitOption {
	if !f.auto {
		return nil
	}
	return []msginit.InitOption{msginit.WithOverrides(build.Overrides{msginit.AutoInitKey: true})}
}

func (a *App) installInit() {
	var source []string
	var domain string

	cmd := &cobra.Command{
		Use:   "init LOCALE...",
		Short: i18n.G("Create the catalogs of the given locales"),
		Long: i18n.G(`Create the catalogs of the given locales from a template.

Without --source, the template is named after the domain: --domain, then
POTDOMAIN, then "messages". Existing catalogs are left untouched.`),
		Args: cobra.MinimumNArgs(1),
	}
	cmd.Flags().StringSliceVar(&source, "source", nil, i18n.G("template to create the catalogs from"))
	cmd.Flags().StringVar(&domain, "domain", "", i18n.G("translation domain naming the template"))
	flags := installBuildFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := flags.options()
		if cmd.Flags().Changed("source") {
			opts = append(opts, msginit.WithSource(source...))
		}
		if domain != "" {
			opts = append(opts, msginit.WithDomain(domain))
		}

		tool, _, err := a.setupMsginit(flags.dryRun)
		if err != nil {
			return err
		}

		nodes, err := tool.POInit(args, opts...)
		if err != nil {
			return err
		}
		return build.BuildNodes(a.ctx, nodes...)
	}

	a.rootCmd.AddCommand(cmd)
}

func (a *App) installPOCreate() {
	cmd := &cobra.Command{
		Use:   msginit.DefaultAlias,
		Short: i18n.G("Create the catalogs of every configured locale"),
		Long: i18n.G(`Create the catalogs of the locales listed in the linguas configuration
key and in LINGUAS_FILE, then build the $POCREATE_ALIAS alias.`),
		Args: cobra.NoArgs,
	}
	flags := installBuildFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		tool, env, err := a.setupMsginit(flags.dryRun)
		if err != nil {
			return err
		}

		if len(a.config.Linguas) == 0 && !env.Has("LINGUAS_FILE") {
			log.Warning(i18n.G("No locale configured: set linguas or LINGUAS_FILE"))
		} else if _, err := tool.POInit(a.config.Linguas, flags.options()...); err != nil {
			return err
		}

		alias, err := env.Subst("$" + msginit.AliasKey)
		if err != nil {
			return err
		}
		return env.BuildAlias(a.ctx, alias)
	}

	a.rootCmd.AddCommand(cmd)
}

// setupMsginit returns the msginit tool bound to the configured environment.
// In dry-run mode command lines are printed and msginit does not need to be
// installed.
func (a *App) setupMsginit(dryRun bool) (*msginit.Tool, *build.Environment, error) {
	env, err := a.newEnvironment()
	if err != nil {
		return nil, nil, err
	}

	runner := a.runner
	if dryRun {
		runner = printRunner{}
		if !msginit.Exists(env) {
			env.Set("MSGINIT", "msginit")
		}
	}

	tool, err := msginit.Generate(env, msginit.WithRunner(runner))
	if err != nil {
		return nil, nil, err
	}
	return tool, env, nil
}

// printRunner prints command lines on stdout instead of running them.
type printRunner struct{}

var _ gettext.Runner = printRunner{}

func (printRunner) Run(_ context.Context, argv []string, _ []string) error {
	fmt.Println(gettext.FormatCommand(argv))
	return nil
}
