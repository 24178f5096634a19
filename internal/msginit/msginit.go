// Package msginit configures a build environment to create translation
// catalogs from a template with msginit(1).
//
// Generate installs the defaults below (without overwriting values already
// set), registers the _POInitBuilder builder and declares the always-built
// alias $POCREATE_ALIAS. Tool.POInit is the entry point for callers:
//
//	tool, err := msginit.Generate(env)
//	nodes, err := tool.POInit([]string{"fr", "de"})
//	err = env.BuildAlias(ctx, "po-create")
package msginit

import (
	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/gettext"
	"github.com/ubuntu/decorate"
)

// Construction variables read or set by the tool.
const (
	// AutoInitKey selects non-interactive initialization.
	AutoInitKey = "POAUTOINIT"
	// DomainKey is the domain used as source when none is given.
	DomainKey = "POTDOMAIN"
	// FlagsKey lists extra msginit flags.
	FlagsKey = "MSGINITFLAGS"
	// AliasKey is the name of the alias collecting catalogs to create.
	AliasKey = "POCREATE_ALIAS"

	// BuilderName is the name of the builder POInit delegates to.
	BuilderName = "_POInitBuilder"
)

const (
	// DefaultDomain is the domain when neither the call nor the environment set one.
	DefaultDomain = "messages"
	// DefaultAlias is the default value of $POCREATE_ALIAS.
	DefaultAlias = "po-create"

	// noTranslatorVar is the command line variable bound to NoTranslatorFlag.
	noTranslatorVar = "_MSGNOTRANSLATOR"

	msginitCom = "$MSGINIT ${" + noTranslatorVar + "} -l ${_MSGINITLOCALE} $MSGINITFLAGS -i $SOURCE -o $TARGET"
)

// Defaults returns the construction variables installed by Generate.
func Defaults() map[string]any {
	return map[string]any{
		"POSUFFIX":       []string{".po"},
		"POTSUFFIX":      []string{".pot"},
		"_MSGINITLOCALE": "${TARGET_FILEBASE}",
		"MSGINITCOM":     msginitCom,
		"MSGINITCOMSTR":  "",
		FlagsKey:         []string{},
		AutoInitKey:      false,
		AliasKey:         DefaultAlias,
	}
}

// Resolvers returns the computed variables $MSGINITCOM refers to.
func Resolvers() map[string]build.Resolver {
	return map[string]build.Resolver{
		noTranslatorVar: NoTranslatorFlag,
	}
}

type options struct {
	runner gettext.Runner
}

// Option changes how the tool is generated.
type Option func(*options)

// WithRunner sets how msginit is run. Default is gettext.ExecRunner.
func WithRunner(r gettext.Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

// Generate configures env for msginit and returns the tool bound to it.
// It fails with gettext.ErrMsginitNotFound when msginit cannot be located.
// Calling it again keeps every value changed since the previous call.
func Generate(env *build.Environment, args ...Option) (t *Tool, err error) {
	defer decorate.OnError(&err, "could not set up msginit")

	opts := options{
		runner: gettext.ExecRunner{},
	}
	for _, f := range args {
		f(&opts)
	}

	msginit, err := gettext.DetectMsginit(env)
	if err != nil {
		return nil, err
	}
	env.Set("MSGINIT", msginit)
	env.SetDefault(Defaults())

	env.AddBuilder(BuilderName, NewBuilder(gettext.InitPOFiles(opts.runner, Resolvers())))

	alias, err := env.Subst("$" + AliasKey)
	if err != nil {
		return nil, err
	}
	env.Alias(alias).AlwaysBuild()

	return newTool(env), nil
}

// Exists reports whether msginit can be found for env.
func Exists(env *build.Environment) bool {
	return gettext.MsginitExists(env)
}
