package gettext

import (
	"context"
	"strings"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// InitPOFiles returns the action creating catalogs which do not exist yet.
//
// When $POAUTOINIT is true, $MSGINITCOM is rendered with resolvers and run.
// Otherwise the command a translator would run is logged and the target is
// left alone. Existing targets are never touched.
func InitPOFiles(runner Runner, resolvers map[string]build.Resolver) build.Action {
	return func(ctx context.Context, targets []*build.Node, sources []string, env *build.Environment) error {
		autoinit := env.Bool("POAUTOINIT")

		for _, tgt := range targets {
			if tgt.Exists() {
				log.Debugf("Skipping %q as it already exists", tgt)
				continue
			}

			sc := build.SubstContext{
				Targets:   []*build.Node{tgt},
				Sources:   sources,
				Resolvers: resolvers,
			}
			argv, err := env.SubstList("$MSGINITCOM", sc)
			if err != nil {
				return err
			}

			if !autoinit {
				log.Warningf(i18n.G("File %q does not exist. If you are a translator, you can create it through: \n%s"),
					tgt.Path, FormatCommand(argv))
				continue
			}

			checkLocale(env, sc)

			if err := logCommand(env, sc, argv); err != nil {
				return err
			}
			if err := runner.Run(ctx, argv, env.ExecEnv()); err != nil {
				return err
			}
		}

		return nil
	}
}

// logCommand prints $MSGINITCOMSTR when set, the command line otherwise.
func logCommand(env *build.Environment, sc build.SubstContext, argv []string) error {
	msg, err := env.SubstWith(env.String("MSGINITCOMSTR"), sc)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = FormatCommand(argv)
	}
	log.Info(msg)
	return nil
}

// checkLocale warns when the locale passed to msginit does not look like a
// language name, which usually means the target was misnamed.
func checkLocale(env *build.Environment, sc build.SubstContext) {
	fields, err := env.SubstList("${_MSGINITLOCALE}", sc)
	if err != nil || len(fields) == 0 {
		return
	}
	locale := fields[0]

	tag, _, _ := strings.Cut(locale, ".")
	tag, _, _ = strings.Cut(tag, "@")
	if _, err := language.Parse(strings.ReplaceAll(tag, "_", "-")); err != nil {
		log.Warningf(i18n.G("%q does not look like a locale name: %v"), locale, err)
	}
}
