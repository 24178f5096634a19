package msginit

import "github.com/canonical/pobuild/internal/build"

// noTranslatorFlag keeps msginit from prompting for translator details.
const noTranslatorFlag = "--no-translator"

// NoTranslatorFlag returns the msginit option matching $POAUTOINIT. It yields
// a single empty field when auto-init is off, which renders to nothing in a
// command line. $POAUTOINIT is read on every call.
func NoTranslatorFlag(env *build.Environment) []string {
	if env.Bool(AutoInitKey) {
		return []string{noTranslatorFlag}
	}
	return []string{""}
}
