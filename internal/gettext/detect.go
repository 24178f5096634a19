// Package gettext holds the pieces shared by gettext tools: executable
// detection, catalog builders and their actions.
package gettext

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/canonical/pobuild/internal/build"
)

// ErrMsginitNotFound is returned when msginit is neither configured nor in the PATH.
var ErrMsginitNotFound = errors.New("could not find msginit")

// DetectMsginit returns $MSGINIT when set, or the path of msginit found in
// the execution PATH of env.
func DetectMsginit(env *build.Environment) (string, error) {
	if env.Has("MSGINIT") {
		return env.String("MSGINIT"), nil
	}
	if p, ok := detect(env, "msginit"); ok {
		return p, nil
	}
	return "", ErrMsginitNotFound
}

// MsginitExists reports whether DetectMsginit succeeds.
func MsginitExists(env *build.Environment) bool {
	_, err := DetectMsginit(env)
	return err == nil
}

// detect looks prog up in ENV["PATH"], falling back to the process PATH.
func detect(env *build.Environment, prog string) (string, bool) {
	path, ok := env.LookupExecEnv("PATH")
	if !ok {
		path = os.Getenv("PATH")
	}
	if runtime.GOOS == "windows" {
		prog += ".exe"
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		p := filepath.Join(dir, prog)
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && fi.Mode()&0111 == 0 {
			continue
		}
		return p, true
	}
	return "", false
}
