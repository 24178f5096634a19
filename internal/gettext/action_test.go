package gettext_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/gettext"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	calls [][]string
	envs  [][]string
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, argv []string, env []string) error {
	r.calls = append(r.calls, argv)
	r.envs = append(r.envs, env)
	return r.err
}

func newTestEnv(vars map[string]any) *build.Environment {
	env := build.New(map[string]any{
		"MSGINIT":        "msginit",
		"MSGINITCOM":     "$MSGINIT ${_FLAG} -l ${_MSGINITLOCALE} $MSGINITFLAGS -i $SOURCE -o $TARGET",
		"_MSGINITLOCALE": "${TARGET_FILEBASE}",
		"POSUFFIX":       ".po",
		"POTSUFFIX":      ".pot",
	})
	for k, v := range vars {
		env.Set(k, v)
	}
	return env
}

var flagResolvers = map[string]build.Resolver{
	"_FLAG": func(env *build.Environment) []string {
		if env.Bool("POAUTOINIT") {
			return []string{"--no-translator"}
		}
		return []string{""}
	},
}

//nolint:tparallel // Cannot run in parallel as the logrus hook is global.
func TestInitPOFiles(t *testing.T) {
	runErr := errors.New("msginit exited with status 1")

	testCases := map[string]struct {
		vars      map[string]any
		podir     string
		source    string
		existing  bool
		runnerErr error

		wantCalls   [][]string
		wantWarning bool
		wantErr     error
	}{
		"Runs msginit in auto-init mode": {
			vars:      map[string]any{"POAUTOINIT": true},
			wantCalls: [][]string{{"msginit", "--no-translator", "-l", "fr", "-i", "messages.pot", "-o", "PODIR/fr.po"}},
		},
		"Passes extra flags": {
			vars:      map[string]any{"POAUTOINIT": true, "MSGINITFLAGS": []string{"--width=80"}},
			wantCalls: [][]string{{"msginit", "--no-translator", "-l", "fr", "--width=80", "-i", "messages.pot", "-o", "PODIR/fr.po"}},
		},
		"Keeps paths with spaces as single arguments": {
			vars:      map[string]any{"POAUTOINIT": true},
			podir:     "my po",
			source:    "my po/app.pot",
			wantCalls: [][]string{{"msginit", "--no-translator", "-l", "fr", "-i", "my po/app.pot", "-o", "PODIR/fr.po"}},
		},
		"Only logs the command without auto-init": {wantWarning: true},
		"Skips existing catalogs":                 {vars: map[string]any{"POAUTOINIT": true}, existing: true},

		"Error is returned from the runner": {
			vars:      map[string]any{"POAUTOINIT": true},
			runnerErr: runErr,
			wantCalls: [][]string{{"msginit", "--no-translator", "-l", "fr", "-i", "messages.pot", "-o", "PODIR/fr.po"}},
			wantErr:   runErr,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			hook := test.NewGlobal()
			t.Cleanup(hook.Reset)
			log.SetLevel(log.InfoLevel)

			dir := filepath.Join(t.TempDir(), tc.podir)
			require.NoError(t, os.MkdirAll(dir, 0700), "Setup: could not create catalog directory")
			target := &build.Node{Path: filepath.Join(dir, "fr.po")}
			if tc.source == "" {
				tc.source = "messages.pot"
			}
			if tc.existing {
				require.NoError(t, os.WriteFile(target.Path, nil, 0600), "Setup: could not create existing catalog")
			}

			r := &recordingRunner{err: tc.runnerErr}
			action := gettext.InitPOFiles(r, flagResolvers)

			err := action(context.Background(), []*build.Node{target}, []string{tc.source}, newTestEnv(tc.vars))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr, "Action should return the runner error unchanged")
			} else {
				require.NoError(t, err, "Action should not fail")
			}

			for _, call := range tc.wantCalls {
				call[len(call)-1] = filepath.Join(dir, filepath.Base(call[len(call)-1]))
			}
			require.Equal(t, tc.wantCalls, r.calls, "Unexpected msginit calls")

			var warned bool
			for _, e := range hook.AllEntries() {
				if e.Level == log.WarnLevel {
					warned = true
					require.Contains(t, e.Message, "does not exist", "Warning should explain the catalog is missing")
					require.Contains(t, e.Message, "msginit -l fr -i messages.pot -o", "Warning should show the command to run")
				}
			}
			require.Equal(t, tc.wantWarning, warned, "Unexpected warning state")
		})
	}
}

//nolint:tparallel // Cannot run in parallel as the logrus hook is global.
func TestInitPOFilesCommandString(t *testing.T) {
	testCases := map[string]struct {
		comstr string

		wantMessage string
	}{
		"Message replaces the command line":   {comstr: "Initializing $TARGET", wantMessage: "Initializing TARGET"},
		"Message with an apostrophe":          {comstr: "Creating catalog's $TARGET", wantMessage: "Creating catalog's TARGET"},
		"Message with unbalanced parenthesis": {comstr: "Creating $TARGET_FILEBASE (from $SOURCE", wantMessage: "Creating de (from messages.pot"},
		"Command line without message":        {wantMessage: "msginit --no-translator -l de -i messages.pot -o TARGET"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			hook := test.NewGlobal()
			t.Cleanup(hook.Reset)
			log.SetLevel(log.InfoLevel)

			env := newTestEnv(map[string]any{"POAUTOINIT": true, "MSGINITCOMSTR": tc.comstr})
			env.MergeExecEnv(map[string]string{"LANG": "C"})
			target := &build.Node{Path: filepath.Join(t.TempDir(), "de.po")}

			r := &recordingRunner{}
			err := gettext.InitPOFiles(r, flagResolvers)(context.Background(), []*build.Node{target}, []string{"messages.pot"}, env)
			require.NoError(t, err, "Action should not fail")

			require.Len(t, r.calls, 1, "msginit should run once")
			require.Equal(t, [][]string{{"LANG=C"}}, r.envs, "Command should run with the execution environment")
			require.NotNil(t, hook.LastEntry(), "A message should be logged")
			want := strings.ReplaceAll(tc.wantMessage, "TARGET", target.Path)
			require.Equal(t, want, hook.LastEntry().Message, "Unexpected logged message")
		})
	}
}
