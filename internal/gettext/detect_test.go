package gettext_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/gettext"
	"github.com/stretchr/testify/require"
)

func TestDetectMsginit(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Executable bits are not used on Windows")
	}

	testCases := map[string]struct {
		msginitVar    any
		executable    bool
		notExecutable bool

		want    string
		wantErr bool
	}{
		"MSGINIT is used as is":        {msginitVar: "/opt/gettext/bin/msginit", want: "/opt/gettext/bin/msginit"},
		"MSGINIT wins over PATH":       {msginitVar: "my-msginit", executable: true, want: "my-msginit"},
		"msginit is found in ENV PATH": {executable: true, want: "BINDIR/msginit"},

		"Error when msginit is not in PATH":    {wantErr: true},
		"Error when msginit is not executable": {notExecutable: true, wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			binDir := t.TempDir()
			if tc.executable || tc.notExecutable {
				perm := os.FileMode(0700)
				if tc.notExecutable {
					perm = 0600
				}
				require.NoError(t, os.WriteFile(filepath.Join(binDir, "msginit"), []byte("#!/bin/sh\n"), perm), "Setup: could not write fake msginit")
			}

			env := build.New(map[string]any{build.ExecEnvKey: map[string]string{"PATH": binDir}})
			if tc.msginitVar != nil {
				env.Set("MSGINIT", tc.msginitVar)
			}

			got, err := gettext.DetectMsginit(env)
			if tc.wantErr {
				require.ErrorIs(t, err, gettext.ErrMsginitNotFound, "DetectMsginit should fail")
				require.False(t, gettext.MsginitExists(env), "MsginitExists should be false")
				return
			}
			require.NoError(t, err, "DetectMsginit should not fail")
			require.True(t, gettext.MsginitExists(env), "MsginitExists should be true")

			want := tc.want
			if want == "BINDIR/msginit" {
				want = filepath.Join(binDir, "msginit")
			}
			require.Equal(t, want, got, "Unexpected msginit path")
		})
	}
}
