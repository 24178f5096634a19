package testutils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeMsginit writes the output file named after -o, and records its
// arguments in the file named by $FAKE_MSGINIT_LOG when set.
const fakeMsginit = `#!/bin/sh
if [ -n "$FAKE_MSGINIT_LOG" ]; then
	echo "$@" >> "$FAKE_MSGINIT_LOG"
fi
if [ -n "$FAKE_MSGINIT_FAIL" ]; then
	echo "$FAKE_MSGINIT_FAIL" >&2
	exit 1
fi
while [ $# -gt 0 ]; do
	if [ "$1" = "-o" ]; then
		shift
		echo "# created by fake msginit" > "$1"
	fi
	shift
done
`

// FakeMsginit installs an executable msginit in a temporary directory and
// returns that directory. The test is skipped where POSIX shell scripts
// cannot be run.
func FakeMsginit(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Fake msginit is a shell script")
	}

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "msginit"), []byte(fakeMsginit), 0700) //nolint:gosec // Test executable.
	require.NoError(t, err, "Setup: could not write fake msginit")
	return dir
}
