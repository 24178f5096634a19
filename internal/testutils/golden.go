// Package testutils holds helpers shared by the tests of several packages.
package testutils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// UpdateGoldenFilesEnv is the environment variable telling tests to rewrite
// their golden files with the current results.
const UpdateGoldenFilesEnv = `TESTS_UPDATE_GOLDEN`

var update = os.Getenv(UpdateGoldenFilesEnv) != ""

type goldenOptions struct {
	path string
}

// GoldenOption changes where golden files are read from.
type GoldenOption func(*goldenOptions)

// WithGoldenPath reads the golden file at path instead of the default one.
func WithGoldenPath(path string) GoldenOption {
	return func(o *goldenOptions) {
		if path != "" {
			o.path = path
		}
	}
}

// LoadWithUpdateFromGolden returns the content of the golden file of the
// test, first writing got to it when updating is requested.
func LoadWithUpdateFromGolden(t *testing.T, got string, opts ...GoldenOption) string {
	t.Helper()

	o := goldenOptions{path: GoldenPath(t)}
	for _, f := range opts {
		f(&o)
	}

	if update {
		t.Logf("Updating golden file %s", o.path)
		require.NoError(t, os.MkdirAll(filepath.Dir(o.path), 0750), "Cannot create golden file directory")
		require.NoError(t, os.WriteFile(o.path, []byte(got), 0600), "Cannot write golden file")
	}

	want, err := os.ReadFile(o.path)
	require.NoError(t, err, "Cannot load golden file %s", o.path)

	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(string(want), "\r\n", "\n")
	}
	return string(want)
}

// LoadWithUpdateFromGoldenYAML is LoadWithUpdateFromGolden for values
// serialized as YAML.
func LoadWithUpdateFromGoldenYAML[T any](t *testing.T, got T, opts ...GoldenOption) T {
	t.Helper()

	data, err := yaml.Marshal(got)
	require.NoError(t, err, "Cannot serialize value for golden file")

	var want T
	err = yaml.Unmarshal([]byte(LoadWithUpdateFromGolden(t, string(data), opts...)), &want)
	require.NoError(t, err, "Cannot deserialize golden file")
	return want
}

// GoldenPath returns testdata/<Test>/golden/<subtest> for the running test.
func GoldenPath(t *testing.T) string {
	t.Helper()

	family, sub, found := strings.Cut(t.Name(), "/")
	path := filepath.Join("testdata", family, "golden")
	if found {
		path = filepath.Join(path, normalizeName(sub))
	}
	return path
}

// normalizeName turns a subtest name into a file name valid on every platform.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "_")
	name = strings.ReplaceAll(name, ":", "")
	return strings.ToLower(name)
}
