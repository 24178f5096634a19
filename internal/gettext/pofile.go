package gettext

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/canonical/pobuild/internal/build"
	log "github.com/sirupsen/logrus"
	"github.com/ubuntu/decorate"
)

// DefaultLinguasFile is read when LINGUAS_FILE is true.
const DefaultLinguasFile = "LINGUAS"

// NewPOFileBuilder returns a builder producing $POSUFFIX catalogs, each from
// a single $POTSUFFIX template, with targets extended by the languages listed
// in $LINGUAS_FILE. Nodes join targetAlias when it is not empty.
func NewPOFileBuilder(action build.Action, targetAlias string) *build.Builder {
	opts := []build.BuilderOption{
		build.WithSuffix("$POSUFFIX"),
		build.WithSrcSuffix("$POTSUFFIX"),
		build.WithSingleSource(),
		build.WithEmitter(linguasEmitter),
	}
	if targetAlias != "" {
		opts = append(opts, build.WithTargetAlias(targetAlias))
	}
	return build.NewBuilder(action, opts...)
}

func linguasEmitter(targets, sources []string, env *build.Environment) ([]string, []string, error) {
	files := linguasFiles(env)
	if len(files) == 0 {
		return targets, sources, nil
	}

	linguas, err := ReadLinguas(files...)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("Languages from %v: %v", files, linguas)

	return append(slices.Clone(targets), linguas...), sources, nil
}

// linguasFiles interprets LINGUAS_FILE: true means DefaultLinguasFile, a
// string or a list name files.
func linguasFiles(env *build.Environment) []string {
	v, ok := env.Get("LINGUAS_FILE")
	if !ok || v == nil {
		return nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return []string{DefaultLinguasFile}
		}
		return nil
	}
	return env.Strings("LINGUAS_FILE")
}

// ReadLinguas returns the languages listed in files. Languages are separated
// by white space and anything after # on a line is a comment.
func ReadLinguas(files ...string) (linguas []string, err error) {
	defer decorate.OnError(&err, "could not read languages")

	for _, path := range files {
		l, err := readLinguasFile(path)
		if err != nil {
			return nil, err
		}
		linguas = append(linguas, l...)
	}
	return linguas, nil
}

func readLinguasFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var linguas []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		linguas = append(linguas, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error while reading %q: %v", path, err)
	}
	return linguas, nil
}
