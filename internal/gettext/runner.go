package gettext

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
	"mvdan.cc/sh/v3/syntax"
)

// Runner runs a rendered command line.
type Runner interface {
	// Run executes argv with env as its whole environment. A nil env
	// inherits the environment of the current process.
	Run(ctx context.Context, argv []string, env []string) error
}

// ExecRunner runs commands as subprocesses.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, argv []string, env []string) error {
	if len(argv) == 0 {
		return errors.New("empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if env != nil {
		cmd.Env = env
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w.\nCommand output: %s", argv[0], err, out)
	}
	if len(out) > 0 {
		log.Debugf("%s: %s", argv[0], out)
	}
	return nil
}

// FormatCommand renders argv as a shell command line a user can paste.
// Arguments which would be split or unquoted by a shell are quoted.
func FormatCommand(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		if arg != "" && !strings.ContainsAny(arg, " \t\n'\"\\$`") {
			quoted = append(quoted, arg)
			continue
		}
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			q = arg
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}
