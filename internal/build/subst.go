package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// maxSubstDepth bounds recursive expansion of variables referring to
// variables, which also stops self-referencing definitions.
const maxSubstDepth = 16

// Resolver computes the fields of a variable from the Environment each time
// a command line is rendered.
type Resolver func(env *Environment) []string

// SubstContext carries what a command line may refer to besides construction
// variables.
type SubstContext struct {
	Targets []*Node
	Sources []string

	// Resolvers are computed variables, looked up before construction
	// variables.
	Resolvers map[string]Resolver
}

// Subst expands $VAR and ${VAR} references in s with construction variables.
func (e *Environment) Subst(s string) (string, error) {
	return e.SubstWith(s, SubstContext{})
}

// SubstWith expands s like Subst, with the node being built in scope. The
// result is a single string: quotes in s are kept and nothing is split, which
// suits messages shown to the user.
func (e *Environment) SubstWith(s string, sc SubstContext) (string, error) {
	x := &expander{env: e, ctx: sc}
	out, err := x.expand(s)
	if err != nil {
		return "", fmt.Errorf("could not expand %q: %w", s, err)
	}
	return out, nil
}

// SubstList expands s as a command line and returns its fields.
//
// s is split into words before any expansion. A word made of a single
// variable reference yields the fields of that variable: list elements,
// resolver results and node paths are one field each, while a string
// variable is itself split into words. Any other word yields one field.
// Empty fields are dropped.
func (e *Environment) SubstList(s string, sc SubstContext) ([]string, error) {
	x := &expander{env: e, ctx: sc}
	fields, err := x.fields(s)
	if err != nil {
		return nil, fmt.Errorf("could not expand %q: %w", s, err)
	}
	return fields, nil
}

type expander struct {
	env   *Environment
	ctx   SubstContext
	depth int
	err   error
}

// expand renders s as a single string.
func (x *expander) expand(s string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	out, err := shell.Expand(s, x.lookup)
	if err != nil {
		return "", err
	}
	if x.err != nil {
		return "", x.err
	}
	return out, nil
}

// fields splits s into words and expands each of them.
func (x *expander) fields(s string) ([]string, error) {
	cfg := &expand.Config{Env: expand.FuncEnviron(x.lookup)}
	var fields []string
	for w, err := range syntax.NewParser().WordsSeq(strings.NewReader(s)) {
		if err != nil {
			return nil, err
		}

		if name, ok := paramName(s[w.Pos().Offset():w.End().Offset()]); ok {
			f, err := x.varFields(name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f...)
			continue
		}

		v, err := expand.Literal(cfg, w)
		if err != nil {
			return nil, err
		}
		if x.err != nil {
			return nil, x.err
		}
		if v != "" {
			fields = append(fields, v)
		}
	}
	return fields, nil
}

// varFields returns the fields a lone reference to name expands to.
func (x *expander) varFields(name string) ([]string, error) {
	if v, ok := x.special(name); ok {
		return nonEmpty(v), nil
	}
	if r, ok := x.ctx.Resolvers[name]; ok {
		return nonEmpty(r(x.env)), nil
	}

	v, _ := x.env.Get(name)
	raw, isString := v.(string)
	if !isString {
		var fields []string
		for _, elem := range x.env.Strings(name) {
			out, err := x.expand(elem)
			if err != nil {
				return nil, fmt.Errorf("could not expand $%s: %w", name, err)
			}
			if out != "" {
				fields = append(fields, out)
			}
		}
		return fields, nil
	}

	if err := x.enter(name); err != nil {
		return nil, err
	}
	defer x.leave()

	fields, err := x.fields(raw)
	if err != nil {
		return nil, fmt.Errorf("could not expand $%s: %w", name, err)
	}
	return fields, nil
}

func (x *expander) lookup(name string) string {
	if v, ok := x.special(name); ok {
		return joinFields(v)
	}
	if r, ok := x.ctx.Resolvers[name]; ok {
		return joinFields(r(x.env))
	}

	raw := x.env.String(name)
	if !strings.Contains(raw, "$") {
		return raw
	}

	if err := x.enter(name); err != nil {
		if x.err == nil {
			x.err = err
		}
		return ""
	}
	defer x.leave()

	out, err := shell.Expand(raw, x.lookup)
	if err != nil && x.err == nil {
		x.err = fmt.Errorf("could not expand $%s: %w", name, err)
	}
	return out
}

func (x *expander) enter(name string) error {
	if x.depth >= maxSubstDepth {
		return fmt.Errorf("recursive expansion of $%s exceeds %d levels", name, maxSubstDepth)
	}
	x.depth++
	return nil
}

func (x *expander) leave() {
	x.depth--
}

// special returns the values tied to the node being built.
func (x *expander) special(name string) ([]string, bool) {
	targets := x.ctx.Targets
	switch name {
	case "TARGET":
		if len(targets) == 0 {
			return nil, true
		}
		return []string{targets[0].Path}, true
	case "TARGETS":
		paths := make([]string, 0, len(targets))
		for _, t := range targets {
			paths = append(paths, t.Path)
		}
		return paths, true
	case "TARGET_FILEBASE":
		if len(targets) == 0 {
			return nil, true
		}
		return []string{targets[0].FileBase()}, true
	case "TARGET_DIR":
		if len(targets) == 0 {
			return nil, true
		}
		return []string{filepath.Dir(targets[0].Path)}, true
	case "SOURCE":
		if len(x.ctx.Sources) == 0 {
			return nil, true
		}
		return x.ctx.Sources[:1], true
	case "SOURCES":
		return x.ctx.Sources, true
	}
	return nil, false
}

// paramName returns the variable name when word is exactly $NAME or ${NAME}.
func paramName(word string) (string, bool) {
	name, ok := strings.CutPrefix(word, "$")
	if !ok {
		return "", false
	}
	if braced, ok := strings.CutPrefix(name, "{"); ok {
		if name, ok = strings.CutSuffix(braced, "}"); !ok {
			return "", false
		}
	}
	return name, syntax.ValidName(name)
}

// nonEmpty returns fields without its empty elements.
func nonEmpty(fields []string) []string {
	var kept []string
	for _, f := range fields {
		if f == "" {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// joinFields joins non-empty fields with a space.
func joinFields(fields []string) string {
	return strings.Join(nonEmpty(fields), " ")
}
