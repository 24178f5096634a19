package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ubuntu/decorate"
)

var (
	// ErrSingleSource is returned when a single-source builder gets several
	// sources that cannot be paired with its targets.
	ErrSingleSource = errors.New("more than one source given for single-source builder")

	// ErrNoTarget is returned when a builder call has neither targets nor
	// sources to derive them from.
	ErrNoTarget = errors.New("no target and no source to derive it from")
)

// Emitter may extend or rewrite the targets and sources of a builder call
// before nodes are created.
type Emitter func(targets, sources []string, env *Environment) ([]string, []string, error)

// Builder describes how to produce nodes. It is not modified after NewBuilder.
type Builder struct {
	action       Action
	suffix       string
	srcSuffix    string
	singleSource bool
	targetAlias  string
	emitter      Emitter
}

type builderOptions struct {
	suffix       string
	srcSuffix    string
	singleSource bool
	targetAlias  string
	emitter      Emitter
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

// WithSuffix sets the suffix given to targets without an extension. It may
// refer to construction variables.
func WithSuffix(suffix string) BuilderOption {
	return func(o *builderOptions) {
		o.suffix = suffix
	}
}

// WithSrcSuffix sets the suffix given to sources without an extension. It may
// refer to construction variables.
func WithSrcSuffix(suffix string) BuilderOption {
	return func(o *builderOptions) {
		o.srcSuffix = suffix
	}
}

// WithSingleSource makes every target built from exactly one source.
func WithSingleSource() BuilderOption {
	return func(o *builderOptions) {
		o.singleSource = true
	}
}

// WithTargetAlias adds every node created by the builder to the named alias.
// The name may refer to construction variables and is expanded per call.
func WithTargetAlias(alias string) BuilderOption {
	return func(o *builderOptions) {
		o.targetAlias = alias
	}
}

// WithEmitter installs an emitter run before nodes are created.
func WithEmitter(e Emitter) BuilderOption {
	return func(o *builderOptions) {
		o.emitter = e
	}
}

// NewBuilder returns a Builder running action.
func NewBuilder(action Action, opts ...BuilderOption) *Builder {
	var o builderOptions
	for _, f := range opts {
		f(&o)
	}

	return &Builder{
		action:       action,
		suffix:       o.suffix,
		srcSuffix:    o.srcSuffix,
		singleSource: o.singleSource,
		targetAlias:  o.targetAlias,
		emitter:      o.emitter,
	}
}

// Action returns the action of the builder.
func (b *Builder) Action() Action {
	return b.action
}

// TargetAlias returns the unexpanded alias name, empty if there is none.
func (b *Builder) TargetAlias() string {
	return b.targetAlias
}

// Suffix returns the unexpanded target suffix.
func (b *Builder) Suffix() string {
	return b.suffix
}

// SrcSuffix returns the unexpanded source suffix.
func (b *Builder) SrcSuffix() string {
	return b.srcSuffix
}

// Execute creates the nodes for a builder call. Overrides apply to the
// nodes only and the Environment read by their action stays live.
func (b *Builder) Execute(env *Environment, targets, sources []string, overrides Overrides) (nodes []*Node, err error) {
	defer decorate.OnError(&err, "could not create nodes for %v", targets)

	callEnv := env.Override(overrides)

	if b.emitter != nil {
		if targets, sources, err = b.emitter(targets, sources, callEnv); err != nil {
			return nil, err
		}
	}

	suffix, err := callEnv.Subst(b.suffix)
	if err != nil {
		return nil, err
	}
	srcSuffix, err := callEnv.Subst(b.srcSuffix)
	if err != nil {
		return nil, err
	}

	srcs := make([]string, 0, len(sources))
	for _, s := range sources {
		srcs = append(srcs, adjustSuffix(s, srcSuffix))
	}

	if len(targets) == 0 {
		if len(srcs) == 0 {
			return nil, ErrNoTarget
		}
		for _, s := range srcs {
			targets = append(targets, strings.TrimSuffix(s, filepath.Ext(s)))
		}
	}

	if b.singleSource && len(srcs) > 1 && len(srcs) != len(targets) {
		return nil, fmt.Errorf("%w: %d sources for %d targets", ErrSingleSource, len(srcs), len(targets))
	}

	for i, t := range targets {
		n := &Node{
			Path:    adjustSuffix(t, suffix),
			builder: b,
			env:     callEnv,
		}
		switch {
		case !b.singleSource:
			n.Sources = srcs
		case len(srcs) == 1:
			n.Sources = []string{srcs[0]}
		case len(srcs) > 1:
			n.Sources = []string{srcs[i]}
		}
		nodes = append(nodes, n)
	}

	if b.targetAlias != "" {
		name, err := callEnv.Subst(b.targetAlias)
		if err != nil {
			return nil, err
		}
		if name != "" {
			env.Alias(name, nodes...)
		}
	}

	return nodes, nil
}

// adjustSuffix appends suffix to names which have no extension yet.
func adjustSuffix(name, suffix string) string {
	if suffix == "" || strings.HasSuffix(name, suffix) || filepath.Ext(name) != "" {
		return name
	}
	return name + suffix
}
