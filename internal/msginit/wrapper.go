package msginit

import (
	"errors"

	"github.com/canonical/pobuild/internal/build"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/ubuntu/decorate"
)

// ErrNotGenerated is returned by POInit when the environment has no
// _POInitBuilder, for instance after a Generate failure.
var ErrNotGenerated = errors.New("msginit builder is not registered")

// Tool is the msginit tool bound to an environment by Generate.
type Tool struct {
	env *build.Environment

	execute func(b *build.Builder, env *build.Environment, targets, sources []string, overrides build.Overrides) ([]*build.Node, error)
}

func newTool(env *build.Environment) *Tool {
	return &Tool{
		env:     env,
		execute: (*build.Builder).Execute,
	}
}

type initOptions struct {
	source    []string
	hasSource bool
	overrides build.Overrides
}

// InitOption changes a POInit call.
type InitOption func(*initOptions)

// WithSource sets the templates catalogs are created from. Without it, the
// template is named after the domain.
func WithSource(source ...string) InitOption {
	return func(o *initOptions) {
		o.source = source
		o.hasSource = true
	}
}

// WithDomain overrides $POTDOMAIN for this call. An empty domain is ignored.
func WithDomain(domain string) InitOption {
	return func(o *initOptions) {
		o.overrides[DomainKey] = domain
	}
}

// WithOverrides sets construction variables for this call only. They are
// handed to the builder as is.
func WithOverrides(overrides build.Overrides) InitOption {
	return func(o *initOptions) {
		for k, v := range overrides {
			o.overrides[k] = v
		}
	}
}

// POInit declares the catalogs for targets. When no source is given, the
// template is the domain: the $POTDOMAIN override of the call, then
// $POTDOMAIN of the environment, then DefaultDomain. An empty domain, from
// WithDomain("") or POTDOMAIN="", counts as unset and the next one is used.
// Catalogs are added to $POCREATE_ALIAS and created when it is built.
func (t *Tool) POInit(targets []string, args ...InitOption) (nodes []*build.Node, err error) {
	defer decorate.OnError(&err, "could not declare catalogs")

	opts := initOptions{
		overrides: build.Overrides{},
	}
	for _, f := range args {
		f(&opts)
	}

	source := opts.source
	if !opts.hasSource {
		source = []string{t.domain(opts.overrides)}
		log.Debugf("No template given, using domain %q", source[0])
	}

	b, ok := t.env.Builder(BuilderName)
	if !ok {
		return nil, ErrNotGenerated
	}

	return t.execute(b, t.env, targets, source, opts.overrides)
}

func (t *Tool) domain(overrides build.Overrides) string {
	if v, ok := overrides[DomainKey]; ok {
		if d := cast.ToString(v); d != "" {
			return d
		}
	}
	if d := t.env.String(DomainKey); d != "" {
		return d
	}
	return DefaultDomain
}
