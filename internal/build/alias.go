package build

import (
	"context"
	"errors"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"
	"github.com/ubuntu/decorate"
)

// ErrUnknownAlias is returned when building an alias which was never declared.
var ErrUnknownAlias = errors.New("unknown alias")

// Alias is a named group of nodes built together.
type Alias struct {
	name        string
	nodes       []*Node
	alwaysBuild bool
}

// Name returns the alias name.
func (a *Alias) Name() string {
	return a.name
}

// Nodes returns the nodes of the alias in insertion order.
func (a *Alias) Nodes() []*Node {
	return slices.Clone(a.nodes)
}

// AlwaysBuild marks the alias as out of date on every build.
func (a *Alias) AlwaysBuild() {
	a.alwaysBuild = true
}

// IsAlwaysBuild reports whether AlwaysBuild was called.
func (a *Alias) IsAlwaysBuild() bool {
	return a.alwaysBuild
}

// Alias returns the alias called name, creating it if needed, and adds nodes
// which are not part of it yet.
func (e *Environment) Alias(name string, nodes ...*Node) *Alias {
	a, ok := e.registry.aliases[name]
	if !ok {
		a = &Alias{name: name}
		e.registry.aliases[name] = a
	}
	for _, n := range nodes {
		if slices.Contains(a.nodes, n) {
			continue
		}
		a.nodes = append(a.nodes, n)
	}
	return a
}

// LookupAlias returns the alias called name if it was declared.
func (e *Environment) LookupAlias(name string) (*Alias, bool) {
	a, ok := e.registry.aliases[name]
	return a, ok
}

// BuildAlias builds every node of the alias called name, in order.
func (e *Environment) BuildAlias(ctx context.Context, name string) (err error) {
	defer decorate.OnError(&err, "could not build alias %q", name)

	a, ok := e.registry.aliases[name]
	if !ok {
		return ErrUnknownAlias
	}

	log.Debugf("Building alias %q (%d nodes)", name, len(a.nodes))
	return BuildNodes(ctx, a.nodes...)
}

// BuildNodes builds nodes one after the other and stops at the first error.
func BuildNodes(ctx context.Context, nodes ...*Node) error {
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debugf("Building %s", n)
		if err := n.Build(ctx); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
	}
	return nil
}
