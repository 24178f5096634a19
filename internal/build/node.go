package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Action produces targets from sources. env is the Environment of the
// builder call, overrides included.
type Action func(ctx context.Context, targets []*Node, sources []string, env *Environment) error

// Node is the handle of a file produced by a builder call.
type Node struct {
	Path    string
	Sources []string

	builder *Builder
	env     *Environment
}

// Env returns the Environment the node was created with.
func (n *Node) Env() *Environment {
	return n.env
}

// Builder returns the builder which created the node, nil for plain nodes.
func (n *Node) Builder() *Builder {
	return n.builder
}

// FileBase returns the base name of the node without its extension.
func (n *Node) FileBase() string {
	base := filepath.Base(n.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Exists reports whether the file of the node is present on disk.
func (n *Node) Exists() bool {
	_, err := os.Stat(n.Path)
	return err == nil
}

// Build runs the action of the node's builder.
func (n *Node) Build(ctx context.Context) error {
	if n.builder == nil || n.builder.action == nil {
		return nil
	}
	return n.builder.action(ctx, []*Node{n}, n.Sources, n.env)
}

func (n *Node) String() string {
	return n.Path
}
