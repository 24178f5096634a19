// Package build is the minimal build-environment surface pobuild tools plug
// into: construction variables, builders, nodes and aliases.
package build

import (
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// ExecEnvKey is the construction variable holding the execution environment
// of spawned commands, as a map of variable names to values.
const ExecEnvKey = "ENV"

// Overrides are construction variables set for a single builder call.
type Overrides map[string]any

// Environment holds construction variables, the builder table and the
// aliases of a build. An Environment created with Override reads through to
// its parent, so later changes to the parent are visible to it.
type Environment struct {
	vars   map[string]any
	parent *Environment

	// builders and aliases are shared by every override layer.
	registry *registry
}

type registry struct {
	builders map[string]*Builder
	aliases  map[string]*Alias
}

// New returns an empty Environment, optionally seeded with vars.
func New(vars map[string]any) *Environment {
	e := &Environment{
		vars: make(map[string]any, len(vars)),
		registry: &registry{
			builders: make(map[string]*Builder),
			aliases:  make(map[string]*Alias),
		},
	}
	maps.Copy(e.vars, vars)
	return e
}

// Override returns a child Environment where overrides shadow the receiver's
// values. An empty override set returns the receiver itself.
func (e *Environment) Override(overrides Overrides) *Environment {
	if len(overrides) == 0 {
		return e
	}
	child := &Environment{
		vars:     make(map[string]any, len(overrides)),
		parent:   e,
		registry: e.registry,
	}
	maps.Copy(child.vars, overrides)
	return child
}

// Clone returns an independent Environment holding every variable visible
// from e and the same builders. Aliases are not copied.
func (e *Environment) Clone() *Environment {
	c := New(nil)
	for _, k := range e.Keys() {
		v, _ := e.Get(k)
		c.vars[k] = v
	}
	maps.Copy(c.registry.builders, e.registry.builders)
	return c
}

// Get returns the value of key, looking through override layers.
func (e *Environment) Get(key string) (any, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether key is set in the Environment or one of its parents.
func (e *Environment) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Set assigns value to key in this layer.
func (e *Environment) Set(key string, value any) {
	e.vars[key] = value
}

// SetDefault assigns each value whose key is not set yet. Calling it again
// with the same defaults never overwrites values changed in between.
func (e *Environment) SetDefault(defaults map[string]any) {
	for k, v := range defaults {
		if e.Has(k) {
			continue
		}
		e.vars[k] = v
	}
}

// Unset removes key from this layer only.
func (e *Environment) Unset(key string) {
	delete(e.vars, key)
}

// String returns key as a string. Lists are joined with spaces and a missing
// key yields "".
func (e *Environment) String(key string) string {
	v, ok := e.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case []string, []any:
		return joinFields(cast.ToStringSlice(val))
	}
	return cast.ToString(v)
}

// Strings returns key as a list. A scalar string is a one-element list, an
// empty string or a missing key an empty one.
func (e *Environment) Strings(key string) []string {
	v, ok := e.Get(key)
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string, []any:
		return cast.ToStringSlice(val)
	}
	return []string{cast.ToString(v)}
}

// Bool returns key as a boolean, false when missing or not convertible.
func (e *Environment) Bool(key string) bool {
	v, ok := e.Get(key)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

// ExecEnv returns the execution environment of commands as KEY=VALUE pairs,
// sorted by key.
func (e *Environment) ExecEnv() []string {
	v, ok := e.Get(ExecEnvKey)
	if !ok {
		return nil
	}
	m := cast.ToStringMapString(v)
	keys := slices.Sorted(maps.Keys(m))

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

// MergeExecEnv adds vars to the execution environment of this layer.
// Existing entries with the same name are replaced.
func (e *Environment) MergeExecEnv(vars map[string]string) {
	merged := map[string]string{}
	if v, ok := e.Get(ExecEnvKey); ok {
		maps.Copy(merged, cast.ToStringMapString(v))
	}
	maps.Copy(merged, vars)
	e.vars[ExecEnvKey] = merged
}

// Keys returns the sorted names of all variables visible from e.
func (e *Environment) Keys() []string {
	seen := map[string]struct{}{}
	for cur := e; cur != nil; cur = cur.parent {
		for k := range cur.vars {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// AddBuilder registers b under name, replacing any previous builder.
func (e *Environment) AddBuilder(name string, b *Builder) {
	e.registry.builders[name] = b
}

// Builder returns the builder registered under name.
func (e *Environment) Builder(name string) (*Builder, bool) {
	b, ok := e.registry.builders[name]
	return b, ok
}

// LookupExecEnv returns one variable of the execution environment.
func (e *Environment) LookupExecEnv(name string) (string, bool) {
	v, ok := e.Get(ExecEnvKey)
	if !ok {
		return "", false
	}
	val, ok := cast.ToStringMapString(v)[name]
	return val, ok
}
