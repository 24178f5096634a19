package msginit

import "github.com/canonical/pobuild/internal/build"

// BuilderCall is a call POInit made to the builder.
type BuilderCall struct {
	Targets   []string
	Sources   []string
	Overrides build.Overrides
}

// RecordBuilderCalls records the calls POInit makes to the builder. Calls
// still go through.
func RecordBuilderCalls(t *Tool) *[]BuilderCall {
	var calls []BuilderCall
	t.execute = func(b *build.Builder, env *build.Environment, targets, sources []string, overrides build.Overrides) ([]*build.Node, error) {
		calls = append(calls, BuilderCall{Targets: targets, Sources: sources, Overrides: overrides})
		return b.Execute(env, targets, sources, overrides)
	}
	return &calls
}
