package msginit_test

import (
	"testing"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/msginit"
	"github.com/canonical/pobuild/internal/testutils"
	"github.com/stretchr/testify/require"
)

type builderCall struct {
	Targets   []string        `yaml:"targets,omitempty"`
	Sources   []string        `yaml:"sources,omitempty"`
	Overrides build.Overrides `yaml:"overrides,omitempty"`
}

type declaredNode struct {
	Path    string   `yaml:"path"`
	Sources []string `yaml:"sources,omitempty"`
}

type poInitResult struct {
	Calls []builderCall  `yaml:"calls,omitempty"`
	Nodes []declaredNode `yaml:"nodes,omitempty"`
}

func TestPOInit(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		envDomain any
		targets   []string
		opts      []msginit.InitOption
	}{
		"Default domain without source":             {targets: []string{"fr"}},
		"Domain from the environment":               {envDomain: "app", targets: []string{"fr.po"}},
		"Domain override wins over the environment": {envDomain: "app", targets: []string{"fr"}, opts: []msginit.InitOption{msginit.WithDomain("web")}},
		"Source is passed through unchanged":        {envDomain: "app", targets: []string{"fr"}, opts: []msginit.InitOption{msginit.WithSource("custom")}},
		"Explicit source ignores domain override":   {targets: []string{"fr"}, opts: []msginit.InitOption{msginit.WithSource("po/custom.pot"), msginit.WithDomain("web")}},
		"Empty domain falls back to default":        {envDomain: "", targets: []string{"fr"}},
		"Empty domain override is unset":            {envDomain: "app", targets: []string{"fr"}, opts: []msginit.InitOption{msginit.WithDomain("")}},
		"Target is derived from the domain":         {},
		"Several targets share the template":        {targets: []string{"fr", "de"}},
		"Overrides are forwarded as is": {
			targets: []string{"fr"},
			opts: []msginit.InitOption{msginit.WithOverrides(build.Overrides{
				msginit.AutoInitKey: true,
				"MSGINITCOMSTR":     "Creating $TARGET",
			})},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := build.New(map[string]any{"MSGINIT": "msginit"})
			if tc.envDomain != nil {
				env.Set(msginit.DomainKey, tc.envDomain)
			}

			tool, err := msginit.Generate(env, msginit.WithRunner(&recordingRunner{}))
			require.NoError(t, err, "Setup: Generate should not fail")
			calls := msginit.RecordBuilderCalls(tool)

			nodes, err := tool.POInit(tc.targets, tc.opts...)
			require.NoError(t, err, "POInit should not fail")

			var got poInitResult
			for _, c := range *calls {
				bc := builderCall{Targets: c.Targets, Sources: c.Sources}
				if len(c.Overrides) > 0 {
					bc.Overrides = c.Overrides
				}
				got.Calls = append(got.Calls, bc)
			}
			for _, n := range nodes {
				got.Nodes = append(got.Nodes, declaredNode{Path: n.Path, Sources: n.Sources})
			}

			want := testutils.LoadWithUpdateFromGoldenYAML(t, got)
			require.Equal(t, want, got, "POInit should call the builder and declare nodes as expected")

			alias, ok := env.LookupAlias(msginit.DefaultAlias)
			require.True(t, ok, "Alias should be declared")
			require.Equal(t, nodes, alias.Nodes(), "Every node should be attached to the alias")
		})
	}
}

func TestPOInitExplicitSourceSkipsDomain(t *testing.T) {
	t.Parallel()

	env := build.New(map[string]any{"MSGINIT": "msginit"})
	tool, err := msginit.Generate(env)
	require.NoError(t, err, "Setup: Generate should not fail")
	calls := msginit.RecordBuilderCalls(tool)

	// Sources are not renamed even when they look like a domain.
	_, err = tool.POInit([]string{"fr"}, msginit.WithSource("messages", "extra"))
	require.ErrorIs(t, err, build.ErrSingleSource, "Two templates for one catalog should be refused")
	require.Len(t, *calls, 1, "Builder should have been called once")
	require.Equal(t, []string{"messages", "extra"}, (*calls)[0].Sources, "Source should be passed through unchanged")
}

func TestPOInitFollowsAliasChanges(t *testing.T) {
	t.Parallel()

	env := build.New(map[string]any{"MSGINIT": "msginit"})
	tool, err := msginit.Generate(env)
	require.NoError(t, err, "Setup: Generate should not fail")

	env.Set(msginit.AliasKey, "translations")
	nodes, err := tool.POInit([]string{"fr"})
	require.NoError(t, err, "POInit should not fail")

	alias, ok := env.LookupAlias("translations")
	require.True(t, ok, "Nodes should join the current alias")
	require.Equal(t, nodes, alias.Nodes(), "Unexpected alias nodes")

	def, ok := env.LookupAlias(msginit.DefaultAlias)
	require.True(t, ok, "Alias declared by Generate should still exist")
	require.Empty(t, def.Nodes(), "Alias declared by Generate should not get the nodes")
}
