package reference

import (
	"go/token"
	"go/types"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xproxy/internal/fixture"
	"github.com/viant/xproxy/typeinfo"
)

const fixturePkg = "github.com/viant/xproxy/internal/fixture"

type Node struct {
	Next     *Node
	Children []Node
	Values   map[string]fixture.Item
}

func TestCollector_Collect(t *testing.T) {
	var testCases = []struct {
		description string
		options     []Option
		roots       []typeinfo.Type
		expect      []string
	}{
		{
			description: "base and interfaces",
			roots:       []typeinfo.Type{typeinfo.TypeOf(fixture.Extended{})},
			expect:      []string{fixturePkg, "io"},
		},
		{
			description: "closed generic arguments",
			roots:       []typeinfo.Type{typeinfo.TypeOf((*fixture.Repo[fixture.Item, string])(nil))},
			expect:      []string{fixturePkg},
		},
		{
			description: "member signatures",
			options:     []Option{WithMembers(true)},
			roots:       []typeinfo.Type{typeinfo.TypeOf((*fixture.Repo[fixture.Item, string])(nil))},
			expect:      []string{fixturePkg, "context"},
		},
		{
			description: "self referencing type",
			options:     []Option{WithMembers(true)},
			roots:       []typeinfo.Type{typeinfo.TypeOf(Node{})},
			expect:      []string{"github.com/viant/xproxy/reference", fixturePkg},
		},
		{
			description: "multiple roots",
			roots:       []typeinfo.Type{typeinfo.TypeOf((*fixture.Hooker)(nil)), typeinfo.TypeOf((*error)(nil)), typeinfo.TypeOf(fixture.Echo{})},
			expect:      []string{fixturePkg},
		},
	}
	for _, testCase := range testCases {
		set, err := New(testCase.options...).Collect(testCase.roots...)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, set.Packages, testCase.description)
	}
}

func TestCollector_DynamicPackage(t *testing.T) {
	pkg := types.NewPackage("main", "main")
	obj := types.NewTypeName(token.NoPos, pkg, "Local", nil)
	named := types.NewNamed(obj, types.NewStruct(nil, nil), nil)
	slice := typeinfo.FromSymbol(types.NewSlice(named))

	_, err := New().Collect(typeinfo.TypeOf(fixture.Item{}), slice)
	dynamic, ok := err.(*DynamicAssemblyError)
	require.True(t, ok)
	assert.EqualValues(t, "main", dynamic.Package)
	assert.EqualValues(t, "main.Local", dynamic.Type)
}

func TestMerge(t *testing.T) {
	actual := Merge([]string{"github.com/viant/afs", "io", ""}, []string{"IO", "reflect", "github.com/viant/AFS"})
	assert.EqualValues(t, []string{"github.com/viant/afs", "io", "reflect"}, actual)
}

func TestSet_Modules(t *testing.T) {
	set := NewSet()
	set.Add("github.com/viant/afs/url")
	set.Add("github.com/viant/afs")
	set.Add("io")
	assert.False(t, set.Add("io"))
	resolver := ModuleResolver(
		&debug.Module{Path: "github.com/viant/afs", Version: "v1.29.0"},
		&debug.Module{Path: "github.com/viant/xproxy", Version: "(devel)"},
	)
	assert.EqualValues(t, []string{"github.com/viant/afs@v1.29.0"}, set.Modules(resolver))
	module, ok := resolver("github.com/viant/xproxy/proxy")
	assert.True(t, ok)
	assert.EqualValues(t, "github.com/viant/xproxy", module)
	assert.True(t, IsStandard("net/http"))
	assert.False(t, IsStandard("gopkg.in/yaml.v3"))
}

func TestDiff(t *testing.T) {
	var testCases = []struct {
		description string
		built       []string
		running     []string
		expect      []string
	}{
		{
			description: "same versions",
			built:       []string{"github.com/viant/afs@v1.29.0"},
			running:     []string{"github.com/viant/afs@v1.29.0"},
		},
		{
			description: "version difference",
			built:       []string{"github.com/viant/afs@v1.29.0", "github.com/google/uuid@v1.6.0"},
			running:     []string{"github.com/viant/afs@v1.30.0", "github.com/google/uuid@v1.6.0"},
			expect:      []string{"github.com/viant/afs: v1.29.0 <-> v1.30.0"},
		},
		{
			description: "module missing at runtime",
			built:       []string{"gopkg.in/yaml.v3@v3.0.1"},
			running:     []string{"github.com/viant/afs@v1.30.0"},
		},
		{
			description: "devel against released",
			built:       []string{"github.com/viant/xproxy"},
			running:     []string{"github.com/viant/xproxy@v0.1.0"},
			expect:      []string{"github.com/viant/xproxy:  <-> v0.1.0"},
		},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, Diff(testCase.built, testCase.running), testCase.description)
	}
}

func TestVersions(t *testing.T) {
	actual := Versions([]*debug.Module{
		{Path: "github.com/viant/afs", Version: "v1.29.0"},
		{Path: "github.com/viant/xproxy", Version: "(devel)"},
		{Path: "github.com/viant/pgo", Version: "v0.11.0", Replace: &debug.Module{Path: "../pgo", Version: ""}},
		{Path: "github.com/google/uuid", Version: "v1.5.0", Replace: &debug.Module{Path: "github.com/google/uuid", Version: "v1.6.0"}},
		nil,
	})
	assert.EqualValues(t, []string{"github.com/viant/afs@v1.29.0", "github.com/viant/xproxy", "github.com/viant/pgo@v0.11.0", "github.com/google/uuid@v1.6.0"}, actual)
}
