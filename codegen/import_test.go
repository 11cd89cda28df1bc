package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageName(t *testing.T) {
	var testCases = []struct {
		description string
		pkg         string
		expect      string
	}{
		{description: "std", pkg: "io", expect: "io"},
		{description: "nested", pkg: "github.com/viant/xproxy/internal/fixture", expect: "fixture"},
		{description: "major version", pkg: "github.com/vmihailenco/msgpack/v5", expect: "msgpack"},
		{description: "gopkg.in", pkg: "gopkg.in/yaml.v3", expect: "yaml"},
		{description: "dash", pkg: "github.com/jessevdk/go-flags", expect: "flags"},
		{description: "digits", pkg: "example.com/1x", expect: "x"},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, PackageName(testCase.pkg), testCase.description)
	}
}

func TestImports_AddPackage(t *testing.T) {
	imports := NewImports("proxy")
	assert.EqualValues(t, "fixture", imports.AddPackage("github.com/viant/xproxy/internal/fixture"))
	assert.EqualValues(t, "fixture1", imports.AddPackage("example.com/other/fixture"))
	assert.EqualValues(t, "fixture", imports.AddPackage("github.com/viant/xproxy/internal/fixture"))
	assert.EqualValues(t, "proxy1", imports.AddPackage("github.com/viant/xproxy/proxy"))
	assert.EqualValues(t, "yaml", imports.AddPackage("gopkg.in/yaml.v3"))

	specs := imports.Specs()
	var actual []string
	for _, spec := range specs {
		actual = append(actual, spec.Alias+" "+spec.Path)
	}
	assert.EqualValues(t, []string{
		"fixture1 example.com/other/fixture",
		" github.com/viant/xproxy/internal/fixture",
		"proxy1 github.com/viant/xproxy/proxy",
		"yaml gopkg.in/yaml.v3",
	}, actual)
}
