package options

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/xproxy/factory"
)

func TestOptions_Init(t *testing.T) {
	var testCases = []struct {
		description string
		options     *Options
		expectErr   bool
		expectKind  factory.Kind
	}{
		{description: "interface proxy", options: &Options{Generate: &Generate{Selection: Selection{Types: []string{"Hooker"}, Kind: "interface"}}}, expectKind: factory.InterfaceProxy},
		{description: "case insensitive kind", options: &Options{Build: &Build{Selection: Selection{Types: []string{"Handler"}, Kind: "Delegate"}}}, expectKind: factory.DelegateProxy},
		{description: "missing types", options: &Options{Generate: &Generate{Selection: Selection{Kind: "interface"}}}, expectErr: true},
		{description: "unsupported kind", options: &Options{Generate: &Generate{Selection: Selection{Types: []string{"Hooker"}, Kind: "mixin"}}}, expectErr: true},
		{description: "duck without target", options: &Options{Generate: &Generate{Selection: Selection{Types: []string{"Greeter"}, Kind: "duck"}}}, expectErr: true},
		{description: "empty command", options: &Options{}, expectErr: true},
		{description: "version only", options: &Options{Version: true}},
	}
	for _, testCase := range testCases {
		err := testCase.options.Init(context.Background())
		if testCase.expectErr {
			assert.NotNil(t, err, testCase.description)
			continue
		}
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		selection := testCase.options.Selection()
		if selection == nil {
			continue
		}
		assert.NotEmpty(t, selection.Project, testCase.description)
		kind, err := selection.RequestKind()
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expectKind, kind, testCase.description)
	}
}

func TestOptions_Activate(t *testing.T) {
	opts := &Options{Generate: &Generate{}, Build: &Build{}}
	opts.Activate(BuildCommand)
	assert.Nil(t, opts.Generate)
	assert.NotNil(t, opts.Build)
	assert.EqualValues(t, BuildCommand, opts.Command)
}
