package factory

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xproxy/internal/fixture"
	"github.com/viant/xproxy/typeinfo"
)

const fixturePkg = "github.com/viant/xproxy/internal/fixture"

var (
	fixtureOnce sync.Once
	fixtureSym  *typeinfo.Package
	fixtureErr  error
)

func loadFixture(t *testing.T) *typeinfo.Package {
	fixtureOnce.Do(func() {
		fixtureSym, fixtureErr = typeinfo.LoadPackage(context.Background(), ".", fixturePkg)
	})
	require.Nil(t, fixtureErr)
	return fixtureSym
}

func lookup(t *testing.T, name string) typeinfo.Type {
	aType, err := loadFixture(t).Lookup(name)
	require.Nil(t, err)
	return aType
}

func TestRequest_Name(t *testing.T) {
	listOfInt := &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.List[int])(nil))}
	listOfAny := &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.List[interface{}])(nil))}
	again := &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.List[int])(nil)), Mode: Unit, Package: "gen"}

	assert.True(t, strings.HasPrefix(listOfInt.Name(), "ListProxy_"))
	assert.NotEqual(t, listOfInt.Name(), listOfAny.Name())
	assert.EqualValues(t, listOfInt.Name(), again.Name())

	delegate := &Request{Kind: DelegateProxy, Subject: typeinfo.TypeOf(fixture.Handler(nil))}
	assert.True(t, strings.HasPrefix(delegate.Name(), "HandlerDelegate_"))
	duck := &Request{Kind: DuckAdapter, Subject: typeinfo.TypeOf((*fixture.Greeter)(nil)), Target: typeinfo.TypeOf(fixture.Person{})}
	assert.True(t, strings.HasPrefix(duck.Name(), "GreeterDuck_"))

	symbolic := &Request{Kind: InterfaceProxy, Subject: lookup(t, "Hooker")}
	runtime := &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil))}
	assert.EqualValues(t, runtime.Name(), symbolic.Name())
}

func TestRequest_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		request     *Request
		expectErr   bool
	}{
		{description: "missing subject", request: &Request{}, expectErr: true},
		{description: "interface proxy", request: &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil))}},
		{description: "class proxy on interface", request: &Request{Kind: ClassProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil))}, expectErr: true},
		{description: "delegate on struct", request: &Request{Kind: DelegateProxy, Subject: typeinfo.TypeOf(fixture.Item{})}, expectErr: true},
		{description: "duck without target", request: &Request{Kind: DuckAdapter, Subject: typeinfo.TypeOf((*fixture.Greeter)(nil))}, expectErr: true},
		{description: "unit without package", request: &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil)), Mode: Unit}, expectErr: true},
		{description: "generic definition module", request: &Request{Kind: InterfaceProxy, Subject: lookup(t, "Summer")}, expectErr: true},
	}
	for _, testCase := range testCases {
		err := testCase.request.Validate()
		assert.EqualValues(t, testCase.expectErr, err != nil, testCase.description)
	}
}

func TestFactory_Build(t *testing.T) {
	var testCases = []struct {
		description string
		request     *Request
		expectUnits int
		expect      []string
	}{
		{
			description: "interface proxy",
			request:     &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil))},
			expectUnits: 2,
			expect: []string{
				"// Code generated by xproxy. DO NOT EDIT.",
				"package main",
				`"github.com/viant/xproxy/internal/fixture"`,
				"func (p *{name}) Hooked(arg0 int) int {",
				"invocation := &proxy.Invocation{Method: {methods}[0], Args: []interface{}{arg0}}",
				"value0, _ := invocation.Args[0].(int)",
				"out0 := p.target.Hooked(value0)",
				"invocation.Results = []interface{}{out0}",
				"proxy.Dispatch(p.interceptor, invocation)",
				"result0, _ := invocation.Result(0).(int)",
				"if err := proxy.Bind(args, &target, &interceptor); err != nil {",
				"return &{name}{target: target, interceptor: interceptor}, nil",
			},
		},
		{
			description: "by ref and variadic parameters",
			request:     &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Store)(nil))},
			expectUnits: 2,
			expect: []string{
				"func (p *{name}) Close() {",
				"p.target.Close()",
				"func (p *{name}) Load(arg0 *fixture.Item) error {",
				"if updated, ok := invocation.Args[0].(*fixture.Item); ok && updated != nil && arg0 != nil && updated != arg0 {",
				"*arg0 = *updated",
				"func (p *{name}) Names(arg0 string, arg1 ...string) []string {",
				"value1, _ := invocation.Args[1].([]string)",
				"out0 := p.target.Names(value0, value1...)",
			},
		},
		{
			description: "class proxy",
			request:     &Request{Kind: ClassProxy, Subject: typeinfo.TypeOf(fixture.Calculator{})},
			expectUnits: 2,
			expect: []string{
				"*fixture.Calculator",
				"out0 := p.Calculator.Add(value0, value1)",
				"out0 := p.Calculator.Describe(value0, value1...)",
				"target = &fixture.Calculator{}",
				"return &{name}{Calculator: target, interceptor: interceptor}, nil",
			},
		},
		{
			description: "delegate proxy",
			request:     &Request{Kind: DelegateProxy, Subject: typeinfo.TypeOf(fixture.Handler(nil))},
			expectUnits: 2,
			expect: []string{
				"func (p *{name}) Invoke(arg0 string, arg1 int) (string, error) {",
				"out0, out1 := p.target(value0, value1)",
				"func (p *{name}) Func() fixture.Handler {",
				"return p.Invoke",
			},
		},
		{
			description: "unit mode registration",
			request:     &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil)), Mode: Unit, Package: "gen"},
			expectUnits: 2,
			expect: []string{
				"package gen",
				"proxy.Register({descriptor})",
				"Activator: new{name},",
			},
		},
		{
			description: "module mode descriptor",
			request:     &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil))},
			expectUnits: 2,
			expect: []string{
				"var Descriptor = &proxy.Descriptor{",
				"reflect.TypeOf((*{name})(nil))",
				"func main() {",
			},
		},
	}

	for _, testCase := range testCases {
		result, err := New().Build(testCase.request)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.Len(t, result.Units, testCase.expectUnits, testCase.description)
		assert.Empty(t, result.Diagnostics, testCase.description)
		source := string(result.Source())
		for _, fragment := range testCase.expect {
			fragment = strings.ReplaceAll(fragment, "{methods}", lowerFirst(result.Name)+"Methods")
			fragment = strings.ReplaceAll(fragment, "{descriptor}", DescriptorName(result.Name, testCase.request.Mode))
			fragment = strings.ReplaceAll(fragment, "{name}", result.Name)
			assert.Contains(t, source, fragment, testCase.description)
		}
	}
}

func TestFactory_Build_Deterministic(t *testing.T) {
	request := &Request{Kind: InterfaceProxy, Subject: lookup(t, "Store")}
	first, err := New().Build(request)
	require.Nil(t, err)
	second, err := New().Build(&Request{Kind: InterfaceProxy, Subject: lookup(t, "Store")})
	require.Nil(t, err)
	assert.EqualValues(t, first.Name, second.Name)
	assert.EqualValues(t, string(first.Source()), string(second.Source()))
	assert.Contains(t, string(first.Source()), "func (p *"+first.Name+") Load(dest *fixture.Item) error {")
}

func TestFactory_Build_AggregateError(t *testing.T) {
	var testCases = []struct {
		description   string
		request       *Request
		expectMembers []string
	}{
		{
			description:   "target missing two members",
			request:       &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Greeter)(nil)), Target: typeinfo.TypeOf(fixture.Person{})},
			expectMembers: []string{"Count", "Reset"},
		},
		{
			description:   "unexported interface methods",
			request:       &Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Sealed)(nil))},
			expectMembers: []string{"close", "reset"},
		},
	}
	for _, testCase := range testCases {
		_, err := New().Build(testCase.request)
		aggregate, ok := err.(*AggregateError)
		if !assert.True(t, ok, testCase.description) {
			continue
		}
		var members []string
		for _, diagnostic := range aggregate.Diagnostics {
			members = append(members, diagnostic.Member)
			assert.EqualValues(t, Error, diagnostic.Severity, testCase.description)
		}
		assert.EqualValues(t, testCase.expectMembers, members, testCase.description)
		assert.Contains(t, aggregate.Error(), "2 unsupported member(s)", testCase.description)
	}
}

func TestFactory_Build_InterfaceTarget(t *testing.T) {
	var testCases = []struct {
		description string
		target      typeinfo.Type
	}{
		{description: "value implementing interface", target: typeinfo.TypeOf(fixture.Echo{})},
		{description: "pointer implementing interface", target: typeinfo.TypeOf(&fixture.Echo{})},
	}
	for _, testCase := range testCases {
		result, err := New().Build(&Request{Kind: InterfaceProxy, Subject: typeinfo.TypeOf((*fixture.Hooker)(nil)), Target: testCase.target})
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.True(t, typeinfo.AssignableTo(testCase.target, typeinfo.TypeOf((*fixture.Hooker)(nil))), testCase.description)
		assert.Empty(t, result.Diagnostics, testCase.description)
	}
}

func TestFactory_Build_UnitInSamePackage(t *testing.T) {
	request := &Request{Kind: InterfaceProxy, Subject: lookup(t, "Sealed"), Mode: Unit, Package: "fixture", PackagePath: fixturePkg}
	result, err := New().Build(request)
	require.Nil(t, err)
	source := string(result.Units[0].Source)
	assert.Contains(t, source, "out0 := p.target.Open()")
	assert.Contains(t, source, "p.target.close()")
	assert.NotContains(t, source, "fixture.Sealed")
}

func TestFactory_Build_Duck(t *testing.T) {
	request := &Request{Kind: DuckAdapter, Subject: typeinfo.TypeOf((*fixture.Greeter)(nil)), Target: typeinfo.TypeOf(fixture.Person{})}
	result, err := New().Build(request)
	require.Nil(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.EqualValues(t, MissingImplementation, result.Diagnostics[0].Code)
	assert.EqualValues(t, "Reset", result.Diagnostics[0].Member)

	source := string(result.Units[0].Source)
	assert.Contains(t, source, "return p.target.Count()")
	assert.Contains(t, source, "return p.target.Greet(arg0)")
	assert.Contains(t, source, "return p.target.Farewell(arg0)")
	assert.Contains(t, source, `panic(&proxy.NotImplemented{Type: "`+fixturePkg+`.Greeter", Member: "Reset"})`)
	assert.Contains(t, source, "var target *fixture.Person")
}

func TestFactory_Build_DuckExactName(t *testing.T) {
	var testCases = []struct {
		description   string
		target        typeinfo.Type
		expectForward bool
	}{
		{description: "same name forwarded, differently cased sibling ignored", target: typeinfo.TypeOf(fixture.Record{}), expectForward: true},
		{description: "differently cased name only", target: typeinfo.TypeOf(fixture.Legacy{})},
	}
	for _, testCase := range testCases {
		request := &Request{Kind: DuckAdapter, Subject: typeinfo.TypeOf((*fixture.Identifier)(nil)), Target: testCase.target}
		result, err := New().Build(request)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		source := string(result.Units[0].Source)
		if testCase.expectForward {
			assert.Contains(t, source, "return p.target.ID()", testCase.description)
			assert.Empty(t, result.Diagnostics, testCase.description)
			continue
		}
		assert.NotContains(t, source, "p.target.Id()", testCase.description)
		require.Len(t, result.Diagnostics, 1, testCase.description)
		assert.EqualValues(t, MissingImplementation, result.Diagnostics[0].Code, testCase.description)
		assert.EqualValues(t, "ID", result.Diagnostics[0].Member, testCase.description)
	}
}

func TestDuckMatches(t *testing.T) {
	identifier, err := typeinfo.TypeOf((*fixture.Identifier)(nil)).Methods()
	require.Nil(t, err)
	require.Len(t, identifier, 1)
	record, err := duckCandidates(typeinfo.TypeOf(fixture.Record{}))
	require.Nil(t, err)
	tagged, err := duckCandidates(typeinfo.TypeOf(fixture.Tagged{}))
	require.Nil(t, err)
	require.Len(t, tagged, 1)

	var testCases = []struct {
		description string
		candidates  []*typeinfo.Method
		expect      int
	}{
		{description: "method only, case variant ignored", candidates: record, expect: 1},
		{description: "func field only", candidates: tagged, expect: 1},
		{description: "method and func field with the same name", candidates: append(append([]*typeinfo.Method{}, record...), tagged...), expect: 2},
	}
	for _, testCase := range testCases {
		matches := duckMatches(testCase.candidates, identifier[0])
		assert.Len(t, matches, testCase.expect, testCase.description)
		for _, match := range matches {
			assert.EqualValues(t, "ID", match.Name, testCase.description)
		}
	}
}

func TestFactory_Build_NameCollision(t *testing.T) {
	result, err := New().Build(&Request{Kind: InterfaceProxy, Subject: lookup(t, "Collision")})
	require.Nil(t, err)
	source := string(result.Units[0].Source)
	assert.Contains(t, source, "func (p1 *"+result.Name+") Do(p int, invocation string, proxy1 bool, fixture1 []string) int {")
	assert.Contains(t, source, "invocation1 := &proxy.Invocation{")
	assert.Contains(t, source, "Args: []interface{}{p, invocation, proxy1, fixture1}}")
	assert.Contains(t, source, "proxy.Dispatch(p1.interceptor, invocation1)")
}

func TestFactory_Build_GenericDefinition(t *testing.T) {
	request := &Request{Kind: InterfaceProxy, Subject: lookup(t, "Summer"), Mode: Unit, Package: "gen"}
	result, err := New().Build(request)
	require.Nil(t, err)
	require.Len(t, result.Units, 1)
	source := string(result.Units[0].Source)
	assert.Contains(t, source, "type "+result.Name+"[T fixture.Number] struct {")
	assert.Contains(t, source, "func (p *"+result.Name+"[T]) Sum(values ...T) T {")
	assert.Contains(t, source, "value0, _ := invocation.Args[0].([]T)")
	assert.NotContains(t, source, "func new"+result.Name)

	repo, err := New().Build(&Request{Kind: InterfaceProxy, Subject: lookup(t, "Repo"), Mode: Unit, Package: "gen"})
	require.Nil(t, err)
	assert.Contains(t, string(repo.Units[0].Source), "[T any, K comparable] struct {")
}
