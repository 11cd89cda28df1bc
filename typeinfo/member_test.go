package typeinfo

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signatures interface {
	Base(a int, b string) (int, error)
	Renamed(x int, y string) (int, error)
	Arity(a int) (int, error)
	ByRef(a *int, b string) (int, error)
	Variadic(a int, b ...string) (int, error)
	Slice(a int, b []string) (int, error)
	NoResult(a int, b string)
}

func methodOf(t *testing.T, name string) *Method {
	rType := reflect.TypeOf((*signatures)(nil)).Elem()
	methods, err := FromReflect(rType).Methods()
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	for _, method := range methods {
		if method.Name == name {
			return method
		}
	}
	t.Fatalf("method %v not found", name)
	return nil
}

func renamed(method *Method, name string) *Method {
	clone := *method
	clone.Name = name
	return &clone
}

func TestSignatureEquals(t *testing.T) {
	base := methodOf(t, "Base")
	var testCases = []struct {
		description string
		other       *Method
		expect      bool
	}{
		{description: "parameter names are ignored", other: renamed(methodOf(t, "Renamed"), "Base"), expect: true},
		{description: "arity mismatch", other: renamed(methodOf(t, "Arity"), "Base"), expect: false},
		{description: "value vs ref parameter", other: renamed(methodOf(t, "ByRef"), "Base"), expect: false},
		{description: "variadic vs value", other: renamed(methodOf(t, "Variadic"), "Base"), expect: false},
		{description: "result shape mismatch", other: renamed(methodOf(t, "NoResult"), "Base"), expect: false},
		{description: "name mismatch", other: methodOf(t, "Renamed"), expect: false},
		{description: "static mismatch", other: func() *Method {
			clone := *base
			clone.IsStatic = true
			return &clone
		}(), expect: false},
		{description: "type parameter arity mismatch", other: withTypeParam(base, stringer), expect: false},
	}

	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, SignatureEquals(base, testCase.other), testCase.description)
		assert.EqualValues(t, SignatureEquals(base, testCase.other), SignatureEquals(testCase.other, base), testCase.description+" symmetry")
	}
}

var (
	stringer = FromReflect(reflect.TypeOf((*interface{ String() string })(nil)).Elem())
	anything = FromReflect(reflect.TypeOf((*interface{})(nil)).Elem())
)

func withTypeParam(method *Method, constraint Type) *Method {
	clone := *method
	clone.TypeParams = []*TypeParam{{Name: "T", Constraint: constraint}}
	return &clone
}

func TestSignatureEquals_TypeParams(t *testing.T) {
	base := withTypeParam(methodOf(t, "Base"), anything)
	var testCases = []struct {
		description string
		other       *Method
		expect      bool
	}{
		{description: "same constraint", other: withTypeParam(methodOf(t, "Renamed"), anything), expect: true},
		{description: "generic constraint mismatch", other: withTypeParam(methodOf(t, "Renamed"), stringer), expect: false},
	}
	for _, testCase := range testCases {
		other := renamed(testCase.other, "Base")
		assert.EqualValues(t, testCase.expect, SignatureEquals(base, other), testCase.description)
		assert.EqualValues(t, testCase.expect, SignatureEquals(other, base), testCase.description+" symmetry")
	}
}

func TestSignatureEquals_VariadicVsSlice(t *testing.T) {
	variadic := methodOf(t, "Variadic")
	slice := renamed(methodOf(t, "Slice"), "Variadic")
	assert.False(t, SignatureEquals(variadic, slice))
	assert.False(t, SignatureEquals(slice, variadic))
}

func TestParameterRefKind(t *testing.T) {
	method := methodOf(t, "ByRef")
	assert.EqualValues(t, Ref, method.Params[0].RefKind)
	assert.EqualValues(t, None, method.Params[1].RefKind)
	variadic := methodOf(t, "Variadic")
	assert.EqualValues(t, Params, variadic.Params[1].RefKind)
	assert.True(t, methodOf(t, "NoResult").IsVoid())
}
