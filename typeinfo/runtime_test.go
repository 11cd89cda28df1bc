package typeinfo

import (
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xproxy/internal/fixture"
	"github.com/viant/xreflect"
)

func TestRuntimeType_Names(t *testing.T) {
	var testCases = []struct {
		description   string
		value         interface{}
		expectName    string
		expectFull    string
		expectKind    Kind
		expectAccess  Accessibility
		expectDynamic bool
	}{
		{description: "basic", value: 0, expectName: "int", expectFull: "int", expectKind: Basic},
		{description: "byte alias", value: byte(0), expectName: "uint8", expectFull: "uint8", expectKind: Basic},
		{description: "public interface", value: (*io.Reader)(nil), expectName: "Reader", expectFull: "io.Reader", expectKind: Interface},
		{description: "error", value: (*error)(nil), expectName: "error", expectFull: "error", expectKind: Interface},
		{description: "internal struct", value: fixture.Item{}, expectName: "Item", expectFull: fixturePkg + ".Item", expectKind: Struct, expectAccess: Internal},
		{description: "slice of pointers", value: []*fixture.Item{}, expectName: "[]*" + fixturePkg + ".Item", expectFull: "[]*" + fixturePkg + ".Item", expectKind: Slice},
		{description: "map", value: map[string][]int{}, expectName: "map[string][]int", expectFull: "map[string][]int", expectKind: Map},
		{description: "func", value: func(int, ...string) error { return nil }, expectName: "func(int, ...string) error", expectFull: "func(int, ...string) error", expectKind: Func},
		{description: "generic", value: (*fixture.List[string])(nil), expectName: "List[string]", expectFull: fixturePkg + ".List[string]", expectKind: Interface, expectAccess: Internal},
		{description: "empty interface", value: (*interface{})(nil), expectName: "interface {}", expectFull: "interface {}", expectKind: Interface},
		{description: "unexported type", value: localType{}, expectName: "localType", expectFull: "github.com/viant/xproxy/typeinfo.localType", expectKind: Struct, expectAccess: Private},
	}

	for _, testCase := range testCases {
		aType := TypeOf(testCase.value)
		assert.EqualValues(t, testCase.expectName, aType.Name(), testCase.description)
		assert.EqualValues(t, testCase.expectFull, aType.FullName(), testCase.description)
		assert.EqualValues(t, testCase.expectKind, aType.Kind(), testCase.description)
		assert.EqualValues(t, testCase.expectAccess, aType.Accessibility(), testCase.description)
		assert.EqualValues(t, testCase.expectDynamic, aType.Assembly().Dynamic, testCase.description)
	}
}

type localType struct{}

type opaque[T any] struct{}

func TestRuntimeType_Methods(t *testing.T) {
	calculator := TypeOf(fixture.Calculator{})
	methods, err := calculator.Methods()
	require.Nil(t, err)
	index := map[string]*Method{}
	for _, method := range methods {
		index[method.Name] = method
	}
	require.Len(t, index, 4)
	assert.EqualValues(t, Internal, index["Value"].Accessibility)
	assert.EqualValues(t, Ref, index["Scale"].Params[0].RefKind)
	assert.True(t, index["Describe"].Variadic)
	assert.EqualValues(t, Params, index["Describe"].Params[1].RefKind)

	reader := TypeOf((*fmt.Stringer)(nil))
	readerMethods, err := reader.Methods()
	require.Nil(t, err)
	require.Len(t, readerMethods, 1)
	assert.EqualValues(t, Public, readerMethods[0].Accessibility)
}

type publicHolder struct{}

func (p *publicHolder) PointerOnly() {}

func (p publicHolder) ValueMethod() {}

func TestRuntimeType_ExplicitAccessibility(t *testing.T) {
	type exported struct{ publicHolder }
	holder := FromReflect(reflect.TypeOf(exported{}))
	methods, err := holder.Methods()
	require.Nil(t, err)
	require.Len(t, methods, 2)
	assert.EqualValues(t, "PointerOnly", methods[0].Name)
	assert.EqualValues(t, Explicit, methods[0].Accessibility)
	assert.EqualValues(t, Public, methods[1].Accessibility)

	ptrMethods, err := FromReflect(reflect.TypeOf(&exported{})).Methods()
	require.Nil(t, err)
	assert.EqualValues(t, Public, ptrMethods[0].Accessibility)
}

func TestRuntimeType_TypeArgs(t *testing.T) {
	repo := TypeOf((*fixture.Repo[fixture.Item, string])(nil))
	args, err := repo.TypeArgs()
	require.Nil(t, err)
	assert.EqualValues(t, []string{fixturePkg + ".Item", "string"}, []string{args[0].FullName(), args[1].FullName()})

	unresolved := TypeOf(opaque[fixture.Record]{})
	_, err = unresolved.TypeArgs()
	assert.IsType(t, &UnresolvableError{}, err)

	types := xreflect.NewTypes()
	require.Nil(t, types.Register("Record", xreflect.WithPackage(fixturePkg), xreflect.WithReflectType(reflect.TypeOf(fixture.Record{}))))
	resolved := FromReflect(reflect.TypeOf(opaque[fixture.Record]{}), WithTypes(types))
	args, err = resolved.TypeArgs()
	require.Nil(t, err)
	assert.EqualValues(t, fixturePkg+".Record", args[0].FullName())
}

func TestRuntimeType_Constructors(t *testing.T) {
	ctors, err := TypeOf(fixture.Item{}).Constructors()
	require.Nil(t, err)
	require.Len(t, ctors, 1)
	assert.EqualValues(t, "*"+fixturePkg+".Item", ctors[0].Results[0].Type.FullName())

	_, err = TypeOf((*fixture.Hooker)(nil)).Constructors()
	assert.EqualError(t, err, "no public constructor: "+fixturePkg+".Hooker")
}

func TestAssignableTo(t *testing.T) {
	reader := TypeOf((*io.Reader)(nil))
	extended := TypeOf(fixture.Extended{})
	assert.True(t, AssignableTo(extended, reader))
	assert.True(t, AssignableTo(TypeOf(fixture.Item{}), TypeOf((*interface{})(nil))))
	assert.False(t, AssignableTo(TypeOf(0), TypeOf("")))
	assert.True(t, AssignableTo(TypeOf([]int{}), TypeOf([]int{})))
}

func TestPointerTo(t *testing.T) {
	calculator := TypeOf(fixture.Calculator{})
	pointer := PointerTo(calculator)
	assert.True(t, pointer.IsPointer())
	assert.EqualValues(t, "*"+fixturePkg+".Calculator", pointer.FullName())
	methods, err := pointer.Methods()
	require.Nil(t, err)
	for _, method := range methods {
		assert.NotEqual(t, Explicit, method.Accessibility, method.Name)
	}
}
