package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlock_Generate(t *testing.T) {
	var testCases = []struct {
		description string
		block       Block
		declared    []string
		expect      string
	}{
		{
			description: "define and assign",
			declared:    []string{"result"},
			block: Block{
				NewAssign(NewIdent("value"), NewCallExpr(NewIdent("p"), "Get", NewLiteral("1"))),
				NewAssign(NewIdent("result"), NewIdent("value")),
			},
			expect: `value := p.Get(1)
result = value`,
		},
		{
			description: "comma ok with blank",
			block: Block{
				&Assign{Holders: []Expression{NewIdent("arg0"), NewIdent("_")}, Expression: &TypeAssert{X: &IndexExpr{X: NewSelectorExpr(NewIdent("invocation"), "Args"), Index: NewLiteral("0")}, Type: NewLiteral("int")}},
			},
			expect: `arg0, _ := invocation.Args[0].(int)`,
		},
		{
			description: "if with init",
			block: Block{
				&If{
					Init: &Assign{Holders: []Expression{NewIdent("updated"), NewIdent("ok")}, Expression: &TypeAssert{X: NewIdent("value"), Type: NewLiteral("*Item")}},
					Cond: &BinaryExpr{X: NewIdent("ok"), Op: "&&", Y: &BinaryExpr{X: NewIdent("updated"), Op: "!=", Y: NewLiteral("nil")}},
					Body: Block{NewAssign(NewDerefExpression(NewIdent("dest")), NewDerefExpression(NewIdent("updated")))},
				},
			},
			expect: `if updated, ok := value.(*Item); ok && updated != nil {
	*dest = *updated
}`,
		},
		{
			description: "variadic call and composite",
			block: Block{
				&Return{Results: []Expression{
					&CallExpr{Receiver: NewIdent("target"), Name: "Names", Args: []Expression{NewIdent("prefix"), NewIdent("names")}, Ellipsis: true},
					&CompositeLit{Type: NewLiteral("[]interface{}"), Elements: []Expression{NewIdent("prefix")}},
				}},
			},
			expect: `return target.Names(prefix, names...), []interface{}{prefix}`,
		},
	}

	for _, testCase := range testCases {
		builder := NewBuilder(Options{}, testCase.declared...)
		err := testCase.block.Generate(builder)
		assert.Nil(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, strings.TrimSpace(builder.String()), testCase.description)
	}
}

func TestFormat(t *testing.T) {
	file := &File{
		Package: "sample",
		Imports: []*Import{{Path: "fmt"}},
		Decls: []Node{
			&TypeDecl{
				Comment:    "Box holds value",
				Name:       "Box",
				TypeParams: []*TypeParam{{Name: "T", Constraint: NewLiteral("any")}},
				Type:       &StructType{Fields: []*Field{{Name: "value", Type: NewLiteral("T")}}},
			},
			&Function{
				Receiver: &Receiver{Name: "b", Type: NewLiteral("*Box[T]")},
				Name:     "Get",
				Results:  []*Param{{Type: NewLiteral("T")}},
				Body:     Block{&Return{Results: []Expression{NewSelectorExpr(NewIdent("b"), "value")}}},
			},
			&Function{
				Name:    "Describe",
				Params:  []*Param{{Name: "values", Type: NewLiteral("interface{}"), Variadic: true}},
				Results: []*Param{{Type: NewLiteral("string")}},
				Body: Block{
					NewAssign(NewIdent("text"), &CallExpr{Receiver: NewIdent("fmt"), Name: "Sprint", Args: []Expression{NewIdent("values")}, Ellipsis: true}),
					&Return{Results: []Expression{NewIdent("text")}},
				},
			},
		},
	}
	actual, err := Format(file, Options{})
	assert.Nil(t, err)
	expect := `package sample

import (
	"fmt"
)

// Box holds value
type Box[T any] struct {
	value T
}

func (b *Box[T]) Get() T {
	return b.value
}

func Describe(values ...interface{}) string {
	text := fmt.Sprint(values...)
	return text
}
`
	assert.EqualValues(t, expect, string(actual))
}

func TestFormat_Invalid(t *testing.T) {
	_, err := FormatSource([]byte("package x\nfunc {"))
	assert.NotNil(t, err)
}

func TestScope_Unique(t *testing.T) {
	scope := NewScope("invocation", "p")
	child := scope.NextScope()
	assert.EqualValues(t, "invocation1", child.Unique("invocation"))
	assert.EqualValues(t, "invocation2", child.Unique("invocation"))
	assert.EqualValues(t, "result", child.Unique("result"))
	assert.EqualValues(t, "type1", child.Unique("type"))
	assert.False(t, scope.IsDeclared("result"))
}
