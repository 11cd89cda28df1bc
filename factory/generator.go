package factory

import (
	"strconv"
	"strings"

	"github.com/viant/xproxy/codegen"
	"github.com/viant/xproxy/codegen/ast"
	"github.com/viant/xproxy/typeinfo"
)

// RuntimePackage is imported by every generated unit
const RuntimePackage = "github.com/viant/xproxy/proxy"

const generatedComment = "Code generated by xproxy. DO NOT EDIT."

var predeclared = []string{"nil", "true", "false", "panic", "new", "len", "append", "error", "any", "iota"}

type (
	generator struct {
		request     *Request
		name        string
		imports     *codegen.Imports
		renderer    *renderer
		proxyPkg    string
		typeParams  []*ast.TypeParam
		typeRef     string
		methodsVar  string
		activator   string
		fileScope   *ast.Scope
		members     []*member
		diagnostics []*Diagnostic
		decls       []ast.Node
	}

	member struct {
		method   *typeinfo.Method
		index    int
		forward  string
		declared []string
		boxed    []string
		results  []string
		stub     bool
	}

	callee func(receiver string) (ast.Expression, string)
)

func newGenerator(request *Request) *generator {
	name := request.Name()
	imports := codegen.NewImports(name)
	ret := &generator{
		request:    request,
		name:       name,
		imports:    imports,
		renderer:   &renderer{imports: imports, pkgPath: request.PackagePath},
		typeRef:    name,
		methodsVar: lowerFirst(name) + "Methods",
		activator:  "new" + name,
	}
	if request.Mode == Module {
		ret.renderer.pkgPath = ""
	}
	ret.proxyPkg = imports.AddPackage(RuntimePackage)
	return ret
}

func (g *generator) isGeneric() bool {
	return len(g.typeParams) > 0
}

// declareTypeParams re-emits subject generic parameters with their constraints
func (g *generator) declareTypeParams(subject typeinfo.Type) error {
	if !subject.IsGenericDefinition() {
		return nil
	}
	var names []string
	for _, param := range subject.TypeParams() {
		constraint, err := g.renderer.constraint(param)
		if err != nil {
			return err
		}
		g.typeParams = append(g.typeParams, &ast.TypeParam{Name: param.Name, Constraint: ast.NewLiteral(constraint)})
		names = append(names, param.Name)
	}
	g.typeRef = g.name + "[" + strings.Join(names, ", ") + "]"
	return nil
}

// newMember renders member signature, registering every referenced package
func (g *generator) newMember(method *typeinfo.Method, forward string) (*member, error) {
	scratch := &renderer{imports: codegen.NewImports(), pkgPath: g.renderer.pkgPath}
	for _, param := range append(append([]*typeinfo.Parameter{}, method.Params...), method.Results...) {
		if _, err := scratch.render(param.Type); err != nil {
			return nil, err
		}
	}
	ret := &member{method: method, forward: forward, index: len(g.members)}
	for i, param := range method.Params {
		variadic := method.Variadic && i == len(method.Params)-1
		boxed, err := g.renderer.render(param.Type)
		if err != nil {
			return nil, err
		}
		declared := boxed
		if variadic {
			if declared, err = g.renderer.render(param.Type.Elem()); err != nil {
				return nil, err
			}
		}
		ret.boxed = append(ret.boxed, boxed)
		ret.declared = append(ret.declared, declared)
	}
	for _, result := range method.Results {
		rendered, err := g.renderer.render(result.Type)
		if err != nil {
			return nil, err
		}
		ret.results = append(ret.results, rendered)
	}
	return ret, nil
}

func (g *generator) addMember(aMember *member) {
	aMember.index = len(g.members)
	g.members = append(g.members, aMember)
}

func (g *generator) report(code string, severity Severity, member, message string) {
	g.diagnostics = append(g.diagnostics, &Diagnostic{
		Code:     code,
		Severity: severity,
		Type:     g.request.Subject.FullName(),
		Member:   member,
		Message:  message,
	})
}

func (g *generator) hasErrors() bool {
	for _, diagnostic := range g.diagnostics {
		if diagnostic.Severity == Error {
			return true
		}
	}
	return false
}

// seal reserves file level identifiers, called once every type was rendered
func (g *generator) seal() {
	declared := append(g.imports.Aliases(), predeclared...)
	declared = append(declared, g.name, g.methodsVar, g.activator)
	for _, param := range g.typeParams {
		declared = append(declared, param.Name)
	}
	g.fileScope = ast.NewScope(declared...)
}

func (g *generator) typeDecl(comment string, fields ...*ast.Field) {
	g.decls = append(g.decls, &ast.TypeDecl{
		Comment:    comment,
		Name:       g.name,
		TypeParams: g.typeParams,
		Type:       &ast.StructType{Fields: fields},
	})
}

func (g *generator) methodsDecl() {
	var elements []ast.Expression
	owner := strconv.Quote(g.request.Subject.FullName())
	for _, aMember := range g.members {
		elements = append(elements, &ast.CompositeLit{Type: ast.NewLiteral(""), Elements: []ast.Expression{
			&ast.KeyValue{Key: "Name", Value: ast.NewQuotedLiteral(aMember.method.Name)},
			&ast.KeyValue{Key: "Owner", Value: ast.NewLiteral(owner)},
			&ast.KeyValue{Key: "Index", Value: ast.NewLiteral(strconv.Itoa(aMember.index))},
		}})
	}
	g.decls = append(g.decls, &ast.VarDecl{Declare: ast.Declare{
		Name:  g.methodsVar,
		Value: &ast.CompositeLit{Type: ast.NewLiteral("[]*" + g.proxyPkg + ".Method"), Elements: elements, Multiline: true},
	}})
}

func (g *generator) params(scope *ast.Scope, aMember *member) ([]*ast.Param, []ast.Expression) {
	var params []*ast.Param
	var idents []ast.Expression
	for i, param := range aMember.method.Params {
		name := param.Name
		if name == "" || name == "_" {
			name = "arg" + strconv.Itoa(i)
		}
		name = scope.Unique(name)
		variadic := aMember.method.Variadic && i == len(aMember.method.Params)-1
		params = append(params, &ast.Param{Name: name, Type: ast.NewLiteral(aMember.declared[i]), Variadic: variadic})
		idents = append(idents, ast.NewIdent(name))
	}
	return params, idents
}

func (g *generator) resultParams(aMember *member) []*ast.Param {
	var results []*ast.Param
	for _, result := range aMember.results {
		results = append(results, &ast.Param{Type: ast.NewLiteral(result)})
	}
	return results
}

func (g *generator) receiver(name string) *ast.Receiver {
	return &ast.Receiver{Name: name, Type: ast.NewLiteral("*" + g.typeRef)}
}

// interceptedMethod emits member that boxes arguments, dispatches through the interceptor,
// writes back replaced pointer arguments and unboxes results
func (g *generator) interceptedMethod(aMember *member, name string, target callee) *ast.Function {
	scope := g.fileScope.NextScope()
	params, args := g.params(scope, aMember)
	receiver := scope.Unique("p")
	invocation := scope.Unique("invocation")
	invocationIdent := ast.NewIdent(invocation)
	argsExpr := ast.NewSelectorExpr(invocationIdent, "Args")

	body := ast.Block{}
	body.Append(ast.NewAssign(invocationIdent, ast.NewRefExpression(&ast.CompositeLit{
		Type: ast.NewLiteral(g.proxyPkg + ".Invocation"),
		Elements: []ast.Expression{
			&ast.KeyValue{Key: "Method", Value: &ast.IndexExpr{X: ast.NewIdent(g.methodsVar), Index: ast.NewLiteral(strconv.Itoa(aMember.index))}},
			&ast.KeyValue{Key: "Args", Value: &ast.CompositeLit{Type: ast.NewLiteral("[]interface{}"), Elements: args}},
		},
	})))

	proceed := ast.Block{}
	var values []ast.Expression
	for i := range aMember.method.Params {
		value := ast.NewIdent(scope.Unique("value" + strconv.Itoa(i)))
		proceed.Append(&ast.Assign{
			Holders:    []ast.Expression{value, ast.NewIdent("_")},
			Expression: &ast.TypeAssert{X: &ast.IndexExpr{X: argsExpr, Index: ast.NewLiteral(strconv.Itoa(i))}, Type: ast.NewLiteral(aMember.boxed[i])},
		})
		values = append(values, value)
	}
	holder, method := target(receiver)
	call := &ast.CallExpr{Receiver: holder, Name: method, Args: values, Ellipsis: aMember.method.Variadic}
	if len(aMember.results) == 0 {
		proceed.Append(ast.NewStatementExpression(call))
	} else {
		var outs []ast.Expression
		for i := range aMember.results {
			outs = append(outs, ast.NewIdent(scope.Unique("out"+strconv.Itoa(i))))
		}
		proceed.Append(&ast.Assign{Holders: outs, Expression: call})
		proceed.Append(ast.NewAssign(ast.NewSelectorExpr(invocationIdent, "Results"), &ast.CompositeLit{Type: ast.NewLiteral("[]interface{}"), Elements: outs}))
	}
	body.Append(ast.NewAssign(ast.NewSelectorExpr(invocationIdent, "Proceed"), &ast.FuncLit{Body: proceed}))
	body.Append(ast.NewStatementExpression(ast.NewCallExpr(ast.NewIdent(g.proxyPkg), "Dispatch", ast.NewSelectorExpr(ast.NewIdent(receiver), "interceptor"), invocationIdent)))

	var updated, ok string
	for i, param := range aMember.method.Params {
		if param.RefKind != typeinfo.Ref {
			continue
		}
		if updated == "" {
			updated, ok = scope.Unique("updated"), scope.Unique("ok")
		}
		body.Append(g.writeBack(args[i], &ast.IndexExpr{X: argsExpr, Index: ast.NewLiteral(strconv.Itoa(i))}, aMember.boxed[i], updated, ok))
	}

	if len(aMember.results) > 0 {
		var results []ast.Expression
		for i, resultType := range aMember.results {
			result := ast.NewIdent(scope.Unique("result" + strconv.Itoa(i)))
			body.Append(&ast.Assign{
				Holders:    []ast.Expression{result, ast.NewIdent("_")},
				Expression: &ast.TypeAssert{X: ast.NewCallExpr(invocationIdent, "Result", ast.NewLiteral(strconv.Itoa(i))), Type: ast.NewLiteral(resultType)},
			})
			results = append(results, result)
		}
		body.Append(&ast.Return{Results: results})
	}
	return &ast.Function{
		Receiver: g.receiver(receiver),
		Name:     name,
		Params:   params,
		Results:  g.resultParams(aMember),
		Body:     body,
	}
}

// writeBack copies pointer argument replaced by the interceptor into the caller's pointee
func (g *generator) writeBack(param ast.Expression, boxed ast.Expression, pointerType, updated, ok string) ast.Statement {
	updatedIdent, okIdent := ast.NewIdent(updated), ast.NewIdent(ok)
	and := func(x, y ast.Expression) ast.Expression { return &ast.BinaryExpr{X: x, Op: "&&", Y: y} }
	notEqual := func(x, y ast.Expression) ast.Expression { return &ast.BinaryExpr{X: x, Op: "!=", Y: y} }
	nilLiteral := ast.NewLiteral("nil")
	return &ast.If{
		Init: &ast.Assign{Holders: []ast.Expression{updatedIdent, okIdent}, Expression: &ast.TypeAssert{X: boxed, Type: ast.NewLiteral(pointerType)}},
		Cond: and(and(and(okIdent, notEqual(updatedIdent, nilLiteral)), notEqual(param, nilLiteral)), notEqual(updatedIdent, param)),
		Body: ast.Block{ast.NewAssign(ast.NewDerefExpression(param), ast.NewDerefExpression(updatedIdent))},
	}
}

// forwardMethod emits member that calls compatible target member directly
func (g *generator) forwardMethod(aMember *member) *ast.Function {
	scope := g.fileScope.NextScope()
	params, args := g.params(scope, aMember)
	receiver := scope.Unique("p")
	body := ast.Block{}
	if aMember.stub {
		body.Append(ast.NewStatementExpression(ast.NewCallExpr(nil, "panic", ast.NewRefExpression(&ast.CompositeLit{
			Type: ast.NewLiteral(g.proxyPkg + ".NotImplemented"),
			Elements: []ast.Expression{
				&ast.KeyValue{Key: "Type", Value: ast.NewQuotedLiteral(g.request.Subject.FullName())},
				&ast.KeyValue{Key: "Member", Value: ast.NewQuotedLiteral(aMember.method.Name)},
			},
		}))))
	} else {
		call := &ast.CallExpr{Receiver: ast.NewSelectorExpr(ast.NewIdent(receiver), "target"), Name: aMember.forward, Args: args, Ellipsis: aMember.method.Variadic}
		if len(aMember.results) == 0 {
			body.Append(ast.NewStatementExpression(call))
		} else {
			body.Append(&ast.Return{Results: []ast.Expression{call}})
		}
	}
	return &ast.Function{
		Receiver: g.receiver(receiver),
		Name:     aMember.method.Name,
		Params:   params,
		Results:  g.resultParams(aMember),
		Body:     body,
	}
}

// activatorFunc emits activator binding ordered arguments to the generated struct fields
func (g *generator) activatorFunc(fields []*activatorField, defaults ...func(scope *ast.Scope, locals map[string]string) ast.Statement) {
	if g.isGeneric() {
		return
	}
	scope := g.fileScope.NextScope()
	args := scope.Unique("args")
	body := ast.Block{}
	locals := map[string]string{}
	bindArgs := []ast.Expression{ast.NewIdent(args)}
	var elements []ast.Expression
	for _, field := range fields {
		local := scope.Unique(field.local)
		locals[field.local] = local
		body.Append(&ast.Declare{Name: local, Type: ast.NewLiteral(field.typeName)})
		bindArgs = append(bindArgs, ast.NewRefExpression(ast.NewIdent(local)))
		elements = append(elements, &ast.KeyValue{Key: field.name, Value: ast.NewIdent(local)})
	}
	errName := scope.Unique("err")
	errIdent := ast.NewIdent(errName)
	body.Append(&ast.If{
		Init: ast.NewAssign(errIdent, ast.NewCallExpr(ast.NewIdent(g.proxyPkg), "Bind", bindArgs...)),
		Cond: &ast.BinaryExpr{X: errIdent, Op: "!=", Y: ast.NewLiteral("nil")},
		Body: ast.Block{&ast.Return{Results: []ast.Expression{ast.NewLiteral("nil"), errIdent}}},
	})
	for _, fn := range defaults {
		body.Append(fn(scope, locals))
	}
	body.Append(&ast.Return{Results: []ast.Expression{
		ast.NewRefExpression(&ast.CompositeLit{Type: ast.NewLiteral(g.name), Elements: elements}),
		ast.NewLiteral("nil"),
	}})
	g.decls = append(g.decls, &ast.Function{
		Name:    g.activator,
		Params:  []*ast.Param{{Name: args, Type: ast.NewLiteral("interface{}"), Variadic: true}},
		Results: []*ast.Param{{Type: ast.NewLiteral("interface{}")}, {Type: ast.NewLiteral("error")}},
		Body:    body,
	})
}

type activatorField struct {
	name     string
	local    string
	typeName string
}

func (g *generator) file() *ast.File {
	return &ast.File{
		Comment: generatedComment,
		Package: g.request.PackageName(),
		Imports: g.imports.Specs(),
		Decls:   g.decls,
	}
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
