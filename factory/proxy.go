package factory

import (
	"strings"

	"github.com/viant/xproxy/codegen/ast"
	"github.com/viant/xproxy/typeinfo"
)

// interfaceProxy emits a proxy implementing every subject interface member through the interceptor
func interfaceProxy(g *generator) error {
	request := g.request
	subject := request.Subject
	if err := g.declareTypeParams(subject); err != nil {
		return err
	}
	subjectType, err := g.renderer.render(subject)
	if err != nil {
		return err
	}
	targetType := subjectType
	var targetMethods map[string]*typeinfo.Method
	if request.Target != nil {
		target := fieldType(request.Target)
		if targetType, err = g.renderer.render(target); err != nil {
			return err
		}
		if !typeinfo.AssignableTo(target, subject) {
			if targetMethods, err = methodIndex(target); err != nil {
				return err
			}
		}
	}
	methods, err := subject.Methods()
	if err != nil {
		return err
	}
	for _, method := range methods {
		if !g.implementable(method) {
			g.report(UnsupportedMember, Error, method.Name, "unexported interface method can not be implemented outside of "+subject.Namespace())
			continue
		}
		if targetMethods != nil {
			if candidate, ok := targetMethods[method.Name]; !ok || !typeinfo.ShapeEquals(candidate, method) {
				g.report(MissingImplementation, Error, method.Name, "missing implementation in "+request.Target.FullName())
				continue
			}
		}
		aMember, err := g.newMember(method, method.Name)
		if err != nil {
			g.report(UnsupportedMember, Error, method.Name, err.Error())
			continue
		}
		g.addMember(aMember)
	}
	if g.hasErrors() {
		return &AggregateError{Type: subject.FullName(), Diagnostics: g.diagnostics}
	}
	g.seal()
	interceptorType := g.proxyPkg + ".Interceptor"
	g.typeDecl(g.name+" intercepts "+subject.FullName()+" calls",
		&ast.Field{Name: "target", Type: ast.NewLiteral(targetType)},
		&ast.Field{Name: "interceptor", Type: ast.NewLiteral(interceptorType)},
	)
	g.methodsDecl()
	g.activatorFunc([]*activatorField{
		{name: "target", local: "target", typeName: targetType},
		{name: "interceptor", local: "interceptor", typeName: interceptorType},
	})
	for _, aMember := range g.members {
		forward := aMember.forward
		g.decls = append(g.decls, g.interceptedMethod(aMember, aMember.method.Name, func(receiver string) (ast.Expression, string) {
			return ast.NewSelectorExpr(ast.NewIdent(receiver), "target"), forward
		}))
	}
	return nil
}

// classProxy emits a struct embedding the subject and overriding its exported pointer method set
func classProxy(g *generator) error {
	subject := g.request.Subject
	if _, err := subject.Constructors(); err != nil {
		return err
	}
	if err := g.declareTypeParams(subject); err != nil {
		return err
	}
	structType, err := g.renderer.render(subject)
	if err != nil {
		return err
	}
	embedded := subject.Name()
	if index := strings.Index(embedded, "["); index != -1 {
		embedded = embedded[:index]
	}
	methods, err := subject.Methods()
	if err != nil {
		return err
	}
	for _, method := range methods {
		if method.Name == embedded {
			g.report(UnsupportedMember, Error, method.Name, "method name collides with embedded field "+embedded)
			continue
		}
		aMember, err := g.newMember(method, method.Name)
		if err != nil {
			g.report(UnsupportedMember, Error, method.Name, err.Error())
			continue
		}
		g.addMember(aMember)
	}
	if g.hasErrors() {
		return &AggregateError{Type: subject.FullName(), Diagnostics: g.diagnostics}
	}
	g.seal()
	interceptorType := g.proxyPkg + ".Interceptor"
	g.typeDecl(g.name+" intercepts "+subject.FullName()+" methods",
		&ast.Field{Type: ast.NewLiteral("*" + structType)},
		&ast.Field{Name: "interceptor", Type: ast.NewLiteral(interceptorType)},
	)
	g.methodsDecl()
	g.activatorFunc([]*activatorField{
		{name: embedded, local: "target", typeName: "*" + structType},
		{name: "interceptor", local: "interceptor", typeName: interceptorType},
	}, func(scope *ast.Scope, locals map[string]string) ast.Statement {
		target := ast.NewIdent(locals["target"])
		return &ast.If{
			Cond: &ast.BinaryExpr{X: target, Op: "==", Y: ast.NewLiteral("nil")},
			Body: ast.Block{ast.NewAssign(target, ast.NewRefExpression(&ast.CompositeLit{Type: ast.NewLiteral(structType)}))},
		}
	})
	for _, aMember := range g.members {
		forward := aMember.forward
		g.decls = append(g.decls, g.interceptedMethod(aMember, aMember.method.Name, func(receiver string) (ast.Expression, string) {
			return ast.NewSelectorExpr(ast.NewIdent(receiver), embedded), forward
		}))
	}
	return nil
}

// delegateProxy emits a struct whose Invoke method matches the subject func signature
func delegateProxy(g *generator) error {
	subject := g.request.Subject
	signature, err := subject.Signature()
	if err != nil {
		return err
	}
	if err = g.declareTypeParams(subject); err != nil {
		return err
	}
	subjectType, err := g.renderer.render(subject)
	if err != nil {
		return err
	}
	aMember, err := g.newMember(signature, "target")
	if err != nil {
		g.report(UnsupportedMember, Error, signature.Name, err.Error())
		return &AggregateError{Type: subject.FullName(), Diagnostics: g.diagnostics}
	}
	g.addMember(aMember)
	g.seal()
	interceptorType := g.proxyPkg + ".Interceptor"
	g.typeDecl(g.name+" intercepts "+subject.FullName()+" invocations",
		&ast.Field{Name: "target", Type: ast.NewLiteral(subjectType)},
		&ast.Field{Name: "interceptor", Type: ast.NewLiteral(interceptorType)},
	)
	g.methodsDecl()
	g.activatorFunc([]*activatorField{
		{name: "target", local: "target", typeName: subjectType},
		{name: "interceptor", local: "interceptor", typeName: interceptorType},
	})
	invoke := g.interceptedMethod(aMember, signature.Name, func(receiver string) (ast.Expression, string) {
		return ast.NewIdent(receiver), "target"
	})
	invoke.Comment = signature.Name + " calls " + subject.FullName() + " through the interceptor"
	g.decls = append(g.decls, invoke)

	receiver := g.fileScope.NextScope().Unique("p")
	g.decls = append(g.decls, &ast.Function{
		Comment:  "Func returns " + signature.Name + " as " + subject.FullName(),
		Receiver: g.receiver(receiver),
		Name:     "Func",
		Results:  []*ast.Param{{Type: ast.NewLiteral(subjectType)}},
		Body:     ast.Block{&ast.Return{Results: []ast.Expression{ast.NewSelectorExpr(ast.NewIdent(receiver), signature.Name)}}},
	})
	return nil
}

func (g *generator) implementable(method *typeinfo.Method) bool {
	if method.Accessibility != typeinfo.Private {
		return true
	}
	return g.request.Mode == Unit && g.request.PackagePath == g.request.Subject.Namespace()
}

// fieldType returns type used to hold target, named structs are held by pointer
func fieldType(target typeinfo.Type) typeinfo.Type {
	if target.IsStruct() && target.IsNamed() {
		return typeinfo.PointerTo(target)
	}
	return target
}

func methodIndex(target typeinfo.Type) (map[string]*typeinfo.Method, error) {
	methods, err := target.Methods()
	if err != nil {
		return nil, err
	}
	index := map[string]*typeinfo.Method{}
	for _, method := range methods {
		if method.Accessibility == typeinfo.Private {
			continue
		}
		index[method.Name] = method
	}
	return index, nil
}
