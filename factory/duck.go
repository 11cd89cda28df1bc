package factory

import (
	"github.com/viant/xproxy/codegen/ast"
	"github.com/viant/xproxy/typeinfo"
)

// duckAdapter emits a struct implementing subject interface by forwarding to structurally compatible target members.
// Members without a compatible target member are emitted as panicking stubs and reported as diagnostics.
func duckAdapter(g *generator) error {
	request := g.request
	subject := request.Subject
	if err := g.declareTypeParams(subject); err != nil {
		return err
	}
	target := fieldType(request.Target)
	targetType, err := g.renderer.render(target)
	if err != nil {
		return err
	}
	candidates, err := duckCandidates(target)
	if err != nil {
		return err
	}
	methods, err := subject.Methods()
	if err != nil {
		return err
	}
	for _, method := range methods {
		if !g.implementable(method) {
			g.report(UnsupportedMember, Warning, method.Name, "unexported interface method can not be implemented outside of "+subject.Namespace())
			continue
		}
		matches := duckMatches(candidates, method)
		if len(matches) > 1 {
			ambiguous := &AmbiguousMatchError{Type: request.Target.FullName(), Member: method.Name}
			for _, match := range matches {
				ambiguous.Candidates = append(ambiguous.Candidates, match.QualifiedName())
			}
			return ambiguous
		}
		forward := ""
		if len(matches) == 1 {
			forward = matches[0].Name
		}
		aMember, err := g.newMember(method, forward)
		if err != nil {
			g.report(UnsupportedMember, Warning, method.Name, err.Error())
			continue
		}
		if forward == "" {
			aMember.stub = true
			g.report(MissingImplementation, Warning, method.Name, "missing implementation in "+request.Target.FullName())
		}
		g.addMember(aMember)
	}
	g.seal()
	g.typeDecl(g.name+" adapts "+request.Target.FullName()+" to "+subject.FullName(),
		&ast.Field{Name: "target", Type: ast.NewLiteral(targetType)},
	)
	g.activatorFunc([]*activatorField{{name: "target", local: "target", typeName: targetType}})
	for _, aMember := range g.members {
		g.decls = append(g.decls, g.forwardMethod(aMember))
	}
	return nil
}

// duckMatches returns candidates named exactly as method with the same shape
func duckMatches(candidates []*typeinfo.Method, method *typeinfo.Method) []*typeinfo.Method {
	var result []*typeinfo.Method
	for _, candidate := range candidates {
		if candidate.Name == method.Name && typeinfo.ShapeEquals(candidate, method) {
			result = append(result, candidate)
		}
	}
	return result
}

// duckCandidates returns exported methods and func typed fields of target
func duckCandidates(target typeinfo.Type) ([]*typeinfo.Method, error) {
	methods, err := target.Methods()
	if err != nil {
		return nil, err
	}
	var result []*typeinfo.Method
	for _, method := range methods {
		if method.Accessibility != typeinfo.Private {
			result = append(result, method)
		}
	}
	holder := target
	if holder.IsPointer() {
		holder = holder.Elem()
	}
	if !holder.IsStruct() {
		return result, nil
	}
	fields, err := holder.Fields()
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		if field.Embedded || field.Accessibility == typeinfo.Private {
			continue
		}
		if method := field.AsMethod(); method != nil {
			result = append(result, method)
		}
	}
	return result, nil
}
