package factory

import (
	"strconv"
	"strings"

	"github.com/viant/xproxy/codegen"
	"github.com/viant/xproxy/typeinfo"
)

// renderer renders type model nodes as Go type expressions qualified with registered imports
type renderer struct {
	imports *codegen.Imports
	pkgPath string
}

func (r *renderer) render(t typeinfo.Type) (string, error) {
	if t == nil {
		return "", &UnsupportedTypeError{Type: "<nil>", Reason: "missing type"}
	}
	if t.IsGenericParameter() {
		return t.Name(), nil
	}
	if t.Kind() == typeinfo.Invalid {
		return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "invalid type"}
	}
	if t.IsNamed() {
		return r.named(t)
	}
	switch t.Kind() {
	case typeinfo.Pointer:
		return r.prefixed("*", t.Elem())
	case typeinfo.Slice:
		return r.prefixed("[]", t.Elem())
	case typeinfo.Array:
		return r.prefixed("["+strconv.Itoa(t.Len())+"]", t.Elem())
	case typeinfo.Chan:
		prefix := "chan "
		switch t.ChanDir() {
		case typeinfo.RecvDir:
			prefix = "<-chan "
		case typeinfo.SendDir:
			prefix = "chan<- "
		}
		return r.prefixed(prefix, t.Elem())
	case typeinfo.Map:
		key, err := r.render(t.Key())
		if err != nil {
			return "", err
		}
		return r.prefixed("map["+key+"]", t.Elem())
	case typeinfo.Func:
		signature, err := t.Signature()
		if err != nil {
			return "", err
		}
		params, results, err := r.signature(signature)
		if err != nil {
			return "", err
		}
		return "func" + params + results, nil
	case typeinfo.Interface:
		return r.iface(t)
	case typeinfo.Union:
		return r.terms(t.Terms())
	case typeinfo.Struct:
		return r.aStruct(t)
	}
	return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "unsupported kind " + t.Kind().String()}
}

func (r *renderer) prefixed(prefix string, elem typeinfo.Type) (string, error) {
	rendered, err := r.render(elem)
	if err != nil {
		return "", err
	}
	return prefix + rendered, nil
}

func (r *renderer) named(t typeinfo.Type) (string, error) {
	name := t.Name()
	if index := strings.Index(name, "["); index != -1 {
		name = name[:index]
	}
	if ns := t.Namespace(); ns != "" && ns != r.pkgPath {
		if t.Accessibility() == typeinfo.Private {
			return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "unexported type"}
		}
		if typeinfo.IsDynamicPackage(ns) {
			return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "declared in non importable package " + ns}
		}
		name = r.imports.AddPackage(ns) + "." + name
	}
	if t.IsGenericDefinition() {
		var params []string
		for _, param := range t.TypeParams() {
			params = append(params, param.Name)
		}
		return name + "[" + strings.Join(params, ", ") + "]", nil
	}
	args, err := t.TypeArgs()
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return name, nil
	}
	var rendered []string
	for _, arg := range args {
		item, err := r.render(arg)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, item)
	}
	return name + "[" + strings.Join(rendered, ", ") + "]", nil
}

func (r *renderer) iface(t typeinfo.Type) (string, error) {
	if terms := t.Terms(); len(terms) > 0 {
		union, err := r.terms(terms)
		if err != nil {
			return "", err
		}
		return "interface{ " + union + " }", nil
	}
	methods, err := t.Methods()
	if err != nil {
		return "", err
	}
	if len(methods) == 0 {
		return "interface{}", nil
	}
	var parts []string
	for _, method := range methods {
		if method.Accessibility == typeinfo.Private {
			return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "unexported method " + method.Name}
		}
		params, results, err := r.signature(method)
		if err != nil {
			return "", err
		}
		parts = append(parts, method.Name+params+results)
	}
	return "interface{ " + strings.Join(parts, "; ") + " }", nil
}

func (r *renderer) terms(terms []*typeinfo.Term) (string, error) {
	var parts []string
	for _, term := range terms {
		rendered, err := r.render(term.Type)
		if err != nil {
			return "", err
		}
		if term.Tilde {
			rendered = "~" + rendered
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, " | "), nil
}

func (r *renderer) aStruct(t typeinfo.Type) (string, error) {
	fields, err := t.Fields()
	if err != nil {
		return "", err
	}
	if len(fields) == 0 {
		return "struct{}", nil
	}
	var parts []string
	for _, field := range fields {
		if field.Accessibility == typeinfo.Private && t.Namespace() != r.pkgPath {
			return "", &UnsupportedTypeError{Type: t.FullName(), Reason: "unexported field " + field.Name}
		}
		fieldType, err := r.render(field.Type)
		if err != nil {
			return "", err
		}
		part := fieldType
		if !field.Embedded {
			part = field.Name + " " + fieldType
		}
		if field.Tag != "" {
			part += " " + strconv.Quote(field.Tag)
		}
		parts = append(parts, part)
	}
	return "struct{ " + strings.Join(parts, "; ") + " }", nil
}

// signature renders parameter and result lists without names
func (r *renderer) signature(method *typeinfo.Method) (string, string, error) {
	var params []string
	for i, param := range method.Params {
		rendered, err := r.paramType(param, method.Variadic && i == len(method.Params)-1)
		if err != nil {
			return "", "", err
		}
		params = append(params, rendered)
	}
	results, err := r.results(method)
	if err != nil {
		return "", "", err
	}
	return "(" + strings.Join(params, ", ") + ")", results, nil
}

func (r *renderer) paramType(param *typeinfo.Parameter, variadic bool) (string, error) {
	if variadic {
		rendered, err := r.render(param.Type.Elem())
		if err != nil {
			return "", err
		}
		return "..." + rendered, nil
	}
	return r.render(param.Type)
}

func (r *renderer) results(method *typeinfo.Method) (string, error) {
	var results []string
	for _, result := range method.Results {
		rendered, err := r.render(result.Type)
		if err != nil {
			return "", err
		}
		results = append(results, rendered)
	}
	switch len(results) {
	case 0:
		return "", nil
	case 1:
		return " " + results[0], nil
	}
	return " (" + strings.Join(results, ", ") + ")", nil
}

func (r *renderer) constraint(param *typeinfo.TypeParam) (string, error) {
	if param.Constraint == nil || param.ConstraintName() == "any" {
		return "any", nil
	}
	return r.render(param.Constraint)
}
