package typeinfo

import (
	"strings"
)

type (
	// Parameter represents method parameter or result
	Parameter struct {
		Name    string
		Index   int
		Type    Type
		RefKind RefKind
	}

	// Method represents a method, func type signature or constructor
	Method struct {
		Name          string
		Accessibility Accessibility
		IsStatic      bool
		IsSpecialName bool
		Declaring     Type
		Params        []*Parameter
		Results       []*Parameter
		Variadic      bool
		TypeParams    []*TypeParam
	}

	// Field represents struct field
	Field struct {
		Name          string
		Index         int
		Type          Type
		Embedded      bool
		Accessibility Accessibility
		Declaring     Type
		Tag           string
	}
)

// IsVoid returns true if method returns nothing
func (m *Method) IsVoid() bool {
	return len(m.Results) == 0
}

// ReturnsByRef returns true when the first result is a pointer
func (m *Method) ReturnsByRef() bool {
	return len(m.Results) > 0 && m.Results[0].Type != nil && m.Results[0].Type.IsPointer()
}

// QualifiedName returns declaring type qualified member name
func (m *Method) QualifiedName() string {
	if m.Declaring == nil {
		return m.Name
	}
	return m.Declaring.FullName() + "." + m.Name
}

// String returns method signature
func (m *Method) String() string {
	builder := strings.Builder{}
	builder.WriteString(m.Name)
	builder.WriteString(signatureText(m.Params, m.Results, m.Variadic))
	return builder.String()
}

// QualifiedName returns declaring type qualified field name
func (f *Field) QualifiedName() string {
	if f.Declaring == nil {
		return f.Name
	}
	return f.Declaring.FullName() + "." + f.Name
}

// AsMethod returns func-typed field as method, or nil
func (f *Field) AsMethod() *Method {
	if f.Type == nil || f.Type.Kind() != Func {
		return nil
	}
	signature, err := f.Type.Signature()
	if err != nil {
		return nil
	}
	return &Method{
		Name:          f.Name,
		Accessibility: f.Accessibility,
		IsSpecialName: true,
		Declaring:     f.Declaring,
		Params:        signature.Params,
		Results:       signature.Results,
		Variadic:      signature.Variadic,
	}
}

// SignatureEquals compares two members structurally, ignoring parameter names
func SignatureEquals(a, b *Method) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name != b.Name || a.IsStatic != b.IsStatic || a.IsSpecialName != b.IsSpecialName {
		return false
	}
	return ShapeEquals(a, b)
}

// ShapeEquals compares parameter, result and type parameter shapes only
func ShapeEquals(a, b *Method) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) || a.Variadic != b.Variadic {
		return false
	}
	if len(a.TypeParams) != len(b.TypeParams) {
		return false
	}
	for i := range a.TypeParams {
		if a.TypeParams[i].ConstraintName() != b.TypeParams[i].ConstraintName() {
			return false
		}
	}
	for i := range a.Params {
		if !parameterEquals(a.Params[i], b.Params[i]) {
			return false
		}
	}
	for i := range a.Results {
		if !parameterEquals(a.Results[i], b.Results[i]) {
			return false
		}
	}
	return true
}

func parameterEquals(a, b *Parameter) bool {
	if a.RefKind != b.RefKind {
		return false
	}
	return Identical(a.Type, b.Type)
}

// signatureText renders parameters and results the way reflect does, i.e. (int, ...string) (string, error)
func signatureText(params, results []*Parameter, variadic bool) string {
	builder := strings.Builder{}
	builder.WriteString("(")
	for i, param := range params {
		if i > 0 {
			builder.WriteString(", ")
		}
		if variadic && i == len(params)-1 && param.Type != nil && param.Type.Elem() != nil {
			builder.WriteString("...")
			builder.WriteString(param.Type.Elem().FullName())
			continue
		}
		builder.WriteString(param.Type.FullName())
	}
	builder.WriteString(")")
	switch len(results) {
	case 0:
	case 1:
		builder.WriteString(" ")
		builder.WriteString(results[0].Type.FullName())
	default:
		builder.WriteString(" (")
		for i, result := range results {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(result.Type.FullName())
		}
		builder.WriteString(")")
	}
	return builder.String()
}

func paramRefKind(t Type, variadic bool) RefKind {
	if variadic {
		return Params
	}
	if t != nil && t.IsPointer() {
		return Ref
	}
	return None
}
