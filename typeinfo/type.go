package typeinfo

import (
	"go/types"
	"reflect"
	"strings"
)

// Kind represents a type category shared by both backends
type Kind int

const (
	Invalid Kind = iota
	Basic
	Interface
	Struct
	Func
	Pointer
	Slice
	Array
	Map
	Chan
	TypeParameter
	Union
)

var kindNames = [...]string{"invalid", "basic", "interface", "struct", "func", "pointer", "slice", "array", "map", "chan", "typeParameter", "union"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Accessibility represents member or type visibility
type Accessibility int

const (
	Public Accessibility = iota
	Internal
	Protected
	Private
	//Explicit marks a method reachable through the pointer method set only
	Explicit
)

var accessibilityNames = [...]string{"public", "internal", "protected", "private", "explicit"}

func (a Accessibility) String() string {
	if int(a) < len(accessibilityNames) {
		return accessibilityNames[a]
	}
	return "unknown"
}

// RefKind represents parameter passing mode
type RefKind int

const (
	None RefKind = iota
	In
	Out
	Ref
	Params
)

var refKindNames = [...]string{"none", "in", "out", "ref", "params"}

func (r RefKind) String() string {
	if int(r) < len(refKindNames) {
		return refKindNames[r]
	}
	return "unknown"
}

// ChanDir mirrors reflect.ChanDir
type ChanDir int

const (
	BothDir ChanDir = iota
	RecvDir
	SendDir
)

type (
	// Assembly represents a declaring package
	Assembly struct {
		Path    string
		Dynamic bool
	}

	// TypeParam represents a generic type parameter with its constraint
	TypeParam struct {
		Name       string
		Index      int
		Constraint Type
	}

	// Term represents a union constraint term
	Term struct {
		Tilde bool
		Type  Type
	}

	// Type represents a read-only, backend agnostic view of a Go type.
	// The set of implementations is closed: *RuntimeType and *SymbolType.
	Type interface {
		Name() string
		Namespace() string
		FullName() string
		AssemblyQualifiedName() string
		Assembly() *Assembly
		Kind() Kind
		Accessibility() Accessibility
		IsNamed() bool
		IsInterface() bool
		IsStruct() bool
		IsFunc() bool
		IsPointer() bool
		IsArray() bool
		IsGenericDefinition() bool
		IsGenericParameter() bool
		IsVariadic() bool
		IsComparable() bool
		ChanDir() ChanDir
		Elem() Type
		Key() Type
		Len() int
		Base() Type
		Interfaces() []Type
		Enclosing() Type
		TypeArgs() ([]Type, error)
		TypeParams() []*TypeParam
		Terms() []*Term
		Methods() ([]*Method, error)
		Fields() ([]*Field, error)
		Constructors() ([]*Method, error)
		Signature() (*Method, error)
		Hash() uint64
		String() string
		sealed()
	}
)

// ConstraintName returns compact constraint name used for structural comparison
func (p *TypeParam) ConstraintName() string {
	if p.Constraint == nil {
		return "any"
	}
	return constraintName(p.Constraint)
}

func constraintName(t Type) string {
	if terms := t.Terms(); len(terms) > 0 {
		var parts []string
		for _, term := range terms {
			prefix := ""
			if term.Tilde {
				prefix = "~"
			}
			parts = append(parts, prefix+term.Type.FullName())
		}
		return strings.Join(parts, "|")
	}
	if t.IsInterface() && !t.IsNamed() {
		methods, _ := t.Methods()
		if len(methods) == 0 {
			return "any"
		}
	}
	return t.FullName()
}

// IsExported returns true if identifier is exported
func IsExported(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	if r < 0x80 {
		return 'A' <= r && r <= 'Z'
	}
	return strings.ToUpper(name[:1]) == name[:1]
}

// IsInternalPath returns true if package path is guarded by the internal package rule
func IsInternalPath(pkgPath string) bool {
	return internalRoot(pkgPath) != ""
}

// InternalRoot returns the parent tree allowed to import pkgPath, or empty for regular packages
func InternalRoot(pkgPath string) string {
	return internalRoot(pkgPath)
}

func internalRoot(pkgPath string) string {
	if pkgPath == "internal" || strings.HasPrefix(pkgPath, "internal/") {
		return "."
	}
	if index := strings.LastIndex(pkgPath, "/internal/"); index != -1 {
		return pkgPath[:index]
	}
	if strings.HasSuffix(pkgPath, "/internal") {
		return pkgPath[:len(pkgPath)-len("/internal")]
	}
	return ""
}

// IsDynamicPackage returns true for packages that can not be imported by generated code
func IsDynamicPackage(pkgPath string) bool {
	return pkgPath == "main" || pkgPath == "command-line-arguments" || strings.HasSuffix(pkgPath, ".test")
}

func typeAccessibility(name, pkgPath string) Accessibility {
	if pkgPath == "" {
		return Public
	}
	if !IsExported(name) {
		return Private
	}
	if IsInternalPath(pkgPath) {
		return Internal
	}
	return Public
}

// Equal returns true if both types name the same qualified type, regardless of backend
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch actualA := a.(type) {
	case *RuntimeType:
		if actualB, ok := b.(*RuntimeType); ok {
			return actualA.rType == actualB.rType
		}
	case *SymbolType:
	}
	return a.AssemblyQualifiedName() == b.AssemblyQualifiedName()
}

// Underlying returns reflect type for metadata backed type
func Underlying(t Type) (reflect.Type, bool) {
	switch actual := t.(type) {
	case *RuntimeType:
		return actual.rType, true
	case *SymbolType:
		return nil, false
	}
	return nil, false
}

// PointerTo returns pointer type to t within the same backend
func PointerTo(t Type) Type {
	switch actual := t.(type) {
	case *RuntimeType:
		return actual.wrap(reflect.PointerTo(actual.rType))
	case *SymbolType:
		return actual.wrap(types.NewPointer(actual.sType))
	}
	return nil
}
