package factory

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/viant/xproxy/typeinfo"
)

// Kind represents generated artifact kind
type Kind int

const (
	InterfaceProxy Kind = iota
	ClassProxy
	DelegateProxy
	DuckAdapter
)

func (k Kind) String() string {
	switch k {
	case InterfaceProxy:
		return "interface"
	case ClassProxy:
		return "class"
	case DelegateProxy:
		return "delegate"
	case DuckAdapter:
		return "duck"
	}
	return "unknown"
}

func (k Kind) suffix() string {
	switch k {
	case DelegateProxy:
		return "Delegate"
	case DuckAdapter:
		return "Duck"
	}
	return "Proxy"
}

// Mode represents output mode
type Mode int

const (
	//Module emits plugin package to be compiled and loaded
	Module Mode = iota
	//Unit emits source text for embedding into an existing package
	Unit
)

// ModulePackage is the package name of every plugin module
const ModulePackage = "main"

// Request represents a generation request
type Request struct {
	Kind    Kind
	Subject typeinfo.Type
	//Target is the duck adapter target, or an optional concrete proxy target
	Target typeinfo.Type
	Mode   Mode
	//Package is the Unit mode package name
	Package string
	//PackagePath is the Unit mode package import path, types declared there are not qualified
	PackagePath string
}

// Validate checks request consistency
func (r *Request) Validate() error {
	if r.Subject == nil {
		return fmt.Errorf("%v request: subject was empty", r.Kind)
	}
	subject := r.Subject
	switch r.Kind {
	case InterfaceProxy:
		if !subject.IsInterface() {
			return fmt.Errorf("interface proxy: %v is not an interface", subject.FullName())
		}
	case ClassProxy:
		if !subject.IsStruct() || !subject.IsNamed() {
			return fmt.Errorf("class proxy: %v is not a named struct", subject.FullName())
		}
	case DelegateProxy:
		if !subject.IsFunc() || !subject.IsNamed() {
			return fmt.Errorf("delegate proxy: %v is not a named func type", subject.FullName())
		}
	case DuckAdapter:
		if !subject.IsInterface() {
			return fmt.Errorf("duck adapter: %v is not an interface", subject.FullName())
		}
		if r.Target == nil {
			return fmt.Errorf("duck adapter for %v: target was empty", subject.FullName())
		}
	default:
		return fmt.Errorf("unsupported request kind: %v", int(r.Kind))
	}
	if r.Mode == Unit && r.Package == "" {
		return fmt.Errorf("%v request for %v: unit package was empty", r.Kind, subject.FullName())
	}
	if r.Mode == Module && (subject.IsGenericDefinition() || (r.Target != nil && r.Target.IsGenericDefinition())) {
		return fmt.Errorf("%v request for %v: generic definition can only be emitted as a unit", r.Kind, subject.FullName())
	}
	return nil
}

// PackageName returns generated package name
func (r *Request) PackageName() string {
	if r.Mode == Module {
		return ModulePackage
	}
	return r.Package
}

// Identity returns request structural identity
func (r *Request) Identity() string {
	builder := strings.Builder{}
	builder.WriteString(r.Kind.String())
	builder.WriteString(":")
	builder.WriteString(r.Subject.AssemblyQualifiedName())
	if r.Target != nil {
		builder.WriteString("=>")
		builder.WriteString(r.Target.AssemblyQualifiedName())
	}
	return builder.String()
}

// Name returns deterministic generated type name
func (r *Request) Name() string {
	return baseName(r.Subject) + r.Kind.suffix() + "_" + r.Hash()
}

// Hash returns request identity hash
func (r *Request) Hash() string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.Identity()))
	return fmt.Sprintf("%016x", h.Sum64())
}

func baseName(t typeinfo.Type) string {
	if !t.IsNamed() {
		return "Anonymous"
	}
	name := t.Name()
	if index := strings.Index(name, "["); index != -1 {
		name = name[:index]
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
