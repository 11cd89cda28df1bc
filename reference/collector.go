package reference

import (
	"fmt"

	"github.com/viant/xproxy/typeinfo"
)

type (
	// Collector walks type graph reachable from generation roots
	Collector struct {
		members bool
	}

	// Option represents collector option
	Option func(c *Collector)

	// DynamicAssemblyError reports type declared in a package generated code can not import
	DynamicAssemblyError struct {
		Type    string
		Package string
	}
)

func (e *DynamicAssemblyError) Error() string {
	return fmt.Sprintf("unsupported dynamic package %v: type %v can not be referenced from generated code", e.Package, e.Type)
}

// WithMembers enables walking member signatures
func WithMembers(flag bool) Option {
	return func(c *Collector) {
		c.members = flag
	}
}

// Collect returns packages of every type reachable from roots
func (c *Collector) Collect(roots ...typeinfo.Type) (*Set, error) {
	set := NewSet()
	visited := map[string]bool{}
	for _, root := range roots {
		if err := c.visit(root, set, visited); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (c *Collector) visit(t typeinfo.Type, set *Set, visited map[string]bool) error {
	if t == nil {
		return nil
	}
	key := t.AssemblyQualifiedName()
	if visited[key] {
		return nil
	}
	visited[key] = true
	if t.IsGenericParameter() {
		return nil
	}
	if t.IsGenericDefinition() {
		for _, param := range t.TypeParams() {
			if err := c.visit(param.Constraint, set, visited); err != nil {
				return err
			}
		}
		return c.walkMembers(t, set, visited)
	}
	if ns := t.Namespace(); ns != "" {
		if typeinfo.IsDynamicPackage(ns) {
			return &DynamicAssemblyError{Type: t.FullName(), Package: ns}
		}
		set.Add(ns)
	}
	set.Types = append(set.Types, t.FullName())

	related := []typeinfo.Type{t.Base(), t.Enclosing(), t.Elem(), t.Key()}
	related = append(related, t.Interfaces()...)
	args, err := t.TypeArgs()
	if err != nil {
		return err
	}
	related = append(related, args...)
	for _, term := range t.Terms() {
		related = append(related, term.Type)
	}
	if !t.IsNamed() && t.IsFunc() {
		if signature, err := t.Signature(); err == nil {
			related = append(related, parameterTypes(signature)...)
		}
	}
	for _, item := range related {
		if err := c.visit(item, set, visited); err != nil {
			return err
		}
	}
	return c.walkMembers(t, set, visited)
}

func (c *Collector) walkMembers(t typeinfo.Type, set *Set, visited map[string]bool) error {
	if !c.members || !t.IsNamed() {
		return nil
	}
	var related []typeinfo.Type
	if t.IsFunc() {
		signature, err := t.Signature()
		if err != nil {
			return err
		}
		related = append(related, parameterTypes(signature)...)
	}
	methods, err := t.Methods()
	if err != nil {
		return err
	}
	for _, method := range methods {
		if method.Accessibility == typeinfo.Private {
			continue
		}
		related = append(related, parameterTypes(method)...)
	}
	fields, err := t.Fields()
	if err != nil {
		return err
	}
	for _, field := range fields {
		if field.Accessibility != typeinfo.Private {
			related = append(related, field.Type)
		}
	}
	for _, item := range related {
		if err := c.visit(item, set, visited); err != nil {
			return err
		}
	}
	return nil
}

func parameterTypes(method *typeinfo.Method) []typeinfo.Type {
	var result []typeinfo.Type
	for _, param := range method.Params {
		result = append(result, param.Type)
	}
	for _, param := range method.Results {
		result = append(result, param.Type)
	}
	return result
}

// New creates a collector
func New(opts ...Option) *Collector {
	ret := &Collector{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
