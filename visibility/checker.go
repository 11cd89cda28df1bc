// Package visibility rejects members and types generated code can not legally reference
package visibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/xproxy/codegen"
	"github.com/viant/xproxy/typeinfo"
)

type (
	// Prober type checks a throwaway source unit, returning diagnostics
	Prober func(ctx context.Context, source []byte) ([]string, error)

	// Checker validates accessibility from a requesting package
	Checker struct {
		grants map[string][]string
		probe  Prober
	}

	// Option represents checker option
	Option func(c *Checker)

	// FriendAccessError reports internal member referenced from outside its tree without a grant
	FriendAccessError struct {
		Member     string
		Package    string
		Requesting string
	}

	// NotVisibleError reports unexported member or type
	NotVisibleError struct {
		Member        string
		Accessibility typeinfo.Accessibility
	}
)

func (e *FriendAccessError) Error() string {
	return fmt.Sprintf("friend access required: %v is internal to %v, grant %v access to %v", e.Member, e.Package, e.Requesting, e.Package)
}

func (e *NotVisibleError) Error() string {
	return fmt.Sprintf("member not visible: %v is %v", e.Member, e.Accessibility)
}

// WithGrants sets friend grants keyed by internal package path (or tree root), listing allowed requesting packages
func WithGrants(grants map[string][]string) Option {
	return func(c *Checker) {
		for k, v := range grants {
			c.grants[k] = append(c.grants[k], v...)
		}
	}
}

// WithProber sets scratch unit type checker
func WithProber(probe Prober) Option {
	return func(c *Checker) {
		c.probe = probe
	}
}

// CheckMember checks if requesting package can reference the method
func (c *Checker) CheckMember(method *typeinfo.Method, requesting string) error {
	namespace := ""
	if method.Declaring != nil {
		namespace = method.Declaring.Namespace()
	}
	return c.check(method.QualifiedName(), method.Accessibility, namespace, requesting)
}

// CheckField checks if requesting package can reference the field
func (c *Checker) CheckField(field *typeinfo.Field, requesting string) error {
	namespace := ""
	if field.Declaring != nil {
		namespace = field.Declaring.Namespace()
	}
	return c.check(field.QualifiedName(), field.Accessibility, namespace, requesting)
}

func (c *Checker) check(member string, accessibility typeinfo.Accessibility, namespace, requesting string) error {
	switch accessibility {
	case typeinfo.Public, typeinfo.Explicit:
		return nil
	case typeinfo.Internal:
		if c.Granted(namespace, requesting) {
			return nil
		}
		return &FriendAccessError{Member: member, Package: namespace, Requesting: requesting}
	}
	if namespace != "" && namespace == requesting {
		return nil
	}
	return &NotVisibleError{Member: member, Accessibility: accessibility}
}

// Granted returns true if requesting package is within internal tree of pkg or holds a configured grant
func (c *Checker) Granted(pkg, requesting string) bool {
	root := typeinfo.InternalRoot(pkg)
	if root == "" {
		return true
	}
	if root != "." && (requesting == root || strings.HasPrefix(requesting, root+"/")) {
		return true
	}
	for _, key := range []string{pkg, root} {
		for _, candidate := range c.grants[key] {
			if candidate == requesting || candidate == "*" {
				return true
			}
		}
	}
	return false
}

// CheckType checks type reference: accessibility first, then a scratch unit type check for named types
func (c *Checker) CheckType(ctx context.Context, t typeinfo.Type, requesting string) error {
	if t == nil || t.IsGenericParameter() {
		return nil
	}
	if !t.IsNamed() {
		for _, related := range []typeinfo.Type{t.Elem(), t.Key()} {
			if err := c.CheckType(ctx, related, requesting); err != nil {
				return err
			}
		}
		return nil
	}
	if t.Namespace() == "" {
		return nil
	}
	if err := c.check(t.FullName(), t.Accessibility(), t.Namespace(), requesting); err != nil {
		return err
	}
	if c.probe == nil || t.IsGenericDefinition() || strings.Contains(t.Name(), "[") {
		return nil
	}
	diagnostics, err := c.probe(ctx, probeSource(t))
	if err != nil {
		return fmt.Errorf("failed to type check %v: %w", t.FullName(), err)
	}
	return translate(t, requesting, diagnostics)
}

func probeSource(t typeinfo.Type) []byte {
	imports := codegen.NewImports("scratch")
	alias := imports.AddPackage(t.Namespace())
	return []byte("package scratch\n\nimport " + alias + " \"" + t.Namespace() + "\"\n\nvar _ *" + alias + "." + t.Name() + "\n")
}

func translate(t typeinfo.Type, requesting string, diagnostics []string) error {
	if len(diagnostics) == 0 {
		return nil
	}
	for _, diagnostic := range diagnostics {
		switch {
		case strings.Contains(diagnostic, "use of internal package"):
			return &FriendAccessError{Member: t.FullName(), Package: t.Namespace(), Requesting: requesting}
		case strings.Contains(diagnostic, "not exported"):
			return &NotVisibleError{Member: t.FullName(), Accessibility: typeinfo.Private}
		}
	}
	return fmt.Errorf("failed to reference %v: %v", t.FullName(), diagnostics[0])
}

// New creates a checker
func New(opts ...Option) *Checker {
	ret := &Checker{grants: map[string][]string{}}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
