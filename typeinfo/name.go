package typeinfo

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

var basicNames = map[string]string{
	"byte": "uint8",
	"rune": "int32",
}

func canonicalBasic(name string) string {
	if actual, ok := basicNames[name]; ok {
		return actual
	}
	return name
}

func genericName(base string, args []string) string {
	if len(args) == 0 {
		return base
	}
	return base + "[" + strings.Join(args, ",") + "]"
}

func qualify(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

func chanPrefix(dir ChanDir) string {
	switch dir {
	case RecvDir:
		return "<-chan "
	case SendDir:
		return "chan<- "
	}
	return "chan "
}

func compositeName(t Type) string {
	switch t.Kind() {
	case Pointer:
		return "*" + t.Elem().FullName()
	case Slice:
		return "[]" + t.Elem().FullName()
	case Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + t.Elem().FullName()
	case Map:
		return "map[" + t.Key().FullName() + "]" + t.Elem().FullName()
	case Chan:
		return chanPrefix(t.ChanDir()) + t.Elem().FullName()
	case Func:
		signature, err := t.Signature()
		if err != nil {
			return "func()"
		}
		return "func" + signatureText(signature.Params, signature.Results, signature.Variadic)
	case Interface:
		methods, _ := t.Methods()
		if len(methods) == 0 {
			if terms := t.Terms(); len(terms) > 0 {
				return "interface { " + constraintName(t) + " }"
			}
			return "interface {}"
		}
		var parts []string
		for _, method := range methods {
			parts = append(parts, method.Name+signatureText(method.Params, method.Results, method.Variadic))
		}
		sort.Strings(parts)
		return "interface { " + strings.Join(parts, "; ") + " }"
	case Struct:
		fields, _ := t.Fields()
		if len(fields) == 0 {
			return "struct {}"
		}
		var parts []string
		for _, field := range fields {
			if field.Embedded {
				parts = append(parts, field.Type.FullName())
				continue
			}
			parts = append(parts, field.Name+" "+field.Type.FullName())
		}
		return "struct { " + strings.Join(parts, "; ") + " }"
	case Union:
		return constraintName(t)
	}
	return "invalid"
}

func hashName(name string) uint64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(name))
	return hasher.Sum64()
}

func assemblyQualifiedName(t Type) string {
	if ns := t.Namespace(); ns != "" {
		return t.FullName() + ", " + ns
	}
	return t.FullName()
}

// Identical returns true if both types have identical structure
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.FullName() == b.FullName()
}

// implements returns true if candidate method set satisfies interface type
func implements(candidate, iface Type) bool {
	if !iface.IsInterface() {
		return false
	}
	required, err := iface.Methods()
	if err != nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	available, err := candidate.Methods()
	if err != nil {
		return false
	}
	index := map[string]*Method{}
	for _, method := range available {
		if method.Accessibility == Explicit && !candidate.IsPointer() {
			continue
		}
		index[method.Name] = method
	}
	for _, method := range required {
		actual, ok := index[method.Name]
		if !ok || !ShapeEquals(actual, method) {
			return false
		}
	}
	return true
}

// AssignableTo returns true if value of type v can be assigned to variable of type t
func AssignableTo(v, t Type) bool {
	if Identical(v, t) {
		return true
	}
	if t.IsInterface() {
		return implements(v, t)
	}
	if !v.IsNamed() || !t.IsNamed() {
		//unnamed composite with identical structure
		return compositeName(v) == compositeName(t) && v.Kind() == t.Kind() && v.Kind() != Basic
	}
	return false
}
