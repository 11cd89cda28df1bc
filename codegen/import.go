package codegen

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/xproxy/codegen/ast"
)

// Imports collects package imports with deterministic, collision free aliases
type Imports struct {
	Packages     []string
	packageIndex map[string]string
	aliasIndex   map[string]string
	reserved     map[string]bool
}

// AddPackage registers package and returns its qualifier
func (i *Imports) AddPackage(pkg string) string {
	if alias, ok := i.packageIndex[pkg]; ok {
		return alias
	}
	base := PackageName(pkg)
	alias := base
	for n := 1; i.reserved[alias] || i.aliasIndex[alias] != ""; n++ {
		alias = base + strconv.Itoa(n)
	}
	i.packageIndex[pkg] = alias
	i.aliasIndex[alias] = pkg
	i.Packages = append(i.Packages, pkg)
	return alias
}

// Alias returns registered package alias
func (i *Imports) Alias(pkg string) (string, bool) {
	alias, ok := i.packageIndex[pkg]
	return alias, ok
}

// Aliases returns registered aliases sorted
func (i *Imports) Aliases() []string {
	var result []string
	for alias := range i.aliasIndex {
		result = append(result, alias)
	}
	sort.Strings(result)
	return result
}

// Specs returns import specs sorted by path
func (i *Imports) Specs() []*ast.Import {
	packages := append([]string{}, i.Packages...)
	sort.Strings(packages)
	var result []*ast.Import
	for _, pkg := range packages {
		spec := &ast.Import{Path: pkg}
		if alias := i.packageIndex[pkg]; alias != path.Base(pkg) {
			spec.Alias = alias
		}
		result = append(result, spec)
	}
	return result
}

// PackageName returns identifier derived from the package path
func PackageName(pkg string) string {
	elements := strings.Split(pkg, "/")
	name := elements[len(elements)-1]
	if isMajorVersion(name) && len(elements) > 1 {
		name = elements[len(elements)-2]
	}
	if index := strings.Index(name, "."); index != -1 {
		name = name[:index]
	}
	name = strings.TrimPrefix(name, "go-")
	builder := strings.Builder{}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			builder.WriteRune(r)
		case r >= '0' && r <= '9' && builder.Len() > 0:
			builder.WriteRune(r)
		}
	}
	if builder.Len() == 0 {
		return "pkg"
	}
	return builder.String()
}

func isMajorVersion(name string) bool {
	if len(name) < 2 || name[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(name[1:])
	return err == nil
}

// NewImports creates imports, reserved identifiers are never used as aliases
func NewImports(reserved ...string) *Imports {
	ret := &Imports{
		packageIndex: map[string]string{},
		aliasIndex:   map[string]string{},
		reserved:     map[string]bool{},
	}
	for _, name := range reserved {
		ret.reserved[name] = true
	}
	return ret
}
