package typeinfo

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports | packages.NeedDeps | packages.NeedModule | packages.NeedFiles

// Package represents a type-checked package used by the symbol backend
type Package struct {
	pkg *packages.Package
}

// Path returns package import path
func (p *Package) Path() string {
	return p.pkg.PkgPath
}

// Name returns package name
func (p *Package) Name() string {
	return p.pkg.Name
}

// Dir returns package directory
func (p *Package) Dir() string {
	if len(p.pkg.GoFiles) == 0 {
		return ""
	}
	file := p.pkg.GoFiles[0]
	if index := strings.LastIndexByte(file, '/'); index != -1 {
		return file[:index]
	}
	return ""
}

// Module returns module path, or empty if unknown
func (p *Package) Module() string {
	if p.pkg.Module == nil {
		return ""
	}
	return p.pkg.Module.Path
}

// Lookup returns named type declared in the package
func (p *Package) Lookup(name string) (*SymbolType, error) {
	if p.pkg.Types == nil {
		return nil, &UnresolvableError{Symbol: p.pkg.PkgPath + "." + name, Reason: "package was not type checked"}
	}
	obj := p.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, &UnresolvableError{Symbol: p.pkg.PkgPath + "." + name, Reason: "not found"}
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, &UnresolvableError{Symbol: p.pkg.PkgPath + "." + name, Reason: fmt.Sprintf("expected type, but had %T", obj)}
	}
	return FromSymbol(typeName.Type()), nil
}

// TypeNames returns sorted names of declared types
func (p *Package) TypeNames() []string {
	if p.pkg.Types == nil {
		return nil
	}
	var result []string
	scope := p.pkg.Types.Scope()
	for _, name := range scope.Names() {
		if _, ok := scope.Lookup(name).(*types.TypeName); ok {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

// Instantiate instantiates generic type definition with supplied type arguments
func (p *Package) Instantiate(name string, args ...Type) (*SymbolType, error) {
	def, err := p.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !def.IsGenericDefinition() {
		return nil, fmt.Errorf("type %v is not a generic definition", def.FullName())
	}
	var typeArgs []types.Type
	for _, arg := range args {
		sType, err := symbolOf(arg)
		if err != nil {
			return nil, err
		}
		typeArgs = append(typeArgs, sType)
	}
	instance, err := types.Instantiate(nil, def.sType, typeArgs, true)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate %v: %w", def.FullName(), err)
	}
	return FromSymbol(instance), nil
}

func symbolOf(t Type) (types.Type, error) {
	switch actual := t.(type) {
	case *SymbolType:
		return actual.sType, nil
	case *RuntimeType:
		if sType, ok := universeShape(actual.rType); ok {
			return sType, nil
		}
		return nil, &UnresolvableError{Symbol: actual.FullName(), Reason: "runtime type can not be used as a symbol type argument"}
	}
	return nil, fmt.Errorf("unsupported type %T", t)
}

// LoadPackages loads and type checks packages matching patterns, relative to dir
func LoadPackages(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{Context: ctx, Dir: dir, Mode: loadMode}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", patterns, err)
	}
	var result []*Package
	var messages []string
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			messages = append(messages, pkgErr.Error())
		}
		result = append(result, &Package{pkg: pkg})
	}
	if len(messages) > 0 {
		return result, &UnresolvableError{Symbol: strings.Join(patterns, ","), Reason: strings.Join(messages, "; ")}
	}
	return result, nil
}

// LoadPackage loads a single package
func LoadPackage(ctx context.Context, dir string, pattern string) (*Package, error) {
	pkgs, err := LoadPackages(ctx, dir, pattern)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, &UnresolvableError{Symbol: pattern, Reason: "package not found"}
	}
	return pkgs[0], nil
}

// universeShape converts runtime type composed of predeclared types only
func universeShape(rType reflect.Type) (types.Type, bool) {
	if rType.PkgPath() == "" && rType.Name() != "" {
		if obj := types.Universe.Lookup(rType.Name()); obj != nil {
			return obj.Type(), true
		}
	}
	switch rType.Kind() {
	case reflect.Interface:
		if rType.NumMethod() == 0 && rType.Name() == "" {
			return types.Universe.Lookup("any").Type(), true
		}
	case reflect.Ptr, reflect.Slice:
		elem, ok := universeShape(rType.Elem())
		if !ok {
			return nil, false
		}
		if rType.Kind() == reflect.Ptr {
			return types.NewPointer(elem), true
		}
		return types.NewSlice(elem), true
	case reflect.Map:
		key, ok := universeShape(rType.Key())
		if !ok {
			return nil, false
		}
		elem, ok := universeShape(rType.Elem())
		if !ok {
			return nil, false
		}
		return types.NewMap(key, elem), true
	case reflect.Func:
		if rType.Name() != "" {
			return nil, false
		}
		var params, results []*types.Var
		for i := 0; i < rType.NumIn(); i++ {
			param, ok := universeShape(rType.In(i))
			if !ok {
				return nil, false
			}
			params = append(params, types.NewVar(token.NoPos, nil, "", param))
		}
		for i := 0; i < rType.NumOut(); i++ {
			result, ok := universeShape(rType.Out(i))
			if !ok {
				return nil, false
			}
			results = append(results, types.NewVar(token.NoPos, nil, "", result))
		}
		return types.NewSignatureType(nil, nil, nil, types.NewTuple(params...), types.NewTuple(results...), rType.IsVariadic()), true
	}
	return nil, false
}
