package typeinfo

import (
	"fmt"
	"go/types"
	"strings"
)

// SymbolType represents compiler symbol backed type
type SymbolType struct {
	sType     types.Type
	name      string
	fullName  string
	namespace string
}

func (t *SymbolType) sealed() {}

// FromSymbol creates symbol backed type
func FromSymbol(sType types.Type) *SymbolType {
	ret := &SymbolType{sType: types.Unalias(sType)}
	ret.init()
	return ret
}

func (t *SymbolType) wrap(sType types.Type) *SymbolType {
	return FromSymbol(sType)
}

func (t *SymbolType) init() {
	switch actual := t.sType.(type) {
	case *types.Named:
		obj := actual.Obj()
		if obj.Pkg() != nil {
			t.namespace = obj.Pkg().Path()
		}
		var args []string
		if typeArgs := actual.TypeArgs(); typeArgs.Len() > 0 {
			for i := 0; i < typeArgs.Len(); i++ {
				args = append(args, t.wrap(typeArgs.At(i)).fullName)
			}
		} else if params := actual.TypeParams(); params.Len() > 0 {
			for i := 0; i < params.Len(); i++ {
				args = append(args, params.At(i).Obj().Name())
			}
		}
		t.name = genericName(obj.Name(), args)
		t.fullName = qualify(t.namespace, t.name)
		return
	case *types.Basic:
		if actual.Kind() == types.Invalid {
			t.name, t.fullName = "invalid type", "invalid type"
			return
		}
		t.name = canonicalBasic(actual.Name())
		t.fullName = t.name
		return
	case *types.TypeParam:
		t.name = actual.Obj().Name()
		t.fullName = t.name
		return
	}
	t.fullName = compositeName(t)
	t.name = t.fullName
}

// Type returns underlying symbol type
func (t *SymbolType) Type() types.Type {
	return t.sType
}

func (t *SymbolType) named() (*types.Named, bool) {
	named, ok := t.sType.(*types.Named)
	return named, ok
}

func (t *SymbolType) underlying() types.Type {
	if _, ok := t.sType.(*types.TypeParam); ok {
		return t.sType
	}
	return t.sType.Underlying()
}

func (t *SymbolType) Name() string { return t.name }

func (t *SymbolType) Namespace() string { return t.namespace }

func (t *SymbolType) FullName() string { return t.fullName }

func (t *SymbolType) AssemblyQualifiedName() string { return assemblyQualifiedName(t) }

func (t *SymbolType) Assembly() *Assembly {
	return &Assembly{Path: t.namespace, Dynamic: IsDynamicPackage(t.namespace)}
}

func (t *SymbolType) Kind() Kind {
	switch actual := t.underlying().(type) {
	case *types.TypeParam:
		return TypeParameter
	case *types.Basic:
		if actual.Kind() == types.Invalid {
			return Invalid
		}
		if actual.Kind() == types.UnsafePointer {
			return Invalid
		}
		return Basic
	case *types.Interface:
		return Interface
	case *types.Struct:
		return Struct
	case *types.Signature:
		return Func
	case *types.Pointer:
		return Pointer
	case *types.Slice:
		return Slice
	case *types.Array:
		return Array
	case *types.Map:
		return Map
	case *types.Chan:
		return Chan
	case *types.Union:
		return Union
	}
	return Invalid
}

func (t *SymbolType) Accessibility() Accessibility {
	named, ok := t.named()
	if !ok || t.namespace == "" {
		return Public
	}
	return typeAccessibility(named.Obj().Name(), t.namespace)
}

func (t *SymbolType) IsNamed() bool {
	switch t.sType.(type) {
	case *types.Named, *types.Basic:
		return true
	}
	return false
}

func (t *SymbolType) IsInterface() bool { return t.Kind() == Interface }

func (t *SymbolType) IsStruct() bool { return t.Kind() == Struct }

func (t *SymbolType) IsFunc() bool { return t.Kind() == Func }

func (t *SymbolType) IsPointer() bool { return t.Kind() == Pointer }

func (t *SymbolType) IsArray() bool { return t.Kind() == Array }

func (t *SymbolType) IsGenericDefinition() bool {
	named, ok := t.named()
	return ok && named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0
}

func (t *SymbolType) IsGenericParameter() bool {
	_, ok := t.sType.(*types.TypeParam)
	return ok
}

func (t *SymbolType) IsVariadic() bool {
	signature, ok := t.underlying().(*types.Signature)
	return ok && signature.Variadic()
}

func (t *SymbolType) IsComparable() bool { return types.Comparable(t.sType) }

func (t *SymbolType) ChanDir() ChanDir {
	if aChan, ok := t.underlying().(*types.Chan); ok {
		switch aChan.Dir() {
		case types.RecvOnly:
			return RecvDir
		case types.SendOnly:
			return SendDir
		}
	}
	return BothDir
}

func (t *SymbolType) Elem() Type {
	switch actual := t.underlying().(type) {
	case *types.Pointer:
		return t.wrap(actual.Elem())
	case *types.Slice:
		return t.wrap(actual.Elem())
	case *types.Array:
		return t.wrap(actual.Elem())
	case *types.Map:
		return t.wrap(actual.Elem())
	case *types.Chan:
		return t.wrap(actual.Elem())
	}
	return nil
}

func (t *SymbolType) Key() Type {
	if aMap, ok := t.underlying().(*types.Map); ok {
		return t.wrap(aMap.Key())
	}
	return nil
}

func (t *SymbolType) Len() int {
	if array, ok := t.underlying().(*types.Array); ok {
		return int(array.Len())
	}
	return 0
}

func (t *SymbolType) Base() Type {
	aStruct, ok := t.underlying().(*types.Struct)
	if !ok {
		return nil
	}
	for i := 0; i < aStruct.NumFields(); i++ {
		field := aStruct.Field(i)
		if !field.Embedded() {
			continue
		}
		fType := field.Type()
		if ptr, ok := fType.Underlying().(*types.Pointer); ok {
			fType = ptr.Elem()
		}
		if _, ok := fType.Underlying().(*types.Struct); ok {
			return t.wrap(field.Type())
		}
	}
	return nil
}

func (t *SymbolType) Interfaces() []Type {
	aStruct, ok := t.underlying().(*types.Struct)
	if !ok {
		return nil
	}
	var result []Type
	for i := 0; i < aStruct.NumFields(); i++ {
		field := aStruct.Field(i)
		if !field.Embedded() {
			continue
		}
		if types.IsInterface(field.Type()) {
			result = append(result, t.wrap(field.Type()))
		}
	}
	return result
}

func (t *SymbolType) Enclosing() Type { return nil }

func (t *SymbolType) TypeArgs() ([]Type, error) {
	named, ok := t.named()
	if !ok {
		return nil, nil
	}
	typeArgs := named.TypeArgs()
	var result []Type
	for i := 0; i < typeArgs.Len(); i++ {
		arg := t.wrap(typeArgs.At(i))
		if arg.Kind() == Invalid {
			return nil, &UnresolvableError{Symbol: t.fullName, Reason: "invalid type argument"}
		}
		result = append(result, arg)
	}
	return result, nil
}

func (t *SymbolType) TypeParams() []*TypeParam {
	named, ok := t.named()
	if !ok || named.TypeArgs().Len() > 0 {
		return nil
	}
	return typeParams(named.TypeParams())
}

func typeParams(list *types.TypeParamList) []*TypeParam {
	if list == nil || list.Len() == 0 {
		return nil
	}
	var result []*TypeParam
	for i := 0; i < list.Len(); i++ {
		param := list.At(i)
		result = append(result, &TypeParam{Name: param.Obj().Name(), Index: i, Constraint: FromSymbol(param.Constraint())})
	}
	return result
}

func (t *SymbolType) Terms() []*Term {
	switch actual := t.underlying().(type) {
	case *types.Union:
		return t.unionTerms(actual)
	case *types.Interface:
		for i := 0; i < actual.NumEmbeddeds(); i++ {
			if union, ok := actual.EmbeddedType(i).(*types.Union); ok {
				return t.unionTerms(union)
			}
		}
	}
	return nil
}

func (t *SymbolType) unionTerms(union *types.Union) []*Term {
	var result []*Term
	for i := 0; i < union.Len(); i++ {
		term := union.Term(i)
		result = append(result, &Term{Tilde: term.Tilde(), Type: t.wrap(term.Type())})
	}
	return result
}

func (t *SymbolType) checkResolved() error {
	if t.Kind() == Invalid {
		return &UnresolvableError{Symbol: t.fullName}
	}
	return nil
}

func (t *SymbolType) Methods() ([]*Method, error) {
	if err := t.checkResolved(); err != nil {
		return nil, err
	}
	if iface, ok := t.underlying().(*types.Interface); ok {
		var result []*Method
		for i := 0; i < iface.NumMethods(); i++ {
			fn := iface.Method(i)
			method, err := t.method(fn.Name(), fn.Type(), t.memberAccessibility(fn.Name()))
			if err != nil {
				return nil, err
			}
			result = append(result, method)
		}
		sortMethods(result)
		return result, nil
	}
	if t.IsGenericParameter() {
		return nil, nil
	}
	base := t.sType
	isPointer := false
	if ptr, ok := base.(*types.Pointer); ok {
		isPointer = true
		base = types.Unalias(ptr.Elem())
		if types.IsInterface(base) {
			return nil, nil
		}
		if _, ok := base.(*types.Pointer); ok {
			return nil, nil
		}
	}
	_, isNamed := base.(*types.Named)
	if _, isStruct := base.Underlying().(*types.Struct); !isNamed && !isStruct {
		return nil, nil
	}
	valueSet := map[string]bool{}
	valueMethods := types.NewMethodSet(base)
	for i := 0; i < valueMethods.Len(); i++ {
		valueSet[valueMethods.At(i).Obj().Name()] = true
	}
	ptrMethods := types.NewMethodSet(types.NewPointer(base))
	var result []*Method
	for i := 0; i < ptrMethods.Len(); i++ {
		obj := ptrMethods.At(i).Obj()
		if !obj.Exported() {
			continue
		}
		accessibility := t.memberAccessibility(obj.Name())
		if !isPointer && !valueSet[obj.Name()] && accessibility == Public {
			accessibility = Explicit
		}
		method, err := t.method(obj.Name(), obj.Type(), accessibility)
		if err != nil {
			return nil, err
		}
		result = append(result, method)
	}
	sortMethods(result)
	return result, nil
}

func (t *SymbolType) memberAccessibility(name string) Accessibility {
	if !IsExported(name) {
		return Private
	}
	if IsInternalPath(t.namespace) {
		return Internal
	}
	return Public
}

func (t *SymbolType) method(name string, fType types.Type, accessibility Accessibility) (*Method, error) {
	signature, ok := fType.(*types.Signature)
	if !ok {
		return nil, &UnresolvableError{Symbol: t.fullName + "." + name, Reason: "not a method signature"}
	}
	ret := &Method{Name: name, Accessibility: accessibility, Declaring: t, Variadic: signature.Variadic()}
	ret.Params, ret.Results = t.signature(signature)
	for _, param := range append(append([]*Parameter{}, ret.Params...), ret.Results...) {
		if param.Type.Kind() == Invalid {
			return nil, &UnresolvableError{Symbol: t.fullName + "." + name, Reason: "invalid parameter type"}
		}
	}
	return ret, nil
}

func (t *SymbolType) signature(signature *types.Signature) ([]*Parameter, []*Parameter) {
	var params, results []*Parameter
	for i := 0; i < signature.Params().Len(); i++ {
		param := signature.Params().At(i)
		pType := t.wrap(param.Type())
		variadic := signature.Variadic() && i == signature.Params().Len()-1
		params = append(params, &Parameter{Name: param.Name(), Index: i, Type: pType, RefKind: paramRefKind(pType, variadic)})
	}
	for i := 0; i < signature.Results().Len(); i++ {
		result := signature.Results().At(i)
		results = append(results, &Parameter{Name: result.Name(), Index: i, Type: t.wrap(result.Type())})
	}
	return params, results
}

func (t *SymbolType) Fields() ([]*Field, error) {
	if err := t.checkResolved(); err != nil {
		return nil, err
	}
	aStruct, ok := t.underlying().(*types.Struct)
	if !ok {
		return nil, nil
	}
	var result []*Field
	for i := 0; i < aStruct.NumFields(); i++ {
		field := aStruct.Field(i)
		accessibility := Public
		if !field.Exported() {
			accessibility = Private
		} else if IsInternalPath(t.namespace) {
			accessibility = Internal
		}
		result = append(result, &Field{
			Name:          field.Name(),
			Index:         i,
			Type:          t.wrap(field.Type()),
			Embedded:      field.Embedded(),
			Accessibility: accessibility,
			Declaring:     t,
			Tag:           aStruct.Tag(i),
		})
	}
	return result, nil
}

func (t *SymbolType) Constructors() ([]*Method, error) {
	if err := t.checkResolved(); err != nil {
		return nil, err
	}
	named, ok := t.named()
	if !ok || t.Accessibility() == Private {
		return nil, &NoPublicConstructorError{Type: t.fullName}
	}
	var result []*Method
	if _, isStruct := named.Underlying().(*types.Struct); isStruct {
		result = append(result, zeroValueConstructor(t, t.wrap(types.NewPointer(named))))
	}
	if pkg := named.Obj().Pkg(); pkg != nil {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			fn, ok := scope.Lookup(name).(*types.Func)
			if !ok || !fn.Exported() || !strings.HasPrefix(name, "New") {
				continue
			}
			signature := fn.Type().(*types.Signature)
			if signature.Recv() != nil || signature.Results().Len() == 0 {
				continue
			}
			first := signature.Results().At(0).Type()
			if ptr, ok := first.(*types.Pointer); ok {
				first = ptr.Elem()
			}
			if !types.Identical(first, named) {
				continue
			}
			ctor := &Method{Name: name, Accessibility: Public, IsStatic: true, Declaring: t, Variadic: signature.Variadic()}
			ctor.Params, ctor.Results = t.signature(signature)
			result = append(result, ctor)
		}
	}
	if len(result) == 0 {
		return nil, &NoPublicConstructorError{Type: t.fullName}
	}
	return result, nil
}

func (t *SymbolType) Signature() (*Method, error) {
	signature, ok := t.underlying().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("type %v is not a func type", t.fullName)
	}
	ret, err := t.method(invokeName, signature, Public)
	if err != nil {
		return nil, err
	}
	ret.TypeParams = t.TypeParams()
	return ret, nil
}

func (t *SymbolType) Hash() uint64 { return hashName(t.AssemblyQualifiedName()) }

func (t *SymbolType) String() string { return t.fullName }
