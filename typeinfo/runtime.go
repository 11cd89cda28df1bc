package typeinfo

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/viant/xreflect"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	anyType   = reflect.TypeOf((*interface{})(nil)).Elem()

	basicTypes = map[string]reflect.Type{
		"bool":       reflect.TypeOf(false),
		"int":        reflect.TypeOf(0),
		"int8":       reflect.TypeOf(int8(0)),
		"int16":      reflect.TypeOf(int16(0)),
		"int32":      reflect.TypeOf(int32(0)),
		"int64":      reflect.TypeOf(int64(0)),
		"uint":       reflect.TypeOf(uint(0)),
		"uint8":      reflect.TypeOf(uint8(0)),
		"uint16":     reflect.TypeOf(uint16(0)),
		"uint32":     reflect.TypeOf(uint32(0)),
		"uint64":     reflect.TypeOf(uint64(0)),
		"uintptr":    reflect.TypeOf(uintptr(0)),
		"float32":    reflect.TypeOf(float32(0)),
		"float64":    reflect.TypeOf(float64(0)),
		"complex64":  reflect.TypeOf(complex64(0)),
		"complex128": reflect.TypeOf(complex128(0)),
		"string":     reflect.TypeOf(""),
		"error":      errorType,
		"any":        anyType,
	}
)

// BasicType returns predeclared type for name, byte, rune and empty interface spellings included
func BasicType(name string) (reflect.Type, bool) {
	if strings.ReplaceAll(name, " ", "") == "interface{}" {
		return anyType, true
	}
	rType, ok := basicTypes[canonicalBasic(name)]
	return rType, ok
}

// RuntimeType represents metadata backed type
type RuntimeType struct {
	rType     reflect.Type
	options   *Options
	name      string
	fullName  string
	namespace string
	args      []*typeExpr
	argsErr   error
}

func (t *RuntimeType) sealed() {}

// FromReflect creates metadata backed type
func FromReflect(rType reflect.Type, opts ...Option) *RuntimeType {
	return newRuntimeType(rType, newOptions(opts))
}

// TypeOf creates metadata backed type for pointer to interface or a value
func TypeOf(value interface{}, opts ...Option) *RuntimeType {
	rType := reflect.TypeOf(value)
	if rType.Kind() == reflect.Ptr && rType.Elem().Kind() == reflect.Interface {
		rType = rType.Elem()
	}
	return FromReflect(rType, opts...)
}

func newRuntimeType(rType reflect.Type, options *Options) *RuntimeType {
	ret := &RuntimeType{rType: rType, options: options}
	ret.init()
	return ret
}

func (t *RuntimeType) wrap(rType reflect.Type) *RuntimeType {
	return newRuntimeType(rType, t.options)
}

func (t *RuntimeType) init() {
	if t.rType == errorType {
		t.name, t.fullName = "error", "error"
		return
	}
	rawName := t.rType.Name()
	if rawName == "" {
		t.fullName = compositeName(t)
		t.name = t.fullName
		return
	}
	t.namespace = t.rType.PkgPath()
	if t.namespace == "" {
		t.name = canonicalBasic(rawName)
		t.fullName = t.name
		return
	}
	base, args, err := splitGenericName(rawName)
	if err != nil {
		t.argsErr = &UnresolvableError{Symbol: rawName, Reason: err.Error()}
		t.name = rawName
	} else {
		t.args = args
		var names []string
		for _, arg := range args {
			names = append(names, arg.canonical())
		}
		t.name = genericName(base, names)
	}
	t.fullName = qualify(t.namespace, t.name)
}

// Type returns underlying reflect type
func (t *RuntimeType) Type() reflect.Type {
	return t.rType
}

func (t *RuntimeType) Name() string { return t.name }

func (t *RuntimeType) Namespace() string { return t.namespace }

func (t *RuntimeType) FullName() string { return t.fullName }

func (t *RuntimeType) AssemblyQualifiedName() string { return assemblyQualifiedName(t) }

func (t *RuntimeType) Assembly() *Assembly {
	return &Assembly{Path: t.namespace, Dynamic: IsDynamicPackage(t.namespace)}
}

func (t *RuntimeType) Kind() Kind {
	switch t.rType.Kind() {
	case reflect.Interface:
		return Interface
	case reflect.Struct:
		return Struct
	case reflect.Func:
		return Func
	case reflect.Ptr:
		return Pointer
	case reflect.Slice:
		return Slice
	case reflect.Array:
		return Array
	case reflect.Map:
		return Map
	case reflect.Chan:
		return Chan
	case reflect.UnsafePointer, reflect.Invalid:
		return Invalid
	}
	return Basic
}

func (t *RuntimeType) Accessibility() Accessibility {
	if t.namespace == "" {
		return Public
	}
	base := t.name
	if index := strings.IndexByte(base, '['); index != -1 {
		base = base[:index]
	}
	return typeAccessibility(base, t.namespace)
}

func (t *RuntimeType) IsNamed() bool { return t.rType.Name() != "" }

func (t *RuntimeType) IsInterface() bool { return t.rType.Kind() == reflect.Interface }

func (t *RuntimeType) IsStruct() bool { return t.rType.Kind() == reflect.Struct }

func (t *RuntimeType) IsFunc() bool { return t.rType.Kind() == reflect.Func }

func (t *RuntimeType) IsPointer() bool { return t.rType.Kind() == reflect.Ptr }

func (t *RuntimeType) IsArray() bool { return t.rType.Kind() == reflect.Array }

func (t *RuntimeType) IsGenericDefinition() bool { return false }

func (t *RuntimeType) IsGenericParameter() bool { return false }

func (t *RuntimeType) IsVariadic() bool {
	return t.rType.Kind() == reflect.Func && t.rType.IsVariadic()
}

func (t *RuntimeType) IsComparable() bool { return t.rType.Comparable() }

func (t *RuntimeType) ChanDir() ChanDir {
	if t.rType.Kind() != reflect.Chan {
		return BothDir
	}
	switch t.rType.ChanDir() {
	case reflect.RecvDir:
		return RecvDir
	case reflect.SendDir:
		return SendDir
	}
	return BothDir
}

func (t *RuntimeType) Elem() Type {
	switch t.rType.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return t.wrap(t.rType.Elem())
	}
	return nil
}

func (t *RuntimeType) Key() Type {
	if t.rType.Kind() == reflect.Map {
		return t.wrap(t.rType.Key())
	}
	return nil
}

func (t *RuntimeType) Len() int {
	if t.rType.Kind() == reflect.Array {
		return t.rType.Len()
	}
	return 0
}

func (t *RuntimeType) Base() Type {
	if t.rType.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.rType.NumField(); i++ {
		field := t.rType.Field(i)
		if !field.Anonymous {
			continue
		}
		fType := field.Type
		if fType.Kind() == reflect.Ptr {
			fType = fType.Elem()
		}
		if fType.Kind() == reflect.Struct {
			return t.wrap(field.Type)
		}
	}
	return nil
}

func (t *RuntimeType) Interfaces() []Type {
	if t.rType.Kind() != reflect.Struct {
		return nil
	}
	var result []Type
	for i := 0; i < t.rType.NumField(); i++ {
		field := t.rType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Interface {
			result = append(result, t.wrap(field.Type))
		}
	}
	return result
}

func (t *RuntimeType) Enclosing() Type { return nil }

func (t *RuntimeType) TypeArgs() ([]Type, error) {
	if t.argsErr != nil {
		return nil, t.argsErr
	}
	if len(t.args) == 0 {
		return nil, nil
	}
	index := t.reachableTypes()
	var result []Type
	for _, arg := range t.args {
		rType, err := t.resolve(arg, index)
		if err != nil {
			return nil, err
		}
		result = append(result, t.wrap(rType))
	}
	return result, nil
}

func (t *RuntimeType) resolve(expr *typeExpr, index map[string]reflect.Type) (reflect.Type, error) {
	switch expr.kind {
	case Pointer, Slice, Array, Chan:
		elem, err := t.resolve(expr.elem, index)
		if err != nil {
			return nil, err
		}
		switch expr.kind {
		case Pointer:
			return reflect.PointerTo(elem), nil
		case Slice:
			return reflect.SliceOf(elem), nil
		case Array:
			return reflect.ArrayOf(expr.length, elem), nil
		}
		dir := reflect.BothDir
		switch expr.dir {
		case RecvDir:
			dir = reflect.RecvDir
		case SendDir:
			dir = reflect.SendDir
		}
		return reflect.ChanOf(dir, elem), nil
	case Map:
		key, err := t.resolve(expr.key, index)
		if err != nil {
			return nil, err
		}
		elem, err := t.resolve(expr.elem, index)
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, elem), nil
	case Func:
		in, err := t.resolveAll(expr.params, index)
		if err != nil {
			return nil, err
		}
		out, err := t.resolveAll(expr.results, index)
		if err != nil {
			return nil, err
		}
		return reflect.FuncOf(in, out, expr.variadic), nil
	case Interface:
		return anyType, nil
	case Basic:
		if rType, ok := BasicType(expr.name); ok {
			return rType, nil
		}
	}
	if expr.isLiteral() {
		return t.structOf(expr, index)
	}
	name := expr.canonical()
	if rType, ok := index[name]; ok {
		return rType, nil
	}
	if types := t.options.types; types != nil && expr.pkg != "" {
		base, _, _ := splitGenericName(name[len(expr.pkg)+1:])
		if rType, err := types.Lookup(base, xreflect.WithPackage(expr.pkg)); err == nil && rType != nil {
			return rType, nil
		}
	}
	return nil, &UnresolvableError{Symbol: name, Reason: "type argument of " + t.fullName + " is not reachable"}
}

func (t *RuntimeType) resolveAll(exprs []*typeExpr, index map[string]reflect.Type) ([]reflect.Type, error) {
	var result []reflect.Type
	for _, expr := range exprs {
		rType, err := t.resolve(expr, index)
		if err != nil {
			return nil, err
		}
		result = append(result, rType)
	}
	return result, nil
}

func (t *RuntimeType) structOf(expr *typeExpr, index map[string]reflect.Type) (rType reflect.Type, err error) {
	var fields []reflect.StructField
	for _, field := range expr.fields {
		fieldType, err := t.resolve(field.expr, index)
		if err != nil {
			return nil, err
		}
		fields = append(fields, reflect.StructField{Name: field.name, Type: fieldType, Tag: reflect.StructTag(field.tag), Anonymous: field.embedded})
	}
	defer func() {
		if r := recover(); r != nil {
			rType = nil
			err = &UnresolvableError{Symbol: expr.canonical(), Reason: fmt.Sprintf("type argument of %v is not constructible: %v", t.fullName, r)}
		}
	}()
	return reflect.StructOf(fields), nil
}

// reachableTypes indexes named types reachable from members, used to resolve generic type arguments
func (t *RuntimeType) reachableTypes() map[string]reflect.Type {
	index := map[string]reflect.Type{}
	visited := map[reflect.Type]bool{}
	var visit func(rType reflect.Type, depth int)
	visit = func(rType reflect.Type, depth int) {
		if rType == nil || visited[rType] || depth > 4 {
			return
		}
		visited[rType] = true
		index[t.wrap(rType).fullName] = rType
		switch rType.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
			visit(rType.Elem(), depth+1)
		case reflect.Map:
			visit(rType.Key(), depth+1)
			visit(rType.Elem(), depth+1)
		case reflect.Func:
			for i := 0; i < rType.NumIn(); i++ {
				visit(rType.In(i), depth+1)
			}
			for i := 0; i < rType.NumOut(); i++ {
				visit(rType.Out(i), depth+1)
			}
		case reflect.Struct:
			for i := 0; i < rType.NumField(); i++ {
				visit(rType.Field(i).Type, depth+1)
			}
		}
		if rType.Kind() != reflect.Interface {
			rType = reflect.PointerTo(rType)
		}
		for i := 0; i < rType.NumMethod(); i++ {
			visit(rType.Method(i).Type, depth+1)
		}
	}
	visit(t.rType, 0)
	return index
}

func (t *RuntimeType) TypeParams() []*TypeParam { return nil }

func (t *RuntimeType) Terms() []*Term { return nil }

func (t *RuntimeType) Methods() ([]*Method, error) {
	rType := t.rType
	if rType.Kind() == reflect.Interface {
		var result []*Method
		for i := 0; i < rType.NumMethod(); i++ {
			method := rType.Method(i)
			result = append(result, t.method(method.Name, method.Type, 0, t.memberAccessibility(method.Name)))
		}
		sortMethods(result)
		return result, nil
	}
	isPointer := rType.Kind() == reflect.Ptr
	if isPointer {
		rType = rType.Elem()
		if rType.Kind() == reflect.Interface || rType.Kind() == reflect.Ptr {
			return nil, nil
		}
	}
	if rType.Name() == "" && rType.Kind() != reflect.Struct {
		return nil, nil
	}
	valueSet := map[string]bool{}
	for i := 0; i < rType.NumMethod(); i++ {
		valueSet[rType.Method(i).Name] = true
	}
	ptrType := reflect.PointerTo(rType)
	var result []*Method
	for i := 0; i < ptrType.NumMethod(); i++ {
		method := ptrType.Method(i)
		accessibility := t.memberAccessibility(method.Name)
		if !isPointer && !valueSet[method.Name] && accessibility == Public {
			accessibility = Explicit
		}
		result = append(result, t.method(method.Name, method.Type, 1, accessibility))
	}
	sortMethods(result)
	return result, nil
}

func (t *RuntimeType) memberAccessibility(name string) Accessibility {
	if !IsExported(name) {
		return Private
	}
	if IsInternalPath(t.namespace) {
		return Internal
	}
	return Public
}

func (t *RuntimeType) method(name string, fType reflect.Type, offset int, accessibility Accessibility) *Method {
	ret := &Method{Name: name, Accessibility: accessibility, Declaring: t, Variadic: fType.IsVariadic()}
	ret.Params, ret.Results = t.signature(fType, offset)
	return ret
}

func (t *RuntimeType) signature(fType reflect.Type, offset int) ([]*Parameter, []*Parameter) {
	var params, results []*Parameter
	for i := offset; i < fType.NumIn(); i++ {
		pType := t.wrap(fType.In(i))
		variadic := fType.IsVariadic() && i == fType.NumIn()-1
		params = append(params, &Parameter{Index: i - offset, Type: pType, RefKind: paramRefKind(pType, variadic)})
	}
	for i := 0; i < fType.NumOut(); i++ {
		results = append(results, &Parameter{Index: i, Type: t.wrap(fType.Out(i))})
	}
	return params, results
}

func (t *RuntimeType) Fields() ([]*Field, error) {
	if t.rType.Kind() != reflect.Struct {
		return nil, nil
	}
	var result []*Field
	for i := 0; i < t.rType.NumField(); i++ {
		field := t.rType.Field(i)
		accessibility := Public
		if field.PkgPath != "" {
			accessibility = Private
		} else if IsInternalPath(t.namespace) {
			accessibility = Internal
		}
		result = append(result, &Field{
			Name:          field.Name,
			Index:         i,
			Type:          t.wrap(field.Type),
			Embedded:      field.Anonymous,
			Accessibility: accessibility,
			Declaring:     t,
			Tag:           string(field.Tag),
		})
	}
	return result, nil
}

func (t *RuntimeType) Constructors() ([]*Method, error) {
	if t.rType.Kind() != reflect.Struct || t.Accessibility() == Private {
		return nil, &NoPublicConstructorError{Type: t.fullName}
	}
	return []*Method{zeroValueConstructor(t, t.wrap(reflect.PointerTo(t.rType)))}, nil
}

func (t *RuntimeType) Signature() (*Method, error) {
	if t.rType.Kind() != reflect.Func {
		return nil, fmt.Errorf("type %v is not a func type", t.fullName)
	}
	return t.method(invokeName, t.rType, 0, Public), nil
}

func (t *RuntimeType) Hash() uint64 { return hashName(t.AssemblyQualifiedName()) }

func (t *RuntimeType) String() string { return t.fullName }

const invokeName = "Invoke"

func zeroValueConstructor(declaring Type, result Type) *Method {
	return &Method{
		Name:          "new",
		Accessibility: Public,
		IsStatic:      true,
		IsSpecialName: true,
		Declaring:     declaring,
		Results:       []*Parameter{{Type: result}},
	}
}

func sortMethods(methods []*Method) {
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})
}
