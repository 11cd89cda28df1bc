package proxy

import (
	"fmt"
	"reflect"
)

// Bind assigns ordered activator arguments to destination pointers.
// Missing or nil arguments leave destinations at their zero value.
func Bind(args []interface{}, dest ...interface{}) error {
	if len(args) > len(dest) {
		return fmt.Errorf("too many arguments: expected at most %v, but had %v", len(dest), len(args))
	}
	for i, arg := range args {
		if arg == nil {
			continue
		}
		destValue := reflect.ValueOf(dest[i])
		if destValue.Kind() != reflect.Ptr || destValue.IsNil() {
			return fmt.Errorf("invalid destination %v: expected non nil pointer, but had %T", i, dest[i])
		}
		target := destValue.Elem()
		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("invalid argument %v: %T is not assignable to %v", i, arg, target.Type())
		}
		target.Set(value)
	}
	return nil
}
