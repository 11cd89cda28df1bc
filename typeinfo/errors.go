package typeinfo

import "fmt"

// UnresolvableError reports a type or symbol in an unresolved state
type UnresolvableError struct {
	Symbol string
	Reason string
}

func (e *UnresolvableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unresolvable symbol: %v", e.Symbol)
	}
	return fmt.Sprintf("unresolvable symbol: %v, %v", e.Symbol, e.Reason)
}

// NoPublicConstructorError reports a type without constructor available to generated code
type NoPublicConstructorError struct {
	Type string
}

func (e *NoPublicConstructorError) Error() string {
	return fmt.Sprintf("no public constructor: %v", e.Type)
}
