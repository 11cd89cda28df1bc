package proxy

type (
	// Method identifies an intercepted member
	Method struct {
		Name  string
		Owner string
		Index int
	}

	// Invocation represents a single intercepted call.
	// Args holds boxed arguments in declaration order; a variadic argument is boxed as a slice
	// and a pointer argument is written back to the caller when the interceptor replaces it.
	Invocation struct {
		Method  *Method
		Args    []interface{}
		Results []interface{}
		Proceed func()
	}

	// Interceptor intercepts proxy calls
	Interceptor interface {
		Intercept(invocation *Invocation)
	}

	// InterceptorFunc adapts func to Interceptor
	InterceptorFunc func(invocation *Invocation)
)

// Intercept calls fn
func (fn InterceptorFunc) Intercept(invocation *Invocation) {
	fn(invocation)
}

// Arg returns boxed argument or nil
func (i *Invocation) Arg(index int) interface{} {
	if index < 0 || index >= len(i.Args) {
		return nil
	}
	return i.Args[index]
}

// Result returns boxed result or nil
func (i *Invocation) Result(index int) interface{} {
	if index < 0 || index >= len(i.Results) {
		return nil
	}
	return i.Results[index]
}

// Return replaces invocation results
func (i *Invocation) Return(results ...interface{}) {
	i.Results = results
}

// Dispatch passes invocation to interceptor, or proceeds directly when interceptor is nil
func Dispatch(interceptor Interceptor, invocation *Invocation) {
	if interceptor == nil {
		if invocation.Proceed != nil {
			invocation.Proceed()
		}
		return
	}
	interceptor.Intercept(invocation)
}

// PassThrough returns interceptor that always proceeds to the target
func PassThrough() Interceptor {
	return InterceptorFunc(func(invocation *Invocation) {
		invocation.Proceed()
	})
}
