package typeinfo

import "github.com/viant/xreflect"

type (
	// Options represents type model options
	Options struct {
		types *xreflect.Types
	}

	// Option represents type model option
	Option func(o *Options)
)

func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithTypes sets registry used to resolve generic type arguments of reflect types
func WithTypes(types *xreflect.Types) Option {
	return func(o *Options) {
		o.types = types
	}
}

func newOptions(opts []Option) *Options {
	ret := &Options{}
	ret.Apply(opts...)
	return ret
}
