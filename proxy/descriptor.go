package proxy

import (
	"fmt"
	"reflect"
	"sync"
)

// SymbolName is the plugin symbol exported by every generated module
const SymbolName = "Descriptor"

type (
	// Activator creates generated type instance from ordered constructor arguments
	Activator func(args ...interface{}) (interface{}, error)

	// Descriptor describes generated type
	Descriptor struct {
		Name      string
		Type      reflect.Type
		Activator Activator
	}
)

var registered = struct {
	sync.Mutex
	descriptors []*Descriptor
}{}

// Validate checks descriptor completeness
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("descriptor was nil")
	}
	if d.Name == "" {
		return fmt.Errorf("descriptor name was empty")
	}
	if d.Type == nil {
		return fmt.Errorf("descriptor %v: type was nil", d.Name)
	}
	if d.Activator == nil {
		return fmt.Errorf("descriptor %v: activator was nil", d.Name)
	}
	return nil
}

// Register records compiled-in generated type, called from generated init functions
func Register(descriptor *Descriptor) {
	registered.Lock()
	defer registered.Unlock()
	registered.descriptors = append(registered.descriptors, descriptor)
}

// Registered returns compiled-in descriptors in registration order
func Registered() []*Descriptor {
	registered.Lock()
	defer registered.Unlock()
	return append([]*Descriptor{}, registered.descriptors...)
}
