package cache

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/xproxy/logger"
	"github.com/viant/xproxy/proxy"
)

// Entry represents loaded generated type
type Entry struct {
	Name      string
	Type      reflect.Type
	Activator proxy.Activator
}

// Registry maps generated type name to its loaded entry
type Registry struct {
	registry map[string]*Entry
	mux      sync.RWMutex
	logger   *slog.Logger
}

// Register registers entry, a duplicate name is reported as warning and ignored
func (r *Registry) Register(entry *Entry) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	if _, ok := r.registry[entry.Name]; ok {
		r.logger.Warn("duplicate registration ignored", "name", entry.Name)
		return false
	}
	r.registry[entry.Name] = entry
	return true
}

// RegisterDescriptor registers generated type descriptor
func (r *Registry) RegisterDescriptor(descriptor *proxy.Descriptor) (bool, error) {
	if err := descriptor.Validate(); err != nil {
		return false, err
	}
	return r.Register(&Entry{Name: descriptor.Name, Type: descriptor.Type, Activator: descriptor.Activator}), nil
}

// Lookup returns registered entry
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	result, ok := r.registry[name]
	return result, ok
}

// Get returns registered entry or error
func (r *Registry) Get(name string) (*Entry, error) {
	result, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Errorf("failed to lookup generated type: %v", name)
	}
	return result, nil
}

// Activate creates instance of registered type
func (r *Registry) Activate(name string, args ...interface{}) (interface{}, error) {
	entry, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	instance, err := entry.Activator(args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to activate %v", name)
	}
	return instance, nil
}

// Keys returns registered names sorted
func (r *Registry) Keys() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	var result = make([]string, 0, len(r.registry))
	for k := range r.registry {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// NewRegistry creates a registry
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		registry: make(map[string]*Entry),
		logger:   log,
	}
}
