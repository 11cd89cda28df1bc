package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/xproxy/logger"
	"github.com/viant/xproxy/metric"
	"github.com/viant/xproxy/proxy"
	"github.com/viant/xproxy/reference"
	"golang.org/x/sync/singleflight"
)

// State represents generated type resolution state
type State int

const (
	Unresolved State = iota
	Compiling
	Loaded
	Failed
)

var stateNames = [...]string{"unresolved", "compiling", "loaded", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

type (
	// Compile builds module at output URL, returning its plugin info URL
	Compile func(ctx context.Context, outputURL string) (string, error)

	// Request represents resolution request, Modules lists path@version of referenced modules
	Request struct {
		Name       string
		Identity   string
		References []string
		Modules    []string
		Compile    Compile
	}

	// Service resolves generated types: registry first, then on-disk store, then compilation
	Service struct {
		registry  *Registry
		store     *Store
		loader    Loader
		generator string
		logger    *slog.Logger
		metrics   *metric.Metrics
		group     singleflight.Group
		mux       sync.RWMutex
		states    map[string]State
	}

	// ServiceOption represents service option
	ServiceOption func(s *Service)
)

// WithLoader sets module loader
func WithLoader(loader Loader) ServiceOption {
	return func(s *Service) {
		s.loader = loader
	}
}

// WithLogger sets logger
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = log
	}
}

// WithMetrics sets metrics
func WithMetrics(metrics *metric.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithGenerator sets generator version recorded in manifests
func WithGenerator(version string) ServiceOption {
	return func(s *Service) {
		s.generator = version
	}
}

// Registry returns activation registry
func (s *Service) Registry() *Registry {
	return s.registry
}

// Store returns module store
func (s *Service) Store() *Store {
	return s.store
}

// State returns resolution state for generated name
func (s *Service) State(name string) State {
	if _, ok := s.registry.Lookup(name); ok {
		return Loaded
	}
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.states[name]
}

func (s *Service) setState(name string, state State) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.states[name] = state
}

// Resolve returns loaded entry, concurrent requests for the same name share one compilation.
// Cancelling ctx releases only this caller, the shared resolution keeps running.
func (s *Service) Resolve(ctx context.Context, request *Request) (*Entry, error) {
	if entry, ok := s.registry.Lookup(request.Name); ok {
		s.metrics.Operation(metric.Resolve).Count(metric.Hit)
		return entry, nil
	}
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(request.Name, func() (interface{}, error) {
		return s.resolve(detached, request)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*Entry), nil
	}
}

func (s *Service) resolve(ctx context.Context, request *Request) (*Entry, error) {
	if entry, ok := s.registry.Lookup(request.Name); ok {
		return entry, nil
	}
	expected := NewManifest(request.Name, request.Identity, s.generator)
	expected.References = request.References
	expected.Modules = request.Modules
	manifest, ok, err := s.store.Lookup(ctx, expected)
	if err != nil {
		return nil, err
	}
	if ok {
		s.metrics.Operation(metric.Resolve).Count(metric.Hit)
		s.logger.Debug("module cache hit", "name", request.Name, "created", manifest.Created)
		entry, err := s.load(ctx, request.Name, s.store.InfoURL(request.Name))
		if err == nil {
			return entry, nil
		}
		s.logger.Warn("cached module failed to load, recompiling", "name", request.Name, "error", err.Error())
	} else if manifest != nil {
		s.logger.Info("stale module manifest, recompiling", "name", request.Name, "goVersion", manifest.GoVersion, "generator", manifest.Generator,
			"modules", reference.Diff(manifest.Modules, expected.Modules))
	}
	s.metrics.Operation(metric.Resolve).Count(metric.Miss)
	return s.compile(ctx, request, expected)
}

func (s *Service) compile(ctx context.Context, request *Request, manifest *Manifest) (*Entry, error) {
	if request.Compile == nil {
		return nil, fmt.Errorf("module %v is not cached and no compilation was provided", request.Name)
	}
	s.setState(request.Name, Compiling)
	done := s.metrics.Operation(metric.Compile).Track()
	s.logger.Info("compiling module", "name", request.Name)
	infoURL, err := request.Compile(ctx, s.store.ModuleURL(request.Name))
	done(err)
	if err != nil {
		s.setState(request.Name, Failed)
		return nil, err
	}
	if err = s.store.Put(ctx, manifest); err != nil {
		s.setState(request.Name, Failed)
		return nil, err
	}
	if infoURL == "" {
		infoURL = s.store.InfoURL(request.Name)
	}
	entry, err := s.load(ctx, request.Name, infoURL)
	if err != nil {
		s.setState(request.Name, Failed)
		return nil, err
	}
	return entry, nil
}

func (s *Service) load(ctx context.Context, name, infoURL string) (*Entry, error) {
	descriptor, err := s.loadDescriptor(ctx, name, infoURL)
	if err != nil {
		return nil, err
	}
	if _, err = s.registry.RegisterDescriptor(descriptor); err != nil {
		return nil, err
	}
	s.setState(name, Loaded)
	return s.registry.Get(name)
}

func (s *Service) loadDescriptor(ctx context.Context, name, infoURL string) (descriptor *proxy.Descriptor, err error) {
	done := s.metrics.Operation(metric.Load).Track()
	defer func() { done(err) }()
	if descriptor, err = s.loader.Load(ctx, infoURL); err != nil {
		return nil, err
	}
	if descriptor.Name != name {
		return nil, fmt.Errorf("module %v exports %v", infoURL, descriptor.Name)
	}
	return descriptor, nil
}

// NewService creates cache service
func NewService(registry *Registry, store *Store, opts ...ServiceOption) *Service {
	ret := &Service{
		registry: registry,
		store:    store,
		loader:   NewPluginLoader(),
		states:   map[string]State{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = logger.Nop()
	}
	if ret.metrics == nil {
		ret.metrics = metric.New(nil)
	}
	return ret
}
