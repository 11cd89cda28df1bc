package xproxy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/gmetric"
	"github.com/viant/xproxy/cache"
	"github.com/viant/xproxy/compiler"
	"github.com/viant/xproxy/config"
	"github.com/viant/xproxy/factory"
	"github.com/viant/xproxy/logger"
	"github.com/viant/xproxy/metric"
	"github.com/viant/xproxy/reference"
	"github.com/viant/xproxy/visibility"
)

type (
	options struct {
		config   *config.Config
		fs       afs.Service
		backend  compiler.Backend
		loader   cache.Loader
		resolver reference.Resolver
		checker  *visibility.Checker
		logger   *slog.Logger
		metrics  *gmetric.Service
	}

	// Option represents service option
	Option func(o *options)
)

// WithConfig sets config
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithFs sets file system service
func WithFs(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithBackend sets compilation backend
func WithBackend(backend compiler.Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithLoader sets compiled module loader
func WithLoader(loader cache.Loader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithResolver sets package to module resolver, modules built into the running binary are used by default
func WithResolver(resolver reference.Resolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithChecker sets visibility checker
func WithChecker(checker *visibility.Checker) Option {
	return func(o *options) {
		o.checker = checker
	}
}

// WithLogger sets logger
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithMetrics sets metrics service
func WithMetrics(metrics *gmetric.Service) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

func (o *options) init() error {
	if o.config == nil {
		o.config = &config.Config{}
	}
	o.config.Init()
	if err := o.config.Validate(); err != nil {
		return err
	}
	if o.fs == nil {
		o.fs = afs.New()
	}
	if o.logger == nil {
		o.logger = logger.New(o.config.LogLevel, nil)
	}
	if o.metrics == nil {
		o.metrics = gmetric.New()
	}
	if o.loader == nil {
		o.loader = cache.NewPluginLoader()
	}
	if o.resolver == nil {
		o.resolver = reference.BuildInfoResolver()
	}
	if o.backend == nil {
		switch o.config.Backend {
		case config.PGOBackend:
			o.backend = compiler.NewPGO(o.config.HostModuleURL)
		default:
			o.backend = compiler.NewGoBuild(o.config.HostModuleURL, compiler.WithFs(o.fs))
		}
	}
	if o.checker == nil {
		checkerOptions := []visibility.Option{visibility.WithGrants(o.config.Grants)}
		if o.config.ProbeTypes {
			hostDir := url.Path(o.config.HostModuleURL)
			checkerOptions = append(checkerOptions, visibility.WithProber(func(ctx context.Context, source []byte) ([]string, error) {
				return compiler.Probe(ctx, hostDir, source)
			}))
		}
		o.checker = visibility.New(checkerOptions...)
	}
	return nil
}

// New creates runtime context
func New(ctx context.Context, opts ...Option) (*Service, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.init(); err != nil {
		return nil, err
	}
	metrics := metric.New(o.metrics)
	registry := cache.NewRegistry(o.logger)
	store := cache.NewStore(o.config.CacheURL, o.fs)
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialise cache: %w", err)
	}
	ret := &Service{
		config:    o.config,
		fs:        o.fs,
		factory:   factory.New(),
		collector: reference.New(reference.WithMembers(true)),
		checker:   o.checker,
		backend:   o.backend,
		registry:  registry,
		logger:    o.logger,
		metrics:   metrics,
		resolver:  o.resolver,
		platform:  platformReferences(o.config.Platform),
	}
	ret.cache = cache.NewService(registry, store,
		cache.WithLoader(o.loader),
		cache.WithLogger(o.logger),
		cache.WithMetrics(metrics),
		cache.WithGenerator(Version),
	)
	ret.register()
	return ret, nil
}
