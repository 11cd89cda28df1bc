// Package xproxy generates, compiles, caches and activates proxies and duck adapters
package xproxy

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/xproxy/cache"
	"github.com/viant/xproxy/compiler"
	"github.com/viant/xproxy/config"
	"github.com/viant/xproxy/factory"
	"github.com/viant/xproxy/metric"
	"github.com/viant/xproxy/proxy"
	"github.com/viant/xproxy/reference"
	"github.com/viant/xproxy/typeinfo"
	"github.com/viant/xproxy/visibility"
)

//go:embed Version
var Version string

// Service represents runtime context shared by every generation request
type Service struct {
	config    *config.Config
	fs        afs.Service
	factory   *factory.Factory
	collector *reference.Collector
	checker   *visibility.Checker
	backend   compiler.Backend
	cache     *cache.Service
	registry  *cache.Registry
	logger    *slog.Logger
	metrics   *metric.Metrics
	resolver  reference.Resolver
	platform  []string
	host      struct {
		sync.Once
		path string
		err  error
	}
}

// Config returns service config
func (s *Service) Config() *config.Config {
	return s.config
}

// Registry returns activation registry
func (s *Service) Registry() *cache.Registry {
	return s.registry
}

// Generate returns loaded generated type for module mode request, compiling it once per identity
func (s *Service) Generate(ctx context.Context, request *factory.Request) (*cache.Entry, error) {
	if request.Mode != factory.Module {
		return nil, fmt.Errorf("%v request for %v: expected module mode", request.Kind, subjectName(request))
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	name := request.Name()
	if entry, ok := s.registry.Lookup(name); ok {
		return entry, nil
	}
	requesting, err := s.requesting(ctx, request)
	if err != nil {
		return nil, err
	}
	references, err := s.references(request)
	if err != nil {
		return nil, err
	}
	if err = s.checkVisibility(ctx, request, requesting); err != nil {
		return nil, err
	}
	return s.cache.Resolve(ctx, &cache.Request{
		Name:       name,
		Identity:   request.Identity(),
		References: references.Packages,
		Modules:    references.Modules(s.resolver),
		Compile: func(ctx context.Context, outputURL string) (string, error) {
			return s.compile(ctx, request, references, outputURL)
		},
	})
}

// New generates (or reuses) the proxy type and creates its instance from ordered constructor arguments
func (s *Service) New(ctx context.Context, request *factory.Request, args ...interface{}) (interface{}, error) {
	entry, err := s.Generate(ctx, request)
	if err != nil {
		return nil, err
	}
	return s.registry.Activate(entry.Name, args...)
}

// Activate creates instance of already registered generated type
func (s *Service) Activate(name string, args ...interface{}) (interface{}, error) {
	return s.registry.Activate(name, args...)
}

// Source generates unit mode source with diagnostics
func (s *Service) Source(ctx context.Context, request *factory.Request) (*factory.Result, error) {
	if request.Mode != factory.Unit {
		return nil, fmt.Errorf("%v request for %v: expected unit mode", request.Kind, subjectName(request))
	}
	if request.Package == "" {
		request.Package = s.config.GeneratedPackage
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	references, err := s.references(request)
	if err != nil {
		return nil, err
	}
	if err = s.checkVisibility(ctx, request, request.PackagePath); err != nil {
		return nil, err
	}
	result, err := s.generate(request)
	if err != nil {
		return nil, err
	}
	s.dumpSource(ctx, result, references)
	return result, nil
}

func (s *Service) generate(request *factory.Request) (*factory.Result, error) {
	done := s.metrics.Operation(metric.Generate).Track()
	result, err := s.factory.Build(request)
	done(err)
	if err != nil {
		return nil, err
	}
	for _, diagnostic := range result.Diagnostics {
		s.logger.Warn("generation diagnostic", "name", result.Name, "code", diagnostic.Code, "member", diagnostic.Member, "message", diagnostic.Message)
	}
	return result, nil
}

func (s *Service) compile(ctx context.Context, request *factory.Request, references *reference.Set, outputURL string) (string, error) {
	result, err := s.generate(request)
	if err != nil {
		return "", err
	}
	s.dumpSource(ctx, result, references)
	compileRequest := &compiler.Request{
		AssemblyName:    result.Name,
		OutputPath:      outputURL,
		References:      references.Packages,
		LanguageVersion: s.config.LanguageVersion,
		Platform:        s.platform,
	}
	for _, unit := range result.Units {
		compileRequest.Units = append(compileRequest.Units, &compiler.Unit{Name: unit.HintName, Source: unit.Source})
	}
	compiled, err := s.backend.Compile(ctx, compileRequest)
	if err != nil {
		var compileErr *compiler.Error
		if errors.As(err, &compileErr) {
			if location := s.dumpLog(ctx, result.Name, compileErr); location != "" {
				return "", fmt.Errorf("failed to compile %v, see %v: %w", result.Name, location, err)
			}
		}
		return "", fmt.Errorf("failed to compile %v: %w", result.Name, err)
	}
	return compiled.InfoURL, nil
}

func (s *Service) references(request *factory.Request) (*reference.Set, error) {
	roots := []typeinfo.Type{request.Subject}
	if request.Target != nil {
		roots = append(roots, request.Target)
	}
	set, err := s.collector.Collect(roots...)
	if err != nil {
		var dynamic *reference.DynamicAssemblyError
		if request.Mode == factory.Unit && errors.As(err, &dynamic) && dynamic.Package == request.PackagePath {
			return reference.NewSet(), nil
		}
		return nil, err
	}
	return set, nil
}

// checkVisibility checks request types and member signature types against requesting package
func (s *Service) checkVisibility(ctx context.Context, request *factory.Request, requesting string) error {
	types := []typeinfo.Type{request.Subject}
	if request.Target != nil {
		types = append(types, request.Target)
	}
	if request.Kind == factory.DuckAdapter && request.Target != nil {
		if err := s.checkFields(request.Target, requesting); err != nil {
			return err
		}
	}
	methods, err := request.Subject.Methods()
	if err != nil {
		return err
	}
	for _, method := range methods {
		if method.Accessibility == typeinfo.Private {
			continue
		}
		if err = s.checker.CheckMember(method, requesting); err != nil {
			return err
		}
		for _, params := range [][]*typeinfo.Parameter{method.Params, method.Results} {
			for _, param := range params {
				types = append(types, param.Type)
			}
		}
	}
	for _, candidate := range types {
		if err = s.checker.CheckType(ctx, candidate, requesting); err != nil {
			return err
		}
	}
	return nil
}

// checkFields checks func typed target fields a duck adapter can forward to
func (s *Service) checkFields(target typeinfo.Type, requesting string) error {
	if target.IsPointer() {
		target = target.Elem()
	}
	if !target.IsStruct() {
		return nil
	}
	fields, err := target.Fields()
	if err != nil {
		return err
	}
	for _, field := range fields {
		if field.Embedded || field.Accessibility == typeinfo.Private || field.AsMethod() == nil {
			continue
		}
		if err = s.checker.CheckField(field, requesting); err != nil {
			return err
		}
	}
	return nil
}

// requesting returns package path generated module code is compiled in
func (s *Service) requesting(ctx context.Context, request *factory.Request) (string, error) {
	if request.Mode == factory.Unit {
		return request.PackagePath, nil
	}
	s.host.Do(func() {
		host, err := compiler.DetectHost(ctx, s.fs, s.config.HostModuleURL)
		if err != nil {
			s.host.err = err
			return
		}
		s.host.path = host.Path + "/" + compiler.ScratchDir + "/module"
	})
	return s.host.path, s.host.err
}

// register drains compiled-in unit mode registrations
func (s *Service) register() {
	for _, descriptor := range proxy.Registered() {
		if _, err := s.registry.RegisterDescriptor(descriptor); err != nil {
			s.logger.Warn("invalid compiled-in descriptor", "error", err.Error())
		}
	}
	if keys := s.registry.Keys(); len(keys) > 0 {
		s.logger.Debug("compiled-in registrations", "names", keys)
	}
}

func subjectName(request *factory.Request) string {
	if request.Subject == nil {
		return ""
	}
	return request.Subject.FullName()
}

// platformReferences returns packages every generated unit depends on
func platformReferences(configured []string) []string {
	return reference.Merge(configured, []string{factory.RuntimePackage, "reflect"})
}
