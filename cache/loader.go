package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"debug/buildinfo"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/pgo/build"
	"github.com/viant/pgo/manager"
	"github.com/viant/xproxy/proxy"
	"github.com/viant/xproxy/reference"
)

// Loader loads generated type descriptor from compiled module described by its plugin info
type Loader interface {
	Load(ctx context.Context, infoURL string) (*proxy.Descriptor, error)
}

// LoadError represents module that could not be opened, Differences lists dependencies built with other versions than the running binary
type LoadError struct {
	URL         string
	Err         error
	Differences []string
}

func (e *LoadError) Error() string {
	if len(e.Differences) == 0 {
		return fmt.Sprintf("failed to open module %v: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to open module %v: %v, dependency difference: %v", e.URL, e.Err, strings.Join(e.Differences, ", "))
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// PluginLoader loads modules built with -buildmode=plugin through the pgo plugin manager
type PluginLoader struct {
	manager *manager.Service
	fs      afs.Service
	running func() []string
}

// Load opens plugin and resolves its exported descriptor
func (l *PluginLoader) Load(ctx context.Context, infoURL string) (*proxy.Descriptor, error) {
	info, aPlugin, err := l.manager.OpenWithInfoURL(ctx, infoURL)
	if err != nil {
		return nil, &LoadError{URL: infoURL, Err: err, Differences: l.differences(ctx, infoURL, info)}
	}
	symbol, err := aPlugin.Lookup(proxy.SymbolName)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup %v in %v: %w", proxy.SymbolName, infoURL, err)
	}
	var descriptor *proxy.Descriptor
	switch actual := symbol.(type) {
	case **proxy.Descriptor:
		descriptor = *actual
	case *proxy.Descriptor:
		descriptor = actual
	default:
		return nil, fmt.Errorf("unsupported %v symbol type %T in %v", proxy.SymbolName, symbol, infoURL)
	}
	if err = descriptor.Validate(); err != nil {
		return nil, fmt.Errorf("invalid module %v: %w", infoURL, err)
	}
	return descriptor, nil
}

// differences compares module dependencies with the running binary ones, nothing is reported when the module can not be read
func (l *PluginLoader) differences(ctx context.Context, infoURL string, info *build.Info) []string {
	if info == nil {
		return nil
	}
	data, err := l.moduleBinary(ctx, infoURL, info)
	if err != nil {
		return nil
	}
	moduleInfo, err := buildinfo.Read(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	built := reference.Versions(append([]*debug.Module{&moduleInfo.Main}, moduleInfo.Deps...))
	return reference.Diff(built, l.running())
}

func (l *PluginLoader) moduleBinary(ctx context.Context, infoURL string, info *build.Info) ([]byte, error) {
	moduleURL := strings.Replace(infoURL, infoExt, moduleExt, 1)
	if info.Compression != "gzip" {
		return l.fs.DownloadWithURL(ctx, moduleURL)
	}
	data, err := l.fs.DownloadWithURL(ctx, moduleURL+gzipExt)
	if err != nil {
		return nil, err
	}
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// NewPluginLoader creates plugin loader accepting any module sequence change number
func NewPluginLoader() *PluginLoader {
	return &PluginLoader{
		manager: manager.New(0),
		fs:      afs.New(),
		running: func() []string { return reference.Versions(reference.BuildModules()) },
	}
}
