package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/xproxy/reference"
	"golang.org/x/mod/modfile"
)

const goModFile = "go.mod"

// Host represents module hosting generated units during compilation
type Host struct {
	URL      string
	Path     string
	Go       string
	Requires map[string]string
}

// Dir returns host module local directory
func (h *Host) Dir() string {
	return url.Path(h.URL)
}

// Module returns module providing package, or empty
func (h *Host) Module(pkg string) string {
	if within(pkg, h.Path) {
		return h.Path
	}
	matched := ""
	for module := range h.Requires {
		if within(pkg, module) && len(module) > len(matched) {
			matched = module
		}
	}
	return matched
}

// Missing returns diagnostics for non standard packages the host module can not resolve
func (h *Host) Missing(packages []string) []string {
	var result []string
	for _, pkg := range packages {
		if reference.IsStandard(pkg) || h.Module(pkg) != "" {
			continue
		}
		result = append(result, fmt.Sprintf("package %v: no required module provides package in host module %v", pkg, h.Path))
	}
	return result
}

func within(pkg, module string) bool {
	return pkg == module || strings.HasPrefix(pkg, module+"/")
}

// DetectHost finds the closest go.mod at or above location
func DetectHost(ctx context.Context, fs afs.Service, location string) (*Host, error) {
	location = url.Normalize(location, file.Scheme)
	for {
		modURL := url.Join(location, goModFile)
		if ok, _ := fs.Exists(ctx, modURL); ok {
			data, err := fs.DownloadWithURL(ctx, modURL)
			if err != nil {
				return nil, fmt.Errorf("failed to read %v: %w", modURL, err)
			}
			return parseHost(location, modURL, data)
		}
		parent, _ := url.Split(location, file.Scheme)
		if parent == location || url.Path(parent) == url.Path(location) || url.Path(location) == "/" {
			return nil, fmt.Errorf("failed to detect host module: %v not found", goModFile)
		}
		location = parent
	}
}

func parseHost(location, modURL string, data []byte) (*Host, error) {
	modFile, err := modfile.Parse(modURL, data, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid host module %v: %w", modURL, err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("invalid host module %v: missing module directive", modURL)
	}
	ret := &Host{URL: location, Path: modFile.Module.Mod.Path, Requires: map[string]string{}}
	if modFile.Go != nil {
		ret.Go = modFile.Go.Version
	}
	for _, require := range modFile.Require {
		ret.Requires[require.Mod.Path] = require.Mod.Version
	}
	for _, replace := range modFile.Replace {
		if _, ok := ret.Requires[replace.Old.Path]; !ok {
			ret.Requires[replace.Old.Path] = replace.New.Version
		}
	}
	return ret, nil
}
