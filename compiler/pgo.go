package compiler

import (
	"context"
	"runtime"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/pgo"
)

// PGO compiles units with the pgo plugin builder
type PGO struct {
	fs        afs.Service
	hostURL   string
	goVersion string
	buildArgs []string
}

// Compile builds request units as a plugin module
func (p *PGO) Compile(ctx context.Context, request *Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	host, err := DetectHost(ctx, p.fs, p.hostURL)
	if err != nil {
		return nil, err
	}
	if missing := host.Missing(request.Packages()); len(missing) > 0 {
		return nil, &Error{Diagnostics: missing, Source: request.Source()}
	}
	location, err := scratch(ctx, p.fs, host, request.Units)
	if err != nil {
		return nil, err
	}
	defer func() { _ = p.fs.Delete(context.Background(), location) }()
	destURL := url.Join(location, "dist")
	_ = p.fs.Create(ctx, destURL, file.DefaultDirOsMode, true)
	buildArgs := append([]string{}, p.buildArgs...)
	if version := request.LanguageVersion; version != "" {
		buildArgs = append(buildArgs, "-gcflags=-lang=go"+strings.TrimPrefix(version, "go"))
	}
	options := &pgo.Options{
		Name:        request.AssemblyName,
		SourceURL:   []string{host.Dir()},
		DestURL:     url.Path(destURL),
		Arch:        runtime.GOARCH,
		Os:          runtime.GOOS,
		Version:     p.goVersion,
		MainPath:    strings.TrimPrefix(strings.TrimPrefix(url.Path(location), host.Dir()), "/"),
		BuildArgs:   buildArgs,
		Compression: "gzip",
	}
	if err = pgo.Build(options); err != nil {
		return nil, &Error{Diagnostics: diagnostics(err.Error()), Source: request.Source()}
	}
	data, info, err := builtModule(ctx, p.fs, destURL)
	if err != nil {
		return nil, err
	}
	return persist(ctx, p.fs, request.OutputPath, data, info)
}

// NewPGO creates pgo backend for host module at or above hostURL
func NewPGO(hostURL string, buildArgs ...string) *PGO {
	if len(buildArgs) == 0 {
		buildArgs = []string{"-trimpath"}
	}
	return &PGO{fs: afs.New(), hostURL: hostURL, goVersion: strings.Replace(runtime.Version(), "go", "", 1), buildArgs: buildArgs}
}
