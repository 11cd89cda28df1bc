package compiler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/pgo/build"
)

type (
	// Runner executes command in dir, returning combined output
	Runner func(ctx context.Context, dir string, cmd string, args ...string) (string, error)

	// GoBuild compiles units with go build -buildmode=plugin inside the host module
	GoBuild struct {
		fs      afs.Service
		hostURL string
		goBin   string
		run     Runner
		once    sync.Once
		runtime build.Runtime
	}

	// GoBuildOption represents go build backend option
	GoBuildOption func(b *GoBuild)
)

// WithGoBin sets go binary location
func WithGoBin(goBin string) GoBuildOption {
	return func(b *GoBuild) {
		b.goBin = goBin
	}
}

// WithRunner sets command runner
func WithRunner(run Runner) GoBuildOption {
	return func(b *GoBuild) {
		b.run = run
	}
}

// WithFs sets file system service
func WithFs(fs afs.Service) GoBuildOption {
	return func(b *GoBuild) {
		b.fs = fs
	}
}

// Compile builds request units as a plugin module
func (b *GoBuild) Compile(ctx context.Context, request *Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	host, err := DetectHost(ctx, b.fs, b.hostURL)
	if err != nil {
		return nil, err
	}
	if missing := host.Missing(request.Packages()); len(missing) > 0 {
		return nil, &Error{Diagnostics: missing, Source: request.Source()}
	}
	location, err := scratch(ctx, b.fs, host, request.Units)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.fs.Delete(context.Background(), location) }()
	output := url.Join(location, request.AssemblyName+".so")
	args := []string{"build", "-buildmode=plugin", "-trimpath", "-o", url.Path(output)}
	if version := request.LanguageVersion; version != "" {
		args = append(args, "-gcflags=-lang=go"+strings.TrimPrefix(version, "go"))
	}
	args = append(args, "./"+strings.TrimPrefix(strings.TrimPrefix(url.Path(location), host.Dir()), "/"))
	if out, err := b.run(ctx, host.Dir(), b.goBin, args...); err != nil {
		diags := diagnostics(out)
		if len(diags) == 0 {
			diags = []string{err.Error()}
		}
		return nil, &Error{Diagnostics: diags, Source: request.Source()}
	}
	data, err := b.fs.DownloadWithURL(ctx, output)
	if err != nil {
		return nil, fmt.Errorf("failed to read built module %v: %w", output, err)
	}
	info := &build.Info{Name: request.AssemblyName, Scn: build.NewSequenceChangeNumber(time.Now()), Runtime: b.toolchain(ctx, host.Dir())}
	return persist(ctx, b.fs, request.OutputPath, data, info)
}

// toolchain returns runtime of the go binary building modules, the running process runtime is used when it can not be detected
func (b *GoBuild) toolchain(ctx context.Context, dir string) build.Runtime {
	b.once.Do(func() {
		b.runtime = build.NewRuntime()
		out, err := b.run(ctx, dir, b.goBin, "env", "GOVERSION")
		if fields := strings.Fields(out); err == nil && len(fields) > 0 && strings.HasPrefix(fields[0], "go") {
			b.runtime.Version = strings.TrimPrefix(fields[0], "go")
		}
	})
	return b.runtime
}

func runCommand(ctx context.Context, dir string, cmd string, args ...string) (string, error) {
	command := exec.CommandContext(ctx, cmd, args...)
	command.Env = os.Environ()
	command.Dir = dir
	output, err := command.CombinedOutput()
	if err != nil {
		return string(output), err
	}
	return string(output), nil
}

// NewGoBuild creates go build backend for host module at or above hostURL
func NewGoBuild(hostURL string, opts ...GoBuildOption) *GoBuild {
	ret := &GoBuild{fs: afs.New(), hostURL: hostURL, goBin: "go", run: runCommand}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
