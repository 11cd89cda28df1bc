package compiler

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"golang.org/x/tools/go/packages"
)

const probeMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedImports

// Probe type checks a throwaway unit placed in dir and returns its diagnostics
func Probe(ctx context.Context, dir string, source []byte) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fs := afs.New()
	probeDir := filepath.Join(dir, ScratchDir, "probe_"+uuid.New().String())
	probeFile := filepath.Join(probeDir, "probe.go")
	if err = fs.Upload(ctx, probeFile, file.DefaultFileOsMode, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("failed to write scratch unit: %w", err)
	}
	defer func() { _ = fs.Delete(context.Background(), probeDir) }()
	cfg := &packages.Config{Context: ctx, Dir: dir, Mode: probeMode}
	pkgs, err := packages.Load(cfg, probeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to type check scratch unit: %w", err)
	}
	var result []string
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			result = append(result, pkgErr.Msg)
		}
	}
	return result, nil
}
