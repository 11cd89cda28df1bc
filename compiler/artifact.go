package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/pgo/build"
)

// ScratchDir is the host module directory holding transient build packages
const ScratchDir = "xproxy_build"

const (
	moduleExt = ".so"
	infoExt   = ".pinf"
	gzipExt   = ".gz"
)

// InfoURL returns plugin info location for module URL, i.e. cache/Proxy.so -> cache/Proxy.pinf
func InfoURL(moduleURL string) string {
	return strings.Replace(moduleURL, moduleExt, infoExt, 1)
}

// scratch writes units into a uniquely named package directory inside the host module
func scratch(ctx context.Context, fs afs.Service, host *Host, units []*Unit) (string, error) {
	location := url.Join(host.URL, ScratchDir, uuid.New().String())
	for _, unit := range units {
		if err := fs.Upload(ctx, url.Join(location, unit.Name), file.DefaultFileOsMode, bytes.NewReader(unit.Source)); err != nil {
			_ = fs.Delete(ctx, location)
			return "", errors.Wrapf(err, "failed to write unit %v", unit.Name)
		}
	}
	return location, nil
}

// persist stores compiled module with its plugin info next to output URL, compressed module gets .gz suffix
func persist(ctx context.Context, fs afs.Service, outputURL string, data []byte, info *build.Info) (*Result, error) {
	moduleURL := outputURL
	if info.Compression == "gzip" {
		moduleURL += gzipExt
	}
	if err := fs.Upload(ctx, moduleURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrapf(err, "failed to persist module %v", moduleURL)
	}
	infoData, err := json.Marshal(info)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode plugin info %v", info.Name)
	}
	infoURL := InfoURL(outputURL)
	if err = fs.Upload(ctx, infoURL, file.DefaultFileOsMode, bytes.NewReader(infoData)); err != nil {
		return nil, errors.Wrapf(err, "failed to persist plugin info %v", infoURL)
	}
	return &Result{Module: bytes.NewReader(data), Path: url.Path(moduleURL), InfoURL: infoURL, Info: info}, nil
}

// builtModule returns the module artifact as built under location with its plugin info
func builtModule(ctx context.Context, fs afs.Service, location string) ([]byte, *build.Info, error) {
	objects, err := fs.List(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	var data []byte
	var info *build.Info
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		switch path.Ext(object.Name()) {
		case gzipExt, moduleExt:
			if data, err = fs.Download(ctx, object); err != nil {
				return nil, nil, err
			}
		case infoExt:
			infoData, err := fs.Download(ctx, object)
			if err != nil {
				return nil, nil, err
			}
			info = &build.Info{}
			if err = json.Unmarshal(infoData, info); err != nil {
				return nil, nil, fmt.Errorf("invalid plugin info %v: %w", object.URL(), err)
			}
		}
	}
	if data == nil {
		return nil, nil, fmt.Errorf("module binary not found: %v", location)
	}
	if info == nil {
		return nil, nil, fmt.Errorf("plugin info not found: %v", location)
	}
	return data, info, nil
}
