// Package cache stores, loads and serves generated types once per identity
package cache

import (
	"bytes"
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/vmihailenco/msgpack/v5"
)

// manifestSchema changes whenever Manifest layout changes
const manifestSchema uint16 = 1

const (
	moduleExt   = ".so"
	gzipExt     = ".gz"
	infoExt     = ".pinf"
	manifestExt = ".manifest"
)

// Manifest describes persisted module
type Manifest struct {
	Schema     uint16
	Name       string
	Key        string
	Identity   string
	GoVersion  string
	Generator  string
	References []string
	Modules    []string
	Created    time.Time
}

// Matches returns true if persisted manifest can serve expected one
func (m *Manifest) Matches(expected *Manifest) bool {
	return m.Schema == manifestSchema &&
		m.Name == expected.Name &&
		m.Key == expected.Key &&
		m.GoVersion == expected.GoVersion &&
		m.Generator == expected.Generator &&
		slices.Equal(m.Modules, expected.Modules)
}

// NewManifest creates manifest for generated name and identity built by the running toolchain
func NewManifest(name, identity, generator string) *Manifest {
	return &Manifest{
		Schema:    manifestSchema,
		Name:      name,
		Key:       Hash(identity),
		Identity:  identity,
		GoVersion: runtime.Version(),
		Generator: generator,
	}
}

// Store represents on-disk module cache
type Store struct {
	URL     string
	service afs.Service
}

// Init ensures cache directory, an existing directory is not an error
func (s *Store) Init(ctx context.Context) error {
	if ok, _ := s.service.Exists(ctx, s.URL); ok {
		return nil
	}
	if err := s.service.Create(ctx, s.URL, file.DefaultDirOsMode, true); err != nil {
		if ok, _ := s.service.Exists(ctx, s.URL); ok {
			return nil
		}
		return errors.Wrapf(err, "failed to create cache %v", s.URL)
	}
	return nil
}

// ModuleURL returns module location for generated name, compressed module is stored with .gz suffix
func (s *Store) ModuleURL(name string) string {
	return url.Join(s.URL, name+moduleExt)
}

// InfoURL returns plugin info location for generated name
func (s *Store) InfoURL(name string) string {
	return url.Join(s.URL, name+infoExt)
}

func (s *Store) manifestURL(name string) string {
	return url.Join(s.URL, name+manifestExt)
}

// Lookup returns persisted manifest when both manifest and plugin info exist and the manifest matches expected
func (s *Store) Lookup(ctx context.Context, expected *Manifest) (*Manifest, bool, error) {
	manifestURL := s.manifestURL(expected.Name)
	if ok, _ := s.service.Exists(ctx, manifestURL, option.NewObjectKind(true)); !ok {
		return nil, false, nil
	}
	if ok, _ := s.service.Exists(ctx, s.InfoURL(expected.Name), option.NewObjectKind(true)); !ok {
		return nil, false, nil
	}
	data, err := s.service.DownloadWithURL(ctx, manifestURL)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to load manifest %v", manifestURL)
	}
	manifest := &Manifest{}
	if err = msgpack.Unmarshal(data, manifest); err != nil {
		return nil, false, nil
	}
	if !manifest.Matches(expected) {
		return manifest, false, nil
	}
	return manifest, true, nil
}

// Put persists manifest, module has to be stored first
func (s *Store) Put(ctx context.Context, manifest *Manifest) error {
	if manifest.Created.IsZero() {
		manifest.Created = time.Now()
	}
	data, err := msgpack.Marshal(manifest)
	if err != nil {
		return errors.Wrapf(err, "failed to encode manifest %v", manifest.Name)
	}
	return s.service.Upload(ctx, s.manifestURL(manifest.Name), file.DefaultFileOsMode, bytes.NewReader(data))
}

// Delete removes module, its plugin info and manifest
func (s *Store) Delete(ctx context.Context, name string) error {
	for _, URL := range []string{s.manifestURL(name), s.InfoURL(name), s.ModuleURL(name), s.ModuleURL(name) + gzipExt} {
		if ok, _ := s.service.Exists(ctx, URL, option.NewObjectKind(true)); !ok {
			continue
		}
		if err := s.service.Delete(ctx, URL, option.NewObjectKind(true)); err != nil {
			return errors.Wrapf(err, "failed to delete %v", URL)
		}
	}
	return nil
}

// NewStore creates module store
func NewStore(URL string, service afs.Service) *Store {
	return &Store{URL: URL, service: service}
}
