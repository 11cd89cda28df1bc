// Package config defines runtime context configuration
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

const (
	GoBuildBackend = "gobuild"
	PGOBackend     = "pgo"
)

// Config represents generation pipeline configuration, values are passed through opaquely
type Config struct {
	CacheURL         string              `json:",omitempty" yaml:"CacheURL,omitempty"`
	SourceDumpURL    string              `json:",omitempty" yaml:"SourceDumpURL,omitempty"`
	LogDumpURL       string              `json:",omitempty" yaml:"LogDumpURL,omitempty"`
	LanguageVersion  string              `json:",omitempty" yaml:"LanguageVersion,omitempty"`
	HostModuleURL    string              `json:",omitempty" yaml:"HostModuleURL,omitempty"`
	GeneratedPackage string              `json:",omitempty" yaml:"GeneratedPackage,omitempty"`
	Backend          string              `json:",omitempty" yaml:"Backend,omitempty"`
	Grants           map[string][]string `json:",omitempty" yaml:"Grants,omitempty"`
	Platform         []string            `json:",omitempty" yaml:"Platform,omitempty"`
	LogLevel         string              `json:",omitempty" yaml:"LogLevel,omitempty"`
	ProbeTypes       bool                `json:",omitempty" yaml:"ProbeTypes,omitempty"`
}

// Init sets defaults
func (c *Config) Init() {
	if c.CacheURL == "" {
		c.CacheURL = url.Join(url.Normalize(os.TempDir(), file.Scheme), "xproxy", "cache")
	}
	if c.HostModuleURL == "" {
		c.HostModuleURL = url.Normalize(".", file.Scheme)
	}
	if c.Backend == "" {
		c.Backend = GoBuildBackend
	}
	if c.GeneratedPackage == "" {
		c.GeneratedPackage = "proxies"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.Grants == nil {
		c.Grants = map[string][]string{}
	}
}

// Validate checks if config is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case GoBuildBackend, PGOBackend:
	default:
		return fmt.Errorf("unsupported backend: %v", c.Backend)
	}
	if c.CacheURL == "" {
		return fmt.Errorf("CacheURL was empty")
	}
	return nil
}

// NewConfigFromURL loads JSON or YAML config
func NewConfigFromURL(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	switch strings.ToLower(path.Ext(URL)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %v: %w", URL, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %v: %w", URL, err)
		}
	}
	cfg.Init()
	return cfg, cfg.Validate()
}
