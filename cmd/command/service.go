package command

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/xproxy"
	"github.com/viant/xproxy/cmd/options"
	"github.com/viant/xproxy/config"
	"github.com/viant/xproxy/logger"
)

// Service executes command line commands
type Service struct {
	fs afs.Service
}

// Exec runs selected command
func (s *Service) Exec(ctx context.Context, opts *options.Options) error {
	switch {
	case opts.Generate != nil:
		return s.generate(ctx, opts.Generate)
	case opts.Build != nil:
		return s.build(ctx, opts.Build)
	}
	return fmt.Errorf("unsupported command: %v", opts.Command)
}

func (s *Service) newService(ctx context.Context, selection *options.Selection, adjust func(cfg *config.Config)) (*xproxy.Service, error) {
	cfg := &config.Config{}
	if selection.ConfigURL != "" {
		var err error
		if cfg, err = config.NewConfigFromURL(ctx, selection.ConfigURL); err != nil {
			return nil, err
		}
	}
	if cfg.HostModuleURL == "" {
		cfg.HostModuleURL = selection.Project
	}
	if selection.Debug {
		cfg.LogLevel = logger.DEBUG
	}
	if adjust != nil {
		adjust(cfg)
	}
	return xproxy.New(ctx,
		xproxy.WithConfig(cfg),
		xproxy.WithFs(s.fs),
		xproxy.WithLogger(logger.New(cfg.LogLevel, os.Stderr)),
	)
}

func (s *Service) upload(ctx context.Context, location string, data []byte) error {
	return s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data))
}

// New creates command service
func New() *Service {
	return &Service{fs: afs.New()}
}
