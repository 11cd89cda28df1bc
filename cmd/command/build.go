package command

import (
	"context"
	"fmt"

	"github.com/viant/xproxy/cmd/options"
	"github.com/viant/xproxy/config"
	"github.com/viant/xproxy/factory"
)

func (s *Service) build(ctx context.Context, build *options.Build) error {
	srv, err := s.newService(ctx, &build.Selection, func(cfg *config.Config) {
		if build.CacheURL != "" {
			cfg.CacheURL = build.CacheURL
		}
	})
	if err != nil {
		return err
	}
	requests, err := selectRequests(ctx, &build.Selection, factory.Module)
	if err != nil {
		return err
	}
	for _, request := range requests {
		entry, err := srv.Generate(ctx, request)
		if err != nil {
			return err
		}
		fmt.Printf("built %v (%v)\n", entry.Name, entry.Type.String())
	}
	return nil
}
