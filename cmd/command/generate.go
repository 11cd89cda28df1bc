package command

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/xproxy/cmd/options"
	"github.com/viant/xproxy/factory"
)

func (s *Service) generate(ctx context.Context, gen *options.Generate) error {
	srv, err := s.newService(ctx, &gen.Selection, nil)
	if err != nil {
		return err
	}
	requests, err := selectRequests(ctx, &gen.Selection, factory.Unit)
	if err != nil {
		return err
	}
	pkgName := gen.Package
	if pkgName == "" {
		pkgName = path.Base(strings.TrimRight(url.Path(gen.Dest), "/"))
	}
	for _, request := range requests {
		request.Package = pkgName
		request.PackagePath = gen.PackagePath
		result, err := srv.Source(ctx, request)
		if err != nil {
			return err
		}
		for _, unit := range result.Units {
			location := url.Join(gen.Dest, unit.HintName)
			if err = s.upload(ctx, location, unit.Source); err != nil {
				return fmt.Errorf("failed to write %v: %w", location, err)
			}
			fmt.Printf("generated %v\n", location)
		}
		for _, diagnostic := range result.Diagnostics {
			fmt.Printf("%v\n", diagnostic.String())
		}
	}
	return nil
}
