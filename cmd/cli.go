package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/viant/xproxy/cmd/command"
	"github.com/viant/xproxy/cmd/options"
)

// RunApp parses command line arguments and runs selected command
func RunApp(version string, args options.Arguments) error {
	opts, err := buildOptions(args)
	if err != nil || opts == nil {
		return err
	}
	if opts.Version {
		fmt.Printf("xproxy: version: %v\n", strings.TrimSpace(version))
		return nil
	}
	ctx := context.Background()
	if err = opts.Init(ctx); err != nil {
		return err
	}
	return command.New().Exec(ctx, opts)
}

func buildOptions(args options.Arguments) (*options.Options, error) {
	opts := &options.Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, err
	}
	if parser.Active != nil {
		opts.Activate(parser.Active.Name)
	}
	return opts, nil
}
