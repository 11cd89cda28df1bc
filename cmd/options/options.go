package options

import (
	"context"
	"fmt"
)

const (
	GenerateCommand = "gen"
	BuildCommand    = "build"
)

// Options represents command line options
type Options struct {
	Generate *Generate `command:"gen" description:"generate proxy or duck adapter source into a package"`
	Build    *Build    `command:"build" description:"compile proxy modules into the cache"`
	Version  bool      `short:"v" long:"version" description:"show version"`
	Command  string    `no-flag:"true"`
}

// Activate keeps only the named command options
func (o *Options) Activate(name string) {
	o.Command = name
	if name != GenerateCommand {
		o.Generate = nil
	}
	if name != BuildCommand {
		o.Build = nil
	}
}

// Init initialises selected command
func (o *Options) Init(ctx context.Context) error {
	switch {
	case o.Generate != nil:
		return o.Generate.Init()
	case o.Build != nil:
		return o.Build.Init()
	case o.Version:
		return nil
	}
	return fmt.Errorf("command was empty, expected one of: %v, %v", GenerateCommand, BuildCommand)
}

// Selection returns type selection of the active command
func (o *Options) Selection() *Selection {
	if o.Generate != nil {
		return &o.Generate.Selection
	}
	if o.Build != nil {
		return &o.Build.Selection
	}
	return nil
}
