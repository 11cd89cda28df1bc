// Package compiler turns generated source units into loadable plugin modules
package compiler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/viant/pgo/build"
	"github.com/viant/xproxy/reference"
)

type (
	// Backend compiles generated units into a module
	Backend interface {
		Compile(ctx context.Context, request *Request) (*Result, error)
	}

	// Unit represents a single source file
	Unit struct {
		Name   string
		Source []byte
	}

	// Request represents compilation request
	Request struct {
		Units           []*Unit
		AssemblyName    string
		OutputPath      string
		References      []string
		LanguageVersion string
		Platform        []string
	}

	// Result represents compiled module, Module holds the artifact as persisted (gzip compressed for pgo)
	Result struct {
		Module  io.ReadSeeker
		Path    string
		InfoURL string
		Info    *build.Info
	}

	// Error represents compilation failure, it carries compiler diagnostics and the compiled source
	Error struct {
		Diagnostics []string
		Source      string
	}
)

func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "compilation failed"
	}
	return fmt.Sprintf("compilation failed with %v diagnostic(s): %v", len(e.Diagnostics), e.Diagnostics[0])
}

// Validate checks if request is valid
func (r *Request) Validate() error {
	if len(r.Units) == 0 {
		return fmt.Errorf("units were empty")
	}
	if r.AssemblyName == "" {
		return fmt.Errorf("assembly name was empty")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path was empty")
	}
	for _, unit := range r.Units {
		if unit.Name == "" {
			return fmt.Errorf("unit name was empty")
		}
	}
	return nil
}

// Packages returns request references merged with platform references
func (r *Request) Packages() []string {
	return MergeReferences(r.References, r.Platform)
}

// Source returns units source, used for error reporting
func (r *Request) Source() string {
	builder := strings.Builder{}
	for _, unit := range r.Units {
		builder.WriteString("// " + unit.Name + "\n")
		builder.Write(unit.Source)
		builder.WriteString("\n")
	}
	return builder.String()
}

// MergeReferences merges caller references with platform references, identity is case-insensitive package path
func MergeReferences(caller, platform []string) []string {
	return reference.Merge(caller, platform)
}

func diagnostics(output string) []string {
	var result []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, line)
	}
	return result
}
