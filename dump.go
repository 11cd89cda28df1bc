package xproxy

import (
	"bytes"
	"context"
	"strings"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/xproxy/compiler"
	"github.com/viant/xproxy/factory"
	"github.com/viant/xproxy/reference"
)

const (
	referencesExt = ".references"
	logExt        = ".log"
)

// dumpSource writes generated units and their reference listing, failures are logged only
func (s *Service) dumpSource(ctx context.Context, result *factory.Result, references *reference.Set) {
	if s.config.SourceDumpURL == "" {
		return
	}
	for _, unit := range result.Units {
		s.upload(ctx, url.Join(s.config.SourceDumpURL, unit.HintName), unit.Source)
	}
	if references != nil {
		s.upload(ctx, url.Join(s.config.SourceDumpURL, result.Name+referencesExt), []byte(references.Listing()))
	}
}

// dumpLog writes compilation diagnostics and source, returning log location or empty
func (s *Service) dumpLog(ctx context.Context, name string, compileErr *compiler.Error) string {
	if s.config.LogDumpURL == "" {
		return ""
	}
	builder := strings.Builder{}
	for _, diagnostic := range compileErr.Diagnostics {
		builder.WriteString(diagnostic)
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
	builder.WriteString(compileErr.Source)
	location := url.Join(s.config.LogDumpURL, name+logExt)
	if !s.upload(ctx, location, []byte(builder.String())) {
		return ""
	}
	return location
}

func (s *Service) upload(ctx context.Context, location string, data []byte) bool {
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		s.logger.Warn("failed to dump", "location", location, "error", err.Error())
		return false
	}
	return true
}
