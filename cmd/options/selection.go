package options

import (
	"fmt"
	"os"
	"strings"

	"github.com/viant/xproxy/factory"
)

// Selection selects types to generate proxies for
type Selection struct {
	Project   string   `short:"p" long:"proj" description:"host module location"`
	ConfigURL string   `short:"c" long:"conf" description:"xproxy config (yaml or json)"`
	Source    string   `short:"s" long:"src" description:"source package pattern" default:"."`
	Types     []string `short:"t" long:"type" description:"type name, closed generics as List[int]"`
	Kind      string   `short:"k" long:"kind" description:"interface, class, delegate or duck" default:"interface"`
	Target    string   `short:"T" long:"target" description:"duck adapter or proxy target type name"`
	Debug     bool     `short:"d" long:"debug" description:"debug logging"`
}

// Init initialises selection
func (s *Selection) Init() error {
	if s.Project == "" {
		s.Project, _ = os.Getwd()
	}
	s.Project = ensureAbsPath(s.Project)
	if s.ConfigURL != "" {
		expandRelativeIfNeeded(&s.ConfigURL, s.Project)
	}
	if s.Source == "" {
		s.Source = "."
	}
	if len(s.Types) == 0 {
		return fmt.Errorf("type was empty")
	}
	if _, err := s.RequestKind(); err != nil {
		return err
	}
	if s.Kind == factory.DuckAdapter.String() && s.Target == "" {
		return fmt.Errorf("duck adapter target was empty")
	}
	return nil
}

// RequestKind returns generation request kind
func (s *Selection) RequestKind() (factory.Kind, error) {
	for _, kind := range []factory.Kind{factory.InterfaceProxy, factory.ClassProxy, factory.DelegateProxy, factory.DuckAdapter} {
		if strings.EqualFold(kind.String(), s.Kind) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unsupported kind: %v", s.Kind)
}
