package factory

import (
	"fmt"
	"strings"
)

// Severity represents diagnostic severity
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

const (
	//MissingImplementation reports interface member without compatible target member
	MissingImplementation = "XP0001"
	//UnsupportedMember reports member that can not be emitted
	UnsupportedMember = "XP0002"
)

// Diagnostic represents caller facing generation diagnostic
type Diagnostic struct {
	Code     string
	Severity Severity
	Type     string
	Member   string
	Message  string
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%v %v: %v.%v: %v", d.Severity, d.Code, d.Type, d.Member, d.Message)
}

// AggregateError reports every unsupported member of a proxy that can not be partially implemented
type AggregateError struct {
	Type        string
	Diagnostics []*Diagnostic
}

func (e *AggregateError) Error() string {
	var members []string
	for _, diagnostic := range e.Diagnostics {
		members = append(members, diagnostic.Member+": "+diagnostic.Message)
	}
	return fmt.Sprintf("failed to generate proxy for %v, %v unsupported member(s): %v", e.Type, len(e.Diagnostics), strings.Join(members, "; "))
}

// AmbiguousMatchError reports more than one compatible target member
type AmbiguousMatchError struct {
	Type       string
	Member     string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for %v.%v: %v", e.Type, e.Member, strings.Join(e.Candidates, ", "))
}

// UnsupportedTypeError reports type that can not be referenced by generated code
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %v: %v", e.Type, e.Reason)
}
