package ast

import (
	"strconv"
	"strings"
)

type (
	Scope struct {
		Variables map[string]*Variable
		Parent    *Scope
	}

	Variable struct {
		Name string
	}
)

func NewScope(declaredVariables ...string) *Scope {
	variables := map[string]*Variable{}
	for _, variable := range declaredVariables {
		variables[variable] = &Variable{Name: variable}
	}
	return &Scope{
		Variables: variables,
	}
}

func (s *Scope) NextScope() *Scope {
	scope := NewScope()
	scope.Parent = s
	return scope
}

func (s *Scope) DeclareVariable(variable string) {
	split := strings.Split(variable, ".")
	if len(split) > 0 {
		variable = split[0]
	}
	if variable == "" || variable == "_" {
		return
	}
	if s.Variables[variable] != nil {
		return
	}

	s.Variables[variable] = &Variable{
		Name: variable,
	}
}

func (s *Scope) IsDeclared(variable string) bool {
	dotIndex := strings.Index(variable, ".")
	if dotIndex >= 0 {
		return true
	}

	tmp := s
	for tmp != nil {
		if _, ok := tmp.Variables[variable]; ok {
			return true
		}

		tmp = tmp.Parent
	}

	return false
}

// Unique declares and returns name, or the first free name suffixed with an ordinal
func (s *Scope) Unique(name string) string {
	candidate := name
	for i := 1; s.IsDeclared(candidate) || isKeyword(candidate); i++ {
		candidate = name + strconv.Itoa(i)
	}
	s.DeclareVariable(candidate)
	return candidate
}

var keywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true, "default": true,
	"defer": true, "else": true, "fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func isKeyword(name string) bool {
	return keywords[name]
}
