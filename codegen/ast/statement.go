package ast

import "strings"

func (s *Assign) Generate(builder *Builder) (err error) {
	if err = builder.WriteIndentedString("\n"); err != nil {
		return err
	}
	return s.generate(builder)
}

func (s *Assign) generate(builder *Builder) (err error) {
	wasDeclared := true
	for _, holder := range s.Holders {
		if asIdent, ok := holder.(*Ident); ok && asIdent.Name != "_" && !builder.State.IsDeclared(asIdent.Name) {
			wasDeclared = false
		}
	}
	if err = builder.generateList(s.Holders, ", "); err != nil {
		return err
	}
	if err = s.appendGoAssignToken(builder, wasDeclared); err != nil {
		return err
	}
	if err = s.Expression.Generate(builder); err != nil {
		return err
	}
	if !wasDeclared {
		for _, holder := range s.Holders {
			if asIdent, ok := holder.(*Ident); ok {
				builder.State.DeclareVariable(asIdent.Name)
			}
		}
	}
	return nil
}

func (s *Assign) appendGoAssignToken(builder *Builder, isDeclared bool) error {
	if isDeclared {
		return builder.WriteString(" = ")
	}
	return builder.WriteString(" := ")
}

func NewAssign(holder Expression, expr Expression) *Assign {
	return &Assign{
		Holders:    []Expression{holder},
		Expression: expr,
	}
}

func (d *Declare) Generate(builder *Builder) error {
	if err := builder.WriteIndentedString("\nvar " + d.Name); err != nil {
		return err
	}
	if d.Type != nil {
		if err := builder.WriteString(" "); err != nil {
			return err
		}
		if err := d.Type.Generate(builder); err != nil {
			return err
		}
	}
	if d.Value != nil {
		if err := builder.WriteString(" = "); err != nil {
			return err
		}
		if err := d.Value.Generate(builder); err != nil {
			return err
		}
	}
	builder.State.DeclareVariable(d.Name)
	return nil
}

func (r *Return) Generate(builder *Builder) error {
	if err := builder.WriteIndentedString("\nreturn"); err != nil {
		return err
	}
	if len(r.Results) == 0 {
		return nil
	}
	if err := builder.WriteString(" "); err != nil {
		return err
	}
	return builder.generateList(r.Results, ", ")
}

func (s *If) Generate(builder *Builder) (err error) {
	if err = builder.WriteIndentedString("\nif "); err != nil {
		return err
	}
	scope := builder.State.NextScope()
	condBuilder := builder.WithScope(scope)
	if s.Init != nil {
		if err = s.Init.generate(condBuilder); err != nil {
			return err
		}
		if err = builder.WriteString("; "); err != nil {
			return err
		}
	}
	if err = s.Cond.Generate(condBuilder); err != nil {
		return err
	}
	if err = builder.WriteString(" {"); err != nil {
		return err
	}
	bodyBuilder := condBuilder.IncIndent(builder.Indent)
	if err = s.Body.Generate(bodyBuilder.WithScope(scope.NextScope())); err != nil {
		return err
	}
	if err = builder.WriteIndentedString("\n}"); err != nil {
		return err
	}
	if len(s.Else) == 0 {
		return nil
	}
	if err = builder.WriteString(" else {"); err != nil {
		return err
	}
	if err = s.Else.Generate(bodyBuilder.WithScope(scope.NextScope())); err != nil {
		return err
	}
	return builder.WriteIndentedString("\n}")
}

func NewIf(cond Expression, body Block) *If {
	return &If{Cond: cond, Body: body}
}

func (c *Comment) Generate(builder *Builder) error {
	for _, line := range strings.Split(c.Text, "\n") {
		if err := builder.WriteIndentedString("\n// " + line); err != nil {
			return err
		}
	}
	return nil
}
