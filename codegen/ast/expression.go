package ast

func NewCallExpr(holder Expression, name string, args ...Expression) *CallExpr {
	return &CallExpr{
		Receiver: holder,
		Name:     name,
		Args:     args,
	}
}

func (e *CallExpr) Generate(builder *Builder) (err error) {
	if e.Receiver != nil {
		if err = e.Receiver.Generate(builder); err != nil {
			return err
		}
		if err = builder.WriteString("."); err != nil {
			return err
		}
	}
	if err = builder.WriteString(e.Name); err != nil {
		return err
	}
	if err = builder.WriteString("("); err != nil {
		return err
	}
	if err = builder.generateList(e.Args, ", "); err != nil {
		return err
	}
	if e.Ellipsis && len(e.Args) > 0 {
		if err = builder.WriteString("..."); err != nil {
			return err
		}
	}
	return builder.WriteString(")")
}

func (s *StatementExpression) Generate(builder *Builder) (err error) {
	if err = builder.WriteIndentedString("\n"); err != nil {
		return err
	}
	return s.Expression.Generate(builder)
}

//NewStatementExpression return new statement expr
func NewStatementExpression(expr Expression) *StatementExpression {
	return &StatementExpression{Expression: expr}
}

func NewSelectorExpr(x Expression, sel string) *SelectorExpr {
	return &SelectorExpr{X: x, Sel: sel}
}

func (s *SelectorExpr) Generate(builder *Builder) error {
	if err := s.X.Generate(builder); err != nil {
		return err
	}
	return builder.WriteString("." + s.Sel)
}

func (t *TypeAssert) Generate(builder *Builder) error {
	if err := t.X.Generate(builder); err != nil {
		return err
	}
	if err := builder.WriteString(".("); err != nil {
		return err
	}
	if err := t.Type.Generate(builder); err != nil {
		return err
	}
	return builder.WriteString(")")
}

func (i *IndexExpr) Generate(builder *Builder) error {
	if err := i.X.Generate(builder); err != nil {
		return err
	}
	if err := builder.WriteString("["); err != nil {
		return err
	}
	if err := i.Index.Generate(builder); err != nil {
		return err
	}
	return builder.WriteString("]")
}

func (c *CompositeLit) Generate(builder *Builder) error {
	if err := c.Type.Generate(builder); err != nil {
		return err
	}
	if err := builder.WriteString("{"); err != nil {
		return err
	}
	if !c.Multiline {
		if err := builder.generateList(c.Elements, ", "); err != nil {
			return err
		}
		return builder.WriteString("}")
	}
	elementBuilder := builder.IncIndent(builder.Indent)
	for _, element := range c.Elements {
		if err := elementBuilder.WriteIndentedString("\n"); err != nil {
			return err
		}
		if err := element.Generate(elementBuilder); err != nil {
			return err
		}
		if err := elementBuilder.WriteString(","); err != nil {
			return err
		}
	}
	return builder.WriteIndentedString("\n}")
}

func (k *KeyValue) Generate(builder *Builder) error {
	if err := builder.WriteString(k.Key + ": "); err != nil {
		return err
	}
	return k.Value.Generate(builder)
}

func (b *BinaryExpr) Generate(builder *Builder) error {
	if err := b.X.Generate(builder); err != nil {
		return err
	}
	if err := builder.WriteString(" " + b.Op + " "); err != nil {
		return err
	}
	return b.Y.Generate(builder)
}

func (f *FuncLit) Generate(builder *Builder) error {
	if err := builder.WriteString("func"); err != nil {
		return err
	}
	if err := generateSignature(builder, f.Params, f.Results); err != nil {
		return err
	}
	return generateBody(builder, f.Body, f.Params)
}
