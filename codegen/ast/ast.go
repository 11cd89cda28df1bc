package ast

type (
	Node interface {
		Generate(builder *Builder) error
	}
	Statement interface {
		Node
	}

	Expression interface {
		Node
	} //can be BinaryExpr or CallExpr or Selector Expr

	Block []Statement

	Ident struct {
		Name string
	}

	Assign struct {
		Holders    []Expression
		Expression Expression
	}

	Declare struct {
		Name  string
		Type  Expression
		Value Expression
	}

	Return struct {
		Results []Expression
	}

	If struct {
		Init *Assign
		Cond Expression
		Body Block
		Else Block
	}

	Comment struct {
		Text string
	}

	CallExpr struct {
		Receiver Expression
		Name     string
		Args     []Expression
		Ellipsis bool
	}

	StatementExpression struct {
		Expression
	}

	SelectorExpr struct {
		X   Expression
		Sel string
	}

	TypeAssert struct {
		X    Expression
		Type Expression
	}

	IndexExpr struct {
		X     Expression
		Index Expression
	}

	CompositeLit struct {
		Type      Expression
		Elements  []Expression
		Multiline bool
	}

	KeyValue struct {
		Key   string
		Value Expression
	}

	BinaryExpr struct {
		X  Expression
		Op string
		Y  Expression
	}

	LiteralExpr struct {
		Literal string
	}

	FuncLit struct {
		Params  []*Param
		Results []*Param
		Body    Block
	}

	Options struct {
		Indent string
	}
)

func (b *Block) Append(statement Statement) {
	*b = append(*b, statement)
}

func (b *Block) AppendEmptyLine() {
	b.Append(NewStatementExpression(NewLiteral("")))
}

func (b Block) Generate(builder *Builder) error {
	for _, stmt := range b {
		if err := stmt.Generate(builder); err != nil {
			return err
		}
	}
	return nil
}

func (e Ident) Generate(builder *Builder) (err error) {
	return builder.WriteString(e.Name)
}

func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}
