package ast

import (
	"strconv"
)

type (
	// File represents a generated source file
	File struct {
		Comment string
		Package string
		Imports []*Import
		Decls   []Node
	}

	Import struct {
		Alias string
		Path  string
	}

	TypeDecl struct {
		Comment    string
		Name       string
		TypeParams []*TypeParam
		Type       Expression
	}

	TypeParam struct {
		Name       string
		Constraint Expression
	}

	StructType struct {
		Fields []*Field
	}

	// Field represents struct field, embedded when Name is empty
	Field struct {
		Name string
		Type Expression
	}

	Function struct {
		Comment    string
		Receiver   *Receiver
		Name       string
		TypeParams []*TypeParam
		Params     []*Param
		Results    []*Param
		Body       Block
	}

	Receiver struct {
		Name string
		Type Expression
	}

	Param struct {
		Name     string
		Type     Expression
		Variadic bool
	}

	// VarDecl represents package level variable
	VarDecl struct {
		Comment string
		Declare
	}
)

func (f *File) Generate(builder *Builder) error {
	if f.Comment != "" {
		if err := (&Comment{Text: f.Comment}).Generate(builder); err != nil {
			return err
		}
		if err := builder.WriteString("\n"); err != nil {
			return err
		}
	}
	if err := builder.WriteString("\npackage " + f.Package + "\n"); err != nil {
		return err
	}
	if len(f.Imports) > 0 {
		if err := builder.WriteString("\nimport ("); err != nil {
			return err
		}
		for _, item := range f.Imports {
			if err := item.Generate(builder); err != nil {
				return err
			}
		}
		if err := builder.WriteString("\n)\n"); err != nil {
			return err
		}
	}
	for _, decl := range f.Decls {
		if err := decl.Generate(builder); err != nil {
			return err
		}
		if err := builder.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}

func (i *Import) Generate(builder *Builder) error {
	if err := builder.WriteString("\n\t"); err != nil {
		return err
	}
	if i.Alias != "" {
		if err := builder.WriteString(i.Alias + " "); err != nil {
			return err
		}
	}
	return builder.WriteString(strconv.Quote(i.Path))
}

func (t *TypeDecl) Generate(builder *Builder) error {
	if err := generateDocComment(builder, t.Comment); err != nil {
		return err
	}
	if err := builder.WriteString("\ntype " + t.Name); err != nil {
		return err
	}
	if err := generateTypeParams(builder, t.TypeParams); err != nil {
		return err
	}
	if err := builder.WriteString(" "); err != nil {
		return err
	}
	return t.Type.Generate(builder)
}

func (s *StructType) Generate(builder *Builder) error {
	if err := builder.WriteString("struct {"); err != nil {
		return err
	}
	fieldBuilder := builder.IncIndent(builder.Indent)
	for _, field := range s.Fields {
		if err := fieldBuilder.WriteIndentedString("\n"); err != nil {
			return err
		}
		if err := field.Generate(fieldBuilder); err != nil {
			return err
		}
	}
	return builder.WriteIndentedString("\n}")
}

func (f *Field) Generate(builder *Builder) error {
	if f.Name != "" {
		if err := builder.WriteString(f.Name + " "); err != nil {
			return err
		}
	}
	return f.Type.Generate(builder)
}

func (p *Param) Generate(builder *Builder) error {
	if p.Name != "" {
		if err := builder.WriteString(p.Name + " "); err != nil {
			return err
		}
	}
	if p.Variadic {
		if err := builder.WriteString("..."); err != nil {
			return err
		}
	}
	return p.Type.Generate(builder)
}

func (r *Receiver) Generate(builder *Builder) error {
	if err := builder.WriteString("(" + r.Name + " "); err != nil {
		return err
	}
	if err := r.Type.Generate(builder); err != nil {
		return err
	}
	return builder.WriteString(") ")
}

func (f *Function) Generate(builder *Builder) error {
	if err := generateDocComment(builder, f.Comment); err != nil {
		return err
	}
	if err := builder.WriteIndentedString("\nfunc "); err != nil {
		return err
	}
	var declared []*Param
	if f.Receiver != nil {
		if err := f.Receiver.Generate(builder); err != nil {
			return err
		}
		declared = append(declared, &Param{Name: f.Receiver.Name})
	}
	if err := builder.WriteString(f.Name); err != nil {
		return err
	}
	if err := generateTypeParams(builder, f.TypeParams); err != nil {
		return err
	}
	if err := generateSignature(builder, f.Params, f.Results); err != nil {
		return err
	}
	return generateBody(builder, f.Body, append(declared, f.Params...))
}

func (v *VarDecl) Generate(builder *Builder) error {
	if err := generateDocComment(builder, v.Comment); err != nil {
		return err
	}
	return v.Declare.Generate(builder)
}

func generateDocComment(builder *Builder, comment string) error {
	if err := builder.WriteIndentedString("\n"); err != nil {
		return err
	}
	if comment == "" {
		return nil
	}
	return (&Comment{Text: comment}).Generate(builder)
}

func generateTypeParams(builder *Builder, params []*TypeParam) error {
	if len(params) == 0 {
		return nil
	}
	if err := builder.WriteString("["); err != nil {
		return err
	}
	for i, param := range params {
		if i > 0 {
			if err := builder.WriteString(", "); err != nil {
				return err
			}
		}
		if err := builder.WriteString(param.Name + " "); err != nil {
			return err
		}
		if err := param.Constraint.Generate(builder); err != nil {
			return err
		}
	}
	return builder.WriteString("]")
}

func generateSignature(builder *Builder, params, results []*Param) error {
	if err := builder.WriteString("("); err != nil {
		return err
	}
	for i, param := range params {
		if i > 0 {
			if err := builder.WriteString(", "); err != nil {
				return err
			}
		}
		if err := param.Generate(builder); err != nil {
			return err
		}
	}
	if err := builder.WriteString(")"); err != nil {
		return err
	}
	switch len(results) {
	case 0:
		return nil
	case 1:
		if results[0].Name == "" {
			if err := builder.WriteString(" "); err != nil {
				return err
			}
			return results[0].Generate(builder)
		}
	}
	if err := builder.WriteString(" ("); err != nil {
		return err
	}
	for i, result := range results {
		if i > 0 {
			if err := builder.WriteString(", "); err != nil {
				return err
			}
		}
		if err := result.Generate(builder); err != nil {
			return err
		}
	}
	return builder.WriteString(")")
}

func generateBody(builder *Builder, body Block, declared []*Param) error {
	if err := builder.WriteString(" {"); err != nil {
		return err
	}
	scope := builder.State.NextScope()
	for _, param := range declared {
		scope.DeclareVariable(param.Name)
	}
	bodyBuilder := builder.IncIndent(builder.Indent).WithScope(scope)
	if err := body.Generate(bodyBuilder); err != nil {
		return err
	}
	return builder.WriteIndentedString("\n}")
}
