package factory

import (
	"bytes"
	"fmt"

	"github.com/viant/xproxy/codegen"
	"github.com/viant/xproxy/codegen/ast"
	"github.com/viant/xproxy/proxy"
)

type (
	// Factory builds generated source units for generation requests
	Factory struct {
		options ast.Options
	}

	// SourceUnit represents generated compilation unit or chunk
	SourceUnit struct {
		HintName  string
		ClassName string
		Chunk     bool
		Mode      Mode
		Source    []byte
	}

	// Result represents generation result
	Result struct {
		Name        string
		Package     string
		Kind        Kind
		Units       []*SourceUnit
		Diagnostics []*Diagnostic
	}
)

// Source returns all units source concatenated
func (r *Result) Source() []byte {
	buffer := bytes.Buffer{}
	for i, unit := range r.Units {
		if i > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString("// " + unit.HintName + "\n")
		buffer.Write(unit.Source)
	}
	return buffer.Bytes()
}

// Build generates source units for the request
func (f *Factory) Build(request *Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	g := newGenerator(request)
	var err error
	switch request.Kind {
	case InterfaceProxy:
		err = interfaceProxy(g)
	case ClassProxy:
		err = classProxy(g)
	case DelegateProxy:
		err = delegateProxy(g)
	case DuckAdapter:
		err = duckAdapter(g)
	}
	if err != nil {
		return nil, err
	}
	source, err := ast.Format(g.file(), f.options)
	if err != nil {
		return nil, fmt.Errorf("failed to format %v: %w", g.name, err)
	}
	result := &Result{
		Name:        g.name,
		Package:     request.PackageName(),
		Kind:        request.Kind,
		Diagnostics: g.diagnostics,
		Units:       []*SourceUnit{{HintName: g.name + ".go", ClassName: g.name, Mode: request.Mode, Source: source}},
	}
	bootstrap, err := f.bootstrap(g)
	if err != nil {
		return nil, err
	}
	if bootstrap != nil {
		result.Units = append(result.Units, bootstrap)
	}
	return result, nil
}

// bootstrap emits chunk exporting the generated type descriptor; in Unit mode the descriptor registers itself
func (f *Factory) bootstrap(g *generator) (*SourceUnit, error) {
	if g.isGeneric() {
		return nil, nil
	}
	imports := codegen.NewImports(g.name, g.activator)
	proxyPkg := imports.AddPackage(RuntimePackage)
	reflectPkg := imports.AddPackage("reflect")
	descriptor := DescriptorName(g.name, g.request.Mode)
	decls := []ast.Node{
		&ast.VarDecl{
			Comment: descriptor + " describes " + g.name,
			Declare: ast.Declare{
				Name: descriptor,
				Value: ast.NewRefExpression(&ast.CompositeLit{
					Type:      ast.NewLiteral(proxyPkg + ".Descriptor"),
					Multiline: true,
					Elements: []ast.Expression{
						&ast.KeyValue{Key: "Name", Value: ast.NewQuotedLiteral(g.name)},
						&ast.KeyValue{Key: "Type", Value: ast.NewCallExpr(ast.NewIdent(reflectPkg), "TypeOf", ast.NewLiteral("(*"+g.name+")(nil)"))},
						&ast.KeyValue{Key: "Activator", Value: ast.NewIdent(g.activator)},
					},
				}),
			},
		},
	}
	if g.request.Mode == Module {
		decls = append(decls, &ast.Function{Name: "main"})
	} else {
		decls = append(decls, &ast.Function{
			Name: "init",
			Body: ast.Block{ast.NewStatementExpression(ast.NewCallExpr(ast.NewIdent(proxyPkg), "Register", ast.NewIdent(descriptor)))},
		})
	}
	file := &ast.File{
		Comment: generatedComment,
		Package: g.request.PackageName(),
		Imports: imports.Specs(),
		Decls:   decls,
	}
	source, err := ast.Format(file, f.options)
	if err != nil {
		return nil, fmt.Errorf("failed to format %v bootstrap: %w", g.name, err)
	}
	return &SourceUnit{HintName: g.name + "_bootstrap.go", ClassName: g.name, Chunk: true, Mode: g.request.Mode, Source: source}, nil
}

// DescriptorName returns name of the variable holding generated type descriptor
func DescriptorName(name string, mode Mode) string {
	if mode == Module {
		return proxy.SymbolName
	}
	return lowerFirst(name) + "Descriptor"
}

// New creates a factory
func New() *Factory {
	return &Factory{options: ast.Options{Indent: "\t"}}
}
