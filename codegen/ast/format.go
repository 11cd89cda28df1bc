package ast

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Format renders node as gofmt-ed Go source
func Format(node Node, options Options) ([]byte, error) {
	builder := NewBuilder(options)
	if err := node.Generate(builder); err != nil {
		return nil, err
	}
	return FormatSource([]byte(builder.String()))
}

// FormatSource formats Go source without resolving or pruning imports
func FormatSource(source []byte) ([]byte, error) {
	formatted, err := imports.Process("", source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format source: %w\n%s", err, source)
	}
	return formatted, nil
}
