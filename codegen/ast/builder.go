package ast

import "strings"

// Builder accumulates generated Go text
type Builder struct {
	Options
	buffer *strings.Builder
	indent string
	State  *Scope
}

// WriteString writes text as is
func (b *Builder) WriteString(text string) error {
	_, err := b.buffer.WriteString(text)
	return err
}

// WriteIndentedString writes text, indenting every new line
func (b *Builder) WriteIndentedString(text string) error {
	if b.indent != "" {
		text = strings.ReplaceAll(text, "\n", "\n"+b.indent)
	}
	return b.WriteString(text)
}

// IncIndent returns builder sharing the buffer with extended indentation
func (b *Builder) IncIndent(indent string) *Builder {
	return &Builder{Options: b.Options, buffer: b.buffer, indent: b.indent + indent, State: b.State}
}

// WithScope returns builder sharing the buffer with a child scope
func (b *Builder) WithScope(scope *Scope) *Builder {
	return &Builder{Options: b.Options, buffer: b.buffer, indent: b.indent, State: scope}
}

func (b *Builder) String() string {
	return b.buffer.String()
}

func (b *Builder) generateList(nodes []Expression, separator string) error {
	for i, node := range nodes {
		if i > 0 {
			if err := b.WriteString(separator); err != nil {
				return err
			}
		}
		if err := node.Generate(b); err != nil {
			return err
		}
	}
	return nil
}

// NewBuilder creates a builder
func NewBuilder(options Options, declared ...string) *Builder {
	if options.Indent == "" {
		options.Indent = "\t"
	}
	return &Builder{Options: options, buffer: &strings.Builder{}, State: NewScope(declared...)}
}
