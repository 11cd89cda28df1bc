package typeinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

type (
	// typeExpr represents a parsed runtime type name, i.e. a generic type argument rendered by reflect
	typeExpr struct {
		kind     Kind
		pkg      string
		name     string
		args     []*typeExpr
		elem     *typeExpr
		key      *typeExpr
		length   int
		dir      ChanDir
		params   []*typeExpr
		results  []*typeExpr
		variadic bool
		fields   []*fieldExpr
		raw      string
	}

	// fieldExpr represents struct literal field
	fieldExpr struct {
		name     string
		embedded bool
		tag      string
		expr     *typeExpr
	}
)

// isLiteral returns true for unnamed struct shape
func (e *typeExpr) isLiteral() bool {
	return e.kind == Struct && e.name == ""
}

func (e *typeExpr) canonical() string {
	switch e.kind {
	case Pointer:
		return "*" + e.elem.canonical()
	case Slice:
		return "[]" + e.elem.canonical()
	case Array:
		return "[" + strconv.Itoa(e.length) + "]" + e.elem.canonical()
	case Map:
		return "map[" + e.key.canonical() + "]" + e.elem.canonical()
	case Chan:
		return chanPrefix(e.dir) + e.elem.canonical()
	case Func:
		return "func" + e.signature()
	case Invalid:
		return e.raw
	}
	if e.isLiteral() {
		if len(e.fields) == 0 {
			return "struct {}"
		}
		var fields []string
		for _, field := range e.fields {
			if field.embedded {
				fields = append(fields, field.expr.canonical())
				continue
			}
			fields = append(fields, field.name+" "+field.expr.canonical())
		}
		return "struct { " + strings.Join(fields, "; ") + " }"
	}
	var args []string
	for _, arg := range e.args {
		args = append(args, arg.canonical())
	}
	return qualify(e.pkg, genericName(canonicalBasic(e.name), args))
}

func (e *typeExpr) signature() string {
	var params []string
	for i, param := range e.params {
		if e.variadic && i == len(e.params)-1 {
			params = append(params, "..."+param.elem.canonical())
			continue
		}
		params = append(params, param.canonical())
	}
	ret := "(" + strings.Join(params, ", ") + ")"
	switch len(e.results) {
	case 0:
		return ret
	case 1:
		return ret + " " + e.results[0].canonical()
	}
	var results []string
	for _, result := range e.results {
		results = append(results, result.canonical())
	}
	return ret + " (" + strings.Join(results, ", ") + ")"
}

// splitGenericName splits reflect name i.e. List[int,string] into base name and arguments
func splitGenericName(name string) (string, []*typeExpr, error) {
	index := strings.IndexByte(name, '[')
	if index == -1 || !strings.HasSuffix(name, "]") {
		return name, nil, nil
	}
	args, err := parseTypeExprs(name[index+1 : len(name)-1])
	if err != nil {
		return "", nil, err
	}
	return name[:index], args, nil
}

// parseTypeExprs parses comma separated type expressions
func parseTypeExprs(text string) ([]*typeExpr, error) {
	result, variadic, err := parseParams(text)
	if err == nil && variadic {
		err = fmt.Errorf("unexpected variadic type in %v", text)
	}
	return result, err
}

// parseParams parses comma separated type expressions where the last one can be variadic
func parseParams(text string) ([]*typeExpr, bool, error) {
	if strings.TrimSpace(text) == "" {
		return nil, false, nil
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	var result []*typeExpr
	for {
		variadic := false
		if cursor.MatchAfterOptional(whitespaceMatcher, variadicMatcher).Code == variadicToken {
			variadic = true
		}
		expr, err := parseTypeExpr(cursor)
		if err != nil {
			return nil, false, err
		}
		if variadic {
			expr = &typeExpr{kind: Slice, elem: expr}
		}
		result = append(result, expr)
		matched := cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher)
		switch matched.Code {
		case commaToken:
			if variadic {
				return nil, false, fmt.Errorf("variadic parameter has to be last in %v", text)
			}
		case parsly.EOF:
			return result, variadic, nil
		default:
			return nil, false, fmt.Errorf("unexpected token at %v in %v", cursor.Pos, text)
		}
	}
}

func parseTypeExpr(cursor *parsly.Cursor) (*typeExpr, error) {
	matched := cursor.MatchAfterOptional(whitespaceMatcher,
		pointerMatcher, sliceMatcher, bracketMatcher,
		recvChanMatcher, sendChanMatcher, chanMatcher, mapMatcher,
		emptyInterfaceMatcher, funcMatcher, structMatcher, interfaceLiteralMatcher,
		nameMatcher)
	switch matched.Code {
	case pointerToken:
		return elemOf(cursor, Pointer)
	case sliceToken:
		return elemOf(cursor, Slice)
	case bracketToken:
		block := matched.Text(cursor)
		length, err := strconv.Atoi(strings.TrimSpace(block[1 : len(block)-1]))
		if err != nil {
			return nil, fmt.Errorf("invalid array length %v: %w", block, err)
		}
		expr, err := elemOf(cursor, Array)
		if err != nil {
			return nil, err
		}
		expr.length = length
		return expr, nil
	case mapToken:
		keyBlock := cursor.MatchOne(bracketMatcher)
		if keyBlock.Code != bracketToken {
			return nil, fmt.Errorf("invalid map key at %v in %s", cursor.Pos, cursor.Input)
		}
		block := keyBlock.Text(cursor)
		keys, err := parseTypeExprs(block[1 : len(block)-1])
		if err != nil {
			return nil, err
		}
		if len(keys) != 1 {
			return nil, fmt.Errorf("invalid map key: %v", block)
		}
		expr, err := elemOf(cursor, Map)
		if err != nil {
			return nil, err
		}
		expr.key = keys[0]
		return expr, nil
	case recvChanToken:
		return chanOf(cursor, RecvDir)
	case sendChanToken:
		return chanOf(cursor, SendDir)
	case chanToken:
		return chanOf(cursor, BothDir)
	case emptyInterfaceToken:
		return &typeExpr{kind: Interface, name: "interface {}"}, nil
	case funcToken:
		return funcExpr(cursor)
	case structToken:
		return structExpr(cursor)
	case literalToken:
		return literalExpr(cursor, matched.Offset)
	case nameToken:
		return namedExpr(cursor, matched.Text(cursor))
	case parsly.EOF:
		return nil, fmt.Errorf("unexpected end of type expression: %s", cursor.Input)
	}
	return nil, fmt.Errorf("expected type at %v in %s", cursor.Pos, cursor.Input)
}

func elemOf(cursor *parsly.Cursor, kind Kind) (*typeExpr, error) {
	elem, err := parseTypeExpr(cursor)
	if err != nil {
		return nil, err
	}
	return &typeExpr{kind: kind, elem: elem}, nil
}

func chanOf(cursor *parsly.Cursor, dir ChanDir) (*typeExpr, error) {
	expr, err := elemOf(cursor, Chan)
	if err != nil {
		return nil, err
	}
	expr.dir = dir
	return expr, nil
}

// funcExpr parses func shape, i.e. func(int, ...string) (string, error)
func funcExpr(cursor *parsly.Cursor) (*typeExpr, error) {
	params := cursor.MatchOne(parenMatcher)
	if params.Code != parenToken {
		return nil, fmt.Errorf("invalid func parameters at %v in %s", cursor.Pos, cursor.Input)
	}
	block := params.Text(cursor)
	expr := &typeExpr{kind: Func}
	var err error
	if expr.params, expr.variadic, err = parseParams(block[1 : len(block)-1]); err != nil {
		return nil, err
	}
	switch peek(cursor) {
	case 0, ',', ';', '"':
		return expr, nil
	case '(':
		results := cursor.MatchAfterOptional(whitespaceMatcher, parenMatcher)
		if results.Code != parenToken {
			return nil, fmt.Errorf("invalid func results at %v in %s", cursor.Pos, cursor.Input)
		}
		block = results.Text(cursor)
		if expr.results, err = parseTypeExprs(block[1 : len(block)-1]); err != nil {
			return nil, err
		}
		return expr, nil
	}
	result, err := parseTypeExpr(cursor)
	if err != nil {
		return nil, err
	}
	expr.results = []*typeExpr{result}
	return expr, nil
}

// structExpr parses struct shape, i.e. struct { Name string "json:\"name\""; io.Reader }
func structExpr(cursor *parsly.Cursor) (*typeExpr, error) {
	body := cursor.MatchAfterOptional(whitespaceMatcher, braceMatcher)
	if body.Code != braceToken {
		return nil, fmt.Errorf("invalid struct at %v in %s", cursor.Pos, cursor.Input)
	}
	block := body.Text(cursor)
	expr := &typeExpr{kind: Struct}
	fieldCursor := parsly.NewCursor("", []byte(block[1:len(block)-1]), 0)
	for peek(fieldCursor) != 0 {
		field, err := fieldOf(fieldCursor)
		if err != nil {
			return nil, err
		}
		expr.fields = append(expr.fields, field)
		switch fieldCursor.MatchAfterOptional(whitespaceMatcher, semicolonMatcher).Code {
		case semicolonToken, parsly.EOF:
		default:
			return nil, fmt.Errorf("unexpected token at %v in %s", fieldCursor.Pos, fieldCursor.Input)
		}
	}
	return expr, nil
}

func fieldOf(cursor *parsly.Cursor) (*fieldExpr, error) {
	start := cursor.Pos
	field := &fieldExpr{}
	if name := cursor.MatchAfterOptional(whitespaceMatcher, nameMatcher); name.Code == nameToken {
		separated := cursor.Pos < cursor.InputSize && matcher.IsWhiteSpace(cursor.Input[cursor.Pos])
		switch peek(cursor) {
		case 0, ';', '"':
		default:
			if separated {
				field.name = name.Text(cursor)
			}
		}
	}
	if field.name == "" {
		cursor.Pos = start
		field.embedded = true
	}
	var err error
	if field.expr, err = parseTypeExpr(cursor); err != nil {
		return nil, err
	}
	if field.embedded {
		field.name = field.expr.name
		if field.expr.kind == Pointer {
			field.name = field.expr.elem.name
		}
	}
	if peek(cursor) == '"' {
		tag := cursor.MatchAfterOptional(whitespaceMatcher, tagMatcher)
		if tag.Code != tagToken {
			return nil, fmt.Errorf("invalid field tag at %v in %s", cursor.Pos, cursor.Input)
		}
		if field.tag, err = strconv.Unquote(tag.Text(cursor)); err != nil {
			return nil, err
		}
	}
	return field, nil
}

// literalExpr keeps interface literal verbatim, it is never resolvable at runtime
func literalExpr(cursor *parsly.Cursor, start int) (*typeExpr, error) {
	body := cursor.MatchAfterOptional(whitespaceMatcher, braceMatcher)
	if body.Code != braceToken {
		return nil, fmt.Errorf("invalid interface at %v in %s", cursor.Pos, cursor.Input)
	}
	return &typeExpr{kind: Invalid, raw: string(cursor.Input[start:cursor.Pos])}, nil
}

func namedExpr(cursor *parsly.Cursor, qualified string) (*typeExpr, error) {
	expr := &typeExpr{kind: Basic, name: qualified}
	slash := strings.LastIndexByte(qualified, '/')
	if dot := strings.LastIndexByte(qualified, '.'); dot > slash {
		expr.kind = Struct //named, actual kind is determined on resolution
		expr.pkg = qualified[:dot]
		expr.name = qualified[dot+1:]
	}
	args := cursor.MatchOne(bracketMatcher)
	if args.Code != bracketToken {
		return expr, nil
	}
	block := args.Text(cursor)
	var err error
	if expr.args, err = parseTypeExprs(block[1 : len(block)-1]); err != nil {
		return nil, err
	}
	return expr, nil
}
