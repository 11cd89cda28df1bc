package typeinfo

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken int = iota
	pointerToken
	sliceToken
	bracketToken
	parenToken
	braceToken
	mapToken
	recvChanToken
	sendChanToken
	chanToken
	emptyInterfaceToken
	funcToken
	structToken
	literalToken
	variadicToken
	tagToken
	nameToken
	commaToken
	semicolonToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var pointerMatcher = parsly.NewToken(pointerToken, "*", matcher.NewByte('*'))
var sliceMatcher = parsly.NewToken(sliceToken, "[]", matcher.NewFragment("[]"))
var bracketMatcher = parsly.NewToken(bracketToken, "[ .... ]", matcher.NewBlock('[', ']', '\\'))
var parenMatcher = parsly.NewToken(parenToken, "( .... )", matcher.NewBlock('(', ')', '\\'))
var braceMatcher = parsly.NewToken(braceToken, "{ .... }", matcher.NewBlock('{', '}', '\\'))
var mapMatcher = parsly.NewToken(mapToken, "map", &keyword{word: "map", follow: "["})
var recvChanMatcher = parsly.NewToken(recvChanToken, "<-chan", matcher.NewFragment("<-chan "))
var sendChanMatcher = parsly.NewToken(sendChanToken, "chan<-", matcher.NewFragment("chan<- "))
var chanMatcher = parsly.NewToken(chanToken, "chan", &keyword{word: "chan "})
var emptyInterfaceMatcher = parsly.NewToken(emptyInterfaceToken, "interface {}", matcher.NewFragment("interface {}"))
var funcMatcher = parsly.NewToken(funcToken, "func", &keyword{word: "func", follow: "("})
var structMatcher = parsly.NewToken(structToken, "struct", &keyword{word: "struct", follow: " {"})
var interfaceLiteralMatcher = parsly.NewToken(literalToken, "interface", &keyword{word: "interface", follow: " {"})
var variadicMatcher = parsly.NewToken(variadicToken, "...", matcher.NewFragment("..."))
var tagMatcher = parsly.NewToken(tagToken, "Tag", matcher.NewQuote('"', '\\'))
var nameMatcher = parsly.NewToken(nameToken, "Name", &qualifiedName{})
var commaMatcher = parsly.NewToken(commaToken, ",", matcher.NewByte(','))
var semicolonMatcher = parsly.NewToken(semicolonToken, ";", matcher.NewByte(';'))

// keyword matches word only when followed by one of follow bytes, empty follow accepts anything
type keyword struct {
	word   string
	follow string
}

func (k *keyword) Match(cursor *parsly.Cursor) int {
	end := cursor.Pos + len(k.word)
	if end > cursor.InputSize || string(cursor.Input[cursor.Pos:end]) != k.word {
		return 0
	}
	if k.follow == "" {
		return len(k.word)
	}
	if end == cursor.InputSize {
		return 0
	}
	for i := 0; i < len(k.follow); i++ {
		if cursor.Input[end] == k.follow[i] {
			return len(k.word)
		}
	}
	return 0
}

// qualifiedName matches package qualified identifier, i.e. gopkg.in/yaml.v3.Node
type qualifiedName struct{}

func (q *qualifiedName) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		switch c := cursor.Input[i]; c {
		case '[', ']', ',', ';', '(', ')', '{', '}', '*', '"':
			return matched
		default:
			if matcher.IsWhiteSpace(c) {
				return matched
			}
		}
		matched++
	}
	return matched
}

// peek returns the next non whitespace byte without moving the cursor, zero at the end of input
func peek(cursor *parsly.Cursor) byte {
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if c := cursor.Input[i]; !matcher.IsWhiteSpace(c) {
			return c
		}
	}
	return 0
}
