package sql

import "fmt"

type TokenKind int

const (
	KEYWORD_TOKEN TokenKind = iota
	IDENT_TOKEN
	SYMBOL_TOKEN
	NUMBER_TOKEN
	STRING_TOKEN
	END_TOKEN
)

var tokenKindNames = [...]string{
	KEYWORD_TOKEN: "KEYWORD",
	IDENT_TOKEN:   "IDENTIFIER",
	SYMBOL_TOKEN:  "SYMBOL",
	NUMBER_TOKEN:  "NUMBER",
	STRING_TOKEN:  "STRING",
	END_TOKEN:     "END",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokenKindNames[k]
}

// Token is one lexical unit. Pos is the byte offset of its first character
// in the statement text (the opening quote for strings).
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case END_TOKEN:
		return "EOF"
	case STRING_TOKEN:
		return fmt.Sprintf("'%s'", t.Text)
	}
	return t.Text
}

func (t Token) isKeyword(kw string) bool {
	return t.Kind == KEYWORD_TOKEN && t.Text == kw
}

func (t Token) isSymbol(sym string) bool {
	return t.Kind == SYMBOL_TOKEN && t.Text == sym
}

// Keywords are matched case-sensitively: "select" lexes as an identifier.
var keywords = map[string]struct{}{
	"CREATE": {},
	"TABLE":  {},
	"SELECT": {},
	"INSERT": {},
	"INTO":   {},
	"VALUES": {},
	"UPDATE": {},
	"SET":    {},
	"DELETE": {},
	"FROM":   {},
	"WHERE":  {},
	"AND":    {},
	"OR":     {},
}

func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

var twoCharSymbols = map[string]struct{}{
	"!=": {},
	"<=": {},
	">=": {},
}
