package sql

import "strings"

// SplitStatements cuts a script at every ';' outside a string literal.
// Blank statements are dropped. An unterminated string swallows the rest of
// the script into the last statement, where Parse reports it.
func SplitStatements(script string) []string {
	var stmts []string
	l := NewLexer(script)
	start := 0
	for {
		tok, err := l.Next()
		if err != nil || tok.Kind == END_TOKEN {
			break
		}
		if tok.isSymbol(";") {
			stmts = appendStatement(stmts, script[start:tok.Pos])
			start = tok.Pos + 1
		}
	}
	return appendStatement(stmts, script[start:])
}

func appendStatement(stmts []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return stmts
	}
	return append(stmts, s)
}
