package sql

import "unicode/utf8"

// cursor is the whole lexer state: the offset of the next unread byte and at
// most one token handed back by the parser.
type cursor struct {
	offset  int
	held    Token
	hasHeld bool
}

// Lexer pulls tokens from one statement at a time. It is not safe for
// concurrent use; Reset it before reusing it for another statement.
type Lexer struct {
	sql string
	cur cursor
}

func NewLexer(sql string) *Lexer {
	return &Lexer{sql: sql}
}

// Reset points the lexer at a new statement and drops any pending pushback.
func (l *Lexer) Reset(sql string) {
	l.sql = sql
	l.cur = cursor{}
}

// Next returns the next token. Once the input is exhausted every call
// returns an END token. On error the position is left unchanged.
func (l *Lexer) Next() (Token, error) {
	tok, cur, err := lex(l.sql, l.cur)
	if err != nil {
		return tok, err
	}
	l.cur = cur
	return tok, nil
}

// PushBack makes tok the result of the next call to Next. Only one token is
// held: a second PushBack before Next replaces the first.
func (l *Lexer) PushBack(tok Token) {
	l.cur = pushBack(l.cur, tok)
}

func pushBack(cur cursor, tok Token) cursor {
	cur.held = tok
	cur.hasHeld = true
	return cur
}

func lex(sql string, cur cursor) (Token, cursor, error) {
	if cur.hasHeld {
		tok := cur.held
		cur.held = Token{}
		cur.hasHeld = false
		return tok, cur, nil
	}

	start := skipSpace(sql, cur.offset)
	if start >= len(sql) {
		return Token{Kind: END_TOKEN, Pos: len(sql)}, cursor{offset: len(sql)}, nil
	}

	c := sql[start]
	end := start + 1
	switch {
	case isLetter(c):
		for end < len(sql) && (isLetter(sql[end]) || isDigit(sql[end]) || sql[end] == '_') {
			end++
		}
		word := sql[start:end]
		kind := IDENT_TOKEN
		if IsKeyword(word) {
			kind = KEYWORD_TOKEN
		}
		return Token{Kind: kind, Text: word, Pos: start}, cursor{offset: end}, nil

	case isDigit(c):
		for end < len(sql) && isDigit(sql[end]) {
			end++
		}
		return Token{Kind: NUMBER_TOKEN, Text: sql[start:end], Pos: start}, cursor{offset: end}, nil

	case c == '\'' || c == '"':
		for end < len(sql) && sql[end] != c {
			end++
		}
		if end >= len(sql) {
			return Token{}, cur, &SyntaxError{
				Kind:  ErrUnterminatedString,
				Found: Token{Kind: STRING_TOKEN, Text: sql[start+1:], Pos: start},
				Pos:   start,
			}
		}
		// quotes are dropped, the content is kept verbatim
		return Token{Kind: STRING_TOKEN, Text: sql[start+1 : end], Pos: start}, cursor{offset: end + 1}, nil
	}

	if start+2 <= len(sql) {
		if _, ok := twoCharSymbols[sql[start:start+2]]; ok {
			return Token{Kind: SYMBOL_TOKEN, Text: sql[start : start+2], Pos: start}, cursor{offset: start + 2}, nil
		}
	}
	// anything else is a one-character symbol, even when no rule uses it
	_, size := utf8.DecodeRuneInString(sql[start:])
	return Token{Kind: SYMBOL_TOKEN, Text: sql[start : start+size], Pos: start}, cursor{offset: start + size}, nil
}

func skipSpace(sql string, offset int) int {
	for offset < len(sql) {
		switch sql[offset] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			offset++
		default:
			return offset
		}
	}
	return offset
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
