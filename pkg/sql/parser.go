package sql

import "unicode/utf8"

// Parser is a recursive-descent parser for one statement at a time. Each
// Parse call resets the lexer, so a Parser can be reused for sequential
// statements but not shared between goroutines.
type Parser struct {
	lexer *Lexer
}

func NewParser() *Parser {
	return &Parser{lexer: NewLexer("")}
}

// ParseSQL parses a single statement with a fresh Parser.
func ParseSQL(sql string) (Statement, error) {
	return NewParser().Parse(sql)
}

// Parse parses the statement in sql. Parsing stops as soon as the grammar
// rule of the statement is complete; a trailing ';' and anything after it
// are never read.
func (p *Parser) Parse(sql string) (Statement, error) {
	p.lexer.Reset(sql)

	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}

	if tok.Kind == KEYWORD_TOKEN {
		switch tok.Text {
		case "CREATE":
			return p.parseCreate()
		case "SELECT":
			return p.parseSelect()
		case "INSERT":
			return p.parseInsert()
		case "UPDATE":
			return p.parseUpdate()
		case "DELETE":
			return p.parseDelete()
		}
	}
	return nil, &SyntaxError{
		Kind:     ErrUnknownStatement,
		Expected: "CREATE, SELECT, INSERT, UPDATE or DELETE",
		Found:    tok,
		Pos:      tok.Pos,
	}
}

// CREATE TABLE name ( col type {, col type} )
func (p *Parser) parseCreate() (Statement, error) {
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	stmt := &CreateStmt{Table: table}
	for {
		name, err := p.parseIdentifier("column name")
		if err != nil {
			return nil, err
		}
		typ, err := p.parseIdentifier("column type")
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, Column{Name: name, Type: typ})

		tok, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok.isSymbol(")") {
			return stmt, nil
		}
		if !tok.isSymbol(",") {
			return nil, unexpected("',' or ')'", tok)
		}
	}
}

// SELECT ( * | col {, col} ) FROM name [WHERE cond]
func (p *Parser) parseSelect() (Statement, error) {
	stmt := &SelectStmt{}

	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}
	if tok.isSymbol("*") {
		stmt.All = true
	} else {
		p.lexer.PushBack(tok)
		for {
			field, err := p.parseIdentifier("column name")
			if err != nil {
				return nil, err
			}
			stmt.Fields = append(stmt.Fields, field)

			tok, err = p.lexer.Next()
			if err != nil {
				return nil, err
			}
			if !tok.isSymbol(",") {
				p.lexer.PushBack(tok)
				break
			}
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	if stmt.From, err = p.parseIdentifier("table name"); err != nil {
		return nil, err
	}
	if stmt.Where, err = p.parseOptionalWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// INSERT INTO name VALUES ( value {, value} )
func (p *Parser) parseInsert() (Statement, error) {
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	stmt := &InsertStmt{Into: table}
	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, value)

		tok, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok.isSymbol(")") {
			return stmt, nil
		}
		if !tok.isSymbol(",") {
			return nil, unexpected("',' or ')'", tok)
		}
	}
}

// UPDATE name SET col = value {, col = value} WHERE cond
func (p *Parser) parseUpdate() (Statement, error) {
	table, err := p.parseIdentifier("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}

	stmt := &UpdateStmt{Table: table}
	for {
		column, err := p.parseIdentifier("column name")
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("="); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		stmt.Set = append(stmt.Set, Assignment{Column: column, Value: value})

		tok, err := p.lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok.isKeyword("WHERE") {
			break
		}
		if !tok.isSymbol(",") {
			return nil, unexpected("',' or WHERE", tok)
		}
	}

	if stmt.Where, err = p.parseCondition(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// DELETE FROM name [WHERE cond]
func (p *Parser) parseDelete() (Statement, error) {
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	stmt := &DeleteStmt{}
	var err error
	if stmt.From, err = p.parseIdentifier("table name"); err != nil {
		return nil, err
	}
	if stmt.Where, err = p.parseOptionalWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseOptionalWhere reads one token ahead and hands it back when it does
// not start a WHERE clause.
func (p *Parser) parseOptionalWhere() (*Condition, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}
	if !tok.isKeyword("WHERE") {
		p.lexer.PushBack(tok)
		return nil, nil
	}
	return p.parseCondition()
}

func (p *Parser) parseCondition() (*Condition, error) {
	column, err := p.parseIdentifier("column name")
	if err != nil {
		return nil, err
	}

	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}
	op, ok := ParseCompareOp(tok.Text)
	if tok.Kind != SYMBOL_TOKEN || !ok {
		return nil, unexpected("comparison operator", tok)
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Condition{Column: column, Op: op, Value: value}, nil
}

func (p *Parser) parseValue() (string, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return "", err
	}
	if tok.Kind != NUMBER_TOKEN && tok.Kind != STRING_TOKEN {
		return "", unexpected("a value", tok)
	}
	if !utf8.ValidString(tok.Text) {
		return "", unexpected("a valid UTF-8 value", tok)
	}
	return tok.Text, nil
}

func (p *Parser) parseIdentifier(description string) (string, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return "", err
	}
	// ALL_COLUMNS marks SELECT * in the tree, so it cannot name anything
	if tok.Kind != IDENT_TOKEN || tok.Text == LabelAllColumns {
		return "", unexpected(description, tok)
	}
	return tok.Text, nil
}

func (p *Parser) expectKeyword(keyword string) error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	if !tok.isKeyword(keyword) {
		return unexpected(keyword, tok)
	}
	return nil
}

func (p *Parser) expectSymbol(symbol string) error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	if !tok.isSymbol(symbol) {
		return unexpected("'"+symbol+"'", tok)
	}
	return nil
}
