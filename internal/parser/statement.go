package parser

import (
	"fmt"
	"strconv"

	"github.com/paradb/paradb/internal/lexer"
	"github.com/paradb/paradb/internal/types"
)

// Statement is one parsed REPL statement, executable against a database.
type Statement interface {
	Execute(db types.Store) (interface{}, error)
}

// CreateStatement represents CREATE TABLE t (col type, ...).
type CreateStatement struct {
	Table   string
	Columns []string
	Types   []string
}

// InsertStatement represents INSERT INTO t VALUES (...).
type InsertStatement struct {
	Table string
	Row   []types.Value
}

// SelectStatement represents SELECT ops FROM t [WHERE cond].
type SelectStatement struct {
	Table      string
	Operations []string
	Condition  string
}

// SelectResult pairs the requested operations with their output columns.
type SelectResult struct {
	Operations []string
	Columns    [][]types.Value
}

// UpdateStatement represents UPDATE t VALUES (...) [WHERE cond]. The row
// overwrites every matched row in full.
type UpdateStatement struct {
	Table     string
	Row       []types.Value
	Condition string
}

// BeginStatement represents BEGIN t.
type BeginStatement struct {
	Table string
}

// EndStatement represents END t.
type EndStatement struct {
	Table string
}

// ExportStatement represents EXPORT t TO 'path'.
type ExportStatement struct {
	Table string
	Path  string
}

// ShowTablesStatement represents SHOW TABLES.
type ShowTablesStatement struct{}

func (s *CreateStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.CreateTable(s.Table, s.Columns, s.Types)
}

func (s *InsertStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.Insert(s.Table, s.Row)
}

func (s *SelectStatement) Execute(db types.Store) (interface{}, error) {
	cols, err := db.Select(s.Table, s.Operations, s.Condition)
	if err != nil {
		return nil, err
	}
	return &SelectResult{Operations: s.Operations, Columns: cols}, nil
}

func (s *UpdateStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.Update(s.Table, s.Row, s.Condition)
}

func (s *BeginStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.Begin(s.Table)
}

func (s *EndStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.End(s.Table)
}

func (s *ExportStatement) Execute(db types.Store) (interface{}, error) {
	return nil, db.ExportParquet(s.Table, s.Path)
}

func (s *ShowTablesStatement) Execute(db types.Store) (interface{}, error) {
	return db.ShowTables(), nil
}

// Parser reads one statement from a token stream.
type Parser struct {
	l *lexer.Lexer
}

// New creates a new parser with the given lexer
func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Parse parses the input into a Statement.
func (p *Parser) Parse() (Statement, error) {
	tok := p.l.NextToken()
	if tok.Type == lexer.EOF {
		return nil, fmt.Errorf("empty statement")
	}

	switch tok.Literal {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "CREATE":
		return p.parseCreate()
	case "BEGIN":
		return p.parseBracket(true)
	case "END":
		return p.parseBracket(false)
	case "EXPORT":
		return p.parseExport()
	case "SHOW":
		if tok := p.l.NextToken(); tok.Literal != "TABLES" {
			return nil, fmt.Errorf("expected TABLES, got %s", tok.Literal)
		}
		return &ShowTablesStatement{}, nil
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", tok.Literal)
	}
}

func (p *Parser) parseCreate() (*CreateStatement, error) {
	stmt := &CreateStatement{}

	tok := p.l.NextToken()
	if tok.Literal != "TABLE" {
		return nil, fmt.Errorf("expected TABLE, got %s", tok.Literal)
	}

	tok = p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	stmt.Table = tok.Literal

	tok = p.l.NextToken()
	if tok.Type != lexer.LPAREN {
		return nil, fmt.Errorf("expected (, got %s", tok.Literal)
	}

	for {
		tok = p.l.NextToken()
		if tok.Type == lexer.RPAREN {
			break
		}
		if tok.Type != lexer.IDENTIFIER {
			return nil, fmt.Errorf("expected column name, got %s", tok.Literal)
		}
		stmt.Columns = append(stmt.Columns, tok.Literal)

		tok = p.l.NextToken()
		if tok.Type != lexer.IDENTIFIER {
			return nil, fmt.Errorf("expected column type, got %s", tok.Literal)
		}
		stmt.Types = append(stmt.Types, tok.Literal)

		tok = p.l.NextToken()
		if tok.Type == lexer.RPAREN {
			break
		}
		if tok.Type != lexer.COMMA {
			return nil, fmt.Errorf("expected comma or ), got %s", tok.Literal)
		}
	}

	return stmt, nil
}

func (p *Parser) parseInsert() (*InsertStatement, error) {
	stmt := &InsertStatement{}

	tok := p.l.NextToken()
	if tok.Literal != "INTO" {
		return nil, fmt.Errorf("expected INTO, got %s", tok.Literal)
	}

	tok = p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	stmt.Table = tok.Literal

	tok = p.l.NextToken()
	if tok.Literal != "VALUES" {
		return nil, fmt.Errorf("expected VALUES, got %s", tok.Literal)
	}

	row, err := p.parseRow()
	if err != nil {
		return nil, err
	}
	stmt.Row = row
	return stmt, nil
}

// parseRow parses a parenthesized, comma-separated list of typed literals.
func (p *Parser) parseRow() ([]types.Value, error) {
	tok := p.l.NextToken()
	if tok.Type != lexer.LPAREN {
		return nil, fmt.Errorf("expected (, got %s", tok.Literal)
	}

	var row []types.Value
	for {
		tok = p.l.NextToken()
		if tok.Type == lexer.RPAREN {
			break
		}

		switch tok.Type {
		case lexer.NUMBER:
			n, err := strconv.ParseInt(tok.Literal, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid integer: %s", tok.Literal)
			}
			row = append(row, types.Int32Value(int32(n)))
		case lexer.STRING:
			row = append(row, types.StringValue(tok.Literal))
		case lexer.BOOL:
			row = append(row, types.BoolValue(tok.Literal == "true"))
		default:
			return nil, fmt.Errorf("expected value, got %s", tok.Literal)
		}

		tok = p.l.NextToken()
		if tok.Type == lexer.RPAREN {
			break
		}
		if tok.Type != lexer.COMMA {
			return nil, fmt.Errorf("expected comma or ), got %s", tok.Literal)
		}
	}
	return row, nil
}

func (p *Parser) parseSelect() (*SelectStatement, error) {
	stmt := &SelectStatement{}

	// Operations: column names or func(column) aggregations.
	for {
		tok := p.l.NextToken()
		if tok.Type != lexer.IDENTIFIER {
			return nil, fmt.Errorf("expected column or aggregation, got %s", tok.Literal)
		}
		op := tok.Literal

		tok = p.l.NextToken()
		if tok.Type == lexer.LPAREN {
			inner := p.l.NextToken()
			if inner.Type != lexer.IDENTIFIER {
				return nil, fmt.Errorf("expected column name, got %s", inner.Literal)
			}
			if tok = p.l.NextToken(); tok.Type != lexer.RPAREN {
				return nil, fmt.Errorf("expected ), got %s", tok.Literal)
			}
			op = fmt.Sprintf("%s(%s)", op, inner.Literal)
			tok = p.l.NextToken()
		}
		stmt.Operations = append(stmt.Operations, op)

		if tok.Literal == "FROM" {
			break
		}
		if tok.Type != lexer.COMMA {
			return nil, fmt.Errorf("expected comma or FROM, got %s", tok.Literal)
		}
	}

	tok := p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	stmt.Table = tok.Literal

	cond, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond
	return stmt, nil
}

func (p *Parser) parseUpdate() (*UpdateStatement, error) {
	stmt := &UpdateStatement{}

	tok := p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	stmt.Table = tok.Literal

	tok = p.l.NextToken()
	if tok.Literal != "VALUES" {
		return nil, fmt.Errorf("expected VALUES, got %s", tok.Literal)
	}

	row, err := p.parseRow()
	if err != nil {
		return nil, err
	}
	stmt.Row = row

	cond, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond
	return stmt, nil
}

// parseWhere parses an optional WHERE clause and rebuilds it as the engine's
// "column comparator literal" condition string. An absent clause returns the
// empty condition, which matches every row.
func (p *Parser) parseWhere() (string, error) {
	tok := p.l.NextToken()
	if tok.Type == lexer.EOF || tok.Type == lexer.SEMICOLON {
		return "", nil
	}
	if tok.Literal != "WHERE" {
		return "", fmt.Errorf("expected WHERE, got %s", tok.Literal)
	}

	tok = p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return "", fmt.Errorf("expected column name, got %s", tok.Literal)
	}
	column := tok.Literal

	tok = p.l.NextToken()
	var comparator string
	switch tok.Type {
	case lexer.EQ:
		comparator = "=="
	case lexer.LT:
		comparator = "<"
	case lexer.GT:
		comparator = ">"
	default:
		return "", fmt.Errorf("expected comparator, got %s", tok.Literal)
	}

	tok = p.l.NextToken()
	switch tok.Type {
	case lexer.NUMBER, lexer.STRING, lexer.BOOL, lexer.IDENTIFIER:
		return fmt.Sprintf("%s %s %s", column, comparator, tok.Literal), nil
	default:
		return "", fmt.Errorf("expected literal, got %s", tok.Literal)
	}
}

func (p *Parser) parseBracket(begin bool) (Statement, error) {
	tok := p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	if begin {
		return &BeginStatement{Table: tok.Literal}, nil
	}
	return &EndStatement{Table: tok.Literal}, nil
}

func (p *Parser) parseExport() (*ExportStatement, error) {
	stmt := &ExportStatement{}

	tok := p.l.NextToken()
	if tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected table name, got %s", tok.Literal)
	}
	stmt.Table = tok.Literal

	tok = p.l.NextToken()
	if tok.Literal != "TO" {
		return nil, fmt.Errorf("expected TO, got %s", tok.Literal)
	}

	tok = p.l.NextToken()
	if tok.Type != lexer.STRING && tok.Type != lexer.IDENTIFIER {
		return nil, fmt.Errorf("expected file path, got %s", tok.Literal)
	}
	stmt.Path = tok.Literal
	return stmt, nil
}

// ParseStatement parses one statement from its textual form.
func ParseStatement(input string) (Statement, error) {
	return New(lexer.New(input)).Parse()
}
