// Package parser implements a recursive-descent parser over the token
// stream produced by bytelog/lexer, following the shape of
// datalog/parser/parser.go's statement-at-a-time, single-pass descent
// with a fail-fast error convention, adapted to ByteLog's grammar.
package parser

import (
	"fmt"

	"github.com/wbrown/bytelog"
	"github.com/wbrown/bytelog/lexer"
)

// maxRegisters is the width of a rule's register file; a rule body
// that would allocate more registers than this is a static error
// rather than a runtime one.
const maxRegisters = 16

// Error is a parse failure with source position, rendered
// "at line L, column C: <message>".
type Error struct {
	Line    int
	Col     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("at line %d, column %d: %s", e.Line, e.Col, e.Message)
}

// Parser turns a token stream into a bytelog.Program. It fails fast: the
// first error encountered aborts parsing and is returned to the caller.
type Parser struct {
	lex *lexer.Lexer
	cur bytelog.Token
}

// New returns a parser over source.
func New(source string) *Parser {
	p := &Parser{lex: lexer.New(source)}
	p.cur = p.lex.NextToken()
	return p
}

// Parse parses a complete program.
func Parse(source string) (*bytelog.Program, error) {
	return New(source).ParseProgram()
}

func (p *Parser) advance() {
	p.cur = p.lex.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &Error{Line: p.cur.Line, Col: p.cur.Col, Message: fmt.Sprintf(format, args...)}
}

// ParseProgram parses `statement*` through EOF.
func (p *Parser) ParseProgram() (*bytelog.Program, error) {
	prog := &bytelog.Program{}
	for p.cur.Kind != bytelog.TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (bytelog.Statement, error) {
	switch p.cur.Kind {
	case bytelog.TokenREL:
		return p.parseRelDecl()
	case bytelog.TokenFACT:
		return p.parseFact()
	case bytelog.TokenRULE:
		return p.parseRule()
	case bytelog.TokenSOLVE:
		return p.parseSolve()
	case bytelog.TokenQUERY:
		return p.parseQuery()
	case bytelog.TokenError:
		return nil, p.errorf("%s", p.cur.Lexeme)
	default:
		return nil, p.errorf("expected a statement (REL, FACT, RULE, SOLVE, or QUERY), got %s", p.cur)
	}
}

// rel := "REL" IDENT
func (p *Parser) parseRelDecl() (*bytelog.RelDecl, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume REL
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	return bytelog.NewRelDecl(name, line, col), nil
}

// fact := "FACT" IDENT arg arg
func (p *Parser) parseFact() (*bytelog.Fact, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume FACT
	relation, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	a, atomA, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	b, atomB, err := p.parseArg()
	if err != nil {
		return nil, err
	}
	return &bytelog.Fact{
		Position: bytelog.Pos{Line: line, Col: col},
		Relation: relation,
		ANum:     a,
		BNum:     b,
		AtomA:    atomA,
		AtomB:    atomB,
	}, nil
}

// arg := IDENT | INTEGER
func (p *Parser) parseArg() (int64, *string, error) {
	switch p.cur.Kind {
	case bytelog.TokenIdentifier:
		atom := p.cur.Lexeme
		p.advance()
		return 0, &atom, nil
	case bytelog.TokenInteger:
		n := p.cur.Int
		p.advance()
		return n, nil, nil
	default:
		return 0, nil, p.errorf("expected an identifier or integer argument, got %s", p.cur)
	}
}

// qarg := IDENT | INTEGER | "?"
func (p *Parser) parseQArg() (int64, *string, error) {
	if p.cur.Kind == bytelog.TokenWildcard {
		p.advance()
		return -1, nil, nil
	}
	return p.parseArg()
}

// solve := "SOLVE"
func (p *Parser) parseSolve() (*bytelog.Solve, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance()
	return bytelog.NewSolve(line, col), nil
}

// query := "QUERY" IDENT qarg qarg
func (p *Parser) parseQuery() (*bytelog.Query, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume QUERY
	relation, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	a, atomA, err := p.parseQArg()
	if err != nil {
		return nil, err
	}
	b, atomB, err := p.parseQArg()
	if err != nil {
		return nil, err
	}
	return bytelog.NewQuery(relation, a, b, atomA, atomB, line, col), nil
}

// rule := "RULE" IDENT ":" body_op ("," body_op)* "," emit
//
// Also performs the static semantic checks: the first body op must be
// a SCAN, and every MATCH/JOIN/EMIT variable reference must name an
// already-assigned register.
func (p *Parser) parseRule() (*bytelog.Rule, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume RULE
	target, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expect(bytelog.TokenColon); err != nil {
		return nil, err
	}

	var body []bytelog.BodyOp
	nextReg := 0

	for {
		op, err := p.parseBodyOp(len(body), &nextReg)
		if err != nil {
			return nil, err
		}
		body = append(body, op)

		if err := p.expect(bytelog.TokenComma); err != nil {
			return nil, err
		}

		if p.cur.Kind == bytelog.TokenEMIT {
			break
		}
	}

	emit, err := p.parseEmit(nextReg)
	if err != nil {
		return nil, err
	}

	return bytelog.NewRule(target, body, emit, line, col), nil
}

// body_op := scan | join
func (p *Parser) parseBodyOp(ordinal int, nextReg *int) (bytelog.BodyOp, error) {
	switch p.cur.Kind {
	case bytelog.TokenSCAN:
		return p.parseScan(nextReg)
	case bytelog.TokenJOIN:
		if ordinal == 0 {
			return nil, p.errorf("rule body must start with SCAN, not JOIN")
		}
		return p.parseJoin(nextReg)
	default:
		return nil, p.errorf("expected SCAN or JOIN, got %s", p.cur)
	}
}

// scan := "SCAN" IDENT ("MATCH" VARIABLE)?
func (p *Parser) parseScan(nextReg *int) (*bytelog.Scan, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume SCAN
	relation, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind != bytelog.TokenMATCH {
		if *nextReg+2 > maxRegisters {
			return nil, &Error{Line: line, Col: col, Message: fmt.Sprintf("rule body exceeds register limit of %d", maxRegisters)}
		}
		scan := bytelog.NewScan(relation, -1, line, col)
		*nextReg += 2
		return scan, nil
	}

	p.advance() // consume MATCH
	matchVar, varLine, varCol, err := p.expectVariable()
	if err != nil {
		return nil, err
	}
	if matchVar >= *nextReg {
		return nil, &Error{Line: varLine, Col: varCol, Message: fmt.Sprintf("MATCH references unbound register $%d", matchVar)}
	}
	if *nextReg+1 > maxRegisters {
		return nil, &Error{Line: line, Col: col, Message: fmt.Sprintf("rule body exceeds register limit of %d", maxRegisters)}
	}
	scan := bytelog.NewScan(relation, matchVar, line, col)
	*nextReg++
	return scan, nil
}

// join := "JOIN" IDENT VARIABLE
func (p *Parser) parseJoin(nextReg *int) (*bytelog.Join, error) {
	line, col := p.cur.Line, p.cur.Col
	p.advance() // consume JOIN
	relation, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	matchVar, varLine, varCol, err := p.expectVariable()
	if err != nil {
		return nil, err
	}
	if matchVar >= *nextReg {
		return nil, &Error{Line: varLine, Col: varCol, Message: fmt.Sprintf("JOIN references unbound register $%d", matchVar)}
	}
	if *nextReg+1 > maxRegisters {
		return nil, &Error{Line: line, Col: col, Message: fmt.Sprintf("rule body exceeds register limit of %d", maxRegisters)}
	}
	join := bytelog.NewJoin(relation, matchVar, line, col)
	*nextReg++
	return join, nil
}

// emit := "EMIT" IDENT VARIABLE VARIABLE
func (p *Parser) parseEmit(nextReg int) (bytelog.Emit, error) {
	line, col := p.cur.Line, p.cur.Col
	if p.cur.Kind != bytelog.TokenEMIT {
		return bytelog.Emit{}, p.errorf("rule body must end with EMIT, got %s", p.cur)
	}
	p.advance() // consume EMIT
	relation, err := p.expectIdentifier()
	if err != nil {
		return bytelog.Emit{}, err
	}
	varA, lineA, colA, err := p.expectVariable()
	if err != nil {
		return bytelog.Emit{}, err
	}
	if varA >= nextReg {
		return bytelog.Emit{}, &Error{Line: lineA, Col: colA, Message: fmt.Sprintf("EMIT references unbound register $%d", varA)}
	}
	varB, lineB, colB, err := p.expectVariable()
	if err != nil {
		return bytelog.Emit{}, err
	}
	if varB >= nextReg {
		return bytelog.Emit{}, &Error{Line: lineB, Col: colB, Message: fmt.Sprintf("EMIT references unbound register $%d", varB)}
	}
	return bytelog.NewEmit(relation, varA, varB, line, col), nil
}

func (p *Parser) expectIdentifier() (string, error) {
	if p.cur.Kind != bytelog.TokenIdentifier {
		return "", p.errorf("expected an identifier, got %s", p.cur)
	}
	name := p.cur.Lexeme
	p.advance()
	return name, nil
}

func (p *Parser) expectVariable() (int, int, int, error) {
	if p.cur.Kind != bytelog.TokenVariable {
		return 0, 0, 0, p.errorf("expected a variable ($n), got %s", p.cur)
	}
	line, col := p.cur.Line, p.cur.Col
	n := int(p.cur.Int)
	p.advance()
	return n, line, col, nil
}

func (p *Parser) expect(kind bytelog.TokenKind) error {
	if p.cur.Kind != kind {
		return p.errorf("unexpected %s", p.cur)
	}
	p.advance()
	return nil
}
