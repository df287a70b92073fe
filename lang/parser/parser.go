// Package parser implements a recursive-descent parser for the C-style
// grammar described in spec.md §6. Like the scanner, the parser is an
// external collaborator: the labelled interpreter only consumes the AST
// shape (lang/ast), not any particular source syntax.
package parser

import (
	"fmt"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/scanner"
	"github.com/mna/miniscript/lang/token"
)

// Error reports a syntax error at a source position.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Parse parses src and returns the top-level block of statements.
func Parse(src string) (*ast.Block, error) {
	p := &parser{s: scanner.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	block, err := p.parseStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	if p.tok.Token != token.EOF {
		return nil, &Error{Pos: p.tok.Pos, Msg: fmt.Sprintf("unexpected token %s", p.tok.Token)}
	}
	return block, nil
}

type parser struct {
	s   *scanner.Scanner
	tok scanner.TokenAndValue
}

func (p *parser) advance() error {
	tv, err := p.s.Scan()
	if err != nil {
		return err
	}
	p.tok = tv
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(t token.Token) (scanner.TokenAndValue, error) {
	if p.tok.Token != t {
		return scanner.TokenAndValue{}, p.errorf("expected %s, got %s", t, p.tok.Token)
	}
	tv := p.tok
	if err := p.advance(); err != nil {
		return scanner.TokenAndValue{}, err
	}
	return tv, nil
}

// parseStmts parses statements until it encounters `until` or end of input.
// A trailing expression statement may omit its terminating semicolon, as
// long as it is immediately followed by `until`.
func (p *parser) parseStmts(until token.Token) (*ast.Block, error) {
	blk := &ast.Block{}
	for p.tok.Token != until && p.tok.Token != token.EOF {
		stmt, omittedSemi, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Stmts = append(blk.Stmts, stmt)
		if omittedSemi && p.tok.Token != until {
			return nil, p.errorf("expected %s, got %s", token.SEMI, p.tok.Token)
		}
	}
	return blk, nil
}

// parseStmt parses one statement. The second return value is true when the
// statement was a final expression statement whose semicolon was omitted.
func (p *parser) parseStmt() (ast.Stmt, bool, error) {
	switch p.tok.Token {
	case token.IF:
		s, err := p.parseIf()
		return s, false, err
	case token.WHILE:
		s, err := p.parseWhile()
		return s, false, err
	case token.VAR:
		s, err := p.parseVarDecl()
		return s, false, err
	case token.RETURN:
		s, err := p.parseReturn()
		return s, false, err
	case token.LBRACE:
		blk, err := p.parseBlock()
		return blk, false, err
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	blk, err := p.parseStmts(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

// parseBlockOrStmt parses either a brace-delimited block or a single
// statement, wrapping the latter in a Block for uniform compilation.
func (p *parser) parseBlockOrStmt() (ast.Stmt, error) {
	if p.tok.Token == token.LBRACE {
		return p.parseBlock()
	}
	stmt, omittedSemi, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if omittedSemi {
		return nil, p.errorf("expected %s", token.SEMI)
	}
	return &ast.Block{Stmts: []ast.Stmt{stmt}}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	if _, err := p.expect(token.IF); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlockOrStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if p.tok.Token == token.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.parseBlockOrStmt()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlockOrStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *parser) parseVarDecl() (ast.Stmt, error) {
	if _, err := p.expect(token.VAR); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if p.tok.Token == token.ASSIGN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDeclStmt{Name: name.Str, Value: value}, nil
}

func (p *parser) parseReturn() (ast.Stmt, error) {
	if _, err := p.expect(token.RETURN); err != nil {
		return nil, err
	}
	var value ast.Expr
	if p.tok.Token != token.SEMI {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value}, nil
}

// parseExprStmt parses a bare expression statement: an assignment, a call, or
// a named function declaration. A named function declaration ends at its
// closing brace and needs no semicolon. For any other expression, if end of
// input or `}` follows immediately instead of a semicolon, the semicolon is
// considered omitted (only legal for the last statement in a block).
func (p *parser) parseExprStmt() (ast.Stmt, bool, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, false, err
	}
	if p.tok.Token == token.SEMI {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		return &ast.ExprStmt{Expr: expr}, false, nil
	}
	if fn, ok := expr.(*ast.FunctionDefExpr); ok && fn.Name != "" {
		return &ast.ExprStmt{Expr: expr}, false, nil
	}
	return &ast.ExprStmt{Expr: expr}, true, nil
}
