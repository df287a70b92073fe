package parser

import (
	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
)

// parseExpr parses a full expression, including assignment, which is
// right-associative and binds weaker than every other operator.
func (p *parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Token == token.ASSIGN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Value: value}, nil
	}
	return left, nil
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.OR {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.AND {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.EQ || p.tok.Token == token.NEQ {
		op := p.tok.Token
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.GT || p.tok.Token == token.LT || p.tok.Token == token.GE || p.tok.Token == token.LE {
		op := p.tok.Token
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.PLUS || p.tok.Token == token.MINUS {
		op := p.tok.Token
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Token == token.STAR || p.tok.Token == token.SLASH || p.tok.Token == token.PERCENT {
		op := p.tok.Token
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.tok.Token == token.MINUS || p.tok.Token == token.NOT {
		op := p.tok.Token
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Expr: expr}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Token {
		case token.LPAREN:
			if err := p.advance(); err != nil {
				return nil, err
			}
			args, err := p.parseArgs(token.RPAREN)
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Func: expr, Args: args}
		case token.LBRACKET:
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Target: expr, Index: index}
		case token.DOT:
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.AttributeExpr{Value: expr, Attr: name.Str}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseArgs(end token.Token) ([]ast.Expr, error) {
	var args []ast.Expr
	for p.tok.Token != end {
		if len(args) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(end); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch p.tok.Token {
	case token.NUMBER:
		v := p.tok.Num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NumberLit{Value: v}, nil
	case token.STRING:
		v := p.tok.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StringLit{Value: v}, nil
	case token.TRUE, token.FALSE:
		v := p.tok.Token == token.TRUE
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Value: v}, nil
	case token.NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NullLit{}, nil
	case token.UNDEFINED:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.UndefinedLit{}, nil
	case token.IDENT:
		name := p.tok.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NameExpr{Name: name}, nil
	case token.LBRACKET:
		if err := p.advance(); err != nil {
			return nil, err
		}
		elems, err := p.parseArgs(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elems: elems}, nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.FUNCTION:
		return p.parseFunctionDef()
	}
	return nil, p.errorf("unexpected token %s", p.tok.Token)
}

func (p *parser) parseFunctionDef() (ast.Expr, error) {
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}
	var name string
	if p.tok.Token == token.IDENT {
		name = p.tok.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.tok.Token != token.RPAREN {
		if len(params) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		pname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, pname.Str)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDefExpr{Name: name, Params: params, Body: body.Stmts}, nil
}
