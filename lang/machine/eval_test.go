package machine

import (
	"math"
	"testing"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalLiterals(t *testing.T) {
	s := NewGlobalScope()
	v, err := Eval(&ast.NumberLit{Value: 3}, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.(Number).Val)
}

func TestEvalArithmetic(t *testing.T) {
	s := NewGlobalScope()
	e := &ast.BinOp{Op: token.PLUS, Left: &ast.NumberLit{Value: 1}, Right: &ast.NumberLit{Value: 2}}
	v, err := Eval(e, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.(Number).Val)
}

func TestEvalStringConcatOnMixedTypes(t *testing.T) {
	s := NewGlobalScope()
	e := &ast.BinOp{Op: token.PLUS, Left: &ast.StringLit{Value: "x="}, Right: &ast.NumberLit{Value: 1}}
	v, err := Eval(e, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x=1", v.(String).Val)
}

func TestEvalDivisionEdgeCases(t *testing.T) {
	s := NewGlobalScope()
	cases := []struct {
		a, b float64
		want float64
	}{
		{1, 0, math.Inf(1)},
		{-1, 0, math.Inf(-1)},
		{0, 0, math.NaN()},
		{4, 2, 2},
	}
	for _, c := range cases {
		e := &ast.BinOp{Op: token.SLASH, Left: &ast.NumberLit{Value: c.a}, Right: &ast.NumberLit{Value: c.b}}
		v, err := Eval(e, s, NopMonitor{}, nil)
		require.NoError(t, err)
		got := v.(Number).Val
		if math.IsNaN(c.want) {
			assert.True(t, math.IsNaN(got))
		} else {
			assert.Equal(t, c.want, got)
		}
	}
}

func TestEvalShortCircuitAnd(t *testing.T) {
	s := NewGlobalScope()
	// false && <anything> must not evaluate the right side (name lookup would fail)
	e := &ast.BinOp{Op: token.AND, Left: &ast.BoolLit{Value: false}, Right: &ast.NameExpr{Name: "undeclared"}}
	v, err := Eval(e, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.False(t, v.(Boolean).Val)
}

func TestEvalShortCircuitOr(t *testing.T) {
	s := NewGlobalScope()
	e := &ast.BinOp{Op: token.OR, Left: &ast.BoolLit{Value: true}, Right: &ast.NameExpr{Name: "undeclared"}}
	v, err := Eval(e, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.True(t, v.(Boolean).Val)
}

func TestEvalUnary(t *testing.T) {
	s := NewGlobalScope()
	neg, err := Eval(&ast.UnaryOp{Op: token.MINUS, Expr: &ast.NumberLit{Value: 5}}, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, -5.0, neg.(Number).Val)

	not, err := Eval(&ast.UnaryOp{Op: token.NOT, Expr: &ast.NumberLit{Value: 0}}, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.True(t, not.(Boolean).Val)
}

func TestEvalCallUserFunction(t *testing.T) {
	s := NewGlobalScope()
	fn := &ast.FunctionDefExpr{
		Name:   "double",
		Params: []string{"x"},
		Body: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinOp{Op: token.STAR, Left: &ast.NameExpr{Name: "x"}, Right: &ast.NumberLit{Value: 2}}},
		},
	}
	_, err := Eval(fn, s, NopMonitor{}, NewStepBudget(0))
	require.NoError(t, err)

	call := &ast.CallExpr{Func: &ast.NameExpr{Name: "double"}, Args: []ast.Expr{&ast.NumberLit{Value: 21}}}
	v, err := Eval(call, s, NopMonitor{}, NewStepBudget(0))
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.(Number).Val)
}

func TestEvalCallNonFunctionFails(t *testing.T) {
	s := NewGlobalScope()
	s.Declare("x", NewNumber(1), Empty)
	call := &ast.CallExpr{Func: &ast.NameExpr{Name: "x"}}
	_, err := Eval(call, s, NopMonitor{}, NewStepBudget(0))
	require.Error(t, err)
}

func TestEvalIndexAndLengthAttribute(t *testing.T) {
	s := NewGlobalScope()
	arr := &ast.ArrayLit{Elems: []ast.Expr{&ast.NumberLit{Value: 10}, &ast.NumberLit{Value: 20}}}
	s.Declare("a", mustEval(t, arr, s), Empty)

	idx, err := Eval(&ast.IndexExpr{Target: &ast.NameExpr{Name: "a"}, Index: &ast.NumberLit{Value: 1}}, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 20.0, idx.(Number).Val)

	length, err := Eval(&ast.AttributeExpr{Value: &ast.NameExpr{Name: "a"}, Attr: "length"}, s, NopMonitor{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, length.(Number).Val)
}

func mustEval(t *testing.T, e ast.Expr, s *Scope) Value {
	t.Helper()
	v, err := Eval(e, s, NopMonitor{}, nil)
	require.NoError(t, err)
	return v
}
