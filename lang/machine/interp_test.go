package machine

import (
	"testing"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// if (cond) { l = 1; } else { l = 0; }
func ifProgram(cond bool) *ast.Block {
	return &ast.Block{Stmts: []ast.Stmt{
		&ast.IfStmt{
			Cond: &ast.BoolLit{Value: cond},
			Then: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "l"}, Value: &ast.NumberLit{Value: 1}}},
			}},
			Else: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "l"}, Value: &ast.NumberLit{Value: 0}}},
			}},
		},
	}}
}

func TestRunProgramIfTrue(t *testing.T) {
	s := NewGlobalScope()
	_, err := RunProgram(ifProgram(true), s, NopMonitor{}, NewStepBudget(1000))
	require.NoError(t, err)
	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.(Number).Val)
}

func TestRunProgramIfFalse(t *testing.T) {
	s := NewGlobalScope()
	_, err := RunProgram(ifProgram(false), s, NopMonitor{}, NewStepBudget(1000))
	require.NoError(t, err)
	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.(Number).Val)
}

// x = 0; while (x < 3) { x = x + 1; }
func whileProgram() *ast.Block {
	return &ast.Block{Stmts: []ast.Stmt{
		&ast.VarDeclStmt{Name: "x", Value: &ast.NumberLit{Value: 0}},
		&ast.WhileStmt{
			Cond: &ast.BinOp{Op: token.LT, Left: &ast.NameExpr{Name: "x"}, Right: &ast.NumberLit{Value: 3}},
			Body: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "x"}, Value: &ast.BinOp{
					Op: token.PLUS, Left: &ast.NameExpr{Name: "x"}, Right: &ast.NumberLit{Value: 1},
				}}},
			}},
		},
	}}
}

func TestRunProgramWhileCountsToThree(t *testing.T) {
	s := NewGlobalScope()
	_, err := RunProgram(whileProgram(), s, NopMonitor{}, NewStepBudget(1000))
	require.NoError(t, err)
	v, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.(Number).Val)
}

func TestRunProgramBudgetExhausted(t *testing.T) {
	// while (true) { x = 1; }
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.WhileStmt{
			Cond: &ast.BoolLit{Value: true},
			Body: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "x"}, Value: &ast.NumberLit{Value: 1}}},
			}},
		},
	}}
	s := NewGlobalScope()
	_, err := RunProgram(prog, s, NopMonitor{}, NewStepBudget(100))
	require.Error(t, err)
	assert.True(t, IsMaximumSteps(err))
}

// function f(x) { if (x) { return 1; } return 2; } l = f(h);
func TestRunProgramReturnAcrossBranches(t *testing.T) {
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.FunctionDefExpr{
			Name:   "f",
			Params: []string{"x"},
			Body: []ast.Stmt{
				&ast.IfStmt{
					Cond: &ast.NameExpr{Name: "x"},
					Then: &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: &ast.NumberLit{Value: 1}}}},
				},
				&ast.ReturnStmt{Value: &ast.NumberLit{Value: 2}},
			},
		}},
		&ast.VarDeclStmt{Name: "l", Value: &ast.CallExpr{
			Func: &ast.NameExpr{Name: "f"},
			Args: []ast.Expr{&ast.NameExpr{Name: "h"}},
		}},
	}}
	s := NewGlobalScope()
	s.Declare("h", NewBoolean(false), Empty)
	_, err := RunProgram(prog, s, NopMonitor{}, NewStepBudget(1000))
	require.NoError(t, err)
	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.(Number).Val)
}
