package monitor_test

import (
	"testing"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/machine"
	"github.com/mna/miniscript/lang/monitor"
	"github.com/mna/miniscript/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// l = h; with h labelled {"high"} and the full monitor: explicit flow is
// not blocked by AssignRule at the top PC level (∅), but the harness-level
// check (label must be empty) is what fails it; spec.md §8 scenario (a).
func TestExplicitFlowNotBlockedButLabelPropagates(t *testing.T) {
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "l"}, Value: &ast.NameExpr{Name: "h"}}},
	}}
	s := machine.NewGlobalScope()
	s.Declare("h", machine.NewNumber(7), machine.NewLabel("high"))
	s.Declare("l", machine.Undefined{}, machine.Empty)

	mon := monitor.New(monitor.Full)
	_, err := machine.RunProgram(prog, s, mon, machine.NewStepBudget(1000))
	require.NoError(t, err)

	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.(machine.Number).Val)
	assert.True(t, v.Label().Contains("high"))
}

// if (h) { l = 1; } else { l = 0; } with h = true, {"high"}: implicit flow
// is blocked by AssignRule's no-sensitive-upgrade check; spec.md §8
// scenario (b).
func TestImplicitFlowBlocked(t *testing.T) {
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.IfStmt{
			Cond: &ast.NameExpr{Name: "h"},
			Then: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "l"}, Value: &ast.NumberLit{Value: 1}}},
			}},
			Else: &ast.Block{Stmts: []ast.Stmt{
				&ast.ExprStmt{Expr: &ast.AssignExpr{Target: &ast.NameExpr{Name: "l"}, Value: &ast.NumberLit{Value: 0}}},
			}},
		},
	}}
	s := machine.NewGlobalScope()
	s.Declare("h", machine.NewBoolean(true), machine.NewLabel("high"))
	s.Declare("l", machine.Undefined{}, machine.Empty)

	mon := monitor.New(monitor.Full)
	_, err := machine.RunProgram(prog, s, mon, machine.NewStepBudget(1000))
	require.Error(t, err)
	assert.True(t, machine.IsFlowControl(err))
}

// l = (h * 0) + 42; arithmetic joins operand labels even though the
// numeric value becomes public-looking; spec.md §8 scenario (c).
func TestArithmeticJoinsLabelsEvenWhenValueLooksPublic(t *testing.T) {
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.AssignExpr{
			Target: &ast.NameExpr{Name: "l"},
			Value: &ast.BinOp{
				Op:    token.PLUS,
				Left:  &ast.BinOp{Op: token.STAR, Left: &ast.NameExpr{Name: "h"}, Right: &ast.NumberLit{Value: 0}},
				Right: &ast.NumberLit{Value: 42},
			},
		}},
	}}
	s := machine.NewGlobalScope()
	s.Declare("h", machine.NewNumber(7), machine.NewLabel("high"))
	s.Declare("l", machine.Undefined{}, machine.Empty)

	mon := monitor.New(monitor.Full)
	_, err := machine.RunProgram(prog, s, mon, machine.NewStepBudget(1000))
	require.NoError(t, err)

	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.(machine.Number).Val)
	assert.True(t, v.Label().Contains("high"))
}

// PC invariance (spec.md §8.1): after a normal run the PC stack and
// return-address stack are back to their initial state.
func TestPCInvarianceAfterNormalCompletion(t *testing.T) {
	prog := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.FunctionDefExpr{
			Name: "f",
			Body: []ast.Stmt{&ast.ReturnStmt{Value: &ast.NumberLit{Value: 1}}},
		}},
		&ast.VarDeclStmt{Name: "l", Value: &ast.CallExpr{Func: &ast.NameExpr{Name: "f"}}},
	}}
	s := machine.NewGlobalScope()
	mon := monitor.New(monitor.Full)
	require.Equal(t, 1, mon.Depth())
	require.Equal(t, 0, mon.ReturnDepth())
	_, err := machine.RunProgram(prog, s, mon, machine.NewStepBudget(1000))
	require.NoError(t, err)
	assert.Equal(t, 1, mon.Depth())
	assert.Equal(t, 0, mon.ReturnDepth())
}

// function f(x) { if (x) { return 1; } return 2; } l = f(h); with h = false,
// {"high"}: the return taken is outside the tainted branch (EnterBlock runs
// regardless of which way the branch goes, and the EndBlock after the untaken
// arm pops it again), so the return itself is legal and the returned literal
// 2 carries the empty PC label; the argument's label does not reach l, and
// the PC and return-address stacks are balanced afterwards; spec.md §8
// scenario (g).
func TestReturnAcrossBranchesCarriesArgumentLabel(t *testing.T) {
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
	s := machine.NewGlobalScope()
	s.Declare("h", machine.NewBoolean(false), machine.NewLabel("high"))

	mon := monitor.New(monitor.Full)
	_, err := machine.RunProgram(prog, s, mon, machine.NewStepBudget(1000))
	require.NoError(t, err)

	v, err := s.Get("l")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.(machine.Number).Val)
	assert.Equal(t, 1, mon.Depth())
	assert.Equal(t, 0, mon.ReturnDepth())
}

func TestPermissiveRulesAreFullyOptional(t *testing.T) {
	mon := monitor.New(monitor.Rules{})
	assert.Equal(t, machine.Empty, mon.BinOp(machine.NewNumber(1).WithLabel(machine.NewLabel("high")), machine.NewNumber(2)))
	assert.Equal(t, machine.Empty, mon.UnaryOp(machine.NewNumber(1).WithLabel(machine.NewLabel("high"))))
	v, err := mon.SecureAssign(machine.NewGlobalScope(), "x", machine.NewNumber(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.(machine.Number).Val)
}
