package restrict_test

import (
	"testing"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
	"github.com/mna/miniscript/internal/restrict"
	"github.com/stretchr/testify/assert"
)

func TestArithmeticOnlyAllowsAssignAndArithmetic(t *testing.T) {
	block := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.AssignExpr{
			Target: &ast.NameExpr{Name: "l"},
			Value:  &ast.BinOp{Op: token.PLUS, Left: &ast.NameExpr{Name: "h"}, Right: &ast.NumberLit{Value: 1}},
		}},
	}}
	assert.NoError(t, restrict.Check(block, restrict.ArithmeticOnly))
}

func TestArithmeticOnlyRejectsComparison(t *testing.T) {
	block := &ast.Block{Stmts: []ast.Stmt{
		&ast.ExprStmt{Expr: &ast.BinOp{Op: token.GT, Left: &ast.NameExpr{Name: "h"}, Right: &ast.NumberLit{Value: 1}}},
	}}
	assert.Error(t, restrict.Check(block, restrict.ArithmeticOnly))
}

func TestArithmeticOnlyRejectsIf(t *testing.T) {
	block := &ast.Block{Stmts: []ast.Stmt{
		&ast.IfStmt{Cond: &ast.NameExpr{Name: "h"}, Then: &ast.Block{}},
	}}
	assert.Error(t, restrict.Check(block, restrict.ArithmeticOnly))
}

func TestNoBranchesRejectsIf(t *testing.T) {
	block := &ast.Block{Stmts: []ast.Stmt{
		&ast.IfStmt{Cond: &ast.NameExpr{Name: "h"}, Then: &ast.Block{}},
	}}
	assert.Error(t, restrict.Check(block, restrict.NoBranches))
}

func TestNoBranchesAllowsWhile(t *testing.T) {
	block := &ast.Block{Stmts: []ast.Stmt{
		&ast.WhileStmt{Cond: &ast.BoolLit{Value: false}, Body: &ast.Block{}},
	}}
	assert.NoError(t, restrict.Check(block, restrict.NoBranches))
}
