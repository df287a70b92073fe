// Package restrict implements the AST-restrictor visitors spec.md §1 calls
// out as an external collaborator: "AST-restrictor visitors that reject
// forbidden syntax before execution". The original Python challenges
// implement these with a reflection-based NodeVisitor
// (`_examples/original_source/miniscript/miniscript_ast.py`); this package
// uses the teacher's enter/exit Visitor and Walk (lang/ast/visitor.go)
// instead, the idiomatic Go equivalent spec.md §3 "Supplemented Features"
// calls for.
package restrict

import (
	"fmt"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/token"
)

// Policy inspects a single AST node on entry and returns a non-nil error if
// the node is forbidden. It is called once per node as ast.Walk descends,
// in pre-order.
type Policy func(n ast.Node) error

// Check walks block with ast.Walk, applying policy to every node, and
// returns the first error a policy reports, or nil if the whole tree is
// allowed.
func Check(block *ast.Block, policy Policy) error {
	c := &checker{policy: policy}
	ast.Walk(c, block)
	return c.err
}

type checker struct {
	policy Policy
	err    error
}

func (c *checker) Visit(n ast.Node, dir ast.VisitDirection) ast.Visitor {
	if dir == ast.VisitExit || c.err != nil {
		return nil
	}
	if err := c.policy(n); err != nil {
		c.err = err
		return nil
	}
	return c
}

// ArithmeticOnly allows only number literals, name references, assignment,
// and the five arithmetic BinOps (+ - * / %); everything else — comparisons,
// boolean operators, control flow, calls, function literals — is rejected.
// This is a Go port of challenge 00's AstRestrictor (original_source
// challenges/00 - Very Basic/challenge.py), whose error message it keeps.
func ArithmeticOnly(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Block, *ast.ExprStmt, *ast.NumberLit, *ast.NameExpr, *ast.AssignExpr:
		return nil
	case *ast.BinOp:
		switch n.Op {
		case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
			return nil
		}
		return fmt.Errorf("restrict: operator %s is not allowed here", n.Op)
	default:
		return fmt.Errorf("restrict: you are only allowed to use number literals, variables and arithmetic operators")
	}
}

// NoBranches rejects any IfStmt, a Go port of challenge 04's
// NoIfNodeVisitor (original_source challenges/04 - No ifs/challenge.py),
// which exists to force attacker code to leak a secret without relying on
// implicit flow through a conditional.
func NoBranches(n ast.Node) error {
	if _, ok := n.(*ast.IfStmt); ok {
		return fmt.Errorf("restrict: if statements are not allowed")
	}
	return nil
}
