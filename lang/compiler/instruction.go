// Package compiler lowers a structured AST (lang/ast) into the flat,
// jump-based instruction stream described in spec.md §4.4-§4.5. Every jump
// offset is relative to the jump instruction itself, and block entry/exit is
// made explicit with EndBlock markers so the monitor can observe block
// boundaries uniformly regardless of which statement produced them.
package compiler

import "github.com/mna/miniscript/lang/ast"

// Instruction is the closed set of executable ops (spec.md §4.5).
type Instruction interface {
	isInstruction()
}

// Jump unconditionally advances the program counter by Offset, relative to
// the position of the Jump instruction itself.
type Jump struct{ Offset int }

// ConditionalJump evaluates Cond; the interpreter advances the PC by Offset
// if Cond is truthy, or by 1 otherwise (spec.md §4.7).
type ConditionalJump struct {
	Cond   ast.Expr
	Offset int
}

// Assign stores the result of evaluating Value (subject to the monitor's
// secure-assign check) into Target, which must be a *ast.NameExpr.
type Assign struct {
	Target ast.Expr
	Value  ast.Expr
}

// Return evaluates Value and unwinds to the nearest enclosing call frame.
type Return struct {
	Value ast.Expr // nil means no expression was given; evaluates to Undefined
}

// EndBlock notifies the monitor that a block (if/while arm, loop iteration,
// or loop exit) has ended, so it can pop one PC-stack frame.
type EndBlock struct{}

// VarDecl declares Name in the current scope. If Value is non-nil, it
// behaves as Assign(NameExpr{Name}, Value); otherwise it does nothing (the
// name is pre-declared at function entry, see §4.9).
type VarDecl struct {
	Name  string
	Value ast.Expr // may be nil
}

// Expression evaluates Expr for its side effect and discards the result.
type Expression struct {
	Expr ast.Expr
}

func (*Jump) isInstruction()            {}
func (*ConditionalJump) isInstruction() {}
func (*Assign) isInstruction()          {}
func (*Return) isInstruction()          {}
func (*EndBlock) isInstruction()        {}
func (*VarDecl) isInstruction()         {}
func (*Expression) isInstruction()      {}
