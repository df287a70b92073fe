package machine

import (
	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/compiler"
)

// StepBudget caps the total number of interpreter steps across a whole
// program run, including every step executed by nested function calls. It
// is shared (by pointer) between the top-level Interp and every Interp
// created to run a UserFunction's body, so that budget is a property of the
// run as a whole rather than of any one call frame (spec.md §9, Design
// Note iv: implementations should always expose a budgeted form).
type StepBudget struct {
	Max  int // <= 0 means unlimited
	used int
}

// NewStepBudget returns a budget that allows max steps, or is unlimited if
// max <= 0.
func NewStepBudget(max int) *StepBudget { return &StepBudget{Max: max} }

func (b *StepBudget) consume() error {
	if b.Max > 0 && b.used >= b.Max {
		return newError(MaximumStepsReached, "step budget exhausted")
	}
	b.used++
	return nil
}

// Function is implemented by both UserFunction and BuiltinFunction.
type Function interface {
	Value
	Call(args []Value, mon Monitor, budget *StepBudget) (Value, error)
}

// UserFunction is a function defined by a MiniScript `function` expression
// (spec.md §4.9).
type UserFunction struct {
	Name     string
	Code     []compiler.Instruction
	Locals   []string
	Params   []string
	Captured *Scope
	Lbl      Label
}

// NewUserFunction compiles body and discovers its locals, returning a
// function value closed over scope.
func NewUserFunction(name string, params []string, body []ast.Stmt, scope *Scope) *UserFunction {
	return &UserFunction{
		Name:     name,
		Code:     compiler.Compile(&ast.Block{Stmts: body}),
		Locals:   collectLocals(body),
		Params:   params,
		Captured: scope,
	}
}

// collectLocals scans stmts for VarDeclStmt names, recursing into nested
// blocks, if/while bodies, but not into nested function literals (those
// discover their own locals independently, once, when they are evaluated).
func collectLocals(stmts []ast.Stmt) []string {
	var locals []string
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch s := s.(type) {
		case *ast.Block:
			for _, st := range s.Stmts {
				walk(st)
			}
		case *ast.IfStmt:
			walk(s.Then)
			if s.Else != nil {
				walk(s.Else)
			}
		case *ast.WhileStmt:
			walk(s.Body)
		case *ast.VarDeclStmt:
			locals = append(locals, s.Name)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
	return locals
}

func (f *UserFunction) String() string {
	if f.Name != "" {
		return "function " + f.Name + "()"
	}
	return "function()"
}
func (f *UserFunction) Type() string            { return "function" }
func (f *UserFunction) Truth() bool             { return true }
func (f *UserFunction) Label() Label            { return f.Lbl }
func (f *UserFunction) WithLabel(l Label) Value { cp := *f; cp.Lbl = l; return &cp }
func (f *UserFunction) Clone() Value            { cp := *f; return &cp }

// Call creates a child scope over the captured lexical scope, pre-declares
// every local (including parameters) at the caller's current PC level, and
// runs the function body to completion or to its first Return. The
// Eval CallExpr case has already notified mon.Call once before invoking
// this; Call must not notify it again, or the monitor's return_address
// bookkeeping (one push per call, one pop per Return) goes out of balance.
func (f *UserFunction) Call(args []Value, mon Monitor, budget *StepBudget) (Value, error) {
	pcLevel := mon.CurrentPCLevel()
	child := NewChildScope(f.Captured)
	for _, name := range f.Locals {
		child.Declare(name, Undefined{}, pcLevel)
	}
	for i, p := range f.Params {
		var v Value = Undefined{}
		if i < len(args) {
			v = args[i]
		}
		child.Declare(p, v, pcLevel)
	}
	it := NewInterp(f.Code, child, mon)
	return it.Run(budget)
}

// BuiltinFunction wraps a host callable so it can be invoked like any other
// MiniScript function (spec.md §4.9).
type BuiltinFunction struct {
	Name        string
	Fn          func(args []Value, mon Monitor) (Value, error)
	PassMonitor bool // if true, mon is also available as Fn's second parameter (kept for symmetry with the spec; Fn always receives it here)
	Lbl         Label
}

func (b *BuiltinFunction) String() string           { return "builtin " + b.Name + "()" }
func (b *BuiltinFunction) Type() string              { return "function" }
func (b *BuiltinFunction) Truth() bool               { return true }
func (b *BuiltinFunction) Label() Label              { return b.Lbl }
func (b *BuiltinFunction) WithLabel(l Label) Value   { cp := *b; cp.Lbl = l; return &cp }
func (b *BuiltinFunction) Clone() Value              { cp := *b; return &cp }

// Call invokes the wrapped host callable. A nil result is reported as
// Undefined, matching BuiltinFunction.call in spec.md §4.9.
func (b *BuiltinFunction) Call(args []Value, mon Monitor, _ *StepBudget) (Value, error) {
	v, err := b.Fn(args, mon)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return Undefined{}, nil
	}
	return v, nil
}
