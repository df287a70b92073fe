package machine

import "github.com/mna/miniscript/lang/ast"

// Monitor is the hook set consulted by the evaluator and interpreter at
// every labelled event (spec.md §4.8). It is declared here, in the lower
// package, so that eval.go and interp.go can depend on the interface
// without depending on any concrete rule composition; the concrete monitor
// that composes the six rules lives in package monitor, which imports
// machine rather than the other way around.
//
// A Monitor that implements none of the rules (every hook a no-op returning
// the bottom label or the value unchanged) is a valid, fully permissive
// monitor; this is what the "without this rule" language throughout §4.8
// describes.
type Monitor interface {
	// BinOp is notified after both operands of a non-short-circuit BinOp (or
	// the right side of a short-circuiting one) have been evaluated; it
	// returns the label to attach to the result.
	BinOp(left, right Value) Label
	// UnaryOp is notified after the operand of a UnaryOp has been evaluated;
	// it returns the label to attach to the result.
	UnaryOp(operand Value) Label
	// Literal is notified when a literal expression is evaluated; it returns
	// the (possibly relabelled) value to use in its place.
	Literal(v Value) Value
	// EnterBlock is notified when a conditional or loop body is entered, with
	// the guard value whose truthiness gated entry.
	EnterBlock(guard Value)
	// EndBlock is notified when a block (branch arm or loop body/exit) ends.
	EndBlock()
	// SecureAssign is notified on every Assign instruction; target is the
	// name being written (already resolved to exist or not in scope), and it
	// returns the value to actually store, or an error if the assignment is
	// rejected on IFC grounds.
	SecureAssign(scope *Scope, target string, value Value) (Value, error)
	// Call is notified when a function call is about to be made.
	Call(fn Value, args []Value)
	// Return is notified when a Return instruction evaluates its value; it
	// may reject the return on IFC grounds.
	Return(v Value) error
	// CurrentPCLevel returns the top of the monitor's pc_levels stack, used
	// to label locals declared at function entry (spec.md §4.9).
	CurrentPCLevel() Label
}

// NopMonitor is a fully permissive Monitor: every hook is inert. It is
// useful for running programs without any IFC policy, e.g. to establish the
// "non-labelled" baseline in TestableProperty 7 (compilation round-trip).
type NopMonitor struct{}

func (NopMonitor) BinOp(left, right Value) Label { return Empty }
func (NopMonitor) UnaryOp(operand Value) Label   { return Empty }
func (NopMonitor) Literal(v Value) Value         { return v }
func (NopMonitor) EnterBlock(guard Value)        {}
func (NopMonitor) EndBlock()                     {}
func (NopMonitor) SecureAssign(scope *Scope, target string, value Value) (Value, error) {
	return value, nil
}
func (NopMonitor) Call(fn Value, args []Value) {}
func (NopMonitor) Return(v Value) error        { return nil }
func (NopMonitor) CurrentPCLevel() Label       { return Empty }

// evalList is a tiny helper shared by eval.go for left-to-right evaluation
// of argument/element lists.
func evalList(exprs []ast.Expr, scope *Scope, mon Monitor, budget *StepBudget) ([]Value, error) {
	out := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := Eval(e, scope, mon, budget)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
