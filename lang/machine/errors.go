package machine

import "fmt"

// Kind classifies a machine error (spec.md §7). The Is* helpers below match
// on the Kind of a *Error, and Kind's String gives tests and the CLI a
// short, stable category name.
type Kind int

const (
	// IllegalState signals an interpreter invariant was violated, e.g. a
	// PC outside the code bounds or an unknown instruction or expression
	// type reaching the interpreter. These never result from user
	// code alone and indicate a bug in the compiler or interpreter.
	IllegalState Kind = iota
	// UnsupportedOperation signals an operator or conversion was applied to
	// operand types that do not support it, e.g. calling a non-function.
	UnsupportedOperation
	// RefError signals a reference to an undeclared name.
	RefError
	// FlowControl signals the monitor rejected an operation on IFC grounds,
	// e.g. a no-sensitive-upgrade violation.
	FlowControl
	// MaximumStepsReached signals Run's step budget was exhausted.
	MaximumStepsReached
	// NotYetImplemented signals a construct accepted by the parser that the
	// compiler or evaluator does not yet lower, e.g. assigning to a
	// non-NameExpr target.
	NotYetImplemented
)

func (k Kind) String() string {
	switch k {
	case IllegalState:
		return "illegal state"
	case UnsupportedOperation:
		return "unsupported operation"
	case RefError:
		return "reference error"
	case FlowControl:
		return "flow control"
	case MaximumStepsReached:
		return "maximum steps reached"
	case NotYetImplemented:
		return "not yet implemented"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every exported machine
// function that can fail. Callers distinguish kinds with errors.As and a
// type switch on Kind, or with the Is* helpers below.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func newError(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

// IsFlowControl reports whether err is a *Error of Kind FlowControl.
func IsFlowControl(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == FlowControl
}

// IsMaximumSteps reports whether err is a *Error of Kind MaximumStepsReached.
func IsMaximumSteps(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == MaximumStepsReached
}

// IsRefError reports whether err is a *Error of Kind RefError.
func IsRefError(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == RefError
}

// refError builds a RefError for an undeclared name.
func refError(name string) error {
	return newError(RefError, fmt.Sprintf("undeclared name: %s", name))
}

// flowError builds a FlowControl error from a monitor rejection reason.
func flowError(reason string) error {
	return newError(FlowControl, reason)
}

// NewFlowControlError builds a FlowControl error from reason. It is exported
// so that package monitor, which implements the IFC policy rules against the
// Monitor interface declared here, can reject an operation without this
// package exposing its whole error-construction surface.
func NewFlowControlError(reason string) error {
	return flowError(reason)
}

// illegalState builds an IllegalState error; used only for conditions the
// compiler should make unreachable.
func illegalState(msg string) error {
	return newError(IllegalState, msg)
}
