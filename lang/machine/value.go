// Package machine implements the runtime value model, scope, expression
// evaluator and stepping interpreter for MiniScript (spec.md §4.1-§4.2,
// §4.6-§4.7, §4.9). It is the labelled core of the system: every Value
// carries a security Label, and every operation that produces a Value
// from others must route through a Monitor so that a pluggable IFC policy
// can observe and veto information flow.
package machine

import (
	"fmt"
	"math"
	"strconv"
)

// Value is the interface implemented by every runtime value. Unlike the
// teacher's bare-type values (Float, Bool, ...), every MiniScript value
// carries a Label, so Value exposes Label()/WithLabel() in addition to the
// familiar String()/Type()/Truth() trio.
type Value interface {
	// String returns the value's to_string() conversion (spec.md §4.1).
	String() string
	// Type returns a short name for the value's kind, e.g. "number".
	Type() string
	// Truth reports whether the value is falsy-complemented, i.e. !is_falsy.
	Truth() bool
	// Label returns the value's current security label.
	Label() Label
	// WithLabel returns a shallow copy of the value with its label replaced.
	WithLabel(Label) Value
	// Clone returns a deep copy of the value (arrays are copied element-wise),
	// so that a monitor rule can raise the label of a copy without aliasing
	// the original (spec.md §9 "Deep-copy on assign").
	Clone() Value
}

// Number is a MiniScript number, always stored as a float64.
type Number struct {
	Val float64
	Lbl Label
}

func (n Number) String() string {
	switch {
	case math.IsNaN(n.Val):
		return "NaN"
	case math.IsInf(n.Val, 1):
		return "Infinity"
	case math.IsInf(n.Val, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(n.Val, 'g', -1, 64)
	}
}
func (n Number) Type() string        { return "number" }
func (n Number) Truth() bool         { return !IsFalsy(n) }
func (n Number) Label() Label        { return n.Lbl }
func (n Number) WithLabel(l Label) Value { n.Lbl = l; return n }
func (n Number) Clone() Value        { return Number{Val: n.Val, Lbl: n.Lbl} }

// Boolean is a MiniScript boolean.
type Boolean struct {
	Val bool
	Lbl Label
}

func (b Boolean) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}
func (b Boolean) Type() string        { return "boolean" }
func (b Boolean) Truth() bool         { return b.Val }
func (b Boolean) Label() Label        { return b.Lbl }
func (b Boolean) WithLabel(l Label) Value { b.Lbl = l; return b }
func (b Boolean) Clone() Value        { return Boolean{Val: b.Val, Lbl: b.Lbl} }

// Null is MiniScript's `null`.
type Null struct{ Lbl Label }

func (Null) String() string           { return "null" }
func (Null) Type() string             { return "null" }
func (Null) Truth() bool              { return false }
func (n Null) Label() Label           { return n.Lbl }
func (n Null) WithLabel(l Label) Value { n.Lbl = l; return n }
func (n Null) Clone() Value           { return Null{Lbl: n.Lbl} }

// Undefined is MiniScript's `undefined`, the default value of a declared but
// uninitialized name.
type Undefined struct{ Lbl Label }

func (Undefined) String() string           { return "undefined" }
func (Undefined) Type() string             { return "undefined" }
func (Undefined) Truth() bool              { return false }
func (u Undefined) Label() Label           { return u.Lbl }
func (u Undefined) WithLabel(l Label) Value { u.Lbl = l; return u }
func (u Undefined) Clone() Value           { return Undefined{Lbl: u.Lbl} }

// String is a MiniScript text string.
type String struct {
	Val string
	Lbl Label
}

func (s String) String() string           { return s.Val }
func (s String) Type() string             { return "string" }
func (s String) Truth() bool              { return s.Val != "" }
func (s String) Label() Label             { return s.Lbl }
func (s String) WithLabel(l Label) Value  { s.Lbl = l; return s }
func (s String) Clone() Value             { return String{Val: s.Val, Lbl: s.Lbl} }

// Array is a MiniScript array. Elems is never mutated in place by the
// evaluator; array mutation would require a HasSetIndex-style API, which
// spec.md does not call for.
type Array struct {
	Elems []Value
	Lbl   Label
}

func (a Array) String() string {
	switch len(a.Elems) {
	case 0:
		return ""
	case 1:
		return a.Elems[0].String()
	default:
		s := "["
		for i, e := range a.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "]"
	}
}
func (a Array) Type() string  { return "array" }
func (a Array) Truth() bool   { return !IsFalsy(a) }
func (a Array) Label() Label  { return a.Lbl }
func (a Array) WithLabel(l Label) Value { a.Lbl = l; return a }
func (a Array) Clone() Value {
	elems := make([]Value, len(a.Elems))
	for i, e := range a.Elems {
		elems[i] = e.Clone()
	}
	return Array{Elems: elems, Lbl: a.Lbl}
}

// NewNumber, NewBoolean, NewString and NewArray construct unlabelled
// (public) values; use WithLabel to attach a label afterwards.
func NewNumber(v float64) Number   { return Number{Val: v} }
func NewBoolean(v bool) Boolean    { return Boolean{Val: v} }
func NewString(v string) String   { return String{Val: v} }
func NewArray(v []Value) Array     { return Array{Elems: v} }

// ToNumber implements the total conversion to_number (spec.md §4.1).
func ToNumber(v Value) Number {
	switch v := v.(type) {
	case Number:
		return v
	case Boolean:
		if v.Val {
			return Number{Val: 1}
		}
		return Number{Val: 0}
	case Null:
		return Number{Val: 0}
	case Undefined:
		return Number{Val: math.NaN()}
	case String:
		n, err := strconv.ParseInt(v.Val, 10, 64)
		if err != nil {
			return Number{Val: math.NaN()}
		}
		return Number{Val: float64(n)}
	case Array:
		if len(v.Elems) == 1 {
			return ToNumber(v.Elems[0])
		}
		return Number{Val: math.NaN()}
	default:
		return Number{Val: math.NaN()}
	}
}

// ToString implements the total conversion to_string (spec.md §4.1). Every
// value in the closed MiniScript value set has a string form, so unlike
// to_number this conversion never produces an error; UnsupportedOperation is
// raised by the evaluator instead, for calling a non-function (the CallExpr
// case in eval.go) and for unknown operators.
func ToString(v Value) String {
	return String{Val: v.String()}
}

// IsFalsy implements is_falsy (spec.md §4.1).
func IsFalsy(v Value) bool {
	switch v := v.(type) {
	case Boolean:
		return !v.Val
	case Number:
		return v.Val == 0 || math.IsNaN(v.Val)
	case Null, Undefined:
		return true
	case String:
		return v.Val == ""
	default:
		return false
	}
}

// Equal implements value equality: same variant plus structural equality of
// payload, ignoring labels (spec.md §4.1).
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		b, ok := b.(Number)
		return ok && (a.Val == b.Val || (math.IsNaN(a.Val) && math.IsNaN(b.Val)))
	case Boolean:
		b, ok := b.(Boolean)
		return ok && a.Val == b.Val
	case String:
		b, ok := b.(String)
		return ok && a.Val == b.Val
	case Null:
		_, ok := b.(Null)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Array:
		b, ok := b.(Array)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// typeMismatch is a small helper used by the evaluator to report operand
// type errors uniformly.
func typeMismatch(op string, v Value) error {
	return newError(UnsupportedOperation, fmt.Sprintf("unsupported operand for %s: %s", op, v.Type()))
}
