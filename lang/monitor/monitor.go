// Package monitor composes the six IFC rules of spec.md §4.8 into a
// machine.Monitor. The source assembles a monitor by cooperative multiple
// inheritance (e.g. `class ChallengeMonitor(BlockRule, LiteralRule,
// ArithmeticOpRule, UnaryOperatorRule, AssignRule, BaseMonitor)`); this
// package models the same composition as a struct of independent rule
// flags consulted by the hook methods, per spec.md §9's design note that a
// systems language should use a flag struct or a set of trait objects
// rather than a class hierarchy.
package monitor

import "github.com/mna/miniscript/lang/machine"

// Rules selects which of the six composable rules are active. Any subset
// may be enabled; a Monitor with every field false is fully permissive,
// equivalent to machine.NopMonitor.
type Rules struct {
	// Block enables the implicit-flow rule: EnterBlock/EndBlock push/pop the
	// PC label stack. Without it the PC level never changes.
	Block bool
	// Literal enables labelling every literal with the current PC level.
	Literal bool
	// Arithmetic enables labelling BinOp results with the PC level joined
	// with both operands' labels.
	Arithmetic bool
	// Unary enables labelling UnaryOp results with the PC level joined with
	// the operand's label.
	Unary bool
	// Assign enables the no-sensitive-upgrade check on every Assign, plus
	// raising the stored value's label by the current PC level.
	Assign bool
	// Return enables the return-discipline check: a function may not return
	// from a PC level the caller can't already see.
	Return bool
}

// Full is the rule set documented in spec.md §4.8 as "the composed monitor
// used at top level in the shipping challenges": every rule enabled.
var Full = Rules{Block: true, Literal: true, Arithmetic: true, Unary: true, Assign: true, Return: true}

// Monitor implements machine.Monitor by consulting Rules at each hook. The
// base call/return bookkeeping (spec.md §4.8, "always on") runs
// unconditionally regardless of which Rules are set, since it is what keeps
// invariant 1 (a non-empty PC stack, a return_address stack that tracks
// call depth) intact even for a fully permissive monitor.
type Monitor struct {
	Rules Rules

	pcLevels   []machine.Label
	returnAddr []int
}

// New returns a Monitor composed from rules, with its PC label stack
// initialized to [∅] as required by spec.md §3.
func New(rules Rules) *Monitor {
	return &Monitor{Rules: rules, pcLevels: []machine.Label{machine.Empty}}
}

// Depth reports the current PC label stack depth; used by tests asserting
// the "PC invariance" testable property (spec.md §8.1).
func (m *Monitor) Depth() int { return len(m.pcLevels) }

// ReturnDepth reports the current return_address stack depth; zero between
// calls, per the same invariant.
func (m *Monitor) ReturnDepth() int { return len(m.returnAddr) }

// CurrentPCLevel returns the top of the PC label stack.
func (m *Monitor) CurrentPCLevel() machine.Label {
	return m.pcLevels[len(m.pcLevels)-1]
}

// BinOp implements ArithmeticOpRule (spec.md §4.8): the result is labelled
// with the join of both operands' labels and the current PC level. Without
// the rule, BinOp results are left unlabelled.
func (m *Monitor) BinOp(left, right machine.Value) machine.Label {
	if !m.Rules.Arithmetic {
		return machine.Empty
	}
	return m.CurrentPCLevel().Union(left.Label()).Union(right.Label())
}

// UnaryOp implements UnaryOperatorRule.
func (m *Monitor) UnaryOp(operand machine.Value) machine.Label {
	if !m.Rules.Unary {
		return machine.Empty
	}
	return m.CurrentPCLevel().Union(operand.Label())
}

// Literal implements LiteralRule: a literal evaluated under PC level P gets
// a label overwritten to P, so that literals appearing inside a tainted
// branch are themselves tainted.
func (m *Monitor) Literal(v machine.Value) machine.Value {
	if !m.Rules.Literal {
		return v
	}
	return v.WithLabel(m.CurrentPCLevel())
}

// EnterBlock implements half of BlockRule: push current ∪ guard.Label()
// onto the PC stack. Called on every conditional/loop-body entry regardless
// of which way the branch actually goes (the interpreter notifies it before
// branching), which is what makes implicit flow visible to the rest of the
// monitor even on the untaken arm.
func (m *Monitor) EnterBlock(guard machine.Value) {
	if !m.Rules.Block {
		return
	}
	m.pcLevels = append(m.pcLevels, m.CurrentPCLevel().Union(guard.Label()))
}

// EndBlock implements the other half of BlockRule: pop one PC-stack frame.
func (m *Monitor) EndBlock() {
	if !m.Rules.Block {
		return
	}
	if len(m.pcLevels) > 1 {
		m.pcLevels = m.pcLevels[:len(m.pcLevels)-1]
	}
}

// SecureAssign implements AssignRule (the no-sensitive-upgrade check). The
// checks below only fire when the current PC level is non-empty; the
// deep-copy-and-raise at the end always happens (raising by the empty label
// is a no-op), matching spec.md §4.8's "Then evaluate a.value, ... Return
// the raised copy" which is not conditioned on the PC level.
func (m *Monitor) SecureAssign(scope *machine.Scope, target string, value machine.Value) (machine.Value, error) {
	if !m.Rules.Assign {
		return value, nil
	}
	pc := m.CurrentPCLevel()
	if pc.Len() > 0 {
		if !scope.Contains(target) {
			return nil, machine.NewFlowControlError("cannot create variable " + target + " in a tainted context")
		}
		existing, err := scope.Get(target)
		if err != nil {
			return nil, err
		}
		if !pc.Subset(existing.Label()) {
			return nil, machine.NewFlowControlError("cannot modify variable " + target + " with label " + existing.Label().String())
		}
	}
	cp := value.Clone()
	return cp.WithLabel(cp.Label().Union(pc)), nil
}

// Call implements the base call bookkeeping: push the current PC-stack
// depth so Return can restore it no matter what the call does internally.
func (m *Monitor) Call(fn machine.Value, args []machine.Value) {
	m.returnAddr = append(m.returnAddr, len(m.pcLevels))
}

// Return implements ReturnRule plus the base return bookkeeping. The
// ReturnRule check compares the current PC level against the PC level in
// effect one frame below the call's recorded depth (the caller's level at
// the point of call); the bookkeeping always restores pcLevels to that
// depth regardless of whether the check passed, since a failed check
// aborts the whole run anyway (spec.md §7: FlowControl is not recovered
// internally).
func (m *Monitor) Return(v machine.Value) error {
	if len(m.returnAddr) == 0 {
		return nil
	}
	depth := m.returnAddr[len(m.returnAddr)-1]
	var err error
	if m.Rules.Return && depth >= 1 && depth-1 < len(m.pcLevels) {
		if !m.CurrentPCLevel().Subset(m.pcLevels[depth-1]) {
			err = machine.NewFlowControlError("cannot return across a more sensitive context than the caller's")
		}
	}
	m.returnAddr = m.returnAddr[:len(m.returnAddr)-1]
	if depth <= len(m.pcLevels) {
		m.pcLevels = m.pcLevels[:depth]
	}
	return err
}
