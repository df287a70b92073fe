package machine

import (
	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/compiler"
)

// Interp is a PC-driven dispatcher over a flat instruction stream
// (spec.md §4.7). Each function call runs its body in its own Interp, over
// its own child Scope, but every Interp created within one program run
// shares the same Monitor and StepBudget.
type Interp struct {
	Code    []compiler.Instruction
	Scope   *Scope
	Monitor Monitor
	pc      int
	budget  *StepBudget
}

// NewInterp returns an Interp ready to run code from pc 0.
func NewInterp(code []compiler.Instruction, scope *Scope, mon Monitor) *Interp {
	return &Interp{Code: code, Scope: scope, Monitor: mon}
}

// stepOutcome communicates whether a step unwound via Return.
type stepOutcome struct {
	returned bool
	value    Value
}

// Run executes instructions from the current pc until it reaches the end of
// Code (normal completion, returning Undefined), a Return instruction
// unwinds (returning its value), or budget is exhausted
// (MaximumStepsReached). A pc that strays outside [0, len(Code)] without
// landing exactly on len(Code) fails IllegalState.
func (it *Interp) Run(budget *StepBudget) (Value, error) {
	it.budget = budget
	for {
		if it.pc == len(it.Code) {
			return Undefined{}, nil
		}
		if it.pc < 0 || it.pc > len(it.Code) {
			return nil, illegalState("program counter out of bounds")
		}
		if err := budget.consume(); err != nil {
			return nil, err
		}
		outcome, err := it.step()
		if err != nil {
			return nil, err
		}
		if outcome.returned {
			return outcome.value, nil
		}
	}
}

func (it *Interp) step() (stepOutcome, error) {
	instr := it.Code[it.pc]
	switch instr := instr.(type) {
	case *compiler.Jump:
		it.pc += instr.Offset
		return stepOutcome{}, nil

	case *compiler.ConditionalJump:
		cond, err := Eval(instr.Cond, it.Scope, it.Monitor, it.budget)
		if err != nil {
			return stepOutcome{}, err
		}
		it.Monitor.EnterBlock(cond)
		if cond.Truth() {
			it.pc += instr.Offset
		} else {
			it.pc++
		}
		return stepOutcome{}, nil

	case *compiler.Assign:
		if err := it.assign(instr.Target, instr.Value); err != nil {
			return stepOutcome{}, err
		}
		it.pc++
		return stepOutcome{}, nil

	case *compiler.Return:
		var v Value = Undefined{}
		if instr.Value != nil {
			var err error
			v, err = Eval(instr.Value, it.Scope, it.Monitor, it.budget)
			if err != nil {
				return stepOutcome{}, err
			}
		}
		if err := it.Monitor.Return(v); err != nil {
			return stepOutcome{}, err
		}
		return stepOutcome{returned: true, value: v}, nil

	case *compiler.EndBlock:
		it.Monitor.EndBlock()
		it.pc++
		return stepOutcome{}, nil

	case *compiler.VarDecl:
		if instr.Value != nil {
			if err := it.assign(&ast.NameExpr{Name: instr.Name}, instr.Value); err != nil {
				return stepOutcome{}, err
			}
		}
		it.pc++
		return stepOutcome{}, nil

	case *compiler.Expression:
		if _, err := Eval(instr.Expr, it.Scope, it.Monitor, it.budget); err != nil {
			return stepOutcome{}, err
		}
		it.pc++
		return stepOutcome{}, nil

	default:
		return stepOutcome{}, illegalState("unknown instruction in code stream")
	}
}

func (it *Interp) assign(target, value ast.Expr) error {
	name, ok := target.(*ast.NameExpr)
	if !ok {
		return newError(NotYetImplemented, "assignment to a non-name target")
	}
	v, err := Eval(value, it.Scope, it.Monitor, it.budget)
	if err != nil {
		return err
	}
	stored, err := it.Monitor.SecureAssign(it.Scope, name.Name, v)
	if err != nil {
		return err
	}
	it.Scope.Set(name.Name, stored, false)
	return nil
}

// RunProgram pre-declares the top-level chunk's locals (discovered exactly
// as a function body's are, see NewUserFunction) at the monitor's current
// PC level, compiles it, and runs it to completion under budget. It is the
// entry point used by the challenge harness for a freshly parsed program.
func RunProgram(block *ast.Block, scope *Scope, mon Monitor, budget *StepBudget) (Value, error) {
	for _, name := range collectLocals(block.Stmts) {
		if !scope.Contains(name) {
			scope.Declare(name, Undefined{}, mon.CurrentPCLevel())
		}
	}
	code := compiler.Compile(block)
	return NewInterp(code, scope, mon).Run(budget)
}
