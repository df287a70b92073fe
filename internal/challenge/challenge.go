// Package challenge implements the Challenge harness spec.md §6 describes
// only in prose ("Challenge harness (external)... Takes one argument: path
// to attacker source; loads source, constructs a scope with initial high
// and low variables, parses, optionally applies an AST restrictor, compiles,
// runs under a specific monitor composition, and checks..."). It is a
// direct Go port of `_examples/original_source/challenges/common.py`'s
// `Challenge` class, supplementing the distilled spec per spec.md §3.
package challenge

import (
	"fmt"
	"io"

	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/machine"
	"github.com/mna/miniscript/lang/parser"
)

// Var is one (high, low) variable pair of a Challenge: Gen produces the
// labelled high value afresh on every run (so nruns > 1 probes with
// different secrets), and Low starts declared but Undefined.
type Var struct {
	High string
	Low  string
	Gen  func() machine.Value
}

// Challenge bundles everything common.py's Challenge constructor takes:
// the variable pairs, the monitor to run under, an optional AST
// restrictor, an optional scope setup (e.g. installing print), and how many
// times to run (nruns) before declaring victory.
type Challenge struct {
	Name string
	Vars []Var

	Monitor  machine.Monitor
	Restrict func(*ast.Block) error
	Setup    func(*machine.Scope)
	// Check overrides the default per-Var comparison; it receives the scope
	// after a run and reports whether the run passed.
	Check func(*machine.Scope) bool

	Budget int // step budget per run; <= 0 means unlimited
	Runs   int // number of times to run source before passing; defaults to 1
}

// Run parses and executes source Runs times (or once if Runs <= 0),
// re-declaring fresh high values from Gen on every run, and reports whether
// every run passed the check. It writes a human-readable verdict to out,
// using the harness-level "challenge passed" / "not quite. try again"
// wording from spec.md §6.
func (c *Challenge) Run(source string, out io.Writer) bool {
	block, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(out, err)
		fmt.Fprintln(out, "not quite. try again")
		return false
	}

	if c.Restrict != nil {
		if err := c.Restrict(block); err != nil {
			fmt.Fprintln(out, "you used forbidden syntax elements:", err)
			fmt.Fprintln(out, "not quite. try again")
			return false
		}
	}

	runs := c.Runs
	if runs <= 0 {
		runs = 1
	}

	for i := 0; i < runs; i++ {
		if !c.runOnce(block, out) {
			fmt.Fprintln(out, "not quite. try again")
			return false
		}
	}
	fmt.Fprintln(out, "challenge passed")
	return true
}

func (c *Challenge) runOnce(block *ast.Block, out io.Writer) bool {
	scope := machine.NewGlobalScope()
	if c.Setup != nil {
		c.Setup(scope)
	}
	for _, v := range c.Vars {
		scope.Declare(v.Low, machine.Undefined{}, machine.Empty)
		scope.Declare(v.High, v.Gen(), machine.Empty)
	}

	budget := machine.NewStepBudget(c.Budget)
	if _, err := machine.RunProgram(block, scope, c.Monitor, budget); err != nil {
		fmt.Fprintln(out, err)
		return false
	}

	if c.Check != nil {
		return c.Check(scope)
	}
	return c.defaultCheck(scope, out)
}

// defaultCheck mirrors common.py's Challenge.check: every low variable must
// have the same runtime type and value as its paired high variable, and its
// label must be empty.
func (c *Challenge) defaultCheck(scope *machine.Scope, out io.Writer) bool {
	for _, v := range c.Vars {
		lo, err := scope.Get(v.Low)
		if err != nil {
			return false
		}
		hi, err := scope.Get(v.High)
		if err != nil {
			return false
		}
		fmt.Fprintf(out, "%s = %s %s\n", v.Low, lo.String(), lo.Label())
		fmt.Fprintf(out, "%s = %s %s\n", v.High, hi.String(), hi.Label())
		if fmt.Sprintf("%T", lo) != fmt.Sprintf("%T", hi) || !machine.Equal(lo, hi) || lo.Label().Len() != 0 {
			return false
		}
	}
	return true
}
