package challenge

import (
	"io"
	"math/rand"

	"github.com/mna/miniscript/internal/builtins"
	"github.com/mna/miniscript/internal/restrict"
	"github.com/mna/miniscript/lang/ast"
	"github.com/mna/miniscript/lang/machine"
	"github.com/mna/miniscript/lang/monitor"
)

// The functions below are Go ports of the eight example challenges under
// `_examples/original_source/challenges/`, one per non-interference
// scenario spec.md §8 describes. Each names its Python source file in its
// doc comment. Every Gen draws a new secret from the package-level math/rand
// generator on each run, so repeated runs (Runs > 1) probe with different
// secrets, matching the originals' use of `random.randint`/`random.choice`.

// VeryBasic ports "00 - Very Basic": no monitor rules at all (LightMonitor)
// and an AST restrictor limiting the program to number literals, names,
// arithmetic and assignment.
func VeryBasic() *Challenge {
	return &Challenge{
		Name:     "very basic",
		Monitor:  monitor.New(monitor.Rules{}),
		Restrict: func(b *ast.Block) error { return restrict.Check(b, restrict.ArithmeticOnly) },
		Budget:   10_000,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewNumber(float64(rand.Intn(1_000_000_000))).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// Basic ports "01 - Basic": the same LightMonitor as VeryBasic, but with no
// AST restriction — attacker code can use the full grammar.
func Basic() *Challenge {
	c := VeryBasic()
	c.Name = "basic"
	c.Restrict = nil
	return c
}

// Rule1 ports "02-Rule1": only ArithmeticOpRule is active (Level2Monitor).
func Rule1() *Challenge {
	c := VeryBasic()
	c.Name = "rule 1"
	c.Restrict = nil
	c.Monitor = monitor.New(monitor.Rules{Arithmetic: true})
	return c
}

// Rule1And3 ports "03 - Rule 1 + 3": ArithmeticOpRule and
// UnaryOperatorRule are active (Level3Monitor); the secret is a boolean.
func Rule1And3() *Challenge {
	return &Challenge{
		Name:    "rule 1 + 3",
		Monitor: monitor.New(monitor.Rules{Arithmetic: true, Unary: true}),
		Budget:  10_000,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewBoolean(rand.Intn(2) == 0).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// level4Rules is Level4Monitor from "04 - No ifs" and "05 - Search":
// Arithmetic, Unary, Literal and Assign active, but no Block or Return
// rule — implicit flow through control structures is not tracked at all,
// so the challenge instead forbids `if` syntactically.
var level4Rules = monitor.Rules{Arithmetic: true, Unary: true, Literal: true, Assign: true}

// NoIfs ports "04 - No ifs": Level4Monitor plus a restrictor that rejects
// any IfStmt, forcing the attacker to find another way to move the secret.
func NoIfs() *Challenge {
	return &Challenge{
		Name:     "no ifs",
		Monitor:  monitor.New(level4Rules),
		Restrict: func(b *ast.Block) error { return restrict.Check(b, restrict.NoBranches) },
		Budget:   10_000,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewBoolean(rand.Intn(2) == 0).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// Search ports "05 - Search": the same Level4Monitor as NoIfs, no
// restrictor, print installed, and 8 runs (nruns=8) since the task ("search"
// for the secret bit by bit without any IFC-visible branch) only reliably
// succeeds across several probes.
func Search(out io.Writer) *Challenge {
	return &Challenge{
		Name:    "extract number without using if",
		Monitor: monitor.New(level4Rules),
		Setup:   func(s *machine.Scope) { builtins.Install(s, out) },
		Budget:  10_000,
		Runs:    8,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewNumber(float64(rand.Intn(1_000_000_007) + 1)).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// returnChallengeRules is ChallengeMonitor from "06 - Return": Block,
// Literal, Arithmetic, Unary and Assign are active, but ReturnRule is
// commented out in the original (`#, ms.ReturnRule`) — the challenge is
// meant to be solved by exploiting that gap via a function return.
var returnChallengeRules = monitor.Rules{Block: true, Literal: true, Arithmetic: true, Unary: true, Assign: true}

// Return ports "06 - Return": extract a labelled boolean using a function
// return to cross a PC boundary the ReturnRule would otherwise police.
func Return(out io.Writer) *Challenge {
	return &Challenge{
		Name:    "extract boolean",
		Monitor: monitor.New(returnChallengeRules),
		Setup:   func(s *machine.Scope) { builtins.Install(s, out) },
		Budget:  10_000,
		Runs:    8,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewBoolean(rand.Intn(2) == 0).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// All ports "XX - All": every rule active (monitor.Full, the
// "BlockLoopReturnRule" composition in the original), the final challenge
// that must hold up against every non-interference scenario in spec.md §8
// at once.
func All(out io.Writer) *Challenge {
	return &Challenge{
		Name:    "final challenge",
		Monitor: monitor.New(monitor.Full),
		Setup:   func(s *machine.Scope) { builtins.Install(s, out) },
		Budget:  10_000,
		Vars: []Var{
			{High: "h", Low: "l", Gen: func() machine.Value {
				return machine.NewBoolean(rand.Intn(2) == 0).WithLabel(machine.NewLabel("high"))
			}},
		},
	}
}

// ByName returns the named challenge's factory result, or nil if name is
// unrecognized. The CLI (cmd/miniscript) uses this to resolve its
// `challenge` subcommand's argument.
func ByName(name string, out io.Writer) *Challenge {
	switch name {
	case "very-basic":
		return VeryBasic()
	case "basic":
		return Basic()
	case "rule1":
		return Rule1()
	case "rule1and3":
		return Rule1And3()
	case "no-ifs":
		return NoIfs()
	case "search":
		return Search(out)
	case "return":
		return Return(out)
	case "all":
		return All(out)
	default:
		return nil
	}
}

// Names lists every recognized challenge name, in the order spec.md §3
// enumerates them ("00 - Very Basic" through "06 - Return", and "XX -
// All"), for the CLI's usage text.
func Names() []string {
	return []string{"very-basic", "basic", "rule1", "rule1and3", "no-ifs", "search", "return", "all"}
}
