package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/miniscript/internal/builtins"
	"github.com/mna/miniscript/lang/machine"
	"github.com/mna/miniscript/lang/monitor"
	"github.com/mna/miniscript/lang/parser"
)

// defaultStepBudget caps a `run` invocation that doesn't pass --steps.
const defaultStepBudget = 100_000

// Run executes a single MiniScript source file. Without --full-monitor it
// runs unmonitored (machine.NopMonitor), the same "just run the program"
// mode the external per-challenge harnesses use when they don't care about
// IFC; with --full-monitor it runs under the six-rule monitor.Full
// composition instead, so a user can sanity-check a program against the
// full IFC policy without writing a Challenge.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	block, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	scope := machine.NewGlobalScope()
	builtins.Install(scope, stdio.Stdout)

	var mon machine.Monitor = machine.NopMonitor{}
	if c.FullMonitor {
		mon = monitor.New(monitor.Full)
	}

	steps := c.Steps
	if steps <= 0 {
		steps = defaultStepBudget
	}
	budget := machine.NewStepBudget(steps)
	if _, err := machine.RunProgram(block, scope, mon, budget); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	return nil
}
