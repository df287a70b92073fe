// Package maincmd implements the command dispatch for cmd/miniscript, the
// same way the teacher's internal/maincmd does for cmd/nenuphar: a Cmd
// struct with flag-tagged fields parsed by github.com/mna/mainer.Parser,
// reflection-driven subcommand lookup, and one method per subcommand.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "miniscript"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...] [-- <arg>...]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter and IFC-challenge runner for the MiniScript language.

The <command> can be one of:
       run                       Run a MiniScript source file under the
                                 labelled interpreter and print whatever it
                                 writes via print/labelPrint.
       challenge <name> <path>   Run the named non-interference challenge
                                 against an attacker-supplied source file
                                 and report pass/fail.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <run> command are:
       --steps=N                 Step budget for the run (default 100000).
       --full-monitor            Run under the full six-rule IFC monitor
                                 instead of an unmonitored interpreter.

More information on the %[1]s repository:
       https://github.com/mna/miniscript
`, binName)
)

// Cmd is the root command, parsed by mainer.Parser and dispatched to one of
// the methods discovered by buildCmds (the same reflection-based approach
// the teacher's internal/maincmd.Cmd uses).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Steps       int  `flag:"steps"`
	FullMonitor bool `flag:"full-monitor"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	switch cmdName {
	case "run":
		if len(c.args[1:]) != 1 {
			return errors.New("run: exactly one source file path is required")
		}
	case "challenge":
		if len(c.args[1:]) != 2 {
			return errors.New("challenge: a challenge name and an attacker source file path are required")
		}
	}
	return nil
}

// Main parses args and dispatches to the resolved subcommand, following
// the same Parse/Help/Version/dispatch shape as the teacher's
// internal/maincmd.Cmd.Main.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds discovers every method on v that matches the
// (context.Context, mainer.Stdio, []string) error shape, keyed by its
// lower-cased name, exactly as the teacher's internal/maincmd does.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
