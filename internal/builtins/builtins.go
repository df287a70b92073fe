// Package builtins implements the three host functions spec.md §1 and §4.9
// list as optional collaborators injected into the global environment:
// print, label and labelPrint. None of them are part of the labelled
// core — they are BuiltinFunction values wired into a machine.Scope the
// same way the teacher's lang/machine wires its library functions into a
// predeclared environment, except here the "library" is this repository's
// own internal/builtins rather than an imported one.
package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/miniscript/lang/machine"
)

// Install declares print, label and labelPrint in scope, writing print's and
// labelPrint's output to stdout. It mirrors the challenge harness's setup
// step (spec.md §6, "constructs a scope with initial high/low variables"),
// which the original Python challenges perform by copying selected names
// out of a GlobalScope.
func Install(scope *machine.Scope, stdout io.Writer) {
	scope.Declare("print", &machine.BuiltinFunction{Name: "print", Fn: printFn(stdout)}, machine.Empty)
	scope.Declare("label", &machine.BuiltinFunction{Name: "label", Fn: labelFn}, machine.Empty)
	scope.Declare("labelPrint", &machine.BuiltinFunction{Name: "labelPrint", Fn: labelPrintFn(stdout)}, machine.Empty)
}

// printFn renders every argument's to_string() form, space-separated,
// followed by a newline, to w.
func printFn(w io.Writer) func([]machine.Value, machine.Monitor) (machine.Value, error) {
	return func(args []machine.Value, _ machine.Monitor) (machine.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return machine.Undefined{}, nil
	}
}

// labelFn implements `label(v, ...tags)`: deep-copy v and return the copy
// with its label unioned with the stringified tags. Tags are MiniScript
// string values (e.g. "a", "b"); non-string arguments are stringified via
// to_string the same way the rest of the value model does total
// conversions.
func labelFn(args []machine.Value, _ machine.Monitor) (machine.Value, error) {
	if len(args) == 0 {
		return machine.Undefined{}, nil
	}
	v := args[0].Clone()
	tags := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		tags = append(tags, machine.ToString(a).Val)
	}
	return v.WithLabel(v.Label().Union(machine.NewLabel(tags...))), nil
}

// labelPrintFn renders each argument alongside its label and the monitor's
// current PC level, so attacker code can introspect the IFC state it is
// running under (spec.md §9, "Globals").
func labelPrintFn(w io.Writer) func([]machine.Value, machine.Monitor) (machine.Value, error) {
	return func(args []machine.Value, mon machine.Monitor) (machine.Value, error) {
		pc := machine.Empty
		if mon != nil {
			pc = mon.CurrentPCLevel()
		}
		for _, a := range args {
			fmt.Fprintf(w, "%s %s (pc=%s)\n", a.String(), a.Label(), pc)
		}
		return machine.Undefined{}, nil
	}
}
