package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/miniscript/internal/challenge"
)

// Challenge runs one of the built-in non-interference challenges
// (internal/challenge) against an attacker-supplied source file, the Go
// equivalent of the original Python challenges' `default_main` entry point
// (spec.md §6's "Challenge harness (external)").
func (c *Cmd) Challenge(ctx context.Context, stdio mainer.Stdio, args []string) error {
	name, path := args[0], args[1]

	ch := challenge.ByName(name, stdio.Stdout)
	if ch == nil {
		err := fmt.Errorf("challenge: unknown challenge %q (available: %s)", name, strings.Join(challenge.Names(), ", "))
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if !ch.Run(string(src), stdio.Stdout) {
		return fmt.Errorf("challenge: %s failed", name)
	}
	return nil
}
