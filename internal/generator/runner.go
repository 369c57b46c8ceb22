// Package generator wraps the external static-site generator binary. The
// generator is treated as a black box: exit code 0 is success, anything else
// is failure, and combined stdout/stderr is the diagnostic output.
package generator

import (
	"context"
	"os/exec"
	"strings"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// Runner executes one "build this directory" operation.
type Runner interface {
	// Check verifies the runner's preconditions (e.g. binary present in PATH).
	Check() error
	// Run builds the given directory, returning captured diagnostic output.
	Run(ctx context.Context, dir string) (string, error)
}

// Binary invokes an external generator command with the unit directory as
// working directory.
type Binary struct {
	Command string
	Args    []string
}

// NewBinary constructs a Binary runner.
func NewBinary(command string, args []string) *Binary {
	return &Binary{Command: command, Args: args}
}

// Check verifies the generator binary is resolvable. A missing binary is a
// fatal precondition: nothing may run without it.
func (b *Binary) Check() error {
	if _, err := exec.LookPath(b.Command); err != nil {
		return sferrors.GeneratorMissing(b.Command, err)
	}
	return nil
}

// Run executes the generator inside dir and returns its combined output.
func (b *Binary) Run(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
