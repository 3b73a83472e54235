package cmd

import (
	"context"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
)

// outputTailLimit bounds the command output kept for run reports. The full
// output still reaches the external tool's own destination; the tail is
// only the diagnostic carried by the failing step.
const outputTailLimit = 4096

type runner struct{}

// NewRunner creates a CommandRunner that executes commands through the
// shell in the given working directory.
func NewRunner() *runner {
	return &runner{}
}

// Run executes the command and returns the tail of its combined output.
// The error of a non-zero exit carries the same tail for diagnostics.
func (r *runner) Run(ctx context.Context, dir, command string) (string, error) {
	c := exec.CommandContext(ctx, "sh", "-c", command)
	c.Dir = dir

	out, err := c.CombinedOutput()
	tail := tailOf(out)
	if err != nil {
		return tail, goerr.Wrap(err, "command failed",
			goerr.V("command", command),
			goerr.V("output", tail),
		)
	}

	return tail, nil
}

func tailOf(out []byte) string {
	if len(out) > outputTailLimit {
		out = out[len(out)-outputTailLimit:]
	}
	return string(out)
}
