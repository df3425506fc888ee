package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// parseCommand splits a configured collaborator command line into argv,
// preserving any extra arguments the operator baked into the config.
func parseCommand(command string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return args, nil
}

// runCommand executes a collaborator subprocess, capturing stderr for
// diagnostics. A deadline hit is classified transient so the shared retry
// policy treats it like a synthesis timeout; any other non-zero exit is
// permanent.
func runCommand(ctx context.Context, base []string, args ...string) error {
	argv := append(append([]string{}, base...), args...)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s timed out", domain.ErrTransientBackend, argv[0])
		}
		return &domain.SubprocessError{
			Command: argv[0],
			Stderr:  stderr.String(),
			Err:     err,
		}
	}
	return nil
}
