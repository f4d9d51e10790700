package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, so a grandchild holding stdout open cannot stall a timed-out probe.
const waitDelay = 2 * time.Second

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive streamed output; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	Logger zerolog.Logger
}

// NewExecRunner returns an ExecRunner that streams to the process's own
// stdout/stderr and logs through logger.
func NewExecRunner(logger zerolog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

// Run executes c. See Runner for the error contract.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	if c.Stream {
		cmd.Stdout = io.MultiWriter(r.stdout(), &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.stderr(), &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	r.Logger.Debug().
		Str("cmd", c.String()).
		Dur("timeout", c.Timeout).
		Bool("stream", c.Stream).
		Msg("running command")

	start := time.Now()
	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			output.ExitCode = -1
			r.Logger.Debug().Str("cmd", c.String()).Err(ctxErr).Msg("command interrupted")
			if errors.Is(ctxErr, context.DeadlineExceeded) && c.Timeout > 0 {
				return output, fmt.Errorf("%w after %s: %s", ErrTimeout, c.Timeout, c)
			}
			return output, fmt.Errorf("running %s: %w", c, ctxErr)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			r.Logger.Debug().
				Str("cmd", c.String()).
				Int("exit_code", output.ExitCode).
				Dur("elapsed", time.Since(start)).
				Msg("command failed")
			return output, nil
		}
		output.ExitCode = -1
		return output, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	r.Logger.Debug().
		Str("cmd", c.String()).
		Dur("elapsed", time.Since(start)).
		Msg("command finished")
	return output, nil
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
