package runner

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrTimeout is returned when a command exceeds its Timeout.
var ErrTimeout = errors.New("command timed out")

// Runner executes external commands.
type Runner interface {
	// Run executes cmd and waits for it to exit. A non-zero exit status is
	// reported through Output.ExitCode, not as an error; errors mean the
	// process could not be started, was killed, or timed out.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string

	// Timeout bounds the run when positive. Zero means no deadline beyond ctx.
	Timeout time.Duration

	// Stream copies output to the runner's writers while the command runs,
	// in addition to capturing it.
	Stream bool
}

// String renders the command line for logs and messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output captures the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with status zero.
func (o *Output) Success() bool {
	return o != nil && o.ExitCode == 0
}

// FirstLine returns the first non-empty line of stdout, trimmed. It falls
// back to stderr when stdout is empty.
func (o *Output) FirstLine() string {
	if o == nil {
		return ""
	}
	if line := firstLine(o.Stdout); line != "" {
		return line
	}
	return firstLine(o.Stderr)
}

// LastLine returns the last non-empty line of stdout, trimmed.
func (o *Output) LastLine() string {
	if o == nil {
		return ""
	}
	lines := strings.Split(o.Stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
