package runner

import "context"

// Fake is a Runner that records every command and answers through Handler.
// A nil Handler makes every command succeed with empty output.
type Fake struct {
	Handler func(Command) (*Output, error)
	Calls   []Command
}

// Run records c and delegates to Handler.
func (f *Fake) Run(_ context.Context, c Command) (*Output, error) {
	f.Calls = append(f.Calls, c)
	if f.Handler == nil {
		return &Output{}, nil
	}
	return f.Handler(c)
}

// CallsTo returns the recorded commands whose Name equals name.
func (f *Fake) CallsTo(name string) []Command {
	var out []Command
	for _, c := range f.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Exit builds an Output with the given exit code and stdout.
func Exit(code int, stdout string) *Output {
	return &Output{ExitCode: code, Stdout: stdout}
}
