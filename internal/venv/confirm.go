package venv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultConfirmToken is the word an operator must type to confirm deletion.
const DefaultConfirmToken = "yes"

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// PromptConfirmer reads one line from In after writing the prompt to Out.
// The answer must equal Token, ignoring case. Only the line ending is
// stripped; " yes " does not confirm.
type PromptConfirmer struct {
	In    io.Reader
	Out   io.Writer
	Token string
}

// Confirm implements Confirmer. End of input counts as a refusal.
func (p *PromptConfirmer) Confirm(prompt string) (bool, error) {
	token := p.Token
	if token == "" {
		token = DefaultConfirmToken
	}

	fmt.Fprint(p.Out, prompt)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) {
		// Keep the prompt line terminated when stdin closes without a newline.
		fmt.Fprintln(p.Out)
	}
	return strings.EqualFold(strings.TrimRight(line, "\r\n"), token), nil
}

// StaticConfirmer answers every prompt with the same value.
type StaticConfirmer bool

// Confirm implements Confirmer.
func (s StaticConfirmer) Confirm(string) (bool, error) {
	return bool(s), nil
}
