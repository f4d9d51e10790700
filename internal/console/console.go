// Package console prints the CLI's user-facing status lines. Each message
// class carries its own glyph and colour: success ✓, error ✗, info ℹ,
// warning ⚠. Errors go to the error stream, everything else to stdout.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Glyphs prefixed to each message class.
const (
	GlyphSuccess = "✓"
	GlyphError   = "✗"
	GlyphInfo    = "ℹ"
	GlyphWarning = "⚠"
)

// Printer writes glyph-prefixed, optionally coloured status lines.
type Printer struct {
	Out io.Writer
	Err io.Writer

	success *color.Color
	failure *color.Color
	info    *color.Color
	warning *color.Color
	bold    *color.Color
	header  *color.Color
}

// New returns a Printer writing to out and errOut. Colour is disabled when
// noColor is set, when NO_COLOR is present, or when stdout is not a terminal.
func New(out, errOut io.Writer, noColor bool) *Printer {
	p := &Printer{
		Out:     out,
		Err:     errOut,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
		bold:    color.New(color.Bold),
		header:  color.New(color.Bold, color.FgMagenta),
	}
	if noColor || color.NoColor {
		for _, c := range p.colors() {
			c.DisableColor()
		}
	}
	return p
}

// Stdio returns a Printer on the process's stdout and stderr.
func Stdio(noColor bool) *Printer {
	return New(os.Stdout, os.Stderr, noColor)
}

func (p *Printer) colors() []*color.Color {
	return []*color.Color{p.success, p.failure, p.info, p.warning, p.bold, p.header}
}

// Success prints a ✓ line to stdout.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.Out, p.success, GlyphSuccess, format, args...)
}

// Error prints a ✗ line to the error stream.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.Err, p.failure, GlyphError, format, args...)
}

// Info prints an ℹ line to stdout.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.Out, p.info, GlyphInfo, format, args...)
}

// Warn prints a ⚠ line to stdout.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.Out, p.warning, GlyphWarning, format, args...)
}

// Command prints an indented, bold command suggestion.
func (p *Printer) Command(text string) {
	fmt.Fprintf(p.Out, "  %s\n", p.bold.Sprint(text))
}

// Header prints a bold section title surrounded by blank lines.
func (p *Printer) Header(text string) {
	fmt.Fprintf(p.Out, "\n%s\n\n", p.header.Sprint(text))
}

func (p *Printer) line(w io.Writer, c *color.Color, glyph, format string, args ...any) {
	fmt.Fprintln(w, c.Sprintf("%s %s", glyph, fmt.Sprintf(format, args...)))
}
