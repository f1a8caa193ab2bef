package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/fran314/bbup/pkg/prompt"
)

// StatusLinePrinter provides printing facilities for a dynamically updating
// status line in the console, used to render sync progress (§6.3). It
// supports colorized printing.
type StatusLinePrinter struct {
	// UseStandardError causes the printer to use standard error for its
	// output instead of standard output (the default).
	UseStandardError bool
	// nonEmpty indicates whether the printer has printed any non-empty
	// content to the status line.
	nonEmpty bool
}

// Print prints a message to the status line, overwriting any existing
// content. Messages are truncated or padded to a platform-dependent fixed
// width so every print fully overwrites whatever was there before.
func (p *StatusLinePrinter) Print(message string) {
	output := color.Output
	if p.UseStandardError {
		output = color.Error
	}
	fmt.Fprintf(output, statusLineFormat, message)
	p.nonEmpty = true
}

// Clear clears any content on the status line and returns the cursor to the
// beginning of the line.
func (p *StatusLinePrinter) Clear() {
	p.Print("")

	output := os.Stdout
	if p.UseStandardError {
		output = os.Stderr
	}
	fmt.Fprint(output, "\r")

	p.nonEmpty = false
}

// BreakIfNonEmpty prints a newline if the current line is non-empty.
func (p *StatusLinePrinter) BreakIfNonEmpty() {
	if !p.nonEmpty {
		return
	}

	output := os.Stdout
	if p.UseStandardError {
		output = os.Stderr
	}
	fmt.Fprintln(output)

	p.nonEmpty = false
}

// StatusLinePrompter adapts a StatusLinePrinter to act as a prompt.Prompter,
// used when the SSH tunnel (pkg/tunnel) needs a host-key confirmation or key
// passphrase while a sync progress line is already on screen.
type StatusLinePrompter struct {
	// Printer is the underlying printer.
	Printer *StatusLinePrinter
}

// Message implements prompt.Prompter.Message.
func (p *StatusLinePrompter) Message(message string) error {
	p.Printer.Print(message)
	return nil
}

// Prompt implements prompt.Prompter.Prompt. If the status line has existing
// content, it's preserved on its own line first, since it likely provides
// context for the prompt that follows.
func (p *StatusLinePrompter) Prompt(message string) (string, error) {
	p.Printer.BreakIfNonEmpty()
	return prompt.CommandLinePrompter{}.Prompt(message)
}
