package prompt

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mutagen-io/gopass"
)

// CommandLinePrompter is a Prompter that reads responses directly from the
// controlling terminal, used by bbup's interactive commands (setup questions,
// sync messages, and passphrase prompts).
type CommandLinePrompter struct{}

// Message prints message to standard output.
func (p CommandLinePrompter) Message(message string) error {
	fmt.Println(message)
	return nil
}

// Prompt prints prompt and reads a response from the terminal, choosing
// between echoed, masked, and un-echoed input based on the prompt text
// (determineResponseMode).
func (p CommandLinePrompter) Prompt(prompt string) (string, error) {
	var getter func() ([]byte, error)
	switch determineResponseMode(prompt) {
	case ResponseModeEcho, ResponseModeBinary:
		getter = gopass.GetPasswdEchoed
	case ResponseModeMasked:
		getter = gopass.GetPasswdMasked
	default:
		getter = gopass.GetPasswd
	}

	fmt.Print(prompt)

	response, err := getter()
	if err != nil {
		return "", errors.Wrap(err, "unable to read response")
	}

	return string(response), nil
}
