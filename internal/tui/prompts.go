package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInteractiveDisabled is returned when prompts are disabled via
// SLOTTING_NO_INTERACTIVE or no terminal is attached
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// ErrCanceled is returned when the user interrupts a prompt
var ErrCanceled = errors.New("canceled")

// checkInteractiveAllowed returns an error when prompting is not possible
func checkInteractiveAllowed() error {
	if os.Getenv("SLOTTING_NO_INTERACTIVE") != "" || !IsTTY() {
		return ErrInteractiveDisabled
	}
	return nil
}

// PromptConfirm asks a yes/no question
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, ErrCanceled
		}
		return false, fmt.Errorf("failed to prompt: %w", err)
	}
	return answer, nil
}
