// Package interactive provides terminal user interface components
package interactive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// MenuOption represents a menu item with its associated action
type MenuOption struct {
	Name        string
	Description string
	Action      func() error
}

var (
	// ErrExit is returned when the user chooses to exit
	ErrExit = errors.New("exit")
	// ErrInvalidSelection is returned when an invalid menu option is selected
	ErrInvalidSelection = errors.New("invalid selection")
)

const exitChoice = "Exit"

// ShowMainMenu displays the main menu and handles user selection
func ShowMainMenu(options []MenuOption) error {
	choices := MenuChoices(options)
	optionMap := make(map[string]MenuOption, len(options))

	for i, opt := range options {
		optionMap[choices[i]] = opt
	}

	var selected string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: choices,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return ErrExit
	}

	if selected == exitChoice {
		return ErrExit
	}

	if option, ok := optionMap[selected]; ok {
		return option.Action()
	}

	return ErrInvalidSelection
}

// MenuChoices returns the labels shown for options, followed by Exit.
func MenuChoices(options []MenuOption) []string {
	choices := make([]string, 0, len(options)+1)
	for _, opt := range options {
		choices = append(choices, fmt.Sprintf("%s - %s", opt.Name, opt.Description))
	}

	return append(choices, exitChoice)
}

// PauseForEnter waits for the user to press Enter
func PauseForEnter() {
	fmt.Println("\nPress Enter to continue...")
	_, _ = fmt.Scanln()
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}

// Input asks for a free-form answer, returning def when nothing is entered.
func Input(message, def string) string {
	answer := def
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	_ = survey.AskOne(prompt, &answer)
	return strings.TrimSpace(answer)
}

// SurveyConfirmer asks yes/no questions on the terminal.
type SurveyConfirmer struct{}

// Confirm asks message and reports whether the answer was yes.
func (SurveyConfirmer) Confirm(message string) bool {
	return Confirm(message)
}
