package prompt

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/pagemark/docview/internal/messages"
	"github.com/pagemark/docview/internal/terminal"
)

// Huh implements Prompter using charmbracelet/huh forms.
type Huh struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuh creates a Huh prompter using the default terminal check.
func NewHuh() *Huh {
	return &Huh{isTerminal: terminal.IsInteractive}
}

// ensureInteractive returns an error when invoked without a terminal.
func (p *Huh) ensureInteractive() error {
	checker := p.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return fmt.Errorf(messages.PromptRequiresTerminal)
}

// Confirm asks a yes/no question.
func (p *Huh) Confirm(question string) (bool, error) {
	if err := p.ensureInteractive(); err != nil {
		return false, err
	}
	var answer bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(question).Value(&answer),
	))
	if err := runFormFunc(form); err != nil {
		return false, err
	}
	return answer, nil
}

// ChooseDirectory asks for a directory path. Submitting an empty value
// skips the question.
func (p *Huh) ChooseDirectory(question, def string) (string, error) {
	if err := p.ensureInteractive(); err != nil {
		return "", err
	}
	answer := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(question).Placeholder(def).Value(&answer),
	))
	if err := runFormFunc(form); err != nil {
		return "", err
	}
	return answer, nil
}
