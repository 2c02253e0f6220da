// Package prompt defines the interaction capability the bootstrap core asks
// its caller for. Headless callers pass no Prompter at all; interactive ones
// use the huh-backed implementation.
package prompt

import (
	"fmt"

	"github.com/pagemark/docview/internal/messages"
)

// Prompter supplies the two interactions the core ever needs.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)

	// ChooseDirectory asks for a directory path. An empty answer means the
	// user skipped the question.
	ChooseDirectory(question, def string) (string, error)
}

// ConfirmFunc answers a yes/no question.
type ConfirmFunc func(question string) (bool, error)

// ChooseDirectoryFunc answers a directory question.
type ChooseDirectoryFunc func(question, def string) (string, error)

// Funcs adapts optional callbacks into a Prompter.
type Funcs struct {
	ConfirmFunc         ConfirmFunc
	ChooseDirectoryFunc ChooseDirectoryFunc
}

// Confirm calls ConfirmFunc. Returns an error if none is configured.
func (f Funcs) Confirm(question string) (bool, error) {
	if f.ConfirmFunc == nil {
		return false, fmt.Errorf(messages.PromptConfirmRequired)
	}
	return f.ConfirmFunc(question)
}

// ChooseDirectory calls ChooseDirectoryFunc. Returns an error if none is
// configured.
func (f Funcs) ChooseDirectory(question, def string) (string, error) {
	if f.ChooseDirectoryFunc == nil {
		return "", fmt.Errorf(messages.PromptChooseDirectoryRequired)
	}
	return f.ChooseDirectoryFunc(question, def)
}
