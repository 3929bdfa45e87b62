package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user for input.
type Prompter interface {
	Confirm(title string) (bool, error)
	Input(title string) (string, error)
	Password(title string) (string, error)
}

// HuhPrompter prompts on the terminal.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func (HuhPrompter) Input(title string) (string, error) {
	var s string
	err := huh.NewInput().Title(title).Value(&s).Run()
	return s, err
}

func (HuhPrompter) Password(title string) (string, error) {
	var s string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Validate(func(v string) error {
			if v == "" {
				return fmt.Errorf("password is required")
			}
			return nil
		}).
		Value(&s).
		Run()
	return s, err
}

// ScriptedPrompter answers prompts from fixed values. Used in tests and
// for non-interactive runs.
type ScriptedPrompter struct {
	Confirms  []bool
	Inputs    []string
	Passwords []string
}

func (p *ScriptedPrompter) Confirm(title string) (bool, error) {
	if len(p.Confirms) == 0 {
		return false, fmt.Errorf("unexpected confirmation: %s", title)
	}
	v := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return v, nil
}

func (p *ScriptedPrompter) Input(title string) (string, error) {
	if len(p.Inputs) == 0 {
		return "", fmt.Errorf("unexpected prompt: %s", title)
	}
	v := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return v, nil
}

func (p *ScriptedPrompter) Password(title string) (string, error) {
	if len(p.Passwords) == 0 {
		return "", fmt.Errorf("unexpected password prompt: %s", title)
	}
	v := p.Passwords[0]
	p.Passwords = p.Passwords[1:]
	return v, nil
}
