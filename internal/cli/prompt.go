package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// field is one prompted value. Options turns it into a select.
type field struct {
	Title    string
	Value    *string
	Secret   bool
	Options  []string
	Validate func(string) error
}

// Prompter asks the user for the fields still missing.
type Prompter interface {
	Ask(fields ...field) error
}

type huhPrompter struct{}

func (huhPrompter) Ask(fields ...field) error {
	if len(fields) == 0 {
		return nil
	}

	items := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		if len(f.Options) > 0 {
			opts := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o, o))
			}
			items = append(items, huh.NewSelect[string]().
				Title(f.Title).
				Options(opts...).
				Value(f.Value))
			continue
		}

		input := huh.NewInput().
			Title(f.Title).
			Value(f.Value)
		if f.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		if f.Validate != nil {
			input = input.Validate(f.Validate)
		}
		items = append(items, input)
	}

	return huh.NewForm(huh.NewGroup(items...)).Run()
}

// missing returns the fields whose value is still blank.
func missing(fields ...field) []field {
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(*f.Value) == "" {
			out = append(out, f)
		}
	}
	return out
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
