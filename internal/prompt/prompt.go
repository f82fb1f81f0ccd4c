package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/erikgeiser/promptkit"
	"github.com/erikgeiser/promptkit/selection"
	"golang.org/x/term"
)

// Prompter asks the user to pick one of choices. ok is false when the
// prompt was dismissed; callers must treat that like a negative answer.
type Prompter interface {
	Confirm(ctx context.Context, message string, choices []string) (choice string, ok bool, err error)
}

// Selector picks one item from a longer list (template names etc).
type Selector interface {
	Select(ctx context.Context, message string, choices []string) (choice string, ok bool, err error)
}

// Terminal 基于终端的交互实现；标准输入不是 TTY 时视为用户取消
type Terminal struct {
	In *os.File
}

func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin}
}

var isTerminal = func(fd int) bool { return term.IsTerminal(fd) }

func (t *Terminal) interactive() bool {
	in := t.In
	if in == nil {
		in = os.Stdin
	}
	return isTerminal(int(in.Fd()))
}

// Confirm renders a single-select form.
func (t *Terminal) Confirm(ctx context.Context, message string, choices []string) (string, bool, error) {
	if len(choices) == 0 || !t.interactive() {
		return "", false, nil
	}

	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c, c))
	}

	var selected string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(message).
			Options(opts...).
			Value(&selected),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	return selected, true, nil
}

// Select uses a filterable list, which suits long template catalogs.
func (t *Terminal) Select(ctx context.Context, message string, choices []string) (string, bool, error) {
	if len(choices) == 0 || !t.interactive() {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	sp := selection.New(message, choices)
	sp.PageSize = 10
	choice, err := sp.RunPrompt()
	if err != nil {
		if errors.Is(err, promptkit.ErrAborted) {
			return "", false, nil
		}
		return "", false, err
	}
	return choice, true, nil
}

// AssumeYes answers every prompt with its last choice (--yes).
type AssumeYes struct{}

func (AssumeYes) Confirm(_ context.Context, _ string, choices []string) (string, bool, error) {
	if len(choices) == 0 {
		return "", false, nil
	}
	return choices[len(choices)-1], true, nil
}
